package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/file-analyzer/constants"
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit

	TessdataDir   string
	HeicConverter string

	// TextLayer reads embedded PDF text instead of rasterizing; pages
	// without a text layer still go through OCR.
	TextLayer bool

	PSM int // e.g., 6 is good for uniform block of text
	OEM int // 1 = LSTM; leave 0 to use default

	ArtifactCacheDir string
}

// PageSet is the text of a document, one entry per page in reading order.
// Pages hold the engine output with only line endings folded; use
// Normalize before showing them to a person.
type PageSet struct {
	Pages      []string
	SourceType string // constants.PDF | constants.IMAGE
	Method     string // "pdf-text" | "pdf-ocr" | "image-ocr"
	Language   string
	Duration   time.Duration
	Warnings   []string
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.ArtifactCacheDir == "" {
		cfg.ArtifactCacheDir = "./tmp"
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// WithRunner swaps the command runner, mainly for tests.
func (e *Extractor) WithRunner(r Runner) *Extractor {
	e.runner = r
	return e
}

// Pages picks a strategy based on file extension and returns per-page text.
func (e *Extractor) Pages(ctx context.Context, path string) (PageSet, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("starting ocr extraction", "path", path, "ext", ext)
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res, err := e.extractPDF(ctx, path)
		res.Duration = time.Since(start)
		return res, err
	case constants.IMAGE:
		var warns []string
		if constants.IsHEICExt(ext) {
			out, w, cleanup, err := convertHEICtoPNG(ctx, e.runner, e.cfg.HeicConverter, e.cfg.ArtifactCacheDir, path)
			if cleanup != nil {
				defer cleanup()
			}
			warns = append(warns, w...)
			if err != nil {
				e.logger.Error("heic conversion failed", "path", path, "error", err)
				return PageSet{SourceType: constants.IMAGE, Warnings: warns}, err
			}
			path = out
		}
		res, err := e.extractImage(ctx, path)
		res.Duration = time.Since(start)
		res.Warnings = append(res.Warnings, warns...)
		return res, err
	default:
		e.logger.Error("unsupported ocr extension", "extension", ext)
		return PageSet{}, fmt.Errorf("unsupported extension: %q", ext)
	}
}

func (e *Extractor) extractPDF(ctx context.Context, path string) (PageSet, error) {
	if e.cfg.TextLayer {
		pages, warns, err := e.pdfToText(path)
		if err == nil && hasText(pages) {
			return PageSet{
				Pages:      pages,
				SourceType: constants.PDF,
				Method:     "pdf-text",
				Warnings:   warns,
			}, nil
		}
		if err != nil {
			warns = append(warns, err.Error())
		}
		e.logger.Info("pdf has no usable text layer, falling back to ocr", "path", path)
	}

	pages, warns, err := e.pdfToOCR(ctx, path)
	if err != nil {
		return PageSet{SourceType: constants.PDF, Warnings: warns}, fmt.Errorf("pdf ocr: %w", err)
	}
	return PageSet{
		Pages:      pages,
		SourceType: constants.PDF,
		Method:     "pdf-ocr",
		Language:   e.cfg.TesseractLang,
		Warnings:   warns,
	}, nil
}

// scratchDir creates a temporary directory under the artifact cache dir.
func (e *Extractor) scratchDir(pattern string) (string, error) {
	if err := os.MkdirAll(e.cfg.ArtifactCacheDir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact cache dir: %w", err)
	}
	return os.MkdirTemp(e.cfg.ArtifactCacheDir, pattern)
}

func hasText(pages []string) bool {
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}
