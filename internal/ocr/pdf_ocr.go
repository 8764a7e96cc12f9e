package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ledongthuc/pdf"
)

// pdfToText reads the embedded text layer page by page.
func (e *Extractor) pdfToText(path string) (pages []string, warnings []string, err error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	n := r.NumPage()
	if e.cfg.MaxPages > 0 && n > e.cfg.MaxPages {
		n = e.cfg.MaxPages
	}
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		txt, perr := p.GetPlainText(nil)
		if perr != nil {
			warnings = append(warnings, fmt.Sprintf("page %d: %v", i, perr))
			pages = append(pages, "")
			continue
		}
		pages = append(pages, foldLineEndings(txt))
	}
	return pages, warnings, nil
}

func (e *Extractor) pdfToOCR(ctx context.Context, path string) (pages []string, warnings []string, err error) {
	tmpDir, err := e.scratchDir("fa-pp-*")
	if err != nil {
		return nil, nil, err
	}
	defer func(path string) {
		if err := os.RemoveAll(path); err != nil {
			e.logger.Warn("failed to remove temp dir", "path", path, "error", err)
		}
	}(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	args := []string{"-r", fmt.Sprintf("%d", e.cfg.DPI), "-png"}
	if e.cfg.MaxPages > 0 {
		args = append(args, "-l", fmt.Sprintf("%d", e.cfg.MaxPages))
	}
	args = append(args, path, prefix)
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, args...)
	if err != nil {
		return nil, []string{string(errb)}, err
	}

	// collect generated pngs; pdftoppm zero-pads page numbers so lexical order is page order
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return nil, []string{"pdftoppm produced no images"}, fmt.Errorf("no pages rendered")
	}

	pages = make([]string, 0, len(matches))
	for i, img := range matches {
		if err := ctx.Err(); err != nil {
			return pages, warnings, err
		}
		txt, w, err := e.tesseractOCR(ctx, img)
		if err != nil {
			// keep page numbering stable
			warnings = append(warnings, fmt.Sprintf("page %d: %v", i+1, err))
			pages = append(pages, "")
			continue
		}
		warnings = append(warnings, w...)
		pages = append(pages, foldLineEndings(txt))
	}
	return pages, warnings, nil
}
