package ocr

import (
	"context"
	"fmt"

	"github.com/joseph-ayodele/file-analyzer/constants"
)

func (e *Extractor) extractImage(ctx context.Context, path string) (PageSet, error) {
	txt, warn, err := e.tesseractOCR(ctx, path)
	if err != nil {
		return PageSet{SourceType: constants.IMAGE, Warnings: warn}, err
	}
	return PageSet{
		Pages:      []string{foldLineEndings(txt)},
		SourceType: constants.IMAGE,
		Method:     "image-ocr",
		Language:   e.cfg.TesseractLang,
		Warnings:   warn,
	}, nil
}

func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, []string, error) {
	// tesseract <file> stdout -l <lang>
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", fmt.Sprintf("%d", e.cfg.PSM))
	}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", fmt.Sprintf("%d", e.cfg.OEM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}
	return string(out), nil, nil
}
