package analyzer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/file-analyzer/constants"
	"github.com/joseph-ayodele/file-analyzer/internal/common"
	"github.com/joseph-ayodele/file-analyzer/internal/export"
	"github.com/joseph-ayodele/file-analyzer/internal/report"
)

// latest returns the newest summary of kind, or "" when none has been recorded.
func (s *Service) latest(ctx context.Context, kind constants.AnalysisKind) (string, error) {
	res, err := s.results.LatestResult(ctx, kind)
	if errors.Is(err, common.ErrNoAnalysis) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return res.Summary, nil
}

// ExportAnalysis writes the latest text and CSV results to the analysis
// workbook and returns its path. With neither recorded it returns
// common.ErrNoAnalysis and writes nothing.
func (s *Service) ExportAnalysis(ctx context.Context) (string, error) {
	var entries []export.Entry
	for _, kind := range []constants.AnalysisKind{constants.AnalysisText, constants.AnalysisCSV} {
		summary, err := s.latest(ctx, kind)
		if err != nil {
			return "", err
		}
		if summary != "" {
			entries = append(entries, export.Entry{Type: kind.Label(), Details: summary})
		}
	}

	data, err := s.exporter.AnalysisXLSX(entries)
	if err != nil {
		return "", err
	}
	path := s.cfg.AnalysisWorkbook()
	if err := writeFile(path, data); err != nil {
		return "", err
	}
	s.logger.Info("analysis exported", "path", path, "entries", len(entries))
	return path, nil
}

// FinalSummary writes the multi-section project summary from the latest
// results of every kind and returns its path. Missing sections read "None".
func (s *Service) FinalSummary(ctx context.Context) (string, error) {
	var sec report.Sections
	var err error
	if sec.Text, err = s.latest(ctx, constants.AnalysisText); err != nil {
		return "", err
	}
	if sec.CSV, err = s.latest(ctx, constants.AnalysisCSV); err != nil {
		return "", err
	}
	if sec.OCR, err = s.latest(ctx, constants.AnalysisIdentity); err != nil {
		return "", err
	}

	path := s.cfg.SummaryFile()
	if err := writeFile(path, []byte(report.FinalSummary(sec, s.now()))); err != nil {
		return "", err
	}
	s.logger.Info("final summary written", "path", path)
	return path, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
