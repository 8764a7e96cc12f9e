package analyzer

import (
	"context"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/file-analyzer/constants"
	"github.com/joseph-ayodele/file-analyzer/internal/report"
	"github.com/joseph-ayodele/file-analyzer/internal/textstats"
)

// TextReport is the outcome of AnalyzeText.
type TextReport struct {
	Source       string
	Stats        textstats.Stats
	Summary      string
	ChartPath    string // empty when the text had no words
	TextPath     string
	DocumentPath string
}

// AnalyzeText computes word statistics for a text file, draws the top-words
// chart, and writes the text and PDF reports.
func (s *Service) AnalyzeText(ctx context.Context, path string) (*TextReport, error) {
	start := time.Now()
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	ctx, runID := withRun(ctx)

	stats := textstats.Analyze(string(data))
	out := &TextReport{
		Source:       path,
		Stats:        stats,
		Summary:      stats.Summary(),
		TextPath:     filepath.Join(s.cfg.ReportsDir(), report.TextReportFile),
		DocumentPath: filepath.Join(s.cfg.ReportsDir(), report.DocumentReportFile),
	}

	chartPath := filepath.Join(s.cfg.ChartsDir(), report.ChartFile)
	drawn, err := report.WordChart(stats.TopWords(5), chartPath)
	if err != nil {
		return nil, err
	}
	if drawn {
		out.ChartPath = chartPath
	}

	if err := report.WriteText(out.TextPath, out.Summary); err != nil {
		return nil, err
	}
	if err := report.WriteDocument(out.DocumentPath, out.Summary, out.ChartPath); err != nil {
		return nil, err
	}

	if _, err := s.results.SaveResult(ctx, constants.AnalysisText, path, out.Summary); err != nil {
		return nil, err
	}
	s.logger.Info("text analysis complete",
		"run_id", runID,
		"path", path,
		"total_words", stats.TotalWords,
		"chart", out.ChartPath != "",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// SearchKeyword counts case-insensitive occurrences of keyword in a text file.
func (s *Service) SearchKeyword(_ context.Context, path, keyword string) (int, error) {
	data, err := readInput(path)
	if err != nil {
		return 0, err
	}
	n, err := textstats.CountKeyword(string(data), keyword)
	if err != nil {
		return 0, err
	}
	s.logger.Debug("keyword search", "path", path, "keyword", keyword, "count", n)
	return n, nil
}

// SpecialChars counts characters that are neither letters, digits nor whitespace.
func (s *Service) SpecialChars(_ context.Context, path string) (int, error) {
	data, err := readInput(path)
	if err != nil {
		return 0, err
	}
	n := textstats.CountSpecialChars(string(data))
	s.logger.Debug("special characters", "path", path, "count", n)
	return n, nil
}
