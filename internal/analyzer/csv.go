package analyzer

import (
	"bytes"
	"context"

	"github.com/joseph-ayodele/file-analyzer/constants"
	"github.com/joseph-ayodele/file-analyzer/internal/common"
	"github.com/joseph-ayodele/file-analyzer/internal/csvstats"
)

// AnalyzeCSV summarizes a CSV file and records the rendered summary.
func (s *Service) AnalyzeCSV(ctx context.Context, path string) (csvstats.Summary, error) {
	data, err := readInput(path)
	if err != nil {
		return csvstats.Summary{}, err
	}
	ctx, runID := withRun(ctx)

	sum, err := csvstats.Describe(bytes.NewReader(data))
	if err != nil {
		return csvstats.Summary{}, common.WrapError(err, "describe "+path)
	}
	if _, err := s.results.SaveResult(ctx, constants.AnalysisCSV, path, sum.String()); err != nil {
		return csvstats.Summary{}, err
	}
	s.logger.Info("csv analysis complete", "run_id", runID, "path", path, "rows", sum.Rows, "columns", len(sum.Columns))
	return sum, nil
}
