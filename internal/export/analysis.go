package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/file-analyzer/internal/common"
)

// AnalysisSheet is the single sheet of the analysis export workbook.
const AnalysisSheet = "Analysis Report"

// Entry is one exported analysis: a label such as "Text Analysis" and its rendered details.
type Entry struct {
	Type    string
	Details string
}

// AnalysisXLSX returns an XLSX workbook (as bytes) with one row per entry.
func (s *Service) AnalysisXLSX(entries []Entry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, common.ErrNoAnalysis
	}
	start := time.Now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), AnalysisSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeRow(f, AnalysisSheet, 1, []string{"Analysis Type", "Details"}); err != nil {
		return nil, err
	}

	wrap, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return nil, fmt.Errorf("new style: %w", err)
	}

	for i, e := range entries {
		row := i + 2
		if err := writeRow(f, AnalysisSheet, row, []string{e.Type, e.Details}); err != nil {
			return nil, err
		}
		cell, _ := excelize.CoordinatesToCellName(2, row)
		_ = f.SetCellStyle(AnalysisSheet, cell, cell, wrap)
	}

	_ = f.SetColWidth(AnalysisSheet, "A", "A", 18)
	_ = f.SetColWidth(AnalysisSheet, "B", "B", 80)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.analysis.ok",
		"rows", len(entries),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
