package export

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/file-analyzer/internal/identity"
)

// IdentitySheet is the sheet name used when a new identity workbook is created.
const IdentitySheet = "Identity Records"

var identityHeaders = []string{"Name", "ID Number", "DOB", "Gender"}

// Service writes analysis results to spreadsheets and JSON files.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// AppendIdentity appends one record to the active sheet of the workbook at
// path, creating the workbook with a header row when it does not exist.
// It returns the 1-based row number written.
func (s *Service) AppendIdentity(path string, rec identity.Record) (int, error) {
	start := time.Now()

	f, created, err := openOrCreate(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.logger.Warn("close workbook", "path", path, "error", cerr)
		}
	}()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if created {
		if err := f.SetSheetName(sheet, IdentitySheet); err != nil {
			return 0, fmt.Errorf("rename sheet: %w", err)
		}
		sheet = IdentitySheet
		if err := writeRow(f, sheet, 1, identityHeaders); err != nil {
			return 0, err
		}
		_ = f.SetColWidth(sheet, "A", "A", 28) // name
		_ = f.SetColWidth(sheet, "B", "B", 20) // id number
		_ = f.SetColWidth(sheet, "C", "D", 14) // dob, gender
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return 0, fmt.Errorf("read rows: %w", err)
	}
	row := len(rows) + 1
	if err := writeRow(f, sheet, row, rec.Row()); err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create workbook dir: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return 0, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.identity.ok",
		"path", path,
		"row", row,
		"created", created,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return row, nil
}

func openOrCreate(path string) (*excelize.File, bool, error) {
	f, err := excelize.OpenFile(path)
	if err == nil {
		return f, false, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return excelize.NewFile(), true, nil
	}
	return nil, false, fmt.Errorf("open workbook %s: %w", path, err)
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set %s: %w", cell, err)
		}
	}
	return nil
}
