// Package report writes analysis results to disk as plain text, a PDF
// document with an optional chart, and the final multi-section summary.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/joseph-ayodele/file-analyzer/constants"
)

// Report file names inside the reports directory.
const (
	TextReportFile     = "analysis_report.txt"
	DocumentReportFile = "analysis_report.pdf"
)

// WriteText writes body to path, creating parent directories.
func WriteText(path, body string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// WriteDocument writes a one-section PDF report. chartPath may be empty.
func WriteDocument(path, body, chartPath string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "File Analysis Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, tr(strings.TrimSpace(body)), "", "L", false)

	if chartPath != "" {
		pdf.Ln(4)
		pdf.ImageOptions(chartPath, pdf.GetX(), pdf.GetY(), 150, 0, true,
			gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, "Generated using "+constants.ToolName, "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// Sections are the bodies of the final summary; empty ones render as "None".
type Sections struct {
	Text string
	CSV  string
	OCR  string
}

const rule = "-----------------------------------------"

// FinalSummary renders the multi-section project summary stamped with now.
func FinalSummary(s Sections, now time.Time) string {
	var b strings.Builder
	b.WriteString("FILE ANALYZER TOOL - FINAL PROJECT SUMMARY\n")
	fmt.Fprintf(&b, "Date      : %s\n", now.Format("02-01-2006 | Time: 03:04 PM"))
	fmt.Fprintf(&b, "Version   : %s\n", constants.Version)
	b.WriteString(rule + "\n\n")
	writeSection(&b, "TEXT ANALYSIS", s.Text)
	writeSection(&b, "CSV ANALYSIS", s.CSV)
	writeSection(&b, "OCR IDENTITY", s.OCR)
	b.WriteString(rule + "\n")
	b.WriteString("Generated using " + constants.ToolName + "\n")
	return b.String()
}

func writeSection(b *strings.Builder, title, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		body = "None"
	}
	b.WriteString(title + "\n")
	b.WriteString(body + "\n\n")
}
