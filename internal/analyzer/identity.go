package analyzer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/file-analyzer/constants"
	"github.com/joseph-ayodele/file-analyzer/internal/common"
	"github.com/joseph-ayodele/file-analyzer/internal/export"
	"github.com/joseph-ayodele/file-analyzer/internal/identity"
)

// IdentityScan is the outcome of ScanIdentity.
type IdentityScan struct {
	Source      string
	Match       identity.Match
	PageCount   int
	WorkbookRow int
	JSONPath    string
	Warnings    []string
}

// ScanIdentity extracts per-page text from a document and stops at the first
// page carrying an identifier. The record is written as a JSON document and
// stored in history, then appended to the identity workbook. A document with
// no identifier on any page returns common.ErrNoMatch.
func (s *Service) ScanIdentity(ctx context.Context, path string) (*IdentityScan, error) {
	start := time.Now()
	if err := requireFile(path); err != nil {
		return nil, err
	}
	if constants.MapExtToFormat(filepath.Ext(path)) == "" {
		return nil, common.InvalidInputErrorf("unsupported document type %q: use a PDF or an image", filepath.Ext(path))
	}
	ctx, runID := withRun(ctx)
	ctx = common.WithSource(ctx, path)

	ocrCtx, cancel := common.WithTimeout(ctx, s.cfg.OCR.Timeout)
	set, err := s.pages.Pages(ocrCtx, path)
	cancel()
	if err != nil {
		return nil, common.WrapError(err, "extract pages")
	}

	m, ok := identity.ScanPages(set.Pages)
	if !ok {
		s.logger.Info("no identifier found", "run_id", runID, "path", path, "pages", len(set.Pages))
		return nil, common.ErrNoMatch
	}
	m.Record.ID = runID

	out := &IdentityScan{
		Source:    path,
		Match:     m,
		PageCount: len(set.Pages),
		JSONPath:  filepath.Join(s.cfg.Output.Dir, "identity", runID+".json"),
		Warnings:  set.Warnings,
	}

	if err := s.exporter.WriteIdentityJSON(out.JSONPath, export.NewIdentityDocument(path, m)); err != nil {
		return nil, err
	}
	if _, err := s.identities.SaveIdentity(ctx, path, m); err != nil {
		return nil, err
	}
	if _, err := s.results.SaveResult(ctx, constants.AnalysisIdentity, path, RenderMatch(m)); err != nil {
		return nil, err
	}

	// the workbook row goes last so a failed scan never leaves a row behind
	s.workbookMu.Lock()
	out.WorkbookRow, err = s.exporter.AppendIdentity(s.cfg.IdentityWorkbook(), m.Record)
	s.workbookMu.Unlock()
	if err != nil {
		return nil, err
	}

	s.logger.Info("identity found",
		"run_id", runID,
		"path", path,
		"page", m.Page,
		"method", set.Method,
		"row", out.WorkbookRow,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// RenderMatch formats a match as the block shown to the user and stored as
// the identity summary.
func RenderMatch(m identity.Match) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Identifier detected on page %d\n", m.Page)
	fmt.Fprintf(&b, "Name: %s\n", m.Record.DisplayName())
	fmt.Fprintf(&b, "DOB: %s\n", m.Record.DisplayDateOfBirth())
	fmt.Fprintf(&b, "Gender: %s\n", m.Record.DisplayGender())
	fmt.Fprintf(&b, "ID Number: %s", m.Record.Identifier)
	return b.String()
}
