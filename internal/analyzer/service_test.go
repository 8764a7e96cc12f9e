package analyzer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/joseph-ayodele/file-analyzer/constants"
	"github.com/joseph-ayodele/file-analyzer/internal/common"
	"github.com/joseph-ayodele/file-analyzer/internal/ocr"
	"github.com/joseph-ayodele/file-analyzer/internal/repository"
)

type stubPages struct {
	pages []string
	err   error
	calls int
}

func (s *stubPages) Pages(context.Context, string) (ocr.PageSet, error) {
	s.calls++
	if s.err != nil {
		return ocr.PageSet{}, s.err
	}
	return ocr.PageSet{Pages: s.pages, SourceType: constants.PDF, Method: "stub"}, nil
}

type fixture struct {
	svc   *Service
	pages *stubPages
	cfg   *common.Config
	db    *repository.DB
	dir   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	db, err := repository.Open(context.Background(), repository.Config{InMemory: true}, nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { repository.Close(db, nil) })

	cfg := &common.Config{Output: common.OutputConfig{Dir: filepath.Join(dir, "output")}}
	pages := &stubPages{}
	svc := NewService(nil, cfg, pages,
		repository.NewResultRepository(db, nil),
		repository.NewIdentityRepository(db, nil))
	svc.now = func() time.Time { return time.Date(2025, 3, 9, 14, 5, 0, 0, time.UTC) }
	return &fixture{svc: svc, pages: pages, cfg: cfg, db: db, dir: dir}
}

func (f *fixture) input(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func mustExist(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected %s to exist: %v", path, err)
	}
}

func TestAnalyzeText(t *testing.T) {
	f := newFixture(t)
	path := f.input(t, "notes.txt", "the cat and the dog\nmail me at a.b@example.com or call 42\n")

	rep, err := f.svc.AnalyzeText(context.Background(), path)
	if err != nil {
		t.Fatalf("AnalyzeText() error = %v", err)
	}
	if rep.Stats.TotalWords != 12 {
		t.Errorf("TotalWords = %d, want 12", rep.Stats.TotalWords)
	}
	if !strings.Contains(rep.Summary, "Most Frequent Word: the (2)") {
		t.Errorf("Summary = %q", rep.Summary)
	}
	mustExist(t, rep.ChartPath)
	mustExist(t, rep.TextPath)
	mustExist(t, rep.DocumentPath)

	res, err := repository.NewResultRepository(f.db, nil).LatestResult(context.Background(), constants.AnalysisText)
	if err != nil {
		t.Fatalf("LatestResult() error = %v", err)
	}
	if res.SourcePath != path || res.Summary != rep.Summary {
		t.Errorf("stored result = %+v", res)
	}
}

func TestAnalyzeText_EmptyFileHasNoChart(t *testing.T) {
	f := newFixture(t)
	rep, err := f.svc.AnalyzeText(context.Background(), f.input(t, "empty.txt", ""))
	if err != nil {
		t.Fatalf("AnalyzeText() error = %v", err)
	}
	if rep.ChartPath != "" {
		t.Errorf("ChartPath = %q, want none", rep.ChartPath)
	}
	mustExist(t, rep.DocumentPath)
}

func TestMissingInputIsNotFound(t *testing.T) {
	f := newFixture(t)
	missing := filepath.Join(f.dir, "nope.txt")
	ctx := context.Background()

	if _, err := f.svc.AnalyzeText(ctx, missing); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("AnalyzeText error = %v", err)
	}
	if _, err := f.svc.AnalyzeCSV(ctx, missing); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("AnalyzeCSV error = %v", err)
	}
	if _, err := f.svc.ScanIdentity(ctx, missing); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("ScanIdentity error = %v", err)
	}
	if _, err := f.svc.SearchKeyword(ctx, missing, "x"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("SearchKeyword error = %v", err)
	}
	if _, err := f.svc.SpecialChars(ctx, missing); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("SpecialChars error = %v", err)
	}
	if f.pages.calls != 0 {
		t.Errorf("page source called %d times for a missing file", f.pages.calls)
	}
}

func TestSearchKeywordAndSpecialChars(t *testing.T) {
	f := newFixture(t)
	path := f.input(t, "t.txt", "Go go GO! #gophers @home")

	n, err := f.svc.SearchKeyword(context.Background(), path, "go")
	if err != nil || n != 4 {
		t.Errorf("SearchKeyword() = %d, %v, want 4", n, err)
	}
	if _, err := f.svc.SearchKeyword(context.Background(), path, ""); !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("empty keyword error = %v", err)
	}
	n, err = f.svc.SpecialChars(context.Background(), path)
	if err != nil || n != 3 {
		t.Errorf("SpecialChars() = %d, %v, want 3", n, err)
	}
}

func TestAnalyzeCSV(t *testing.T) {
	f := newFixture(t)
	path := f.input(t, "data.csv", "name,age\nann,30\nbob,40\n")

	sum, err := f.svc.AnalyzeCSV(context.Background(), path)
	if err != nil {
		t.Fatalf("AnalyzeCSV() error = %v", err)
	}
	if sum.Rows != 2 || len(sum.Numeric) != 1 || sum.Numeric[0].Mean != 35 {
		t.Errorf("summary = %+v", sum)
	}
	if _, err := f.svc.AnalyzeCSV(context.Background(), f.input(t, "empty.csv", "")); !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("empty csv error = %v", err)
	}
}

func TestScanIdentity(t *testing.T) {
	f := newFixture(t)
	f.pages.pages = []string{
		"GOVERNMENT ISSUED CARD",
		"Name: JOHN SMITH\nDOB: 01/02/1990\nMale\n1234 5678 9012",
	}
	path := f.input(t, "card.pdf", "")

	scan, err := f.svc.ScanIdentity(context.Background(), path)
	if err != nil {
		t.Fatalf("ScanIdentity() error = %v", err)
	}
	if scan.Match.Page != 2 || scan.Match.Record.Identifier != "1234 5678 9012" || scan.WorkbookRow != 2 {
		t.Errorf("scan = %+v", scan)
	}
	if scan.Match.Record.DisplayGender() != "Male" {
		t.Errorf("gender = %q", scan.Match.Record.DisplayGender())
	}
	mustExist(t, scan.JSONPath)
	mustExist(t, f.cfg.IdentityWorkbook())

	f.pages.pages = []string{"9999-8888-7777"}
	scan, err = f.svc.ScanIdentity(context.Background(), path)
	if err != nil {
		t.Fatalf("second ScanIdentity() error = %v", err)
	}
	if scan.WorkbookRow != 3 {
		t.Errorf("second row = %d, want 3", scan.WorkbookRow)
	}

	recs, err := repository.NewIdentityRepository(f.db, nil).ListIdentities(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Errorf("stored %d identities, want 2", len(recs))
	}
	res, err := repository.NewResultRepository(f.db, nil).LatestResult(context.Background(), constants.AnalysisIdentity)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Summary, "ID Number: 9999-8888-7777") {
		t.Errorf("identity summary = %q", res.Summary)
	}
}

func TestScanIdentity_NoMatch(t *testing.T) {
	f := newFixture(t)
	f.pages.pages = []string{"nothing here", "or here"}
	if _, err := f.svc.ScanIdentity(context.Background(), f.input(t, "blank.pdf", "")); !errors.Is(err, common.ErrNoMatch) {
		t.Fatalf("ScanIdentity() error = %v, want ErrNoMatch", err)
	}
	if _, err := os.Stat(f.cfg.IdentityWorkbook()); !os.IsNotExist(err) {
		t.Error("workbook written without a match")
	}
}

func TestScanIdentity_PageSourceError(t *testing.T) {
	f := newFixture(t)
	f.pages.err = errors.New("tesseract missing")
	if _, err := f.svc.ScanIdentity(context.Background(), f.input(t, "a.png", "")); err == nil {
		t.Fatal("expected page source error")
	}
}

func TestScanIdentity_UnsupportedType(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ScanIdentity(context.Background(), f.input(t, "notes.docx", ""))
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("ScanIdentity() error = %v, want ErrInvalidInput", err)
	}
	if f.pages.calls != 0 {
		t.Error("page source called for an unsupported file")
	}
}

func TestScanIdentity_KeepsSeparatorsAsWritten(t *testing.T) {
	f := newFixture(t)
	f.pages.pages = []string{"Name: A B\n1234  5678  9012"}
	if _, err := f.svc.ScanIdentity(context.Background(), f.input(t, "spaced.png", "")); !errors.Is(err, common.ErrNoMatch) {
		t.Fatalf("double-spaced number: error = %v, want ErrNoMatch", err)
	}

	f.pages.pages = []string{"1234\t5678\t9012"}
	scan, err := f.svc.ScanIdentity(context.Background(), f.input(t, "tabbed.png", ""))
	if err != nil {
		t.Fatalf("ScanIdentity() error = %v", err)
	}
	if got := scan.Match.Record.Identifier; got != "1234\t5678\t9012" {
		t.Errorf("identifier = %q, want tabs kept", got)
	}
}

func TestScanIdentity_WorkbookUntouchedWhenJSONFails(t *testing.T) {
	f := newFixture(t)
	f.pages.pages = []string{"1234 5678 9012"}
	if err := os.MkdirAll(f.cfg.Output.Dir, 0o755); err != nil {
		t.Fatal(err)
	}
	// a plain file where the json directory should go
	if err := os.WriteFile(filepath.Join(f.cfg.Output.Dir, "identity"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.ScanIdentity(context.Background(), f.input(t, "card.pdf", "")); err == nil {
		t.Fatal("expected json write error")
	}
	if _, err := os.Stat(f.cfg.IdentityWorkbook()); !os.IsNotExist(err) {
		t.Error("workbook row written for a failed scan")
	}
	recs, err := repository.NewIdentityRepository(f.db, nil).ListIdentities(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 0 {
		t.Errorf("stored %d identities, want 0", len(recs))
	}
}

func TestExportAnalysis(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.ExportAnalysis(ctx); !errors.Is(err, common.ErrNoAnalysis) {
		t.Fatalf("ExportAnalysis() before analysis error = %v", err)
	}
	if _, err := os.Stat(f.cfg.AnalysisWorkbook()); !os.IsNotExist(err) {
		t.Error("workbook written without analysis")
	}

	if _, err := f.svc.AnalyzeCSV(ctx, f.input(t, "d.csv", "x\n1\n2\n")); err != nil {
		t.Fatal(err)
	}
	path, err := f.svc.ExportAnalysis(ctx)
	if err != nil {
		t.Fatalf("ExportAnalysis() error = %v", err)
	}
	mustExist(t, path)
}

func TestFinalSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	path, err := f.svc.FinalSummary(ctx)
	if err != nil {
		t.Fatalf("FinalSummary() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(data), "\nNone\n"); got != 3 {
		t.Errorf("empty summary has %d None sections, want 3:\n%s", got, data)
	}
	if !strings.Contains(string(data), "09-03-2025 | Time: 02:05 PM") {
		t.Errorf("summary date line missing:\n%s", data)
	}

	if _, err := f.svc.AnalyzeText(ctx, f.input(t, "a.txt", "hello hello world")); err != nil {
		t.Fatal(err)
	}
	if _, err = f.svc.FinalSummary(ctx); err != nil {
		t.Fatal(err)
	}
	data, _ = os.ReadFile(path)
	if !strings.Contains(string(data), "Total Words: 3") || strings.Count(string(data), "\nNone\n") != 2 {
		t.Errorf("summary after text analysis:\n%s", data)
	}
}
