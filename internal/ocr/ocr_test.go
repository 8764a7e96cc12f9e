package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// stubRunner fakes pdftoppm by writing empty page images and fakes
// tesseract by returning canned text keyed by image base name.
type stubRunner struct {
	pages   int
	texts   map[string]string
	failOn  map[string]bool
	calls   []string
	ppmFail bool
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, name+" "+strings.Join(args, " "))
	switch name {
	case "pdftoppm":
		if s.ppmFail {
			return nil, []byte("boom"), errors.New("exit status 1")
		}
		prefix := args[len(args)-1]
		for i := 1; i <= s.pages; i++ {
			if err := os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, i), nil, 0o644); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	case "tesseract":
		base := filepath.Base(args[0])
		if s.failOn[base] {
			return nil, []byte("bad image"), errors.New("exit status 1")
		}
		return []byte(s.texts[base]), nil, nil
	}
	return nil, nil, fmt.Errorf("unexpected command %q", name)
}

func newTestExtractor(t *testing.T, r Runner) *Extractor {
	t.Helper()
	return NewExtractor(Config{ArtifactCacheDir: t.TempDir()}, nil).WithRunner(r)
}

func TestPages_PDFKeepsPageBoundaries(t *testing.T) {
	r := &stubRunner{
		pages: 3,
		texts: map[string]string{
			"page-1.png": "cover\r\n\r\n\r\n\r\nsheet",
			"page-2.png": "Name:\tJOHN   SMITH\n1234 5678 9012",
			"page-3.png": "back",
		},
	}
	res, err := newTestExtractor(t, r).Pages(context.Background(), "scan.pdf")
	if err != nil {
		t.Fatalf("Pages() error = %v", err)
	}
	if res.Method != "pdf-ocr" || res.SourceType != "PDF" {
		t.Errorf("method/source = %s/%s", res.Method, res.SourceType)
	}
	// only line endings are folded; spacing stays as recognized
	want := []string{"cover\n\n\n\nsheet", "Name:\tJOHN   SMITH\n1234 5678 9012", "back"}
	if len(res.Pages) != len(want) {
		t.Fatalf("got %d pages, want %d", len(res.Pages), len(want))
	}
	for i := range want {
		if res.Pages[i] != want[i] {
			t.Errorf("page %d = %q, want %q", i+1, res.Pages[i], want[i])
		}
	}
	if !strings.HasPrefix(r.calls[0], "pdftoppm -r 300 -png scan.pdf ") {
		t.Errorf("first call = %q", r.calls[0])
	}
}

func TestPages_FailedPageLeavesBlank(t *testing.T) {
	r := &stubRunner{
		pages:  2,
		texts:  map[string]string{"page-2.png": "ok"},
		failOn: map[string]bool{"page-1.png": true},
	}
	res, err := newTestExtractor(t, r).Pages(context.Background(), "scan.pdf")
	if err != nil {
		t.Fatalf("Pages() error = %v", err)
	}
	if len(res.Pages) != 2 || res.Pages[0] != "" || res.Pages[1] != "ok" {
		t.Errorf("pages = %q", res.Pages)
	}
	if len(res.Warnings) == 0 {
		t.Error("expected a warning for the failed page")
	}
}

func TestPages_RenderFailure(t *testing.T) {
	r := &stubRunner{ppmFail: true}
	if _, err := newTestExtractor(t, r).Pages(context.Background(), "scan.pdf"); err == nil {
		t.Fatal("expected error when pdftoppm fails")
	}
}

func TestPages_Image(t *testing.T) {
	r := &stubRunner{texts: map[string]string{"card.png": "RAVI KUMAR\n----\n1111 2222 3333  "}}
	res, err := newTestExtractor(t, r).Pages(context.Background(), "/in/card.png")
	if err != nil {
		t.Fatalf("Pages() error = %v", err)
	}
	if len(res.Pages) != 1 || res.Pages[0] != "RAVI KUMAR\n----\n1111 2222 3333  " {
		t.Errorf("pages = %q", res.Pages)
	}
}

func TestPages_UnsupportedExtension(t *testing.T) {
	if _, err := newTestExtractor(t, &stubRunner{}).Pages(context.Background(), "notes.docx"); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  a  b  ", "a b"},
		{"a\r\nb\rc", "a\nb\nc"},
		{"a\n\n\n\n\nb", "a\n\nb"},
		{"１２３４ ５６７８", "1234 5678"},
		{"DOB: 01/02/1990", "DOB: 01/02/1990"},
		{"RAVI KUMAR\n----\n1111 2222 3333  ", "RAVI KUMAR\n\n1111 2222 3333"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPages_KeepsIdentifierSeparators(t *testing.T) {
	r := &stubRunner{texts: map[string]string{"card.png": "ID 1234  5678  9012\r\nALT 1111\t2222\t3333"}}
	res, err := newTestExtractor(t, r).Pages(context.Background(), "card.png")
	if err != nil {
		t.Fatalf("Pages() error = %v", err)
	}
	if want := "ID 1234  5678  9012\nALT 1111\t2222\t3333"; res.Pages[0] != want {
		t.Errorf("page = %q, want %q", res.Pages[0], want)
	}
}

func TestPages_UsesConfiguredCacheDirAndTesseractOptions(t *testing.T) {
	cache := filepath.Join(t.TempDir(), "artifacts")
	r := &stubRunner{pages: 1, texts: map[string]string{"page-1.png": "x"}}
	e := NewExtractor(Config{
		ArtifactCacheDir: cache,
		PSM:              6,
		OEM:              1,
		TessdataDir:      "/opt/tessdata",
	}, nil).WithRunner(r)

	if _, err := e.Pages(context.Background(), "scan.pdf"); err != nil {
		t.Fatalf("Pages() error = %v", err)
	}
	if len(r.calls) != 2 {
		t.Fatalf("calls = %q", r.calls)
	}
	ppmArgs := strings.Fields(r.calls[0])
	if prefix := ppmArgs[len(ppmArgs)-1]; !strings.HasPrefix(prefix, cache+string(filepath.Separator)) {
		t.Errorf("pdftoppm output prefix %q is not under %q", prefix, cache)
	}
	if !strings.HasSuffix(r.calls[1], "stdout -l eng --psm 6 --oem 1 --tessdata-dir /opt/tessdata") {
		t.Errorf("tesseract call = %q", r.calls[1])
	}
	left, err := os.ReadDir(cache)
	if err != nil {
		t.Fatalf("read cache dir: %v", err)
	}
	if len(left) != 0 {
		t.Errorf("scratch files left behind: %v", left)
	}
}

func TestPages_HEICConvertsUnderCacheDir(t *testing.T) {
	cache := t.TempDir()
	r := &heicRunner{stubRunner: stubRunner{texts: map[string]string{"page.png": "1234 5678 9012"}}}
	e := NewExtractor(Config{ArtifactCacheDir: cache, HeicConverter: "magick"}, nil).WithRunner(r)

	res, err := e.Pages(context.Background(), "photo.heic")
	if err != nil {
		t.Fatalf("Pages() error = %v", err)
	}
	if len(res.Pages) != 1 || res.Pages[0] != "1234 5678 9012" {
		t.Errorf("pages = %q", res.Pages)
	}
	if !strings.HasPrefix(r.out, cache+string(filepath.Separator)) {
		t.Errorf("converted image %q is not under %q", r.out, cache)
	}
}

// heicRunner fakes the magick converter by creating the requested output file.
type heicRunner struct {
	stubRunner
	out string
}

func (h *heicRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	if name == "magick" {
		h.out = args[len(args)-1]
		return nil, nil, os.WriteFile(h.out, nil, 0o644)
	}
	return h.stubRunner.Run(ctx, name, args...)
}
