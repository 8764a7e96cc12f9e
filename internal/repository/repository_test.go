package repository

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/file-analyzer/constants"
	"github.com/joseph-ayodele/file-analyzer/internal/common"
	"github.com/joseph-ayodele/file-analyzer/internal/identity"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), Config{InMemory: true}, slog.Default())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { Close(db, slog.Default()) })
	return db
}

// fixedClock returns successive instants one second apart.
func fixedClock() func() time.Time {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return t0.Add(time.Duration(n) * time.Second)
	}
}

func TestResults_LatestPerKind(t *testing.T) {
	ctx := context.Background()
	repo := NewResultRepository(openTestDB(t), slog.Default()).(*resultRepository)
	repo.now = fixedClock()

	if _, err := repo.LatestResult(ctx, constants.AnalysisText); !errors.Is(err, common.ErrNoAnalysis) {
		t.Fatalf("LatestResult() on empty store error = %v, want ErrNoAnalysis", err)
	}

	if _, err := repo.SaveResult(ctx, constants.AnalysisText, "a.txt", "first"); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.SaveResult(ctx, constants.AnalysisCSV, "b.csv", "table"); err != nil {
		t.Fatal(err)
	}
	runID := uuid.New()
	saved, err := repo.SaveResult(common.WithRunID(ctx, runID.String()), constants.AnalysisText, "c.txt", "second")
	if err != nil {
		t.Fatal(err)
	}
	if saved.ID != runID {
		t.Errorf("saved id = %s, want run id %s", saved.ID, runID)
	}

	got, err := repo.LatestResult(ctx, constants.AnalysisText)
	if err != nil {
		t.Fatalf("LatestResult() error = %v", err)
	}
	if got.Summary != "second" || got.SourcePath != "c.txt" || got.ID != runID {
		t.Errorf("LatestResult() = %+v", got)
	}
	csv, err := repo.LatestResult(ctx, constants.AnalysisCSV)
	if err != nil || csv.Summary != "table" {
		t.Errorf("LatestResult(CSV) = %+v, %v", csv, err)
	}
}

func TestIdentities_SaveAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewIdentityRepository(openTestDB(t), slog.Default()).(*identityRepository)
	repo.now = fixedClock()

	full, _ := identity.Extract("Name: JOHN SMITH\n1234 5678 9012\nDOB: 01/02/1990\nMale")
	bare, _ := identity.Extract("9999-8888-7777")

	if _, err := repo.SaveIdentity(ctx, "one.pdf", identity.Match{Record: full, Page: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.SaveIdentity(ctx, "two.pdf", identity.Match{Record: bare, Page: 3}); err != nil {
		t.Fatal(err)
	}

	recs, err := repo.ListIdentities(ctx, 0)
	if err != nil {
		t.Fatalf("ListIdentities() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].SourcePath != "two.pdf" || recs[0].Page != 3 || recs[0].Name != nil || recs[0].Gender != nil {
		t.Errorf("newest record = %+v", recs[0])
	}
	if recs[1].Name == nil || *recs[1].Name != "JOHN SMITH" || *recs[1].DateOfBirth != "01/02/1990" {
		t.Errorf("oldest record = %+v", recs[1])
	}

	limited, err := repo.ListIdentities(ctx, 1)
	if err != nil || len(limited) != 1 {
		t.Errorf("ListIdentities(1) = %d records, %v", len(limited), err)
	}
}

func TestOpen_SQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	db, err := Open(context.Background(), Config{DSN: path}, slog.Default())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	Close(db, slog.Default())

	// schema creation is idempotent
	db, err = Open(context.Background(), Config{DSN: path}, slog.Default())
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	Close(db, slog.Default())
}

func TestRebind(t *testing.T) {
	pg := &DB{driver: "pgx"}
	if got := pg.rebind("a = ? AND b = ?"); got != "a = $1 AND b = $2" {
		t.Errorf("rebind(pgx) = %q", got)
	}
	lite := &DB{driver: "sqlite"}
	if got := lite.rebind("a = ?"); got != "a = ?" {
		t.Errorf("rebind(sqlite) = %q", got)
	}
}
