// Package analyzer runs the tool's operations end to end: it reads the input
// file, computes the result, writes reports or spreadsheets under the output
// directory, and records the result in the history store so later operations
// (export, final summary) can use it.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/file-analyzer/internal/common"
	"github.com/joseph-ayodele/file-analyzer/internal/export"
	"github.com/joseph-ayodele/file-analyzer/internal/ocr"
	"github.com/joseph-ayodele/file-analyzer/internal/repository"
)

// PageSource turns a document into per-page text.
type PageSource interface {
	Pages(ctx context.Context, path string) (ocr.PageSet, error)
}

type Service struct {
	logger     *slog.Logger
	cfg        *common.Config
	pages      PageSource
	exporter   *export.Service
	results    repository.ResultRepository
	identities repository.IdentityRepository
	now        func() time.Time

	// serializes read-modify-write of the identity workbook
	workbookMu sync.Mutex
}

func NewService(
	logger *slog.Logger,
	cfg *common.Config,
	pages PageSource,
	results repository.ResultRepository,
	identities repository.IdentityRepository,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		logger:     logger,
		cfg:        cfg,
		pages:      pages,
		exporter:   export.NewService(logger),
		results:    results,
		identities: identities,
		now:        time.Now,
	}
}

// readInput returns the file contents, or common.ErrNotFound when path does not exist.
func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, common.NotFoundError(path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func requireFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return common.NotFoundError(path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return common.InvalidInputErrorf("%s is a directory", path)
	}
	return nil
}

// withRun tags ctx with a fresh run id unless it already carries one.
func withRun(ctx context.Context) (context.Context, string) {
	if id := common.RunIDFromContext(ctx); id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return common.WithRunID(ctx, id), id
}
