package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/file-analyzer/constants"
	"github.com/joseph-ayodele/file-analyzer/internal/common"
	"github.com/joseph-ayodele/file-analyzer/internal/entity"
)

type ResultRepository interface {
	SaveResult(ctx context.Context, kind constants.AnalysisKind, sourcePath, summary string) (*entity.AnalysisResult, error)
	LatestResult(ctx context.Context, kind constants.AnalysisKind) (*entity.AnalysisResult, error)
}

type resultRepository struct {
	db     *DB
	logger *slog.Logger
	now    func() time.Time
}

func NewResultRepository(db *DB, logger *slog.Logger) ResultRepository {
	return &resultRepository{db: db, logger: logger, now: time.Now}
}

func (r *resultRepository) SaveResult(ctx context.Context, kind constants.AnalysisKind, sourcePath, summary string) (*entity.AnalysisResult, error) {
	res := &entity.AnalysisResult{
		ID:         uuid.New(),
		Kind:       kind,
		SourcePath: sourcePath,
		Summary:    summary,
		CreatedAt:  r.now().UTC(),
	}
	if runID, err := uuid.Parse(common.RunIDFromContext(ctx)); err == nil {
		res.ID = runID
	}
	_, err := r.db.ExecContext(ctx, r.db.rebind(
		`INSERT INTO analysis_results (id, kind, source_path, summary, created_at) VALUES (?, ?, ?, ?, ?)`),
		res.ID.String(), string(kind), sourcePath, summary, formatTime(res.CreatedAt))
	if err != nil {
		r.logger.Error("failed to save analysis result", "kind", kind, "error", err)
		return nil, common.NewAppError("DB_ERROR", "save analysis result", errors.Join(common.ErrDatabase, err))
	}
	return res, nil
}

// LatestResult returns the newest result of kind, or common.ErrNoAnalysis.
func (r *resultRepository) LatestResult(ctx context.Context, kind constants.AnalysisKind) (*entity.AnalysisResult, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(
		`SELECT id, source_path, summary, created_at FROM analysis_results
		 WHERE kind = ? ORDER BY created_at DESC LIMIT 1`), string(kind))

	var id, created string
	res := &entity.AnalysisResult{Kind: kind}
	if err := row.Scan(&id, &res.SourcePath, &res.Summary, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNoAnalysis
		}
		r.logger.Error("failed to load analysis result", "kind", kind, "error", err)
		return nil, common.NewAppError("DB_ERROR", "load analysis result", errors.Join(common.ErrDatabase, err))
	}
	var err error
	if res.ID, err = uuid.Parse(id); err != nil {
		return nil, common.WrapError(err, "parse result id")
	}
	if res.CreatedAt, err = parseTime(created); err != nil {
		return nil, common.WrapError(err, "parse result time")
	}
	return res, nil
}
