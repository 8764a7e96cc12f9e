package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/file-analyzer/internal/common"
	"github.com/joseph-ayodele/file-analyzer/internal/entity"
	"github.com/joseph-ayodele/file-analyzer/internal/identity"
)

type IdentityRepository interface {
	SaveIdentity(ctx context.Context, sourcePath string, m identity.Match) (*entity.IdentityRecord, error)
	ListIdentities(ctx context.Context, limit int) ([]*entity.IdentityRecord, error)
}

type identityRepository struct {
	db     *DB
	logger *slog.Logger
	now    func() time.Time
}

func NewIdentityRepository(db *DB, logger *slog.Logger) IdentityRepository {
	return &identityRepository{db: db, logger: logger, now: time.Now}
}

func (r *identityRepository) SaveIdentity(ctx context.Context, sourcePath string, m identity.Match) (*entity.IdentityRecord, error) {
	id, err := uuid.Parse(m.Record.ID)
	if err != nil {
		id = uuid.New()
	}
	rec := &entity.IdentityRecord{
		ID:          id,
		SourcePath:  sourcePath,
		Page:        m.Page,
		Identifier:  m.Record.Identifier,
		Name:        m.Record.Name,
		DateOfBirth: m.Record.DateOfBirth,
		Gender:      m.Record.Gender,
		CreatedAt:   r.now().UTC(),
	}
	_, err = r.db.ExecContext(ctx, r.db.rebind(
		`INSERT INTO identity_records (id, source_path, page, identifier, name, date_of_birth, gender, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		rec.ID.String(), sourcePath, rec.Page, rec.Identifier,
		nullString(rec.Name), nullString(rec.DateOfBirth), nullString(rec.Gender),
		formatTime(rec.CreatedAt))
	if err != nil {
		r.logger.Error("failed to save identity record", "source_path", sourcePath, "error", err)
		return nil, common.NewAppError("DB_ERROR", "save identity record", errors.Join(common.ErrDatabase, err))
	}
	return rec, nil
}

// ListIdentities returns up to limit records, newest first. limit <= 0 means no limit.
func (r *identityRepository) ListIdentities(ctx context.Context, limit int) ([]*entity.IdentityRecord, error) {
	q := `SELECT id, source_path, page, identifier, name, date_of_birth, gender, created_at
		  FROM identity_records ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, r.db.rebind(q), args...)
	if err != nil {
		r.logger.Error("failed to list identity records", "error", err)
		return nil, common.NewAppError("DB_ERROR", "list identity records", errors.Join(common.ErrDatabase, err))
	}
	defer func() { _ = rows.Close() }()

	var out []*entity.IdentityRecord
	for rows.Next() {
		var (
			id, created       string
			name, dob, gender sql.NullString
			rec               entity.IdentityRecord
		)
		if err := rows.Scan(&id, &rec.SourcePath, &rec.Page, &rec.Identifier, &name, &dob, &gender, &created); err != nil {
			return nil, common.WrapError(err, "scan identity record")
		}
		if rec.ID, err = uuid.Parse(id); err != nil {
			return nil, common.WrapError(err, "parse identity id")
		}
		if rec.CreatedAt, err = parseTime(created); err != nil {
			return nil, common.WrapError(err, "parse identity time")
		}
		rec.Name, rec.DateOfBirth, rec.Gender = stringPtr(name), stringPtr(dob), stringPtr(gender)
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapError(err, "iterate identity records")
	}
	return out, nil
}
