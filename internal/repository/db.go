package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Config struct {
	DSN         string // postgres:// URL or sqlite file path
	InMemory    bool   // use a private in-memory sqlite database
	DialTimeout time.Duration
}

// DB is a database/sql handle that knows which placeholder style its driver uses.
type DB struct {
	*sql.DB
	driver string
}

const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS analysis_results (
		id          TEXT PRIMARY KEY,
		kind        TEXT NOT NULL,
		source_path TEXT NOT NULL,
		summary     TEXT NOT NULL,
		created_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS analysis_results_kind_created ON analysis_results (kind, created_at)`,
	`CREATE TABLE IF NOT EXISTS identity_records (
		id            TEXT PRIMARY KEY,
		source_path   TEXT NOT NULL,
		page          INTEGER NOT NULL,
		identifier    TEXT NOT NULL,
		name          TEXT,
		date_of_birth TEXT,
		gender        TEXT,
		created_at    TEXT NOT NULL
	)`,
}

// Open connects to the history store and applies the schema.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	driver, dsn, err := resolve(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("connecting to database", "driver", driver, "in_memory", cfg.InMemory)

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return nil, err
	}
	if driver == "sqlite" {
		// single writer; also keeps an in-memory database alive across calls
		sqlDB.SetMaxOpenConns(1)
	}

	db := &DB{DB: sqlDB, driver: driver}
	if err := HealthCheck(ctx, db, cfg.DialTimeout, logger); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	logger.Info("successfully connected to database")
	return db, nil
}

func resolve(cfg Config) (driver, dsn string, err error) {
	switch {
	case cfg.InMemory:
		return "sqlite", ":memory:", nil
	case strings.HasPrefix(cfg.DSN, "postgres://"), strings.HasPrefix(cfg.DSN, "postgresql://"):
		return "pgx", cfg.DSN, nil
	case cfg.DSN == "":
		return "", "", fmt.Errorf("database DSN is required")
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.DSN), 0o755); err != nil {
			return "", "", fmt.Errorf("create database dir: %w", err)
		}
		return "sqlite", cfg.DSN, nil
	}
}

// Close closes the database connections gracefully
func Close(db *DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("closing database connections")
	if err := db.DB.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
	}
}

// HealthCheck pings using database/sql to catch DSN issues early.
func HealthCheck(ctx context.Context, db *DB, timeout time.Duration, logger *slog.Logger) error {
	logger.Debug("pinging database")
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		return err
	}
	logger.Debug("database ping successful")
	return nil
}

// rebind rewrites '?' placeholders to $n for postgres.
func (db *DB) rebind(query string) string {
	if db.driver != "pgx" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) (time.Time, error) { return time.Parse(timeLayout, s) }

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
