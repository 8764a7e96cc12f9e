package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// FileResult is the outcome of handling one matched file.
type FileResult struct {
	Path    string
	Matched bool // handler found what it was looking for
	Err     string
}

type DirStats struct {
	Scanned   uint32
	Matched   uint32
	Succeeded uint32
	Found     uint32
	Failed    uint32
}

// FileHandler processes one file and reports whether it produced a result.
type FileHandler func(ctx context.Context, path string) (bool, error)

// ScanDirectory walks root, filters by includeExts (or defaults), skips hidden if requested,
// and calls fn for each file. Returns per-file results + aggregate stats.
func ScanDirectory(ctx context.Context, root string, includeExts []string, skipHidden bool, fn FileHandler) ([]FileResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root_path is required")
	}
	exts := extSet(includeExts)

	var results []FileResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			results = append(results, FileResult{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil // continue walking
		}
		// skip hidden dirs/files if requested
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !allowed(path, exts) {
			return nil
		}
		stats.Matched++

		found, err := fn(ctx, path)
		if err != nil {
			results = append(results, FileResult{Path: path, Err: err.Error()})
			stats.Failed++
			return nil
		}
		results = append(results, FileResult{Path: path, Matched: found})
		stats.Succeeded++
		if found {
			stats.Found++
		}
		return nil
	})

	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}
	return results, stats, nil
}
