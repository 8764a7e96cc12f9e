package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/file-analyzer/constants"
)

// extSet builds a lookup of normalized extensions; empty input yields the default scan set.
func extSet(includeExts []string) map[string]struct{} {
	if len(includeExts) == 0 {
		return constants.ScanExtensions
	}
	exts := map[string]struct{}{}
	for _, e := range includeExts {
		e = constants.NormalizeExt(strings.TrimSpace(e))
		if e != "" {
			exts[e] = struct{}{}
		}
	}
	return exts
}

func allowed(path string, exts map[string]struct{}) bool {
	_, ok := exts[constants.NormalizeExt(filepath.Ext(path))]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return base != "." && base != ".." && strings.HasPrefix(base, ".")
}
