// Package identity locates identity-document fields in one page of OCR text.
//
// Every function here is a pure function of its input: no state is shared
// between calls, so pages can be classified concurrently without locking.
// A field that cannot be found is reported as absent (a false second return
// value or a nil field on Record); the human readable "not found" strings
// are produced only when a Record is rendered.
package identity

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	reIdentifier = regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`)
	reDOB        = regexp.MustCompile(`\b(\d{2}/\d{2}/\d{4})\b`)
	reNameNoise  = regexp.MustCompile(`[^A-Za-z\s]`)
)

type genderKeyword struct {
	keyword   string // lowercased, matched by containment
	canonical string
}

// Full words before single letters; "female" before "male" because the
// latter is a substring of the former.
var genderKeywords = []genderKeyword{
	{"female", "Female"},
	{"male", "Male"},
	{"m", "M"},
	{"f", "F"},
}

// FindIdentifier returns the first run of three four-digit groups, optionally
// separated by a single space or hyphen, exactly as it appears in text.
func FindIdentifier(text string) (string, bool) {
	m := reIdentifier.FindString(text)
	return m, m != ""
}

// FindDateOfBirth returns the first DD/DD/DDDD token. The date is not validated.
func FindDateOfBirth(text string) (string, bool) {
	m := reDOB.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// FindGender returns the canonical form of the first gender keyword contained
// in text, compared case-insensitively.
func FindGender(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, g := range genderKeywords {
		if strings.Contains(lower, g.keyword) {
			return g.canonical, true
		}
	}
	return "", false
}

// FindName prefers a line labelled "name" and falls back to the first line
// printed in capitals with at least two words.
func FindName(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		if strings.Contains(strings.ToLower(line), "name") {
			clean := reNameNoise.ReplaceAllString(line, "")
			return strings.TrimSpace(strings.ReplaceAll(clean, "Name", "")), true
		}
	}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if isUpper(trimmed) && len(strings.Fields(line)) >= 2 {
			return trimmed, true
		}
	}
	return "", false
}

// Extract classifies a page. No identifier means no record; otherwise the
// remaining fields are filled independently and may each be absent.
func Extract(text string) (Record, bool) {
	id, ok := FindIdentifier(text)
	if !ok {
		return Record{}, false
	}
	rec := Record{Identifier: id}
	if v, ok := FindName(text); ok {
		rec.Name = &v
	}
	if v, ok := FindDateOfBirth(text); ok {
		rec.DateOfBirth = &v
	}
	if v, ok := FindGender(text); ok {
		rec.Gender = &v
	}
	return rec, true
}

// ScanPages applies Extract to pages in order and stops at the first page
// that yields a record.
func ScanPages(pages []string) (Match, bool) {
	for i, p := range pages {
		if rec, ok := Extract(p); ok {
			return Match{Record: rec, Page: i + 1}, true
		}
	}
	return Match{}, false
}

// isUpper reports whether s has at least one cased letter and no lower-case ones.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r), unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}
