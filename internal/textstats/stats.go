// Package textstats computes word-level statistics over plain text.
package textstats

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/joseph-ayodele/file-analyzer/internal/common"
)

// Precompiled regexes (avoid recompiling every call).
var (
	reEmail   = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	reNumber  = regexp.MustCompile(`\b\d+\b`)
	reSpecial = regexp.MustCompile(`[^A-Za-z0-9\s]`)
)

// WordCount is one entry of a frequency table.
type WordCount struct {
	Word  string
	Count int
}

// Stats is the result of analyzing one text.
type Stats struct {
	TotalWords  int
	UniqueWords int
	Emails      []string
	Numbers     []string

	// ranked by count, ties broken by first appearance
	freq []WordCount
}

// Analyze splits text on whitespace and counts words. Words are compared
// exactly, so "The" and "the" are distinct.
func Analyze(text string) Stats {
	words := strings.Fields(text)
	freq := countWords(words)
	return Stats{
		TotalWords:  len(words),
		UniqueWords: len(freq),
		Emails:      reEmail.FindAllString(text, -1),
		Numbers:     reNumber.FindAllString(text, -1),
		freq:        freq,
	}
}

func countWords(words []string) []WordCount {
	index := make(map[string]int, len(words))
	var out []WordCount
	for _, w := range words {
		if i, ok := index[w]; ok {
			out[i].Count++
			continue
		}
		index[w] = len(out)
		out = append(out, WordCount{Word: w, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// MostFrequent returns the most common word, or false for empty text.
func (s Stats) MostFrequent() (WordCount, bool) {
	if len(s.freq) == 0 {
		return WordCount{}, false
	}
	return s.freq[0], true
}

// TopWords returns up to n of the most common words.
func (s Stats) TopWords(n int) []WordCount {
	if n > len(s.freq) {
		n = len(s.freq)
	}
	if n <= 0 {
		return nil
	}
	out := make([]WordCount, n)
	copy(out, s.freq[:n])
	return out
}

// Summary renders the result block written to reports and exports.
func (s Stats) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total Words: %d\n", s.TotalWords)
	fmt.Fprintf(&b, "Unique Words: %d\n", s.UniqueWords)
	if wc, ok := s.MostFrequent(); ok {
		fmt.Fprintf(&b, "Most Frequent Word: %s (%d)\n", wc.Word, wc.Count)
	} else {
		b.WriteString("Most Frequent Word: None\n")
	}
	fmt.Fprintf(&b, "Emails: %s\n", listOrNone(s.Emails))
	fmt.Fprintf(&b, "Numbers: %s\n", listOrNone(s.Numbers))
	return b.String()
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return "[" + strings.Join(items, ", ") + "]"
}

// CountKeyword counts non-overlapping, case-insensitive occurrences of keyword.
// The keyword is matched as given, surrounding spaces included.
func CountKeyword(text, keyword string) (int, error) {
	if keyword == "" {
		return 0, common.InvalidInputErrorf("keyword must not be empty")
	}
	return strings.Count(strings.ToLower(text), strings.ToLower(keyword)), nil
}

// CountSpecialChars counts characters that are neither ASCII alphanumerics nor whitespace.
func CountSpecialChars(text string) int {
	return len(reSpecial.FindAllStringIndex(text, -1))
}
