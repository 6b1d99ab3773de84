// internal/app/system/wordlist/duplicates.go

// Package wordlist holds the pure word/pattern list logic shared by the
// lesson and quiz editors: normalizing bulk-imported text into a flat
// ordered list, detecting case-insensitive duplicates, and applying the
// operator's keep/remove duplicate policy before a list is persisted.
package wordlist

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
)

// Key returns the comparison key for an entry: trimmed and case-folded.
// The key is used for matching only; stored values keep original casing.
func Key(entry string) string {
	return text.Fold(strings.TrimSpace(entry))
}

// Clean trims every entry and drops those that are empty after trimming,
// preserving order. It is the blank filter applied before duplicate
// detection on every save.
func Clean(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		t := strings.TrimSpace(e)
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

// FindDuplicates reports the entries that occur more than once under
// case-insensitive comparison. Each duplicated value is reported exactly
// once, in the order its second occurrence was seen, carrying the trimmed
// original casing of the first occurrence. Entries blank after trimming
// are ignored.
func FindDuplicates(entries []string) []string {
	firstSeen := make(map[string]string) // key -> first occurrence, trimmed
	reported := make(map[string]bool)

	var dups []string
	for _, e := range entries {
		t := strings.TrimSpace(e)
		if t == "" {
			continue
		}
		k := text.Fold(t)
		first, seen := firstSeen[k]
		if !seen {
			firstSeen[k] = t
			continue
		}
		if !reported[k] {
			reported[k] = true
			dups = append(dups, first)
		}
	}
	return dups
}

// Dedupe collapses entries to the first-seen occurrence per
// case-insensitive key, preserving order. Input is expected to be
// pre-cleaned; blank entries are dropped regardless.
func Dedupe(entries []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		t := strings.TrimSpace(e)
		if t == "" {
			continue
		}
		k := text.Fold(t)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, t)
	}
	return out
}
