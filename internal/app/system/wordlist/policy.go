// internal/app/system/wordlist/policy.go
package wordlist

import (
	"fmt"
	"strings"
)

// Policy is the operator's answer to the duplicate prompt on save.
//
// The zero value, PolicyPrompt, means no answer has been given yet: when
// duplicates exist the save is suspended and a *DuplicateWordsError is
// returned so the caller can show the prompt and retry with an explicit
// choice.
type Policy string

const (
	PolicyPrompt Policy = ""
	PolicyKeep   Policy = "keep"
	PolicyRemove Policy = "remove"
)

// ParsePolicy maps a request value onto a Policy. Blank means prompt.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyPrompt:
		return PolicyPrompt, nil
	case PolicyKeep:
		return PolicyKeep, nil
	case PolicyRemove:
		return PolicyRemove, nil
	}
	return PolicyPrompt, fmt.Errorf("invalid duplicate policy %q", s)
}

// DuplicateWordsError suspends a save: the candidate list contains the
// listed duplicated values (post-trim, original casing) and the operator
// has not chosen keep or remove yet.
type DuplicateWordsError struct {
	Duplicates []string
}

func (e *DuplicateWordsError) Error() string {
	return fmt.Sprintf("list contains %d duplicated entries: %s",
		len(e.Duplicates), strings.Join(e.Duplicates, ", "))
}

// Resolve applies the save-with-duplicate-policy protocol to a candidate
// list and returns the entries to persist:
//
//  1. blank entries are filtered out,
//  2. duplicates are detected case-insensitively,
//  3. with PolicyPrompt, any duplicates abort with *DuplicateWordsError;
//     PolicyKeep persists the filtered list as-is; PolicyRemove collapses
//     to the first-seen occurrence per key, stable order.
//
// Callers must store the returned list and its derived count in the same
// write.
func Resolve(entries []string, p Policy) ([]string, error) {
	clean := Clean(entries)

	switch p {
	case PolicyKeep:
		return clean, nil
	case PolicyRemove:
		return Dedupe(clean), nil
	case PolicyPrompt:
		if dups := FindDuplicates(clean); len(dups) > 0 {
			return nil, &DuplicateWordsError{Duplicates: dups}
		}
		return clean, nil
	}
	return nil, fmt.Errorf("invalid duplicate policy %q", string(p))
}
