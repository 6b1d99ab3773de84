// internal/app/system/editor/validate.go
package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
)

// ErrConfirmationRequired signals that a delete request reached the
// confirmation step; the caller must repeat the request with an explicit
// confirmation to proceed.
var ErrConfirmationRequired = errors.New("editor: delete requires confirmation")

// ValidationError is an operator-input problem detected before any
// persistence write.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Invalid builds a ValidationError with a formatted message.
func Invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// GroupSet is the configured set of user-group tags entities may carry.
// Matching is case-insensitive.
type GroupSet struct {
	names  []string
	folded map[string]struct{}
}

// NewGroupSet builds a GroupSet from the configured tag names. Blank
// entries are dropped.
func NewGroupSet(names []string) *GroupSet {
	gs := &GroupSet{folded: make(map[string]struct{}, len(names))}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		key := text.Fold(n)
		if _, ok := gs.folded[key]; ok {
			continue
		}
		gs.folded[key] = struct{}{}
		gs.names = append(gs.names, n)
	}
	return gs
}

// Names returns the configured tags in their original casing.
func (gs *GroupSet) Names() []string {
	if gs == nil {
		return nil
	}
	return append([]string{}, gs.names...)
}

// Validate checks that every tag is one of the configured group names.
// A nil GroupSet accepts anything.
func (gs *GroupSet) Validate(tags []string) error {
	if gs == nil {
		return nil
	}
	for _, t := range tags {
		if _, ok := gs.folded[text.Fold(strings.TrimSpace(t))]; !ok {
			return Invalid("unknown user group %q", t)
		}
	}
	return nil
}
