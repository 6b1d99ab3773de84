// internal/app/system/editor/session.go

// Package editor holds the per-entity editing session state machine shared
// by the category, lesson, quiz, and post editors. The dashboard used ad
// hoc boolean flags for modal visibility; a single named-state machine
// makes the mutually exclusive states structurally impossible to combine.
package editor

import (
	"errors"
	"fmt"
)

// State is the editing session state.
type State int

const (
	// Idle: no entity selected, form cleared.
	Idle State = iota
	// Creating: operator is filling in a new entity with a fresh identifier.
	Creating
	// Editing: operator is modifying an existing entity.
	Editing
	// Submitting: a store write for the current action is in flight.
	Submitting
	// ConfirmingDelete: a delete has been requested and awaits explicit
	// confirmation before the destructive write.
	ConfirmingDelete
	// Failed: the last store write failed; the candidate list is retained
	// so the operator can retry the whole action.
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Creating:
		return "creating"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case ConfirmingDelete:
		return "confirming-delete"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ErrInvalidTransition is returned when a session method is called from a
// state it is not legal in.
var ErrInvalidTransition = errors.New("editor: invalid state transition")

// Session tracks one entity-editing workflow:
//
//	Idle → {Creating | Editing} → Submitting → back to Idle (create) or
//	Editing (update), or → Failed with the candidate list retained.
//
// Deletes are two-phase: Editing → ConfirmingDelete → Submitting.
// Sessions are driven from a single event loop; they are not safe for
// concurrent use.
type Session struct {
	state    State
	entityID string

	// pending is the candidate word/pattern list that survives a failed
	// write so a retry does not lose the operator's input.
	pending []string

	creating bool
	deleting bool
}

// NewSession returns a session in the Idle state.
func NewSession() *Session {
	return &Session{state: Idle}
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// EntityID returns the identifier of the entity being edited, or the
// empty string when Idle or Creating.
func (s *Session) EntityID() string { return s.entityID }

// Pending returns the retained candidate list, if any.
func (s *Session) Pending() []string { return s.pending }

// SetPending stores the candidate list to retain across a failed write.
func (s *Session) SetPending(entries []string) { s.pending = entries }

// BeginCreate starts a create workflow from Idle.
func (s *Session) BeginCreate() error {
	if s.state != Idle {
		return fmt.Errorf("%w: BeginCreate from %s", ErrInvalidTransition, s.state)
	}
	s.state = Creating
	s.creating = true
	s.deleting = false
	s.entityID = ""
	return nil
}

// BeginEdit starts an edit workflow for an existing entity from Idle.
func (s *Session) BeginEdit(entityID string) error {
	if s.state != Idle {
		return fmt.Errorf("%w: BeginEdit from %s", ErrInvalidTransition, s.state)
	}
	if entityID == "" {
		return errors.New("editor: BeginEdit requires an entity identifier")
	}
	s.state = Editing
	s.creating = false
	s.deleting = false
	s.entityID = entityID
	return nil
}

// Submit moves into Submitting for the pending action. Legal from
// Creating, Editing, and Failed (retrying the whole action).
func (s *Session) Submit() error {
	switch s.state {
	case Creating, Editing, Failed:
		s.state = Submitting
		return nil
	}
	return fmt.Errorf("%w: Submit from %s", ErrInvalidTransition, s.state)
}

// RequestDelete is the first phase of a delete, legal only while Editing.
func (s *Session) RequestDelete() error {
	if s.state != Editing {
		return fmt.Errorf("%w: RequestDelete from %s", ErrInvalidTransition, s.state)
	}
	s.state = ConfirmingDelete
	s.deleting = true
	return nil
}

// ConfirmDelete is the second phase: the destructive write may proceed.
func (s *Session) ConfirmDelete() error {
	if s.state != ConfirmingDelete {
		return fmt.Errorf("%w: ConfirmDelete from %s", ErrInvalidTransition, s.state)
	}
	s.state = Submitting
	return nil
}

// CancelDelete abandons a requested delete and returns to Editing.
func (s *Session) CancelDelete() error {
	if s.state != ConfirmingDelete {
		return fmt.Errorf("%w: CancelDelete from %s", ErrInvalidTransition, s.state)
	}
	s.state = Editing
	s.deleting = false
	return nil
}

// Succeed completes the in-flight write. Create and delete success clear
// the session back to Idle; update success returns to Editing with the
// same entity selected. The retained candidate list is cleared either way.
func (s *Session) Succeed(entityID string) error {
	if s.state != Submitting {
		return fmt.Errorf("%w: Succeed from %s", ErrInvalidTransition, s.state)
	}
	s.pending = nil
	if s.creating || s.deleting {
		s.reset()
		return nil
	}
	s.state = Editing
	s.entityID = entityID
	return nil
}

// Fail records a failed write. The candidate list stays in place;
// no partial state has been committed, so the operator can Submit again
// to retry the whole action, or Reset to abandon it.
func (s *Session) Fail() error {
	if s.state != Submitting {
		return fmt.Errorf("%w: Fail from %s", ErrInvalidTransition, s.state)
	}
	s.state = Failed
	return nil
}

// Reset abandons the session and clears everything back to Idle.
func (s *Session) Reset() {
	s.reset()
}

func (s *Session) reset() {
	s.state = Idle
	s.entityID = ""
	s.pending = nil
	s.creating = false
	s.deleting = false
}
