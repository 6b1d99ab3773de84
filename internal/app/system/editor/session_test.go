package editor

import (
	"errors"
	"reflect"
	"testing"
)

func TestSession_StartsIdle(t *testing.T) {
	s := NewSession()
	if s.State() != Idle {
		t.Errorf("expected Idle, got %s", s.State())
	}
}

func TestSession_CreateFlow(t *testing.T) {
	s := NewSession()
	if err := s.BeginCreate(); err != nil {
		t.Fatalf("BeginCreate failed: %v", err)
	}
	if s.State() != Creating {
		t.Fatalf("expected Creating, got %s", s.State())
	}
	if err := s.Submit(); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if err := s.Succeed("L1"); err != nil {
		t.Fatalf("Succeed failed: %v", err)
	}
	// Create success clears the form back to Idle.
	if s.State() != Idle {
		t.Errorf("expected Idle after create success, got %s", s.State())
	}
	if s.EntityID() != "" {
		t.Errorf("expected cleared entity id, got %q", s.EntityID())
	}
}

func TestSession_EditFlowReturnsToEditing(t *testing.T) {
	s := NewSession()
	if err := s.BeginEdit("L1"); err != nil {
		t.Fatalf("BeginEdit failed: %v", err)
	}
	if err := s.Submit(); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if err := s.Succeed("L1"); err != nil {
		t.Fatalf("Succeed failed: %v", err)
	}
	if s.State() != Editing {
		t.Errorf("expected Editing after update success, got %s", s.State())
	}
	if s.EntityID() != "L1" {
		t.Errorf("expected entity L1, got %q", s.EntityID())
	}
}

func TestSession_BeginEditRequiresID(t *testing.T) {
	s := NewSession()
	if err := s.BeginEdit(""); err == nil {
		t.Error("expected error for empty entity id")
	}
}

func TestSession_FailRetainsPending(t *testing.T) {
	s := NewSession()
	_ = s.BeginCreate()
	s.SetPending([]string{"ant", "bee"})
	_ = s.Submit()
	if err := s.Fail(); err != nil {
		t.Fatalf("Fail failed: %v", err)
	}
	if s.State() != Failed {
		t.Fatalf("expected Failed, got %s", s.State())
	}
	if !reflect.DeepEqual(s.Pending(), []string{"ant", "bee"}) {
		t.Errorf("pending list lost across failure: %v", s.Pending())
	}

	// Retry from Failed re-enters Submitting; success clears pending.
	if err := s.Submit(); err != nil {
		t.Fatalf("retry Submit failed: %v", err)
	}
	if err := s.Succeed("Q1"); err != nil {
		t.Fatalf("retry Succeed failed: %v", err)
	}
	if s.Pending() != nil {
		t.Errorf("pending list should clear on success, got %v", s.Pending())
	}
}

func TestSession_TwoPhaseDelete(t *testing.T) {
	s := NewSession()
	_ = s.BeginEdit("C1")
	if err := s.RequestDelete(); err != nil {
		t.Fatalf("RequestDelete failed: %v", err)
	}
	if s.State() != ConfirmingDelete {
		t.Fatalf("expected ConfirmingDelete, got %s", s.State())
	}
	if err := s.ConfirmDelete(); err != nil {
		t.Fatalf("ConfirmDelete failed: %v", err)
	}
	if s.State() != Submitting {
		t.Fatalf("expected Submitting, got %s", s.State())
	}
	if err := s.Succeed(""); err != nil {
		t.Fatalf("Succeed failed: %v", err)
	}
	if s.State() != Idle {
		t.Errorf("expected Idle after delete success, got %s", s.State())
	}
}

func TestSession_CancelDeleteReturnsToEditing(t *testing.T) {
	s := NewSession()
	_ = s.BeginEdit("C1")
	_ = s.RequestDelete()
	if err := s.CancelDelete(); err != nil {
		t.Fatalf("CancelDelete failed: %v", err)
	}
	if s.State() != Editing {
		t.Errorf("expected Editing after cancel, got %s", s.State())
	}
	if s.EntityID() != "C1" {
		t.Errorf("expected entity C1, got %q", s.EntityID())
	}
}

func TestSession_IllegalTransitions(t *testing.T) {
	cases := []struct {
		name string
		run  func(s *Session) error
	}{
		{"BeginCreate while Creating", func(s *Session) error {
			_ = s.BeginCreate()
			return s.BeginCreate()
		}},
		{"BeginEdit while Editing", func(s *Session) error {
			_ = s.BeginEdit("x")
			return s.BeginEdit("y")
		}},
		{"Submit from Idle", func(s *Session) error {
			return s.Submit()
		}},
		{"RequestDelete while Creating", func(s *Session) error {
			_ = s.BeginCreate()
			return s.RequestDelete()
		}},
		{"ConfirmDelete without request", func(s *Session) error {
			_ = s.BeginEdit("x")
			return s.ConfirmDelete()
		}},
		{"Succeed without Submit", func(s *Session) error {
			_ = s.BeginEdit("x")
			return s.Succeed("x")
		}},
		{"Fail without Submit", func(s *Session) error {
			return s.Fail()
		}},
		{"Submit while ConfirmingDelete", func(s *Session) error {
			_ = s.BeginEdit("x")
			_ = s.RequestDelete()
			return s.Submit()
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.run(NewSession()); !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("expected ErrInvalidTransition, got %v", err)
			}
		})
	}
}

func TestSession_ResetClearsEverything(t *testing.T) {
	s := NewSession()
	_ = s.BeginEdit("C1")
	s.SetPending([]string{"ant"})
	s.Reset()
	if s.State() != Idle || s.EntityID() != "" || s.Pending() != nil {
		t.Errorf("Reset left state behind: %s %q %v", s.State(), s.EntityID(), s.Pending())
	}
}

func TestGroupSet_ValidateCaseInsensitive(t *testing.T) {
	gs := NewGroupSet([]string{"Elementary", "middle", " high "})
	if err := gs.Validate([]string{"elementary", "HIGH"}); err != nil {
		t.Errorf("expected tags to validate, got %v", err)
	}
	if err := gs.Validate([]string{"college"}); err == nil {
		t.Error("expected unknown group to be rejected")
	}
	var nilSet *GroupSet
	if err := nilSet.Validate([]string{"anything"}); err != nil {
		t.Errorf("nil GroupSet must accept anything, got %v", err)
	}
}
