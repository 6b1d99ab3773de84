package lessonstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/spellhub/internal/app/store/docstore"
	"github.com/dalemusser/spellhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
)

func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func TestCreate_SetsFoldedTitle(t *testing.T) {
	s := New(docstore.NewMemory())
	ctx, cancel := contextWithTimeout()
	defer cancel()

	l, err := s.Create(ctx, models.Lesson{
		ID:         "Root Words",
		Title:      "Root Words",
		Difficulty: models.DifficultyEasy,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if l.TitleCI != text.Fold("Root Words") {
		t.Errorf("expected folded title, got %q", l.TitleCI)
	}
}

func TestCreate_RejectsDuplicateID(t *testing.T) {
	s := New(docstore.NewMemory())
	ctx, cancel := contextWithTimeout()
	defer cancel()

	_, _ = s.Create(ctx, models.Lesson{ID: "L1", Title: "L1", Difficulty: models.DifficultyEasy})
	if _, err := s.Create(ctx, models.Lesson{ID: "L1", Title: "L1", Difficulty: models.DifficultyEasy}); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
}

func TestListByCategory(t *testing.T) {
	s := New(docstore.NewMemory())
	ctx, cancel := contextWithTimeout()
	defer cancel()

	_, _ = s.Create(ctx, models.Lesson{ID: "L1", Title: "L1", Difficulty: models.DifficultyEasy, Category: "Roots"})
	_, _ = s.Create(ctx, models.Lesson{ID: "L2", Title: "L2", Difficulty: models.DifficultyEasy, Category: "Prefixes"})
	_, _ = s.Create(ctx, models.Lesson{ID: "L3", Title: "L3", Difficulty: models.DifficultyEasy, Category: "Roots"})

	got, err := s.ListByCategory(ctx, "Roots")
	if err != nil {
		t.Fatalf("ListByCategory failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != "L1" || got[1].ID != "L3" {
		t.Errorf("expected [L1 L3], got %+v", got)
	}
}

func TestSave_KeepsCreatedAtAndBumpsUpdatedAt(t *testing.T) {
	s := New(docstore.NewMemory())
	ctx, cancel := contextWithTimeout()
	defer cancel()

	l, _ := s.Create(ctx, models.Lesson{ID: "L1", Title: "L1", Difficulty: models.DifficultyEasy})
	created := l.CreatedAt

	l.Introduction = "updated"
	if err := s.Save(ctx, l); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, _ := s.GetByID(ctx, "L1")
	if !got.CreatedAt.Equal(created) {
		t.Errorf("Save changed CreatedAt: %v -> %v", created, got.CreatedAt)
	}
	if got.UpdatedAt.Before(created) {
		t.Errorf("UpdatedAt not advanced: %v", got.UpdatedAt)
	}
	if got.Introduction != "updated" {
		t.Errorf("Save lost field change: %q", got.Introduction)
	}
}
