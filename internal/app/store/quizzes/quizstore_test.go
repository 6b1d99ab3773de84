package quizstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/spellhub/internal/app/store/docstore"
	"github.com/dalemusser/spellhub/internal/domain/models"
)

func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func TestCreate_MaintainsWordCount(t *testing.T) {
	s := New(docstore.NewMemory())
	ctx, cancel := contextWithTimeout()
	defer cancel()

	q, err := s.Create(ctx, models.Quiz{
		ID:    "Q1",
		Type:  models.QuizSpelling,
		Words: []string{"ant", "bee", "cat"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if q.WordCount != 3 {
		t.Errorf("expected word count 3, got %d", q.WordCount)
	}
}

func TestCreate_NormalizesNilWords(t *testing.T) {
	s := New(docstore.NewMemory())
	ctx, cancel := contextWithTimeout()
	defer cancel()

	q, err := s.Create(ctx, models.Quiz{ID: "Q1", Type: models.QuizRoots})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if q.Words == nil || q.WordCount != 0 {
		t.Errorf("expected empty list and zero count, got %v / %d", q.Words, q.WordCount)
	}
}

func TestSave_RecomputesWordCountInSameWrite(t *testing.T) {
	s := New(docstore.NewMemory())
	ctx, cancel := contextWithTimeout()
	defer cancel()

	q, _ := s.Create(ctx, models.Quiz{ID: "Q1", Type: models.QuizSpelling, Words: []string{"ant"}})

	q.Words = []string{"ant", "bee", "cat", "dog"}
	q.WordCount = 99 // stale caller value must be ignored
	if err := s.Save(ctx, q); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, _ := s.GetByID(ctx, "Q1")
	if got.WordCount != 4 {
		t.Errorf("expected recomputed count 4, got %d", got.WordCount)
	}
}

func TestCreate_RejectsDuplicateID(t *testing.T) {
	s := New(docstore.NewMemory())
	ctx, cancel := contextWithTimeout()
	defer cancel()

	_, _ = s.Create(ctx, models.Quiz{ID: "Q1", Type: models.QuizSpelling})
	if _, err := s.Create(ctx, models.Quiz{ID: "Q1", Type: models.QuizSpelling}); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
}
