package poststore

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/spellhub/internal/app/store/docstore"
	"github.com/dalemusser/spellhub/internal/domain/models"
)

func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func announcement(id string) models.Post {
	return models.Post{
		ID:   id,
		Type: models.PostAnnouncement,
		Announcement: &models.AnnouncementFields{
			Details: "School spelling bee on Friday",
			Owner:   "admin",
		},
	}
}

func TestIncrementLikes(t *testing.T) {
	s := New(docstore.NewMemory())
	ctx, cancel := contextWithTimeout()
	defer cancel()

	_, _ = s.Create(ctx, announcement("P1"))

	likes, err := s.IncrementLikes(ctx, "P1", 1)
	if err != nil {
		t.Fatalf("IncrementLikes failed: %v", err)
	}
	if likes != 1 {
		t.Errorf("expected 1 like, got %d", likes)
	}

	likes, _ = s.IncrementLikes(ctx, "P1", 1)
	if likes != 2 {
		t.Errorf("expected 2 likes, got %d", likes)
	}
}

func TestIncrementLikes_ClampsAtZero(t *testing.T) {
	s := New(docstore.NewMemory())
	ctx, cancel := contextWithTimeout()
	defer cancel()

	_, _ = s.Create(ctx, announcement("P1"))

	likes, err := s.IncrementLikes(ctx, "P1", -1)
	if err != nil {
		t.Fatalf("IncrementLikes failed: %v", err)
	}
	if likes != 0 {
		t.Errorf("expected clamp at 0, got %d", likes)
	}
}

func TestIncrementLikes_RejectsNonAnnouncements(t *testing.T) {
	s := New(docstore.NewMemory())
	ctx, cancel := contextWithTimeout()
	defer cancel()

	_, _ = s.Create(ctx, models.Post{
		ID:   "W1",
		Type: models.PostWordOfDay,
		WordOfDay: &models.WordOfDayFields{
			Word:     "onomatopoeia",
			ActiveOn: models.NormalizeActiveOn(time.Now()),
		},
	})

	if _, err := s.IncrementLikes(ctx, "W1", 1); err == nil {
		t.Error("expected error for non-announcement post")
	}
}

func TestCreate_DefaultsUploadedAt(t *testing.T) {
	s := New(docstore.NewMemory())
	ctx, cancel := contextWithTimeout()
	defer cancel()

	p, err := s.Create(ctx, announcement("P1"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.UploadedAt.IsZero() {
		t.Error("expected UploadedAt to default to now")
	}
}
