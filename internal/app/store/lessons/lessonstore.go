// internal/app/store/lessons/lessonstore.go
package lessonstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/spellhub/internal/app/store/docstore"
	"github.com/dalemusser/spellhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
)

// Collection is the document collection backing this store.
const Collection = "lessons"

var ErrDuplicateID = errors.New("a lesson with this identifier already exists")

// Store manages Lesson documents.
type Store struct {
	db docstore.Store
}

func New(db docstore.Store) *Store {
	return &Store{db: db}
}

func (s *Store) GetByID(ctx context.Context, id string) (models.Lesson, error) {
	var l models.Lesson
	if err := s.db.Get(ctx, Collection, id, &l); err != nil {
		return models.Lesson{}, err
	}
	return l, nil
}

func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	var l models.Lesson
	err := s.db.Get(ctx, Collection, id, &l)
	if errors.Is(err, docstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts a new lesson after a read-then-write uniqueness check
// (concurrent creators can race; accepted limitation).
func (s *Store) Create(ctx context.Context, l models.Lesson) (models.Lesson, error) {
	exists, err := s.Exists(ctx, l.ID)
	if err != nil {
		return models.Lesson{}, err
	}
	if exists {
		return models.Lesson{}, ErrDuplicateID
	}

	now := time.Now().UTC()
	l.TitleCI = text.Fold(l.Title)
	l.CreatedAt = now
	l.UpdatedAt = now
	if err := s.db.Set(ctx, Collection, l.ID, l); err != nil {
		return models.Lesson{}, err
	}
	return l, nil
}

// Save replaces the full lesson document, refreshing the CI title and
// updated_at.
func (s *Store) Save(ctx context.Context, l models.Lesson) error {
	l.TitleCI = text.Fold(l.Title)
	l.UpdatedAt = time.Now().UTC()
	return s.db.Set(ctx, Collection, l.ID, l)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.db.Delete(ctx, Collection, id)
}

func (s *Store) List(ctx context.Context) ([]models.Lesson, error) {
	var lessons []models.Lesson
	if err := s.db.ListAll(ctx, Collection, &lessons); err != nil {
		return nil, err
	}
	return lessons, nil
}

// ListByCategory returns the lessons whose category field equals
// categoryID. Useful for cross-checking a category's member list.
func (s *Store) ListByCategory(ctx context.Context, categoryID string) ([]models.Lesson, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Lesson
	for _, l := range all {
		if l.Category == categoryID {
			out = append(out, l)
		}
	}
	return out, nil
}
