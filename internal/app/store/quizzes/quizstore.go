// internal/app/store/quizzes/quizstore.go
package quizstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/spellhub/internal/app/store/docstore"
	"github.com/dalemusser/spellhub/internal/domain/models"
)

// Collection is the document collection backing this store.
const Collection = "quizzes"

var ErrDuplicateID = errors.New("a quiz with this name already exists")

// Store manages Quiz documents.
type Store struct {
	db docstore.Store
}

func New(db docstore.Store) *Store {
	return &Store{db: db}
}

func (s *Store) GetByID(ctx context.Context, id string) (models.Quiz, error) {
	var q models.Quiz
	if err := s.db.Get(ctx, Collection, id, &q); err != nil {
		return models.Quiz{}, err
	}
	return q, nil
}

func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	var q models.Quiz
	err := s.db.Get(ctx, Collection, id, &q)
	if errors.Is(err, docstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts a new quiz. WordCount is recomputed here so it can never
// drift from the stored word list.
func (s *Store) Create(ctx context.Context, q models.Quiz) (models.Quiz, error) {
	exists, err := s.Exists(ctx, q.ID)
	if err != nil {
		return models.Quiz{}, err
	}
	if exists {
		return models.Quiz{}, ErrDuplicateID
	}

	now := time.Now().UTC()
	if q.Words == nil {
		q.Words = []string{}
	}
	q.WordCount = len(q.Words)
	q.CreatedAt = now
	q.UpdatedAt = now
	if err := s.db.Set(ctx, Collection, q.ID, q); err != nil {
		return models.Quiz{}, err
	}
	return q, nil
}

// Save replaces the full quiz document. The derived word count is always
// recomputed in the same write as the word list.
func (s *Store) Save(ctx context.Context, q models.Quiz) error {
	if q.Words == nil {
		q.Words = []string{}
	}
	q.WordCount = len(q.Words)
	q.UpdatedAt = time.Now().UTC()
	return s.db.Set(ctx, Collection, q.ID, q)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.db.Delete(ctx, Collection, id)
}

func (s *Store) List(ctx context.Context) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	if err := s.db.ListAll(ctx, Collection, &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}
