// internal/app/store/posts/poststore.go
package poststore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/spellhub/internal/app/store/docstore"
	"github.com/dalemusser/spellhub/internal/domain/models"
)

// Collection is the document collection backing this store.
const Collection = "posts"

var ErrDuplicateID = errors.New("a post with this identifier already exists")

// Store manages Post documents.
type Store struct {
	db docstore.Store
}

func New(db docstore.Store) *Store {
	return &Store{db: db}
}

func (s *Store) GetByID(ctx context.Context, id string) (models.Post, error) {
	var p models.Post
	if err := s.db.Get(ctx, Collection, id, &p); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	var p models.Post
	err := s.db.Get(ctx, Collection, id, &p)
	if errors.Is(err, docstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts a new post; the variant must already be validated.
func (s *Store) Create(ctx context.Context, p models.Post) (models.Post, error) {
	exists, err := s.Exists(ctx, p.ID)
	if err != nil {
		return models.Post{}, err
	}
	if exists {
		return models.Post{}, ErrDuplicateID
	}

	now := time.Now().UTC()
	if p.UploadedAt.IsZero() {
		p.UploadedAt = now
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.db.Set(ctx, Collection, p.ID, p); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

// Save replaces the full post document, refreshing updated_at.
func (s *Store) Save(ctx context.Context, p models.Post) error {
	p.UpdatedAt = time.Now().UTC()
	return s.db.Set(ctx, Collection, p.ID, p)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.db.Delete(ctx, Collection, id)
}

func (s *Store) List(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := s.db.ListAll(ctx, Collection, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// IncrementLikes bumps an announcement's like counter by delta, writing
// the whole announcement field set in one document update.
func (s *Store) IncrementLikes(ctx context.Context, id string, delta int) (int, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if p.Type != models.PostAnnouncement || p.Announcement == nil {
		return 0, errors.New("likes only apply to announcement posts")
	}
	p.Announcement.Likes += delta
	if p.Announcement.Likes < 0 {
		p.Announcement.Likes = 0
	}
	err = s.db.Update(ctx, Collection, id, map[string]any{
		"announcement": p.Announcement,
		"updated_at":   time.Now().UTC(),
	})
	if err != nil {
		return 0, err
	}
	return p.Announcement.Likes, nil
}
