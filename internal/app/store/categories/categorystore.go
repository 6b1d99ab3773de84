// internal/app/store/categories/categorystore.go
package categorystore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/spellhub/internal/app/store/docstore"
	"github.com/dalemusser/spellhub/internal/domain/models"
)

// Collection is the document collection backing this store.
const Collection = "categories"

var ErrDuplicateID = errors.New("a category with this identifier already exists")

// Store manages Category documents.
type Store struct {
	db docstore.Store
}

func New(db docstore.Store) *Store {
	return &Store{db: db}
}

func (s *Store) GetByID(ctx context.Context, id string) (models.Category, error) {
	var c models.Category
	if err := s.db.Get(ctx, Collection, id, &c); err != nil {
		return models.Category{}, err
	}
	return c, nil
}

// Exists reports whether a category document with the given ID exists.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	var c models.Category
	err := s.db.Get(ctx, Collection, id, &c)
	if errors.Is(err, docstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts a new category. The identifier is operator-chosen; the
// uniqueness check is read-then-write, so a concurrent creator can race
// it (accepted limitation, last write wins).
func (s *Store) Create(ctx context.Context, c models.Category) (models.Category, error) {
	exists, err := s.Exists(ctx, c.ID)
	if err != nil {
		return models.Category{}, err
	}
	if exists {
		return models.Category{}, ErrDuplicateID
	}

	now := time.Now().UTC()
	if c.Members == nil {
		c.Members = []string{}
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	if err := s.db.Set(ctx, Collection, c.ID, c); err != nil {
		return models.Category{}, err
	}
	return c, nil
}

// Save replaces the full category document, refreshing updated_at.
func (s *Store) Save(ctx context.Context, c models.Category) error {
	c.UpdatedAt = time.Now().UTC()
	return s.db.Set(ctx, Collection, c.ID, c)
}

// UpdateInfo merges the editable fields (description, labels, image) into
// the document. Members is deliberately not part of this: membership only
// changes through AddMember/RemoveMember as lesson side effects.
func (s *Store) UpdateInfo(ctx context.Context, id, description, timeLabel, imagePath string) error {
	return s.db.Update(ctx, Collection, id, map[string]any{
		"description": description,
		"time_label":  timeLabel,
		"image_path":  imagePath,
		"updated_at":  time.Now().UTC(),
	})
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.db.Delete(ctx, Collection, id)
}

func (s *Store) List(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := s.db.ListAll(ctx, Collection, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// AddMember appends lessonID to the category's member list if absent.
// The write replaces the whole member array in one document update.
func (s *Store) AddMember(ctx context.Context, categoryID, lessonID string) error {
	c, err := s.GetByID(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("load category %q: %w", categoryID, err)
	}
	if c.HasMember(lessonID) {
		return nil
	}
	members := append(c.Members, lessonID)
	return s.db.Update(ctx, Collection, categoryID, map[string]any{
		"members":    members,
		"updated_at": time.Now().UTC(),
	})
}

// RemoveMember drops lessonID from the category's member list. Removing
// from an absent category is a no-op: the membership is already gone.
func (s *Store) RemoveMember(ctx context.Context, categoryID, lessonID string) error {
	c, err := s.GetByID(ctx, categoryID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load category %q: %w", categoryID, err)
	}
	if !c.HasMember(lessonID) {
		return nil
	}
	members := make([]string, 0, len(c.Members)-1)
	for _, m := range c.Members {
		if m != lessonID {
			members = append(members, m)
		}
	}
	return s.db.Update(ctx, Collection, categoryID, map[string]any{
		"members":    members,
		"updated_at": time.Now().UTC(),
	})
}
