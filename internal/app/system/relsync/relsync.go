// internal/app/system/relsync/relsync.go

// Package relsync keeps the two-way link between lessons and categories
// consistent: a Category's member list must mirror which Lesson documents
// declare that category as their parent. The store has no foreign keys, so
// every lesson mutation must route through the Synchronizer as a mandatory
// side effect rather than updating membership inline.
package relsync

import (
	"context"
	"fmt"

	categorystore "github.com/dalemusser/spellhub/internal/app/store/categories"
	"go.uber.org/zap"
)

// Synchronizer applies membership side effects of lesson mutations.
//
// Calls are fire-and-forget: there is no read-back verification and no
// compensating rollback. The remove and add are two independent document
// updates; if the add fails after the remove succeeded, the lesson is left
// dangling out of both member lists until the operator retries. That gap
// is a documented limitation of the non-transactional store.
type Synchronizer struct {
	cats *categorystore.Store
	log  *zap.Logger
}

func New(cats *categorystore.Store, logger *zap.Logger) *Synchronizer {
	return &Synchronizer{cats: cats, log: logger}
}

// OnCategoryChange records that lesson lessonID moved from oldCategory to
// newCategory. Empty string means "no category" on that side, which makes
// the one call cover create (old empty), delete (new empty), and move.
// Equal old and new is a no-op.
func (s *Synchronizer) OnCategoryChange(ctx context.Context, lessonID, oldCategory, newCategory string) error {
	if oldCategory == newCategory {
		return nil
	}
	if oldCategory != "" {
		if err := s.cats.RemoveMember(ctx, oldCategory, lessonID); err != nil {
			return fmt.Errorf("remove lesson %q from category %q: %w", lessonID, oldCategory, err)
		}
	}
	if newCategory != "" {
		if err := s.cats.AddMember(ctx, newCategory, lessonID); err != nil {
			return fmt.Errorf("add lesson %q to category %q: %w", lessonID, newCategory, err)
		}
	}
	s.log.Info("category membership updated",
		zap.String("lesson_id", lessonID),
		zap.String("old_category", oldCategory),
		zap.String("new_category", newCategory))
	return nil
}

// OnRename records an identifier rename: the old lesson ID leaves whatever
// category it belonged to and the new ID joins the target category. The
// rename itself is delete-old-plus-create-new at the document level, so
// membership follows the same shape.
func (s *Synchronizer) OnRename(ctx context.Context, oldLessonID, newLessonID, oldCategory, newCategory string) error {
	if oldCategory != "" {
		if err := s.cats.RemoveMember(ctx, oldCategory, oldLessonID); err != nil {
			return fmt.Errorf("remove lesson %q from category %q: %w", oldLessonID, oldCategory, err)
		}
	}
	if newCategory != "" {
		if err := s.cats.AddMember(ctx, newCategory, newLessonID); err != nil {
			return fmt.Errorf("add lesson %q to category %q: %w", newLessonID, newCategory, err)
		}
	}
	s.log.Info("category membership moved for rename",
		zap.String("old_lesson_id", oldLessonID),
		zap.String("new_lesson_id", newLessonID),
		zap.String("old_category", oldCategory),
		zap.String("new_category", newCategory))
	return nil
}
