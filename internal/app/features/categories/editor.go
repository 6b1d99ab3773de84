// internal/app/features/categories/editor.go
package categories

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dalemusser/spellhub/internal/app/store/audit"
	categorystore "github.com/dalemusser/spellhub/internal/app/store/categories"
	"github.com/dalemusser/spellhub/internal/app/store/docstore"
	lessonstore "github.com/dalemusser/spellhub/internal/app/store/lessons"
	"github.com/dalemusser/spellhub/internal/app/system/auditlog"
	"github.com/dalemusser/spellhub/internal/app/system/blob"
	"github.com/dalemusser/spellhub/internal/app/system/editor"
	"github.com/dalemusser/spellhub/internal/app/system/imaging"
	"github.com/dalemusser/spellhub/internal/domain/models"
	"go.uber.org/zap"
)

// Input carries the operator-supplied category fields. The member list is
// never part of the input; it is owned by lesson-side writes.
type Input struct {
	Name        string
	Description string
	TimeLabel   string
}

// Editor runs the category create/edit/delete workflow.
type Editor struct {
	cats    *categorystore.Store
	lessons *lessonstore.Store
	blob    blob.Store
	audit   *auditlog.Logger
	log     *zap.Logger
	session *editor.Session
}

// NewEditor constructs a category Editor on the given stores.
func NewEditor(db docstore.Store, blobStore blob.Store, auditLog *auditlog.Logger, logger *zap.Logger) *Editor {
	return &Editor{
		cats:    categorystore.New(db),
		lessons: lessonstore.New(db),
		blob:    blobStore,
		audit:   auditLog,
		log:     logger,
		session: editor.NewSession(),
	}
}

// Session exposes the state machine for callers that track workflow state.
func (e *Editor) Session() *editor.Session { return e.session }

func validate(in Input) error {
	if strings.TrimSpace(in.Name) == "" {
		return editor.Invalid("category name is required")
	}
	return nil
}

// Get returns one category.
func (e *Editor) Get(ctx context.Context, id string) (models.Category, error) {
	return e.cats.GetByID(ctx, id)
}

// List returns all categories.
func (e *Editor) List(ctx context.Context) ([]models.Category, error) {
	return e.cats.List(ctx)
}

// Create inserts a category with an empty member list.
func (e *Editor) Create(ctx context.Context, in Input) (models.Category, error) {
	if err := e.session.BeginCreate(); err != nil {
		return models.Category{}, err
	}
	if err := validate(in); err != nil {
		return models.Category{}, err
	}

	if err := e.session.Submit(); err != nil {
		return models.Category{}, err
	}
	created, err := e.cats.Create(ctx, models.Category{
		ID:          strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		TimeLabel:   strings.TrimSpace(in.TimeLabel),
	})
	if err != nil {
		_ = e.session.Fail()
		return models.Category{}, err
	}
	_ = e.session.Succeed(created.ID)

	e.audit.AdminAction(ctx, audit.EventCategoryCreated, "category", created.ID, nil)
	return created, nil
}

// Update edits the category's descriptive fields. The member list is
// untouched; only lesson writes change it.
func (e *Editor) Update(ctx context.Context, id string, in Input) (models.Category, error) {
	if err := e.session.BeginEdit(id); err != nil {
		return models.Category{}, err
	}
	existing, err := e.cats.GetByID(ctx, id)
	if err != nil {
		return models.Category{}, err
	}

	if err := e.session.Submit(); err != nil {
		return models.Category{}, err
	}
	desc := strings.TrimSpace(in.Description)
	label := strings.TrimSpace(in.TimeLabel)
	if err := e.cats.UpdateInfo(ctx, id, desc, label, existing.ImagePath); err != nil {
		_ = e.session.Fail()
		return models.Category{}, err
	}
	_ = e.session.Succeed(id)

	existing.Description = desc
	existing.TimeLabel = label
	e.audit.AdminAction(ctx, audit.EventCategoryUpdated, "category", id, nil)
	return existing, nil
}

// Rename migrates a category to a new name: the document, member list
// included, is written under the new identifier, every member lesson's
// category field is repointed, and the old document is deleted last so a
// mid-failure never strands lessons pointing at a missing category.
func (e *Editor) Rename(ctx context.Context, oldID, newID string) (models.Category, error) {
	newID = strings.TrimSpace(newID)
	if newID == "" {
		return models.Category{}, editor.Invalid("new category name is required")
	}
	if newID == oldID {
		return models.Category{}, editor.Invalid("new category name matches the current name")
	}

	if err := e.session.BeginEdit(oldID); err != nil {
		return models.Category{}, err
	}
	c, err := e.cats.GetByID(ctx, oldID)
	if err != nil {
		return models.Category{}, err
	}
	exists, err := e.cats.Exists(ctx, newID)
	if err != nil {
		return models.Category{}, err
	}
	if exists {
		return models.Category{}, categorystore.ErrDuplicateID
	}

	if err := e.session.Submit(); err != nil {
		return models.Category{}, err
	}
	c.ID = newID
	if err := e.cats.Save(ctx, c); err != nil {
		_ = e.session.Fail()
		return models.Category{}, fmt.Errorf("write category %q: %w", newID, err)
	}
	for _, lessonID := range c.Members {
		l, err := e.lessons.GetByID(ctx, lessonID)
		if err != nil {
			if err == docstore.ErrNotFound {
				// Stale member entry; nothing to repoint.
				e.log.Warn("category member has no lesson document",
					zap.String("category", oldID), zap.String("lesson", lessonID))
				continue
			}
			_ = e.session.Fail()
			return models.Category{}, err
		}
		l.Category = newID
		if err := e.lessons.Save(ctx, l); err != nil {
			_ = e.session.Fail()
			return models.Category{}, fmt.Errorf("repoint lesson %q to %q: %w", lessonID, newID, err)
		}
	}
	// A lesson can point at the category without appearing in Members when
	// a past membership update was cut short between its two writes. Sweep
	// by category field so nothing keeps referencing the removed name.
	strays, err := e.lessons.ListByCategory(ctx, oldID)
	if err != nil {
		_ = e.session.Fail()
		return models.Category{}, err
	}
	for _, l := range strays {
		l.Category = newID
		if err := e.lessons.Save(ctx, l); err != nil {
			_ = e.session.Fail()
			return models.Category{}, fmt.Errorf("repoint lesson %q to %q: %w", l.ID, newID, err)
		}
	}
	if err := e.cats.Delete(ctx, oldID); err != nil {
		_ = e.session.Fail()
		return models.Category{}, fmt.Errorf("remove old category %q after rename: %w", oldID, err)
	}
	_ = e.session.Succeed(newID)

	e.audit.AdminAction(ctx, audit.EventCategoryRenamed, "category", newID,
		map[string]string{"old_id": oldID, "members": fmt.Sprint(len(c.Members))})
	return c, nil
}

// Delete removes a category after explicit confirmation. A category that
// still has member lessons cannot be deleted; reassign or delete its
// lessons first.
func (e *Editor) Delete(ctx context.Context, id string, confirmed bool) error {
	if err := e.session.BeginEdit(id); err != nil {
		return err
	}
	c, err := e.cats.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if len(c.Members) > 0 {
		return editor.Invalid("category %q still has %d lessons; reassign them first", id, len(c.Members))
	}
	if err := e.session.RequestDelete(); err != nil {
		return err
	}
	if !confirmed {
		return editor.ErrConfirmationRequired
	}
	if err := e.session.ConfirmDelete(); err != nil {
		return err
	}
	if err := e.cats.Delete(ctx, id); err != nil {
		_ = e.session.Fail()
		return err
	}
	_ = e.session.Succeed("")

	e.audit.AdminAction(ctx, audit.EventCategoryDeleted, "category", id, nil)
	return nil
}

// AttachImage validates and stores a category image, then records its
// path without disturbing the member list.
func (e *Editor) AttachImage(ctx context.Context, id string, r io.Reader, size int64) (models.Category, error) {
	c, err := e.cats.GetByID(ctx, id)
	if err != nil {
		return models.Category{}, err
	}

	data, err := io.ReadAll(io.LimitReader(r, imaging.MaxBytes+1))
	if err != nil {
		return models.Category{}, fmt.Errorf("read image: %w", err)
	}
	if size < int64(len(data)) {
		size = int64(len(data))
	}
	if _, err := imaging.Validate(bytes.NewReader(data), size); err != nil {
		return models.Category{}, err
	}

	info, err := blob.UploadImage(ctx, e.blob, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return models.Category{}, err
	}

	oldPath := c.ImagePath
	if err := e.cats.UpdateInfo(ctx, id, c.Description, c.TimeLabel, info.Path); err != nil {
		if delErr := e.blob.Delete(ctx, info.Path); delErr != nil {
			e.log.Warn("failed to clean up image after save error",
				zap.String("path", info.Path), zap.Error(delErr))
		}
		return models.Category{}, err
	}
	if oldPath != "" {
		if err := e.blob.Delete(ctx, oldPath); err != nil {
			e.log.Warn("failed to delete replaced image",
				zap.String("path", oldPath), zap.Error(err))
		}
	}

	c.ImagePath = info.Path
	e.audit.AdminAction(ctx, audit.EventImageAttached, "category", id,
		map[string]string{"path": info.Path})
	return c, nil
}
