// internal/app/features/lessons/editor.go
package lessons

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
	"github.com/dalemusser/spellhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/spellhub/internal/app/system/imaging"
	"github.com/dalemusser/spellhub/internal/app/system/relsync"
	"github.com/dalemusser/spellhub/internal/app/system/wordlist"
	"github.com/dalemusser/spellhub/internal/domain/models"
	"go.uber.org/zap"
)

// Input carries the operator-supplied lesson fields for create and update.
type Input struct {
	Title        string
	TimeLabel    string
	Difficulty   string
	Introduction string
	Patterns     []models.ListEntry
	MiniLessons  []string
	Summaries    []models.ListEntry
	NextLesson   string
	Category     string
	UserGroups   []string
	ListPolicy   wordlist.Policy
}

// Editor runs the lesson create/edit/delete workflow. Category membership
// stays consistent through the synchronizer on every category-affecting
// write.
type Editor struct {
	lessons *lessonstore.Store
	cats    *categorystore.Store
	sync    *relsync.Synchronizer
	blob    blob.Store
	audit   *auditlog.Logger
	log     *zap.Logger
	session *editor.Session
	groups  *editor.GroupSet
}

// NewEditor constructs a lesson Editor on the given stores.
func NewEditor(db docstore.Store, blobStore blob.Store, auditLog *auditlog.Logger, groups *editor.GroupSet, logger *zap.Logger) *Editor {
	cats := categorystore.New(db)
	return &Editor{
		lessons: lessonstore.New(db),
		cats:    cats,
		sync:    relsync.New(cats, logger),
		blob:    blobStore,
		audit:   auditLog,
		log:     logger,
		session: editor.NewSession(),
		groups:  groups,
	}
}

// Session exposes the state machine for callers that track workflow state.
func (e *Editor) Session() *editor.Session { return e.session }

// entryTexts projects indentable list entries onto their text for
// duplicate detection.
func entryTexts(entries []models.ListEntry) []string {
	out := make([]string, 0, len(entries))
	for _, en := range entries {
		out = append(out, en.Text)
	}
	return out
}

// resolveEntries applies the duplicate policy to an indentable list,
// mirroring wordlist.Resolve. Every surviving entry keeps its own indent
// flag: under keep a retained duplicate is persisted exactly as entered,
// and under remove the first occurrence survives with its flag.
func resolveEntries(entries []models.ListEntry, p wordlist.Policy) ([]models.ListEntry, error) {
	clean := make([]models.ListEntry, 0, len(entries))
	for _, en := range entries {
		t := strings.TrimSpace(en.Text)
		if t == "" {
			continue
		}
		clean = append(clean, models.ListEntry{Indent: en.Indent, Text: t})
	}

	switch p {
	case wordlist.PolicyKeep:
		return clean, nil
	case wordlist.PolicyRemove:
		seen := make(map[string]bool, len(clean))
		out := make([]models.ListEntry, 0, len(clean))
		for _, en := range clean {
			k := wordlist.Key(en.Text)
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, en)
		}
		return out, nil
	case wordlist.PolicyPrompt:
		if dups := wordlist.FindDuplicates(entryTexts(clean)); len(dups) > 0 {
			return nil, &wordlist.DuplicateWordsError{Duplicates: dups}
		}
		return clean, nil
	}
	return nil, fmt.Errorf("invalid duplicate policy %q", string(p))
}

// pendingEntries flattens the input's candidate lists so a suspended or
// failed save retains the operator's full input for retry.
func pendingEntries(in Input) []string {
	all := make([]string, 0, len(in.Patterns)+len(in.MiniLessons)+len(in.Summaries))
	all = append(all, entryTexts(in.Patterns)...)
	all = append(all, in.MiniLessons...)
	all = append(all, entryTexts(in.Summaries)...)
	return wordlist.Clean(all)
}

func (e *Editor) validate(ctx context.Context, id string, in Input) error {
	if strings.TrimSpace(in.Title) == "" {
		return editor.Invalid("lesson title is required")
	}
	if !models.IsValidDifficulty(in.Difficulty) {
		return editor.Invalid("difficulty must be one of: %s", strings.Join(models.AllDifficulties, ", "))
	}
	if in.NextLesson != "" && in.NextLesson == id {
		return editor.Invalid("a lesson cannot reference itself as the next lesson")
	}
	if err := e.groups.Validate(in.UserGroups); err != nil {
		return err
	}
	if in.Category != "" {
		exists, err := e.cats.Exists(ctx, in.Category)
		if err != nil {
			return err
		}
		if !exists {
			return editor.Invalid("category %q does not exist", in.Category)
		}
	}
	return nil
}

// build assembles the lesson document from validated input, applying the
// duplicate policy to both indentable lists and the mini-lesson list.
func (e *Editor) build(id string, in Input) (models.Lesson, error) {
	patterns, err := resolveEntries(in.Patterns, in.ListPolicy)
	if err != nil {
		return models.Lesson{}, err
	}
	summaries, err := resolveEntries(in.Summaries, in.ListPolicy)
	if err != nil {
		return models.Lesson{}, err
	}
	minis, err := wordlist.Resolve(in.MiniLessons, in.ListPolicy)
	if err != nil {
		return models.Lesson{}, err
	}
	return models.Lesson{
		ID:           id,
		Title:        in.Title,
		TimeLabel:    strings.TrimSpace(in.TimeLabel),
		Difficulty:   in.Difficulty,
		Introduction: htmlsanitize.Sanitize(in.Introduction),
		Patterns:     patterns,
		MiniLessons:  minis,
		Summaries:    summaries,
		NextLesson:   strings.TrimSpace(in.NextLesson),
		Category:     strings.TrimSpace(in.Category),
		UserGroups:   in.UserGroups,
	}, nil
}

// Get returns one lesson.
func (e *Editor) Get(ctx context.Context, id string) (models.Lesson, error) {
	return e.lessons.GetByID(ctx, id)
}

// List returns all lessons, optionally restricted to one category.
func (e *Editor) List(ctx context.Context, categoryID string) ([]models.Lesson, error) {
	if categoryID != "" {
		return e.lessons.ListByCategory(ctx, categoryID)
	}
	return e.lessons.List(ctx)
}

// Create validates the input, inserts the lesson, and enrolls it in its
// category's member list.
func (e *Editor) Create(ctx context.Context, in Input) (models.Lesson, error) {
	if err := e.session.BeginCreate(); err != nil {
		return models.Lesson{}, err
	}
	id := strings.TrimSpace(in.Title)
	if err := e.validate(ctx, id, in); err != nil {
		return models.Lesson{}, err
	}
	l, err := e.build(id, in)
	if err != nil {
		e.session.SetPending(pendingEntries(in))
		return models.Lesson{}, err
	}

	if err := e.session.Submit(); err != nil {
		return models.Lesson{}, err
	}
	created, err := e.lessons.Create(ctx, l)
	if err != nil {
		e.session.SetPending(pendingEntries(in))
		_ = e.session.Fail()
		return models.Lesson{}, err
	}
	if err := e.sync.OnCategoryChange(ctx, created.ID, "", created.Category); err != nil {
		e.session.SetPending(pendingEntries(in))
		_ = e.session.Fail()
		return models.Lesson{}, err
	}
	_ = e.session.Succeed(created.ID)

	e.audit.AdminAction(ctx, audit.EventLessonCreated, "lesson", created.ID,
		map[string]string{"category": created.Category, "difficulty": created.Difficulty})
	return created, nil
}

// Update edits a lesson in place. When the category changes, the old
// category's member list is updated before the new one.
func (e *Editor) Update(ctx context.Context, id string, in Input) (models.Lesson, error) {
	if err := e.session.BeginEdit(id); err != nil {
		return models.Lesson{}, err
	}
	existing, err := e.lessons.GetByID(ctx, id)
	if err != nil {
		return models.Lesson{}, err
	}

	in.Title = id
	if err := e.validate(ctx, id, in); err != nil {
		return models.Lesson{}, err
	}
	l, err := e.build(id, in)
	if err != nil {
		e.session.SetPending(pendingEntries(in))
		return models.Lesson{}, err
	}

	if err := e.session.Submit(); err != nil {
		return models.Lesson{}, err
	}
	l.ImagePath = existing.ImagePath
	l.CreatedAt = existing.CreatedAt
	if err := e.lessons.Save(ctx, l); err != nil {
		e.session.SetPending(pendingEntries(in))
		_ = e.session.Fail()
		return models.Lesson{}, err
	}
	if err := e.sync.OnCategoryChange(ctx, id, existing.Category, l.Category); err != nil {
		e.session.SetPending(pendingEntries(in))
		_ = e.session.Fail()
		return models.Lesson{}, err
	}
	_ = e.session.Succeed(id)

	e.audit.AdminAction(ctx, audit.EventLessonUpdated, "lesson", id,
		map[string]string{"category": l.Category})
	return l, nil
}

// Rename migrates a lesson to a new title. The full document is written
// under the new identifier, the old document is removed, and the category
// member list is migrated to the new identifier.
func (e *Editor) Rename(ctx context.Context, oldID, newID string) (models.Lesson, error) {
	newID = strings.TrimSpace(newID)
	if newID == "" {
		return models.Lesson{}, editor.Invalid("new lesson title is required")
	}
	if newID == oldID {
		return models.Lesson{}, editor.Invalid("new lesson title matches the current title")
	}

	if err := e.session.BeginEdit(oldID); err != nil {
		return models.Lesson{}, err
	}
	l, err := e.lessons.GetByID(ctx, oldID)
	if err != nil {
		return models.Lesson{}, err
	}
	exists, err := e.lessons.Exists(ctx, newID)
	if err != nil {
		return models.Lesson{}, err
	}
	if exists {
		return models.Lesson{}, lessonstore.ErrDuplicateID
	}

	if err := e.session.Submit(); err != nil {
		return models.Lesson{}, err
	}
	l.ID = newID
	l.Title = newID
	if err := e.lessons.Save(ctx, l); err != nil {
		_ = e.session.Fail()
		return models.Lesson{}, fmt.Errorf("write lesson %q: %w", newID, err)
	}
	if err := e.lessons.Delete(ctx, oldID); err != nil {
		_ = e.session.Fail()
		return models.Lesson{}, fmt.Errorf("remove old lesson %q after rename: %w", oldID, err)
	}
	if err := e.sync.OnRename(ctx, oldID, newID, l.Category, l.Category); err != nil {
		_ = e.session.Fail()
		return models.Lesson{}, err
	}
	_ = e.session.Succeed(newID)

	e.audit.AdminAction(ctx, audit.EventLessonRenamed, "lesson", newID,
		map[string]string{"old_id": oldID})
	return l, nil
}

// Delete removes a lesson after explicit confirmation and withdraws it
// from its category's member list.
func (e *Editor) Delete(ctx context.Context, id string, confirmed bool) error {
	if err := e.session.BeginEdit(id); err != nil {
		return err
	}
	l, err := e.lessons.GetByID(ctx, id)
	if err != nil {
		return err
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
	if err := e.lessons.Delete(ctx, id); err != nil {
		_ = e.session.Fail()
		return err
	}
	if err := e.sync.OnCategoryChange(ctx, id, l.Category, ""); err != nil {
		_ = e.session.Fail()
		return err
	}
	_ = e.session.Succeed("")

	e.audit.AdminAction(ctx, audit.EventLessonDeleted, "lesson", id, nil)
	return nil
}

// AttachImage validates and stores a lesson image, then records its path.
func (e *Editor) AttachImage(ctx context.Context, id string, r io.Reader, size int64) (models.Lesson, error) {
	l, err := e.lessons.GetByID(ctx, id)
	if err != nil {
		return models.Lesson{}, err
	}

	data, err := io.ReadAll(io.LimitReader(r, imaging.MaxBytes+1))
	if err != nil {
		return models.Lesson{}, fmt.Errorf("read image: %w", err)
	}
	if size < int64(len(data)) {
		size = int64(len(data))
	}
	if _, err := imaging.Validate(bytes.NewReader(data), size); err != nil {
		return models.Lesson{}, err
	}

	info, err := blob.UploadImage(ctx, e.blob, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return models.Lesson{}, err
	}

	oldPath := l.ImagePath
	l.ImagePath = info.Path
	if err := e.lessons.Save(ctx, l); err != nil {
		if delErr := e.blob.Delete(ctx, info.Path); delErr != nil {
			e.log.Warn("failed to clean up image after save error",
				zap.String("path", info.Path), zap.Error(delErr))
		}
		return models.Lesson{}, err
	}
	if oldPath != "" {
		if err := e.blob.Delete(ctx, oldPath); err != nil {
			e.log.Warn("failed to delete replaced image",
				zap.String("path", oldPath), zap.Error(err))
		}
	}

	e.audit.AdminAction(ctx, audit.EventImageAttached, "lesson", id,
		map[string]string{"path": info.Path})
	return l, nil
}
