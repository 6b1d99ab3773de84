// internal/app/features/quizzes/editor.go
package quizzes

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dalemusser/spellhub/internal/app/store/audit"
	"github.com/dalemusser/spellhub/internal/app/store/docstore"
	quizstore "github.com/dalemusser/spellhub/internal/app/store/quizzes"
	"github.com/dalemusser/spellhub/internal/app/system/auditlog"
	"github.com/dalemusser/spellhub/internal/app/system/blob"
	"github.com/dalemusser/spellhub/internal/app/system/editor"
	"github.com/dalemusser/spellhub/internal/app/system/imaging"
	"github.com/dalemusser/spellhub/internal/app/system/wordlist"
	"github.com/dalemusser/spellhub/internal/domain/models"
	"go.uber.org/zap"
)

// ImportMode selects how a bulk word import combines with the quiz's
// existing word list.
type ImportMode string

const (
	ImportReplace ImportMode = "replace"
	ImportAppend  ImportMode = "append"
)

// ParseImportMode maps a request value onto an ImportMode; blank means
// replace.
func ParseImportMode(s string) (ImportMode, error) {
	switch ImportMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ImportReplace:
		return ImportReplace, nil
	case ImportAppend:
		return ImportAppend, nil
	}
	return ImportReplace, fmt.Errorf("invalid import mode %q", s)
}

// Input carries the operator-supplied quiz fields for create and update.
type Input struct {
	Name       string
	Type       string
	Words      []string
	WordPolicy wordlist.Policy
	UserGroups []string
}

// Editor runs the quiz create/edit/delete workflow through the shared
// editing session state machine. An Editor serves one operator workflow
// at a time; handlers construct a fresh one per request.
type Editor struct {
	quizzes *quizstore.Store
	blob    blob.Store
	audit   *auditlog.Logger
	log     *zap.Logger
	session *editor.Session
	groups  *editor.GroupSet
}

// NewEditor constructs a quiz Editor on the given stores.
func NewEditor(db docstore.Store, blobStore blob.Store, auditLog *auditlog.Logger, groups *editor.GroupSet, logger *zap.Logger) *Editor {
	return &Editor{
		quizzes: quizstore.New(db),
		blob:    blobStore,
		audit:   auditLog,
		log:     logger,
		session: editor.NewSession(),
		groups:  groups,
	}
}

// Session exposes the state machine for callers that track workflow
// state (and for tests).
func (e *Editor) Session() *editor.Session { return e.session }

func (e *Editor) validate(in Input) error {
	if strings.TrimSpace(in.Name) == "" {
		return editor.Invalid("quiz name is required")
	}
	if !models.IsValidQuizType(in.Type) {
		return editor.Invalid("quiz type must be one of: %s", strings.Join(models.AllQuizTypes, ", "))
	}
	return e.groups.Validate(in.UserGroups)
}

// Get returns one quiz by name.
func (e *Editor) Get(ctx context.Context, id string) (models.Quiz, error) {
	return e.quizzes.GetByID(ctx, id)
}

// List returns all quizzes.
func (e *Editor) List(ctx context.Context) ([]models.Quiz, error) {
	return e.quizzes.List(ctx)
}

// Create validates the input, applies the duplicate policy to the word
// list, and inserts the quiz. Nothing is written when validation or the
// duplicate prompt suspends the save.
func (e *Editor) Create(ctx context.Context, in Input) (models.Quiz, error) {
	if err := e.session.BeginCreate(); err != nil {
		return models.Quiz{}, err
	}
	if err := e.validate(in); err != nil {
		return models.Quiz{}, err
	}

	words, err := wordlist.Resolve(in.Words, in.WordPolicy)
	if err != nil {
		e.session.SetPending(wordlist.Clean(in.Words))
		return models.Quiz{}, err
	}

	if err := e.session.Submit(); err != nil {
		return models.Quiz{}, err
	}
	created, err := e.quizzes.Create(ctx, models.Quiz{
		ID:         strings.TrimSpace(in.Name),
		Type:       in.Type,
		Words:      words,
		UserGroups: in.UserGroups,
	})
	if err != nil {
		e.session.SetPending(words)
		_ = e.session.Fail()
		return models.Quiz{}, err
	}
	_ = e.session.Succeed(created.ID)

	e.audit.AdminAction(ctx, audit.EventQuizCreated, "quiz", created.ID,
		map[string]string{"type": created.Type, "word_count": fmt.Sprint(created.WordCount)})
	return created, nil
}

// Update edits a quiz in place. The identifier must be unchanged; use
// Rename to change it.
func (e *Editor) Update(ctx context.Context, id string, in Input) (models.Quiz, error) {
	if err := e.session.BeginEdit(id); err != nil {
		return models.Quiz{}, err
	}
	existing, err := e.quizzes.GetByID(ctx, id)
	if err != nil {
		return models.Quiz{}, err
	}

	in.Name = id
	if err := e.validate(in); err != nil {
		return models.Quiz{}, err
	}
	words, err := wordlist.Resolve(in.Words, in.WordPolicy)
	if err != nil {
		e.session.SetPending(wordlist.Clean(in.Words))
		return models.Quiz{}, err
	}

	if err := e.session.Submit(); err != nil {
		return models.Quiz{}, err
	}
	existing.Type = in.Type
	existing.Words = words
	existing.UserGroups = in.UserGroups
	if err := e.quizzes.Save(ctx, existing); err != nil {
		e.session.SetPending(words)
		_ = e.session.Fail()
		return models.Quiz{}, err
	}
	_ = e.session.Succeed(id)

	existing.WordCount = len(words)
	e.audit.AdminAction(ctx, audit.EventQuizUpdated, "quiz", id,
		map[string]string{"word_count": fmt.Sprint(existing.WordCount)})
	return existing, nil
}

// Rename migrates a quiz to a new name: the full field set is written
// under the new identifier, then the old document is deleted. The two
// writes are independent; a failure between them leaves both documents
// present, never neither.
func (e *Editor) Rename(ctx context.Context, oldID, newID string) (models.Quiz, error) {
	newID = strings.TrimSpace(newID)
	if newID == "" {
		return models.Quiz{}, editor.Invalid("new quiz name is required")
	}
	if newID == oldID {
		return models.Quiz{}, editor.Invalid("new quiz name matches the current name")
	}

	if err := e.session.BeginEdit(oldID); err != nil {
		return models.Quiz{}, err
	}
	q, err := e.quizzes.GetByID(ctx, oldID)
	if err != nil {
		return models.Quiz{}, err
	}
	exists, err := e.quizzes.Exists(ctx, newID)
	if err != nil {
		return models.Quiz{}, err
	}
	if exists {
		return models.Quiz{}, quizstore.ErrDuplicateID
	}

	if err := e.session.Submit(); err != nil {
		return models.Quiz{}, err
	}
	q.ID = newID
	if err := e.quizzes.Save(ctx, q); err != nil {
		_ = e.session.Fail()
		return models.Quiz{}, fmt.Errorf("write quiz %q: %w", newID, err)
	}
	if err := e.quizzes.Delete(ctx, oldID); err != nil {
		// New document exists, old one lingers. Surface it; the operator
		// retries the whole rename.
		_ = e.session.Fail()
		return models.Quiz{}, fmt.Errorf("remove old quiz %q after rename: %w", oldID, err)
	}
	_ = e.session.Succeed(newID)

	e.audit.AdminAction(ctx, audit.EventQuizRenamed, "quiz", newID,
		map[string]string{"old_id": oldID})
	return q, nil
}

// Delete removes a quiz. The first call without confirmation parks the
// session in ConfirmingDelete and returns editor.ErrConfirmationRequired;
// nothing is written until the operator confirms.
func (e *Editor) Delete(ctx context.Context, id string, confirmed bool) error {
	if err := e.session.BeginEdit(id); err != nil {
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
	if err := e.quizzes.Delete(ctx, id); err != nil {
		_ = e.session.Fail()
		return err
	}
	_ = e.session.Succeed("")

	e.audit.AdminAction(ctx, audit.EventQuizDeleted, "quiz", id, nil)
	return nil
}

// ImportWords applies a bulk-imported word list to the quiz, in replace
// or append mode, under the given duplicate policy. In append mode the
// policy sees the combined list, so duplicates against already-persisted
// words are detected too.
func (e *Editor) ImportWords(ctx context.Context, id string, entries []string, mode ImportMode, policy wordlist.Policy) (models.Quiz, error) {
	if err := e.session.BeginEdit(id); err != nil {
		return models.Quiz{}, err
	}
	q, err := e.quizzes.GetByID(ctx, id)
	if err != nil {
		return models.Quiz{}, err
	}

	candidate := entries
	if mode == ImportAppend {
		candidate = append(append([]string{}, q.Words...), entries...)
	}
	words, err := wordlist.Resolve(candidate, policy)
	if err != nil {
		e.session.SetPending(wordlist.Clean(candidate))
		return models.Quiz{}, err
	}

	if err := e.session.Submit(); err != nil {
		return models.Quiz{}, err
	}
	q.Words = words
	if err := e.quizzes.Save(ctx, q); err != nil {
		e.session.SetPending(words)
		_ = e.session.Fail()
		return models.Quiz{}, err
	}
	_ = e.session.Succeed(id)

	q.WordCount = len(words)
	e.audit.AdminAction(ctx, audit.EventWordsImported, "quiz", id,
		map[string]string{"mode": string(mode), "word_count": fmt.Sprint(q.WordCount)})
	return q, nil
}

// AttachImage validates and stores a quiz image, then records its path.
// Validation failure aborts before any storage call; the prior image is
// untouched until the new one is safely written.
func (e *Editor) AttachImage(ctx context.Context, id string, r io.Reader, size int64) (models.Quiz, error) {
	q, err := e.quizzes.GetByID(ctx, id)
	if err != nil {
		return models.Quiz{}, err
	}

	data, err := io.ReadAll(io.LimitReader(r, imaging.MaxBytes+1))
	if err != nil {
		return models.Quiz{}, fmt.Errorf("read image: %w", err)
	}
	if size < int64(len(data)) {
		size = int64(len(data))
	}
	if _, err := imaging.Validate(bytes.NewReader(data), size); err != nil {
		return models.Quiz{}, err
	}

	info, err := blob.UploadImage(ctx, e.blob, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return models.Quiz{}, err
	}

	oldPath := q.ImagePath
	q.ImagePath = info.Path
	if err := e.quizzes.Save(ctx, q); err != nil {
		// Clean up the freshly uploaded blob; the document still points
		// at the old image.
		if delErr := e.blob.Delete(ctx, info.Path); delErr != nil {
			e.log.Warn("failed to clean up image after save error",
				zap.String("path", info.Path), zap.Error(delErr))
		}
		return models.Quiz{}, err
	}
	if oldPath != "" {
		if err := e.blob.Delete(ctx, oldPath); err != nil {
			e.log.Warn("failed to delete replaced image",
				zap.String("path", oldPath), zap.Error(err))
		}
	}

	e.audit.AdminAction(ctx, audit.EventImageAttached, "quiz", id,
		map[string]string{"path": info.Path})
	return q, nil
}
