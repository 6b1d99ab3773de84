// internal/app/features/lessons/handler.go
package lessons

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/spellhub/internal/app/store/docstore"
	lessonstore "github.com/dalemusser/spellhub/internal/app/store/lessons"
	"github.com/dalemusser/spellhub/internal/app/system/auditlog"
	"github.com/dalemusser/spellhub/internal/app/system/blob"
	"github.com/dalemusser/spellhub/internal/app/system/editor"
	"github.com/dalemusser/spellhub/internal/app/system/imaging"
	"github.com/dalemusser/spellhub/internal/app/system/timeouts"
	"github.com/dalemusser/spellhub/internal/app/system/wordlist"
	"github.com/dalemusser/spellhub/internal/domain/models"

	uierrors "github.com/dalemusser/spellhub/internal/app/features/errors"
)

// Handler serves the lesson admin endpoints.
type Handler struct {
	DB     docstore.Store
	Blob   blob.Store
	Audit  *auditlog.Logger
	Groups *editor.GroupSet
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs a lesson Handler.
func NewHandler(db docstore.Store, blobStore blob.Store, auditLog *auditlog.Logger, groups *editor.GroupSet, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Blob:   blobStore,
		Audit:  auditLog,
		Groups: groups,
		Log:    logger,
		ErrLog: uierrors.NewErrorLogger(logger),
	}
}

func (h *Handler) editor() *Editor {
	return NewEditor(h.DB, h.Blob, h.Audit, h.Groups, h.Log)
}

type listEntry struct {
	Indent bool   `json:"indent"`
	Text   string `json:"text"`
}

type lessonRequest struct {
	Title           string      `json:"title"`
	TimeLabel       string      `json:"time_label"`
	Difficulty      string      `json:"difficulty"`
	Introduction    string      `json:"introduction"`
	Patterns        []listEntry `json:"patterns"`
	MiniLessons     []string    `json:"mini_lessons"`
	Summaries       []listEntry `json:"summaries"`
	NextLesson      string      `json:"next_lesson"`
	Category        string      `json:"category"`
	UserGroups      []string    `json:"user_groups"`
	DuplicatePolicy string      `json:"duplicate_policy"`
}

type renameRequest struct {
	NewTitle string `json:"new_title"`
}

func toEntries(in []listEntry) []models.ListEntry {
	out := make([]models.ListEntry, 0, len(in))
	for _, e := range in {
		out = append(out, models.ListEntry{Indent: e.Indent, Text: e.Text})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) renderEditorError(w http.ResponseWriter, r *http.Request, err error) {
	var dup *wordlist.DuplicateWordsError
	switch {
	case errors.As(err, &dup):
		uierrors.RenderDuplicateWords(w, dup.Duplicates)
	case errors.Is(err, lessonstore.ErrDuplicateID):
		uierrors.RenderConflict(w, "a lesson with that title already exists")
	case errors.Is(err, docstore.ErrNotFound):
		uierrors.RenderNotFound(w, "lesson not found")
	case errors.Is(err, editor.ErrConfirmationRequired):
		uierrors.RenderConflict(w, "deleting a lesson is permanent; repeat the request with confirm=true")
	case editor.IsValidation(err):
		uierrors.RenderUnprocessable(w, err.Error())
	case errors.Is(err, imaging.ErrTooLarge),
		errors.Is(err, imaging.ErrWrongFormat),
		errors.Is(err, imaging.ErrBadRatio):
		uierrors.RenderUnprocessable(w, err.Error())
	case errors.Is(err, editor.ErrInvalidTransition):
		uierrors.RenderConflict(w, "the editing session is not in a state that allows this action")
	default:
		h.ErrLog.LogServerError(w, r, "lesson operation failed", err, "something went wrong; please try again")
	}
}

func (h *Handler) input(req lessonRequest, policy wordlist.Policy) Input {
	return Input{
		Title:        req.Title,
		TimeLabel:    req.TimeLabel,
		Difficulty:   req.Difficulty,
		Introduction: req.Introduction,
		Patterns:     toEntries(req.Patterns),
		MiniLessons:  req.MiniLessons,
		Summaries:    toEntries(req.Summaries),
		NextLesson:   req.NextLesson,
		Category:     req.Category,
		UserGroups:   req.UserGroups,
		ListPolicy:   policy,
	}
}

// HandleList returns all lessons; ?category= restricts to one category.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.editor().List(ctx, r.URL.Query().Get("category"))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "failed to list lessons", err, "unable to load lessons")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleGet returns one lesson by title.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	l, err := h.editor().Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.renderEditorError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// HandleCreate makes a new lesson and enrolls it in its category.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req lessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "malformed lesson payload", err, "request body must be valid JSON")
		return
	}
	policy, err := wordlist.ParsePolicy(req.DuplicatePolicy)
	if err != nil {
		uierrors.RenderBadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.editor().Create(ctx, h.input(req, policy))
	if err != nil {
		h.renderEditorError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleUpdate edits a lesson in place.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req lessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "malformed lesson payload", err, "request body must be valid JSON")
		return
	}
	policy, err := wordlist.ParsePolicy(req.DuplicatePolicy)
	if err != nil {
		uierrors.RenderBadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	updated, err := h.editor().Update(ctx, chi.URLParam(r, "id"), h.input(req, policy))
	if err != nil {
		h.renderEditorError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleRename migrates a lesson to a new title.
func (h *Handler) HandleRename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "malformed rename payload", err, "request body must be valid JSON")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	renamed, err := h.editor().Rename(ctx, chi.URLParam(r, "id"), req.NewTitle)
	if err != nil {
		h.renderEditorError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, renamed)
}

// HandleDelete removes a lesson after explicit confirmation.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	confirmed := r.URL.Query().Get("confirm") == "true"
	if err := h.editor().Delete(ctx, chi.URLParam(r, "id"), confirmed); err != nil {
		h.renderEditorError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAttachImage stores a lesson image upload.
func (h *Handler) HandleAttachImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxBytes+1024)
	if err := r.ParseMultipartForm(imaging.MaxBytes); err != nil {
		h.ErrLog.LogBadRequest(w, r, "failed to parse image form", err, "upload form is invalid or too large")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		uierrors.RenderBadRequest(w, "an image file is required")
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	l, err := h.editor().AttachImage(ctx, chi.URLParam(r, "id"), file, header.Size)
	if err != nil {
		h.renderEditorError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}
