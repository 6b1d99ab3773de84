// internal/app/features/quizzes/handler.go
package quizzes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/spellhub/internal/app/store/docstore"
	quizstore "github.com/dalemusser/spellhub/internal/app/store/quizzes"
	"github.com/dalemusser/spellhub/internal/app/system/auditlog"
	"github.com/dalemusser/spellhub/internal/app/system/blob"
	"github.com/dalemusser/spellhub/internal/app/system/editor"
	"github.com/dalemusser/spellhub/internal/app/system/imaging"
	"github.com/dalemusser/spellhub/internal/app/system/timeouts"
	"github.com/dalemusser/spellhub/internal/app/system/wordlist"

	uierrors "github.com/dalemusser/spellhub/internal/app/features/errors"
)

// Handler serves the quiz admin endpoints.
type Handler struct {
	DB     docstore.Store
	Blob   blob.Store
	Audit  *auditlog.Logger
	Groups *editor.GroupSet
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs a quiz Handler.
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

type quizRequest struct {
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	Words           []string `json:"words"`
	DuplicatePolicy string   `json:"duplicate_policy"`
	UserGroups      []string `json:"user_groups"`
}

type renameRequest struct {
	NewName string `json:"new_name"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// renderEditorError maps the quiz workflow errors onto HTTP responses.
func (h *Handler) renderEditorError(w http.ResponseWriter, r *http.Request, err error) {
	var dup *wordlist.DuplicateWordsError
	switch {
	case errors.As(err, &dup):
		uierrors.RenderDuplicateWords(w, dup.Duplicates)
	case errors.Is(err, quizstore.ErrDuplicateID):
		uierrors.RenderConflict(w, "a quiz with that name already exists")
	case errors.Is(err, docstore.ErrNotFound):
		uierrors.RenderNotFound(w, "quiz not found")
	case errors.Is(err, editor.ErrConfirmationRequired):
		uierrors.RenderConflict(w, "deleting a quiz is permanent; repeat the request with confirm=true")
	case editor.IsValidation(err):
		uierrors.RenderUnprocessable(w, err.Error())
	case errors.Is(err, imaging.ErrTooLarge),
		errors.Is(err, imaging.ErrWrongFormat),
		errors.Is(err, imaging.ErrBadRatio):
		uierrors.RenderUnprocessable(w, err.Error())
	case errors.Is(err, editor.ErrInvalidTransition):
		uierrors.RenderConflict(w, "the editing session is not in a state that allows this action")
	default:
		h.ErrLog.LogServerError(w, r, "quiz operation failed", err, "something went wrong; please try again")
	}
}

// HandleList returns every quiz.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.editor().List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "failed to list quizzes", err, "unable to load quizzes")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleGet returns one quiz by name.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	q, err := h.editor().Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.renderEditorError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// HandleCreate makes a new quiz.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "malformed quiz payload", err, "request body must be valid JSON")
		return
	}
	policy, err := wordlist.ParsePolicy(req.DuplicatePolicy)
	if err != nil {
		uierrors.RenderBadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.editor().Create(ctx, Input{
		Name:       req.Name,
		Type:       req.Type,
		Words:      req.Words,
		WordPolicy: policy,
		UserGroups: req.UserGroups,
	})
	if err != nil {
		h.renderEditorError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleUpdate edits a quiz in place.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "malformed quiz payload", err, "request body must be valid JSON")
		return
	}
	policy, err := wordlist.ParsePolicy(req.DuplicatePolicy)
	if err != nil {
		uierrors.RenderBadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	updated, err := h.editor().Update(ctx, chi.URLParam(r, "id"), Input{
		Type:       req.Type,
		Words:      req.Words,
		WordPolicy: policy,
		UserGroups: req.UserGroups,
	})
	if err != nil {
		h.renderEditorError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleRename migrates a quiz to a new name.
func (h *Handler) HandleRename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "malformed rename payload", err, "request body must be valid JSON")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	renamed, err := h.editor().Rename(ctx, chi.URLParam(r, "id"), req.NewName)
	if err != nil {
		h.renderEditorError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, renamed)
}

// HandleDelete removes a quiz after explicit confirmation.
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

// HandleImportWords ingests a bulk word list from an uploaded file or a
// pasted text block.
func (h *Handler) HandleImportWords(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, wordlist.MaxUploadSize)
	if err := r.ParseMultipartForm(wordlist.MaxUploadSize); err != nil {
		h.ErrLog.LogBadRequest(w, r, "failed to parse import form", err, "upload form is invalid or too large")
		return
	}

	mode, err := ParseImportMode(r.FormValue("mode"))
	if err != nil {
		uierrors.RenderBadRequest(w, err.Error())
		return
	}
	policy, err := wordlist.ParsePolicy(r.FormValue("duplicate_policy"))
	if err != nil {
		uierrors.RenderBadRequest(w, err.Error())
		return
	}

	var entries []string
	file, header, fileErr := r.FormFile("file")
	switch {
	case fileErr == nil:
		defer file.Close()
		if strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
			entries, err = wordlist.ParseWorkbook(file)
			if err != nil {
				h.ErrLog.LogBadRequest(w, r, "failed to read workbook", err, "workbook could not be read")
				return
			}
		} else {
			raw := new(strings.Builder)
			if _, err := io.Copy(raw, file); err != nil {
				h.ErrLog.LogBadRequest(w, r, "failed to read upload", err, "uploaded file could not be read")
				return
			}
			entries = wordlist.ParseDelimited(raw.String())
		}
	case r.FormValue("text") != "":
		entries = wordlist.ParseDelimited(r.FormValue("text"))
	default:
		uierrors.RenderBadRequest(w, "provide a file upload or a text field")
		return
	}
	if len(entries) > wordlist.MaxEntries {
		uierrors.RenderUnprocessable(w, "word list exceeds the maximum entry count")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	q, err := h.editor().ImportWords(ctx, chi.URLParam(r, "id"), entries, mode, policy)
	if err != nil {
		h.renderEditorError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// HandleAttachImage stores a quiz image upload.
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

	q, err := h.editor().AttachImage(ctx, chi.URLParam(r, "id"), file, header.Size)
	if err != nil {
		h.renderEditorError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}
