// internal/app/features/categories/handler.go
package categories

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	categorystore "github.com/dalemusser/spellhub/internal/app/store/categories"
	"github.com/dalemusser/spellhub/internal/app/store/docstore"
	"github.com/dalemusser/spellhub/internal/app/system/auditlog"
	"github.com/dalemusser/spellhub/internal/app/system/blob"
	"github.com/dalemusser/spellhub/internal/app/system/editor"
	"github.com/dalemusser/spellhub/internal/app/system/imaging"
	"github.com/dalemusser/spellhub/internal/app/system/timeouts"

	uierrors "github.com/dalemusser/spellhub/internal/app/features/errors"
)

// Handler serves the category admin endpoints.
type Handler struct {
	DB     docstore.Store
	Blob   blob.Store
	Audit  *auditlog.Logger
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs a category Handler.
func NewHandler(db docstore.Store, blobStore blob.Store, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Blob:   blobStore,
		Audit:  auditLog,
		Log:    logger,
		ErrLog: uierrors.NewErrorLogger(logger),
	}
}

func (h *Handler) editor() *Editor {
	return NewEditor(h.DB, h.Blob, h.Audit, h.Log)
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TimeLabel   string `json:"time_label"`
}

type renameRequest struct {
	NewName string `json:"new_name"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) renderEditorError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, categorystore.ErrDuplicateID):
		uierrors.RenderConflict(w, "a category with that name already exists")
	case errors.Is(err, docstore.ErrNotFound):
		uierrors.RenderNotFound(w, "category not found")
	case errors.Is(err, editor.ErrConfirmationRequired):
		uierrors.RenderConflict(w, "deleting a category is permanent; repeat the request with confirm=true")
	case editor.IsValidation(err):
		uierrors.RenderUnprocessable(w, err.Error())
	case errors.Is(err, imaging.ErrTooLarge),
		errors.Is(err, imaging.ErrWrongFormat),
		errors.Is(err, imaging.ErrBadRatio):
		uierrors.RenderUnprocessable(w, err.Error())
	case errors.Is(err, editor.ErrInvalidTransition):
		uierrors.RenderConflict(w, "the editing session is not in a state that allows this action")
	default:
		h.ErrLog.LogServerError(w, r, "category operation failed", err, "something went wrong; please try again")
	}
}

// HandleList returns every category with its member lessons.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.editor().List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "failed to list categories", err, "unable to load categories")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleGet returns one category by name.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.editor().Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.renderEditorError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleCreate makes a new category with an empty member list.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "malformed category payload", err, "request body must be valid JSON")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.editor().Create(ctx, Input{
		Name:        req.Name,
		Description: req.Description,
		TimeLabel:   req.TimeLabel,
	})
	if err != nil {
		h.renderEditorError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleUpdate edits a category's descriptive fields.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "malformed category payload", err, "request body must be valid JSON")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	updated, err := h.editor().Update(ctx, chi.URLParam(r, "id"), Input{
		Description: req.Description,
		TimeLabel:   req.TimeLabel,
	})
	if err != nil {
		h.renderEditorError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleRename migrates a category, and its member lessons, to a new name.
func (h *Handler) HandleRename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "malformed rename payload", err, "request body must be valid JSON")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	renamed, err := h.editor().Rename(ctx, chi.URLParam(r, "id"), req.NewName)
	if err != nil {
		h.renderEditorError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, renamed)
}

// HandleDelete removes an empty category after explicit confirmation.
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

// HandleAttachImage stores a category image upload.
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

	c, err := h.editor().AttachImage(ctx, chi.URLParam(r, "id"), file, header.Size)
	if err != nil {
		h.renderEditorError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
