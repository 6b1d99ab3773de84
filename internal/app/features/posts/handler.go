// internal/app/features/posts/handler.go
package posts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/spellhub/internal/app/store/docstore"
	poststore "github.com/dalemusser/spellhub/internal/app/store/posts"
	"github.com/dalemusser/spellhub/internal/app/system/auditlog"
	"github.com/dalemusser/spellhub/internal/app/system/blob"
	"github.com/dalemusser/spellhub/internal/app/system/editor"
	"github.com/dalemusser/spellhub/internal/app/system/imaging"
	"github.com/dalemusser/spellhub/internal/app/system/timeouts"
	"github.com/dalemusser/spellhub/internal/domain/models"

	uierrors "github.com/dalemusser/spellhub/internal/app/features/errors"
)

// Handler serves the post admin endpoints.
type Handler struct {
	DB     docstore.Store
	Blob   blob.Store
	Audit  *auditlog.Logger
	Groups *editor.GroupSet
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs a post Handler.
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

type postRequest struct {
	Type         string                     `json:"type"`
	UserGroups   []string                   `json:"user_groups"`
	Announcement *models.AnnouncementFields `json:"announcement,omitempty"`
	Article      *models.ArticleFields      `json:"article,omitempty"`
	WordOfDay    *models.WordOfDayFields    `json:"wotd,omitempty"`
}

type likeRequest struct {
	Delta int `json:"delta"`
}

type likeResponse struct {
	Likes int `json:"likes"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) renderEditorError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, poststore.ErrDuplicateID):
		uierrors.RenderConflict(w, "a post with that identifier already exists")
	case errors.Is(err, docstore.ErrNotFound):
		uierrors.RenderNotFound(w, "post not found")
	case errors.Is(err, editor.ErrConfirmationRequired):
		uierrors.RenderConflict(w, "deleting a post is permanent; repeat the request with confirm=true")
	case editor.IsValidation(err):
		uierrors.RenderUnprocessable(w, err.Error())
	case errors.Is(err, imaging.ErrTooLarge),
		errors.Is(err, imaging.ErrWrongFormat),
		errors.Is(err, imaging.ErrBadRatio):
		uierrors.RenderUnprocessable(w, err.Error())
	case errors.Is(err, editor.ErrInvalidTransition):
		uierrors.RenderConflict(w, "the editing session is not in a state that allows this action")
	default:
		h.ErrLog.LogServerError(w, r, "post operation failed", err, "something went wrong; please try again")
	}
}

func input(req postRequest) Input {
	return Input{
		Type:         req.Type,
		UserGroups:   req.UserGroups,
		Announcement: req.Announcement,
		Article:      req.Article,
		WordOfDay:    req.WordOfDay,
	}
}

// HandleList returns all posts; ?type= restricts to one post type.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.editor().List(ctx, r.URL.Query().Get("type"))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "failed to list posts", err, "unable to load posts")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleWordOfDay returns the word-of-the-day active today.
func (h *Handler) HandleWordOfDay(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.editor().ActiveWordOfDay(ctx, time.Now())
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			uierrors.RenderNotFound(w, "no word of the day is active today")
			return
		}
		h.renderEditorError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleGet returns one post by identifier.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.editor().Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.renderEditorError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleCreate makes a new post.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "malformed post payload", err, "request body must be valid JSON")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.editor().Create(ctx, input(req))
	if err != nil {
		h.renderEditorError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleUpdate replaces a post's content.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "malformed post payload", err, "request body must be valid JSON")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	updated, err := h.editor().Update(ctx, chi.URLParam(r, "id"), input(req))
	if err != nil {
		h.renderEditorError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleDelete removes a post after explicit confirmation.
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

// HandleLike adjusts an announcement's like counter.
func (h *Handler) HandleLike(w http.ResponseWriter, r *http.Request) {
	var req likeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "malformed like payload", err, "request body must be valid JSON")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	likes, err := h.editor().Like(ctx, chi.URLParam(r, "id"), req.Delta)
	if err != nil {
		h.renderEditorError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, likeResponse{Likes: likes})
}

// HandleAttachImage stores an article post's image upload.
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

	p, err := h.editor().AttachImage(ctx, chi.URLParam(r, "id"), file, header.Size)
	if err != nil {
		h.renderEditorError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
