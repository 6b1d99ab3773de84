// internal/app/features/posts/editor.go
package posts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dalemusser/spellhub/internal/app/store/audit"
	"github.com/dalemusser/spellhub/internal/app/store/docstore"
	poststore "github.com/dalemusser/spellhub/internal/app/store/posts"
	"github.com/dalemusser/spellhub/internal/app/system/auditlog"
	"github.com/dalemusser/spellhub/internal/app/system/blob"
	"github.com/dalemusser/spellhub/internal/app/system/editor"
	"github.com/dalemusser/spellhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/spellhub/internal/app/system/imaging"
	"github.com/dalemusser/spellhub/internal/domain/models"
)

// Input carries the operator-supplied fields for one post. Exactly one
// variant is set, matching Type.
type Input struct {
	Type       string
	UserGroups []string

	Announcement *models.AnnouncementFields
	Article      *models.ArticleFields
	WordOfDay    *models.WordOfDayFields
}

// Editor runs the post create/edit/delete workflow. Posts are keyed by
// generated identifiers, so there is no rename migration here.
type Editor struct {
	posts   *poststore.Store
	blob    blob.Store
	audit   *auditlog.Logger
	log     *zap.Logger
	session *editor.Session
	groups  *editor.GroupSet
}

// NewEditor constructs a post Editor on the given stores.
func NewEditor(db docstore.Store, blobStore blob.Store, auditLog *auditlog.Logger, groups *editor.GroupSet, logger *zap.Logger) *Editor {
	return &Editor{
		posts:   poststore.New(db),
		blob:    blobStore,
		audit:   auditLog,
		log:     logger,
		session: editor.NewSession(),
		groups:  groups,
	}
}

// Session exposes the state machine for callers that track workflow state.
func (e *Editor) Session() *editor.Session { return e.session }

// assemble builds the post document from input, sanitizing every
// rich-text field and normalizing the WOTD activation date.
func assemble(id string, in Input) models.Post {
	p := models.Post{
		ID:         id,
		Type:       in.Type,
		UserGroups: in.UserGroups,
	}
	switch {
	case in.Announcement != nil:
		a := *in.Announcement
		a.Details = htmlsanitize.Sanitize(a.Details)
		a.SubDetails = htmlsanitize.Sanitize(a.SubDetails)
		p.Announcement = &a
	case in.Article != nil:
		art := *in.Article
		art.Introduction = htmlsanitize.Sanitize(art.Introduction)
		art.Conclusion = htmlsanitize.Sanitize(art.Conclusion)
		sections := make([]models.ArticleSection, 0, len(art.Sections))
		for _, s := range art.Sections {
			sections = append(sections, models.ArticleSection{
				Heading: strings.TrimSpace(s.Heading),
				Body:    htmlsanitize.Sanitize(s.Body),
			})
		}
		art.Sections = sections
		p.Article = &art
	case in.WordOfDay != nil:
		w := *in.WordOfDay
		w.Word = strings.TrimSpace(w.Word)
		if !w.ActiveOn.IsZero() {
			w.ActiveOn = models.NormalizeActiveOn(w.ActiveOn)
		}
		p.WordOfDay = &w
	}
	return p
}

func (e *Editor) validate(p *models.Post, groups []string) error {
	if err := e.groups.Validate(groups); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return editor.Invalid("%s", err.Error())
	}
	return nil
}

// Get returns one post.
func (e *Editor) Get(ctx context.Context, id string) (models.Post, error) {
	return e.posts.GetByID(ctx, id)
}

// List returns all posts, optionally restricted to one type.
func (e *Editor) List(ctx context.Context, postType string) ([]models.Post, error) {
	all, err := e.posts.List(ctx)
	if err != nil {
		return nil, err
	}
	if postType == "" {
		return all, nil
	}
	out := make([]models.Post, 0, len(all))
	for _, p := range all {
		if p.Type == postType {
			out = append(out, p)
		}
	}
	return out, nil
}

// ActiveWordOfDay returns the word-of-the-day post whose activation date
// matches now's calendar day in the fixed WOTD offset.
func (e *Editor) ActiveWordOfDay(ctx context.Context, now time.Time) (models.Post, error) {
	today := models.NormalizeActiveOn(now)
	wotds, err := e.List(ctx, models.PostWordOfDay)
	if err != nil {
		return models.Post{}, err
	}
	for _, p := range wotds {
		if p.WordOfDay != nil && p.WordOfDay.ActiveOn.Equal(today) {
			return p, nil
		}
	}
	return models.Post{}, docstore.ErrNotFound
}

// Create inserts a new post under a generated identifier.
func (e *Editor) Create(ctx context.Context, in Input) (models.Post, error) {
	if err := e.session.BeginCreate(); err != nil {
		return models.Post{}, err
	}
	p := assemble(uuid.NewString(), in)
	p.UploadedAt = time.Now().UTC()
	if err := e.validate(&p, in.UserGroups); err != nil {
		return models.Post{}, err
	}

	if err := e.session.Submit(); err != nil {
		return models.Post{}, err
	}
	created, err := e.posts.Create(ctx, p)
	if err != nil {
		_ = e.session.Fail()
		return models.Post{}, err
	}
	_ = e.session.Succeed(created.ID)

	e.audit.AdminAction(ctx, audit.EventPostCreated, "post", created.ID,
		map[string]string{"type": created.Type})
	return created, nil
}

// Update replaces a post's content. The type of an existing post cannot
// change; delete and recreate instead.
func (e *Editor) Update(ctx context.Context, id string, in Input) (models.Post, error) {
	if err := e.session.BeginEdit(id); err != nil {
		return models.Post{}, err
	}
	existing, err := e.posts.GetByID(ctx, id)
	if err != nil {
		return models.Post{}, err
	}
	if in.Type != existing.Type {
		return models.Post{}, editor.Invalid("post type cannot change from %q to %q", existing.Type, in.Type)
	}

	p := assemble(id, in)
	p.UploadedAt = existing.UploadedAt
	p.CreatedAt = existing.CreatedAt
	if existing.Announcement != nil && p.Announcement != nil {
		// Likes and ownership survive content edits.
		p.Announcement.Likes = existing.Announcement.Likes
		if p.Announcement.Owner == "" {
			p.Announcement.Owner = existing.Announcement.Owner
		}
	}
	if existing.Article != nil && p.Article != nil && p.Article.ImagePath == "" {
		p.Article.ImagePath = existing.Article.ImagePath
	}
	if err := e.validate(&p, in.UserGroups); err != nil {
		return models.Post{}, err
	}

	if err := e.session.Submit(); err != nil {
		return models.Post{}, err
	}
	if err := e.posts.Save(ctx, p); err != nil {
		_ = e.session.Fail()
		return models.Post{}, err
	}
	_ = e.session.Succeed(id)

	e.audit.AdminAction(ctx, audit.EventPostUpdated, "post", id,
		map[string]string{"type": p.Type})
	return p, nil
}

// Delete removes a post after explicit confirmation.
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
	if err := e.posts.Delete(ctx, id); err != nil {
		_ = e.session.Fail()
		return err
	}
	_ = e.session.Succeed("")

	e.audit.AdminAction(ctx, audit.EventPostDeleted, "post", id, nil)
	return nil
}

// Like adjusts an announcement's like counter by delta (+1 or -1). The
// counter never goes below zero.
func (e *Editor) Like(ctx context.Context, id string, delta int) (int, error) {
	if delta != 1 && delta != -1 {
		return 0, editor.Invalid("like delta must be 1 or -1")
	}
	return e.posts.IncrementLikes(ctx, id, delta)
}

// AttachImage validates and stores an article post's image.
func (e *Editor) AttachImage(ctx context.Context, id string, r io.Reader, size int64) (models.Post, error) {
	p, err := e.posts.GetByID(ctx, id)
	if err != nil {
		return models.Post{}, err
	}
	if p.Article == nil {
		return models.Post{}, editor.Invalid("only article posts carry an image")
	}

	data, err := io.ReadAll(io.LimitReader(r, imaging.MaxBytes+1))
	if err != nil {
		return models.Post{}, fmt.Errorf("read image: %w", err)
	}
	if size < int64(len(data)) {
		size = int64(len(data))
	}
	if _, err := imaging.Validate(bytes.NewReader(data), size); err != nil {
		return models.Post{}, err
	}

	info, err := blob.UploadImage(ctx, e.blob, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return models.Post{}, err
	}

	oldPath := p.Article.ImagePath
	p.Article.ImagePath = info.Path
	if err := e.posts.Save(ctx, p); err != nil {
		if delErr := e.blob.Delete(ctx, info.Path); delErr != nil {
			e.log.Warn("failed to clean up image after save error",
				zap.String("path", info.Path), zap.Error(delErr))
		}
		return models.Post{}, err
	}
	if oldPath != "" {
		if err := e.blob.Delete(ctx, oldPath); err != nil {
			e.log.Warn("failed to delete replaced image",
				zap.String("path", oldPath), zap.Error(err))
		}
	}

	e.audit.AdminAction(ctx, audit.EventImageAttached, "post", id,
		map[string]string{"path": info.Path})
	return p, nil
}
