package posts

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/spellhub/internal/app/store/docstore"
	"github.com/dalemusser/spellhub/internal/app/system/auditlog"
	"github.com/dalemusser/spellhub/internal/app/system/editor"
	"github.com/dalemusser/spellhub/internal/domain/models"
	"github.com/dalemusser/spellhub/internal/testutil"
	"go.uber.org/zap"
)

func newTestEditor(t *testing.T) (*Editor, docstore.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewEditor(db, testutil.NewBlobRecorder(), auditlog.NewNopLogger(), nil, zap.NewNop()), db
}

// freshEditor gives each workflow its own session, as a handler would.
func freshEditor(db docstore.Store) *Editor {
	return NewEditor(db, testutil.NewBlobRecorder(), auditlog.NewNopLogger(), nil, zap.NewNop())
}

func announcementInput(details string) Input {
	return Input{
		Type:         models.PostAnnouncement,
		Announcement: &models.AnnouncementFields{Details: details, Owner: "teacher-1"},
	}
}

func TestCreate_GeneratesIDAndTimestamps(t *testing.T) {
	ed, _ := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p, err := ed.Create(ctx, announcementInput("Spelling bee Friday"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.ID == "" {
		t.Error("expected generated id")
	}
	if p.UploadedAt.IsZero() {
		t.Error("expected UploadedAt set")
	}
}

func TestCreate_SanitizesAnnouncementDetails(t *testing.T) {
	ed, _ := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p, err := ed.Create(ctx, announcementInput(`<b>Hello</b><script>alert("x")</script>`))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.Announcement.Details != "<b>Hello</b>" {
		t.Errorf("expected script stripped, got %q", p.Announcement.Details)
	}
}

func TestCreate_RejectsMissingVariantFields(t *testing.T) {
	ed, _ := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := ed.Create(ctx, Input{
		Type:         models.PostAnnouncement,
		Announcement: &models.AnnouncementFields{Owner: "teacher-1"},
	})
	if !editor.IsValidation(err) {
		t.Errorf("expected validation error for empty details, got %v", err)
	}
}

func TestCreate_NormalizesWordOfDayActivation(t *testing.T) {
	ed, _ := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// 03:00 UTC is still the previous calendar day at UTC-5.
	activeOn := time.Date(2026, 9, 2, 3, 0, 0, 0, time.UTC)
	p, err := ed.Create(ctx, Input{
		Type:      models.PostWordOfDay,
		WordOfDay: &models.WordOfDayFields{Word: "onomatopoeia", ActiveOn: activeOn},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	got := p.WordOfDay.ActiveOn
	if got.Day() != 1 || got.Month() != time.September || got.Hour() != 0 {
		t.Errorf("expected midnight Sep 1 in the fixed offset, got %v", got)
	}
	if !got.Equal(models.NormalizeActiveOn(activeOn)) {
		t.Errorf("stored date must be the normalized form, got %v", got)
	}
}

func TestActiveWordOfDay(t *testing.T) {
	ed, db := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Date(2026, 9, 2, 15, 0, 0, 0, time.UTC)
	if _, err := ed.Create(ctx, Input{
		Type:      models.PostWordOfDay,
		WordOfDay: &models.WordOfDayFields{Word: "yesterday", ActiveOn: now.AddDate(0, 0, -1)},
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := freshEditor(db).Create(ctx, Input{
		Type:      models.PostWordOfDay,
		WordOfDay: &models.WordOfDayFields{Word: "today", ActiveOn: now},
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	p, err := freshEditor(db).ActiveWordOfDay(ctx, now)
	if err != nil {
		t.Fatalf("ActiveWordOfDay failed: %v", err)
	}
	if p.WordOfDay.Word != "today" {
		t.Errorf("expected today's word, got %q", p.WordOfDay.Word)
	}

	if _, err := freshEditor(db).ActiveWordOfDay(ctx, now.AddDate(0, 0, 7)); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound for a day with no word, got %v", err)
	}
}

func TestUpdate_RejectsTypeChange(t *testing.T) {
	ed, db := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p, err := ed.Create(ctx, announcementInput("Spelling bee Friday"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err = freshEditor(db).Update(ctx, p.ID, Input{
		Type:    models.PostArticle,
		Article: &models.ArticleFields{Introduction: "intro"},
	})
	if !editor.IsValidation(err) {
		t.Errorf("expected validation error for type change, got %v", err)
	}
}

func TestUpdate_PreservesLikesAndOwner(t *testing.T) {
	ed, db := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p, err := ed.Create(ctx, announcementInput("Spelling bee Friday"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := freshEditor(db).Like(ctx, p.ID, 1); err != nil {
		t.Fatalf("Like failed: %v", err)
	}
	if _, err := freshEditor(db).Like(ctx, p.ID, 1); err != nil {
		t.Fatalf("Like failed: %v", err)
	}

	got, err := freshEditor(db).Update(ctx, p.ID, Input{
		Type:         models.PostAnnouncement,
		Announcement: &models.AnnouncementFields{Details: "Bee moved to Monday"},
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Announcement.Likes != 2 {
		t.Errorf("likes must survive a content edit, got %d", got.Announcement.Likes)
	}
	if got.Announcement.Owner != "teacher-1" {
		t.Errorf("owner must survive a content edit, got %q", got.Announcement.Owner)
	}
	if got.Announcement.Details != "Bee moved to Monday" {
		t.Errorf("expected updated details, got %q", got.Announcement.Details)
	}
}

func TestLike_RejectsOutOfRangeDelta(t *testing.T) {
	ed, db := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p, err := ed.Create(ctx, announcementInput("Spelling bee Friday"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := freshEditor(db).Like(ctx, p.ID, 5); !editor.IsValidation(err) {
		t.Errorf("expected validation error for delta 5, got %v", err)
	}
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	ed, db := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p, err := ed.Create(ctx, announcementInput("Spelling bee Friday"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := freshEditor(db).Delete(ctx, p.ID, false); !errors.Is(err, editor.ErrConfirmationRequired) {
		t.Fatalf("expected confirmation gate, got %v", err)
	}
	if err := freshEditor(db).Delete(ctx, p.ID, true); err != nil {
		t.Fatalf("confirmed delete failed: %v", err)
	}
	if _, err := freshEditor(db).Get(ctx, p.ID); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("expected post removed, got %v", err)
	}
}

func TestAttachImage_AnnouncementRejected(t *testing.T) {
	ed, db := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p, err := ed.Create(ctx, announcementInput("Spelling bee Friday"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	img := testutil.MakePNG(t, 400, 300)
	_, err = freshEditor(db).AttachImage(ctx, p.ID, bytes.NewReader(img), int64(len(img)))
	if !editor.IsValidation(err) {
		t.Errorf("expected validation error for non-article image, got %v", err)
	}
}
