package categories

import (
	"errors"
	"reflect"
	"testing"

	categorystore "github.com/dalemusser/spellhub/internal/app/store/categories"
	"github.com/dalemusser/spellhub/internal/app/store/docstore"
	lessonstore "github.com/dalemusser/spellhub/internal/app/store/lessons"
	"github.com/dalemusser/spellhub/internal/app/system/auditlog"
	"github.com/dalemusser/spellhub/internal/app/system/editor"
	"github.com/dalemusser/spellhub/internal/testutil"
	"go.uber.org/zap"
)

func newTestEditor(t *testing.T) (*Editor, docstore.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewEditor(db, testutil.NewBlobRecorder(), auditlog.NewNopLogger(), zap.NewNop()), db
}

// freshEditor gives each workflow its own session, as a handler would.
func freshEditor(db docstore.Store) *Editor {
	return NewEditor(db, testutil.NewBlobRecorder(), auditlog.NewNopLogger(), zap.NewNop())
}

func TestCreate_StartsWithEmptyMembers(t *testing.T) {
	ed, _ := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c, err := ed.Create(ctx, Input{Name: "Roots", Description: "Greek and Latin roots", TimeLabel: "Week 3"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if c.Members == nil || len(c.Members) != 0 {
		t.Errorf("expected empty non-nil members, got %v", c.Members)
	}
	if c.Description != "Greek and Latin roots" || c.TimeLabel != "Week 3" {
		t.Errorf("descriptive fields lost: %+v", c)
	}
}

func TestCreate_RejectsBlankName(t *testing.T) {
	ed, _ := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := ed.Create(ctx, Input{Name: "  "}); !editor.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestUpdate_NeverTouchesMembers(t *testing.T) {
	ed, db := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := ed.Create(ctx, Input{Name: "Roots"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	cats := categorystore.New(db)
	testutil.NewFixtures(t, db).CreateLesson(ctx, "L1", "Roots")
	if err := cats.AddMember(ctx, "Roots", "L1"); err != nil {
		t.Fatalf("seed member: %v", err)
	}

	got, err := freshEditor(db).Update(ctx, "Roots", Input{Description: "updated", TimeLabel: "Week 4"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Description != "updated" || got.TimeLabel != "Week 4" {
		t.Errorf("descriptive fields not updated: %+v", got)
	}
	stored, err := cats.GetByID(ctx, "Roots")
	if err != nil {
		t.Fatalf("load category: %v", err)
	}
	if !reflect.DeepEqual(stored.Members, []string{"L1"}) {
		t.Errorf("update must leave members alone, got %v", stored.Members)
	}
}

func TestRename_RepointsMemberLessons(t *testing.T) {
	ed, db := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := ed.Create(ctx, Input{Name: "Roots"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	fx := testutil.NewFixtures(t, db)
	cats := categorystore.New(db)
	for _, title := range []string{"L1", "L2"} {
		fx.CreateLesson(ctx, title, "Roots")
		if err := cats.AddMember(ctx, "Roots", title); err != nil {
			t.Fatalf("seed member %s: %v", title, err)
		}
	}

	c, err := freshEditor(db).Rename(ctx, "Roots", "Word Roots")
	if err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if c.ID != "Word Roots" {
		t.Errorf("expected id Word Roots, got %q", c.ID)
	}
	if !reflect.DeepEqual(c.Members, []string{"L1", "L2"}) {
		t.Errorf("member list must survive the rename, got %v", c.Members)
	}

	lessons := lessonstore.New(db)
	for _, title := range []string{"L1", "L2"} {
		l, err := lessons.GetByID(ctx, title)
		if err != nil {
			t.Fatalf("load lesson %s: %v", title, err)
		}
		if l.Category != "Word Roots" {
			t.Errorf("lesson %s still points at %q", title, l.Category)
		}
	}
	if _, err := cats.GetByID(ctx, "Roots"); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("old category must be gone, got %v", err)
	}
}

func TestRename_SkipsStaleMemberEntries(t *testing.T) {
	ed, db := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := ed.Create(ctx, Input{Name: "Roots"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	cats := categorystore.New(db)
	if err := cats.AddMember(ctx, "Roots", "Ghost"); err != nil {
		t.Fatalf("seed stale member: %v", err)
	}

	c, err := freshEditor(db).Rename(ctx, "Roots", "Word Roots")
	if err != nil {
		t.Fatalf("rename with stale member must succeed: %v", err)
	}
	if !reflect.DeepEqual(c.Members, []string{"Ghost"}) {
		t.Errorf("stale entry carried over unchanged, got %v", c.Members)
	}
}

func TestRename_RejectsExistingTarget(t *testing.T) {
	ed, db := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := ed.Create(ctx, Input{Name: "Roots"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := freshEditor(db).Create(ctx, Input{Name: "Prefixes"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := freshEditor(db).Rename(ctx, "Roots", "Prefixes"); !errors.Is(err, categorystore.ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
}

func TestDelete_RejectedWhileMembersRemain(t *testing.T) {
	ed, db := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := ed.Create(ctx, Input{Name: "Roots"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := categorystore.New(db).AddMember(ctx, "Roots", "L1"); err != nil {
		t.Fatalf("seed member: %v", err)
	}

	err := freshEditor(db).Delete(ctx, "Roots", true)
	if !editor.IsValidation(err) {
		t.Fatalf("expected validation rejection, got %v", err)
	}
	if _, err := categorystore.New(db).GetByID(ctx, "Roots"); err != nil {
		t.Errorf("category must survive a rejected delete: %v", err)
	}
}

func TestDelete_EmptyCategoryWithConfirmation(t *testing.T) {
	ed, db := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := ed.Create(ctx, Input{Name: "Roots"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := freshEditor(db).Delete(ctx, "Roots", false); !errors.Is(err, editor.ErrConfirmationRequired) {
		t.Fatalf("expected confirmation gate, got %v", err)
	}
	if err := freshEditor(db).Delete(ctx, "Roots", true); err != nil {
		t.Fatalf("confirmed delete failed: %v", err)
	}
	if _, err := categorystore.New(db).GetByID(ctx, "Roots"); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("expected category removed, got %v", err)
	}
}

func TestRename_RepointsLessonsMissingFromMembers(t *testing.T) {
	ed, db := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := ed.Create(ctx, Input{Name: "Roots"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	// Lesson document points at Roots but was never enrolled in Members,
	// the drift a cut-short membership update leaves behind.
	testutil.NewFixtures(t, db).CreateLesson(ctx, "Stray", "Roots")

	if _, err := freshEditor(db).Rename(ctx, "Roots", "Word Roots"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	l, err := lessonstore.New(db).GetByID(ctx, "Stray")
	if err != nil {
		t.Fatalf("load lesson: %v", err)
	}
	if l.Category != "Word Roots" {
		t.Errorf("rename must repoint lessons found by category field, got %q", l.Category)
	}
}
