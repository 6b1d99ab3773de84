package quizzes

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/dalemusser/spellhub/internal/app/store/docstore"
	quizstore "github.com/dalemusser/spellhub/internal/app/store/quizzes"
	"github.com/dalemusser/spellhub/internal/app/system/auditlog"
	"github.com/dalemusser/spellhub/internal/app/system/editor"
	"github.com/dalemusser/spellhub/internal/app/system/imaging"
	"github.com/dalemusser/spellhub/internal/app/system/wordlist"
	"github.com/dalemusser/spellhub/internal/domain/models"
	"github.com/dalemusser/spellhub/internal/testutil"
	"go.uber.org/zap"
)

func newTestEditor(t *testing.T) (*Editor, docstore.Store, *testutil.BlobRecorder) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	blobStore := testutil.NewBlobRecorder()
	return NewEditor(db, blobStore, auditlog.NewNopLogger(), nil, zap.NewNop()), db, blobStore
}

// freshEditor gives each workflow its own session, as a handler would.
func freshEditor(db docstore.Store, blobStore *testutil.BlobRecorder) *Editor {
	return NewEditor(db, blobStore, auditlog.NewNopLogger(), nil, zap.NewNop())
}

func TestCreate_PromptPolicySuspendsOnDuplicates(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := ed.Create(ctx, Input{
		Name:  "Q1",
		Type:  models.QuizSpelling,
		Words: []string{"ant", "bee", "ant"},
	})
	var dup *wordlist.DuplicateWordsError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateWordsError, got %v", err)
	}
	if !reflect.DeepEqual(dup.Duplicates, []string{"ant"}) {
		t.Errorf("expected [ant], got %v", dup.Duplicates)
	}
	// Nothing was written; the session still holds the candidate list.
	if _, err := ed.Get(ctx, "Q1"); err == nil {
		t.Error("expected no quiz to be persisted")
	}
	if got := ed.Session().Pending(); len(got) != 3 {
		t.Errorf("expected candidate list retained, got %v", got)
	}
}

func TestCreate_KeepPolicyPersistsAll(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	q, err := ed.Create(ctx, Input{
		Name:       "Q1",
		Type:       models.QuizSpelling,
		Words:      []string{"ant", "bee", "ant"},
		WordPolicy: wordlist.PolicyKeep,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if q.WordCount != 3 {
		t.Errorf("keep policy must persist all entries: count %d", q.WordCount)
	}
	if ed.Session().State() != editor.Idle {
		t.Errorf("expected Idle after create success, got %s", ed.Session().State())
	}
}

func TestCreate_RemovePolicyDedupes(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	q, err := ed.Create(ctx, Input{
		Name:       "Q1",
		Type:       models.QuizSpelling,
		Words:      []string{"Cat", "dog", "cat"},
		WordPolicy: wordlist.PolicyRemove,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !reflect.DeepEqual(q.Words, []string{"Cat", "dog"}) {
		t.Errorf("expected [Cat dog], got %v", q.Words)
	}
	if q.WordCount != 2 {
		t.Errorf("count must match persisted list, got %d", q.WordCount)
	}
}

func TestCreate_RejectsInvalidType(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := ed.Create(ctx, Input{Name: "Q1", Type: "trivia"})
	if !editor.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreate_RejectsUnknownGroup(t *testing.T) {
	blobStore := testutil.NewBlobRecorder()
	groups := editor.NewGroupSet([]string{"elementary", "middle"})
	ed := NewEditor(testutil.SetupTestDB(t), blobStore, auditlog.NewNopLogger(), groups, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := ed.Create(ctx, Input{
		Name:       "Q1",
		Type:       models.QuizSpelling,
		UserGroups: []string{"college"},
	})
	if !editor.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestRename_PreservesAllFields(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := ed.Create(ctx, Input{
		Name:       "Q1",
		Type:       models.QuizRoots,
		Words:      []string{"aqua", "bio", "geo"},
		UserGroups: []string{"middle"},
		WordPolicy: wordlist.PolicyKeep,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	renamed, err := ed.Rename(ctx, "Q1", "Q2")
	if err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if renamed.ID != "Q2" {
		t.Errorf("expected id Q2, got %q", renamed.ID)
	}

	got, err := ed.Get(ctx, "Q2")
	if err != nil {
		t.Fatalf("quiz missing under new name: %v", err)
	}
	if got.Type != created.Type ||
		!reflect.DeepEqual(got.Words, created.Words) ||
		got.WordCount != created.WordCount ||
		!reflect.DeepEqual(got.UserGroups, created.UserGroups) {
		t.Errorf("rename lost fields: %+v vs %+v", got, created)
	}
	if _, err := ed.Get(ctx, "Q1"); err == nil {
		t.Error("old quiz must be gone after rename")
	}
}

func TestRename_RejectsExistingTarget(t *testing.T) {
	ed, db, blobStore := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	seedEditor := func(name string) {
		if _, err := freshEditor(db, blobStore).Create(ctx, Input{Name: name, Type: models.QuizSpelling}); err != nil {
			t.Fatalf("seed create failed: %v", err)
		}
	}
	seedEditor("Q1")
	seedEditor("Q2")

	if _, err := ed.Rename(ctx, "Q1", "Q2"); !errors.Is(err, quizstore.ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	ed, db, blobStore := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := ed.Create(ctx, Input{Name: "Q1", Type: models.QuizSpelling}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	ed2 := freshEditor(db, blobStore)
	if err := ed2.Delete(ctx, "Q1", false); !errors.Is(err, editor.ErrConfirmationRequired) {
		t.Fatalf("expected confirmation gate, got %v", err)
	}
	// Still there: first phase writes nothing.
	if _, err := ed2.Get(ctx, "Q1"); err != nil {
		t.Errorf("quiz removed without confirmation: %v", err)
	}

	ed3 := freshEditor(db, blobStore)
	if err := ed3.Delete(ctx, "Q1", true); err != nil {
		t.Fatalf("confirmed delete failed: %v", err)
	}
	if _, err := ed3.Get(ctx, "Q1"); err == nil {
		t.Error("quiz still present after confirmed delete")
	}
}

func TestImportWords_ReplaceAndAppend(t *testing.T) {
	ed, db, blobStore := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := ed.Create(ctx, Input{
		Name:       "Q1",
		Type:       models.QuizSpelling,
		Words:      []string{"ant"},
		WordPolicy: wordlist.PolicyKeep,
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	ed2 := freshEditor(db, blobStore)
	q, err := ed2.ImportWords(ctx, "Q1", []string{"bee", "cat"}, ImportReplace, wordlist.PolicyPrompt)
	if err != nil {
		t.Fatalf("replace import failed: %v", err)
	}
	if !reflect.DeepEqual(q.Words, []string{"bee", "cat"}) {
		t.Errorf("expected [bee cat], got %v", q.Words)
	}

	ed3 := freshEditor(db, blobStore)
	q, err = ed3.ImportWords(ctx, "Q1", []string{"dog"}, ImportAppend, wordlist.PolicyPrompt)
	if err != nil {
		t.Fatalf("append import failed: %v", err)
	}
	if !reflect.DeepEqual(q.Words, []string{"bee", "cat", "dog"}) {
		t.Errorf("expected [bee cat dog], got %v", q.Words)
	}
	if q.WordCount != 3 {
		t.Errorf("expected count 3, got %d", q.WordCount)
	}
}

func TestImportWords_AppendDetectsCrossBatchDuplicates(t *testing.T) {
	ed, db, blobStore := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := ed.Create(ctx, Input{
		Name:       "Q1",
		Type:       models.QuizSpelling,
		Words:      []string{"ant", "bee"},
		WordPolicy: wordlist.PolicyKeep,
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	ed2 := freshEditor(db, blobStore)
	_, err := ed2.ImportWords(ctx, "Q1", []string{"Ant", "cat"}, ImportAppend, wordlist.PolicyPrompt)
	var dup *wordlist.DuplicateWordsError
	if !errors.As(err, &dup) {
		t.Fatalf("expected duplicate prompt against existing words, got %v", err)
	}
	if !reflect.DeepEqual(dup.Duplicates, []string{"ant"}) {
		t.Errorf("expected [ant], got %v", dup.Duplicates)
	}
}

func TestAttachImage_RejectsBadRatioWithoutUpload(t *testing.T) {
	ed, db, blobStore := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := ed.Create(ctx, Input{Name: "Q1", Type: models.QuizSpelling}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	square := testutil.MakePNG(t, 100, 100)
	ed2 := freshEditor(db, blobStore)
	_, err := ed2.AttachImage(ctx, "Q1", bytes.NewReader(square), int64(len(square)))
	if !errors.Is(err, imaging.ErrBadRatio) {
		t.Fatalf("expected ErrBadRatio, got %v", err)
	}
	if blobStore.PutCount() != 0 {
		t.Errorf("rejected image must never reach storage, got %d puts", blobStore.PutCount())
	}
}

func TestAttachImage_StoresValidImage(t *testing.T) {
	ed, db, blobStore := newTestEditor(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := ed.Create(ctx, Input{Name: "Q1", Type: models.QuizSpelling}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	img := testutil.MakePNG(t, 400, 300)
	ed2 := freshEditor(db, blobStore)
	q, err := ed2.AttachImage(ctx, "Q1", bytes.NewReader(img), int64(len(img)))
	if err != nil {
		t.Fatalf("AttachImage failed: %v", err)
	}
	if q.ImagePath == "" {
		t.Fatal("expected image path recorded")
	}
	if blobStore.PutCount() != 1 || !blobStore.Stored(q.ImagePath) {
		t.Errorf("expected one stored upload at %q", q.ImagePath)
	}
}
