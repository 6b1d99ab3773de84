package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/spellhub/internal/app/store/docstore"
	categorystore "github.com/dalemusser/spellhub/internal/app/store/categories"
	lessonstore "github.com/dalemusser/spellhub/internal/app/store/lessons"
	poststore "github.com/dalemusser/spellhub/internal/app/store/posts"
	quizstore "github.com/dalemusser/spellhub/internal/app/store/quizzes"
	"github.com/dalemusser/spellhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// SetupTestDB returns a fresh in-memory document store for one test.
func SetupTestDB(t *testing.T) docstore.Store {
	t.Helper()
	return docstore.NewMemory()
}

// TestContext returns a context with a generous test deadline.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db docstore.Store
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test store.
func NewFixtures(t *testing.T, db docstore.Store) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying store for direct access in tests.
func (f *Fixtures) DB() docstore.Store {
	return f.db
}

// CreateCategory creates a test category with the given name.
func (f *Fixtures) CreateCategory(ctx context.Context, name string) models.Category {
	f.t.Helper()

	c, err := categorystore.New(f.db).Create(ctx, models.Category{
		ID:          name,
		Description: "Test category " + name,
		TimeLabel:   "Week 1",
	})
	if err != nil {
		f.t.Fatalf("failed to create test category: %v", err)
	}
	return c
}

// CreateLesson creates a test lesson in the given category. It writes the
// lesson document only; category membership is the caller's concern.
func (f *Fixtures) CreateLesson(ctx context.Context, title, category string) models.Lesson {
	f.t.Helper()

	l, err := lessonstore.New(f.db).Create(ctx, models.Lesson{
		ID:         title,
		Title:      title,
		Difficulty: models.DifficultyEasy,
		Category:   category,
	})
	if err != nil {
		f.t.Fatalf("failed to create test lesson: %v", err)
	}
	return l
}

// CreateQuiz creates a test spelling quiz with the given words.
func (f *Fixtures) CreateQuiz(ctx context.Context, name string, words []string) models.Quiz {
	f.t.Helper()

	q, err := quizstore.New(f.db).Create(ctx, models.Quiz{
		ID:    name,
		Type:  models.QuizSpelling,
		Words: words,
	})
	if err != nil {
		f.t.Fatalf("failed to create test quiz: %v", err)
	}
	return q
}

// CreateAnnouncement creates a test announcement post.
func (f *Fixtures) CreateAnnouncement(ctx context.Context, id, details string) models.Post {
	f.t.Helper()

	p, err := poststore.New(f.db).Create(ctx, models.Post{
		ID:         id,
		Type:       models.PostAnnouncement,
		UploadedAt: time.Now().UTC(),
		Announcement: &models.AnnouncementFields{
			Details: details,
			Owner:   "test-owner",
		},
	})
	if err != nil {
		f.t.Fatalf("failed to create test announcement: %v", err)
	}
	return p
}
