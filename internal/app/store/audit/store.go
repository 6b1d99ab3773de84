// internal/app/store/audit/store.go
package audit

import (
	"context"
	"sort"
	"time"

	"github.com/dalemusser/spellhub/internal/app/store/docstore"
	"github.com/google/uuid"
)

// Collection is the document collection backing this store.
const Collection = "audit_events"

// Event categories.
const (
	CategoryAdmin = "admin"
)

// Admin event types.
const (
	EventCategoryCreated = "category_created"
	EventCategoryUpdated = "category_updated"
	EventCategoryRenamed = "category_renamed"
	EventCategoryDeleted = "category_deleted"
	EventLessonCreated   = "lesson_created"
	EventLessonUpdated   = "lesson_updated"
	EventLessonRenamed   = "lesson_renamed"
	EventLessonDeleted   = "lesson_deleted"
	EventQuizCreated     = "quiz_created"
	EventQuizUpdated     = "quiz_updated"
	EventQuizRenamed     = "quiz_renamed"
	EventQuizDeleted     = "quiz_deleted"
	EventPostCreated     = "post_created"
	EventPostUpdated     = "post_updated"
	EventPostDeleted     = "post_deleted"
	EventImageAttached   = "image_attached"
	EventWordsImported   = "words_imported"
)

// Event is one recorded admin action against a content entity.
type Event struct {
	ID        string    `bson:"_id"`
	Timestamp time.Time `bson:"timestamp"`

	Category  string `bson:"category"`
	EventType string `bson:"event_type"`

	// What was acted on.
	EntityKind string `bson:"entity_kind"` // category | lesson | quiz | post
	EntityID   string `bson:"entity_id"`

	Success       bool   `bson:"success"`
	FailureReason string `bson:"failure_reason,omitempty"`

	Details map[string]string `bson:"details,omitempty"`
}

// Store persists audit events.
type Store struct {
	db docstore.Store
}

func New(db docstore.Store) *Store {
	return &Store{db: db}
}

// Log writes one event. The ID and timestamp are filled in when absent.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	return s.db.Set(ctx, Collection, event.ID, event)
}

// Recent returns up to limit events, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Event, error) {
	var events []Event
	if err := s.db.ListAll(ctx, Collection, &events); err != nil {
		return nil, err
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}
