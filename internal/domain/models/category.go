// internal/domain/models/category.go
package models

import "time"

// Category is a named grouping of Lessons (e.g. "Roots", "Silent Letters").
//
// The identifier is chosen by the operator at creation time and doubles as
// the document key. Members is the maintained back-reference list: it must
// mirror which Lesson documents declare this category as their parent. The
// list is never edited directly; it changes only as a side effect of Lesson
// create/update/delete/rename (see system/relsync).
type Category struct {
	ID          string `bson:"_id" json:"id"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	TimeLabel   string `bson:"time_label,omitempty" json:"time_label,omitempty"`
	ImagePath   string `bson:"image_path,omitempty" json:"image_path,omitempty"`

	// Lesson identifiers whose category field equals this category's ID.
	// Order is not significant.
	Members []string `bson:"members" json:"members"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasMember reports whether lessonID is present in the member list.
func (c *Category) HasMember(lessonID string) bool {
	for _, m := range c.Members {
		if m == lessonID {
			return true
		}
	}
	return false
}
