// internal/domain/models/lesson.go
package models

import "time"

// Lesson difficulty levels.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// AllDifficulties lists the accepted difficulty values.
var AllDifficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}

// IsValidDifficulty reports whether d is an accepted difficulty value.
func IsValidDifficulty(d string) bool {
	for _, v := range AllDifficulties {
		if v == d {
			return true
		}
	}
	return false
}

// ListEntry is a single bulleted line inside a lesson's pattern or summary
// list. Indent marks sub-bullets nested under the preceding entry.
type ListEntry struct {
	Indent bool   `bson:"indent,omitempty" json:"indent,omitempty"`
	Text   string `bson:"text" json:"text"`
}

// Lesson is one teachable spelling lesson.
//
// The identifier is operator-chosen and is the document key; renaming a
// lesson therefore migrates the document (write new ID, delete old) rather
// than editing in place. Category is the single parent reference; the
// owning Category document keeps the matching back-reference in Members.
type Lesson struct {
	ID      string `bson:"_id" json:"id"`
	Title   string `bson:"title" json:"title"`
	TitleCI string `bson:"title_ci" json:"title_ci"` // lowercase, diacritics-stripped

	TimeLabel    string `bson:"time_label,omitempty" json:"time_label,omitempty"`
	Difficulty   string `bson:"difficulty" json:"difficulty"`
	Introduction string `bson:"introduction,omitempty" json:"introduction,omitempty"`

	// Ordered content lists. Pattern and Summary text entries must be
	// pairwise case-insensitively unique after trimming, unless the
	// operator explicitly keeps duplicates on save.
	Patterns    []ListEntry `bson:"patterns,omitempty" json:"patterns,omitempty"`
	MiniLessons []string    `bson:"mini_lessons,omitempty" json:"mini_lessons,omitempty"`
	Summaries   []ListEntry `bson:"summaries,omitempty" json:"summaries,omitempty"`

	// NextLesson optionally points at the lesson an operator should assign
	// after this one. Must never reference the lesson itself.
	NextLesson string `bson:"next_lesson,omitempty" json:"next_lesson,omitempty"`

	// Category is the parent category identifier; empty means uncategorized.
	Category string `bson:"category,omitempty" json:"category,omitempty"`

	// UserGroups are the access-scope tags gating which account tiers can
	// see this lesson.
	UserGroups []string `bson:"user_groups,omitempty" json:"user_groups,omitempty"`

	ImagePath string `bson:"image_path,omitempty" json:"image_path,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
