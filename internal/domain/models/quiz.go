// internal/domain/models/quiz.go
package models

import "time"

// Quiz types.
const (
	QuizSpelling   = "spelling"
	QuizRoots      = "roots"
	QuizVocabulary = "vocabulary"
)

// AllQuizTypes lists the accepted quiz type values.
var AllQuizTypes = []string{QuizSpelling, QuizRoots, QuizVocabulary}

// IsValidQuizType reports whether t is an accepted quiz type.
func IsValidQuizType(t string) bool {
	for _, v := range AllQuizTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Quiz is a named, ordered word list used to generate practice quizzes.
//
// The quiz name is the document key. WordCount is derived: it must always
// equal len(Words) and is recomputed in the same write whenever the word
// list is persisted, never trusted independently.
type Quiz struct {
	ID   string `bson:"_id" json:"id"` // quiz name
	Type string `bson:"type" json:"type"`

	Words     []string `bson:"words" json:"words"`
	WordCount int      `bson:"word_count" json:"word_count"`

	UserGroups []string `bson:"user_groups,omitempty" json:"user_groups,omitempty"`
	ImagePath  string   `bson:"image_path,omitempty" json:"image_path,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
