// internal/domain/models/post.go
package models

import (
	"errors"
	"fmt"
	"time"
)

// Post types. A Post is a tagged union: exactly one of the variant field
// sets is present, selected by Type.
const (
	PostAnnouncement = "announcement"
	PostArticle      = "article"
	PostWordOfDay    = "wotd"
)

// AllPostTypes lists the accepted post type values.
var AllPostTypes = []string{PostAnnouncement, PostArticle, PostWordOfDay}

// IsValidPostType reports whether t is an accepted post type.
func IsValidPostType(t string) bool {
	for _, v := range AllPostTypes {
		if v == t {
			return true
		}
	}
	return false
}

// wotdZone is the fixed offset every word-of-the-day activation date is
// normalized to, so a WOTD flips over at the same wall-clock moment for
// every reader regardless of server locale.
var wotdZone = time.FixedZone("UTC-5", -5*60*60)

// NormalizeActiveOn pins t to midnight in the fixed WOTD offset.
func NormalizeActiveOn(t time.Time) time.Time {
	t = t.In(wotdZone)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, wotdZone)
}

// AnnouncementFields are the fields specific to announcement posts.
type AnnouncementFields struct {
	Details    string `bson:"details" json:"details"`
	SubDetails string `bson:"sub_details" json:"sub_details"`
	Likes      int    `bson:"likes" json:"likes"`
	Owner      string `bson:"owner" json:"owner"` // owning user identifier
}

// ArticleSection is one titled section of an article body.
type ArticleSection struct {
	Heading string `bson:"heading,omitempty" json:"heading,omitempty"`
	Body    string `bson:"body" json:"body"`
}

// ArticleFields are the fields specific to article posts.
type ArticleFields struct {
	Introduction string           `bson:"introduction" json:"introduction"`
	Sections     []ArticleSection `bson:"sections,omitempty" json:"sections,omitempty"`
	Conclusion   string           `bson:"conclusion,omitempty" json:"conclusion,omitempty"`
	Category     string           `bson:"category,omitempty" json:"category,omitempty"`
	ImagePath    string           `bson:"image_path,omitempty" json:"image_path,omitempty"`
}

// WordOfDayFields are the fields specific to word-of-the-day posts.
type WordOfDayFields struct {
	Word     string    `bson:"word" json:"word"`
	ActiveOn time.Time `bson:"active_on" json:"active_on"`
}

// Post is a front-page content item: an announcement, an article, or a
// word of the day. Exactly one variant struct is non-nil, matching Type.
type Post struct {
	ID   string `bson:"_id" json:"id"`
	Type string `bson:"type" json:"type"`

	UserGroups []string  `bson:"user_groups,omitempty" json:"user_groups,omitempty"`
	UploadedAt time.Time `bson:"uploaded_at" json:"uploaded_at"`

	Announcement *AnnouncementFields `bson:"announcement,omitempty" json:"announcement,omitempty"`
	Article      *ArticleFields      `bson:"article,omitempty" json:"article,omitempty"`
	WordOfDay    *WordOfDayFields    `bson:"wotd,omitempty" json:"wotd,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Validate checks that the post carries exactly the variant named by Type
// and that the variant's required fields are present.
func (p *Post) Validate() error {
	if !IsValidPostType(p.Type) {
		return fmt.Errorf("invalid post type %q", p.Type)
	}

	variants := 0
	if p.Announcement != nil {
		variants++
	}
	if p.Article != nil {
		variants++
	}
	if p.WordOfDay != nil {
		variants++
	}
	if variants != 1 {
		return errors.New("post must carry exactly one variant field set")
	}

	switch p.Type {
	case PostAnnouncement:
		if p.Announcement == nil {
			return errors.New("announcement post is missing announcement fields")
		}
		if p.Announcement.Details == "" {
			return errors.New("announcement details are required")
		}
		if p.Announcement.Owner == "" {
			return errors.New("announcement owner is required")
		}
	case PostArticle:
		if p.Article == nil {
			return errors.New("article post is missing article fields")
		}
		if p.Article.Introduction == "" {
			return errors.New("article introduction is required")
		}
	case PostWordOfDay:
		if p.WordOfDay == nil {
			return errors.New("word-of-the-day post is missing wotd fields")
		}
		if p.WordOfDay.Word == "" {
			return errors.New("word of the day is required")
		}
		if p.WordOfDay.ActiveOn.IsZero() {
			return errors.New("word-of-the-day activation date is required")
		}
	}
	return nil
}
