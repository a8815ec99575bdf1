package models

import (
	"fmt"
	"time"
)

type ContentType string

const (
	ContentVideo    ContentType = "video"
	ContentDocument ContentType = "document"
	ContentImage    ContentType = "image"
	ContentAudio    ContentType = "audio"
	ContentLink     ContentType = "link"
)

// Content is instructor-shared learning material. Only metadata is stored
// here; file bytes live behind the URL.
type Content struct {
	ID              string      `bson:"_id,omitempty" json:"id"`
	Title           string      `bson:"title" json:"title"`
	Type            ContentType `bson:"type" json:"type"`
	URL             string      `bson:"url,omitempty" json:"url,omitempty"`
	Description     string      `bson:"description,omitempty" json:"description,omitempty"`
	InstructorID    string      `bson:"instructor_id" json:"instructor_id"`
	IsPublic        bool        `bson:"is_public" json:"is_public"`
	AllowedStudents []string    `bson:"allowed_students" json:"allowed_students"`
	Tags            []string    `bson:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt       time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time   `bson:"updated_at" json:"updated_at"`
}

// Validate checks the content invariants.
func (c *Content) Validate() error {
	if c.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	switch c.Type {
	case ContentVideo, ContentDocument, ContentImage, ContentAudio:
	case ContentLink:
		if c.URL == "" {
			return fmt.Errorf("%w: url is required for link content", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown content type %q", ErrValidation, c.Type)
	}
	return nil
}

// AllowsStudent reports whether the student may view the content.
func (c *Content) AllowsStudent(studentID string) bool {
	if c.IsPublic {
		return true
	}
	for _, id := range c.AllowedStudents {
		if id == studentID {
			return true
		}
	}
	return false
}

type ContentFeedback struct {
	Rating      int        `bson:"rating" json:"rating"`
	Comments    string     `bson:"comments,omitempty" json:"comments,omitempty"`
	SubmittedAt *time.Time `bson:"submitted_at,omitempty" json:"submitted_at,omitempty"`
}

// ContentView tracks one student's progress through one piece of content.
// Unique per (content, student).
type ContentView struct {
	ID               string           `bson:"_id,omitempty" json:"id"`
	ContentID        string           `bson:"content_id" json:"content_id"`
	StudentID        string           `bson:"student_id" json:"student_id"`
	ViewedAt         time.Time        `bson:"viewed_at" json:"viewed_at"`
	CompletedAt      *time.Time       `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	IsCompleted      bool             `bson:"is_completed" json:"is_completed"`
	TimeSpentMinutes int              `bson:"time_spent_minutes" json:"time_spent_minutes"`
	Feedback         *ContentFeedback `bson:"feedback,omitempty" json:"feedback,omitempty"`
}
