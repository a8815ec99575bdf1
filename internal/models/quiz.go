package models

import (
	"fmt"
	"time"
)

type QuizSettings struct {
	TimeLimitMinutes      int  `bson:"time_limit_minutes" json:"time_limit_minutes"`
	PassingScore          int  `bson:"passing_score" json:"passing_score"`
	AllowMultipleAttempts bool `bson:"allow_multiple_attempts" json:"allow_multiple_attempts"`
	MaxAttempts           int  `bson:"max_attempts,omitempty" json:"max_attempts,omitempty"`
	RandomizeQuestions    bool `bson:"randomize_questions" json:"randomize_questions"`
	ShowCorrectAnswers    bool `bson:"show_correct_answers" json:"show_correct_answers"`
}

// StudentAssignment records that a student may take the quiz. Completion is
// not tracked here; the session store is the single source of truth for
// whether a student has submitted.
type StudentAssignment struct {
	StudentID  string    `bson:"student_id" json:"student_id"`
	AssignedAt time.Time `bson:"assigned_at" json:"assigned_at"`
}

type Quiz struct {
	ID           string              `bson:"_id,omitempty" json:"id"`
	Title        string              `bson:"title" json:"title"`
	Description  string              `bson:"description" json:"description"`
	InstructorID string              `bson:"instructor_id" json:"instructor_id"`
	Questions    []Question          `bson:"questions" json:"questions"`
	Settings     QuizSettings        `bson:"settings" json:"settings"`
	IsPublished  bool                `bson:"is_published" json:"is_published"`
	Students     []StudentAssignment `bson:"students" json:"students"`
	CreatedAt    time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time           `bson:"updated_at" json:"updated_at"`
}

// TotalPoints is the sum of all question points.
func (q *Quiz) TotalPoints() int {
	total := 0
	for i := range q.Questions {
		total += q.Questions[i].Points
	}
	return total
}

// QuestionByID returns the question with the given id, or nil.
func (q *Quiz) QuestionByID(id string) *Question {
	for i := range q.Questions {
		if q.Questions[i].ID == id {
			return &q.Questions[i]
		}
	}
	return nil
}

// IsAssigned reports whether the student is on the roster.
func (q *Quiz) IsAssigned(studentID string) bool {
	for _, s := range q.Students {
		if s.StudentID == studentID {
			return true
		}
	}
	return false
}

// Validate checks the quiz and all of its questions.
func (q *Quiz) Validate() error {
	if q.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if len(q.Questions) == 0 {
		return fmt.Errorf("%w: at least one question is required", ErrValidation)
	}
	if q.Settings.PassingScore < 0 || q.Settings.PassingScore > 100 {
		return fmt.Errorf("%w: passing score must be between 0 and 100", ErrValidation)
	}
	if q.Settings.TimeLimitMinutes < 0 {
		return fmt.Errorf("%w: time limit must not be negative", ErrValidation)
	}
	if q.Settings.MaxAttempts < 0 {
		return fmt.Errorf("%w: max attempts must not be negative", ErrValidation)
	}
	for i := range q.Questions {
		if err := q.Questions[i].Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}

// StudentView returns a copy with all answer keys stripped, for assigned
// students. The roster is omitted as well.
func (q Quiz) StudentView() Quiz {
	questions := make([]Question, len(q.Questions))
	for i, question := range q.Questions {
		questions[i] = question.Sanitized()
	}
	q.Questions = questions
	q.Students = nil
	return q
}
