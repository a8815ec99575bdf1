package models

import "time"

// AnswerValue carries a candidate answer. Exactly one field is meaningful,
// picked by the question's type: Text for multiple choice, true/false and
// the free-text types, Selections for select all, Pairs for matching
// (prompt -> match), Ordering for ordering.
type AnswerValue struct {
	Text       string            `bson:"text,omitempty" json:"text,omitempty"`
	Selections []string          `bson:"selections,omitempty" json:"selections,omitempty"`
	Pairs      map[string]string `bson:"pairs,omitempty" json:"pairs,omitempty"`
	Ordering   []string          `bson:"ordering,omitempty" json:"ordering,omitempty"`
}

// SessionAnswer is one graded (or not yet graded) answer inside a session.
// IsCorrect stays nil until the session is submitted, and stays nil forever
// for essay questions, which are graded manually.
type SessionAnswer struct {
	QuestionID   string      `bson:"question_id" json:"question_id"`
	Value        AnswerValue `bson:"value" json:"value"`
	IsCorrect    *bool       `bson:"is_correct,omitempty" json:"is_correct,omitempty"`
	PointsEarned int         `bson:"points_earned" json:"points_earned"`
	AnsweredAt   time.Time   `bson:"answered_at" json:"answered_at"`
}
