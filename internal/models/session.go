package models

import "time"

const (
	SessionActive    = "active"
	SessionCompleted = "completed"
	SessionExpired   = "expired"
)

// ExpiryGrace is how long past the time limit a submission is still treated
// as on time, to absorb client clock skew and network latency.
const ExpiryGrace = 30 * time.Second

// QuizSession is one student's attempt at a quiz. It doubles as the
// submission record once completed and is the single source of truth for
// whether a student has taken a quiz.
type QuizSession struct {
	ID               string          `bson:"_id,omitempty" json:"id"`
	QuizID           string          `bson:"quiz_id" json:"quiz_id"`
	StudentID        string          `bson:"student_id" json:"student_id"`
	SessionToken     string          `bson:"session_token" json:"session_token"`
	AttemptNumber    int             `bson:"attempt_number" json:"attempt_number"`
	StartedAt        time.Time       `bson:"started_at" json:"started_at"`
	SubmittedAt      *time.Time      `bson:"submitted_at,omitempty" json:"submitted_at,omitempty"`
	TimeLimitMinutes int             `bson:"time_limit_minutes" json:"time_limit_minutes"`
	Answers          []SessionAnswer `bson:"answers" json:"answers"`
	Score            int             `bson:"score" json:"score"`
	MaxScore         int             `bson:"max_score" json:"max_score"`
	Percentage       int             `bson:"percentage" json:"percentage"`
	Status           string          `bson:"status" json:"status"`
	ReviewedAt       *time.Time      `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`
}

// IsCompleted reports whether the session has been finalized.
func (s *QuizSession) IsCompleted() bool {
	return s.Status == SessionCompleted || s.Status == SessionExpired
}

// Deadline returns the latest instant a submission is accepted as on time.
// The zero time means no limit.
func (s *QuizSession) Deadline() time.Time {
	if s.TimeLimitMinutes <= 0 {
		return time.Time{}
	}
	return s.StartedAt.Add(time.Duration(s.TimeLimitMinutes)*time.Minute + ExpiryGrace)
}

// PastDeadline reports whether now is beyond the submission deadline.
func (s *QuizSession) PastDeadline(now time.Time) bool {
	deadline := s.Deadline()
	return !deadline.IsZero() && now.After(deadline)
}

// AnswerFor returns the recorded answer for a question, or nil.
func (s *QuizSession) AnswerFor(questionID string) *SessionAnswer {
	for i := range s.Answers {
		if s.Answers[i].QuestionID == questionID {
			return &s.Answers[i]
		}
	}
	return nil
}

// UpsertAnswer records or overwrites the answer for a question.
func (s *QuizSession) UpsertAnswer(questionID string, value AnswerValue, now time.Time) {
	if existing := s.AnswerFor(questionID); existing != nil {
		existing.Value = value
		existing.AnsweredAt = now
		existing.IsCorrect = nil
		existing.PointsEarned = 0
		return
	}
	s.Answers = append(s.Answers, SessionAnswer{
		QuestionID: questionID,
		Value:      value,
		AnsweredAt: now,
	})
}
