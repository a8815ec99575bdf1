package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"quizknow/internal/grading"
	"quizknow/internal/models"
	"quizknow/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SessionService drives the submission lifecycle: start, record answers,
// submit, review, clear. Grading is delegated to the grading engine; the
// one-active-session-per-pair invariant is backed by a unique partial index
// so it holds across processes.
type SessionService struct {
	Sessions *repository.SessionRepository
	Quizzes  *repository.QuizRepository
	Engine   *grading.Engine
}

func NewSessionService(sessions *repository.SessionRepository, quizzes *repository.QuizRepository) *SessionService {
	return &SessionService{
		Sessions: sessions,
		Quizzes:  quizzes,
		Engine:   grading.NewEngine(),
	}
}

// StartResult carries the new session together with the questions to show,
// already answer-stripped and shuffled when the quiz asks for it.
type StartResult struct {
	Session   *models.QuizSession `json:"session"`
	Questions []models.Question   `json:"questions"`
}

// Start opens a new attempt. Preconditions: the quiz is published (the
// owning instructor may preview unpublished quizzes), the student is on the
// roster, the attempt policy permits another attempt, and no attempt is
// currently in progress.
func (s *SessionService) Start(ctx context.Context, quizID, userID string) (*StartResult, error) {
	quiz, err := s.Quizzes.FindByID(ctx, quizID)
	if err != nil {
		return nil, notFound(err)
	}

	isOwner := quiz.InstructorID == userID
	if !quiz.IsPublished && !isOwner {
		return nil, models.ErrNotFound
	}
	if !isOwner && !quiz.IsAssigned(userID) {
		return nil, models.ErrNotAssigned
	}

	finished, err := s.Sessions.CountFinished(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}
	if finished > 0 {
		if !quiz.Settings.AllowMultipleAttempts {
			return nil, models.ErrAlreadySubmitted
		}
		if quiz.Settings.MaxAttempts > 0 && finished >= int64(quiz.Settings.MaxAttempts) {
			return nil, models.ErrAlreadySubmitted
		}
	}

	if _, err := s.Sessions.FindActive(ctx, quizID, userID); err == nil {
		return nil, fmt.Errorf("%w: an attempt is already in progress", models.ErrInvalidState)
	} else if err != mongo.ErrNoDocuments {
		return nil, err
	}

	session := &models.QuizSession{
		QuizID:           quizID,
		StudentID:        userID,
		SessionToken:     uuid.NewString(),
		AttemptNumber:    int(finished) + 1,
		StartedAt:        time.Now(),
		TimeLimitMinutes: quiz.Settings.TimeLimitMinutes,
		Answers:          []models.SessionAnswer{},
		MaxScore:         quiz.TotalPoints(),
		Status:           models.SessionActive,
	}
	if err := s.Sessions.Create(ctx, session); err != nil {
		// Two concurrent starts race on the partial unique index; the loser
		// sees a duplicate key error.
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: an attempt is already in progress", models.ErrInvalidState)
		}
		return nil, err
	}

	questions := make([]models.Question, len(quiz.Questions))
	for i, q := range quiz.Questions {
		questions[i] = q.Sanitized()
	}
	if quiz.Settings.RandomizeQuestions {
		rand.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
	}

	return &StartResult{Session: session, Questions: questions}, nil
}

// RecordAnswer upserts one answer on an active session. Answers are not
// graded here; grading happens once, at submit. A session past its deadline
// is finalized as expired and the write is rejected.
func (s *SessionService) RecordAnswer(ctx context.Context, sessionID, userID, questionID string, value models.AnswerValue) error {
	session, err := s.Sessions.FindByID(ctx, sessionID)
	if err != nil {
		return notFound(err)
	}
	if session.StudentID != userID {
		return models.ErrNotOwner
	}
	if session.IsCompleted() {
		return fmt.Errorf("%w: session is already %s", models.ErrInvalidState, session.Status)
	}

	quiz, err := s.Quizzes.FindByID(ctx, session.QuizID)
	if err != nil {
		return notFound(err)
	}

	now := time.Now()
	if session.PastDeadline(now) {
		if err := s.finalize(ctx, session, quiz, models.SessionExpired, now); err != nil {
			return err
		}
		return models.ErrSessionExpired
	}

	if quiz.QuestionByID(questionID) == nil {
		return fmt.Errorf("%w: question %s is not part of this quiz", models.ErrValidation, questionID)
	}

	session.UpsertAnswer(questionID, value, now)
	return s.Sessions.Update(ctx, session.ID, bson.M{"answers": session.Answers})
}

// AnswerPayload is one final answer handed to Submit.
type AnswerPayload struct {
	QuestionID string             `json:"question_id" binding:"required"`
	Value      models.AnswerValue `json:"value"`
}

// Submit merges any final answers, grades the whole quiz and finalizes the
// session. Submitting twice fails with ErrInvalidState and never re-scores.
// A submission past the deadline is still graded but stored as expired.
func (s *SessionService) Submit(ctx context.Context, sessionID, userID string, finalAnswers []AnswerPayload) (*models.QuizSession, error) {
	session, err := s.Sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, notFound(err)
	}
	if session.StudentID != userID {
		return nil, models.ErrNotOwner
	}
	if session.IsCompleted() {
		return nil, fmt.Errorf("%w: session was already submitted", models.ErrInvalidState)
	}

	quiz, err := s.Quizzes.FindByID(ctx, session.QuizID)
	if err != nil {
		return nil, notFound(err)
	}

	now := time.Now()
	for _, fa := range finalAnswers {
		// Stray question ids are dropped here; the grader only walks the
		// quiz's own questions, so they can never earn points.
		if quiz.QuestionByID(fa.QuestionID) == nil {
			continue
		}
		session.UpsertAnswer(fa.QuestionID, fa.Value, now)
	}

	status := models.SessionCompleted
	if session.PastDeadline(now) {
		status = models.SessionExpired
	}
	if err := s.finalize(ctx, session, quiz, status, now); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) finalize(ctx context.Context, session *models.QuizSession, quiz *models.Quiz, status string, now time.Time) error {
	res := s.Engine.GradeSession(quiz, session.Answers, now)
	session.Answers = res.Answers
	session.Score = res.Score
	session.MaxScore = res.MaxScore
	session.Percentage = res.Percentage
	session.Status = status
	session.SubmittedAt = &now

	return s.Sessions.Update(ctx, session.ID, bson.M{
		"answers":      session.Answers,
		"score":        session.Score,
		"max_score":    session.MaxScore,
		"percentage":   session.Percentage,
		"status":       session.Status,
		"submitted_at": session.SubmittedAt,
	})
}

// Get returns the session and its quiz after checking that the requester is
// either the student who took it or the owning instructor.
func (s *SessionService) Get(ctx context.Context, sessionID, userID string) (*models.QuizSession, *models.Quiz, error) {
	session, err := s.Sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, nil, notFound(err)
	}
	quiz, err := s.Quizzes.FindByID(ctx, session.QuizID)
	if err != nil {
		return nil, nil, notFound(err)
	}
	if session.StudentID != userID && quiz.InstructorID != userID {
		return nil, nil, models.ErrNotOwner
	}
	return session, quiz, nil
}

// ListMine returns every session of the student, newest first.
func (s *SessionService) ListMine(ctx context.Context, userID string) ([]models.QuizSession, error) {
	return s.Sessions.FindByStudent(ctx, userID)
}

// MarkReviewed is the instructor's terminal transition on a finished session.
func (s *SessionService) MarkReviewed(ctx context.Context, sessionID, userID string) error {
	session, _, err := s.lookupForInstructor(ctx, sessionID, userID)
	if err != nil {
		return err
	}
	if !session.IsCompleted() {
		return fmt.Errorf("%w: only finished sessions can be reviewed", models.ErrInvalidState)
	}
	now := time.Now()
	return s.Sessions.Update(ctx, session.ID, bson.M{"reviewed_at": now})
}

// Clear deletes a session so the student can retake the quiz. The roster is
// untouched: assignment is the only gate, and completion lives solely in the
// session store.
func (s *SessionService) Clear(ctx context.Context, sessionID, userID string) error {
	session, _, err := s.lookupForInstructor(ctx, sessionID, userID)
	if err != nil {
		return err
	}
	return s.Sessions.Delete(ctx, session.ID)
}

func (s *SessionService) lookupForInstructor(ctx context.Context, sessionID, userID string) (*models.QuizSession, *models.Quiz, error) {
	session, err := s.Sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, nil, notFound(err)
	}
	quiz, err := s.Quizzes.FindByID(ctx, session.QuizID)
	if err != nil {
		return nil, nil, notFound(err)
	}
	if quiz.InstructorID != userID {
		return nil, nil, models.ErrNotOwner
	}
	return session, quiz, nil
}
