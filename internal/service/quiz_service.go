package service

import (
	"context"
	"fmt"
	"time"

	"quizknow/internal/models"
	"quizknow/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// QuizService owns the quiz aggregate: creation, assignment, publishing,
// edits and deletion. Every owner-only operation checks ownership against
// the identity supplied by the gateway.
type QuizService struct {
	Repo        *repository.QuizRepository
	Sessions    *repository.SessionRepository
	Connections *repository.ConnectionRepository
}

func NewQuizService(repo *repository.QuizRepository, sessions *repository.SessionRepository, connections *repository.ConnectionRepository) *QuizService {
	return &QuizService{Repo: repo, Sessions: sessions, Connections: connections}
}

// Create validates and stores a new quiz. New quizzes are unpublished with
// an empty roster; every question gets an id here so answers can reference
// them.
func (s *QuizService) Create(ctx context.Context, instructorID string, quiz *models.Quiz) error {
	now := time.Now()
	quiz.InstructorID = instructorID
	quiz.IsPublished = false
	quiz.Students = []models.StudentAssignment{}
	quiz.CreatedAt = now
	quiz.UpdatedAt = now
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == "" {
			quiz.Questions[i].ID = uuid.NewString()
		}
		if quiz.Questions[i].Points == 0 {
			quiz.Questions[i].Points = 1
		}
	}
	if err := quiz.Validate(); err != nil {
		return err
	}
	return s.Repo.Create(ctx, quiz)
}

// GetFor returns the quiz as the requester is allowed to see it: the owner
// gets the full document, an assigned student gets the answer-stripped view
// of a published quiz, everyone else gets not-found (matching the roster
// probe resistance of the original routes).
func (s *QuizService) GetFor(ctx context.Context, quizID, userID string) (*models.Quiz, error) {
	quiz, err := s.Repo.FindByID(ctx, quizID)
	if err != nil {
		return nil, notFound(err)
	}
	if quiz.InstructorID == userID {
		return quiz, nil
	}
	if quiz.IsPublished && quiz.IsAssigned(userID) {
		view := quiz.StudentView()
		return &view, nil
	}
	return nil, models.ErrNotFound
}

// ListMine returns the instructor's own quizzes, answers included.
func (s *QuizService) ListMine(ctx context.Context, instructorID string) ([]models.Quiz, error) {
	return s.Repo.FindByInstructor(ctx, instructorID)
}

// ListAvailable returns the quizzes a student can take: assigned, published
// and owned by an instructor the student has an accepted connection with.
func (s *QuizService) ListAvailable(ctx context.Context, studentID string) ([]models.Quiz, error) {
	peers, err := s.Connections.AcceptedPeers(ctx, studentID)
	if err != nil {
		return nil, err
	}
	quizzes, err := s.Repo.FindAssignedPublished(ctx, studentID, peers)
	if err != nil {
		return nil, err
	}
	views := make([]models.Quiz, len(quizzes))
	for i, q := range quizzes {
		views[i] = q.StudentView()
	}
	return views, nil
}

// ListPublished returns all published quizzes with their questions omitted,
// for the public catalog.
func (s *QuizService) ListPublished(ctx context.Context) ([]models.Quiz, error) {
	quizzes, err := s.Repo.FindPublished(ctx)
	if err != nil {
		return nil, err
	}
	for i := range quizzes {
		quizzes[i].Questions = nil
		quizzes[i].Students = nil
	}
	return quizzes, nil
}

// QuizUpdate is the set of fields an instructor may edit.
type QuizUpdate struct {
	Title       *string              `json:"title,omitempty"`
	Description *string              `json:"description,omitempty"`
	Questions   []models.Question    `json:"questions,omitempty"`
	Settings    *models.QuizSettings `json:"settings,omitempty"`
}

// Update applies an owner-only patch. Question edits are refused while any
// attempt exists, so grades never change retroactively; the instructor can
// clear submissions first.
func (s *QuizService) Update(ctx context.Context, quizID, userID string, patch QuizUpdate) (*models.Quiz, error) {
	quiz, err := s.ownedQuiz(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}

	if patch.Questions != nil {
		sessions, err := s.Sessions.FindByQuiz(ctx, quizID, false)
		if err != nil {
			return nil, err
		}
		if len(sessions) > 0 {
			return nil, fmt.Errorf("%w: quiz has attempts, clear them before editing questions", models.ErrInvalidState)
		}
		for i := range patch.Questions {
			if patch.Questions[i].ID == "" {
				patch.Questions[i].ID = uuid.NewString()
			}
			if patch.Questions[i].Points == 0 {
				patch.Questions[i].Points = 1
			}
		}
		quiz.Questions = patch.Questions
	}
	if patch.Title != nil {
		quiz.Title = *patch.Title
	}
	if patch.Description != nil {
		quiz.Description = *patch.Description
	}
	if patch.Settings != nil {
		quiz.Settings = *patch.Settings
	}
	quiz.UpdatedAt = time.Now()

	if err := quiz.Validate(); err != nil {
		return nil, err
	}

	err = s.Repo.Update(ctx, quizID, bson.M{
		"title":       quiz.Title,
		"description": quiz.Description,
		"questions":   quiz.Questions,
		"settings":    quiz.Settings,
		"updated_at":  quiz.UpdatedAt,
	})
	if err != nil {
		return nil, err
	}
	return quiz, nil
}

// AssignStudents adds students to the roster. Already-assigned ids are
// skipped, so the call is idempotent.
func (s *QuizService) AssignStudents(ctx context.Context, quizID, userID string, studentIDs []string) (*models.Quiz, error) {
	quiz, err := s.ownedQuiz(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var fresh []models.StudentAssignment
	for _, id := range studentIDs {
		if id == "" || quiz.IsAssigned(id) {
			continue
		}
		assignment := models.StudentAssignment{StudentID: id, AssignedAt: now}
		quiz.Students = append(quiz.Students, assignment)
		fresh = append(fresh, assignment)
	}
	if err := s.Repo.AddStudents(ctx, quizID, fresh); err != nil {
		return nil, err
	}
	return quiz, nil
}

// Publish makes the quiz visible to its roster and optionally assigns more
// students in the same call, as the original publish endpoint did.
func (s *QuizService) Publish(ctx context.Context, quizID, userID string, studentIDs []string) (*models.Quiz, error) {
	quiz, err := s.ownedQuiz(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, quizID, bson.M{"is_published": true, "updated_at": time.Now()}); err != nil {
		return nil, err
	}
	quiz.IsPublished = true
	if len(studentIDs) > 0 {
		return s.AssignStudents(ctx, quizID, userID, studentIDs)
	}
	return quiz, nil
}

// Delete removes the quiz and cascades to its sessions, so no submission
// outlives its quiz.
func (s *QuizService) Delete(ctx context.Context, quizID, userID string) error {
	if _, err := s.ownedQuiz(ctx, quizID, userID); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, quizID); err != nil {
		return err
	}
	return s.Sessions.DeleteByQuiz(ctx, quizID)
}

// ListSessions returns all finished attempts of a quiz for the owner.
func (s *QuizService) ListSessions(ctx context.Context, quizID, userID string) ([]models.QuizSession, error) {
	if _, err := s.ownedQuiz(ctx, quizID, userID); err != nil {
		return nil, err
	}
	return s.Sessions.FindByQuiz(ctx, quizID, true)
}

func (s *QuizService) ownedQuiz(ctx context.Context, quizID, userID string) (*models.Quiz, error) {
	quiz, err := s.Repo.FindByID(ctx, quizID)
	if err != nil {
		return nil, notFound(err)
	}
	if quiz.InstructorID != userID {
		return nil, models.ErrNotOwner
	}
	return quiz, nil
}
