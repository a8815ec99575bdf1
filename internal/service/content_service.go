package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quizknow/internal/models"
	"quizknow/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ContentService manages shared learning material and per-student view
// tracking. Only metadata lives here; file storage is out of scope.
type ContentService struct {
	Repo *repository.ContentRepository
}

func NewContentService(repo *repository.ContentRepository) *ContentService {
	return &ContentService{Repo: repo}
}

func (s *ContentService) Create(ctx context.Context, instructorID string, content *models.Content) error {
	now := time.Now()
	content.InstructorID = instructorID
	content.CreatedAt = now
	content.UpdatedAt = now
	if content.AllowedStudents == nil {
		content.AllowedStudents = []string{}
	}
	if err := content.Validate(); err != nil {
		return err
	}
	return s.Repo.Create(ctx, content)
}

// GetFor returns the content if the requester owns it, it is public, or the
// requester is an allowed student.
func (s *ContentService) GetFor(ctx context.Context, contentID, userID string) (*models.Content, error) {
	content, err := s.Repo.FindByID(ctx, contentID)
	if err != nil {
		return nil, notFound(err)
	}
	if content.InstructorID == userID || content.AllowsStudent(userID) {
		return content, nil
	}
	return nil, models.ErrNotOwner
}

func (s *ContentService) ListMine(ctx context.Context, instructorID string) ([]models.Content, error) {
	return s.Repo.FindByInstructor(ctx, instructorID)
}

func (s *ContentService) ListAssigned(ctx context.Context, studentID string) ([]models.Content, error) {
	return s.Repo.FindAssigned(ctx, studentID)
}

// ContentUpdate is the set of fields an instructor may edit.
type ContentUpdate struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	URL         *string  `json:"url,omitempty"`
	IsPublic    *bool    `json:"is_public,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

func (s *ContentService) Update(ctx context.Context, contentID, userID string, patch ContentUpdate) (*models.Content, error) {
	content, err := s.owned(ctx, contentID, userID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		content.Title = *patch.Title
	}
	if patch.Description != nil {
		content.Description = *patch.Description
	}
	if patch.URL != nil {
		content.URL = *patch.URL
	}
	if patch.IsPublic != nil {
		content.IsPublic = *patch.IsPublic
	}
	if patch.Tags != nil {
		content.Tags = patch.Tags
	}
	content.UpdatedAt = time.Now()

	if err := content.Validate(); err != nil {
		return nil, err
	}
	err = s.Repo.Update(ctx, contentID, bson.M{
		"title":       content.Title,
		"description": content.Description,
		"url":         content.URL,
		"is_public":   content.IsPublic,
		"tags":        content.Tags,
		"updated_at":  content.UpdatedAt,
	})
	if err != nil {
		return nil, err
	}
	return content, nil
}

// AssignStudents grants students access; already-allowed ids are skipped.
func (s *ContentService) AssignStudents(ctx context.Context, contentID, userID string, studentIDs []string) (*models.Content, error) {
	content, err := s.owned(ctx, contentID, userID)
	if err != nil {
		return nil, err
	}
	var fresh []string
	for _, id := range studentIDs {
		if id == "" || content.AllowsStudent(id) {
			continue
		}
		content.AllowedStudents = append(content.AllowedStudents, id)
		fresh = append(fresh, id)
	}
	if err := s.Repo.AddStudents(ctx, contentID, fresh); err != nil {
		return nil, err
	}
	return content, nil
}

func (s *ContentService) Delete(ctx context.Context, contentID, userID string) error {
	if _, err := s.owned(ctx, contentID, userID); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, contentID)
}

// RecordView marks that a student opened the content. The first view wins;
// later calls return the existing record.
func (s *ContentService) RecordView(ctx context.Context, contentID, userID string) (*models.ContentView, error) {
	content, err := s.Repo.FindByID(ctx, contentID)
	if err != nil {
		return nil, notFound(err)
	}
	if !content.AllowsStudent(userID) {
		return nil, models.ErrNotAssigned
	}

	if view, err := s.Repo.FindView(ctx, contentID, userID); err == nil {
		return view, nil
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	view := &models.ContentView{
		ContentID: contentID,
		StudentID: userID,
		ViewedAt:  time.Now(),
	}
	if err := s.Repo.CreateView(ctx, view); err != nil {
		// A concurrent first view hit the unique index; reread theirs.
		if mongo.IsDuplicateKeyError(err) {
			return s.Repo.FindView(ctx, contentID, userID)
		}
		return nil, err
	}
	return view, nil
}

// CompleteView marks the student's view finished and records time spent.
func (s *ContentService) CompleteView(ctx context.Context, contentID, userID string, timeSpentMinutes int) (*models.ContentView, error) {
	view, err := s.Repo.FindView(ctx, contentID, userID)
	if err != nil {
		return nil, notFound(err)
	}
	now := time.Now()
	view.IsCompleted = true
	view.CompletedAt = &now
	view.TimeSpentMinutes = timeSpentMinutes
	err = s.Repo.UpdateView(ctx, view.ID, bson.M{
		"is_completed":       true,
		"completed_at":       now,
		"time_spent_minutes": timeSpentMinutes,
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// SubmitFeedback attaches a 1-5 rating and optional comments to the view.
func (s *ContentService) SubmitFeedback(ctx context.Context, contentID, userID string, rating int, comments string) (*models.ContentView, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", models.ErrValidation)
	}
	view, err := s.Repo.FindView(ctx, contentID, userID)
	if err != nil {
		return nil, notFound(err)
	}
	now := time.Now()
	view.Feedback = &models.ContentFeedback{Rating: rating, Comments: comments, SubmittedAt: &now}
	if err := s.Repo.UpdateView(ctx, view.ID, bson.M{"feedback": view.Feedback}); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *ContentService) owned(ctx context.Context, contentID, userID string) (*models.Content, error) {
	content, err := s.Repo.FindByID(ctx, contentID)
	if err != nil {
		return nil, notFound(err)
	}
	if content.InstructorID != userID {
		return nil, models.ErrNotOwner
	}
	return content, nil
}
