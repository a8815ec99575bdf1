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

// ConnectionService manages instructor/student relationships. A connection
// moves pending -> accepted or pending -> rejected, always by the receiver.
type ConnectionService struct {
	Repo *repository.ConnectionRepository
}

func NewConnectionService(repo *repository.ConnectionRepository) *ConnectionService {
	return &ConnectionService{Repo: repo}
}

func (s *ConnectionService) Request(ctx context.Context, senderID, receiverID, message string) (*models.Connection, error) {
	if receiverID == "" {
		return nil, fmt.Errorf("%w: receiver is required", models.ErrValidation)
	}
	if receiverID == senderID {
		return nil, fmt.Errorf("%w: cannot send a request to yourself", models.ErrValidation)
	}

	if _, err := s.Repo.FindBetween(ctx, senderID, receiverID); err == nil {
		return nil, fmt.Errorf("%w: connection already exists", models.ErrValidation)
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	now := time.Now()
	conn := &models.Connection{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Message:    message,
		Status:     models.ConnectionPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.Create(ctx, conn); err != nil {
		return nil, err
	}
	return conn, nil
}

func (s *ConnectionService) Accept(ctx context.Context, id, userID string) (*models.Connection, error) {
	return s.settle(ctx, id, userID, models.ConnectionAccepted)
}

func (s *ConnectionService) Reject(ctx context.Context, id, userID string) (*models.Connection, error) {
	return s.settle(ctx, id, userID, models.ConnectionRejected)
}

func (s *ConnectionService) settle(ctx context.Context, id, userID, status string) (*models.Connection, error) {
	conn, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if conn.ReceiverID != userID {
		return nil, models.ErrNotOwner
	}
	if conn.Status != models.ConnectionPending {
		return nil, fmt.Errorf("%w: connection is already %s", models.ErrInvalidState, conn.Status)
	}

	conn.Status = status
	conn.UpdatedAt = time.Now()
	if err := s.Repo.Update(ctx, id, bson.M{"status": conn.Status, "updated_at": conn.UpdatedAt}); err != nil {
		return nil, err
	}
	return conn, nil
}

func (s *ConnectionService) ListMine(ctx context.Context, userID string) ([]models.Connection, error) {
	return s.Repo.FindByUser(ctx, userID)
}

func (s *ConnectionService) PendingRequests(ctx context.Context, userID string) ([]models.Connection, error) {
	return s.Repo.FindPendingForReceiver(ctx, userID)
}

// Remove deletes a connection. Either side may remove it.
func (s *ConnectionService) Remove(ctx context.Context, id, userID string) error {
	conn, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if !conn.Involves(userID) {
		return models.ErrNotOwner
	}
	return s.Repo.Delete(ctx, id)
}
