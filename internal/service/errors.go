package service

import (
	"errors"

	"quizknow/internal/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// notFound maps the driver's no-documents error to the domain error; other
// storage errors pass through untouched.
func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	return err
}
