package repository

import (
	"context"

	"quizknow/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SessionRepository struct {
	Col *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{Col: db.Collection("sessions")}
}

// EnsureIndexes creates the unique partial index that guarantees at most one
// active session per (quiz, student) pair, even across processes.
func (r *SessionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "quiz_id", Value: 1}, {Key: "student_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": models.SessionActive}),
		},
		{
			Keys: bson.D{{Key: "student_id", Value: 1}, {Key: "status", Value: 1}},
		},
	})
	return err
}

func (r *SessionRepository) Create(ctx context.Context, session *models.QuizSession) error {
	if session.ID == "" {
		session.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.Col.InsertOne(ctx, session)
	return err
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.QuizSession, error) {
	var session models.QuizSession
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) FindActive(ctx context.Context, quizID, studentID string) (*models.QuizSession, error) {
	var session models.QuizSession
	err := r.Col.FindOne(ctx, bson.M{
		"quiz_id":    quizID,
		"student_id": studentID,
		"status":     models.SessionActive,
	}).Decode(&session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// CountFinished counts completed and expired attempts for the pair, used for
// attempt gating.
func (r *SessionRepository) CountFinished(ctx context.Context, quizID, studentID string) (int64, error) {
	return r.Col.CountDocuments(ctx, bson.M{
		"quiz_id":    quizID,
		"student_id": studentID,
		"status":     bson.M{"$in": []string{models.SessionCompleted, models.SessionExpired}},
	})
}

func (r *SessionRepository) FindByQuiz(ctx context.Context, quizID string, finishedOnly bool) ([]models.QuizSession, error) {
	filter := bson.M{"quiz_id": quizID}
	if finishedOnly {
		filter["status"] = bson.M{"$in": []string{models.SessionCompleted, models.SessionExpired}}
	}
	return r.find(ctx, filter)
}

func (r *SessionRepository) FindByStudent(ctx context.Context, studentID string) ([]models.QuizSession, error) {
	return r.find(ctx, bson.M{"student_id": studentID})
}

func (r *SessionRepository) Update(ctx context.Context, id string, update bson.M) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteByQuiz removes every session of a quiz. Called when the quiz is
// deleted so submissions never outlive their quiz.
func (r *SessionRepository) DeleteByQuiz(ctx context.Context, quizID string) error {
	_, err := r.Col.DeleteMany(ctx, bson.M{"quiz_id": quizID})
	return err
}

func (r *SessionRepository) find(ctx context.Context, filter bson.M) ([]models.QuizSession, error) {
	cur, err := r.Col.Find(ctx, filter, options.Find().SetSort(bson.M{"started_at": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var sessions []models.QuizSession
	for cur.Next(ctx) {
		var s models.QuizSession
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, cur.Err()
}
