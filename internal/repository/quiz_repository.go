package repository

import (
	"context"

	"quizknow/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type QuizRepository struct {
	Col *mongo.Collection
}

func NewQuizRepository(db *mongo.Database) *QuizRepository {
	return &QuizRepository{Col: db.Collection("quizzes")}
}

func (r *QuizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	if quiz.ID == "" {
		quiz.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.Col.InsertOne(ctx, quiz)
	return err
}

func (r *QuizRepository) FindByID(ctx context.Context, id string) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&quiz)
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) FindByInstructor(ctx context.Context, instructorID string) ([]models.Quiz, error) {
	return r.find(ctx, bson.M{"instructor_id": instructorID})
}

// FindPublished returns all published quizzes, newest first.
func (r *QuizRepository) FindPublished(ctx context.Context) ([]models.Quiz, error) {
	cur, err := r.Col.Find(ctx, bson.M{"is_published": true},
		options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	return decodeQuizzes(ctx, cur)
}

// FindAssignedPublished returns published quizzes the student is assigned to,
// restricted to the given instructors when the slice is non-nil.
func (r *QuizRepository) FindAssignedPublished(ctx context.Context, studentID string, instructorIDs []string) ([]models.Quiz, error) {
	filter := bson.M{
		"students.student_id": studentID,
		"is_published":        true,
	}
	if instructorIDs != nil {
		filter["instructor_id"] = bson.M{"$in": instructorIDs}
	}
	return r.find(ctx, filter)
}

func (r *QuizRepository) Update(ctx context.Context, id string, update bson.M) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

// AddStudents pushes roster entries, skipping students already assigned.
func (r *QuizRepository) AddStudents(ctx context.Context, id string, assignments []models.StudentAssignment) error {
	if len(assignments) == 0 {
		return nil
	}
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"students": bson.M{"$each": assignments}},
	})
	return err
}

func (r *QuizRepository) Delete(ctx context.Context, id string) error {
	_, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *QuizRepository) find(ctx context.Context, filter bson.M) ([]models.Quiz, error) {
	cur, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	return decodeQuizzes(ctx, cur)
}

func decodeQuizzes(ctx context.Context, cur *mongo.Cursor) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	for cur.Next(ctx) {
		var q models.Quiz
		if err := cur.Decode(&q); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, cur.Err()
}
