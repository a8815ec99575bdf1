package repository

import (
	"context"

	"quizknow/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ContentRepository struct {
	Col   *mongo.Collection
	Views *mongo.Collection
}

func NewContentRepository(db *mongo.Database) *ContentRepository {
	return &ContentRepository{
		Col:   db.Collection("content"),
		Views: db.Collection("content_views"),
	}
}

// EnsureIndexes creates the unique (content, student) index on views so a
// student gets exactly one view record per content.
func (r *ContentRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Views.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "content_id", Value: 1}, {Key: "student_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *ContentRepository) Create(ctx context.Context, content *models.Content) error {
	if content.ID == "" {
		content.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.Col.InsertOne(ctx, content)
	return err
}

func (r *ContentRepository) FindByID(ctx context.Context, id string) (*models.Content, error) {
	var content models.Content
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&content)
	if err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *ContentRepository) FindByInstructor(ctx context.Context, instructorID string) ([]models.Content, error) {
	return r.find(ctx, bson.M{"instructor_id": instructorID})
}

func (r *ContentRepository) FindAssigned(ctx context.Context, studentID string) ([]models.Content, error) {
	return r.find(ctx, bson.M{"allowed_students": studentID})
}

func (r *ContentRepository) Update(ctx context.Context, id string, update bson.M) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

// AddStudents grants students access, skipping duplicates via $addToSet.
func (r *ContentRepository) AddStudents(ctx context.Context, id string, studentIDs []string) error {
	if len(studentIDs) == 0 {
		return nil
	}
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$addToSet": bson.M{"allowed_students": bson.M{"$each": studentIDs}},
	})
	return err
}

func (r *ContentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.Col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return err
	}
	_, err := r.Views.DeleteMany(ctx, bson.M{"content_id": id})
	return err
}

func (r *ContentRepository) FindView(ctx context.Context, contentID, studentID string) (*models.ContentView, error) {
	var view models.ContentView
	err := r.Views.FindOne(ctx, bson.M{"content_id": contentID, "student_id": studentID}).Decode(&view)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (r *ContentRepository) CreateView(ctx context.Context, view *models.ContentView) error {
	if view.ID == "" {
		view.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.Views.InsertOne(ctx, view)
	return err
}

func (r *ContentRepository) UpdateView(ctx context.Context, id string, update bson.M) error {
	_, err := r.Views.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

func (r *ContentRepository) FindViewsByContent(ctx context.Context, contentID string) ([]models.ContentView, error) {
	cur, err := r.Views.Find(ctx, bson.M{"content_id": contentID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var views []models.ContentView
	for cur.Next(ctx) {
		var v models.ContentView
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, cur.Err()
}

func (r *ContentRepository) find(ctx context.Context, filter bson.M) ([]models.Content, error) {
	cur, err := r.Col.Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var items []models.Content
	for cur.Next(ctx) {
		var c models.Content
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, cur.Err()
}
