package repository

import (
	"context"

	"quizknow/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ConnectionRepository struct {
	Col *mongo.Collection
}

func NewConnectionRepository(db *mongo.Database) *ConnectionRepository {
	return &ConnectionRepository{Col: db.Collection("connections")}
}

func (r *ConnectionRepository) Create(ctx context.Context, conn *models.Connection) error {
	if conn.ID == "" {
		conn.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.Col.InsertOne(ctx, conn)
	return err
}

func (r *ConnectionRepository) FindByID(ctx context.Context, id string) (*models.Connection, error) {
	var conn models.Connection
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&conn)
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// FindBetween returns the connection between two users regardless of which
// side sent the request, or mongo.ErrNoDocuments.
func (r *ConnectionRepository) FindBetween(ctx context.Context, userA, userB string) (*models.Connection, error) {
	var conn models.Connection
	err := r.Col.FindOne(ctx, bson.M{
		"$or": []bson.M{
			{"sender_id": userA, "receiver_id": userB},
			{"sender_id": userB, "receiver_id": userA},
		},
	}).Decode(&conn)
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

func (r *ConnectionRepository) FindByUser(ctx context.Context, userID string) ([]models.Connection, error) {
	return r.find(ctx, bson.M{
		"$or":    []bson.M{{"sender_id": userID}, {"receiver_id": userID}},
		"status": bson.M{"$in": []string{models.ConnectionPending, models.ConnectionAccepted}},
	})
}

func (r *ConnectionRepository) FindPendingForReceiver(ctx context.Context, receiverID string) ([]models.Connection, error) {
	return r.find(ctx, bson.M{"receiver_id": receiverID, "status": models.ConnectionPending})
}

// AcceptedPeers returns the ids of every user the given user has an accepted
// connection with.
func (r *ConnectionRepository) AcceptedPeers(ctx context.Context, userID string) ([]string, error) {
	conns, err := r.find(ctx, bson.M{
		"$or":    []bson.M{{"sender_id": userID}, {"receiver_id": userID}},
		"status": models.ConnectionAccepted,
	})
	if err != nil {
		return nil, err
	}
	peers := make([]string, 0, len(conns))
	for _, c := range conns {
		if c.SenderID == userID {
			peers = append(peers, c.ReceiverID)
		} else {
			peers = append(peers, c.SenderID)
		}
	}
	return peers, nil
}

func (r *ConnectionRepository) Update(ctx context.Context, id string, update bson.M) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

func (r *ConnectionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *ConnectionRepository) find(ctx context.Context, filter bson.M) ([]models.Connection, error) {
	cur, err := r.Col.Find(ctx, filter, options.Find().SetSort(bson.M{"updated_at": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var conns []models.Connection
	for cur.Next(ctx) {
		var c models.Connection
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		conns = append(conns, c)
	}
	return conns, cur.Err()
}
