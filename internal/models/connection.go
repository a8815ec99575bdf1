package models

import "time"

const (
	ConnectionPending  = "pending"
	ConnectionAccepted = "accepted"
	ConnectionRejected = "rejected"
)

// Connection is an instructor/student relationship. The receiver accepts or
// rejects a pending request; only accepted connections make an instructor's
// quizzes visible to the student.
type Connection struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	SenderID   string    `bson:"sender_id" json:"sender_id"`
	ReceiverID string    `bson:"receiver_id" json:"receiver_id"`
	Message    string    `bson:"message,omitempty" json:"message,omitempty"`
	Status     string    `bson:"status" json:"status"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

// Involves reports whether the user is either side of the connection.
func (c *Connection) Involves(userID string) bool {
	return c.SenderID == userID || c.ReceiverID == userID
}
