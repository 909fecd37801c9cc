package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is the durable unit of collaboration. Content is opaque to the
// engine; only the REST surface and clients interpret it.
type Document struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Content      string             `bson:"content" json:"content"`
	LastModified time.Time          `bson:"last_modified" json:"lastModified"`
	Owner        string             `bson:"owner" json:"owner"`                      // user ID of the creator
	SharedWith   []string           `bson:"shared_with,omitempty" json:"sharedWith"` // user IDs with read/write access
}
