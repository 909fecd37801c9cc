package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TextSelection anchors a comment to a span of document text.
type TextSelection struct {
	Start int    `bson:"start" json:"start"`
	End   int    `bson:"end" json:"end"`
	Text  string `bson:"text" json:"text"`
}

type Comment struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Document      primitive.ObjectID   `bson:"document" json:"document"`
	Author        string               `bson:"author" json:"author"` // user ID
	Content       string               `bson:"content" json:"content"`
	TextSelection TextSelection        `bson:"text_selection" json:"textSelection"`
	Replies       []primitive.ObjectID `bson:"replies,omitempty" json:"replies"`
	Resolved      bool                 `bson:"resolved" json:"resolved"`
	CreatedAt     time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updated_at" json:"updatedAt"`
}
