package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"CollabProject/module/comment/model"
)

var ErrNotFound = errors.New("comment not found")

const collectionName = "comments"

type CommentStore struct {
	coll *mongo.Collection
}

func NewCommentStore(db *mongo.Database) *CommentStore {
	return &CommentStore{coll: db.Collection(collectionName)}
}

// ListForDocument returns a document's comments, newest first.
func (s *CommentStore) ListForDocument(ctx context.Context, docID string) ([]model.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(docID)
	if err != nil {
		return nil, ErrNotFound
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.M{"document": oid}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "list comments")
	}
	var comments []model.Comment
	if err := cur.All(ctx, &comments); err != nil {
		return nil, errors.Wrap(err, "decode comments")
	}
	return comments, nil
}

func (s *CommentStore) Create(ctx context.Context, docID, authorID, content string, sel model.TextSelection) (*model.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(docID)
	if err != nil {
		return nil, ErrNotFound
	}
	now := time.Now()
	cm := model.Comment{
		ID:            primitive.NewObjectID(),
		Document:      oid,
		Author:        authorID,
		Content:       content,
		TextSelection: sel,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := s.coll.InsertOne(ctx, cm); err != nil {
		return nil, errors.Wrap(err, "insert comment")
	}
	return &cm, nil
}

func (s *CommentStore) Get(ctx context.Context, id string) (*model.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var cm model.Comment
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&cm)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get comment")
	}
	return &cm, nil
}

// Update rewrites content; author only.
func (s *CommentStore) Update(ctx context.Context, authorID, id, content string) (*model.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	after := options.After
	var cm model.Comment
	err = s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "author": authorID},
		bson.M{"$set": bson.M{"content": content, "updated_at": time.Now()}},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&cm)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "update comment")
	}
	return &cm, nil
}

func (s *CommentStore) Delete(ctx context.Context, authorID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid, "author": authorID})
	if err != nil {
		return errors.Wrap(err, "delete comment")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Resolve flips the resolved flag.
func (s *CommentStore) Resolve(ctx context.Context, id string, resolved bool) (*model.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	after := options.After
	var cm model.Comment
	err = s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"resolved": resolved, "updated_at": time.Now()}},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&cm)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "resolve comment")
	}
	return &cm, nil
}

// AddReply creates a reply comment on the parent's document, anchored to the
// parent's text selection, and links it into the parent's reply list.
func (s *CommentStore) AddReply(ctx context.Context, parentID, authorID, content string) (*model.Comment, error) {
	parent, err := s.Get(ctx, parentID)
	if err != nil {
		return nil, err
	}
	reply, err := s.Create(ctx, parent.Document.Hex(), authorID, content, parent.TextSelection)
	if err != nil {
		return nil, err
	}
	_, err = s.coll.UpdateOne(ctx,
		bson.M{"_id": parent.ID},
		bson.M{"$push": bson.M{"replies": reply.ID}},
	)
	if err != nil {
		return nil, errors.Wrap(err, "link reply")
	}
	return reply, nil
}
