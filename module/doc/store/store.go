package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"CollabProject/module/doc/model"
)

var ErrNotFound = errors.New("document not found")

const collectionName = "documents"

type DocumentStore struct {
	coll *mongo.Collection
}

func NewDocumentStore(db *mongo.Database) *DocumentStore {
	return &DocumentStore{coll: db.Collection(collectionName)}
}

// accessFilter matches documents the user owns or that are shared with them.
func accessFilter(id primitive.ObjectID, userID string) bson.M {
	return bson.M{
		"_id": id,
		"$or": []bson.M{
			{"owner": userID},
			{"shared_with": userID},
		},
	}
}

func (s *DocumentStore) ListFor(ctx context.Context, userID string) ([]model.Document, error) {
	cur, err := s.coll.Find(ctx, bson.M{
		"$or": []bson.M{
			{"owner": userID},
			{"shared_with": userID},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "list documents")
	}
	var docs []model.Document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode documents")
	}
	return docs, nil
}

func (s *DocumentStore) Get(ctx context.Context, userID, id string) (*model.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc model.Document
	err = s.coll.FindOne(ctx, accessFilter(oid, userID)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get document")
	}
	return &doc, nil
}

func (s *DocumentStore) Create(ctx context.Context, userID, title, content string) (*model.Document, error) {
	doc := model.Document{
		ID:           primitive.NewObjectID(),
		Title:        title,
		Content:      content,
		LastModified: time.Now(),
		Owner:        userID,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return nil, errors.Wrap(err, "insert document")
	}
	return &doc, nil
}

// Update replaces title/content; owner only.
func (s *DocumentStore) Update(ctx context.Context, userID, id, title, content string) (*model.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	after := options.After
	var doc model.Document
	err = s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "owner": userID},
		bson.M{"$set": bson.M{"title": title, "content": content, "last_modified": time.Now()}},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "update document")
	}
	return &doc, nil
}

func (s *DocumentStore) Delete(ctx context.Context, userID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid, "owner": userID})
	if err != nil {
		return errors.Wrap(err, "delete document")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *DocumentStore) Share(ctx context.Context, ownerID, id, userID string) error {
	return s.updateSharing(ctx, ownerID, id, bson.M{"$addToSet": bson.M{"shared_with": userID}})
}

func (s *DocumentStore) Unshare(ctx context.Context, ownerID, id, userID string) error {
	return s.updateSharing(ctx, ownerID, id, bson.M{"$pull": bson.M{"shared_with": userID}})
}

func (s *DocumentStore) updateSharing(ctx context.Context, ownerID, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid, "owner": ownerID}, update)
	if err != nil {
		return errors.Wrap(err, "update sharing")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *DocumentStore) SharedWith(ctx context.Context, ownerID, id string) ([]string, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc model.Document
	err = s.coll.FindOne(ctx, bson.M{"_id": oid, "owner": ownerID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get shared list")
	}
	return doc.SharedWith, nil
}

// CheckAccess reports whether userID may read/write the document. Evaluated
// against live state so revocations take effect at the next flush.
func (s *DocumentStore) CheckAccess(ctx context.Context, userID, docID string) bool {
	oid, err := primitive.ObjectIDFromHex(docID)
	if err != nil {
		return false
	}
	n, err := s.coll.CountDocuments(ctx, accessFilter(oid, userID))
	if err != nil {
		return false
	}
	return n > 0
}

// WriteContent durably stores new content and its timestamp.
func (s *DocumentStore) WriteContent(ctx context.Context, docID string, content []byte, ts time.Time) error {
	oid, err := primitive.ObjectIDFromHex(docID)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"content": string(content), "last_modified": ts}},
	)
	if err != nil {
		return errors.Wrap(err, "write content")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
