// Package database is the persistence adapter over MongoDB. Handlers talk to
// the Repository interface; Store is the MongoDB implementation.
package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/smartkrishi/smart-krishi-api/apperror"
	"github.com/smartkrishi/smart-krishi-api/models"
)

// Repository is the document-store contract the handlers depend on.
// Documents come back raw; callers pass them through Normalize before they
// leave the service.
type Repository interface {
	Create(ctx context.Context, collection string, doc any) (string, error)
	CreateStamped(ctx context.Context, collection string, doc models.Stamper) (string, error)
	Find(ctx context.Context, collection string, filter bson.M, sort bson.D) ([]bson.M, error)
	FindOne(ctx context.Context, collection string, filter bson.M) (bson.M, bool, error)
	FindByID(ctx context.Context, collection, id string) (bson.M, bool, error)
	Ping(ctx context.Context) error
	CollectionNames(ctx context.Context) ([]string, error)
}

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client for uri and binds it to the named database. The
// driver dials lazily, so an unreachable server surfaces on first use or on
// Ping rather than here.
func Connect(ctx context.Context, uri, name string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	return &Store{client: client, db: client.Database(name)}, nil
}

// NewStore wraps an already-open database handle.
func NewStore(db *mongo.Database) *Store {
	return &Store{client: db.Client(), db: db}
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) CollectionNames(ctx context.Context) ([]string, error) {
	names, err := s.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return names, nil
}

// Create inserts doc and returns the store-assigned id as a hex string.
func (s *Store) Create(ctx context.Context, collection string, doc any) (string, error) {
	res, err := s.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	return idString(res.InsertedID), nil
}

// CreateStamped assigns the id before the insert so the record carries its
// own id from the first write. There is no second update and no window in
// which the echoed field is missing.
func (s *Store) CreateStamped(ctx context.Context, collection string, doc models.Stamper) (string, error) {
	id := primitive.NewObjectID()
	doc.Stamp(id)
	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	return id.Hex(), nil
}

func (s *Store) Find(ctx context.Context, collection string, filter bson.M, sort bson.D) ([]bson.M, error) {
	if filter == nil {
		filter = bson.M{}
	}
	opts := options.Find()
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	cursor, err := s.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	docs := []bson.M{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}
	return docs, nil
}

// FindOne reports absence through the bool, not the error.
func (s *Store) FindOne(ctx context.Context, collection string, filter bson.M) (bson.M, bool, error) {
	var doc bson.M
	err := s.db.Collection(collection).FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find one in %s: %w", collection, err)
	}
	return doc, true, nil
}

func (s *Store) FindByID(ctx context.Context, collection, id string) (bson.M, bool, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, false, err
	}
	return s.FindOne(ctx, collection, bson.M{"_id": oid})
}

// ParseID converts a hex id into the store's native type.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperror.InvalidIdentifier(id, err)
	}
	return oid, nil
}

// Newest sorts on field, most recent first.
func Newest(field string) bson.D {
	return bson.D{{Key: field, Value: -1}}
}

func idString(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}
