package users

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements UserStore over a MongoDB collection. Each user is one
// document keyed by _id; ids are generated client side so an id exists before
// the record is written.
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore creates a new MongoDB-backed store
func NewMongoStore(client *mongo.Client, database, collection string) *MongoStore {
	return &MongoStore{
		collection: client.Database(database).Collection(collection),
	}
}

// GenerateID produces a fresh unique identifier
func (s *MongoStore) GenerateID(ctx context.Context) (string, error) {
	return primitive.NewObjectID().Hex(), nil
}

// Get retrieves a user by id
func (s *MongoStore) Get(ctx context.Context, id string) (*User, error) {
	var user User
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, NewUserNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}

	return &user, nil
}

// Put writes the full record at id, creating or overwriting it
func (s *MongoStore) Put(ctx context.Context, id string, user *User) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": id}, user, opts)
	if err != nil {
		return fmt.Errorf("failed to put user %s: %w", id, err)
	}

	return nil
}

// Delete removes the record at id; zero deletions is still success
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}

	return nil
}
