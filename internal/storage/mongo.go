package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on top of a MongoDB collection, one document
// per key with the key as the document id.
type MongoStore struct {
	Collection *mongo.Collection
}

type storedValue struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

func (s *MongoStore) Get(ctx context.Context, key string) (string, error) {
	if s.Collection == nil {
		return "", fmt.Errorf("mongo collection is nil")
	}
	var doc storedValue
	err := s.Collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return doc.Value, nil
}

func (s *MongoStore) Set(ctx context.Context, key, value string) error {
	if s.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := s.Collection.ReplaceOne(ctx, bson.M{"_id": key},
		storedValue{Key: key, Value: value}, options.Replace().SetUpsert(true))
	return err
}

func (s *MongoStore) Remove(ctx context.Context, key string) error {
	if s.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := s.Collection.DeleteOne(ctx, bson.M{"_id": key})
	return err
}
