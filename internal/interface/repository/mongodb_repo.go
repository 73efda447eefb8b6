package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flightstatus-service/internal/domain/entity"
	"flightstatus-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSessionRepository implements the SessionRepository interface
type MongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new MongoDB session repository
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	collection := db.Collection("search_sessions")

	ctx := context.Background()

	// One session per conversation
	conversationIndex := mongo.IndexModel{
		Keys:    bson.M{"conversationId": 1},
		Options: options.Index().SetUnique(true),
	}

	// Mongo's TTL monitor removes leftovers in the background; reads still
	// apply expiry themselves because the monitor runs only once a minute.
	expiresIndex := mongo.IndexModel{
		Keys:    bson.M{"expiresAt": 1},
		Options: options.Index().SetExpireAfterSeconds(0),
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		conversationIndex,
		expiresIndex,
	})

	return &MongoSessionRepository{
		collection: collection,
	}
}

// Find finds the session of a conversation
func (r *MongoSessionRepository) Find(ctx context.Context, conversationID string) (*entity.Session, error) {
	var session entity.Session
	err := r.collection.FindOne(ctx, bson.M{"conversationId": conversationID}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return &session, nil
}

// Save replaces the conversation's session
func (r *MongoSessionRepository) Save(ctx context.Context, session *entity.Session) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"conversationId": session.ConversationID}, session, opts)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes the conversation's session if present
func (r *MongoSessionRepository) Delete(ctx context.Context, conversationID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"conversationId": conversationID})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes every session that expired at or before now
func (r *MongoSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"expiresAt": bson.M{"$lte": now}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return int(result.DeletedCount), nil
}
