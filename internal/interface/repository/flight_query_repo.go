package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flightstatus-service/internal/domain/entity"
	"flightstatus-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoFlightQueryRepository implements FlightQueryRepository
type MongoFlightQueryRepository struct {
	collection *mongo.Collection
}

// NewMongoFlightQueryRepository creates a new flight query repository
func NewMongoFlightQueryRepository(db *mongo.Database) repository.FlightQueryRepository {
	collection := db.Collection("flight_queries")

	ctx := context.Background()
	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.M{"queryKey": 1},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "conversationId", Value: 1},
				{Key: "updatedAt", Value: -1},
			},
		},
	})

	return &MongoFlightQueryRepository{
		collection: collection,
	}
}

// FindByQueryKey finds a query by its {conversation}:{code}:{date} key
func (r *MongoFlightQueryRepository) FindByQueryKey(ctx context.Context, queryKey string) (*entity.FlightQuery, error) {
	var query entity.FlightQuery
	err := r.collection.FindOne(ctx, bson.M{"queryKey": queryKey}).Decode(&query)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.ErrReferenceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find flight query: %w", err)
	}
	return &query, nil
}

// Upsert records a lookup, counting repeats of the same key
func (r *MongoFlightQueryRepository) Upsert(ctx context.Context, query *entity.FlightQuery) error {
	now := time.Now()
	query.UpdatedAt = now

	updateDoc := bson.M{
		"conversationId": query.ConversationID,
		"flightNumber":   query.FlightNumber,
		"flightDate":     query.FlightDate,
		"outcome":        query.Outcome,
		"flightStatus":   query.FlightStatus,
		"resultCount":    query.ResultCount,
		"updatedAt":      query.UpdatedAt,
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"queryKey": query.QueryKey}

	result, err := r.collection.UpdateOne(
		ctx,
		filter,
		bson.M{
			"$set":         updateDoc,
			"$setOnInsert": bson.M{"createdAt": now},
			"$inc":         bson.M{"lookupCount": 1},
		},
		opts,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert flight query: %w", err)
	}

	if result.UpsertedCount > 0 {
		query.CreatedAt = now
		if id, ok := result.UpsertedID.(primitive.ObjectID); ok {
			query.ID = id.Hex()
		}
	}
	return nil
}

// FindRecentByConversation returns the latest queries of a conversation
func (r *MongoFlightQueryRepository) FindRecentByConversation(ctx context.Context, conversationID string, limit int) ([]*entity.FlightQuery, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"conversationId": conversationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find flight queries: %w", err)
	}
	defer cursor.Close(ctx)

	var queries []*entity.FlightQuery
	if err := cursor.All(ctx, &queries); err != nil {
		return nil, fmt.Errorf("failed to decode flight queries: %w", err)
	}
	return queries, nil
}
