package repository

import (
	"context"
	"fmt"
	"time"

	"flightstatus-service/internal/domain/entity"
	"flightstatus-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSubscriptionRepository implements SubscriptionRepository
type MongoSubscriptionRepository struct {
	collection *mongo.Collection
}

// NewMongoSubscriptionRepository creates a new flight subscription repository
func NewMongoSubscriptionRepository(db *mongo.Database) repository.SubscriptionRepository {
	collection := db.Collection("flight_subscriptions")

	ctx := context.Background()
	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.M{"subscriptionKey": 1},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "flightNumber", Value: 1},
				{Key: "flightDate", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "conversationId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
	})

	return &MongoSubscriptionRepository{
		collection: collection,
	}
}

// Upsert creates or refreshes a subscription by its key
func (r *MongoSubscriptionRepository) Upsert(ctx context.Context, subscription *entity.FlightSubscription) error {
	now := time.Now()
	subscription.UpdatedAt = now

	updateDoc := bson.M{
		"conversationId": subscription.ConversationID,
		"flightNumber":   subscription.FlightNumber,
		"flightDate":     subscription.FlightDate,
		"locale":         subscription.Locale,
		"updatedAt":      subscription.UpdatedAt,
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"subscriptionKey": subscription.SubscriptionKey}

	result, err := r.collection.UpdateOne(
		ctx,
		filter,
		bson.M{
			"$set":         updateDoc,
			"$setOnInsert": bson.M{"createdAt": now},
		},
		opts,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert flight subscription: %w", err)
	}

	if result.UpsertedCount > 0 {
		subscription.CreatedAt = now
		if id, ok := result.UpsertedID.(primitive.ObjectID); ok {
			subscription.ID = id.Hex()
		}
	}
	return nil
}

// Delete removes a subscription by its key
func (r *MongoSubscriptionRepository) Delete(ctx context.Context, subscriptionKey string) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"subscriptionKey": subscriptionKey})
	if err != nil {
		return false, fmt.Errorf("failed to delete flight subscription: %w", err)
	}
	return result.DeletedCount > 0, nil
}

// Exists checks whether a subscription with the key is stored
func (r *MongoSubscriptionRepository) Exists(ctx context.Context, subscriptionKey string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"subscriptionKey": subscriptionKey}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check flight subscription: %w", err)
	}
	return count > 0, nil
}

// FindByConversation returns a conversation's subscriptions, newest first
func (r *MongoSubscriptionRepository) FindByConversation(ctx context.Context, conversationID string, limit int) ([]*entity.FlightSubscription, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, bson.M{"conversationId": conversationID}, opts)
}

// FindByFlight returns every subscription to a flight on a day
func (r *MongoSubscriptionRepository) FindByFlight(ctx context.Context, flightNumber string, flightDate string) ([]*entity.FlightSubscription, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.find(ctx, bson.M{"flightNumber": flightNumber, "flightDate": flightDate}, opts)
}

func (r *MongoSubscriptionRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*entity.FlightSubscription, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find flight subscriptions: %w", err)
	}
	defer cursor.Close(ctx)

	var subscriptions []*entity.FlightSubscription
	if err := cursor.All(ctx, &subscriptions); err != nil {
		return nil, fmt.Errorf("failed to decode flight subscriptions: %w", err)
	}
	return subscriptions, nil
}
