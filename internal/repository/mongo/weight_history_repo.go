package mongo

import (
	"atlas/fitness-backend/internal/domain"
	"atlas/fitness-backend/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const weightHistoryCollectionName = "weight_history"

// mongoWeightHistoryRepository implements repository.WeightHistoryRepository
type mongoWeightHistoryRepository struct {
	collection *mongo.Collection
}

// NewMongoWeightHistoryRepository creates a new WeightHistory repository backed by MongoDB.
func NewMongoWeightHistoryRepository(db *mongo.Database) repository.WeightHistoryRepository {
	return &mongoWeightHistoryRepository{
		collection: db.Collection(weightHistoryCollectionName),
	}
}

// Create appends a new weight measurement for a profile.
func (r *mongoWeightHistoryRepository) Create(ctx context.Context, entry *domain.WeightHistory) (primitive.ObjectID, error) {
	if entry.ProfileID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("weight history profile ID is required")
	}

	entry.ID = primitive.NewObjectID()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// ListByProfileID retrieves all measurements of a profile, newest first.
func (r *mongoWeightHistoryRepository) ListByProfileID(ctx context.Context, profileID primitive.ObjectID) ([]domain.WeightHistory, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"profileId": profileID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []domain.WeightHistory
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// CountByProfileID counts the measurements of a profile.
func (r *mongoWeightHistoryRepository) CountByProfileID(ctx context.Context, profileID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"profileId": profileID})
}

// Delete removes a measurement, ensuring it belongs to the given profile.
// The last-entry guard lives in the service layer.
func (r *mongoWeightHistoryRepository) Delete(ctx context.Context, id, profileID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "profileId": profileID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWeightHistoryIndexes creates necessary indexes for the weight history collection.
func EnsureWeightHistoryIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "profileId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
