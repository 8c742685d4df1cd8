package mongo

import (
	"atlas/fitness-backend/internal/domain"
	"atlas/fitness-backend/internal/repository"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	excludedMuscleCollectionName    = "excluded_muscles"
	excludedEquipmentCollectionName = "excluded_equipment"
)

// mongoExclusionRepository implements repository.ExclusionRepository
type mongoExclusionRepository struct {
	muscles   *mongo.Collection
	equipment *mongo.Collection
}

// NewMongoExclusionRepository creates a new exclusion repository backed by MongoDB.
func NewMongoExclusionRepository(db *mongo.Database) repository.ExclusionRepository {
	return &mongoExclusionRepository{
		muscles:   db.Collection(excludedMuscleCollectionName),
		equipment: db.Collection(excludedEquipmentCollectionName),
	}
}

// ReplaceMuscles swaps the profile's excluded-muscle set wholesale.
func (r *mongoExclusionRepository) ReplaceMuscles(ctx context.Context, profileID primitive.ObjectID, muscleIDs []primitive.ObjectID) error {
	if _, err := r.muscles.DeleteMany(ctx, bson.M{"profileId": profileID}); err != nil {
		return err
	}
	if len(muscleIDs) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(muscleIDs))
	for _, muscleID := range muscleIDs {
		docs = append(docs, domain.ExcludedMuscle{
			ID:        primitive.NewObjectID(),
			ProfileID: profileID,
			MuscleID:  muscleID,
			CreatedAt: now,
		})
	}
	_, err := r.muscles.InsertMany(ctx, docs)
	return err
}

// ListMuscles retrieves the profile's excluded muscles.
func (r *mongoExclusionRepository) ListMuscles(ctx context.Context, profileID primitive.ObjectID) ([]domain.ExcludedMuscle, error) {
	cursor, err := r.muscles.Find(ctx, bson.M{"profileId": profileID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var excluded []domain.ExcludedMuscle
	if err = cursor.All(ctx, &excluded); err != nil {
		return nil, err
	}
	return excluded, nil
}

// ReplaceEquipment swaps the profile's excluded-equipment set wholesale.
func (r *mongoExclusionRepository) ReplaceEquipment(ctx context.Context, profileID primitive.ObjectID, equipmentIDs []primitive.ObjectID) error {
	if _, err := r.equipment.DeleteMany(ctx, bson.M{"profileId": profileID}); err != nil {
		return err
	}
	if len(equipmentIDs) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(equipmentIDs))
	for _, equipmentID := range equipmentIDs {
		docs = append(docs, domain.ExcludedEquipment{
			ID:          primitive.NewObjectID(),
			ProfileID:   profileID,
			EquipmentID: equipmentID,
			CreatedAt:   now,
		})
	}
	_, err := r.equipment.InsertMany(ctx, docs)
	return err
}

// ListEquipment retrieves the profile's excluded equipment.
func (r *mongoExclusionRepository) ListEquipment(ctx context.Context, profileID primitive.ObjectID) ([]domain.ExcludedEquipment, error) {
	cursor, err := r.equipment.Find(ctx, bson.M{"profileId": profileID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var excluded []domain.ExcludedEquipment
	if err = cursor.All(ctx, &excluded); err != nil {
		return nil, err
	}
	return excluded, nil
}

// EnsureExclusionIndexes creates necessary indexes for both exclusion collections.
func EnsureExclusionIndexes(ctx context.Context, muscles, equipment *mongo.Collection) {
	profileIdx := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "profileId", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = muscles.Indexes().CreateMany(ctx, profileIdx)
	_, _ = equipment.Indexes().CreateMany(ctx, profileIdx)
}
