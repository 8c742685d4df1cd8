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

const (
	equipmentGroupCollectionName = "equipment_groups"
	equipmentCollectionName      = "equipment"
)

// mongoEquipmentGroupRepository implements repository.EquipmentGroupRepository
type mongoEquipmentGroupRepository struct {
	collection *mongo.Collection
}

// NewMongoEquipmentGroupRepository creates a new EquipmentGroup repository backed by MongoDB.
func NewMongoEquipmentGroupRepository(db *mongo.Database) repository.EquipmentGroupRepository {
	return &mongoEquipmentGroupRepository{
		collection: db.Collection(equipmentGroupCollectionName),
	}
}

func (r *mongoEquipmentGroupRepository) Create(ctx context.Context, group *domain.EquipmentGroup) (primitive.ObjectID, error) {
	if group.Name == "" {
		return primitive.NilObjectID, errors.New("equipment group name is required")
	}

	group.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	group.CreatedAt = now
	group.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, group)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func (r *mongoEquipmentGroupRepository) Update(ctx context.Context, group *domain.EquipmentGroup) error {
	if group.ID == primitive.NilObjectID {
		return errors.New("equipment group ID is required for update")
	}

	update := bson.M{"$set": bson.M{
		"name":      group.Name,
		"updatedAt": time.Now().UTC(),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": group.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoEquipmentGroupRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoEquipmentGroupRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.EquipmentGroup, error) {
	var group domain.EquipmentGroup
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&group)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *mongoEquipmentGroupRepository) List(ctx context.Context) ([]domain.EquipmentGroup, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var groups []domain.EquipmentGroup
	if err = cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// mongoEquipmentRepository implements repository.EquipmentRepository
type mongoEquipmentRepository struct {
	collection *mongo.Collection
}

// NewMongoEquipmentRepository creates a new Equipment repository backed by MongoDB.
func NewMongoEquipmentRepository(db *mongo.Database) repository.EquipmentRepository {
	return &mongoEquipmentRepository{
		collection: db.Collection(equipmentCollectionName),
	}
}

func (r *mongoEquipmentRepository) Create(ctx context.Context, equipment *domain.Equipment) (primitive.ObjectID, error) {
	if equipment.Name == "" || equipment.EquipmentGroupID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("equipment name and group ID are required")
	}

	equipment.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	equipment.CreatedAt = now
	equipment.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, equipment)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func (r *mongoEquipmentRepository) Update(ctx context.Context, equipment *domain.Equipment) error {
	if equipment.ID == primitive.NilObjectID {
		return errors.New("equipment ID is required for update")
	}

	update := bson.M{"$set": bson.M{
		"name":             equipment.Name,
		"equipmentGroupId": equipment.EquipmentGroupID,
		"updatedAt":        time.Now().UTC(),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": equipment.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoEquipmentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoEquipmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Equipment, error) {
	var equipment domain.Equipment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&equipment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &equipment, nil
}

func (r *mongoEquipmentRepository) List(ctx context.Context) ([]domain.Equipment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var equipment []domain.Equipment
	if err = cursor.All(ctx, &equipment); err != nil {
		return nil, err
	}
	return equipment, nil
}

// EnsureEquipmentIndexes creates necessary indexes for the equipment collection.
func EnsureEquipmentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "equipmentGroupId", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
