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
	muscleGroupCollectionName = "muscle_groups"
	muscleCollectionName      = "muscles"
)

// mongoMuscleGroupRepository implements repository.MuscleGroupRepository
type mongoMuscleGroupRepository struct {
	collection *mongo.Collection
}

// NewMongoMuscleGroupRepository creates a new MuscleGroup repository backed by MongoDB.
func NewMongoMuscleGroupRepository(db *mongo.Database) repository.MuscleGroupRepository {
	return &mongoMuscleGroupRepository{
		collection: db.Collection(muscleGroupCollectionName),
	}
}

func (r *mongoMuscleGroupRepository) Create(ctx context.Context, group *domain.MuscleGroup) (primitive.ObjectID, error) {
	if group.Name == "" {
		return primitive.NilObjectID, errors.New("muscle group name is required")
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

func (r *mongoMuscleGroupRepository) Update(ctx context.Context, group *domain.MuscleGroup) error {
	if group.ID == primitive.NilObjectID {
		return errors.New("muscle group ID is required for update")
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

func (r *mongoMuscleGroupRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoMuscleGroupRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MuscleGroup, error) {
	var group domain.MuscleGroup
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&group)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *mongoMuscleGroupRepository) List(ctx context.Context) ([]domain.MuscleGroup, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var groups []domain.MuscleGroup
	if err = cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// mongoMuscleRepository implements repository.MuscleRepository
type mongoMuscleRepository struct {
	collection *mongo.Collection
}

// NewMongoMuscleRepository creates a new Muscle repository backed by MongoDB.
func NewMongoMuscleRepository(db *mongo.Database) repository.MuscleRepository {
	return &mongoMuscleRepository{
		collection: db.Collection(muscleCollectionName),
	}
}

func (r *mongoMuscleRepository) Create(ctx context.Context, muscle *domain.Muscle) (primitive.ObjectID, error) {
	if muscle.Name == "" || muscle.MuscleGroupID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("muscle name and group ID are required")
	}

	muscle.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	muscle.CreatedAt = now
	muscle.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, muscle)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func (r *mongoMuscleRepository) Update(ctx context.Context, muscle *domain.Muscle) error {
	if muscle.ID == primitive.NilObjectID {
		return errors.New("muscle ID is required for update")
	}

	update := bson.M{"$set": bson.M{
		"name":              muscle.Name,
		"muscleGroupId":     muscle.MuscleGroupID,
		"recoveryTimeHours": muscle.RecoveryTimeHours,
		"updatedAt":         time.Now().UTC(),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": muscle.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoMuscleRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoMuscleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Muscle, error) {
	var muscle domain.Muscle
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&muscle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &muscle, nil
}

func (r *mongoMuscleRepository) List(ctx context.Context) ([]domain.Muscle, error) {
	return r.list(ctx, bson.M{})
}

func (r *mongoMuscleRepository) ListByGroupID(ctx context.Context, groupID primitive.ObjectID) ([]domain.Muscle, error) {
	return r.list(ctx, bson.M{"muscleGroupId": groupID})
}

func (r *mongoMuscleRepository) list(ctx context.Context, filter bson.M) ([]domain.Muscle, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var muscles []domain.Muscle
	if err = cursor.All(ctx, &muscles); err != nil {
		return nil, err
	}
	return muscles, nil
}

// EnsureMuscleIndexes creates necessary indexes for the muscles collection.
func EnsureMuscleIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "muscleGroupId", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
