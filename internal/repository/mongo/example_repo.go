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

const exampleCollectionName = "exercise_examples"

// mongoExerciseExampleRepository implements repository.ExerciseExampleRepository
type mongoExerciseExampleRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseExampleRepository creates a new ExerciseExample repository backed by MongoDB.
func NewMongoExerciseExampleRepository(db *mongo.Database) repository.ExerciseExampleRepository {
	return &mongoExerciseExampleRepository{
		collection: db.Collection(exampleCollectionName),
	}
}

// Create inserts a new exercise example with its embedded bundles and rule.
func (r *mongoExerciseExampleRepository) Create(ctx context.Context, example *domain.ExerciseExample) (primitive.ObjectID, error) {
	if example.Name == "" {
		return primitive.NilObjectID, errors.New("exercise example name is required")
	}

	example.ID = primitive.NewObjectID()
	for i := range example.Bundles {
		if example.Bundles[i].ID == primitive.NilObjectID {
			example.Bundles[i].ID = primitive.NewObjectID()
		}
	}
	now := time.Now().UTC()
	example.CreatedAt = now
	example.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, example)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// Replace swaps the whole example definition (bundles and rule included)
// while preserving the creation timestamp.
func (r *mongoExerciseExampleRepository) Replace(ctx context.Context, example *domain.ExerciseExample) error {
	if example.ID == primitive.NilObjectID {
		return errors.New("exercise example ID is required for replace")
	}
	if example.Name == "" {
		return errors.New("exercise example name cannot be empty")
	}

	for i := range example.Bundles {
		if example.Bundles[i].ID == primitive.NilObjectID {
			example.Bundles[i].ID = primitive.NewObjectID()
		}
	}
	example.UpdatedAt = time.Now().UTC()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": example.ID}, example)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the example document; embedded bundles and the rule go with it.
func (r *mongoExerciseExampleRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// GetByID retrieves an exercise example by its ID.
func (r *mongoExerciseExampleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseExample, error) {
	var example domain.ExerciseExample
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&example)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &example, nil
}

// List retrieves all catalog examples sorted by name.
func (r *mongoExerciseExampleRepository) List(ctx context.Context) ([]domain.ExerciseExample, error) {
	return r.list(ctx, bson.M{})
}

// ListByIDs retrieves the examples matching the given IDs.
func (r *mongoExerciseExampleRepository) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.ExerciseExample, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *mongoExerciseExampleRepository) list(ctx context.Context, filter bson.M) ([]domain.ExerciseExample, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var examples []domain.ExerciseExample
	if err = cursor.All(ctx, &examples); err != nil {
		return nil, err
	}
	return examples, nil
}

// EnsureExerciseExampleIndexes creates necessary indexes for the exercise examples collection.
func EnsureExerciseExampleIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "bundles.muscleId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}},
			Options: options.Index().SetName("example_text_search"),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
