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

const trainingCollectionName = "trainings"

// mongoTrainingRepository implements repository.TrainingRepository
type mongoTrainingRepository struct {
	collection *mongo.Collection
}

// NewMongoTrainingRepository creates a new Training repository backed by MongoDB.
func NewMongoTrainingRepository(db *mongo.Database) repository.TrainingRepository {
	return &mongoTrainingRepository{
		collection: db.Collection(trainingCollectionName),
	}
}

// Upsert replaces the training document wholesale, inserting it when absent.
// The embedded exercise/iteration tree lives in one document, so the old tree
// and the new one are swapped in a single atomic write: a failed write leaves
// the previous tree untouched.
func (r *mongoTrainingRepository) Upsert(ctx context.Context, training *domain.Training) error {
	if training.ID == primitive.NilObjectID {
		return errors.New("training ID is required for upsert")
	}
	if training.ProfileID == primitive.NilObjectID {
		return errors.New("training profile ID is required")
	}

	training.UpdatedAt = time.Now().UTC()
	if training.CreatedAt.IsZero() {
		training.CreatedAt = training.UpdatedAt
	}

	// Filter on profileId too: a training can never be moved to another profile.
	filter := bson.M{"_id": training.ID, "profileId": training.ProfileID}
	_, err := r.collection.ReplaceOne(ctx, filter, training, options.Replace().SetUpsert(true))
	return err
}

// Delete removes a training, ensuring it belongs to the given profile.
func (r *mongoTrainingRepository) Delete(ctx context.Context, id, profileID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "profileId": profileID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// GetByID retrieves a training by its ID.
func (r *mongoTrainingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Training, error) {
	var training domain.Training
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&training)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &training, nil
}

// ListByProfileID retrieves all trainings of a profile, newest first.
func (r *mongoTrainingRepository) ListByProfileID(ctx context.Context, profileID primitive.ObjectID) ([]domain.Training, error) {
	return r.list(ctx, bson.M{"profileId": profileID})
}

// ListByProfileAndExample retrieves the trainings of a profile containing at
// least one exercise performed from the given catalog example.
func (r *mongoTrainingRepository) ListByProfileAndExample(ctx context.Context, profileID, exampleID primitive.ObjectID) ([]domain.Training, error) {
	return r.list(ctx, bson.M{
		"profileId":                   profileID,
		"exercises.exerciseExampleId": exampleID,
	})
}

func (r *mongoTrainingRepository) list(ctx context.Context, filter bson.M) ([]domain.Training, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var trainings []domain.Training
	if err = cursor.All(ctx, &trainings); err != nil {
		return nil, err
	}
	return trainings, nil
}

// ClearExampleReferences nulls the exerciseExampleId of every embedded
// exercise pointing at the deleted catalog example.
func (r *mongoTrainingRepository) ClearExampleReferences(ctx context.Context, exampleID primitive.ObjectID) error {
	filter := bson.M{"exercises.exerciseExampleId": exampleID}
	update := bson.M{
		"$unset": bson.M{"exercises.$[ex].exerciseExampleId": ""},
	}
	arrayFilters := options.ArrayFilters{
		Filters: []interface{}{bson.M{"ex.exerciseExampleId": exampleID}},
	}
	_, err := r.collection.UpdateMany(ctx, filter, update, options.Update().SetArrayFilters(arrayFilters))
	return err
}

// EnsureTrainingIndexes creates necessary indexes for the trainings collection.
func EnsureTrainingIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "profileId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "exercises.exerciseExampleId", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
