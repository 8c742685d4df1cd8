package service_test

import (
	"context"
	"testing"

	"atlas/fitness-backend/internal/domain"
	"atlas/fitness-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type trainingFixture struct {
	service   service.TrainingService
	profiles  *fakeProfileRepo
	trainings *fakeTrainingRepo
	examples  *fakeExampleRepo
	weights   *fakeWeightRepo
	userID    primitive.ObjectID
	profileID primitive.ObjectID
}

func newTrainingFixture(t *testing.T) *trainingFixture {
	t.Helper()

	profiles := newFakeProfileRepo()
	trainings := newFakeTrainingRepo()
	examples := newFakeExampleRepo()
	weights := newFakeWeightRepo()

	userID := primitive.NewObjectID()
	profileID, err := profiles.Create(context.Background(), &domain.Profile{
		UserID:     userID,
		Name:       "Tester",
		Experience: domain.ExperienceMedium,
	})
	require.NoError(t, err)

	return &trainingFixture{
		service:   service.NewTrainingService(profiles, trainings, examples, weights),
		profiles:  profiles,
		trainings: trainings,
		examples:  examples,
		weights:   weights,
		userID:    userID,
		profileID: profileID,
	}
}

func (f *trainingFixture) recordBodyWeight(t *testing.T, weightKg float64) {
	t.Helper()
	_, err := f.weights.Create(context.Background(), &domain.WeightHistory{
		ProfileID: f.profileID,
		WeightKg:  weightKg,
	})
	require.NoError(t, err)
}

func TestSetOrUpdateTraining_AssignsIDsAndOrder(t *testing.T) {
	f := newTrainingFixture(t)
	f.recordBodyWeight(t, 80)

	saved, err := f.service.SetOrUpdateTraining(context.Background(), f.userID, &domain.Training{
		Exercises: []domain.Exercise{
			{Name: "Squat", Iterations: []domain.Iteration{{WeightKg: floatPtr(100), Repetitions: intPtr(5)}}},
			{Name: "Bench Press"},
		},
	})
	require.NoError(t, err)

	assert.NotEqual(t, primitive.NilObjectID, saved.ID)
	assert.Equal(t, f.profileID, saved.ProfileID)
	require.Len(t, saved.Exercises, 2)
	assert.Equal(t, 0, saved.Exercises[0].OrderIndex)
	assert.Equal(t, 1, saved.Exercises[1].OrderIndex)
	assert.NotEqual(t, primitive.NilObjectID, saved.Exercises[0].ID)
	assert.NotEqual(t, primitive.NilObjectID, saved.Exercises[0].Iterations[0].ID)
}

func TestSetOrUpdateTraining_Idempotent(t *testing.T) {
	f := newTrainingFixture(t)
	f.recordBodyWeight(t, 80)

	payload := &domain.Training{
		Exercises: []domain.Exercise{
			{Name: "Deadlift", Iterations: []domain.Iteration{{WeightKg: floatPtr(140), Repetitions: intPtr(3)}}},
		},
	}
	first, err := f.service.SetOrUpdateTraining(context.Background(), f.userID, payload)
	require.NoError(t, err)

	// Replaying the saved tree leaves it unchanged.
	second, err := f.service.SetOrUpdateTraining(context.Background(), f.userID, first)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	require.Len(t, second.Exercises, 1)
	assert.Equal(t, first.Exercises[0].ID, second.Exercises[0].ID)

	stored, err := f.trainings.ListByProfileID(context.Background(), f.profileID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestSetOrUpdateTraining_RoundsWeights(t *testing.T) {
	f := newTrainingFixture(t)
	f.recordBodyWeight(t, 80)

	saved, err := f.service.SetOrUpdateTraining(context.Background(), f.userID, &domain.Training{
		Exercises: []domain.Exercise{
			{Name: "Curl", Iterations: []domain.Iteration{{WeightKg: floatPtr(12.34), Repetitions: intPtr(10)}}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 12.3, *saved.Exercises[0].Iterations[0].WeightKg)
}

func TestSetOrUpdateTraining_RejectsNegativeValues(t *testing.T) {
	f := newTrainingFixture(t)
	f.recordBodyWeight(t, 80)

	_, err := f.service.SetOrUpdateTraining(context.Background(), f.userID, &domain.Training{
		Exercises: []domain.Exercise{
			{Name: "Curl", Iterations: []domain.Iteration{{WeightKg: floatPtr(-5)}}},
		},
	})
	assert.ErrorIs(t, err, service.ErrTrainingValidation)

	_, err = f.service.SetOrUpdateTraining(context.Background(), f.userID, &domain.Training{
		Exercises: []domain.Exercise{
			{Name: "Curl", Iterations: []domain.Iteration{{Repetitions: intPtr(-1)}}},
		},
	})
	assert.ErrorIs(t, err, service.ErrTrainingValidation)
}

func TestSetOrUpdateTraining_OtherProfilesTrainingDenied(t *testing.T) {
	f := newTrainingFixture(t)
	f.recordBodyWeight(t, 80)

	foreign := &domain.Training{
		ID:        primitive.NewObjectID(),
		ProfileID: primitive.NewObjectID(),
	}
	require.NoError(t, f.trainings.Upsert(context.Background(), foreign))

	_, err := f.service.SetOrUpdateTraining(context.Background(), f.userID, &domain.Training{ID: foreign.ID})
	assert.ErrorIs(t, err, service.ErrTrainingAccessDenied)
}

func TestSetOrUpdateTraining_MissingBodyWeightBlocks(t *testing.T) {
	f := newTrainingFixture(t)

	exampleID, err := f.examples.Create(context.Background(), &domain.ExerciseExample{
		Name: "Weighted Pull Up",
		Rule: domain.ExerciseExampleRule{
			LoadType:                  domain.LoadBodyWeightFull,
			MissingBodyWeightBehavior: domain.MissingWeightBlockSaving,
		},
	})
	require.NoError(t, err)

	_, err = f.service.SetOrUpdateTraining(context.Background(), f.userID, &domain.Training{
		Exercises: []domain.Exercise{
			{ExerciseExampleID: &exampleID, Name: "Weighted Pull Up"},
		},
	})
	assert.ErrorIs(t, err, service.ErrBodyWeightRequired)
}

func TestSetOrUpdateTraining_MissingBodyWeightStripsWeights(t *testing.T) {
	f := newTrainingFixture(t)

	exampleID, err := f.examples.Create(context.Background(), &domain.ExerciseExample{
		Name: "Push Up",
		Rule: domain.ExerciseExampleRule{
			LoadType:                  domain.LoadBodyWeightFull,
			MissingBodyWeightBehavior: domain.MissingWeightSaveAsRepsOnly,
		},
	})
	require.NoError(t, err)

	saved, err := f.service.SetOrUpdateTraining(context.Background(), f.userID, &domain.Training{
		Exercises: []domain.Exercise{
			{
				ExerciseExampleID: &exampleID,
				Name:              "Push Up",
				Iterations:        []domain.Iteration{{WeightKg: floatPtr(80), Repetitions: intPtr(20)}},
			},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, saved.Exercises[0].Iterations[0].WeightKg)
	assert.Equal(t, 20, *saved.Exercises[0].Iterations[0].Repetitions)
}

func TestSetOrUpdateTraining_MissingBodyWeightSavesZero(t *testing.T) {
	f := newTrainingFixture(t)

	exampleID, err := f.examples.Create(context.Background(), &domain.ExerciseExample{
		Name: "Dip",
		Rule: domain.ExerciseExampleRule{
			LoadType:                  domain.LoadBodyWeightMultiplier,
			BodyWeightMultiplier:      floatPtr(0.9),
			MissingBodyWeightBehavior: domain.MissingWeightSaveWithZero,
		},
	})
	require.NoError(t, err)

	saved, err := f.service.SetOrUpdateTraining(context.Background(), f.userID, &domain.Training{
		Exercises: []domain.Exercise{
			{
				ExerciseExampleID: &exampleID,
				Name:              "Dip",
				Iterations:        []domain.Iteration{{Repetitions: intPtr(10)}},
			},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, saved.Exercises[0].Iterations[0].WeightKg)
	assert.Equal(t, 0.0, *saved.Exercises[0].Iterations[0].WeightKg)
}

func TestSetOrUpdateTraining_RuleSkippedWithBodyWeight(t *testing.T) {
	f := newTrainingFixture(t)
	f.recordBodyWeight(t, 75)

	exampleID, err := f.examples.Create(context.Background(), &domain.ExerciseExample{
		Name: "Weighted Pull Up",
		Rule: domain.ExerciseExampleRule{
			LoadType:                  domain.LoadBodyWeightFull,
			MissingBodyWeightBehavior: domain.MissingWeightBlockSaving,
		},
	})
	require.NoError(t, err)

	_, err = f.service.SetOrUpdateTraining(context.Background(), f.userID, &domain.Training{
		Exercises: []domain.Exercise{
			{ExerciseExampleID: &exampleID, Name: "Weighted Pull Up"},
		},
	})
	assert.NoError(t, err)
}

func TestGetTraining_OwnershipEnforced(t *testing.T) {
	f := newTrainingFixture(t)

	foreign := &domain.Training{
		ID:        primitive.NewObjectID(),
		ProfileID: primitive.NewObjectID(),
	}
	require.NoError(t, f.trainings.Upsert(context.Background(), foreign))

	_, err := f.service.GetTraining(context.Background(), f.userID, foreign.ID)
	assert.ErrorIs(t, err, service.ErrTrainingAccessDenied)

	_, err = f.service.GetTraining(context.Background(), f.userID, primitive.NewObjectID())
	assert.ErrorIs(t, err, service.ErrTrainingNotFound)
}

func TestDeleteTraining_RemovesWholeTree(t *testing.T) {
	f := newTrainingFixture(t)
	f.recordBodyWeight(t, 80)

	saved, err := f.service.SetOrUpdateTraining(context.Background(), f.userID, &domain.Training{
		Exercises: []domain.Exercise{
			{Name: "Squat", Iterations: []domain.Iteration{{WeightKg: floatPtr(100), Repetitions: intPtr(5)}}},
		},
	})
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteTraining(context.Background(), f.userID, saved.ID))

	_, err = f.service.GetTraining(context.Background(), f.userID, saved.ID)
	assert.ErrorIs(t, err, service.ErrTrainingNotFound)

	err = f.service.DeleteTraining(context.Background(), f.userID, saved.ID)
	assert.ErrorIs(t, err, service.ErrTrainingNotFound)
}
