package service_test

import (
	"context"
	"testing"
	"time"

	"atlas/fitness-backend/internal/domain"
	"atlas/fitness-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

type statsFixture struct {
	service     service.StatsService
	profiles    *fakeProfileRepo
	trainings   *fakeTrainingRepo
	examples    *fakeExampleRepo
	muscles     *fakeMuscleRepo
	muscleGroup *fakeMuscleGroupRepo
	userID      primitive.ObjectID
	profileID   primitive.ObjectID
}

func newStatsFixture(t *testing.T) *statsFixture {
	t.Helper()

	profiles := newFakeProfileRepo()
	trainings := newFakeTrainingRepo()
	examples := newFakeExampleRepo()
	muscles := newFakeMuscleRepo()
	muscleGroups := newFakeMuscleGroupRepo()

	userID := primitive.NewObjectID()
	profileID, err := profiles.Create(context.Background(), &domain.Profile{
		UserID:     userID,
		Name:       "Tester",
		Experience: domain.ExperienceMedium,
	})
	require.NoError(t, err)

	return &statsFixture{
		service:     service.NewStatsService(profiles, trainings, examples, muscles, muscleGroups),
		profiles:    profiles,
		trainings:   trainings,
		examples:    examples,
		muscles:     muscles,
		muscleGroup: muscleGroups,
		userID:      userID,
		profileID:   profileID,
	}
}

func (f *statsFixture) addExample(t *testing.T, name string, bundles ...domain.ExerciseExampleBundle) primitive.ObjectID {
	t.Helper()
	id, err := f.examples.Create(context.Background(), &domain.ExerciseExample{
		Name:     name,
		Category: domain.CategoryCompound,
		Bundles:  bundles,
	})
	require.NoError(t, err)
	return id
}

func (f *statsFixture) addTraining(t *testing.T, createdAt time.Time, exercises ...domain.Exercise) primitive.ObjectID {
	t.Helper()
	training := &domain.Training{
		ID:        primitive.NewObjectID(),
		ProfileID: f.profileID,
		Exercises: exercises,
		CreatedAt: createdAt,
	}
	require.NoError(t, f.trainings.Upsert(context.Background(), training))
	return training.ID
}

func exerciseFor(exampleID primitive.ObjectID, createdAt time.Time, iterations ...domain.Iteration) domain.Exercise {
	return domain.Exercise{
		ID:                primitive.NewObjectID(),
		ExerciseExampleID: &exampleID,
		Name:              "exercise",
		Iterations:        iterations,
		CreatedAt:         createdAt,
	}
}

func TestStatsService_BestWeight_TieBreaksOnRecency(t *testing.T) {
	f := newStatsFixture(t)
	exampleID := f.addExample(t, "Bench Press")

	t1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	older := domain.Iteration{ID: primitive.NewObjectID(), WeightKg: floatPtr(100), Repetitions: intPtr(5), CreatedAt: t1}
	newer := domain.Iteration{ID: primitive.NewObjectID(), WeightKg: floatPtr(100), Repetitions: intPtr(3), CreatedAt: t2}

	f.addTraining(t, t1, exerciseFor(exampleID, t1, older))
	f.addTraining(t, t2, exerciseFor(exampleID, t2, newer))

	best, err := f.service.BestWeight(context.Background(), f.userID, exampleID)
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, newer.ID, best.IterationID)
	assert.Equal(t, 100.0, *best.WeightKg)
}

func TestStatsService_BestWeight_IgnoresWeightlessSets(t *testing.T) {
	f := newStatsFixture(t)
	exampleID := f.addExample(t, "Pull Up")

	now := time.Now().UTC()
	repsOnly := domain.Iteration{ID: primitive.NewObjectID(), Repetitions: intPtr(12), CreatedAt: now}
	weighted := domain.Iteration{ID: primitive.NewObjectID(), WeightKg: floatPtr(10), Repetitions: intPtr(8), CreatedAt: now.Add(-time.Hour)}

	f.addTraining(t, now, exerciseFor(exampleID, now, repsOnly, weighted))

	best, err := f.service.BestWeight(context.Background(), f.userID, exampleID)
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, weighted.ID, best.IterationID)
}

func TestStatsService_MaxRepetitions(t *testing.T) {
	f := newStatsFixture(t)
	exampleID := f.addExample(t, "Squat")

	now := time.Now().UTC()
	low := domain.Iteration{ID: primitive.NewObjectID(), WeightKg: floatPtr(120), Repetitions: intPtr(3), CreatedAt: now}
	high := domain.Iteration{ID: primitive.NewObjectID(), WeightKg: floatPtr(60), Repetitions: intPtr(15), CreatedAt: now}

	f.addTraining(t, now, exerciseFor(exampleID, now, low, high))

	best, err := f.service.MaxRepetitions(context.Background(), f.userID, exampleID)
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, high.ID, best.IterationID)
	assert.Equal(t, 15, *best.Repetitions)
}

func TestStatsService_LifetimeVolume_NilWithoutHistory(t *testing.T) {
	f := newStatsFixture(t)
	exampleID := f.addExample(t, "Deadlift")

	volume, err := f.service.LifetimeVolume(context.Background(), f.userID, exampleID)
	require.NoError(t, err)
	assert.Nil(t, volume)
}

func TestStatsService_LifetimeVolume_SumsAcrossSessions(t *testing.T) {
	f := newStatsFixture(t)
	exampleID := f.addExample(t, "Deadlift")

	t1 := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 2, 5, 9, 0, 0, 0, time.UTC)

	ex1 := exerciseFor(exampleID, t1)
	ex1.Volume = floatPtr(1200)
	ex2 := exerciseFor(exampleID, t2)
	ex2.Volume = floatPtr(800)

	f.addTraining(t, t1, ex1)
	f.addTraining(t, t2, ex2)

	volume, err := f.service.LifetimeVolume(context.Background(), f.userID, exampleID)
	require.NoError(t, err)
	require.NotNil(t, volume)
	assert.Equal(t, 2000.0, volume.TotalVolume)
	assert.Equal(t, 2, volume.SessionsCount)
	assert.Equal(t, t1, volume.FirstPerformedAt)
	assert.Equal(t, t2, volume.LastPerformedAt)
}

func TestStatsService_Achievements_UnknownExample(t *testing.T) {
	f := newStatsFixture(t)

	_, err := f.service.Achievements(context.Background(), f.userID, primitive.NewObjectID())
	assert.ErrorIs(t, err, service.ErrExerciseExampleNotFound)
}

func TestStatsService_Achievements_BundlesAllRecords(t *testing.T) {
	f := newStatsFixture(t)
	exampleID := f.addExample(t, "Overhead Press")

	now := time.Now().UTC()
	set := domain.Iteration{ID: primitive.NewObjectID(), WeightKg: floatPtr(60), Repetitions: intPtr(5), CreatedAt: now}
	ex := exerciseFor(exampleID, now, set)
	ex.Volume = floatPtr(300)
	ex.Intensity = floatPtr(60)
	ex.Repetitions = intPtr(5)

	f.addTraining(t, now, ex)

	achievements, err := f.service.Achievements(context.Background(), f.userID, exampleID)
	require.NoError(t, err)
	require.NotNil(t, achievements.BestWeight)
	require.NotNil(t, achievements.BestTonnage)
	require.NotNil(t, achievements.MaxRepetitions)
	require.NotNil(t, achievements.PeakIntensity)
	require.NotNil(t, achievements.LifetimeVolume)
	assert.Equal(t, 60.0, *achievements.BestWeight.WeightKg)
	assert.Equal(t, 300.0, *achievements.BestTonnage.Volume)
	assert.Equal(t, 1, achievements.LifetimeVolume.SessionsCount)
}

func TestStatsService_RecentExercises_OrdersAndLimits(t *testing.T) {
	f := newStatsFixture(t)
	exampleID := f.addExample(t, "Row")

	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		at := base.Add(time.Duration(i) * 24 * time.Hour)
		f.addTraining(t, at, exerciseFor(exampleID, at))
	}

	recent, err := f.service.RecentExercises(context.Background(), f.userID, exampleID, 0)
	require.NoError(t, err)
	// Default limit is 5, newest first.
	require.Len(t, recent, 5)
	for i := 1; i < len(recent); i++ {
		assert.True(t, recent[i-1].Exercise.CreatedAt.After(recent[i].Exercise.CreatedAt))
	}
}

func TestStatsService_PersonalRecords_OneRowPerExample(t *testing.T) {
	f := newStatsFixture(t)
	benchID := f.addExample(t, "Bench Press")
	squatID := f.addExample(t, "Squat")

	t1 := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC)

	benchLight := exerciseFor(benchID, t1, domain.Iteration{ID: primitive.NewObjectID(), WeightKg: floatPtr(80), Repetitions: intPtr(8), CreatedAt: t1})
	benchLight.Volume = floatPtr(640)
	benchHeavy := exerciseFor(benchID, t2, domain.Iteration{ID: primitive.NewObjectID(), WeightKg: floatPtr(100), Repetitions: intPtr(3), CreatedAt: t2})
	benchHeavy.Volume = floatPtr(300)
	squat := exerciseFor(squatID, t2, domain.Iteration{ID: primitive.NewObjectID(), WeightKg: floatPtr(140), Repetitions: intPtr(5), CreatedAt: t2})
	squat.Volume = floatPtr(700)

	f.addTraining(t, t1, benchLight)
	f.addTraining(t, t2, benchHeavy, squat)

	records, err := f.service.PersonalRecords(context.Background(), f.userID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	byName := map[string]int{}
	for i, record := range records {
		byName[record.Name] = i
	}
	bench := records[byName["Bench Press"]]
	assert.Equal(t, 100.0, *bench.MaxWeightKg)
	assert.Equal(t, 8, *bench.MaxRepetitions)
	assert.Equal(t, 640.0, *bench.MaxVolume)

	squatRecord := records[byName["Squat"]]
	assert.Equal(t, 140.0, *squatRecord.MaxWeightKg)
}

func TestStatsService_WorkoutSummary_EmptyHistory(t *testing.T) {
	f := newStatsFixture(t)

	summary, err := f.service.WorkoutSummary(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalWorkouts)
	assert.Equal(t, 0.0, summary.TotalVolume)
	assert.Equal(t, 0.0, summary.AverageIntensity)
	assert.Nil(t, summary.FirstWorkoutDate)
	assert.Nil(t, summary.LastWorkoutDate)
}

func TestStatsService_WorkoutSummary_Aggregates(t *testing.T) {
	f := newStatsFixture(t)
	exampleID := f.addExample(t, "Lunge")

	t1 := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 6, 8, 9, 0, 0, 0, time.UTC)

	first := &domain.Training{
		ID:        primitive.NewObjectID(),
		ProfileID: f.profileID,
		Duration:  intPtr(60),
		Volume:    floatPtr(1000),
		Intensity: floatPtr(50),
		Exercises: []domain.Exercise{exerciseFor(exampleID, t1)},
		CreatedAt: t1,
	}
	second := &domain.Training{
		ID:        primitive.NewObjectID(),
		ProfileID: f.profileID,
		Duration:  intPtr(40),
		Volume:    floatPtr(500),
		Intensity: floatPtr(70),
		Exercises: []domain.Exercise{exerciseFor(exampleID, t2), exerciseFor(exampleID, t2)},
		CreatedAt: t2,
	}
	require.NoError(t, f.trainings.Upsert(context.Background(), first))
	require.NoError(t, f.trainings.Upsert(context.Background(), second))

	summary, err := f.service.WorkoutSummary(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalWorkouts)
	assert.Equal(t, 1500.0, summary.TotalVolume)
	assert.Equal(t, 100, summary.TotalDuration)
	assert.Equal(t, 60.0, summary.AverageIntensity)
	assert.Equal(t, 3, summary.TotalExercises)
	assert.Equal(t, t1, *summary.FirstWorkoutDate)
	assert.Equal(t, t2, *summary.LastWorkoutDate)
}

func TestStatsService_FrequentByMuscle_FiltersAndOrders(t *testing.T) {
	f := newStatsFixture(t)

	groupID, err := f.muscleGroup.Create(context.Background(), &domain.MuscleGroup{Name: "Chest"})
	require.NoError(t, err)
	chestID, err := f.muscles.Create(context.Background(), &domain.Muscle{MuscleGroupID: groupID, Name: "Pectoralis"})
	require.NoError(t, err)
	otherGroupID, err := f.muscleGroup.Create(context.Background(), &domain.MuscleGroup{Name: "Legs"})
	require.NoError(t, err)
	quadID, err := f.muscles.Create(context.Background(), &domain.Muscle{MuscleGroupID: otherGroupID, Name: "Quadriceps"})
	require.NoError(t, err)

	benchID := f.addExample(t, "Bench Press", domain.ExerciseExampleBundle{MuscleID: chestID, Percentage: 80})
	squatID := f.addExample(t, "Squat", domain.ExerciseExampleBundle{MuscleID: quadID, Percentage: 90})

	base := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	f.addTraining(t, base, exerciseFor(benchID, base))
	f.addTraining(t, base.Add(24*time.Hour), exerciseFor(benchID, base.Add(24*time.Hour)))
	f.addTraining(t, base.Add(48*time.Hour), exerciseFor(squatID, base.Add(48*time.Hour)))

	frequents, err := f.service.FrequentExercisesByMuscle(context.Background(), f.userID, 0, service.MuscleFilter{MuscleID: &chestID})
	require.NoError(t, err)
	require.Len(t, frequents, 1)
	assert.Equal(t, "Bench Press", frequents[0].Name)
	assert.Equal(t, 2, frequents[0].UsageCount)
}

func TestStatsService_FrequentByMuscle_UnknownMuscle(t *testing.T) {
	f := newStatsFixture(t)

	unknown := primitive.NewObjectID()
	_, err := f.service.FrequentExercisesByMuscle(context.Background(), f.userID, 0, service.MuscleFilter{MuscleID: &unknown})
	assert.ErrorIs(t, err, service.ErrMuscleNotFound)
}

func TestStatsService_RecentByMuscle_GroupFilter(t *testing.T) {
	f := newStatsFixture(t)

	groupID, err := f.muscleGroup.Create(context.Background(), &domain.MuscleGroup{Name: "Back"})
	require.NoError(t, err)
	latID, err := f.muscles.Create(context.Background(), &domain.Muscle{MuscleGroupID: groupID, Name: "Latissimus"})
	require.NoError(t, err)

	rowID := f.addExample(t, "Row", domain.ExerciseExampleBundle{MuscleID: latID, Percentage: 70})

	base := time.Date(2026, 7, 10, 9, 0, 0, 0, time.UTC)
	f.addTraining(t, base, exerciseFor(rowID, base))

	usages, err := f.service.RecentExercisesByMuscle(context.Background(), f.userID, 0, service.MuscleFilter{MuscleGroupID: &groupID})
	require.NoError(t, err)
	require.Len(t, usages, 1)
	assert.Equal(t, rowID, usages[0].ExerciseExampleID)
	assert.Equal(t, base, usages[0].LastUsedAt)
}

func TestStatsService_ProfileRequired(t *testing.T) {
	f := newStatsFixture(t)
	exampleID := f.addExample(t, "Curl")

	_, err := f.service.BestWeight(context.Background(), primitive.NewObjectID(), exampleID)
	assert.ErrorIs(t, err, service.ErrProfileNotFound)
}
