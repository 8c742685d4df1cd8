package service

import (
	"atlas/fitness-backend/internal/domain"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// List limits are clamped to [1,100]; absent or nonsensical values fall back
// to the default.
const (
	defaultListLimit = 10
	maxListLimit     = 100

	defaultRecentExercises = 5
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// LifetimeVolume aggregates every performance of one example by one profile.
// A nil LifetimeVolume means the example was never performed; zero-volume
// sessions still produce a non-nil result.
type LifetimeVolume struct {
	TotalVolume      float64   `json:"totalVolume"`
	SessionsCount    int       `json:"sessionsCount"`
	FirstPerformedAt time.Time `json:"firstPerformedAt"`
	LastPerformedAt  time.Time `json:"lastPerformedAt"`
}

// Achievements bundles the per-example records. The five fields are computed
// independently; each is nil when no qualifying record exists.
type Achievements struct {
	BestWeight     *BestIteration  `json:"bestWeight,omitempty"`
	BestTonnage    *BestExercise   `json:"bestTonnage,omitempty"`
	MaxRepetitions *BestIteration  `json:"maxRepetitions,omitempty"`
	PeakIntensity  *BestExercise   `json:"peakIntensity,omitempty"`
	LifetimeVolume *LifetimeVolume `json:"lifetimeVolume,omitempty"`
}

// BestIteration is a record-holding set together with where it happened.
type BestIteration struct {
	IterationID primitive.ObjectID `json:"iterationId"`
	ExerciseID  primitive.ObjectID `json:"exerciseId"`
	TrainingID  primitive.ObjectID `json:"trainingId"`
	WeightKg    *float64           `json:"weightKg,omitempty"`
	Repetitions *int               `json:"repetitions,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// BestExercise is a record-holding exercise performance.
type BestExercise struct {
	ExerciseID  primitive.ObjectID `json:"exerciseId"`
	TrainingID  primitive.ObjectID `json:"trainingId"`
	Volume      *float64           `json:"volume,omitempty"`
	Repetitions *int               `json:"repetitions,omitempty"`
	Intensity   *float64           `json:"intensity,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// PersonalRecord is one row per distinct example the profile has ever logged.
// Each metric is resolved independently; a metric with no qualifying rows is
// left unset, never zero.
type PersonalRecord struct {
	ExerciseExampleID primitive.ObjectID `json:"exerciseExampleId"`
	Name              string             `json:"name"`
	MaxWeightKg       *float64           `json:"maxWeightKg,omitempty"`
	MaxWeightAt       *time.Time         `json:"maxWeightAt,omitempty"`
	MaxRepetitions    *int               `json:"maxRepetitions,omitempty"`
	MaxRepetitionsAt  *time.Time         `json:"maxRepetitionsAt,omitempty"`
	MaxVolume         *float64           `json:"maxVolume,omitempty"`
	MaxVolumeAt       *time.Time         `json:"maxVolumeAt,omitempty"`
}

// WorkoutSummary aggregates the profile's whole training history. All fields
// default to zero/nil when the profile has no trainings.
type WorkoutSummary struct {
	TotalWorkouts    int        `json:"totalWorkouts"`
	TotalVolume      float64    `json:"totalVolume"`
	TotalDuration    int        `json:"totalDuration"`
	AverageIntensity float64    `json:"averageIntensity"`
	TotalExercises   int        `json:"totalExercises"`
	FirstWorkoutDate *time.Time `json:"firstWorkoutDate,omitempty"`
	LastWorkoutDate  *time.Time `json:"lastWorkoutDate,omitempty"`
}

// RecentExercise is one exercise performance with its training context; the
// embedded iterations are ordered newest first.
type RecentExercise struct {
	TrainingID primitive.ObjectID `json:"trainingId"`
	Exercise   domain.Exercise    `json:"exercise"`
}

// ExampleUsage is the most recent performance of one distinct example.
type ExampleUsage struct {
	ExerciseExampleID primitive.ObjectID `json:"exerciseExampleId"`
	Name              string             `json:"name"`
	TrainingID        primitive.ObjectID `json:"trainingId"`
	LastUsedAt        time.Time          `json:"lastUsedAt"`
}

// FrequentExercise is one distinct example with its usage aggregates.
type FrequentExercise struct {
	ExerciseExampleID primitive.ObjectID `json:"exerciseExampleId"`
	Name              string             `json:"name"`
	UsageCount        int                `json:"usageCount"`
	AverageVolume     float64            `json:"averageVolume"`
	LastUsedAt        time.Time          `json:"lastUsedAt"`
}

// MuscleFilter optionally restricts per-muscle listings to examples touching
// one muscle or one muscle group.
type MuscleFilter struct {
	MuscleID      *primitive.ObjectID
	MuscleGroupID *primitive.ObjectID
}
