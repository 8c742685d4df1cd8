package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Iteration is one set (weight/repetition pair) within an exercise
// performance. Both fields are nullable: a body-weight set may carry only
// repetitions, an isometric hold only weight.
type Iteration struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	// WeightKg is the lifted weight, one decimal place.
	WeightKg    *float64  `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	Repetitions *int      `bson:"repetitions,omitempty" json:"repetitions,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

// Exercise is one performance of an exercise example within a training.
// The example reference is nullable: it is cleared when the catalog example
// is deleted.
type Exercise struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ExerciseExampleID *primitive.ObjectID `bson:"exerciseExampleId,omitempty" json:"exerciseExampleId,omitempty"`
	Name              string              `bson:"name" json:"name"`
	OrderIndex        int                 `bson:"orderIndex" json:"orderIndex"`
	Volume            *float64            `bson:"volume,omitempty" json:"volume,omitempty"`
	Repetitions       *int                `bson:"repetitions,omitempty" json:"repetitions,omitempty"`
	Intensity         *float64            `bson:"intensity,omitempty" json:"intensity,omitempty"`
	Iterations        []Iteration         `bson:"iterations,omitempty" json:"iterations,omitempty"`
	CreatedAt         time.Time           `bson:"createdAt" json:"createdAt"`
}

// Training is one workout session of a profile. The aggregate fields are
// denormalized and supplied by the client at save time, not recomputed
// server-side. Exercises and their iterations are embedded so the whole tree
// is replaced atomically on update.
type Training struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProfileID primitive.ObjectID `bson:"profileId" json:"profileId"`
	// Duration of the session in minutes.
	Duration    *int       `bson:"duration,omitempty" json:"duration,omitempty"`
	Volume      *float64   `bson:"volume,omitempty" json:"volume,omitempty"`
	Repetitions *int       `bson:"repetitions,omitempty" json:"repetitions,omitempty"`
	Intensity   *float64   `bson:"intensity,omitempty" json:"intensity,omitempty"`
	Exercises   []Exercise `bson:"exercises,omitempty" json:"exercises,omitempty"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// ExercisesForExample returns the performances of the given catalog example
// within this training, in order.
func (t *Training) ExercisesForExample(exampleID primitive.ObjectID) []Exercise {
	var out []Exercise
	for _, ex := range t.Exercises {
		if ex.ExerciseExampleID != nil && *ex.ExerciseExampleID == exampleID {
			out = append(out, ex)
		}
	}
	return out
}
