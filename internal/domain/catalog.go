package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseCategory distinguishes multi-joint from single-joint movements.
type ExerciseCategory string

const (
	CategoryCompound  ExerciseCategory = "Compound"
	CategoryIsolation ExerciseCategory = "Isolation"
)

// WeightType describes the kind of resistance an example uses.
type WeightType string

const (
	WeightTypeFree     WeightType = "free"
	WeightTypeFixed    WeightType = "fixed"
	WeightTypeBodyOnly WeightType = "body_weight"
)

// ForceType describes the movement pattern of an example.
type ForceType string

const (
	ForceTypePush   ForceType = "push"
	ForceTypePull   ForceType = "pull"
	ForceTypeHinge  ForceType = "hinge"
	ForceTypeStatic ForceType = "static"
)

// MuscleGroup is a catalog grouping of muscles, e.g. "Back" or "Legs".
type MuscleGroup struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Muscle is a catalog muscle. It belongs to exactly one MuscleGroup.
type Muscle struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MuscleGroupID primitive.ObjectID `bson:"muscleGroupId" json:"muscleGroupId"`
	Name          string             `bson:"name" json:"name"`
	// RecoveryTimeHours is optional; when set it must be >= 0.
	RecoveryTimeHours *int      `bson:"recoveryTimeHours,omitempty" json:"recoveryTimeHours,omitempty"`
	CreatedAt         time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time `bson:"updatedAt" json:"updatedAt"`
}

// EquipmentGroup is a catalog grouping of equipment, muscle-independent.
type EquipmentGroup struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Equipment is a catalog equipment entry, e.g. "barbell".
type Equipment struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EquipmentGroupID primitive.ObjectID `bson:"equipmentGroupId" json:"equipmentGroupId"`
	Name             string             `bson:"name" json:"name"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ExerciseExampleBundle ties one muscle to one example with its share of the
// load. Percentages need not sum to 100 across an example's bundles.
type ExerciseExampleBundle struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MuscleID   primitive.ObjectID `bson:"muscleId" json:"muscleId"`
	Percentage int                `bson:"percentage" json:"percentage"`
}

// ExerciseExample is a catalog movement definition, e.g. "bench press",
// independent of any specific workout. Bundles, equipment references and the
// load rule are embedded; deleting the example removes them with it.
type ExerciseExample struct {
	ID           primitive.ObjectID      `bson:"_id,omitempty" json:"id"`
	Name         string                  `bson:"name" json:"name"`
	Description  string                  `bson:"description,omitempty" json:"description,omitempty"`
	Category     ExerciseCategory        `bson:"category" json:"category"`
	WeightType   WeightType              `bson:"weightType" json:"weightType"`
	ForceType    ForceType               `bson:"forceType" json:"forceType"`
	Experience   Experience              `bson:"experience" json:"experience"`
	Bundles      []ExerciseExampleBundle `bson:"bundles,omitempty" json:"bundles,omitempty"`
	EquipmentIDs []primitive.ObjectID    `bson:"equipmentIds,omitempty" json:"equipmentIds,omitempty"`
	Rule         ExerciseExampleRule     `bson:"rule" json:"rule"`
	// MediaKey is the object-storage key of the demo video, if one was uploaded.
	MediaKey  string    `bson:"mediaKey,omitempty" json:"mediaKey,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PrimaryMuscleID returns the muscle carrying the biggest share of the load,
// or the nil ObjectID when the example has no bundles.
func (e *ExerciseExample) PrimaryMuscleID() primitive.ObjectID {
	best := primitive.NilObjectID
	bestPct := -1
	for _, b := range e.Bundles {
		if b.Percentage > bestPct {
			best = b.MuscleID
			bestPct = b.Percentage
		}
	}
	return best
}

// TargetsMuscle reports whether any bundle references the given muscle.
func (e *ExerciseExample) TargetsMuscle(muscleID primitive.ObjectID) bool {
	for _, b := range e.Bundles {
		if b.MuscleID == muscleID {
			return true
		}
	}
	return false
}

// IsPrimaryMover reports whether the given muscle carries more than half of
// the example's load.
func (e *ExerciseExample) IsPrimaryMover(muscleID primitive.ObjectID) bool {
	for _, b := range e.Bundles {
		if b.MuscleID == muscleID && b.Percentage > 50 {
			return true
		}
	}
	return false
}

// UsesEquipment reports whether the example references the given equipment.
func (e *ExerciseExample) UsesEquipment(equipmentID primitive.ObjectID) bool {
	for _, id := range e.EquipmentIDs {
		if id == equipmentID {
			return true
		}
	}
	return false
}
