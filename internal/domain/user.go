package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Experience is the self-declared training experience of a profile.
type Experience string

const (
	ExperienceBeginner Experience = "BEGINNER"
	ExperienceMedium   Experience = "MEDIUM"
	ExperiencePro      Experience = "PRO"
)

// User represents an account in the system. A user owns zero or one Profile.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"` // Should be unique
	PasswordHash string             `bson:"passwordHash,omitempty" json:"-"`
	// GoogleSubject is set for accounts created via federated sign-in.
	GoogleSubject string    `bson:"googleSubject,omitempty" json:"-"`
	Role          Role      `bson:"role" json:"role"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Profile is the fitness-specific extension of a User. Statistics, weight
// history and recommendations all require a resolvable profile.
type Profile struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"` // One profile per user
	Name       string             `bson:"name" json:"name"`
	HeightCm   *int               `bson:"heightCm,omitempty" json:"heightCm,omitempty"`
	Experience Experience         `bson:"experience" json:"experience"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WeightHistory is one body-weight measurement of a profile.
// A profile must always retain at least one entry.
type WeightHistory struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProfileID primitive.ObjectID `bson:"profileId" json:"profileId"`
	WeightKg  float64            `bson:"weightKg" json:"weightKg"` // Constrained to [30,300]
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

const (
	MinBodyWeightKg = 30.0
	MaxBodyWeightKg = 300.0
)

// ExcludedMuscle marks a muscle the profile does not want recommended.
type ExcludedMuscle struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProfileID primitive.ObjectID `bson:"profileId" json:"profileId"`
	MuscleID  primitive.ObjectID `bson:"muscleId" json:"muscleId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// ExcludedEquipment marks equipment the profile does not want recommended.
type ExcludedEquipment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProfileID   primitive.ObjectID `bson:"profileId" json:"profileId"`
	EquipmentID primitive.ObjectID `bson:"equipmentId" json:"equipmentId"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
