package repository

import (
	"atlas/fitness-backend/internal/domain"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByGoogleSubject(ctx context.Context, subject string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ProfileRepository defines the interface for interacting with profiles.
// A user owns at most one profile; GetByUserID is the canonical resolution.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) (primitive.ObjectID, error)
	Update(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Profile, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error)
}

// MuscleGroupRepository manages the muscle-group catalog.
type MuscleGroupRepository interface {
	Create(ctx context.Context, group *domain.MuscleGroup) (primitive.ObjectID, error)
	Update(ctx context.Context, group *domain.MuscleGroup) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MuscleGroup, error)
	List(ctx context.Context) ([]domain.MuscleGroup, error)
}

// MuscleRepository manages the muscle catalog.
type MuscleRepository interface {
	Create(ctx context.Context, muscle *domain.Muscle) (primitive.ObjectID, error)
	Update(ctx context.Context, muscle *domain.Muscle) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Muscle, error)
	List(ctx context.Context) ([]domain.Muscle, error)
	ListByGroupID(ctx context.Context, groupID primitive.ObjectID) ([]domain.Muscle, error)
}

// EquipmentGroupRepository manages the equipment-group catalog.
type EquipmentGroupRepository interface {
	Create(ctx context.Context, group *domain.EquipmentGroup) (primitive.ObjectID, error)
	Update(ctx context.Context, group *domain.EquipmentGroup) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.EquipmentGroup, error)
	List(ctx context.Context) ([]domain.EquipmentGroup, error)
}

// EquipmentRepository manages the equipment catalog.
type EquipmentRepository interface {
	Create(ctx context.Context, equipment *domain.Equipment) (primitive.ObjectID, error)
	Update(ctx context.Context, equipment *domain.Equipment) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Equipment, error)
	List(ctx context.Context) ([]domain.Equipment, error)
}

// ExerciseExampleRepository manages the exercise-example catalog. Bundles and
// the load rule are embedded in the example document, so Replace swaps the
// whole definition and Delete cascades to them implicitly.
type ExerciseExampleRepository interface {
	Create(ctx context.Context, example *domain.ExerciseExample) (primitive.ObjectID, error)
	Replace(ctx context.Context, example *domain.ExerciseExample) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseExample, error)
	List(ctx context.Context) ([]domain.ExerciseExample, error)
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.ExerciseExample, error)
}

// TrainingRepository manages a profile's trainings. A training embeds its
// exercise/iteration tree, so Upsert replaces the whole tree atomically.
type TrainingRepository interface {
	Upsert(ctx context.Context, training *domain.Training) error
	Delete(ctx context.Context, id, profileID primitive.ObjectID) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Training, error)
	ListByProfileID(ctx context.Context, profileID primitive.ObjectID) ([]domain.Training, error)
	ListByProfileAndExample(ctx context.Context, profileID, exampleID primitive.ObjectID) ([]domain.Training, error)
	// ClearExampleReferences nulls the example reference on every exercise
	// row pointing at the deleted catalog example.
	ClearExampleReferences(ctx context.Context, exampleID primitive.ObjectID) error
}

// WeightHistoryRepository manages a profile's body-weight measurements.
type WeightHistoryRepository interface {
	Create(ctx context.Context, entry *domain.WeightHistory) (primitive.ObjectID, error)
	ListByProfileID(ctx context.Context, profileID primitive.ObjectID) ([]domain.WeightHistory, error)
	CountByProfileID(ctx context.Context, profileID primitive.ObjectID) (int64, error)
	Delete(ctx context.Context, id, profileID primitive.ObjectID) error
}

// ExclusionRepository manages a profile's excluded muscles and equipment.
// Replace semantics: the new set supersedes the stored one wholesale.
type ExclusionRepository interface {
	ReplaceMuscles(ctx context.Context, profileID primitive.ObjectID, muscleIDs []primitive.ObjectID) error
	ListMuscles(ctx context.Context, profileID primitive.ObjectID) ([]domain.ExcludedMuscle, error)
	ReplaceEquipment(ctx context.Context, profileID primitive.ObjectID, equipmentIDs []primitive.ObjectID) error
	ListEquipment(ctx context.Context, profileID primitive.ObjectID) ([]domain.ExcludedEquipment, error)
}
