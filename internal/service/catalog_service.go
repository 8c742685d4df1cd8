package service

import (
	"atlas/fitness-backend/internal/domain"
	"atlas/fitness-backend/internal/repository"
	"atlas/fitness-backend/internal/storage"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrMuscleNotFound          = errors.New("muscle not found")
	ErrMuscleGroupNotFound     = errors.New("muscle group not found")
	ErrEquipmentNotFound       = errors.New("equipment not found")
	ErrEquipmentGroupNotFound  = errors.New("equipment group not found")
	ErrExerciseExampleNotFound = errors.New("exercise example not found")
	ErrCatalogValidation       = errors.New("catalog validation failed")
	// ErrDataIntegrity signals a referential-integrity bug: a catalog row is
	// missing its expected relation at read time. The request fails loudly
	// instead of emitting a partially populated response.
	ErrDataIntegrity = errors.New("catalog data integrity anomaly")
)

// MuscleWithGroup is a muscle joined with its owning group.
type MuscleWithGroup struct {
	Muscle domain.Muscle      `json:"muscle"`
	Group  domain.MuscleGroup `json:"group"`
}

// EquipmentWithGroup is an equipment entry joined with its owning group.
type EquipmentWithGroup struct {
	Equipment domain.Equipment      `json:"equipment"`
	Group     domain.EquipmentGroup `json:"group"`
}

// ExampleMediaURLs carries presigned URLs for an example's demo video.
type ExampleMediaURLs struct {
	UploadURL   string `json:"uploadUrl,omitempty"`
	DownloadURL string `json:"downloadUrl,omitempty"`
	ObjectKey   string `json:"objectKey,omitempty"`
}

type CatalogService interface {
	// Muscle catalog
	CreateMuscleGroup(ctx context.Context, name string) (*domain.MuscleGroup, error)
	UpdateMuscleGroup(ctx context.Context, id primitive.ObjectID, name string) (*domain.MuscleGroup, error)
	DeleteMuscleGroup(ctx context.Context, id primitive.ObjectID) error
	ListMuscleGroups(ctx context.Context) ([]domain.MuscleGroup, error)
	CreateMuscle(ctx context.Context, groupID primitive.ObjectID, name string, recoveryTimeHours *int) (*domain.Muscle, error)
	UpdateMuscle(ctx context.Context, id, groupID primitive.ObjectID, name string, recoveryTimeHours *int) (*domain.Muscle, error)
	DeleteMuscle(ctx context.Context, id primitive.ObjectID) error
	ListMuscles(ctx context.Context) ([]MuscleWithGroup, error)

	// Equipment catalog
	CreateEquipmentGroup(ctx context.Context, name string) (*domain.EquipmentGroup, error)
	UpdateEquipmentGroup(ctx context.Context, id primitive.ObjectID, name string) (*domain.EquipmentGroup, error)
	DeleteEquipmentGroup(ctx context.Context, id primitive.ObjectID) error
	ListEquipmentGroups(ctx context.Context) ([]domain.EquipmentGroup, error)
	CreateEquipment(ctx context.Context, groupID primitive.ObjectID, name string) (*domain.Equipment, error)
	UpdateEquipment(ctx context.Context, id, groupID primitive.ObjectID, name string) (*domain.Equipment, error)
	DeleteEquipment(ctx context.Context, id primitive.ObjectID) error
	ListEquipment(ctx context.Context) ([]EquipmentWithGroup, error)

	// Exercise examples
	CreateExerciseExample(ctx context.Context, example *domain.ExerciseExample) (*domain.ExerciseExample, error)
	ReplaceExerciseExample(ctx context.Context, example *domain.ExerciseExample) (*domain.ExerciseExample, error)
	DeleteExerciseExample(ctx context.Context, id primitive.ObjectID) error
	GetExerciseExample(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseExample, error)
	ListExerciseExamples(ctx context.Context) ([]domain.ExerciseExample, error)

	// Demo media
	RequestExampleMediaUpload(ctx context.Context, id primitive.ObjectID, contentType string) (*ExampleMediaURLs, error)
	GetExampleMediaDownload(ctx context.Context, id primitive.ObjectID) (*ExampleMediaURLs, error)
}

// catalogService implements the CatalogService interface.
type catalogService struct {
	muscleGroupRepo repository.MuscleGroupRepository
	muscleRepo      repository.MuscleRepository
	equipGroupRepo  repository.EquipmentGroupRepository
	equipmentRepo   repository.EquipmentRepository
	exampleRepo     repository.ExerciseExampleRepository
	trainingRepo    repository.TrainingRepository
	fileStorage     storage.FileStorage
}

// NewCatalogService creates a new instance of catalogService.
func NewCatalogService(
	muscleGroupRepo repository.MuscleGroupRepository,
	muscleRepo repository.MuscleRepository,
	equipGroupRepo repository.EquipmentGroupRepository,
	equipmentRepo repository.EquipmentRepository,
	exampleRepo repository.ExerciseExampleRepository,
	trainingRepo repository.TrainingRepository,
	fileStorage storage.FileStorage,
) CatalogService {
	return &catalogService{
		muscleGroupRepo: muscleGroupRepo,
		muscleRepo:      muscleRepo,
		equipGroupRepo:  equipGroupRepo,
		equipmentRepo:   equipmentRepo,
		exampleRepo:     exampleRepo,
		trainingRepo:    trainingRepo,
		fileStorage:     fileStorage,
	}
}

// --- Muscle catalog ---

func (s *catalogService) CreateMuscleGroup(ctx context.Context, name string) (*domain.MuscleGroup, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: muscle group name is required", ErrCatalogValidation)
	}
	group := &domain.MuscleGroup{Name: name}
	id, err := s.muscleGroupRepo.Create(ctx, group)
	if err != nil {
		return nil, err
	}
	group.ID = id
	return group, nil
}

func (s *catalogService) UpdateMuscleGroup(ctx context.Context, id primitive.ObjectID, name string) (*domain.MuscleGroup, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: muscle group name is required", ErrCatalogValidation)
	}
	group, err := s.muscleGroupRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMuscleGroupNotFound
		}
		return nil, err
	}
	group.Name = name
	if err := s.muscleGroupRepo.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteMuscleGroup removes a group after its muscles, children first.
func (s *catalogService) DeleteMuscleGroup(ctx context.Context, id primitive.ObjectID) error {
	muscles, err := s.muscleRepo.ListByGroupID(ctx, id)
	if err != nil {
		return err
	}
	for _, muscle := range muscles {
		if err := s.muscleRepo.Delete(ctx, muscle.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}
	if err := s.muscleGroupRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMuscleGroupNotFound
		}
		return err
	}
	return nil
}

func (s *catalogService) ListMuscleGroups(ctx context.Context) ([]domain.MuscleGroup, error) {
	return s.muscleGroupRepo.List(ctx)
}

func (s *catalogService) CreateMuscle(ctx context.Context, groupID primitive.ObjectID, name string, recoveryTimeHours *int) (*domain.Muscle, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: muscle name is required", ErrCatalogValidation)
	}
	if recoveryTimeHours != nil && *recoveryTimeHours < 0 {
		return nil, fmt.Errorf("%w: recovery time cannot be negative", ErrCatalogValidation)
	}
	if _, err := s.muscleGroupRepo.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMuscleGroupNotFound
		}
		return nil, err
	}

	muscle := &domain.Muscle{
		MuscleGroupID:     groupID,
		Name:              name,
		RecoveryTimeHours: recoveryTimeHours,
	}
	id, err := s.muscleRepo.Create(ctx, muscle)
	if err != nil {
		return nil, err
	}
	muscle.ID = id
	return muscle, nil
}

func (s *catalogService) UpdateMuscle(ctx context.Context, id, groupID primitive.ObjectID, name string, recoveryTimeHours *int) (*domain.Muscle, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: muscle name is required", ErrCatalogValidation)
	}
	if recoveryTimeHours != nil && *recoveryTimeHours < 0 {
		return nil, fmt.Errorf("%w: recovery time cannot be negative", ErrCatalogValidation)
	}
	muscle, err := s.muscleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMuscleNotFound
		}
		return nil, err
	}
	if _, err := s.muscleGroupRepo.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMuscleGroupNotFound
		}
		return nil, err
	}

	muscle.Name = name
	muscle.MuscleGroupID = groupID
	muscle.RecoveryTimeHours = recoveryTimeHours
	if err := s.muscleRepo.Update(ctx, muscle); err != nil {
		return nil, err
	}
	return muscle, nil
}

func (s *catalogService) DeleteMuscle(ctx context.Context, id primitive.ObjectID) error {
	if err := s.muscleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMuscleNotFound
		}
		return err
	}
	return nil
}

// ListMuscles joins each muscle with its group. A muscle whose group is gone
// is a referential-integrity bug; the whole request fails.
func (s *catalogService) ListMuscles(ctx context.Context) ([]MuscleWithGroup, error) {
	muscles, err := s.muscleRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	groups, err := s.muscleGroupRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	groupsByID := make(map[primitive.ObjectID]domain.MuscleGroup, len(groups))
	for _, group := range groups {
		groupsByID[group.ID] = group
	}

	out := make([]MuscleWithGroup, 0, len(muscles))
	for _, muscle := range muscles {
		group, ok := groupsByID[muscle.MuscleGroupID]
		if !ok {
			return nil, fmt.Errorf("%w: muscle %s references missing group %s",
				ErrDataIntegrity, muscle.ID.Hex(), muscle.MuscleGroupID.Hex())
		}
		out = append(out, MuscleWithGroup{Muscle: muscle, Group: group})
	}
	return out, nil
}

// --- Equipment catalog ---

func (s *catalogService) CreateEquipmentGroup(ctx context.Context, name string) (*domain.EquipmentGroup, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: equipment group name is required", ErrCatalogValidation)
	}
	group := &domain.EquipmentGroup{Name: name}
	id, err := s.equipGroupRepo.Create(ctx, group)
	if err != nil {
		return nil, err
	}
	group.ID = id
	return group, nil
}

func (s *catalogService) UpdateEquipmentGroup(ctx context.Context, id primitive.ObjectID, name string) (*domain.EquipmentGroup, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: equipment group name is required", ErrCatalogValidation)
	}
	group, err := s.equipGroupRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEquipmentGroupNotFound
		}
		return nil, err
	}
	group.Name = name
	if err := s.equipGroupRepo.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *catalogService) DeleteEquipmentGroup(ctx context.Context, id primitive.ObjectID) error {
	equipment, err := s.equipmentRepo.List(ctx)
	if err != nil {
		return err
	}
	for _, item := range equipment {
		if item.EquipmentGroupID != id {
			continue
		}
		if err := s.equipmentRepo.Delete(ctx, item.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}
	if err := s.equipGroupRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEquipmentGroupNotFound
		}
		return err
	}
	return nil
}

func (s *catalogService) ListEquipmentGroups(ctx context.Context) ([]domain.EquipmentGroup, error) {
	return s.equipGroupRepo.List(ctx)
}

func (s *catalogService) CreateEquipment(ctx context.Context, groupID primitive.ObjectID, name string) (*domain.Equipment, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: equipment name is required", ErrCatalogValidation)
	}
	if _, err := s.equipGroupRepo.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEquipmentGroupNotFound
		}
		return nil, err
	}

	equipment := &domain.Equipment{EquipmentGroupID: groupID, Name: name}
	id, err := s.equipmentRepo.Create(ctx, equipment)
	if err != nil {
		return nil, err
	}
	equipment.ID = id
	return equipment, nil
}

func (s *catalogService) UpdateEquipment(ctx context.Context, id, groupID primitive.ObjectID, name string) (*domain.Equipment, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: equipment name is required", ErrCatalogValidation)
	}
	equipment, err := s.equipmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEquipmentNotFound
		}
		return nil, err
	}
	if _, err := s.equipGroupRepo.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEquipmentGroupNotFound
		}
		return nil, err
	}

	equipment.Name = name
	equipment.EquipmentGroupID = groupID
	if err := s.equipmentRepo.Update(ctx, equipment); err != nil {
		return nil, err
	}
	return equipment, nil
}

func (s *catalogService) DeleteEquipment(ctx context.Context, id primitive.ObjectID) error {
	if err := s.equipmentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEquipmentNotFound
		}
		return err
	}
	return nil
}

func (s *catalogService) ListEquipment(ctx context.Context) ([]EquipmentWithGroup, error) {
	equipment, err := s.equipmentRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	groups, err := s.equipGroupRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	groupsByID := make(map[primitive.ObjectID]domain.EquipmentGroup, len(groups))
	for _, group := range groups {
		groupsByID[group.ID] = group
	}

	out := make([]EquipmentWithGroup, 0, len(equipment))
	for _, item := range equipment {
		group, ok := groupsByID[item.EquipmentGroupID]
		if !ok {
			return nil, fmt.Errorf("%w: equipment %s references missing group %s",
				ErrDataIntegrity, item.ID.Hex(), item.EquipmentGroupID.Hex())
		}
		out = append(out, EquipmentWithGroup{Equipment: item, Group: group})
	}
	return out, nil
}

// --- Exercise examples ---

// validateExample checks the example's rule and referenced catalog entries
// before anything is persisted.
func (s *catalogService) validateExample(ctx context.Context, example *domain.ExerciseExample) error {
	if example.Name == "" {
		return fmt.Errorf("%w: exercise example name is required", ErrCatalogValidation)
	}
	if example.Category != domain.CategoryCompound && example.Category != domain.CategoryIsolation {
		return fmt.Errorf("%w: unknown exercise category %q", ErrCatalogValidation, example.Category)
	}

	example.Rule = domain.NormalizeRule(example.Rule)
	if err := domain.ValidateRule(example.Rule); err != nil {
		return fmt.Errorf("%w: %v", ErrCatalogValidation, err)
	}

	for _, bundle := range example.Bundles {
		if bundle.Percentage < 1 || bundle.Percentage > 100 {
			return fmt.Errorf("%w: bundle percentage must be in [1,100]", ErrCatalogValidation)
		}
		if _, err := s.muscleRepo.GetByID(ctx, bundle.MuscleID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrMuscleNotFound
			}
			return err
		}
	}
	for _, equipmentID := range example.EquipmentIDs {
		if _, err := s.equipmentRepo.GetByID(ctx, equipmentID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrEquipmentNotFound
			}
			return err
		}
	}
	return nil
}

func (s *catalogService) CreateExerciseExample(ctx context.Context, example *domain.ExerciseExample) (*domain.ExerciseExample, error) {
	if err := s.validateExample(ctx, example); err != nil {
		return nil, err
	}
	id, err := s.exampleRepo.Create(ctx, example)
	if err != nil {
		return nil, err
	}
	example.ID = id
	return example, nil
}

// ReplaceExerciseExample swaps the whole example definition (bundles and rule
// included); replace semantics, not a field-level patch.
func (s *catalogService) ReplaceExerciseExample(ctx context.Context, example *domain.ExerciseExample) (*domain.ExerciseExample, error) {
	if example.ID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: exercise example ID is required", ErrCatalogValidation)
	}
	existing, err := s.exampleRepo.GetByID(ctx, example.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseExampleNotFound
		}
		return nil, err
	}
	if err := s.validateExample(ctx, example); err != nil {
		return nil, err
	}

	example.CreatedAt = existing.CreatedAt
	if example.MediaKey == "" {
		example.MediaKey = existing.MediaKey
	}
	if err := s.exampleRepo.Replace(ctx, example); err != nil {
		return nil, err
	}
	return example, nil
}

// DeleteExerciseExample removes the example and its dependents in order:
// stored media first, then logged exercise references are nulled, then the
// document (embedded bundles and rule go with it).
func (s *catalogService) DeleteExerciseExample(ctx context.Context, id primitive.ObjectID) error {
	example, err := s.exampleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseExampleNotFound
		}
		return err
	}

	if example.MediaKey != "" && s.fileStorage != nil {
		if err := s.fileStorage.DeleteObject(ctx, example.MediaKey); err != nil {
			return err
		}
	}
	if err := s.trainingRepo.ClearExampleReferences(ctx, id); err != nil {
		return err
	}
	if err := s.exampleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseExampleNotFound
		}
		return err
	}
	return nil
}

func (s *catalogService) GetExerciseExample(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseExample, error) {
	example, err := s.exampleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseExampleNotFound
		}
		return nil, err
	}
	return example, nil
}

func (s *catalogService) ListExerciseExamples(ctx context.Context) ([]domain.ExerciseExample, error) {
	return s.exampleRepo.List(ctx)
}

// --- Demo media ---

// RequestExampleMediaUpload generates a presigned PUT URL for the example's
// demo video and records the object key on the example.
func (s *catalogService) RequestExampleMediaUpload(ctx context.Context, id primitive.ObjectID, contentType string) (*ExampleMediaURLs, error) {
	if s.fileStorage == nil {
		return nil, errors.New("file storage is not configured")
	}
	example, err := s.exampleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseExampleNotFound
		}
		return nil, err
	}

	objectKey := fmt.Sprintf("examples/%s/%s", id.Hex(), uuid.NewString())
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}

	example.MediaKey = objectKey
	if err := s.exampleRepo.Replace(ctx, example); err != nil {
		return nil, err
	}

	return &ExampleMediaURLs{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

// GetExampleMediaDownload generates a presigned GET URL for the example's
// demo video.
func (s *catalogService) GetExampleMediaDownload(ctx context.Context, id primitive.ObjectID) (*ExampleMediaURLs, error) {
	if s.fileStorage == nil {
		return nil, errors.New("file storage is not configured")
	}
	example, err := s.exampleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseExampleNotFound
		}
		return nil, err
	}
	if example.MediaKey == "" {
		return nil, fmt.Errorf("%w: example has no media", ErrExerciseExampleNotFound)
	}

	downloadURL, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, example.MediaKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}
	return &ExampleMediaURLs{DownloadURL: downloadURL, ObjectKey: example.MediaKey}, nil
}
