package service

import (
	"atlas/fitness-backend/internal/domain"
	"atlas/fitness-backend/internal/repository"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrUserNotAuthenticated = errors.New("user not authenticated")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileAlreadyExists = errors.New("user already has a profile")
	ErrWeightOutOfRange     = errors.New("body weight must be between 30 and 300 kg")
	ErrWeightEntryNotFound  = errors.New("weight history entry not found")
	// ErrLastWeightEntry guards the invariant that a profile always retains
	// at least one weight history entry.
	ErrLastWeightEntry = errors.New("cannot delete the last weight history entry")
)

type ProfileService interface {
	CreateProfile(ctx context.Context, userID primitive.ObjectID, name string, heightCm *int, experience domain.Experience) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, name string, heightCm *int, experience domain.Experience) (*domain.Profile, error)
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error)

	AddWeight(ctx context.Context, userID primitive.ObjectID, weightKg float64) (*domain.WeightHistory, error)
	ListWeights(ctx context.Context, userID primitive.ObjectID) ([]domain.WeightHistory, error)
	RemoveWeight(ctx context.Context, userID, entryID primitive.ObjectID) error

	SetExcludedMuscles(ctx context.Context, userID primitive.ObjectID, muscleIDs []primitive.ObjectID) error
	ListExcludedMuscles(ctx context.Context, userID primitive.ObjectID) ([]domain.ExcludedMuscle, error)
	SetExcludedEquipment(ctx context.Context, userID primitive.ObjectID, equipmentIDs []primitive.ObjectID) error
	ListExcludedEquipment(ctx context.Context, userID primitive.ObjectID) ([]domain.ExcludedEquipment, error)
}

// profileService implements the ProfileService interface.
type profileService struct {
	profileRepo   repository.ProfileRepository
	weightRepo    repository.WeightHistoryRepository
	exclusionRepo repository.ExclusionRepository
	muscleRepo    repository.MuscleRepository
	equipmentRepo repository.EquipmentRepository
}

// NewProfileService creates a new instance of profileService.
func NewProfileService(
	profileRepo repository.ProfileRepository,
	weightRepo repository.WeightHistoryRepository,
	exclusionRepo repository.ExclusionRepository,
	muscleRepo repository.MuscleRepository,
	equipmentRepo repository.EquipmentRepository,
) ProfileService {
	return &profileService{
		profileRepo:   profileRepo,
		weightRepo:    weightRepo,
		exclusionRepo: exclusionRepo,
		muscleRepo:    muscleRepo,
		equipmentRepo: equipmentRepo,
	}
}

func validExperience(experience domain.Experience) bool {
	switch experience {
	case domain.ExperienceBeginner, domain.ExperienceMedium, domain.ExperiencePro:
		return true
	}
	return false
}

// resolveProfile maps the authenticated user to their profile. Absence is a
// precondition failure, never a silent default.
func (s *profileService) resolveProfile(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error) {
	if userID == primitive.NilObjectID {
		return nil, ErrUserNotAuthenticated
	}
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *profileService) CreateProfile(ctx context.Context, userID primitive.ObjectID, name string, heightCm *int, experience domain.Experience) (*domain.Profile, error) {
	if userID == primitive.NilObjectID {
		return nil, ErrUserNotAuthenticated
	}
	if name == "" {
		return nil, errors.New("profile name is required")
	}
	if !validExperience(experience) {
		return nil, fmt.Errorf("unknown experience level %q", experience)
	}

	_, err := s.profileRepo.GetByUserID(ctx, userID)
	if err == nil {
		return nil, ErrProfileAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	profile := &domain.Profile{
		UserID:     userID,
		Name:       name,
		HeightCm:   heightCm,
		Experience: experience,
	}
	id, err := s.profileRepo.Create(ctx, profile)
	if err != nil {
		return nil, err
	}
	profile.ID = id
	return profile, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, name string, heightCm *int, experience domain.Experience) (*domain.Profile, error) {
	if name == "" {
		return nil, errors.New("profile name is required")
	}
	if !validExperience(experience) {
		return nil, fmt.Errorf("unknown experience level %q", experience)
	}

	profile, err := s.resolveProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.Name = name
	profile.HeightCm = heightCm
	profile.Experience = experience
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *profileService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error) {
	return s.resolveProfile(ctx, userID)
}

// --- Weight history ---

func (s *profileService) AddWeight(ctx context.Context, userID primitive.ObjectID, weightKg float64) (*domain.WeightHistory, error) {
	if weightKg < domain.MinBodyWeightKg || weightKg > domain.MaxBodyWeightKg {
		return nil, ErrWeightOutOfRange
	}

	profile, err := s.resolveProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry := &domain.WeightHistory{
		ProfileID: profile.ID,
		WeightKg:  weightKg,
	}
	id, err := s.weightRepo.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = id
	return entry, nil
}

func (s *profileService) ListWeights(ctx context.Context, userID primitive.ObjectID) ([]domain.WeightHistory, error) {
	profile, err := s.resolveProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.weightRepo.ListByProfileID(ctx, profile.ID)
}

// RemoveWeight deletes a measurement unless it is the profile's last one.
func (s *profileService) RemoveWeight(ctx context.Context, userID, entryID primitive.ObjectID) error {
	profile, err := s.resolveProfile(ctx, userID)
	if err != nil {
		return err
	}

	count, err := s.weightRepo.CountByProfileID(ctx, profile.ID)
	if err != nil {
		return err
	}
	if count <= 1 {
		return ErrLastWeightEntry
	}

	if err := s.weightRepo.Delete(ctx, entryID, profile.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWeightEntryNotFound
		}
		return err
	}
	return nil
}

// --- Exclusions ---

func (s *profileService) SetExcludedMuscles(ctx context.Context, userID primitive.ObjectID, muscleIDs []primitive.ObjectID) error {
	profile, err := s.resolveProfile(ctx, userID)
	if err != nil {
		return err
	}
	for _, muscleID := range muscleIDs {
		if _, err := s.muscleRepo.GetByID(ctx, muscleID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrMuscleNotFound
			}
			return err
		}
	}
	return s.exclusionRepo.ReplaceMuscles(ctx, profile.ID, muscleIDs)
}

func (s *profileService) ListExcludedMuscles(ctx context.Context, userID primitive.ObjectID) ([]domain.ExcludedMuscle, error) {
	profile, err := s.resolveProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.exclusionRepo.ListMuscles(ctx, profile.ID)
}

func (s *profileService) SetExcludedEquipment(ctx context.Context, userID primitive.ObjectID, equipmentIDs []primitive.ObjectID) error {
	profile, err := s.resolveProfile(ctx, userID)
	if err != nil {
		return err
	}
	for _, equipmentID := range equipmentIDs {
		if _, err := s.equipmentRepo.GetByID(ctx, equipmentID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrEquipmentNotFound
			}
			return err
		}
	}
	return s.exclusionRepo.ReplaceEquipment(ctx, profile.ID, equipmentIDs)
}

func (s *profileService) ListExcludedEquipment(ctx context.Context, userID primitive.ObjectID) ([]domain.ExcludedEquipment, error) {
	profile, err := s.resolveProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.exclusionRepo.ListEquipment(ctx, profile.ID)
}
