package service

import (
	"atlas/fitness-backend/internal/domain"
	"atlas/fitness-backend/internal/repository"
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrTrainingNotFound     = errors.New("training not found")
	ErrTrainingAccessDenied = errors.New("access denied to this training")
	ErrTrainingValidation   = errors.New("training validation failed")
	// ErrBodyWeightRequired is returned when an exercise's rule blocks saving
	// body-weight sets for a profile without any weight history.
	ErrBodyWeightRequired = errors.New("a body weight entry is required before logging this exercise")
)

type TrainingService interface {
	// SetOrUpdateTraining replaces the training's whole exercise/iteration
	// tree with the supplied payload; repeating the call with the same
	// payload leaves an identical tree.
	SetOrUpdateTraining(ctx context.Context, userID primitive.ObjectID, training *domain.Training) (*domain.Training, error)
	GetTraining(ctx context.Context, userID, trainingID primitive.ObjectID) (*domain.Training, error)
	ListTrainings(ctx context.Context, userID primitive.ObjectID) ([]domain.Training, error)
	DeleteTraining(ctx context.Context, userID, trainingID primitive.ObjectID) error
}

// trainingService implements the TrainingService interface.
type trainingService struct {
	profileRepo  repository.ProfileRepository
	trainingRepo repository.TrainingRepository
	exampleRepo  repository.ExerciseExampleRepository
	weightRepo   repository.WeightHistoryRepository
}

// NewTrainingService creates a new instance of trainingService.
func NewTrainingService(
	profileRepo repository.ProfileRepository,
	trainingRepo repository.TrainingRepository,
	exampleRepo repository.ExerciseExampleRepository,
	weightRepo repository.WeightHistoryRepository,
) TrainingService {
	return &trainingService{
		profileRepo:  profileRepo,
		trainingRepo: trainingRepo,
		exampleRepo:  exampleRepo,
		weightRepo:   weightRepo,
	}
}

func (s *trainingService) resolveProfile(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error) {
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

// roundWeight keeps iteration weights at one decimal place.
func roundWeight(weightKg float64) float64 {
	return math.Round(weightKg*10) / 10
}

func (s *trainingService) SetOrUpdateTraining(ctx context.Context, userID primitive.ObjectID, training *domain.Training) (*domain.Training, error) {
	profile, err := s.resolveProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if training.ID == primitive.NilObjectID {
		training.ID = primitive.NewObjectID()
	} else {
		// Updating: the training must already belong to this profile.
		existing, err := s.trainingRepo.GetByID(ctx, training.ID)
		if err == nil && existing.ProfileID != profile.ID {
			return nil, ErrTrainingAccessDenied
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if err == nil {
			training.CreatedAt = existing.CreatedAt
		}
	}
	training.ProfileID = profile.ID

	hasBodyWeight, err := s.profileHasBodyWeight(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for i := range training.Exercises {
		exercise := &training.Exercises[i]
		if exercise.ID == primitive.NilObjectID {
			exercise.ID = primitive.NewObjectID()
		}
		if exercise.CreatedAt.IsZero() {
			exercise.CreatedAt = now
		}
		exercise.OrderIndex = i

		if err := s.applyExampleRule(ctx, exercise, hasBodyWeight); err != nil {
			return nil, err
		}

		for j := range exercise.Iterations {
			iteration := &exercise.Iterations[j]
			if iteration.ID == primitive.NilObjectID {
				iteration.ID = primitive.NewObjectID()
			}
			if iteration.CreatedAt.IsZero() {
				iteration.CreatedAt = now
			}
			if iteration.WeightKg != nil {
				if *iteration.WeightKg < 0 {
					return nil, fmt.Errorf("%w: iteration weight cannot be negative", ErrTrainingValidation)
				}
				rounded := roundWeight(*iteration.WeightKg)
				iteration.WeightKg = &rounded
			}
			if iteration.Repetitions != nil && *iteration.Repetitions < 0 {
				return nil, fmt.Errorf("%w: iteration repetitions cannot be negative", ErrTrainingValidation)
			}
		}
	}

	if err := s.trainingRepo.Upsert(ctx, training); err != nil {
		return nil, err
	}
	return training, nil
}

func (s *trainingService) profileHasBodyWeight(ctx context.Context, profileID primitive.ObjectID) (bool, error) {
	count, err := s.weightRepo.CountByProfileID(ctx, profileID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyExampleRule enforces the example's missing-body-weight policy when the
// profile has no weight history and the exercise's load derives from body
// weight.
func (s *trainingService) applyExampleRule(ctx context.Context, exercise *domain.Exercise, hasBodyWeight bool) error {
	if exercise.ExerciseExampleID == nil || hasBodyWeight {
		return nil
	}

	example, err := s.exampleRepo.GetByID(ctx, *exercise.ExerciseExampleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseExampleNotFound
		}
		return err
	}

	rule := example.Rule
	if rule.LoadType != domain.LoadBodyWeightFull && rule.LoadType != domain.LoadBodyWeightMultiplier {
		return nil
	}

	switch rule.MissingBodyWeightBehavior {
	case domain.MissingWeightBlockSaving:
		return fmt.Errorf("%w: %s", ErrBodyWeightRequired, example.Name)
	case domain.MissingWeightSaveWithZero:
		zero := 0.0
		for j := range exercise.Iterations {
			exercise.Iterations[j].WeightKg = &zero
		}
	default: // SaveAsRepetitionsOnly
		for j := range exercise.Iterations {
			exercise.Iterations[j].WeightKg = nil
		}
	}
	return nil
}

func (s *trainingService) GetTraining(ctx context.Context, userID, trainingID primitive.ObjectID) (*domain.Training, error) {
	profile, err := s.resolveProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	training, err := s.trainingRepo.GetByID(ctx, trainingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainingNotFound
		}
		return nil, err
	}
	if training.ProfileID != profile.ID {
		return nil, ErrTrainingAccessDenied
	}
	return training, nil
}

func (s *trainingService) ListTrainings(ctx context.Context, userID primitive.ObjectID) ([]domain.Training, error) {
	profile, err := s.resolveProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.trainingRepo.ListByProfileID(ctx, profile.ID)
}

func (s *trainingService) DeleteTraining(ctx context.Context, userID, trainingID primitive.ObjectID) error {
	profile, err := s.resolveProfile(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.trainingRepo.Delete(ctx, trainingID, profile.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTrainingNotFound
		}
		return err
	}
	return nil
}
