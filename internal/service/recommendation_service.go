package service

import (
	"atlas/fitness-backend/internal/domain"
	"atlas/fitness-backend/internal/repository"
	"context"
	"errors"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recommendation guidance texts.
const (
	recommendCompound = "Recommendation: Compound Exercise"
	recommendIsolated = "Recommendation: Isolated Exercise"
)

// experienceBand is an inclusive [Min,Max] guidance band.
type experienceBand struct {
	Min int
	Max int
}

// categoryThresholds pairs the compound floor with the isolation ceiling for
// the category-balance guidance.
type categoryThresholds struct {
	Compound  int
	Isolation int
}

// RecommendationParams describes the in-progress training the guidance is
// computed against.
type RecommendationParams struct {
	// TargetMuscleID restricts candidates to examples where the muscle is a
	// primary mover (bundle percentage > 50).
	TargetMuscleID *primitive.ObjectID
	// CurrentExerciseCount is the number of exercises already in the training.
	CurrentExerciseCount int
	// ExerciseExampleIDs are the catalog examples already in the training, in
	// order; duplicates are meaningful.
	ExerciseExampleIDs []primitive.ObjectID
	Page               int
	Size               int
}

// RecommendationResult bundles the guidance strings with the candidate page.
type RecommendationResult struct {
	Recommendations []string                 `json:"recommendations"`
	Exercises       []domain.ExerciseExample `json:"exercises"`
}

type RecommendationService interface {
	RecommendedExamples(ctx context.Context, userID primitive.ObjectID, params RecommendationParams) (*RecommendationResult, error)
}

// recommendationService implements the RecommendationService interface.
type recommendationService struct {
	profileRepo   repository.ProfileRepository
	exampleRepo   repository.ExerciseExampleRepository
	muscleRepo    repository.MuscleRepository
	exclusionRepo repository.ExclusionRepository
}

// NewRecommendationService creates a new instance of recommendationService.
func NewRecommendationService(
	profileRepo repository.ProfileRepository,
	exampleRepo repository.ExerciseExampleRepository,
	muscleRepo repository.MuscleRepository,
	exclusionRepo repository.ExclusionRepository,
) RecommendationService {
	return &recommendationService{
		profileRepo:   profileRepo,
		exampleRepo:   exampleRepo,
		muscleRepo:    muscleRepo,
		exclusionRepo: exclusionRepo,
	}
}

// experienceFilter maps the profile experience to the allowed example tiers.
// An empty result means "no filter" (show everything).
func experienceFilter(experience domain.Experience) []domain.Experience {
	switch experience {
	case domain.ExperienceBeginner:
		return []domain.Experience{domain.ExperienceBeginner, domain.ExperienceMedium}
	case domain.ExperienceMedium:
		return []domain.Experience{domain.ExperienceBeginner, domain.ExperienceMedium, domain.ExperiencePro}
	default:
		return nil
	}
}

// trainingExerciseBand is the optimal exercises-per-workout band per tier.
func trainingExerciseBand(experience domain.Experience) (experienceBand, bool) {
	switch experience {
	case domain.ExperienceBeginner:
		return experienceBand{Min: 3, Max: 5}, true
	case domain.ExperienceMedium:
		return experienceBand{Min: 4, Max: 6}, true
	case domain.ExperiencePro:
		return experienceBand{Min: 5, Max: 8}, true
	}
	return experienceBand{}, false
}

// muscleExerciseBand is the optimal exercises-per-muscle-group band per tier.
func muscleExerciseBand(experience domain.Experience) (experienceBand, bool) {
	switch experience {
	case domain.ExperienceBeginner:
		return experienceBand{Min: 1, Max: 2}, true
	case domain.ExperienceMedium:
		return experienceBand{Min: 2, Max: 3}, true
	case domain.ExperiencePro:
		return experienceBand{Min: 2, Max: 4}, true
	}
	return experienceBand{}, false
}

// balanceThresholds returns the compound floor and isolation ceiling per tier.
func balanceThresholds(experience domain.Experience) (categoryThresholds, bool) {
	switch experience {
	case domain.ExperienceBeginner:
		return categoryThresholds{Compound: 2, Isolation: 1}, true
	case domain.ExperienceMedium:
		return categoryThresholds{Compound: 2, Isolation: 2}, true
	case domain.ExperiencePro:
		return categoryThresholds{Compound: 3, Isolation: 2}, true
	}
	return categoryThresholds{}, false
}

func (s *recommendationService) resolveProfile(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error) {
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

func (s *recommendationService) RecommendedExamples(ctx context.Context, userID primitive.ObjectID, params RecommendationParams) (*RecommendationResult, error) {
	profile, err := s.resolveProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if params.Page < 1 {
		params.Page = 1
	}
	params.Size = clampLimit(params.Size)

	candidates, err := s.candidateExamples(ctx, profile, params.TargetMuscleID)
	if err != nil {
		return nil, err
	}

	recommendations := make([]string, 0, 3)

	// Volume-per-training guidance: the within-band and above-band cases emit
	// the same message on purpose.
	if band, ok := trainingExerciseBand(profile.Experience); ok && params.CurrentExerciseCount >= band.Min {
		recommendations = append(recommendations, fmt.Sprintf(
			"Optimal exercise count per workout: %d-%d, current: %d",
			band.Min, band.Max, params.CurrentExerciseCount))
	}

	inTraining, err := s.resolveInTraining(ctx, params.ExerciseExampleIDs)
	if err != nil {
		return nil, err
	}

	lastGroupID, groupHits, err := s.lastMuscleTargetHits(ctx, inTraining)
	if err != nil {
		return nil, err
	}

	if band, ok := muscleExerciseBand(profile.Experience); ok && lastGroupID != primitive.NilObjectID && groupHits >= band.Max {
		recommendations = append(recommendations, fmt.Sprintf(
			"Optimal exercise count per muscle group: %d-%d, current: %d",
			band.Min, band.Max, groupHits))
	}

	// Category-balance guidance sorts candidates, it never filters them.
	if thresholds, ok := balanceThresholds(profile.Experience); ok {
		compoundHits, isolationHits := s.categoryHits(inTraining)
		if compoundHits < thresholds.Compound {
			sortByCategory(candidates, true)
			recommendations = append(recommendations, recommendCompound)
		} else if isolationHits > thresholds.Isolation {
			sortByCategory(candidates, false)
			recommendations = append(recommendations, recommendIsolated)
		}
	}

	return &RecommendationResult{
		Recommendations: recommendations,
		Exercises:       paginate(candidates, params.Page, params.Size),
	}, nil
}

// candidateExamples builds the filtered candidate list: experience tier,
// muscle/equipment exclusions, optional primary-mover restriction. Excluded
// items are never returned regardless of sorting.
func (s *recommendationService) candidateExamples(ctx context.Context, profile *domain.Profile, targetMuscleID *primitive.ObjectID) ([]domain.ExerciseExample, error) {
	examples, err := s.exampleRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	allowedTiers := map[domain.Experience]bool{}
	for _, tier := range experienceFilter(profile.Experience) {
		allowedTiers[tier] = true
	}

	excludedMuscles, err := s.exclusionRepo.ListMuscles(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	excludedMuscleSet := make(map[primitive.ObjectID]bool, len(excludedMuscles))
	for _, excluded := range excludedMuscles {
		excludedMuscleSet[excluded.MuscleID] = true
	}

	excludedEquipment, err := s.exclusionRepo.ListEquipment(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	excludedEquipmentSet := make(map[primitive.ObjectID]bool, len(excludedEquipment))
	for _, excluded := range excludedEquipment {
		excludedEquipmentSet[excluded.EquipmentID] = true
	}

	candidates := make([]domain.ExerciseExample, 0, len(examples))
	for _, example := range examples {
		if len(allowedTiers) > 0 && !allowedTiers[example.Experience] {
			continue
		}
		if touchesExcludedMuscle(&example, excludedMuscleSet) {
			continue
		}
		if usesExcludedEquipment(&example, excludedEquipmentSet) {
			continue
		}
		if targetMuscleID != nil && !example.IsPrimaryMover(*targetMuscleID) {
			continue
		}
		candidates = append(candidates, example)
	}
	return candidates, nil
}

func touchesExcludedMuscle(example *domain.ExerciseExample, excluded map[primitive.ObjectID]bool) bool {
	for _, bundle := range example.Bundles {
		if excluded[bundle.MuscleID] {
			return true
		}
	}
	return false
}

func usesExcludedEquipment(example *domain.ExerciseExample, excluded map[primitive.ObjectID]bool) bool {
	for _, equipmentID := range example.EquipmentIDs {
		if excluded[equipmentID] {
			return true
		}
	}
	return false
}

// resolveInTraining maps the already-in-training ids to examples, preserving
// order and multiplicity. Ids pointing at deleted examples are skipped.
func (s *recommendationService) resolveInTraining(ctx context.Context, ids []primitive.ObjectID) ([]domain.ExerciseExample, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	fetched, err := s.exampleRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]domain.ExerciseExample, len(fetched))
	for _, example := range fetched {
		byID[example.ID] = example
	}

	out := make([]domain.ExerciseExample, 0, len(ids))
	for _, id := range ids {
		if example, ok := byID[id]; ok {
			out = append(out, example)
		}
	}
	return out, nil
}

// lastMuscleTargetHits resolves the muscle group targeted by the last
// in-training exercise and counts how many in-training exercises hit it.
func (s *recommendationService) lastMuscleTargetHits(ctx context.Context, inTraining []domain.ExerciseExample) (primitive.ObjectID, int, error) {
	if len(inTraining) == 0 {
		return primitive.NilObjectID, 0, nil
	}

	groupOf := func(example *domain.ExerciseExample) (primitive.ObjectID, error) {
		muscleID := example.PrimaryMuscleID()
		if muscleID == primitive.NilObjectID {
			return primitive.NilObjectID, nil
		}
		muscle, err := s.muscleRepo.GetByID(ctx, muscleID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return primitive.NilObjectID, fmt.Errorf("%w: example %s targets missing muscle %s",
					ErrDataIntegrity, example.ID.Hex(), muscleID.Hex())
			}
			return primitive.NilObjectID, err
		}
		return muscle.MuscleGroupID, nil
	}

	last := inTraining[len(inTraining)-1]
	lastGroupID, err := groupOf(&last)
	if err != nil {
		return primitive.NilObjectID, 0, err
	}
	if lastGroupID == primitive.NilObjectID {
		return primitive.NilObjectID, 0, nil
	}

	hits := 0
	for i := range inTraining {
		groupID, err := groupOf(&inTraining[i])
		if err != nil {
			return primitive.NilObjectID, 0, err
		}
		if groupID == lastGroupID {
			hits++
		}
	}
	return lastGroupID, hits, nil
}

// categoryHits counts compound and isolation exercises among the in-training
// set. With an empty set both counts are zero, which makes the compound
// recommendation fire for any positive threshold.
func (s *recommendationService) categoryHits(inTraining []domain.ExerciseExample) (compound, isolation int) {
	for i := range inTraining {
		switch inTraining[i].Category {
		case domain.CategoryCompound:
			compound++
		case domain.CategoryIsolation:
			isolation++
		}
	}
	return compound, isolation
}

// sortByCategory is a stable sort on the category name; ascending surfaces
// Compound first, descending surfaces Isolation first.
func sortByCategory(examples []domain.ExerciseExample, ascending bool) {
	sort.SliceStable(examples, func(i, j int) bool {
		if ascending {
			return examples[i].Category < examples[j].Category
		}
		return examples[i].Category > examples[j].Category
	})
}

func paginate(examples []domain.ExerciseExample, page, size int) []domain.ExerciseExample {
	skip := (page - 1) * size
	if skip >= len(examples) {
		return []domain.ExerciseExample{}
	}
	end := skip + size
	if end > len(examples) {
		end = len(examples)
	}
	return examples[skip:end]
}
