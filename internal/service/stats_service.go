package service

import (
	"atlas/fitness-backend/internal/domain"
	"atlas/fitness-backend/internal/repository"
	"context"
	"errors"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

type StatsService interface {
	BestWeight(ctx context.Context, userID, exampleID primitive.ObjectID) (*BestIteration, error)
	BestTonnage(ctx context.Context, userID, exampleID primitive.ObjectID) (*BestExercise, error)
	MaxRepetitions(ctx context.Context, userID, exampleID primitive.ObjectID) (*BestIteration, error)
	PeakIntensity(ctx context.Context, userID, exampleID primitive.ObjectID) (*BestExercise, error)
	LifetimeVolume(ctx context.Context, userID, exampleID primitive.ObjectID) (*LifetimeVolume, error)
	Achievements(ctx context.Context, userID, exampleID primitive.ObjectID) (*Achievements, error)
	RecentExercises(ctx context.Context, userID, exampleID primitive.ObjectID, limit int) ([]RecentExercise, error)
	PersonalRecords(ctx context.Context, userID primitive.ObjectID) ([]PersonalRecord, error)
	WorkoutSummary(ctx context.Context, userID primitive.ObjectID) (*WorkoutSummary, error)
	RecentExercisesByMuscle(ctx context.Context, userID primitive.ObjectID, limit int, filter MuscleFilter) ([]ExampleUsage, error)
	FrequentExercisesByMuscle(ctx context.Context, userID primitive.ObjectID, limit int, filter MuscleFilter) ([]FrequentExercise, error)
}

// statsService implements the StatsService interface. Every operation
// resolves the caller's profile first and uses the profile ID as the single
// scoping key for all queries.
type statsService struct {
	profileRepo     repository.ProfileRepository
	trainingRepo    repository.TrainingRepository
	exampleRepo     repository.ExerciseExampleRepository
	muscleRepo      repository.MuscleRepository
	muscleGroupRepo repository.MuscleGroupRepository
}

// NewStatsService creates a new instance of statsService.
func NewStatsService(
	profileRepo repository.ProfileRepository,
	trainingRepo repository.TrainingRepository,
	exampleRepo repository.ExerciseExampleRepository,
	muscleRepo repository.MuscleRepository,
	muscleGroupRepo repository.MuscleGroupRepository,
) StatsService {
	return &statsService{
		profileRepo:     profileRepo,
		trainingRepo:    trainingRepo,
		exampleRepo:     exampleRepo,
		muscleRepo:      muscleRepo,
		muscleGroupRepo: muscleGroupRepo,
	}
}

func (s *statsService) resolveProfile(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error) {
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

// resolveScope resolves the profile and validates the addressed example.
func (s *statsService) resolveScope(ctx context.Context, userID, exampleID primitive.ObjectID) (*domain.Profile, error) {
	profile, err := s.resolveProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.exampleRepo.GetByID(ctx, exampleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseExampleNotFound
		}
		return nil, err
	}
	return profile, nil
}

// performance is one exercise row flattened with its training context.
type performance struct {
	TrainingID primitive.ObjectID
	Exercise   domain.Exercise
}

// examplePerformances flattens every performance of the example by the
// profile, one row per exercise.
func (s *statsService) examplePerformances(ctx context.Context, profileID, exampleID primitive.ObjectID) ([]performance, error) {
	trainings, err := s.trainingRepo.ListByProfileAndExample(ctx, profileID, exampleID)
	if err != nil {
		return nil, err
	}

	var rows []performance
	for _, training := range trainings {
		for _, exercise := range training.ExercisesForExample(exampleID) {
			rows = append(rows, performance{TrainingID: training.ID, Exercise: exercise})
		}
	}
	return rows, nil
}

// allPerformances flattens the profile's whole history, keeping only rows
// still referencing a catalog example.
func (s *statsService) allPerformances(ctx context.Context, profileID primitive.ObjectID) ([]performance, error) {
	trainings, err := s.trainingRepo.ListByProfileID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	var rows []performance
	for _, training := range trainings {
		for _, exercise := range training.Exercises {
			if exercise.ExerciseExampleID == nil {
				continue
			}
			rows = append(rows, performance{TrainingID: training.ID, Exercise: exercise})
		}
	}
	return rows, nil
}

// --- Per-example records ---

func (s *statsService) BestWeight(ctx context.Context, userID, exampleID primitive.ObjectID) (*BestIteration, error) {
	profile, err := s.resolveScope(ctx, userID, exampleID)
	if err != nil {
		return nil, err
	}
	rows, err := s.examplePerformances(ctx, profile.ID, exampleID)
	if err != nil {
		return nil, err
	}
	return bestWeightOf(rows), nil
}

// bestWeightOf picks the heaviest set; ties break on recency.
func bestWeightOf(rows []performance) *BestIteration {
	var best *BestIteration
	for _, row := range rows {
		for _, iteration := range row.Exercise.Iterations {
			if iteration.WeightKg == nil {
				continue
			}
			if best == nil ||
				*iteration.WeightKg > *best.WeightKg ||
				(*iteration.WeightKg == *best.WeightKg && iteration.CreatedAt.After(best.CreatedAt)) {
				best = newBestIteration(row, iteration)
			}
		}
	}
	return best
}

func (s *statsService) MaxRepetitions(ctx context.Context, userID, exampleID primitive.ObjectID) (*BestIteration, error) {
	profile, err := s.resolveScope(ctx, userID, exampleID)
	if err != nil {
		return nil, err
	}
	rows, err := s.examplePerformances(ctx, profile.ID, exampleID)
	if err != nil {
		return nil, err
	}
	return maxRepetitionsOf(rows), nil
}

func maxRepetitionsOf(rows []performance) *BestIteration {
	var best *BestIteration
	for _, row := range rows {
		for _, iteration := range row.Exercise.Iterations {
			if iteration.Repetitions == nil {
				continue
			}
			if best == nil ||
				*iteration.Repetitions > *best.Repetitions ||
				(*iteration.Repetitions == *best.Repetitions && iteration.CreatedAt.After(best.CreatedAt)) {
				best = newBestIteration(row, iteration)
			}
		}
	}
	return best
}

func newBestIteration(row performance, iteration domain.Iteration) *BestIteration {
	return &BestIteration{
		IterationID: iteration.ID,
		ExerciseID:  row.Exercise.ID,
		TrainingID:  row.TrainingID,
		WeightKg:    iteration.WeightKg,
		Repetitions: iteration.Repetitions,
		CreatedAt:   iteration.CreatedAt,
	}
}

func (s *statsService) BestTonnage(ctx context.Context, userID, exampleID primitive.ObjectID) (*BestExercise, error) {
	profile, err := s.resolveScope(ctx, userID, exampleID)
	if err != nil {
		return nil, err
	}
	rows, err := s.examplePerformances(ctx, profile.ID, exampleID)
	if err != nil {
		return nil, err
	}
	return bestExerciseOf(rows, func(ex *domain.Exercise) *float64 { return ex.Volume }), nil
}

func (s *statsService) PeakIntensity(ctx context.Context, userID, exampleID primitive.ObjectID) (*BestExercise, error) {
	profile, err := s.resolveScope(ctx, userID, exampleID)
	if err != nil {
		return nil, err
	}
	rows, err := s.examplePerformances(ctx, profile.ID, exampleID)
	if err != nil {
		return nil, err
	}
	return bestExerciseOf(rows, func(ex *domain.Exercise) *float64 { return ex.Intensity }), nil
}

// bestExerciseOf picks the exercise maximizing the metric; ties break on
// recency. Rows with a nil metric never qualify.
func bestExerciseOf(rows []performance, metric func(*domain.Exercise) *float64) *BestExercise {
	var best *BestExercise
	var bestValue float64
	for _, row := range rows {
		value := metric(&row.Exercise)
		if value == nil {
			continue
		}
		if best == nil || *value > bestValue ||
			(*value == bestValue && row.Exercise.CreatedAt.After(best.CreatedAt)) {
			best = &BestExercise{
				ExerciseID:  row.Exercise.ID,
				TrainingID:  row.TrainingID,
				Volume:      row.Exercise.Volume,
				Repetitions: row.Exercise.Repetitions,
				Intensity:   row.Exercise.Intensity,
				CreatedAt:   row.Exercise.CreatedAt,
			}
			bestValue = *value
		}
	}
	return best
}

func (s *statsService) LifetimeVolume(ctx context.Context, userID, exampleID primitive.ObjectID) (*LifetimeVolume, error) {
	profile, err := s.resolveScope(ctx, userID, exampleID)
	if err != nil {
		return nil, err
	}
	rows, err := s.examplePerformances(ctx, profile.ID, exampleID)
	if err != nil {
		return nil, err
	}
	return lifetimeVolumeOf(rows), nil
}

// lifetimeVolumeOf is nil only when zero rows exist, not for zero volume.
func lifetimeVolumeOf(rows []performance) *LifetimeVolume {
	if len(rows) == 0 {
		return nil
	}

	out := &LifetimeVolume{
		SessionsCount:    len(rows),
		FirstPerformedAt: rows[0].Exercise.CreatedAt,
		LastPerformedAt:  rows[0].Exercise.CreatedAt,
	}
	for _, row := range rows {
		if row.Exercise.Volume != nil {
			out.TotalVolume += *row.Exercise.Volume
		}
		if row.Exercise.CreatedAt.Before(out.FirstPerformedAt) {
			out.FirstPerformedAt = row.Exercise.CreatedAt
		}
		if row.Exercise.CreatedAt.After(out.LastPerformedAt) {
			out.LastPerformedAt = row.Exercise.CreatedAt
		}
	}
	return out
}

// Achievements fans the five record queries out concurrently. There is no
// data dependency between them; the whole operation fails if any sub-query
// fails, never returning a partial bundle.
func (s *statsService) Achievements(ctx context.Context, userID, exampleID primitive.ObjectID) (*Achievements, error) {
	profile, err := s.resolveScope(ctx, userID, exampleID)
	if err != nil {
		return nil, err
	}

	out := &Achievements{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.examplePerformances(gctx, profile.ID, exampleID)
		if err != nil {
			return err
		}
		out.BestWeight = bestWeightOf(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := s.examplePerformances(gctx, profile.ID, exampleID)
		if err != nil {
			return err
		}
		out.BestTonnage = bestExerciseOf(rows, func(ex *domain.Exercise) *float64 { return ex.Volume })
		return nil
	})
	g.Go(func() error {
		rows, err := s.examplePerformances(gctx, profile.ID, exampleID)
		if err != nil {
			return err
		}
		out.MaxRepetitions = maxRepetitionsOf(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := s.examplePerformances(gctx, profile.ID, exampleID)
		if err != nil {
			return err
		}
		out.PeakIntensity = bestExerciseOf(rows, func(ex *domain.Exercise) *float64 { return ex.Intensity })
		return nil
	})
	g.Go(func() error {
		rows, err := s.examplePerformances(gctx, profile.ID, exampleID)
		if err != nil {
			return err
		}
		out.LifetimeVolume = lifetimeVolumeOf(rows)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// RecentExercises lists the last performances of the example, newest first,
// each with its iterations ordered newest first.
func (s *statsService) RecentExercises(ctx context.Context, userID, exampleID primitive.ObjectID, limit int) ([]RecentExercise, error) {
	profile, err := s.resolveScope(ctx, userID, exampleID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultRecentExercises
	}
	limit = clampLimit(limit)

	rows, err := s.examplePerformances(ctx, profile.ID, exampleID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Exercise.CreatedAt.After(rows[j].Exercise.CreatedAt)
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}

	out := make([]RecentExercise, 0, len(rows))
	for _, row := range rows {
		exercise := row.Exercise
		iterations := make([]domain.Iteration, len(exercise.Iterations))
		copy(iterations, exercise.Iterations)
		sort.SliceStable(iterations, func(i, j int) bool {
			return iterations[i].CreatedAt.After(iterations[j].CreatedAt)
		})
		exercise.Iterations = iterations
		out = append(out, RecentExercise{TrainingID: row.TrainingID, Exercise: exercise})
	}
	return out, nil
}

// --- History-wide aggregates ---

// PersonalRecords emits exactly one row per distinct example ever logged.
// Each metric is a distinct-on-group-key pick: rows are grouped by example,
// each group ranked by the metric descending then recency descending, and
// the first row wins.
func (s *statsService) PersonalRecords(ctx context.Context, userID primitive.ObjectID) ([]PersonalRecord, error) {
	profile, err := s.resolveProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.allPerformances(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	groups := make(map[primitive.ObjectID][]performance)
	var order []primitive.ObjectID
	for _, row := range rows {
		exampleID := *row.Exercise.ExerciseExampleID
		if _, seen := groups[exampleID]; !seen {
			order = append(order, exampleID)
		}
		groups[exampleID] = append(groups[exampleID], row)
	}

	names, err := s.exampleNames(ctx, order)
	if err != nil {
		return nil, err
	}

	records := make([]PersonalRecord, 0, len(order))
	for _, exampleID := range order {
		name, ok := names[exampleID]
		if !ok {
			// The catalog example vanished between logging and now; the join
			// drops the group.
			continue
		}
		group := groups[exampleID]
		record := PersonalRecord{ExerciseExampleID: exampleID, Name: name}

		if best := bestWeightOf(group); best != nil {
			record.MaxWeightKg = best.WeightKg
			at := best.CreatedAt
			record.MaxWeightAt = &at
		}
		if best := maxRepetitionsOf(group); best != nil {
			record.MaxRepetitions = best.Repetitions
			at := best.CreatedAt
			record.MaxRepetitionsAt = &at
		}
		if best := bestExerciseOf(group, func(ex *domain.Exercise) *float64 { return ex.Volume }); best != nil {
			record.MaxVolume = best.Volume
			at := best.CreatedAt
			record.MaxVolumeAt = &at
		}

		records = append(records, record)
	}
	return records, nil
}

func (s *statsService) exampleNames(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	examples, err := s.exampleRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[primitive.ObjectID]string, len(examples))
	for _, example := range examples {
		names[example.ID] = example.Name
	}
	return names, nil
}

func (s *statsService) WorkoutSummary(ctx context.Context, userID primitive.ObjectID) (*WorkoutSummary, error) {
	profile, err := s.resolveProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	trainings, err := s.trainingRepo.ListByProfileID(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	summary := &WorkoutSummary{TotalWorkouts: len(trainings)}
	if len(trainings) == 0 {
		return summary, nil
	}

	var intensitySum float64
	var intensityCount int
	first := trainings[0].CreatedAt
	last := trainings[0].CreatedAt
	for _, training := range trainings {
		if training.Volume != nil {
			summary.TotalVolume += *training.Volume
		}
		if training.Duration != nil {
			summary.TotalDuration += *training.Duration
		}
		if training.Intensity != nil {
			intensitySum += *training.Intensity
			intensityCount++
		}
		summary.TotalExercises += len(training.Exercises)
		if training.CreatedAt.Before(first) {
			first = training.CreatedAt
		}
		if training.CreatedAt.After(last) {
			last = training.CreatedAt
		}
	}
	if intensityCount > 0 {
		summary.AverageIntensity = intensitySum / float64(intensityCount)
	}
	summary.FirstWorkoutDate = &first
	summary.LastWorkoutDate = &last
	return summary, nil
}

// --- Per-muscle listings ---

// exampleMuscleMatcher validates the filter's catalog references and returns
// a predicate deciding whether an example falls under the filter.
func (s *statsService) exampleMuscleMatcher(ctx context.Context, filter MuscleFilter) (func(*domain.ExerciseExample) bool, error) {
	if filter.MuscleID != nil {
		if _, err := s.muscleRepo.GetByID(ctx, *filter.MuscleID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrMuscleNotFound
			}
			return nil, err
		}
	}
	if filter.MuscleGroupID != nil {
		if _, err := s.muscleGroupRepo.GetByID(ctx, *filter.MuscleGroupID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrMuscleGroupNotFound
			}
			return nil, err
		}
	}

	if filter.MuscleID == nil && filter.MuscleGroupID == nil {
		return func(*domain.ExerciseExample) bool { return true }, nil
	}

	// Group filtering needs the muscle to group mapping.
	var groupOfMuscle map[primitive.ObjectID]primitive.ObjectID
	if filter.MuscleGroupID != nil {
		muscles, err := s.muscleRepo.List(ctx)
		if err != nil {
			return nil, err
		}
		groupOfMuscle = make(map[primitive.ObjectID]primitive.ObjectID, len(muscles))
		for _, muscle := range muscles {
			groupOfMuscle[muscle.ID] = muscle.MuscleGroupID
		}
	}

	return func(example *domain.ExerciseExample) bool {
		for _, bundle := range example.Bundles {
			if filter.MuscleID != nil && bundle.MuscleID == *filter.MuscleID {
				return true
			}
			if filter.MuscleGroupID != nil && groupOfMuscle[bundle.MuscleID] == *filter.MuscleGroupID {
				return true
			}
		}
		return false
	}, nil
}

// filteredGroups groups the profile's performances by example, keeping only
// examples matching the filter. Returned group order follows first encounter.
func (s *statsService) filteredGroups(ctx context.Context, profileID primitive.ObjectID, filter MuscleFilter) ([]primitive.ObjectID, map[primitive.ObjectID][]performance, map[primitive.ObjectID]domain.ExerciseExample, error) {
	matches, err := s.exampleMuscleMatcher(ctx, filter)
	if err != nil {
		return nil, nil, nil, err
	}

	rows, err := s.allPerformances(ctx, profileID)
	if err != nil {
		return nil, nil, nil, err
	}

	groups := make(map[primitive.ObjectID][]performance)
	var order []primitive.ObjectID
	for _, row := range rows {
		exampleID := *row.Exercise.ExerciseExampleID
		if _, seen := groups[exampleID]; !seen {
			order = append(order, exampleID)
		}
		groups[exampleID] = append(groups[exampleID], row)
	}

	examples, err := s.exampleRepo.ListByIDs(ctx, order)
	if err != nil {
		return nil, nil, nil, err
	}
	kept := make(map[primitive.ObjectID]domain.ExerciseExample, len(examples))
	for _, example := range examples {
		if matches(&example) {
			kept[example.ID] = example
		}
	}

	filteredOrder := order[:0]
	for _, exampleID := range order {
		if _, ok := kept[exampleID]; ok {
			filteredOrder = append(filteredOrder, exampleID)
		}
	}
	return filteredOrder, groups, kept, nil
}

// RecentExercisesByMuscle emits one row per distinct example, carrying the
// most recent performance, newest first.
func (s *statsService) RecentExercisesByMuscle(ctx context.Context, userID primitive.ObjectID, limit int, filter MuscleFilter) ([]ExampleUsage, error) {
	profile, err := s.resolveProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	limit = clampLimit(limit)

	order, groups, examples, err := s.filteredGroups(ctx, profile.ID, filter)
	if err != nil {
		return nil, err
	}

	usages := make([]ExampleUsage, 0, len(order))
	for _, exampleID := range order {
		group := groups[exampleID]
		latest := group[0]
		for _, row := range group {
			if row.Exercise.CreatedAt.After(latest.Exercise.CreatedAt) {
				latest = row
			}
		}
		usages = append(usages, ExampleUsage{
			ExerciseExampleID: exampleID,
			Name:              examples[exampleID].Name,
			TrainingID:        latest.TrainingID,
			LastUsedAt:        latest.Exercise.CreatedAt,
		})
	}

	sort.SliceStable(usages, func(i, j int) bool {
		return usages[i].LastUsedAt.After(usages[j].LastUsedAt)
	})
	if len(usages) > limit {
		usages = usages[:limit]
	}
	return usages, nil
}

// FrequentExercisesByMuscle emits one row per distinct example with usage
// aggregates, ordered by usage count then recency.
func (s *statsService) FrequentExercisesByMuscle(ctx context.Context, userID primitive.ObjectID, limit int, filter MuscleFilter) ([]FrequentExercise, error) {
	profile, err := s.resolveProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	limit = clampLimit(limit)

	order, groups, examples, err := s.filteredGroups(ctx, profile.ID, filter)
	if err != nil {
		return nil, err
	}

	frequents := make([]FrequentExercise, 0, len(order))
	for _, exampleID := range order {
		group := groups[exampleID]

		var volumeSum float64
		var volumeCount int
		lastUsed := group[0].Exercise.CreatedAt
		for _, row := range group {
			if row.Exercise.Volume != nil {
				volumeSum += *row.Exercise.Volume
				volumeCount++
			}
			if row.Exercise.CreatedAt.After(lastUsed) {
				lastUsed = row.Exercise.CreatedAt
			}
		}

		frequent := FrequentExercise{
			ExerciseExampleID: exampleID,
			Name:              examples[exampleID].Name,
			UsageCount:        len(group),
			LastUsedAt:        lastUsed,
		}
		if volumeCount > 0 {
			frequent.AverageVolume = volumeSum / float64(volumeCount)
		}
		frequents = append(frequents, frequent)
	}

	sort.SliceStable(frequents, func(i, j int) bool {
		if frequents[i].UsageCount != frequents[j].UsageCount {
			return frequents[i].UsageCount > frequents[j].UsageCount
		}
		return frequents[i].LastUsedAt.After(frequents[j].LastUsedAt)
	})
	if len(frequents) > limit {
		frequents = frequents[:limit]
	}
	return frequents, nil
}
