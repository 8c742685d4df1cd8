package service_test

import (
	"context"

	"atlas/fitness-backend/internal/domain"
	"atlas/fitness-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. Maps keyed by ObjectID, no locking: the tests
// using them are single-goroutine except for the achievements fan-out, which
// only reads.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.ID == primitive.NilObjectID {
		user.ID = primitive.NewObjectID()
	}
	copied := *user
	r.users[user.ID] = &copied
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByGoogleSubject(_ context.Context, subject string) (*domain.User, error) {
	for _, user := range r.users {
		if user.GoogleSubject == subject {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

type fakeProfileRepo struct {
	profiles map[primitive.ObjectID]*domain.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[primitive.ObjectID]*domain.Profile{}}
}

func (r *fakeProfileRepo) Create(_ context.Context, profile *domain.Profile) (primitive.ObjectID, error) {
	if profile.ID == primitive.NilObjectID {
		profile.ID = primitive.NewObjectID()
	}
	copied := *profile
	r.profiles[profile.ID] = &copied
	return profile.ID, nil
}

func (r *fakeProfileRepo) Update(_ context.Context, profile *domain.Profile) error {
	if _, ok := r.profiles[profile.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *profile
	r.profiles[profile.ID] = &copied
	return nil
}

func (r *fakeProfileRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Profile, error) {
	profile, ok := r.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *profile
	return &copied, nil
}

func (r *fakeProfileRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*domain.Profile, error) {
	for _, profile := range r.profiles {
		if profile.UserID == userID {
			copied := *profile
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeMuscleGroupRepo struct {
	groups map[primitive.ObjectID]*domain.MuscleGroup
}

func newFakeMuscleGroupRepo() *fakeMuscleGroupRepo {
	return &fakeMuscleGroupRepo{groups: map[primitive.ObjectID]*domain.MuscleGroup{}}
}

func (r *fakeMuscleGroupRepo) Create(_ context.Context, group *domain.MuscleGroup) (primitive.ObjectID, error) {
	if group.ID == primitive.NilObjectID {
		group.ID = primitive.NewObjectID()
	}
	copied := *group
	r.groups[group.ID] = &copied
	return group.ID, nil
}

func (r *fakeMuscleGroupRepo) Update(_ context.Context, group *domain.MuscleGroup) error {
	if _, ok := r.groups[group.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *group
	r.groups[group.ID] = &copied
	return nil
}

func (r *fakeMuscleGroupRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.groups[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.groups, id)
	return nil
}

func (r *fakeMuscleGroupRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.MuscleGroup, error) {
	group, ok := r.groups[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *group
	return &copied, nil
}

func (r *fakeMuscleGroupRepo) List(_ context.Context) ([]domain.MuscleGroup, error) {
	out := make([]domain.MuscleGroup, 0, len(r.groups))
	for _, group := range r.groups {
		out = append(out, *group)
	}
	return out, nil
}

type fakeMuscleRepo struct {
	muscles map[primitive.ObjectID]*domain.Muscle
}

func newFakeMuscleRepo() *fakeMuscleRepo {
	return &fakeMuscleRepo{muscles: map[primitive.ObjectID]*domain.Muscle{}}
}

func (r *fakeMuscleRepo) Create(_ context.Context, muscle *domain.Muscle) (primitive.ObjectID, error) {
	if muscle.ID == primitive.NilObjectID {
		muscle.ID = primitive.NewObjectID()
	}
	copied := *muscle
	r.muscles[muscle.ID] = &copied
	return muscle.ID, nil
}

func (r *fakeMuscleRepo) Update(_ context.Context, muscle *domain.Muscle) error {
	if _, ok := r.muscles[muscle.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *muscle
	r.muscles[muscle.ID] = &copied
	return nil
}

func (r *fakeMuscleRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.muscles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.muscles, id)
	return nil
}

func (r *fakeMuscleRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Muscle, error) {
	muscle, ok := r.muscles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *muscle
	return &copied, nil
}

func (r *fakeMuscleRepo) List(_ context.Context) ([]domain.Muscle, error) {
	out := make([]domain.Muscle, 0, len(r.muscles))
	for _, muscle := range r.muscles {
		out = append(out, *muscle)
	}
	return out, nil
}

func (r *fakeMuscleRepo) ListByGroupID(_ context.Context, groupID primitive.ObjectID) ([]domain.Muscle, error) {
	var out []domain.Muscle
	for _, muscle := range r.muscles {
		if muscle.MuscleGroupID == groupID {
			out = append(out, *muscle)
		}
	}
	return out, nil
}

type fakeEquipmentGroupRepo struct {
	groups map[primitive.ObjectID]*domain.EquipmentGroup
}

func newFakeEquipmentGroupRepo() *fakeEquipmentGroupRepo {
	return &fakeEquipmentGroupRepo{groups: map[primitive.ObjectID]*domain.EquipmentGroup{}}
}

func (r *fakeEquipmentGroupRepo) Create(_ context.Context, group *domain.EquipmentGroup) (primitive.ObjectID, error) {
	if group.ID == primitive.NilObjectID {
		group.ID = primitive.NewObjectID()
	}
	copied := *group
	r.groups[group.ID] = &copied
	return group.ID, nil
}

func (r *fakeEquipmentGroupRepo) Update(_ context.Context, group *domain.EquipmentGroup) error {
	if _, ok := r.groups[group.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *group
	r.groups[group.ID] = &copied
	return nil
}

func (r *fakeEquipmentGroupRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.groups[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.groups, id)
	return nil
}

func (r *fakeEquipmentGroupRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.EquipmentGroup, error) {
	group, ok := r.groups[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *group
	return &copied, nil
}

func (r *fakeEquipmentGroupRepo) List(_ context.Context) ([]domain.EquipmentGroup, error) {
	out := make([]domain.EquipmentGroup, 0, len(r.groups))
	for _, group := range r.groups {
		out = append(out, *group)
	}
	return out, nil
}

type fakeEquipmentRepo struct {
	equipment map[primitive.ObjectID]*domain.Equipment
}

func newFakeEquipmentRepo() *fakeEquipmentRepo {
	return &fakeEquipmentRepo{equipment: map[primitive.ObjectID]*domain.Equipment{}}
}

func (r *fakeEquipmentRepo) Create(_ context.Context, equipment *domain.Equipment) (primitive.ObjectID, error) {
	if equipment.ID == primitive.NilObjectID {
		equipment.ID = primitive.NewObjectID()
	}
	copied := *equipment
	r.equipment[equipment.ID] = &copied
	return equipment.ID, nil
}

func (r *fakeEquipmentRepo) Update(_ context.Context, equipment *domain.Equipment) error {
	if _, ok := r.equipment[equipment.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *equipment
	r.equipment[equipment.ID] = &copied
	return nil
}

func (r *fakeEquipmentRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.equipment[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.equipment, id)
	return nil
}

func (r *fakeEquipmentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Equipment, error) {
	equipment, ok := r.equipment[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *equipment
	return &copied, nil
}

func (r *fakeEquipmentRepo) List(_ context.Context) ([]domain.Equipment, error) {
	out := make([]domain.Equipment, 0, len(r.equipment))
	for _, equipment := range r.equipment {
		out = append(out, *equipment)
	}
	return out, nil
}

type fakeExampleRepo struct {
	examples map[primitive.ObjectID]*domain.ExerciseExample
	// order preserves insertion order for deterministic List results.
	order []primitive.ObjectID
}

func newFakeExampleRepo() *fakeExampleRepo {
	return &fakeExampleRepo{examples: map[primitive.ObjectID]*domain.ExerciseExample{}}
}

func (r *fakeExampleRepo) Create(_ context.Context, example *domain.ExerciseExample) (primitive.ObjectID, error) {
	if example.ID == primitive.NilObjectID {
		example.ID = primitive.NewObjectID()
	}
	copied := *example
	r.examples[example.ID] = &copied
	r.order = append(r.order, example.ID)
	return example.ID, nil
}

func (r *fakeExampleRepo) Replace(_ context.Context, example *domain.ExerciseExample) error {
	if _, ok := r.examples[example.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *example
	r.examples[example.ID] = &copied
	return nil
}

func (r *fakeExampleRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.examples[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.examples, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeExampleRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.ExerciseExample, error) {
	example, ok := r.examples[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *example
	return &copied, nil
}

func (r *fakeExampleRepo) List(_ context.Context) ([]domain.ExerciseExample, error) {
	out := make([]domain.ExerciseExample, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.examples[id])
	}
	return out, nil
}

func (r *fakeExampleRepo) ListByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.ExerciseExample, error) {
	seen := map[primitive.ObjectID]bool{}
	var out []domain.ExerciseExample
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if example, ok := r.examples[id]; ok {
			out = append(out, *example)
		}
	}
	return out, nil
}

type fakeTrainingRepo struct {
	trainings map[primitive.ObjectID]*domain.Training
	order     []primitive.ObjectID
}

func newFakeTrainingRepo() *fakeTrainingRepo {
	return &fakeTrainingRepo{trainings: map[primitive.ObjectID]*domain.Training{}}
}

func (r *fakeTrainingRepo) Upsert(_ context.Context, training *domain.Training) error {
	if _, ok := r.trainings[training.ID]; !ok {
		r.order = append(r.order, training.ID)
	}
	copied := *training
	copied.Exercises = append([]domain.Exercise(nil), training.Exercises...)
	r.trainings[training.ID] = &copied
	return nil
}

func (r *fakeTrainingRepo) Delete(_ context.Context, id, profileID primitive.ObjectID) error {
	training, ok := r.trainings[id]
	if !ok || training.ProfileID != profileID {
		return repository.ErrNotFound
	}
	delete(r.trainings, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeTrainingRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Training, error) {
	training, ok := r.trainings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *training
	return &copied, nil
}

func (r *fakeTrainingRepo) ListByProfileID(_ context.Context, profileID primitive.ObjectID) ([]domain.Training, error) {
	var out []domain.Training
	for _, id := range r.order {
		if training := r.trainings[id]; training.ProfileID == profileID {
			out = append(out, *training)
		}
	}
	return out, nil
}

func (r *fakeTrainingRepo) ListByProfileAndExample(_ context.Context, profileID, exampleID primitive.ObjectID) ([]domain.Training, error) {
	var out []domain.Training
	for _, id := range r.order {
		training := r.trainings[id]
		if training.ProfileID != profileID {
			continue
		}
		if len(training.ExercisesForExample(exampleID)) > 0 {
			out = append(out, *training)
		}
	}
	return out, nil
}

func (r *fakeTrainingRepo) ClearExampleReferences(_ context.Context, exampleID primitive.ObjectID) error {
	for _, training := range r.trainings {
		for i := range training.Exercises {
			ref := training.Exercises[i].ExerciseExampleID
			if ref != nil && *ref == exampleID {
				training.Exercises[i].ExerciseExampleID = nil
			}
		}
	}
	return nil
}

type fakeWeightRepo struct {
	entries map[primitive.ObjectID]*domain.WeightHistory
}

func newFakeWeightRepo() *fakeWeightRepo {
	return &fakeWeightRepo{entries: map[primitive.ObjectID]*domain.WeightHistory{}}
}

func (r *fakeWeightRepo) Create(_ context.Context, entry *domain.WeightHistory) (primitive.ObjectID, error) {
	if entry.ID == primitive.NilObjectID {
		entry.ID = primitive.NewObjectID()
	}
	copied := *entry
	r.entries[entry.ID] = &copied
	return entry.ID, nil
}

func (r *fakeWeightRepo) ListByProfileID(_ context.Context, profileID primitive.ObjectID) ([]domain.WeightHistory, error) {
	var out []domain.WeightHistory
	for _, entry := range r.entries {
		if entry.ProfileID == profileID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (r *fakeWeightRepo) CountByProfileID(_ context.Context, profileID primitive.ObjectID) (int64, error) {
	var count int64
	for _, entry := range r.entries {
		if entry.ProfileID == profileID {
			count++
		}
	}
	return count, nil
}

func (r *fakeWeightRepo) Delete(_ context.Context, id, profileID primitive.ObjectID) error {
	entry, ok := r.entries[id]
	if !ok || entry.ProfileID != profileID {
		return repository.ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

type fakeExclusionRepo struct {
	muscles   map[primitive.ObjectID][]domain.ExcludedMuscle
	equipment map[primitive.ObjectID][]domain.ExcludedEquipment
}

func newFakeExclusionRepo() *fakeExclusionRepo {
	return &fakeExclusionRepo{
		muscles:   map[primitive.ObjectID][]domain.ExcludedMuscle{},
		equipment: map[primitive.ObjectID][]domain.ExcludedEquipment{},
	}
}

func (r *fakeExclusionRepo) ReplaceMuscles(_ context.Context, profileID primitive.ObjectID, muscleIDs []primitive.ObjectID) error {
	out := make([]domain.ExcludedMuscle, 0, len(muscleIDs))
	for _, muscleID := range muscleIDs {
		out = append(out, domain.ExcludedMuscle{
			ID:        primitive.NewObjectID(),
			ProfileID: profileID,
			MuscleID:  muscleID,
		})
	}
	r.muscles[profileID] = out
	return nil
}

func (r *fakeExclusionRepo) ListMuscles(_ context.Context, profileID primitive.ObjectID) ([]domain.ExcludedMuscle, error) {
	return append([]domain.ExcludedMuscle(nil), r.muscles[profileID]...), nil
}

func (r *fakeExclusionRepo) ReplaceEquipment(_ context.Context, profileID primitive.ObjectID, equipmentIDs []primitive.ObjectID) error {
	out := make([]domain.ExcludedEquipment, 0, len(equipmentIDs))
	for _, equipmentID := range equipmentIDs {
		out = append(out, domain.ExcludedEquipment{
			ID:          primitive.NewObjectID(),
			ProfileID:   profileID,
			EquipmentID: equipmentID,
		})
	}
	r.equipment[profileID] = out
	return nil
}

func (r *fakeExclusionRepo) ListEquipment(_ context.Context, profileID primitive.ObjectID) ([]domain.ExcludedEquipment, error) {
	return append([]domain.ExcludedEquipment(nil), r.equipment[profileID]...), nil
}
