package service_test

import (
	"context"
	"testing"

	"atlas/fitness-backend/internal/domain"
	"atlas/fitness-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type profileFixture struct {
	service    service.ProfileService
	profiles   *fakeProfileRepo
	weights    *fakeWeightRepo
	exclusions *fakeExclusionRepo
	muscles    *fakeMuscleRepo
	equipment  *fakeEquipmentRepo
	userID     primitive.ObjectID
}

func newProfileFixture(t *testing.T) *profileFixture {
	t.Helper()

	profiles := newFakeProfileRepo()
	weights := newFakeWeightRepo()
	exclusions := newFakeExclusionRepo()
	muscles := newFakeMuscleRepo()
	equipment := newFakeEquipmentRepo()

	return &profileFixture{
		service:    service.NewProfileService(profiles, weights, exclusions, muscles, equipment),
		profiles:   profiles,
		weights:    weights,
		exclusions: exclusions,
		muscles:    muscles,
		equipment:  equipment,
		userID:     primitive.NewObjectID(),
	}
}

func (f *profileFixture) createProfile(t *testing.T) *domain.Profile {
	t.Helper()
	profile, err := f.service.CreateProfile(context.Background(), f.userID, "Tester", nil, domain.ExperienceBeginner)
	require.NoError(t, err)
	return profile
}

func TestCreateProfile(t *testing.T) {
	f := newProfileFixture(t)

	height := 180
	profile, err := f.service.CreateProfile(context.Background(), f.userID, "Tester", &height, domain.ExperienceBeginner)
	require.NoError(t, err)
	assert.NotEqual(t, primitive.NilObjectID, profile.ID)
	assert.Equal(t, f.userID, profile.UserID)
	assert.Equal(t, 180, *profile.HeightCm)

	_, err = f.service.CreateProfile(context.Background(), f.userID, "Tester", nil, domain.ExperienceBeginner)
	assert.ErrorIs(t, err, service.ErrProfileAlreadyExists)
}

func TestCreateProfile_RejectsUnknownExperience(t *testing.T) {
	f := newProfileFixture(t)

	_, err := f.service.CreateProfile(context.Background(), f.userID, "Tester", nil, domain.Experience("EXPERT"))
	assert.Error(t, err)
}

func TestUpdateProfile(t *testing.T) {
	f := newProfileFixture(t)
	f.createProfile(t)

	updated, err := f.service.UpdateProfile(context.Background(), f.userID, "Renamed", nil, domain.ExperiencePro)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, domain.ExperiencePro, updated.Experience)

	fetched, err := f.service.GetProfile(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", fetched.Name)
}

func TestUpdateProfile_NoProfile(t *testing.T) {
	f := newProfileFixture(t)

	_, err := f.service.UpdateProfile(context.Background(), f.userID, "Renamed", nil, domain.ExperiencePro)
	assert.ErrorIs(t, err, service.ErrProfileNotFound)
}

func TestAddWeight_RangeEnforced(t *testing.T) {
	f := newProfileFixture(t)
	f.createProfile(t)

	_, err := f.service.AddWeight(context.Background(), f.userID, 29.9)
	assert.ErrorIs(t, err, service.ErrWeightOutOfRange)

	_, err = f.service.AddWeight(context.Background(), f.userID, 300.1)
	assert.ErrorIs(t, err, service.ErrWeightOutOfRange)

	entry, err := f.service.AddWeight(context.Background(), f.userID, 30)
	require.NoError(t, err)
	assert.Equal(t, 30.0, entry.WeightKg)

	entry, err = f.service.AddWeight(context.Background(), f.userID, 300)
	require.NoError(t, err)
	assert.Equal(t, 300.0, entry.WeightKg)
}

func TestRemoveWeight_LastEntryGuard(t *testing.T) {
	f := newProfileFixture(t)
	f.createProfile(t)

	only, err := f.service.AddWeight(context.Background(), f.userID, 82)
	require.NoError(t, err)

	err = f.service.RemoveWeight(context.Background(), f.userID, only.ID)
	assert.ErrorIs(t, err, service.ErrLastWeightEntry)

	second, err := f.service.AddWeight(context.Background(), f.userID, 81)
	require.NoError(t, err)

	require.NoError(t, f.service.RemoveWeight(context.Background(), f.userID, only.ID))

	// Back to a single entry, guarded again.
	err = f.service.RemoveWeight(context.Background(), f.userID, second.ID)
	assert.ErrorIs(t, err, service.ErrLastWeightEntry)
}

func TestRemoveWeight_UnknownEntry(t *testing.T) {
	f := newProfileFixture(t)
	f.createProfile(t)

	_, err := f.service.AddWeight(context.Background(), f.userID, 82)
	require.NoError(t, err)
	_, err = f.service.AddWeight(context.Background(), f.userID, 83)
	require.NoError(t, err)

	err = f.service.RemoveWeight(context.Background(), f.userID, primitive.NewObjectID())
	assert.ErrorIs(t, err, service.ErrWeightEntryNotFound)
}

func TestSetExcludedMuscles_ValidatesReferences(t *testing.T) {
	f := newProfileFixture(t)
	profile := f.createProfile(t)

	muscleID, err := f.muscles.Create(context.Background(), &domain.Muscle{Name: "Pectoralis", MuscleGroupID: primitive.NewObjectID()})
	require.NoError(t, err)

	err = f.service.SetExcludedMuscles(context.Background(), f.userID, []primitive.ObjectID{primitive.NewObjectID()})
	assert.ErrorIs(t, err, service.ErrMuscleNotFound)

	require.NoError(t, f.service.SetExcludedMuscles(context.Background(), f.userID, []primitive.ObjectID{muscleID}))

	excluded, err := f.service.ListExcludedMuscles(context.Background(), f.userID)
	require.NoError(t, err)
	require.Len(t, excluded, 1)
	assert.Equal(t, muscleID, excluded[0].MuscleID)
	assert.Equal(t, profile.ID, excluded[0].ProfileID)

	// Replace semantics: an empty set clears the list.
	require.NoError(t, f.service.SetExcludedMuscles(context.Background(), f.userID, nil))
	excluded, err = f.service.ListExcludedMuscles(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Empty(t, excluded)
}

func TestSetExcludedEquipment_ValidatesReferences(t *testing.T) {
	f := newProfileFixture(t)
	f.createProfile(t)

	equipmentID, err := f.equipment.Create(context.Background(), &domain.Equipment{Name: "Barbell", EquipmentGroupID: primitive.NewObjectID()})
	require.NoError(t, err)

	err = f.service.SetExcludedEquipment(context.Background(), f.userID, []primitive.ObjectID{primitive.NewObjectID()})
	assert.ErrorIs(t, err, service.ErrEquipmentNotFound)

	require.NoError(t, f.service.SetExcludedEquipment(context.Background(), f.userID, []primitive.ObjectID{equipmentID}))

	excluded, err := f.service.ListExcludedEquipment(context.Background(), f.userID)
	require.NoError(t, err)
	require.Len(t, excluded, 1)
	assert.Equal(t, equipmentID, excluded[0].EquipmentID)
}
