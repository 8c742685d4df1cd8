package api

import (
	"atlas/fitness-backend/internal/domain"
	"atlas/fitness-backend/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileHandler holds the profile service dependency.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// --- DTOs ---

type ProfileRequest struct {
	Name       string            `json:"name" binding:"required"`
	HeightCm   *int              `json:"heightCm" binding:"omitempty,min=1"`
	Experience domain.Experience `json:"experience" binding:"required,oneof=BEGINNER MEDIUM PRO"`
}

type AddWeightRequest struct {
	WeightKg float64 `json:"weightKg" binding:"required"`
}

type SetExclusionsRequest struct {
	IDs []string `json:"ids"`
}

func parseObjectIDs(raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, s := range raw {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// mapProfileError translates service errors shared by profile endpoints.
func mapProfileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotAuthenticated):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrProfileNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrProfileAlreadyExists):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrWeightOutOfRange):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrWeightEntryNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrLastWeightEntry):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrMuscleNotFound), errors.Is(err, service.ErrEquipmentNotFound):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// --- Handler Methods ---

// CreateProfile godoc
// @Summary Create the caller's fitness profile
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body ProfileRequest true "Profile details"
// @Success 201 {object} domain.Profile
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 409 {object} gin.H "Profile already exists"
// @Router /profile [post]
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	profile, err := h.profileService.CreateProfile(c.Request.Context(), userID, req.Name, req.HeightCm, req.Experience)
	if err != nil {
		mapProfileError(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

// UpdateProfile godoc
// @Summary Update the caller's fitness profile
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body ProfileRequest true "Profile details"
// @Success 200 {object} domain.Profile
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, req.Name, req.HeightCm, req.Experience)
	if err != nil {
		mapProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetProfile godoc
// @Summary Get the caller's fitness profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Profile
// @Failure 404 {object} gin.H "Profile not found"
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		mapProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// AddWeight godoc
// @Summary Record a body-weight measurement
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param weight body AddWeightRequest true "Weight in kilograms"
// @Success 201 {object} domain.WeightHistory
// @Failure 400 {object} gin.H "Weight out of range"
// @Router /profile/weights [post]
func (h *ProfileHandler) AddWeight(c *gin.Context) {
	var req AddWeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	entry, err := h.profileService.AddWeight(c.Request.Context(), userID, req.WeightKg)
	if err != nil {
		mapProfileError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ListWeights godoc
// @Summary List body-weight history, newest first
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.WeightHistory
// @Router /profile/weights [get]
func (h *ProfileHandler) ListWeights(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	entries, err := h.profileService.ListWeights(c.Request.Context(), userID)
	if err != nil {
		mapProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// RemoveWeight godoc
// @Summary Delete a body-weight entry
// @Description The last remaining entry cannot be removed.
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Param entryId path string true "Weight entry ID"
// @Success 204 "Deleted"
// @Failure 409 {object} gin.H "Last remaining entry"
// @Router /profile/weights/{entryId} [delete]
func (h *ProfileHandler) RemoveWeight(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	entryID, ok := parseIDParam(c, "entryId")
	if !ok {
		return
	}

	if err := h.profileService.RemoveWeight(c.Request.Context(), userID, entryID); err != nil {
		mapProfileError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetExcludedMuscles godoc
// @Summary Replace the caller's excluded muscle list
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param muscles body SetExclusionsRequest true "Muscle IDs"
// @Success 204 "Replaced"
// @Router /profile/exclusions/muscles [put]
func (h *ProfileHandler) SetExcludedMuscles(c *gin.Context) {
	var req SetExclusionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	ids, err := parseObjectIDs(req.IDs)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid muscle ID format")
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	if err := h.profileService.SetExcludedMuscles(c.Request.Context(), userID, ids); err != nil {
		mapProfileError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListExcludedMuscles godoc
// @Summary List the caller's excluded muscles
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.ExcludedMuscle
// @Router /profile/exclusions/muscles [get]
func (h *ProfileHandler) ListExcludedMuscles(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	excluded, err := h.profileService.ListExcludedMuscles(c.Request.Context(), userID)
	if err != nil {
		mapProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, excluded)
}

// SetExcludedEquipment godoc
// @Summary Replace the caller's excluded equipment list
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param equipment body SetExclusionsRequest true "Equipment IDs"
// @Success 204 "Replaced"
// @Router /profile/exclusions/equipment [put]
func (h *ProfileHandler) SetExcludedEquipment(c *gin.Context) {
	var req SetExclusionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	ids, err := parseObjectIDs(req.IDs)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid equipment ID format")
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	if err := h.profileService.SetExcludedEquipment(c.Request.Context(), userID, ids); err != nil {
		mapProfileError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListExcludedEquipment godoc
// @Summary List the caller's excluded equipment
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.ExcludedEquipment
// @Router /profile/exclusions/equipment [get]
func (h *ProfileHandler) ListExcludedEquipment(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	excluded, err := h.profileService.ListExcludedEquipment(c.Request.Context(), userID)
	if err != nil {
		mapProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, excluded)
}
