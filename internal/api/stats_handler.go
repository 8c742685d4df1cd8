package api

import (
	"atlas/fitness-backend/internal/service"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatsHandler holds the statistics and recommendation service dependencies.
type StatsHandler struct {
	statsService          service.StatsService
	recommendationService service.RecommendationService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService service.StatsService, recommendationService service.RecommendationService) *StatsHandler {
	return &StatsHandler{
		statsService:          statsService,
		recommendationService: recommendationService,
	}
}

// --- DTOs ---

// RecommendationRequest carries the state of the workout being composed.
// ExerciseExampleIDs keeps order and duplicates; performing the same example
// twice counts twice.
type RecommendationRequest struct {
	TargetMuscleID     *string  `json:"targetMuscleId"`
	ExerciseExampleIDs []string `json:"exerciseExampleIds"`
	Page               int      `json:"page" binding:"omitempty,min=1"`
	Size               int      `json:"size" binding:"omitempty,min=1"`
}

// mapStatsError translates service errors shared by statistics endpoints.
func mapStatsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotAuthenticated):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrProfileNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrExerciseExampleNotFound),
		errors.Is(err, service.ErrMuscleNotFound),
		errors.Is(err, service.ErrMuscleGroupNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDataIntegrity):
		abortWithError(c, http.StatusInternalServerError, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// queryInt reads an optional integer query parameter, 0 when absent.
func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+name+" parameter")
		return 0, false
	}
	return value, true
}

// queryObjectID reads an optional ObjectID query parameter, nil when absent.
func queryObjectID(c *gin.Context, name string) (*primitive.ObjectID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+name+" parameter")
		return nil, false
	}
	return &id, true
}

// --- Per-example statistics ---

// GetAchievements godoc
// @Summary Get the caller's achievement bundle for an exercise example
// @Description Best weight, best tonnage, max repetitions, peak intensity and lifetime volume in one response.
// @Tags Statistics
// @Produce json
// @Security BearerAuth
// @Param exampleId path string true "Exercise example ID"
// @Success 200 {object} service.Achievements
// @Failure 404 {object} gin.H "Profile or example not found"
// @Router /stats/examples/{exampleId}/achievements [get]
func (h *StatsHandler) GetAchievements(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	exampleID, ok := parseIDParam(c, "exampleId")
	if !ok {
		return
	}

	achievements, err := h.statsService.Achievements(c.Request.Context(), userID, exampleID)
	if err != nil {
		mapStatsError(c, err)
		return
	}
	c.JSON(http.StatusOK, achievements)
}

// GetBestWeight godoc
// @Summary Get the caller's heaviest set for an exercise example
// @Tags Statistics
// @Produce json
// @Security BearerAuth
// @Param exampleId path string true "Exercise example ID"
// @Success 200 {object} service.BestIteration
// @Router /stats/examples/{exampleId}/best-weight [get]
func (h *StatsHandler) GetBestWeight(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	exampleID, ok := parseIDParam(c, "exampleId")
	if !ok {
		return
	}

	best, err := h.statsService.BestWeight(c.Request.Context(), userID, exampleID)
	if err != nil {
		mapStatsError(c, err)
		return
	}
	c.JSON(http.StatusOK, best)
}

// GetBestTonnage godoc
// @Summary Get the caller's highest-volume performance for an exercise example
// @Tags Statistics
// @Produce json
// @Security BearerAuth
// @Param exampleId path string true "Exercise example ID"
// @Success 200 {object} service.BestExercise
// @Router /stats/examples/{exampleId}/best-tonnage [get]
func (h *StatsHandler) GetBestTonnage(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	exampleID, ok := parseIDParam(c, "exampleId")
	if !ok {
		return
	}

	best, err := h.statsService.BestTonnage(c.Request.Context(), userID, exampleID)
	if err != nil {
		mapStatsError(c, err)
		return
	}
	c.JSON(http.StatusOK, best)
}

// GetMaxRepetitions godoc
// @Summary Get the caller's highest-repetition set for an exercise example
// @Tags Statistics
// @Produce json
// @Security BearerAuth
// @Param exampleId path string true "Exercise example ID"
// @Success 200 {object} service.BestIteration
// @Router /stats/examples/{exampleId}/max-repetitions [get]
func (h *StatsHandler) GetMaxRepetitions(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	exampleID, ok := parseIDParam(c, "exampleId")
	if !ok {
		return
	}

	best, err := h.statsService.MaxRepetitions(c.Request.Context(), userID, exampleID)
	if err != nil {
		mapStatsError(c, err)
		return
	}
	c.JSON(http.StatusOK, best)
}

// GetPeakIntensity godoc
// @Summary Get the caller's highest-intensity performance for an exercise example
// @Tags Statistics
// @Produce json
// @Security BearerAuth
// @Param exampleId path string true "Exercise example ID"
// @Success 200 {object} service.BestExercise
// @Router /stats/examples/{exampleId}/peak-intensity [get]
func (h *StatsHandler) GetPeakIntensity(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	exampleID, ok := parseIDParam(c, "exampleId")
	if !ok {
		return
	}

	best, err := h.statsService.PeakIntensity(c.Request.Context(), userID, exampleID)
	if err != nil {
		mapStatsError(c, err)
		return
	}
	c.JSON(http.StatusOK, best)
}

// GetLifetimeVolume godoc
// @Summary Get the caller's lifetime volume for an exercise example
// @Tags Statistics
// @Produce json
// @Security BearerAuth
// @Param exampleId path string true "Exercise example ID"
// @Success 200 {object} service.LifetimeVolume
// @Router /stats/examples/{exampleId}/lifetime-volume [get]
func (h *StatsHandler) GetLifetimeVolume(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	exampleID, ok := parseIDParam(c, "exampleId")
	if !ok {
		return
	}

	volume, err := h.statsService.LifetimeVolume(c.Request.Context(), userID, exampleID)
	if err != nil {
		mapStatsError(c, err)
		return
	}
	c.JSON(http.StatusOK, volume)
}

// GetRecentExercises godoc
// @Summary List the caller's recent performances of an exercise example
// @Tags Statistics
// @Produce json
// @Security BearerAuth
// @Param exampleId path string true "Exercise example ID"
// @Param limit query int false "Max rows (default 5)"
// @Success 200 {array} service.RecentExercise
// @Router /stats/examples/{exampleId}/recent [get]
func (h *StatsHandler) GetRecentExercises(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	exampleID, ok := parseIDParam(c, "exampleId")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	recent, err := h.statsService.RecentExercises(c.Request.Context(), userID, exampleID, limit)
	if err != nil {
		mapStatsError(c, err)
		return
	}
	c.JSON(http.StatusOK, recent)
}

// --- History-wide statistics ---

// GetPersonalRecords godoc
// @Summary List personal records across every exercise example ever logged
// @Tags Statistics
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.PersonalRecord
// @Router /stats/personal-records [get]
func (h *StatsHandler) GetPersonalRecords(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	records, err := h.statsService.PersonalRecords(c.Request.Context(), userID)
	if err != nil {
		mapStatsError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetWorkoutSummary godoc
// @Summary Get the caller's whole-history workout summary
// @Tags Statistics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.WorkoutSummary
// @Router /stats/summary [get]
func (h *StatsHandler) GetWorkoutSummary(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	summary, err := h.statsService.WorkoutSummary(c.Request.Context(), userID)
	if err != nil {
		mapStatsError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetRecentByMuscle godoc
// @Summary List recently used exercise examples touching a muscle or muscle group
// @Tags Statistics
// @Produce json
// @Security BearerAuth
// @Param muscleId query string false "Muscle ID"
// @Param muscleGroupId query string false "Muscle group ID"
// @Param limit query int false "Max rows (default 10, max 100)"
// @Success 200 {array} service.ExampleUsage
// @Router /stats/muscles/recent [get]
func (h *StatsHandler) GetRecentByMuscle(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	muscleID, ok := queryObjectID(c, "muscleId")
	if !ok {
		return
	}
	muscleGroupID, ok := queryObjectID(c, "muscleGroupId")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	usages, err := h.statsService.RecentExercisesByMuscle(c.Request.Context(), userID, limit, service.MuscleFilter{
		MuscleID:      muscleID,
		MuscleGroupID: muscleGroupID,
	})
	if err != nil {
		mapStatsError(c, err)
		return
	}
	c.JSON(http.StatusOK, usages)
}

// GetFrequentByMuscle godoc
// @Summary List the most used exercise examples touching a muscle or muscle group
// @Tags Statistics
// @Produce json
// @Security BearerAuth
// @Param muscleId query string false "Muscle ID"
// @Param muscleGroupId query string false "Muscle group ID"
// @Param limit query int false "Max rows (default 10, max 100)"
// @Success 200 {array} service.FrequentExercise
// @Router /stats/muscles/frequent [get]
func (h *StatsHandler) GetFrequentByMuscle(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	muscleID, ok := queryObjectID(c, "muscleId")
	if !ok {
		return
	}
	muscleGroupID, ok := queryObjectID(c, "muscleGroupId")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	frequents, err := h.statsService.FrequentExercisesByMuscle(c.Request.Context(), userID, limit, service.MuscleFilter{
		MuscleID:      muscleID,
		MuscleGroupID: muscleGroupID,
	})
	if err != nil {
		mapStatsError(c, err)
		return
	}
	c.JSON(http.StatusOK, frequents)
}

// --- Recommendations ---

// GetRecommendations godoc
// @Summary Recommend exercise examples for the workout being composed
// @Description Filters by experience tier and exclusions, emits balance guidance, and pages the candidates.
// @Tags Recommendations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param state body RecommendationRequest true "Current workout state"
// @Success 200 {object} service.RecommendationResult
// @Failure 404 {object} gin.H "Profile not found"
// @Router /recommendations [post]
func (h *StatsHandler) GetRecommendations(c *gin.Context) {
	var req RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	params := service.RecommendationParams{
		CurrentExerciseCount: len(req.ExerciseExampleIDs),
		Page:                 req.Page,
		Size:                 req.Size,
	}
	if req.TargetMuscleID != nil {
		muscleID, err := primitive.ObjectIDFromHex(*req.TargetMuscleID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid target muscle ID format")
			return
		}
		params.TargetMuscleID = &muscleID
	}
	ids, err := parseObjectIDs(req.ExerciseExampleIDs)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise example ID format")
		return
	}
	params.ExerciseExampleIDs = ids

	result, err := h.recommendationService.RecommendedExamples(c.Request.Context(), userID, params)
	if err != nil {
		mapStatsError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
