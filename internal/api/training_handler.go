package api

import (
	"atlas/fitness-backend/internal/domain"
	"atlas/fitness-backend/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainingHandler holds the training service dependency.
type TrainingHandler struct {
	trainingService service.TrainingService
}

// NewTrainingHandler creates a new TrainingHandler.
func NewTrainingHandler(trainingService service.TrainingService) *TrainingHandler {
	return &TrainingHandler{trainingService: trainingService}
}

// --- DTOs ---

type IterationRequest struct {
	WeightKg    *float64 `json:"weightKg" binding:"omitempty,min=0"`
	Repetitions *int     `json:"repetitions" binding:"omitempty,min=0"`
}

type TrainingExerciseRequest struct {
	ExerciseExampleID *string            `json:"exerciseExampleId"`
	Name              string             `json:"name" binding:"required"`
	Volume            *float64           `json:"volume" binding:"omitempty,min=0"`
	Repetitions       *int               `json:"repetitions" binding:"omitempty,min=0"`
	Intensity         *float64           `json:"intensity" binding:"omitempty,min=0"`
	Iterations        []IterationRequest `json:"iterations" binding:"dive"`
}

// SetTrainingRequest carries the whole training tree. An omitted ID creates
// a new training; a present ID replaces the addressed one wholesale.
type SetTrainingRequest struct {
	ID          *string                   `json:"id"`
	Duration    *int                      `json:"duration" binding:"omitempty,min=0"`
	Volume      *float64                  `json:"volume" binding:"omitempty,min=0"`
	Repetitions *int                      `json:"repetitions" binding:"omitempty,min=0"`
	Intensity   *float64                  `json:"intensity" binding:"omitempty,min=0"`
	Exercises   []TrainingExerciseRequest `json:"exercises" binding:"dive"`
}

func (r *SetTrainingRequest) toDomain() (*domain.Training, error) {
	training := &domain.Training{
		Duration:    r.Duration,
		Volume:      r.Volume,
		Repetitions: r.Repetitions,
		Intensity:   r.Intensity,
	}
	if r.ID != nil {
		id, err := primitive.ObjectIDFromHex(*r.ID)
		if err != nil {
			return nil, errors.New("invalid training ID format")
		}
		training.ID = id
	}

	training.Exercises = make([]domain.Exercise, 0, len(r.Exercises))
	for _, ex := range r.Exercises {
		exercise := domain.Exercise{
			Name:        ex.Name,
			Volume:      ex.Volume,
			Repetitions: ex.Repetitions,
			Intensity:   ex.Intensity,
		}
		if ex.ExerciseExampleID != nil {
			exampleID, err := primitive.ObjectIDFromHex(*ex.ExerciseExampleID)
			if err != nil {
				return nil, errors.New("invalid exercise example ID format")
			}
			exercise.ExerciseExampleID = &exampleID
		}
		for _, it := range ex.Iterations {
			exercise.Iterations = append(exercise.Iterations, domain.Iteration{
				WeightKg:    it.WeightKg,
				Repetitions: it.Repetitions,
			})
		}
		training.Exercises = append(training.Exercises, exercise)
	}
	return training, nil
}

// mapTrainingError translates service errors shared by training endpoints.
func mapTrainingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotAuthenticated):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrProfileNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrTrainingNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrTrainingAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrTrainingValidation), errors.Is(err, service.ErrBodyWeightRequired):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrExerciseExampleNotFound):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// --- Handler Methods ---

// SetTraining godoc
// @Summary Create or replace a training
// @Description Replaces the training's whole exercise and iteration tree with the payload.
// @Tags Trainings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param training body SetTrainingRequest true "Training tree"
// @Success 200 {object} domain.Training
// @Failure 400 {object} gin.H "Validation error or missing body weight"
// @Failure 403 {object} gin.H "Training belongs to another profile"
// @Router /trainings [put]
func (h *TrainingHandler) SetTraining(c *gin.Context) {
	var req SetTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	training, err := req.toDomain()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := h.trainingService.SetOrUpdateTraining(c.Request.Context(), userID, training)
	if err != nil {
		mapTrainingError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// GetTraining godoc
// @Summary Get one of the caller's trainings
// @Tags Trainings
// @Produce json
// @Security BearerAuth
// @Param trainingId path string true "Training ID"
// @Success 200 {object} domain.Training
// @Failure 404 {object} gin.H "Not found"
// @Router /trainings/{trainingId} [get]
func (h *TrainingHandler) GetTraining(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	trainingID, ok := parseIDParam(c, "trainingId")
	if !ok {
		return
	}

	training, err := h.trainingService.GetTraining(c.Request.Context(), userID, trainingID)
	if err != nil {
		mapTrainingError(c, err)
		return
	}
	c.JSON(http.StatusOK, training)
}

// ListTrainings godoc
// @Summary List the caller's trainings, newest first
// @Tags Trainings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Training
// @Router /trainings [get]
func (h *TrainingHandler) ListTrainings(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	trainings, err := h.trainingService.ListTrainings(c.Request.Context(), userID)
	if err != nil {
		mapTrainingError(c, err)
		return
	}
	c.JSON(http.StatusOK, trainings)
}

// DeleteTraining godoc
// @Summary Delete one of the caller's trainings
// @Description Removes the training with its embedded exercises and iterations.
// @Tags Trainings
// @Security BearerAuth
// @Param trainingId path string true "Training ID"
// @Success 204 "Deleted"
// @Router /trainings/{trainingId} [delete]
func (h *TrainingHandler) DeleteTraining(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	trainingID, ok := parseIDParam(c, "trainingId")
	if !ok {
		return
	}

	if err := h.trainingService.DeleteTraining(c.Request.Context(), userID, trainingID); err != nil {
		mapTrainingError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
