package api

import (
	"atlas/fitness-backend/internal/domain"
	"atlas/fitness-backend/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CatalogHandler holds the catalog service dependency.
type CatalogHandler struct {
	catalogService service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// --- DTOs ---

type NamedEntityRequest struct {
	Name string `json:"name" binding:"required"`
}

type MuscleRequest struct {
	MuscleGroupID     string `json:"muscleGroupId" binding:"required"`
	Name              string `json:"name" binding:"required"`
	RecoveryTimeHours *int   `json:"recoveryTimeHours" binding:"omitempty,min=0"`
}

type EquipmentRequest struct {
	EquipmentGroupID string `json:"equipmentGroupId" binding:"required"`
	Name             string `json:"name" binding:"required"`
}

type BundleRequest struct {
	MuscleID   string `json:"muscleId" binding:"required"`
	Percentage int    `json:"percentage" binding:"required,min=1,max=100"`
}

type RuleRequest struct {
	EntryType                 domain.EntryType                 `json:"entryType" binding:"required"`
	LoadType                  domain.LoadType                  `json:"loadType" binding:"required"`
	BodyWeightMultiplier      *float64                         `json:"bodyWeightMultiplier"`
	CanAddExtraWeight         bool                             `json:"canAddExtraWeight"`
	CanUseAssistance          bool                             `json:"canUseAssistance"`
	MissingBodyWeightBehavior domain.MissingBodyWeightBehavior `json:"missingBodyWeightBehavior"`
	RequiresEquipment         bool                             `json:"requiresEquipment"`
}

type ExerciseExampleRequest struct {
	Name         string                  `json:"name" binding:"required"`
	Description  string                  `json:"description"`
	Category     domain.ExerciseCategory `json:"category" binding:"required"`
	WeightType   domain.WeightType       `json:"weightType" binding:"required"`
	ForceType    domain.ForceType        `json:"forceType" binding:"required"`
	Experience   domain.Experience       `json:"experience" binding:"required,oneof=BEGINNER MEDIUM PRO"`
	Bundles      []BundleRequest         `json:"bundles" binding:"required,min=1,dive"`
	EquipmentIDs []string                `json:"equipmentIds"`
	Rule         RuleRequest             `json:"rule" binding:"required"`
}

type MediaUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

func (r *ExerciseExampleRequest) toDomain() (*domain.ExerciseExample, error) {
	bundles := make([]domain.ExerciseExampleBundle, 0, len(r.Bundles))
	for _, b := range r.Bundles {
		muscleID, err := primitive.ObjectIDFromHex(b.MuscleID)
		if err != nil {
			return nil, errors.New("invalid muscle ID in bundle")
		}
		bundles = append(bundles, domain.ExerciseExampleBundle{MuscleID: muscleID, Percentage: b.Percentage})
	}
	equipmentIDs, err := parseObjectIDs(r.EquipmentIDs)
	if err != nil {
		return nil, errors.New("invalid equipment ID")
	}

	return &domain.ExerciseExample{
		Name:         r.Name,
		Description:  r.Description,
		Category:     r.Category,
		WeightType:   r.WeightType,
		ForceType:    r.ForceType,
		Experience:   r.Experience,
		Bundles:      bundles,
		EquipmentIDs: equipmentIDs,
		Rule: domain.ExerciseExampleRule{
			EntryType:                 r.Rule.EntryType,
			LoadType:                  r.Rule.LoadType,
			BodyWeightMultiplier:      r.Rule.BodyWeightMultiplier,
			CanAddExtraWeight:         r.Rule.CanAddExtraWeight,
			CanUseAssistance:          r.Rule.CanUseAssistance,
			MissingBodyWeightBehavior: r.Rule.MissingBodyWeightBehavior,
			RequiresEquipment:         r.Rule.RequiresEquipment,
		},
	}, nil
}

// mapCatalogError translates service errors shared by catalog endpoints.
func mapCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCatalogValidation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrMuscleNotFound),
		errors.Is(err, service.ErrMuscleGroupNotFound),
		errors.Is(err, service.ErrEquipmentNotFound),
		errors.Is(err, service.ErrEquipmentGroupNotFound),
		errors.Is(err, service.ErrExerciseExampleNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDataIntegrity):
		abortWithError(c, http.StatusInternalServerError, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// --- Muscle catalog ---

// CreateMuscleGroup godoc
// @Summary Create a muscle group
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param group body NamedEntityRequest true "Group name"
// @Success 201 {object} domain.MuscleGroup
// @Router /catalog/muscle-groups [post]
func (h *CatalogHandler) CreateMuscleGroup(c *gin.Context) {
	var req NamedEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	group, err := h.catalogService.CreateMuscleGroup(c.Request.Context(), req.Name)
	if err != nil {
		mapCatalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

// UpdateMuscleGroup godoc
// @Summary Rename a muscle group
// @Tags Catalog
// @Security BearerAuth
// @Router /catalog/muscle-groups/{id} [put]
func (h *CatalogHandler) UpdateMuscleGroup(c *gin.Context) {
	var req NamedEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	group, err := h.catalogService.UpdateMuscleGroup(c.Request.Context(), id, req.Name)
	if err != nil {
		mapCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// DeleteMuscleGroup godoc
// @Summary Delete a muscle group
// @Tags Catalog
// @Security BearerAuth
// @Router /catalog/muscle-groups/{id} [delete]
func (h *CatalogHandler) DeleteMuscleGroup(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteMuscleGroup(c.Request.Context(), id); err != nil {
		mapCatalogError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMuscleGroups godoc
// @Summary List all muscle groups
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.MuscleGroup
// @Router /catalog/muscle-groups [get]
func (h *CatalogHandler) ListMuscleGroups(c *gin.Context) {
	groups, err := h.catalogService.ListMuscleGroups(c.Request.Context())
	if err != nil {
		mapCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// CreateMuscle godoc
// @Summary Create a muscle within a group
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param muscle body MuscleRequest true "Muscle details"
// @Success 201 {object} domain.Muscle
// @Router /catalog/muscles [post]
func (h *CatalogHandler) CreateMuscle(c *gin.Context) {
	var req MuscleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	groupID, err := primitive.ObjectIDFromHex(req.MuscleGroupID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid muscle group ID format")
		return
	}
	muscle, err := h.catalogService.CreateMuscle(c.Request.Context(), groupID, req.Name, req.RecoveryTimeHours)
	if err != nil {
		mapCatalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, muscle)
}

// UpdateMuscle godoc
// @Summary Update a muscle
// @Tags Catalog
// @Security BearerAuth
// @Router /catalog/muscles/{id} [put]
func (h *CatalogHandler) UpdateMuscle(c *gin.Context) {
	var req MuscleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	groupID, err := primitive.ObjectIDFromHex(req.MuscleGroupID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid muscle group ID format")
		return
	}
	muscle, err := h.catalogService.UpdateMuscle(c.Request.Context(), id, groupID, req.Name, req.RecoveryTimeHours)
	if err != nil {
		mapCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, muscle)
}

// DeleteMuscle godoc
// @Summary Delete a muscle
// @Tags Catalog
// @Security BearerAuth
// @Router /catalog/muscles/{id} [delete]
func (h *CatalogHandler) DeleteMuscle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteMuscle(c.Request.Context(), id); err != nil {
		mapCatalogError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMuscles godoc
// @Summary List all muscles joined with their groups
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.MuscleWithGroup
// @Router /catalog/muscles [get]
func (h *CatalogHandler) ListMuscles(c *gin.Context) {
	muscles, err := h.catalogService.ListMuscles(c.Request.Context())
	if err != nil {
		mapCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, muscles)
}

// --- Equipment catalog ---

// CreateEquipmentGroup godoc
// @Summary Create an equipment group
// @Tags Catalog
// @Security BearerAuth
// @Router /catalog/equipment-groups [post]
func (h *CatalogHandler) CreateEquipmentGroup(c *gin.Context) {
	var req NamedEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	group, err := h.catalogService.CreateEquipmentGroup(c.Request.Context(), req.Name)
	if err != nil {
		mapCatalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

// UpdateEquipmentGroup godoc
// @Summary Rename an equipment group
// @Tags Catalog
// @Security BearerAuth
// @Router /catalog/equipment-groups/{id} [put]
func (h *CatalogHandler) UpdateEquipmentGroup(c *gin.Context) {
	var req NamedEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	group, err := h.catalogService.UpdateEquipmentGroup(c.Request.Context(), id, req.Name)
	if err != nil {
		mapCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// DeleteEquipmentGroup godoc
// @Summary Delete an equipment group
// @Tags Catalog
// @Security BearerAuth
// @Router /catalog/equipment-groups/{id} [delete]
func (h *CatalogHandler) DeleteEquipmentGroup(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteEquipmentGroup(c.Request.Context(), id); err != nil {
		mapCatalogError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListEquipmentGroups godoc
// @Summary List all equipment groups
// @Tags Catalog
// @Security BearerAuth
// @Router /catalog/equipment-groups [get]
func (h *CatalogHandler) ListEquipmentGroups(c *gin.Context) {
	groups, err := h.catalogService.ListEquipmentGroups(c.Request.Context())
	if err != nil {
		mapCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// CreateEquipment godoc
// @Summary Create an equipment entry within a group
// @Tags Catalog
// @Security BearerAuth
// @Router /catalog/equipment [post]
func (h *CatalogHandler) CreateEquipment(c *gin.Context) {
	var req EquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	groupID, err := primitive.ObjectIDFromHex(req.EquipmentGroupID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid equipment group ID format")
		return
	}
	equipment, err := h.catalogService.CreateEquipment(c.Request.Context(), groupID, req.Name)
	if err != nil {
		mapCatalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, equipment)
}

// UpdateEquipment godoc
// @Summary Update an equipment entry
// @Tags Catalog
// @Security BearerAuth
// @Router /catalog/equipment/{id} [put]
func (h *CatalogHandler) UpdateEquipment(c *gin.Context) {
	var req EquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	groupID, err := primitive.ObjectIDFromHex(req.EquipmentGroupID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid equipment group ID format")
		return
	}
	equipment, err := h.catalogService.UpdateEquipment(c.Request.Context(), id, groupID, req.Name)
	if err != nil {
		mapCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, equipment)
}

// DeleteEquipment godoc
// @Summary Delete an equipment entry
// @Tags Catalog
// @Security BearerAuth
// @Router /catalog/equipment/{id} [delete]
func (h *CatalogHandler) DeleteEquipment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteEquipment(c.Request.Context(), id); err != nil {
		mapCatalogError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListEquipment godoc
// @Summary List all equipment joined with their groups
// @Tags Catalog
// @Security BearerAuth
// @Router /catalog/equipment [get]
func (h *CatalogHandler) ListEquipment(c *gin.Context) {
	equipment, err := h.catalogService.ListEquipment(c.Request.Context())
	if err != nil {
		mapCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, equipment)
}

// --- Exercise examples ---

// CreateExerciseExample godoc
// @Summary Create a catalog exercise example
// @Description Validates bundle percentages, equipment references and the load rule.
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param example body ExerciseExampleRequest true "Example details"
// @Success 201 {object} domain.ExerciseExample
// @Failure 400 {object} gin.H "Validation error"
// @Router /catalog/examples [post]
func (h *CatalogHandler) CreateExerciseExample(c *gin.Context) {
	var req ExerciseExampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	example, err := req.toDomain()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.catalogService.CreateExerciseExample(c.Request.Context(), example)
	if err != nil {
		mapCatalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ReplaceExerciseExample godoc
// @Summary Replace a catalog exercise example wholesale
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param example body ExerciseExampleRequest true "Example details"
// @Success 200 {object} domain.ExerciseExample
// @Router /catalog/examples/{id} [put]
func (h *CatalogHandler) ReplaceExerciseExample(c *gin.Context) {
	var req ExerciseExampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	example, err := req.toDomain()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	example.ID = id
	replaced, err := h.catalogService.ReplaceExerciseExample(c.Request.Context(), example)
	if err != nil {
		mapCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, replaced)
}

// DeleteExerciseExample godoc
// @Summary Delete a catalog exercise example
// @Description Removes the demo media, clears workout references, then deletes the example.
// @Tags Catalog
// @Security BearerAuth
// @Router /catalog/examples/{id} [delete]
func (h *CatalogHandler) DeleteExerciseExample(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteExerciseExample(c.Request.Context(), id); err != nil {
		mapCatalogError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetExerciseExample godoc
// @Summary Get a catalog exercise example
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.ExerciseExample
// @Router /catalog/examples/{id} [get]
func (h *CatalogHandler) GetExerciseExample(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	example, err := h.catalogService.GetExerciseExample(c.Request.Context(), id)
	if err != nil {
		mapCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, example)
}

// ListExerciseExamples godoc
// @Summary List the whole exercise example catalog
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.ExerciseExample
// @Router /catalog/examples [get]
func (h *CatalogHandler) ListExerciseExamples(c *gin.Context) {
	examples, err := h.catalogService.ListExerciseExamples(c.Request.Context())
	if err != nil {
		mapCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, examples)
}

// RequestExampleMediaUpload godoc
// @Summary Get a presigned upload URL for an example's demo media
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param media body MediaUploadRequest true "Content type of the upload"
// @Success 200 {object} service.ExampleMediaURLs
// @Router /catalog/examples/{id}/media [post]
func (h *CatalogHandler) RequestExampleMediaUpload(c *gin.Context) {
	var req MediaUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	urls, err := h.catalogService.RequestExampleMediaUpload(c.Request.Context(), id, req.ContentType)
	if err != nil {
		mapCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, urls)
}

// GetExampleMediaDownload godoc
// @Summary Get a presigned download URL for an example's demo media
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ExampleMediaURLs
// @Router /catalog/examples/{id}/media [get]
func (h *CatalogHandler) GetExampleMediaDownload(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	urls, err := h.catalogService.GetExampleMediaDownload(c.Request.Context(), id)
	if err != nil {
		mapCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, urls)
}
