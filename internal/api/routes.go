package api

import (
	"atlas/fitness-backend/internal/domain"
	"atlas/fitness-backend/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	profileService service.ProfileService,
	catalogService service.CatalogService,
	trainingService service.TrainingService,
	statsService service.StatsService,
	recommendationService service.RecommendationService,
) {
	authHandler := NewAuthHandler(authService)
	profileHandler := NewProfileHandler(profileService)
	catalogHandler := NewCatalogHandler(catalogService)
	trainingHandler := NewTrainingHandler(trainingService)
	statsHandler := NewStatsHandler(statsService, recommendationService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/google", authHandler.LoginWithGoogle)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userID.Hex(), "role": role})
		})

		// --- Profile ---
		profileGroup := protected.Group("/profile")
		{
			profileGroup.POST("", profileHandler.CreateProfile)
			profileGroup.PUT("", profileHandler.UpdateProfile)
			profileGroup.GET("", profileHandler.GetProfile)

			profileGroup.POST("/weights", profileHandler.AddWeight)
			profileGroup.GET("/weights", profileHandler.ListWeights)
			profileGroup.DELETE("/weights/:entryId", profileHandler.RemoveWeight)

			profileGroup.PUT("/exclusions/muscles", profileHandler.SetExcludedMuscles)
			profileGroup.GET("/exclusions/muscles", profileHandler.ListExcludedMuscles)
			profileGroup.PUT("/exclusions/equipment", profileHandler.SetExcludedEquipment)
			profileGroup.GET("/exclusions/equipment", profileHandler.ListExcludedEquipment)
		}

		// --- Catalog: reads for everyone, writes for admins ---
		catalogGroup := protected.Group("/catalog")
		{
			catalogGroup.GET("/muscle-groups", catalogHandler.ListMuscleGroups)
			catalogGroup.GET("/muscles", catalogHandler.ListMuscles)
			catalogGroup.GET("/equipment-groups", catalogHandler.ListEquipmentGroups)
			catalogGroup.GET("/equipment", catalogHandler.ListEquipment)
			catalogGroup.GET("/examples", catalogHandler.ListExerciseExamples)
			catalogGroup.GET("/examples/:id", catalogHandler.GetExerciseExample)
			catalogGroup.GET("/examples/:id/media", catalogHandler.GetExampleMediaDownload)

			adminOnly := RoleMiddleware(domain.RoleAdmin)
			catalogGroup.POST("/muscle-groups", adminOnly, catalogHandler.CreateMuscleGroup)
			catalogGroup.PUT("/muscle-groups/:id", adminOnly, catalogHandler.UpdateMuscleGroup)
			catalogGroup.DELETE("/muscle-groups/:id", adminOnly, catalogHandler.DeleteMuscleGroup)
			catalogGroup.POST("/muscles", adminOnly, catalogHandler.CreateMuscle)
			catalogGroup.PUT("/muscles/:id", adminOnly, catalogHandler.UpdateMuscle)
			catalogGroup.DELETE("/muscles/:id", adminOnly, catalogHandler.DeleteMuscle)
			catalogGroup.POST("/equipment-groups", adminOnly, catalogHandler.CreateEquipmentGroup)
			catalogGroup.PUT("/equipment-groups/:id", adminOnly, catalogHandler.UpdateEquipmentGroup)
			catalogGroup.DELETE("/equipment-groups/:id", adminOnly, catalogHandler.DeleteEquipmentGroup)
			catalogGroup.POST("/equipment", adminOnly, catalogHandler.CreateEquipment)
			catalogGroup.PUT("/equipment/:id", adminOnly, catalogHandler.UpdateEquipment)
			catalogGroup.DELETE("/equipment/:id", adminOnly, catalogHandler.DeleteEquipment)
			catalogGroup.POST("/examples", adminOnly, catalogHandler.CreateExerciseExample)
			catalogGroup.PUT("/examples/:id", adminOnly, catalogHandler.ReplaceExerciseExample)
			catalogGroup.DELETE("/examples/:id", adminOnly, catalogHandler.DeleteExerciseExample)
			catalogGroup.POST("/examples/:id/media", adminOnly, catalogHandler.RequestExampleMediaUpload)
		}

		// --- Trainings ---
		trainingGroup := protected.Group("/trainings")
		{
			trainingGroup.PUT("", trainingHandler.SetTraining)
			trainingGroup.GET("", trainingHandler.ListTrainings)
			trainingGroup.GET("/:trainingId", trainingHandler.GetTraining)
			trainingGroup.DELETE("/:trainingId", trainingHandler.DeleteTraining)
		}

		// --- Statistics ---
		statsGroup := protected.Group("/stats")
		{
			statsGroup.GET("/examples/:exampleId/achievements", statsHandler.GetAchievements)
			statsGroup.GET("/examples/:exampleId/best-weight", statsHandler.GetBestWeight)
			statsGroup.GET("/examples/:exampleId/best-tonnage", statsHandler.GetBestTonnage)
			statsGroup.GET("/examples/:exampleId/max-repetitions", statsHandler.GetMaxRepetitions)
			statsGroup.GET("/examples/:exampleId/peak-intensity", statsHandler.GetPeakIntensity)
			statsGroup.GET("/examples/:exampleId/lifetime-volume", statsHandler.GetLifetimeVolume)
			statsGroup.GET("/examples/:exampleId/recent", statsHandler.GetRecentExercises)
			statsGroup.GET("/personal-records", statsHandler.GetPersonalRecords)
			statsGroup.GET("/summary", statsHandler.GetWorkoutSummary)
			statsGroup.GET("/muscles/recent", statsHandler.GetRecentByMuscle)
			statsGroup.GET("/muscles/frequent", statsHandler.GetFrequentByMuscle)
		}

		// --- Recommendations ---
		protected.POST("/recommendations", statsHandler.GetRecommendations)
	}
}
