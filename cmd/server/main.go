package main

import (
	"atlas/fitness-backend/internal/api"
	"atlas/fitness-backend/internal/config"
	"atlas/fitness-backend/internal/repository/mongo"
	"atlas/fitness-backend/internal/service"
	"atlas/fitness-backend/internal/storage"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// @title Fitness Backend API
// @version 1.0
// @description API for workout tracking, exercise recommendations and training statistics.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting fitness backend server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureProfileIndexes(ctx, appDB.Collection("profiles"))
		mongo.EnsureMuscleIndexes(ctx, appDB.Collection("muscles"))
		mongo.EnsureEquipmentIndexes(ctx, appDB.Collection("equipment"))
		mongo.EnsureExerciseExampleIndexes(ctx, appDB.Collection("exercise_examples"))
		mongo.EnsureTrainingIndexes(ctx, appDB.Collection("trainings"))
		mongo.EnsureWeightHistoryIndexes(ctx, appDB.Collection("weight_history"))
		mongo.EnsureExclusionIndexes(ctx, appDB.Collection("excluded_muscles"), appDB.Collection("excluded_equipment"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	profileRepo := mongo.NewMongoProfileRepository(appDB)
	muscleGroupRepo := mongo.NewMongoMuscleGroupRepository(appDB)
	muscleRepo := mongo.NewMongoMuscleRepository(appDB)
	equipmentGroupRepo := mongo.NewMongoEquipmentGroupRepository(appDB)
	equipmentRepo := mongo.NewMongoEquipmentRepository(appDB)
	exampleRepo := mongo.NewMongoExerciseExampleRepository(appDB)
	trainingRepo := mongo.NewMongoTrainingRepository(appDB)
	weightRepo := mongo.NewMongoWeightHistoryRepository(appDB)
	exclusionRepo := mongo.NewMongoExclusionRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	var googleVerifier service.GoogleTokenVerifier
	if cfg.Google.ClientID != "" {
		googleVerifier = service.NewGoogleVerifier(cfg.Google.ClientID)
	} else {
		log.Println("Google client ID not configured, federated sign-in disabled.")
	}
	authService := service.NewAuthService(userRepo, googleVerifier, cfg.JWT.Secret, cfg.JWT.Expiration)
	profileService := service.NewProfileService(profileRepo, weightRepo, exclusionRepo, muscleRepo, equipmentRepo)
	catalogService := service.NewCatalogService(muscleGroupRepo, muscleRepo, equipmentGroupRepo, equipmentRepo, exampleRepo, trainingRepo, fileStorage)
	trainingService := service.NewTrainingService(profileRepo, trainingRepo, exampleRepo, weightRepo)
	statsService := service.NewStatsService(profileRepo, trainingRepo, exampleRepo, muscleRepo, muscleGroupRepo)
	recommendationService := service.NewRecommendationService(profileRepo, exampleRepo, muscleRepo, exclusionRepo)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authService, profileService, catalogService, trainingService, statsService, recommendationService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
