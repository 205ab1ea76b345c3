package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/CourageAllien/studioportal/internal/availability"
	"github.com/CourageAllien/studioportal/internal/config"
	"github.com/CourageAllien/studioportal/internal/database"
	"github.com/CourageAllien/studioportal/internal/handlers"
	"github.com/CourageAllien/studioportal/internal/intake"
	"github.com/CourageAllien/studioportal/internal/lifecycle"
	"github.com/CourageAllien/studioportal/internal/logger"
	"github.com/CourageAllien/studioportal/internal/queue"
	"github.com/CourageAllien/studioportal/internal/repository"
	"github.com/CourageAllien/studioportal/internal/router"
	"github.com/CourageAllien/studioportal/internal/services"
)

func main() {

	ctx := context.Background()

	// Load application configuration
	cfg := config.New()
	log.Println("Configuration loaded successfully")

	// Initialize structured logging
	logger.Init(cfg.LogLevel)

	// Load the booking window, falling back to defaults when no file exists
	window, err := availability.LoadWindow(cfg.BookingConfigPath)
	if err != nil {
		log.Fatalf("Failed to load booking window configuration: %v", err)
	}
	log.Printf("Booking window loaded: provider hours %d-%d (UTC%+d)", window.StartHour, window.EndHour, window.ProviderUTCOffset)

	// Initialize database configuration
	dbConfig := database.NewConfig(cfg)

	log.Printf("Initializing DynamoDB client for tables: %s, %s in region: %s",
		dbConfig.WorkspacesTableName, dbConfig.RequestsTableName, dbConfig.Region)

	// Create DynamoDB client
	dbClient, err := database.NewClient(ctx, dbConfig)
	if err != nil {
		log.Fatalf("Failed to initialize DynamoDB client: %v", err)
	}

	log.Println("DynamoDB client initialized successfully")

	// Initialize database operations
	workspaceDB := database.NewWorkspaceOperations(dbClient, dbConfig.WorkspacesTableName)
	requestDB := database.NewRequestOperations(dbClient, dbConfig.RequestsTableName)

	// Initialize repositories
	workspaceRepo := repository.NewWorkspaceRepository(workspaceDB)
	requestRepo := repository.NewRequestRepository(requestDB)
	log.Println("Repositories initialized with DynamoDB backend")

	// Initialize Redis-backed intake draft store
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	intakeStore := intake.NewStore(redisClient)
	log.Printf("Intake draft store initialized (redis: %s)", cfg.RedisAddr)

	// Initialize the email queue and worker pool
	jobQueue := queue.NewJobQueue(100)
	workerPool := queue.NewWorkerPool(jobQueue, cfg.EmailWorkers)

	var mailer services.Mailer
	if cfg.SMTPConfigured() {
		mailer = services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
		log.Printf("SMTP mailer initialized (host: %s)", cfg.SMTPHost)
	} else {
		mailer = services.NoopMailer{}
		log.Println("SMTP not configured, outbound email disabled")
	}

	workerPool.Start(func(job *queue.EmailJob) error {
		return mailer.Send(job.To, job.Subject, job.Body)
	})
	log.Printf("Email workers started (%d concurrent)", cfg.EmailWorkers)

	// Initialize notifier and lifecycle engine
	notifier := services.NewNotifier(jobQueue)
	engine := lifecycle.NewEngine(nil, cfg.StrictTransitions)

	// Initialize services
	workspaceService := services.NewWorkspaceService(workspaceRepo, requestRepo, notifier)
	requestService := services.NewRequestService(requestRepo, workspaceRepo, engine, notifier)
	log.Println("Services initialized")

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	availabilityHandler := handlers.NewAvailabilityHandler(window)
	intakeHandler := handlers.NewIntakeHandler(intakeStore, requestService)
	portalHandler := handlers.NewPortalHandler(requestService)
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceService)
	requestAdminHandler := handlers.NewRequestAdminHandler(requestService)
	log.Println("Handlers initialized")

	// Setup router
	r := router.Setup(
		healthHandler,
		availabilityHandler,
		intakeHandler,
		portalHandler,
		workspaceHandler,
		requestAdminHandler,
		workspaceRepo,
		cfg.AdminJWTSecret,
	)

	// Setup graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down server gracefully...")

		// Close job queue to stop accepting new email jobs
		jobQueue.Close()
		log.Println("Email queue closed, waiting for workers to finish...")

		// Wait for workers to finish sending queued mail
		workerPool.Wait()
		log.Println("All workers stopped")

		os.Exit(0)
	}()

	// Start server
	log.Printf("Starting server on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
