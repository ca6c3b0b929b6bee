package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	h "github.com/gorilla/handlers"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"github.com/studiohaven/cms-api/internal/config"
	"github.com/studiohaven/cms-api/internal/handlers"
	"github.com/studiohaven/cms-api/internal/inquiry"
	"github.com/studiohaven/cms-api/internal/middleware"
	"github.com/studiohaven/cms-api/internal/migration"
	"github.com/studiohaven/cms-api/internal/notification"
	"github.com/studiohaven/cms-api/internal/repository"
	"github.com/studiohaven/cms-api/internal/routes"
	"github.com/studiohaven/cms-api/internal/storage"
	"github.com/studiohaven/cms-api/internal/stream"
	"github.com/studiohaven/cms-api/internal/temporal"
	"github.com/studiohaven/cms-api/internal/temporal/activities"
	"github.com/studiohaven/cms-api/internal/temporal/workflows"
	"github.com/studiohaven/cms-api/internal/views"

	_ "github.com/lib/pq" // PostgreSQL driver
	tc "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
)

type application struct {
	config         *config.Config
	db             *sql.DB
	temporalClient tc.Client
	logger         zerolog.Logger
	notifications  notification.Service
	blobs          storage.BlobStore
}

func main() {
	// Set up structured, level-based logging.
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	logger := zerolog.New(consoleWriter).With().Timestamp().Logger()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.SetFlags(0)
	log.SetOutput(logger)

	temporalLogger := temporal.NewLogger(logger)

	gooseAdapter := migration.NewGooseAdapter(logger)
	goose.SetLogger(gooseAdapter)

	// Load configuration.
	cfg := config.Load()

	// Initialize database connection.
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to the database")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to ping database")
	}

	// Run database migrations.
	migration.RunMigrations(cfg.DatabaseURL, logger)

	// Object store for attachments and content images.
	blobs, err := storage.NewMinioStore(cfg.Storage, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to configure object storage")
	}

	// Notification service: fan-out records plus the live SSE registry.
	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)
	registry := stream.NewRegistry()
	notificationService := notification.NewService(notificationRepo, userRepo, registry, logger)

	// Initialize Temporal client.
	temporalClient, err := tc.Dial(tc.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    temporalLogger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Unable to create Temporal client")
	}
	defer temporalClient.Close()

	// Create the application instance.
	app := &application{
		config:         cfg,
		db:             db,
		temporalClient: temporalClient,
		logger:         logger,
		notifications:  notificationService,
		blobs:          blobs,
	}

	// Start the Temporal worker in a separate goroutine.
	temporalWorker := app.startTemporalWorker(logger)

	// Initialize the HTTP router and middleware.
	router := app.initRouter(logger)
	loggedRouter := middleware.LoggingMiddleware(app.logger)(router)
	corsHandler := h.CORS(
		h.AllowedOrigins([]string{"http://localhost:3000"}),
		h.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		h.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		h.AllowCredentials(),
	)(loggedRouter)

	// Start the HTTP server and handle graceful shutdown.
	app.startServer(corsHandler, temporalWorker, logger)

	logger.Info().Msg("Application terminated.")
}

// initRouter sets up all HTTP handlers and returns the router.
func (app *application) initRouter(logger zerolog.Logger) http.Handler {
	// Repositories
	inquiryRepo := repository.NewInquiryRepository(app.db)
	viewsRepo := repository.NewViewsRepository(app.db)
	newsRepo := repository.NewNewsRepository(app.db)
	projectRepo := repository.NewProjectRepository(app.db)
	faqRepo := repository.NewFAQRepository(app.db)
	companyRepo := repository.NewCompanyRepository(app.db)
	userRepo := repository.NewUserRepository(app.db)

	// Outbound mail
	mailer, err := notification.NewSMTPMailer(app.config.Email, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure mailer")
	}

	// Services
	dispatcher := temporal.NewWorkflowDispatcher(app.temporalClient)
	inquiryService := inquiry.NewService(inquiryRepo, app.blobs, mailer, dispatcher, logger)
	viewsService := views.NewService(viewsRepo, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, app.config.JWTSecret, logger)
	inquiryHandler := handlers.NewInquiryHandler(inquiryService, logger)
	notificationHandler := handlers.NewNotificationHandler(app.notifications, logger)
	viewsHandler := handlers.NewViewsHandler(viewsService, logger)
	newsHandler := handlers.NewNewsHandler(newsRepo, app.blobs, logger)
	projectHandler := handlers.NewProjectHandler(projectRepo, app.blobs, logger)
	faqHandler := handlers.NewFAQHandler(faqRepo, logger)
	companyHandler := handlers.NewCompanyHandler(companyRepo, logger)

	return routes.NewRouter(authHandler, inquiryHandler, notificationHandler, viewsHandler, newsHandler, projectHandler, faqHandler, companyHandler)
}

func (app *application) startTemporalWorker(logger zerolog.Logger) worker.Worker {
	activityImpl := &activities.Activities{
		Notifications: app.notifications,
	}

	w := worker.New(app.temporalClient, temporal.TaskQueueName, worker.Options{})

	w.RegisterWorkflow(workflows.DispatchWorkflow)
	w.RegisterActivity(activityImpl)

	// Start the worker in a goroutine so it doesn't block.
	go func() {
		logger.Info().Msg("Starting Temporal worker...")
		if err := w.Run(worker.InterruptCh()); err != nil {
			logger.Fatal().Err(err).Msg("Unable to start worker")
		}
	}()

	return w
}

// startServer launches the HTTP server and handles graceful shutdown.
func (app *application) startServer(handler http.Handler, temporalWorker worker.Worker, logger zerolog.Logger) {
	server := &http.Server{
		Addr:    ":" + app.config.ServerPort,
		Handler: handler,
	}

	// Channel to listen for server errors
	serverErrCh := make(chan error, 1)
	go func() {
		logger.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	// Wait for an interrupt signal or a server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info().Msgf("Received signal: %s. Shutting down...", sig)
	case err := <-serverErrCh:
		logger.Error().Err(err).Msg("Server error occurred")
	}

	// Gracefully shut down the HTTP server.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	} else {
		logger.Info().Msg("HTTP server shutdown complete.")
	}

	// Stop the Temporal worker.
	logger.Info().Msg("Stopping Temporal worker...")
	temporalWorker.Stop()
	logger.Info().Msg("Temporal worker stopped.")
}
