package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"taskboard/internal/auth"
	"taskboard/internal/config"
	"taskboard/internal/handler"
	"taskboard/internal/handler/sse"
	"taskboard/internal/middleware"
	"taskboard/internal/realtime"
	"taskboard/internal/repository/postgres"
	"taskboard/internal/roles"
	"taskboard/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier backed by the identity provider's JWKS endpoint
	jwtVerifier, err := auth.NewJWKSVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)
	projectRepo := postgres.NewProjectRepository(repoConfig)
	taskRepo := postgres.NewTaskRepository(repoConfig)
	participationRepo := postgres.NewParticipationRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Initialize role catalog
	catalog, err := roles.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize role catalog: %v", err)
	}

	// Create domain services
	userService := service.NewUserService(userRepo, txManager, logger)
	projectService := service.NewProjectService(projectRepo, participationRepo, userRepo, txManager, catalog, logger)
	taskService := service.NewTaskService(taskRepo, projectRepo, participationRepo, userRepo, txManager, catalog, logger)
	participationService := service.NewParticipationService(participationRepo, projectRepo, userRepo, txManager, catalog, logger)

	// Realtime hub and post-commit fanout
	hub := realtime.NewHub(logger)
	fanout := realtime.NewFanout(hub, projectService, participationService, userService, logger)

	// Create handlers
	sseConfig := sse.DefaultConfig()
	sseConfig.KeepAliveInterval = cfg.KeepAliveInterval
	userHandler := handler.NewUserHandler(userService, fanout, logger)
	projectHandler := handler.NewProjectHandler(projectService, fanout, logger)
	taskHandler := handler.NewTaskHandler(taskService, fanout, logger)
	participationHandler := handler.NewParticipationHandler(participationService, fanout, logger)
	eventsHandler := handler.NewEventsHandler(hub, sseConfig, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// User routes
	mux.HandleFunc("GET /api/users/me", userHandler.Me)
	mux.HandleFunc("PATCH /api/users/me", userHandler.Update)
	mux.HandleFunc("GET /api/users/{id}", userHandler.Get)
	mux.HandleFunc("POST /api/users/search", userHandler.Find)

	// Project routes
	mux.HandleFunc("GET /api/projects", projectHandler.List)
	mux.HandleFunc("POST /api/projects", projectHandler.Create)
	mux.HandleFunc("GET /api/projects/{id}", projectHandler.Get)
	mux.HandleFunc("PATCH /api/projects/{id}", projectHandler.Update)
	mux.HandleFunc("DELETE /api/projects/{id}", projectHandler.Delete)

	// Project membership routes
	mux.HandleFunc("GET /api/projects/{id}/participants", participationHandler.List)
	mux.HandleFunc("POST /api/projects/{id}/participants", participationHandler.Add)
	mux.HandleFunc("DELETE /api/projects/{id}/participants", participationHandler.Remove)

	// Task routes
	mux.HandleFunc("GET /api/tasks", taskHandler.List)
	mux.HandleFunc("POST /api/tasks", taskHandler.Create)
	mux.HandleFunc("GET /api/tasks/{id}", taskHandler.Get)
	mux.HandleFunc("PATCH /api/tasks/{id}", taskHandler.Update)
	mux.HandleFunc("DELETE /api/tasks/{id}", taskHandler.Delete)

	// Realtime routes
	mux.HandleFunc("GET /api/events", eventsHandler.Stream) // SSE event stream
	mux.HandleFunc("POST /api/events/{id}/login", eventsHandler.Login)
	mux.HandleFunc("POST /api/events/{id}/logout", eventsHandler.Logout)
	mux.HandleFunc("POST /api/events/{id}/projects/{projectId}", eventsHandler.ViewProject)
	mux.HandleFunc("DELETE /api/events/{id}/projects/{projectId}", eventsHandler.LeaveProject)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	root = middleware.Auth(jwtVerifier)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "Last-Event-ID"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
	}

	// Shut down cleanly on SIGINT/SIGTERM, draining in-flight fanouts so
	// committed mutations still reach their subscribers
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh

		logger.Info("shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		fanout.Wait()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	// Start server
	logger.Info("server starting", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
