package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skillswap-backend/internal/config"
	"skillswap-backend/internal/handlers"
	"skillswap-backend/internal/middleware"
	"skillswap-backend/internal/repository"
	"skillswap-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Apply migrations
	if err := repository.RunMigrations(context.Background(), db, cfg.Database.MigrationsDir); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}
	log.Info().Msg("Migrations applied")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	requestRepo := repository.NewSessionRequestRepository(db)
	scheduleRepo := repository.NewSessionScheduleRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	// Initialize services
	clock := services.SystemClock
	userService := services.NewUserService(userRepo, cfg.JWT.Secret, clock)
	skillService := services.NewSkillService(skillRepo, clock)
	requestService := services.NewSessionRequestService(requestRepo, userRepo, clock)
	scheduleService := services.NewSessionScheduleService(scheduleRepo, requestRepo, clock)
	ratingService := services.NewRatingService(ratingRepo, requestRepo, userRepo, clock)
	statsService := services.NewStatsService(statsRepo, userRepo)
	hub := services.NewHub()

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	skillHandler := handlers.NewSkillHandler(skillService)
	requestHandler := handlers.NewSessionRequestHandler(requestService, hub)
	scheduleHandler := handlers.NewSessionScheduleHandler(scheduleService, hub)
	ratingHandler := handlers.NewRatingHandler(ratingService)
	statsHandler := handlers.NewStatsHandler(statsService)
	wsHandler := handlers.NewWebSocketHandler(hub, userService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/users", userHandler.Register)
		r.Post("/users/login", userHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))

			r.Get("/users/{user_id}", userHandler.GetProfile)
			r.Get("/members", userHandler.ListMembers)

			r.Post("/skills", skillHandler.Create)
			r.Get("/users/{user_id}/skills", skillHandler.ListByUser)
			r.Delete("/skills/{skill_id}", skillHandler.Delete)

			r.Post("/session-requests", requestHandler.Create)
			r.Get("/session-requests", requestHandler.List)
			r.Patch("/session-requests/{request_id}/status", requestHandler.UpdateStatus)

			r.Get("/schedules", scheduleHandler.List)
			r.Post("/schedules/{schedule_id}/complete", scheduleHandler.Complete)
			r.Post("/schedules/{schedule_id}/cancel", scheduleHandler.Cancel)

			r.Post("/ratings", ratingHandler.Create)
			r.Get("/users/{user_id}/ratings", ratingHandler.ListByUser)
			r.Get("/users/{user_id}/rating-summary", ratingHandler.Summary)

			r.Get("/admin/stats", statsHandler.PlatformStats)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
