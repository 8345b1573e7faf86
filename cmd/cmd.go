package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trip-planner-backend/internal/aggregate"
	"trip-planner-backend/internal/config"
	"trip-planner-backend/internal/db"
	"trip-planner-backend/internal/handlers"
	"trip-planner-backend/internal/middleware"
	"trip-planner-backend/internal/repository"
	"trip-planner-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	ctx := context.Background()

	if cfg.Database.RunMigrations {
		if err := db.Migrate(cfg.Database.MigrationURL()); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
		log.Info().Msg("Database migrations applied")
	}

	// Connect to database
	pool, err := db.Connect(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()
	log.Info().Msg("Database connection established")

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool)
	tripRepo := repository.NewTripRepository(pool)
	placeRepo := repository.NewPlaceRepository(pool)
	expenseRepo := repository.NewExpenseRepository(pool)
	photoRepo := repository.NewPhotoRepository(pool)
	segmentRepo := repository.NewTravelSegmentRepository(pool)

	// External clients; each one is optional
	var storage services.ObjectStorage
	if cfg.AWS.S3Bucket != "" {
		s3Storage, err := services.NewS3Storage(ctx, cfg.AWS)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create photo storage")
		}
		storage = s3Storage
	} else {
		log.Warn().Msg("aws.s3_bucket is not set, photo uploads are disabled")
	}

	var completer services.Completer
	if cfg.AI.APIKey != "" {
		gemini, err := services.NewGeminiCompleter(ctx, cfg.AI)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create AI client")
		}
		completer = gemini
	} else {
		log.Warn().Msg("ai.api_key is not set, AI suggestions fall back to defaults")
	}

	var mapsService *services.MapsService
	var searcher services.PlaceSearcher
	if cfg.Maps.APIKey != "" {
		mapsService, err = services.NewMapsService(cfg.Maps, cfg.Cache)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create maps client")
		}
		searcher = mapsService
	} else {
		log.Warn().Msg("maps.api_key is not set, maps routes are disabled")
	}

	// Initialize services
	wsHub := services.NewWSHub()
	recalc := aggregate.NewRecalculator(tripRepo)
	aiService := services.NewAIService(completer, cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	userService := services.NewUserService(userRepo, cfg.JWT.Secret, cfg.JWT.TTLDays)
	tripService := services.NewTripService(tripRepo, placeRepo, expenseRepo, photoRepo, segmentRepo, storage, wsHub)
	placeService := services.NewPlaceService(tripRepo, placeRepo, recalc, aiService, searcher, wsHub, cfg.Itinerary.SortStep)
	expenseService := services.NewExpenseService(tripRepo, expenseRepo, recalc, wsHub)
	photoService := services.NewPhotoService(tripRepo, photoRepo, storage, recalc, wsHub)
	segmentService := services.NewTravelSegmentService(tripRepo, segmentRepo, recalc, wsHub)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	tripHandler := handlers.NewTripHandler(tripService)
	placeHandler := handlers.NewPlaceHandler(placeService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	photoHandler := handlers.NewPhotoHandler(photoService)
	segmentHandler := handlers.NewTravelSegmentHandler(segmentService)
	aiHandler := handlers.NewAIHandler(aiService, tripService, placeService)
	wsHandler := handlers.NewWebSocketHandler(wsHub, userService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", userHandler.Register)
		r.Post("/auth/login", userHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))
			r.Get("/me", userHandler.Me)
			r.Get("/stats", tripHandler.Stats)

			r.Get("/trips", tripHandler.ListTrips)
			r.Post("/trips", tripHandler.CreateTrip)
			r.Route("/trips/{trip_id}", func(r chi.Router) {
				r.Get("/", tripHandler.GetTrip)
				r.Patch("/", tripHandler.UpdateTrip)
				r.Delete("/", tripHandler.DeleteTrip)
				r.Get("/detail", tripHandler.GetTripDetail)
				r.Post("/recalculate", tripHandler.Recalculate)

				r.Get("/places", placeHandler.ListPlaces)
				r.Post("/places", placeHandler.AddPlace)
				r.Get("/places/{place_id}", placeHandler.GetPlace)
				r.Patch("/places/{place_id}", placeHandler.UpdatePlace)
				r.Put("/places/{place_id}/visited", placeHandler.SetVisited)
				r.Delete("/places/{place_id}", placeHandler.DeletePlace)
				r.Post("/itinerary/optimize", placeHandler.OptimizeItinerary)

				r.Get("/expenses", expenseHandler.ListExpenses)
				r.Post("/expenses", expenseHandler.AddExpense)
				r.Delete("/expenses/{expense_id}", expenseHandler.DeleteExpense)

				r.Get("/photos", photoHandler.ListPhotos)
				r.Post("/photos/upload", photoHandler.UploadPhoto)
				r.Delete("/photos/{photo_id}", photoHandler.DeletePhoto)

				r.Get("/segments", segmentHandler.ListSegments)
				r.Post("/segments", segmentHandler.AddSegment)
				r.Patch("/segments/{segment_id}", segmentHandler.UpdateSegment)
				r.Delete("/segments/{segment_id}", segmentHandler.DeleteSegment)

				r.Get("/suggestions", aiHandler.Suggestions)
				r.Post("/suggestions", aiHandler.AddSuggestion)
				r.Post("/description", aiHandler.Describe)
			})

			r.Get("/ai/tips", aiHandler.Tips)
			r.Get("/ai/budget", aiHandler.Budget)

			if mapsService != nil {
				mapsHandler := handlers.NewMapsHandler(mapsService)
				r.Route("/maps", func(r chi.Router) {
					r.Get("/search", mapsHandler.Search)
					r.Get("/nearby", mapsHandler.Nearby)
					r.Get("/places/{place_id}", mapsHandler.Details)
					r.Get("/directions", mapsHandler.Directions)
					r.Get("/geocode", mapsHandler.Geocode)
				})
			}
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Hijacked WebSocket connections are not closed by Shutdown
	wsHub.CloseAll()

	if err := srv.Shutdown(shutdownCtx); err != nil {
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

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
