package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/cardiosynth/internal/api"
	"github.com/RMahshie/cardiosynth/internal/broadcast"
	"github.com/RMahshie/cardiosynth/internal/cache"
	"github.com/RMahshie/cardiosynth/internal/config"
	"github.com/RMahshie/cardiosynth/internal/processing"
	"github.com/RMahshie/cardiosynth/internal/repository/postgres"
	"github.com/RMahshie/cardiosynth/internal/storage"
	"github.com/RMahshie/cardiosynth/pkg/models"
)

const version = "1.0.0"

func main() {
	// Configure zerolog for structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	ctx := context.Background()

	// Database
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if err := postgres.MigrateUp(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	// Object storage
	s3Config := storage.S3Config{
		Bucket:    cfg.AWS.S3Bucket,
		Endpoint:  cfg.AWS.S3Endpoint,
		Region:    cfg.AWS.Region,
		AccessKey: cfg.AWS.AccessKeyID,
		SecretKey: cfg.AWS.SecretAccessKey,
	}
	if err := storage.EnsureBucket(ctx, s3Config); err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare bucket")
	}
	s3Service, err := storage.NewS3Service(ctx, s3Config)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create S3 service")
	}

	generator, err := cfg.NewGenerator(log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create generator")
	}

	deps := api.Dependencies{
		Generator:      generator,
		Recordings:     postgres.NewPostgresRecordingRepository(db),
		S3:             s3Service,
		Logger:         log.Logger,
		MaxDuration:    cfg.Engine.MaxDuration,
		ChunkSeconds:   cfg.Engine.ChunkSeconds,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}
	deps.Processing = processing.NewRecordingService(generator, s3Service, deps.Recordings, log.Logger)

	// Optional result cache
	if cfg.Redis.Addr != "" {
		resultCache := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL, cfg.CacheNamespace())
		defer resultCache.Close()
		if err := resultCache.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unavailable, result cache disabled")
		} else {
			deps.Cache = resultCache
		}
	}

	// Optional live relay of the producer's NATS stream
	var nc *nats.Conn
	if cfg.NATS.URL != "" {
		nc, err = broadcast.Connect(cfg.NATS.URL, "cardiosynth-server")
		if err != nil {
			log.Warn().Err(err).Str("url", cfg.NATS.URL).Msg("NATS unavailable, live relay disabled")
		} else {
			defer nc.Drain()
			deps.Hub = broadcast.NewHub()
			stop, err := broadcast.Relay(nc, cfg.NATS.Subject, deps.Hub, log.Logger)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to subscribe to live stream")
			}
			defer stop()
		}
	}

	// Create Chi router
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(zerologLogger())
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Cache"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Create Huma API
	humaConfig := huma.DefaultConfig("Cardiosynth API", version)
	humaConfig.DocsPath = "/api/docs"
	humaAPI := humachi.New(router, humaConfig)

	// Register health endpoint
	huma.Register(humaAPI, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service",
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		resp := &models.HealthResponse{}
		resp.Body.Status = "healthy"
		resp.Body.Version = version
		resp.Body.Time = time.Now()
		return resp, nil
	})

	api.RegisterRoutes(router, humaAPI, deps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("environment", cfg.Server.Env).Msg("Starting Cardiosynth API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologLogger returns a Chi middleware that logs HTTP requests using zerolog
func zerologLogger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("remote_ip", r.RemoteAddr).
					Int("status", ww.Status()).
					Dur("latency", time.Since(start)).
					Str("user_agent", r.UserAgent()).
					Msg("HTTP request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
