package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sentinel-mod/sentinel-api/internal/config"
	"github.com/sentinel-mod/sentinel-api/internal/content"
	"github.com/sentinel-mod/sentinel-api/internal/domain/audit"
	"github.com/sentinel-mod/sentinel-api/internal/domain/auth"
	"github.com/sentinel-mod/sentinel-api/internal/domain/notification"
	"github.com/sentinel-mod/sentinel-api/internal/domain/queue"
	"github.com/sentinel-mod/sentinel-api/internal/domain/rules"
	"github.com/sentinel-mod/sentinel-api/internal/domain/trust"
	"github.com/sentinel-mod/sentinel-api/internal/domain/user"
	"github.com/sentinel-mod/sentinel-api/internal/middleware"
	"github.com/sentinel-mod/sentinel-api/internal/pkg/archive"
	"github.com/sentinel-mod/sentinel-api/internal/pkg/database"
	"github.com/sentinel-mod/sentinel-api/internal/pkg/jwt"
	"github.com/sentinel-mod/sentinel-api/internal/pkg/ratelimit"
	pkgresponse "github.com/sentinel-mod/sentinel-api/internal/pkg/response"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Sentinel API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	// ---------- Content adapters ----------
	registry := content.NewRegistry()
	registry.Register("post", content.NewTableAdapter(db, "posts", "status"))
	registry.Register("comment", content.NewTableAdapter(db, "comments", "status"))
	registry.Register("message", content.NewTableAdapter(db, "messages", "status"))
	registry.Register("listing", content.NewTableAdapter(db, "listings", "status"))

	// ---------- Evidence archive ----------
	var evidence archive.Store
	if cfg.ArchiveEndpoint != "" {
		evidence, err = archive.NewS3Store(archive.S3Config{
			Endpoint:        cfg.ArchiveEndpoint,
			AccessKeyID:     cfg.ArchiveAccessKeyID,
			AccessKeySecret: cfg.ArchiveAccessKeySecret,
			BucketName:      cfg.ArchiveBucketName,
			PublicURL:       cfg.ArchivePublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create evidence archive")
		}
	} else {
		log.Warn().Msg("Evidence archive disabled, content snapshots will be skipped")
	}

	// ---------- Event hub ----------
	hub := notification.NewHub(redisClient)
	go hub.Run()
	defer hub.Shutdown()

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	rulesRepo := rules.NewRepository(db)
	auditRepo := audit.NewRepository(db)
	queueRepo := queue.NewRepository(db, auditRepo)
	trustRepo := trust.NewRepository(db)

	reportLimiter := ratelimit.NewRedisLimiter(redisClient, "reports", cfg.ReportRateLimit, cfg.ReportRateWindow)

	// ---------- Services ----------
	queueService := queue.NewService(queueRepo, registry, evidence, hub)
	rulesService := rules.NewService(rulesRepo, queueService, cfg.PreviewMaxLength)
	trustService := trust.NewService(trustRepo, userRepo, registry, reportLimiter, hub, cfg.ReportThreshold)
	authService := auth.NewService(userRepo, jwtService, trustService, cfg.GatedSignupReasons)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	rulesHandler := rules.NewHandler(rulesService)
	queueHandler := queue.NewHandler(queueService)
	auditHandler := audit.NewHandler(auditRepo)
	trustHandler := trust.NewHandler(trustService)
	feedHandler := notification.NewHandler(hub, cfg.AllowedOrigins)

	authMiddleware := middleware.Auth(jwtService)
	reviewerMiddleware := middleware.RequireReviewer()
	adminMiddleware := middleware.RequireAdmin()
	unrestrictedMiddleware := middleware.RequireUnrestricted()

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint (before Compress)
	r.Get("/ws/moderation", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		authMiddleware(reviewerMiddleware(http.HandlerFunc(feedHandler.LiveFeed))).ServeHTTP(w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/moderation", rulesHandler.Routes(authMiddleware))
		r.Mount("/moderation/reports", trustHandler.Routes(authMiddleware, unrestrictedMiddleware))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Mount("/rules", rulesHandler.AdminRoutes(authMiddleware, adminMiddleware))
		r.Mount("/queue", queueHandler.Routes(authMiddleware, reviewerMiddleware))
		r.Mount("/audit", auditHandler.Routes(authMiddleware, reviewerMiddleware))
		r.Mount("/trust", trustHandler.AdminRoutes(authMiddleware, reviewerMiddleware))
		r.Mount("/reports", trustHandler.ReportRoutes(authMiddleware, reviewerMiddleware))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}
