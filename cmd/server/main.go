package main

import (
	"codeflex/fitness-api/internal/api"
	"codeflex/fitness-api/internal/auth"
	"codeflex/fitness-api/internal/config"
	"codeflex/fitness-api/internal/events"
	"codeflex/fitness-api/internal/inference"
	"codeflex/fitness-api/internal/logger"
	"codeflex/fitness-api/internal/ratelimit"
	"codeflex/fitness-api/internal/repository"
	"codeflex/fitness-api/internal/repository/memory"
	"codeflex/fitness-api/internal/repository/mongo"
	"codeflex/fitness-api/internal/service"
	"codeflex/fitness-api/internal/storage"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// @title CodeFlex Fitness API
// @version 1.0
// @description Accounts, workout/diet plans and AI plan generation.
// @BasePath /api
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name jwt
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("environment", cfg.Server.Environment).Msg("starting fitness api")

	if !cfg.Server.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Repositories ---
	var (
		userRepo repository.UserRepository
		planRepo repository.PlanRepository
	)
	switch cfg.Database.Driver {
	case "memory":
		log.Warn().Msg("using in-memory repositories, data is lost on exit")
		userRepo = memory.NewUserRepo()
		planRepo = memory.NewPlanRepo()
	default:
		dbClient, err := mongo.ConnectDB(cfg.Database.URI)
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to MongoDB")
		}
		defer func() {
			log.Info().Msg("disconnecting MongoDB")
			if err := mongo.DisconnectDB(dbClient); err != nil {
				log.Error().Err(err).Msg("failed to disconnect MongoDB")
			}
		}()
		appDB := dbClient.Database(cfg.Database.Name)
		log.Info().Str("database", cfg.Database.Name).Msg("database connection established")

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			mongo.EnsureIndexes(ctx, appDB)
			log.Info().Msg("index creation process completed")
		}()

		userRepo = mongo.NewMongoUserRepository(appDB)
		planRepo = mongo.NewMongoPlanRepository(appDB)
	}

	// --- Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize S3 storage")
		}
	} else {
		log.Warn().Msg("s3.bucket_name not set, profile images disabled")
	}

	// --- Rate limiting ---
	var limiter api.RateLimiter
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, rate limiting disabled")
		} else {
			limiter = ratelimit.NewLimiter(rdb)
		}
		cancel()
	}

	// --- Events ---
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Events.URL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			log.Warn().Err(err).Msg("rabbitmq unavailable, events disabled")
		} else {
			publisher = amqpPublisher
		}
	}
	defer publisher.Close()

	// --- Services ---
	sessions := auth.NewSessionIssuer(cfg.JWT.Secret, cfg.JWT.Expiration, nil)
	generator := inference.NewClient(inference.Options{
		BaseURL:     cfg.Inference.BaseURL,
		APIKey:      cfg.Inference.APIKey,
		Model:       cfg.Inference.Model,
		MaxTokens:   cfg.Inference.MaxTokens,
		Temperature: cfg.Inference.Temperature,
	})

	authService := service.NewAuthService(userRepo, sessions, publisher, bcrypt.DefaultCost)
	userService := service.NewUserService(userRepo, fileStorage)
	planService := service.NewPlanService(planRepo, publisher)
	generationService := service.NewGenerationService(generator, planService, cfg.Inference.Timeout)

	if len(cfg.Admin.Emails) > 0 {
		adminCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := userService.EnsureAdmins(adminCtx, cfg.Admin.Emails); err != nil {
			log.Error().Err(err).Msg("failed to grant admin roles")
		}
		cancel()
	}

	// --- Routes ---
	router, err := api.NewRouter(api.Dependencies{
		AuthService:       authService,
		UserService:       userService,
		PlanService:       planService,
		GenerationService: generationService,
		Cookie: api.SessionCookie{
			Name:   cfg.JWT.CookieName,
			TTL:    sessions.TTL(),
			Secure: !cfg.Server.IsDevelopment(),
		},
		Limiter: limiter,
		RateLimits: api.RateLimits{
			LoginLimit:     cfg.RateLimit.LoginLimit,
			LoginWindow:    cfg.RateLimit.LoginWindow,
			GenerateLimit:  cfg.RateLimit.GenerateLimit,
			GenerateWindow: cfg.RateLimit.GenerateWindow,
		},
		TrustedProxies: cfg.Server.TrustedProxies,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("invalid server.trusted_proxies")
	}

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.Address).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exiting")
}
