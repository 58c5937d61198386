package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"

	config "github.com/maheshrc27/socialbridge/configs"
	"github.com/maheshrc27/socialbridge/internal/api/handlers"
	"github.com/maheshrc27/socialbridge/internal/api/middleware"
	"github.com/maheshrc27/socialbridge/internal/executor"
	job "github.com/maheshrc27/socialbridge/internal/jobs"
	"github.com/maheshrc27/socialbridge/internal/lifecycle"
	"github.com/maheshrc27/socialbridge/internal/media"
	"github.com/maheshrc27/socialbridge/internal/platform"
	"github.com/maheshrc27/socialbridge/internal/queue"
	"github.com/maheshrc27/socialbridge/internal/repository"
	"github.com/maheshrc27/socialbridge/internal/service"
	"github.com/maheshrc27/socialbridge/pkg/logging"
	"github.com/maheshrc27/socialbridge/pkg/utils"
)

func main() {
	log := logging.NewLogger()

	if err := godotenv.Load(); err != nil {
		log.WithError(err).Warn("Failed to load .env file")
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer closeDB(log, db)

	if err := db.Ping(); err != nil {
		log.WithError(err).Fatal("Database is unreachable")
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
	defer rdb.Close()

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	cipher, err := utils.NewTokenCipher([]byte(cfg.SecretKey))
	if err != nil {
		log.WithError(err).Fatal("SECRET_KEY must be 16, 24 or 32 bytes")
	}

	exec := executor.New(executor.Config{
		Timeout:           cfg.HTTP.Timeout,
		MaxRetries:        cfg.HTTP.MaxRetries,
		DefaultRetryAfter: cfg.HTTP.DefaultRetryAfter,
		RateLimitRPS:      cfg.HTTP.RateLimitRPS,
		RateLimitBurst:    cfg.HTTP.RateLimitBurst,
	}, log)

	r2Client, err := media.NewR2Client(context.Background(), cfg.R2)
	if err != nil {
		log.WithError(err).Fatal("Failed to configure R2")
	}
	mediaStore := media.NewR2Store(r2Client, cfg.R2, media.NewHTTPFetcher(exec))

	registry := platform.NewRegistry(platform.Options{
		Executor:  exec,
		Platforms: cfg.Platforms,
		Media:     mediaStore,
		Logger:    log,
	})

	socialAccountRepo := repository.NewSocialAccountRepository(db, cipher)
	contentRepo := repository.NewContentRepository(db)
	publicationRepo := repository.NewPublicationRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)

	coordinator := lifecycle.NewCoordinator(lifecycle.NewRedisLocker(rdb, time.Minute), socialAccountRepo, log)
	scheduler := queue.NewEnqueuer(client, log)

	accountService := service.NewAccountService(socialAccountRepo, registry, coordinator, log)
	contentService := service.NewContentService(contentRepo, publicationRepo, socialAccountRepo, registry, coordinator, scheduler, log)
	campaignService := service.NewCampaignService(campaignRepo, socialAccountRepo, registry, coordinator, log)
	mediaService := service.NewMediaService(mediaStore, 0, log)

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.WithError(err).Error("Unhandled request error")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	authMiddleware := middleware.NewAuthMiddleware(*cfg, log)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	handlers.Handlers{
		Accounts:  handlers.NewAccountHandler(accountService, contentService, log),
		Contents:  handlers.NewContentHandler(contentService, log),
		Campaigns: handlers.NewCampaignHandler(campaignService, log),
		Media:     handlers.NewMediaHandler(mediaService, log),
	}.Register(api)

	// cron jobs
	refreshTokenJob := job.NewTokenRefreshJob(socialAccountRepo, registry, coordinator, cfg.TokenRefreshWindow, log)

	c := cron.New()
	if err := c.AddFunc("@every "+cfg.TokenRefreshInterval.String(), refreshTokenJob.RefreshTokens); err != nil {
		log.WithError(err).Fatal("Invalid TOKEN_REFRESH_INTERVAL")
	}
	c.Start()
	defer c.Stop()

	// queue
	queueW := queue.NewQueue(contentService, log)

	server := asynq.NewServer(redisConn, asynq.Config{
		Concurrency: 10,
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskTypePublishContent, queueW.HandlePublishContentTask)

	log.Info("Starting the Asynq server...")
	if err := server.Start(mux); err != nil {
		log.WithError(err).Fatal("Could not start Asynq server")
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()
	log.Infof("Server is running on http://localhost:%s", cfg.Port)

	gracefulShutdown(log, app, server)
}

func closeDB(log logging.Logger, db *sql.DB) {
	log.Info("Closing database connection...")
	if err := db.Close(); err != nil {
		log.WithError(err).Error("Failed to close database")
		return
	}
	log.Info("Database connection closed")
}

func gracefulShutdown(log logging.Logger, app *fiber.App, server *asynq.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Info("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.WithError(err).Error("Failed to shut down server")
	}
	server.Shutdown()

	log.Info("Server shutdown complete.")
}
