package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arcade-server/internal/config"
	"arcade-server/internal/database"
	"arcade-server/internal/handler"
	"arcade-server/internal/messaging"
	"arcade-server/internal/repository"
	"arcade-server/internal/service"
	"arcade-server/shared/authutils"
	sharedLogger "arcade-server/shared/logger"
	sharedMiddleware "arcade-server/shared/middleware"

	rateli "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rabbitmq/amqp091-go"
	redis "github.com/redis/go-redis/v9"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, relying on environment variables")
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Setup ---
	logger, err := sharedLogger.New(sharedLogger.Config{
		Level:    cfg.LogLevel,
		Encoding: "json",
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	zap.L().Info("Logger initialized successfully", zap.String("logLevel", cfg.LogLevel))

	// --- External Connections ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pgPool, err := setupPostgres(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pgPool.Close()
	zap.L().Info("Connected to PostgreSQL")

	if err := database.RunMigrations(ctx, pgPool, cfg.MigrationsDir); err != nil {
		zap.L().Fatal("Failed to run migrations", zap.Error(err))
	}
	zap.L().Info("Migrations applied")

	redisClient, err := setupRedis(cfg)
	if err != nil {
		zap.L().Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	zap.L().Info("Connected to Redis")

	mqConn, err := connectRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		zap.L().Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer mqConn.Close()
	zap.L().Info("Connected to RabbitMQ")

	publisher, err := messaging.NewRabbitMQAnnouncementPublisher(mqConn, cfg.AnnouncementsQueue, logger)
	if err != nil {
		zap.L().Fatal("Failed to create announcement publisher", zap.Error(err))
	}
	defer publisher.Close()

	// --- Dependency Injection ---
	txManager := database.NewPgxTxManager(pgPool)
	reviewRepo := repository.NewPgReviewRepository(logger)
	gameRepo := repository.NewPgGameRepository(logger)
	mapRepo := repository.NewPgMapRepository(logger)
	voteRepo := repository.NewPgVoteRepository(logger)
	runRepo := repository.NewPgRunRepository(logger)
	statsRepo := repository.NewPgStatsRepository(logger)

	reviewSvc := service.NewReviewService(txManager, pgPool, reviewRepo, logger)
	gameSvc := service.NewGameService(txManager, pgPool, gameRepo, mapRepo, reviewSvc, logger)
	voteSvc := service.NewVoteService(txManager, pgPool, gameRepo, voteRepo, mapRepo, runRepo, publisher, logger)
	runSvc := service.NewRunService(txManager, pgPool, gameRepo, runRepo, statsRepo, logger)

	verifier, err := authutils.NewJWTVerifier(cfg.JWTSecret, logger)
	if err != nil {
		zap.L().Fatal("Failed to create JWT verifier", zap.Error(err))
	}

	// --- Rate Limiter (голос и действия игроков) ---
	rateLimitStore := rateli.RedisStore(&rateli.RedisOptions{
		RedisClient: redisClient,
		Rate:        time.Minute,
		Limit:       30,
	})
	rateLimitMiddleware := rateli.RateLimiter(rateLimitStore, &rateli.Options{
		ErrorHandler: func(c *gin.Context, info rateli.Info) {
			zap.L().Warn("Rate limit exceeded",
				zap.String("clientIP", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)
			c.String(http.StatusTooManyRequests, "Too many requests. Try again in "+time.Until(info.ResetTime).String())
		},
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	})
	zap.L().Info("Rate limiter middleware initialized")

	apiHandler := handler.NewHandler(reviewSvc, gameSvc, voteSvc, runSvc, logger)

	// --- HTTP Server Setup (Gin) ---
	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(sharedMiddleware.ZapLoggingMiddlewareForGin(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	apiHandler.RegisterRoutes(router, verifier.VerifyToken, rateLimitMiddleware)

	p := ginprometheus.NewPrometheus("gin")
	p.Use(router)

	// --- Start HTTP Server ---
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	zap.L().Info("Starting HTTP server", zap.String("port", cfg.Port))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("HTTP Server listen error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("HTTP Server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("Server exiting")
}

// setupPostgres initializes the PostgreSQL connection pool with retry logic.
func setupPostgres(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("unable to parse postgres config: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.DBMaxConns)
	poolConfig.MaxConnIdleTime = cfg.DBIdleTimeout

	var lastErr error
	maxRetries := 50
	retryDelay := 3 * time.Second

	for i := 0; i < maxRetries; i++ {
		attempt := i + 1
		connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
		pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
		connectCancel()
		if err != nil {
			lastErr = err
			zap.L().Warn("Postgres connection pool creation failed, retrying...",
				zap.Int("attempt", attempt), zap.Error(err))
			time.Sleep(retryDelay)
			continue
		}

		pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
		err = pool.Ping(pingCtx)
		pingCancel()
		if err == nil {
			zap.L().Info("Successfully connected and pinged PostgreSQL", zap.Int("attempt", attempt))
			return pool, nil
		}

		pool.Close()
		lastErr = err
		zap.L().Warn("Postgres ping failed, retrying...", zap.Int("attempt", attempt), zap.Error(err))
		time.Sleep(retryDelay)
	}
	return nil, fmt.Errorf("failed to connect to postgres after %d attempts: %w", maxRetries, lastErr)
}

// setupRedis initializes the Redis client with retry logic.
func setupRedis(cfg *config.Config) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	var lastErr error
	maxRetries := 50
	retryDelay := 3 * time.Second

	for i := 0; i < maxRetries; i++ {
		client := redis.NewClient(opts)
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, err := client.Ping(pingCtx).Result()
		pingCancel()
		if err == nil {
			return client, nil
		}
		client.Close()
		lastErr = err
		zap.L().Warn("Redis ping failed, retrying...", zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(retryDelay)
	}
	return nil, fmt.Errorf("failed to connect to redis after %d attempts: %w", maxRetries, lastErr)
}

// connectRabbitMQ dials RabbitMQ with retry logic.
func connectRabbitMQ(url string) (*amqp091.Connection, error) {
	var lastErr error
	maxRetries := 50
	retryDelay := 3 * time.Second

	for i := 0; i < maxRetries; i++ {
		conn, err := amqp091.Dial(url)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		zap.L().Warn("RabbitMQ dial failed, retrying...", zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(retryDelay)
	}
	return nil, fmt.Errorf("failed to connect to rabbitmq after %d attempts: %w", maxRetries, lastErr)
}
