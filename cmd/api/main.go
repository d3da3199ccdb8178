package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"taxpadi/internal/ai"
	"taxpadi/internal/config"
	"taxpadi/internal/db"
	apihttp "taxpadi/internal/http"
	"taxpadi/internal/repository"
	"taxpadi/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	conversationRepo := repository.NewPgConversationRepository(pool)
	messageRepo := repository.NewPgMessageRepository(pool)
	articleRepo := repository.NewPgArticleRepository(pool)

	var (
		loginLimiter service.LoginRateLimiter
		tokenStore   service.RefreshTokenStore
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			loginLimiter = service.NewRedisLoginRateLimiter(redisClient, 10*time.Minute, 10)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	webhook := ai.NewHTTPClient(
		cfg.MakeWebhookURL,
		time.Duration(cfg.WebhookTimeoutMs)*time.Millisecond,
		cfg.WebhookRetryAttempts,
		logger,
	)

	userSvc := service.NewUserService(logger, userRepo, loginLimiter)
	convSvc := service.NewConversationService(conversationRepo, messageRepo)
	chatSvc := service.NewChatService(logger, conversationRepo, messageRepo, webhook)
	taxSvc := service.NewTaxService()
	fileSvc, err := service.NewFileService(logger, cfg.UploadDir, cfg.AppBaseURL)
	if err != nil {
		logger.Fatal("file service init", zap.Error(err))
	}

	authHandler := apihttp.NewAuthHandler(logger, userSvc, jwtSvc)
	userHandler := apihttp.NewUserHandler(logger, userSvc)
	convHandler := apihttp.NewConversationHandler(logger, convSvc, chatSvc)
	aiHandler := apihttp.NewAIHandler(logger, webhook)
	taxHandler := apihttp.NewTaxHandler(logger, taxSvc)
	articleHandler := apihttp.NewArticleHandler(logger, articleRepo)
	suggestionHandler := apihttp.NewSuggestionHandler()
	fileHandler := apihttp.NewFileHandler(logger, fileSvc, convSvc)

	router := apihttp.NewRouter(
		logger,
		jwtSvc,
		authHandler,
		userHandler,
		convHandler,
		aiHandler,
		taxHandler,
		articleHandler,
		suggestionHandler,
		fileHandler,
		cfg.UploadDir,
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
