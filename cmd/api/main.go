package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"srt-booking/internal/config"
	"srt-booking/internal/db"
	apihttp "srt-booking/internal/http"
	"srt-booking/internal/repository"
	"srt-booking/internal/service"
	"srt-booking/internal/srt"

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

	var searchRepo repository.SearchRepository = repository.NewMemorySearchRepository(0)
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := db.Ping(ctxPing, pool); err != nil {
			logger.Warn("db ping failed, search history kept in memory", zap.Error(err))
		} else {
			searchRepo = repository.NewPgSearchRepository(pool)
		}
		cancel()
	}

	loginWindow := time.Duration(cfg.LoginRateWindowMins) * time.Minute
	var (
		loginLimiter = service.NewLoginRateLimiter(loginWindow, cfg.LoginRateMax)
		tokenStore   = service.NewMemorySessionTokenStore()
		redisClient  *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			loginLimiter = service.NewRedisLoginRateLimiter(redisClient, loginWindow, cfg.LoginRateMax, logger)
			tokenStore = service.NewRedisSessionTokenStore(redisClient)
		}
		cancel()
	}

	srtClient := srt.NewClient(srt.Options{
		BaseURL:         cfg.SRTBaseURL,
		UserAgent:       cfg.SRTUserAgent,
		Timeout:         cfg.SRTTimeout,
		DateWindow:      cfg.SRTDateWindowDays,
		DateConcurrency: cfg.SRTDateConcurrency,
	}, logger)

	hasher := service.NewOwnerHasher(cfg.SessionSecret)
	bookingSvc := service.NewBookingService(logger, srtClient, searchRepo, loginLimiter, hasher)
	tokens := service.NewSessionTokenService(
		cfg.SessionSecret,
		time.Duration(cfg.SessionTTLMinutes)*time.Minute,
		tokenStore,
	)
	cookie := apihttp.NewSessionCookie(tokens, cfg.CookieSecure)

	authHandler := apihttp.NewAuthHandler(logger, bookingSvc, tokens, cookie)
	bookingHandler := apihttp.NewBookingHandler(logger, bookingSvc, cookie)
	router := apihttp.NewRouter(logger, cookie, authHandler, bookingHandler)

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
