package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gptading/backend/internal/config"
	"gptading/backend/internal/handler"
	"gptading/backend/internal/middleware"
	"gptading/backend/internal/repository"
	"gptading/backend/internal/seed"
	"gptading/backend/internal/service"
	"gptading/backend/pkg/crypto"
	"gptading/backend/pkg/jwt"
	"gptading/backend/pkg/logger"
	"gptading/backend/pkg/redis"
	"gptading/backend/pkg/telegram"
	"gptading/backend/pkg/zaffex"
	"gptading/backend/web"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/pkg/browser"
)

func main() {
	// Load .env file (ignore error in production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log := logger.GetLogger()

	log.Info("Starting GPTading Pro...")
	log.Infof("Environment: %s", cfg.Server.Env)

	if cfg.Session.Secret == "" {
		cfg.Session.Secret = mustGenerateKey(log)
		log.Warn("SESSION_SECRET not set, sessions will not survive a restart")
	}
	if cfg.Encryption.Key == "" {
		cfg.Encryption.Key = mustGenerateKey(log)
		log.Warn("ENCRYPTION_KEY not set, using a random key for this process")
	}

	// Service-lifetime context for background workers
	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	redis.InitKeys(cfg.Redis.Prefix)

	var (
		sessions  repository.SessionRepository
		limiter   middleware.Limiter
		publisher service.EventPublisher
		redisConn *redis.Client
	)

	hub := service.NewWSHub(cfg.CORS.AllowedOrigins)
	go hub.Run(appCtx)

	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		log.Infof("Connecting to Redis at %s...", cfg.Redis.Address())
		redisConn, err = redis.New(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", err)
		}
		defer redisConn.Close()
		log.Info("✓ Redis connected")

		sessions = repository.NewRedisSessionRepository(redisConn, cfg.Session.TTL, seed.Default)
		limiter = middleware.NewRedisLimiter(redisConn, cfg.RateLimit.RequestsPerMinute, time.Minute)
		publisher = service.NewRedisPublisher(redisConn)
		go hub.StartPubSubListener(appCtx, redisConn)

	default:
		memory := repository.NewMemorySessionRepository(cfg.Session.TTL, seed.Default)
		memory.StartJanitor(appCtx, 10*time.Minute)
		sessions = memory
		memoryLimiter := middleware.NewMemoryLimiter(cfg.RateLimit.RequestsPerMinute, time.Minute)
		memoryLimiter.StartJanitor(appCtx, time.Minute)
		limiter = memoryLimiter
		publisher = hub
	}
	log.Infof("Session store: %s (ttl %s)", sessions.Name(), cfg.Session.TTL)

	var external service.TextSender
	if cfg.Telegram.Enabled() {
		notifier, err := telegram.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			log.Warnf("Telegram disabled: %v", err)
		} else {
			log.Infof("✓ Telegram bot authorized: @%s", notifier.Username())
			external = notifier
		}
	}

	notificationService := service.NewNotificationService(publisher, external)
	botService := service.NewBotService(sessions, notificationService)
	dashboardService := service.NewDashboardService(sessions)
	settingsService := service.NewSettingsService(sessions)
	exchangeService := service.NewExchangeService(
		sessions,
		zaffex.NewSimulatedConnector(cfg.Zaffex.ConnectDelay),
		notificationService,
		cfg.Encryption.Key,
	)

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := handler.NewRouter(handler.RouterDeps{
		Log:            log,
		Tokens:         jwt.NewSessionTokenManager(cfg.Session.Secret, cfg.Session.TTL),
		SecureCookie:   cfg.Server.IsProduction(),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Limiter:        limiter,
		Store:          sessions,
		Bots:           botService,
		Dashboard:      dashboardService,
		Exchange:       exchangeService,
		Settings:       settingsService,
		Hub:            hub,
		Static:         handler.NewStaticHandler(cfg.Server.WebDir, web.IndexHTML, log),
	})
	if err != nil {
		log.Fatal("Failed to build router", err)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Server starting on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", err)
		}
	}()

	log.Infof("✓ GPTading Pro: %s", cfg.Server.URL())
	log.Infof("  API status: %s/api/status", cfg.Server.URL())

	if cfg.Server.OpenBrowser {
		go openBrowser(appCtx, cfg.Server.URL(), cfg.Server.OpenBrowserDelay, log)
	}

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", err)
	}

	exchangeService.Close()
	stopApp()

	log.Info("Server exited")
}

// openBrowser opens url after delay unless the app stops first
func openBrowser(ctx context.Context, url string, delay time.Duration, log *logger.Logger) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(delay):
	}

	if err := browser.OpenURL(url); err != nil {
		log.Warnf("Could not open the browser automatically, open %s manually: %v", url, err)
	}
}

func mustGenerateKey(log *logger.Logger) string {
	key, err := crypto.GenerateKey()
	if err != nil {
		log.Fatal("Failed to generate key", err)
	}
	return key
}
