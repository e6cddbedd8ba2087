package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ironforge-backend/config"
	"ironforge-backend/internal/delivery/http/middleware"
	v1 "ironforge-backend/internal/delivery/http/v1"
	"ironforge-backend/internal/repository/static"
	"ironforge-backend/internal/usecase"
	"ironforge-backend/pkg/email"
	"ironforge-backend/pkg/logger"
	redisclient "ironforge-backend/pkg/redis"
	"ironforge-backend/pkg/security"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// @title           Ironforge Welding API
// @version         1.0
// @description     Site content and quote requests for the Ironforge Welding website.
// @host            localhost:8080
// @BasePath        /v1
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.Debug, cfg.LogFormat)
	defer func() { _ = logger.Log.Sync() }()
	logger.Log.Info("Starting Ironforge backend",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
	)

	securityLog := security.NewSecurityLogger(logger.Log, cfg.Environment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Setup Rate Limit Store
	var redisClient *goredis.Client
	if cfg.UsesRedis() {
		redisClient, err = redisclient.NewClient(ctx, redisclient.Config{
			URL:      cfg.RateLimitStorageURI,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			// the limiter counts in memory instead
			logger.Log.Warn("Redis unavailable, rate limiting in memory", zap.Error(err))
		} else {
			defer redisClient.Close()
			logger.Log.Info("Rate limiting backed by Redis")
		}
	}
	limiter := middleware.NewRateLimiter(redisClient, logger.Log, securityLog)
	go limiter.Run(ctx, 5*time.Minute)

	// 4. Setup Mail Transport
	var transport email.Transport
	if cfg.Mail.Enabled {
		transport, err = email.NewTransport(ctx, cfg)
		if err != nil {
			logger.Log.Fatal("Failed to create mail transport", zap.Error(err))
		}
		logger.Log.Info("Email sending ENABLED via " + mailTarget(cfg))
	} else {
		logger.Log.Info("Email sending DISABLED - submissions will be logged only. Set MAIL_ENABLED=true to activate.")
	}

	// 5. Setup Repositories
	catalogRepo, err := static.NewCatalogRepository()
	if err != nil {
		logger.Log.Fatal("Failed to load site content", zap.Error(err))
	}

	// 6. Setup UseCases
	notifier := usecase.NewQuoteNotifier(usecase.NotifierConfig{
		Enabled:     cfg.Mail.Enabled,
		Recipient:   cfg.Mail.QuoteRecipient,
		SendTimeout: cfg.Mail.SendTimeout,
	}, transport, logger.Log)
	contactUC := usecase.NewContactUsecase(notifier, logger.Log)
	catalogUC := usecase.NewCatalogUsecase(catalogRepo, logger.Log)
	healthUC := usecase.NewHealthUsecase(redisClient, cfg.Mail.Enabled)

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC:   contactUC,
		CatalogUC:   catalogUC,
		HealthUC:    healthUC,
		Limiter:     limiter,
		Config:      cfg,
		Log:         logger.Log,
		SecurityLog: securityLog,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Listen failed", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("Server exiting")
}

func mailTarget(cfg *config.Config) string {
	if cfg.Mail.Transport == config.TransportSES {
		return fmt.Sprintf("SES (%s)", cfg.AWSRegion)
	}
	return fmt.Sprintf("%s:%d", cfg.Mail.Server, cfg.Mail.Port)
}
