package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/extremegraphics/lead-pipeline-api/docs"
	"github.com/extremegraphics/lead-pipeline-api/internal/auth"
	"github.com/extremegraphics/lead-pipeline-api/internal/config"
	"github.com/extremegraphics/lead-pipeline-api/internal/database"
	"github.com/extremegraphics/lead-pipeline-api/internal/http/handler"
	"github.com/extremegraphics/lead-pipeline-api/internal/http/middleware"
	"github.com/extremegraphics/lead-pipeline-api/internal/http/router"
	"github.com/extremegraphics/lead-pipeline-api/internal/intake"
	"github.com/extremegraphics/lead-pipeline-api/internal/jobs"
	"github.com/extremegraphics/lead-pipeline-api/internal/logger"
	"github.com/extremegraphics/lead-pipeline-api/internal/metrics"
	"github.com/extremegraphics/lead-pipeline-api/internal/phone"
	"github.com/extremegraphics/lead-pipeline-api/internal/repository"
	"github.com/extremegraphics/lead-pipeline-api/internal/service"
	"github.com/extremegraphics/lead-pipeline-api/internal/storage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// @title Lead Pipeline API
// @version 1.0
// @description Lead intake and sales pipeline API for a signage business
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API key for system operations

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Basic configuration first, for the logger
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	docs.SwaggerInfo.Host = basicCfg.Server.PublicHost
	if docs.SwaggerInfo.Host == "" {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// In staging/production the secrets may come from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	var redisClient *redis.Client
	var conversations intake.Store
	if cfg.Redis.Enabled {
		redisClient, err = newRedisClient(ctx, &cfg.Redis)
		if err != nil {
			return err
		}
		defer func() { _ = redisClient.Close() }()
		conversations = intake.NewRedisStore(redisClient, cfg.Intake.ConversationTTLDuration())
		log.Info("Chat conversations stored in Redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		conversations = intake.NewMemoryStore(cfg.Intake.ConversationTTLDuration())
		log.Info("Chat conversations stored in memory")
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	// Repositories
	leadRepo := repository.NewLeadRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	productRepo := repository.NewProductRepository(db)
	estimateRepo := repository.NewEstimateRepository(db)
	sessionRepo := repository.NewChatSessionRepository(db)
	fileRepo := repository.NewFileRepository(db)
	crmUserRepo := repository.NewCrmUserRepository(db)
	authUserRepo := repository.NewAuthUserRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	// Services
	leadService := service.NewLeadService(leadRepo, crmUserRepo, service.LeadServiceOptions{
		Storage:       fileStorage,
		Phones:        phone.NewNormalizer(cfg.Intake.DefaultPhoneRegion),
		Metrics:       m,
		CascadeDelete: cfg.Leads.CascadeDelete,
	}, log)
	quoteService := service.NewQuoteService(quoteRepo, leadRepo, productRepo, log)
	productService := service.NewProductService(productRepo)
	estimateService := service.NewEstimateService(estimateRepo, log)
	dashboardService := service.NewDashboardService(leadRepo, quoteRepo, log)
	chatSessionService := service.NewChatSessionService(sessionRepo, leadRepo, m, log)
	fileService := service.NewFileService(fileRepo, leadRepo, fileStorage, cfg.Storage.MaxUploadSizeBytes, m, log)
	crmUserService := service.NewCrmUserService(crmUserRepo, authUserRepo, log)
	noteService := service.NewNoteService(noteRepo, log)
	ticketService := service.NewTicketService(leadService, leadRepo, log)
	intakeService := service.NewIntakeService(leadService, fileService, ticketService, conversations, m, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(&cfg.Auth, crmUserRepo, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	rt := router.NewRouter(cfg, log, m, authMiddleware, rateLimiter, router.Handlers{
		Health:      handler.NewHealthHandler(db, redisClient, log),
		Lead:        handler.NewLeadHandler(leadService, log),
		Quote:       handler.NewQuoteHandler(quoteService, productService, log),
		Estimate:    handler.NewEstimateHandler(estimateService, log),
		Dashboard:   handler.NewDashboardHandler(dashboardService, log),
		ChatSession: handler.NewChatSessionHandler(chatSessionService, log),
		File:        handler.NewFileHandler(fileService, log),
		CrmUser:     handler.NewCrmUserHandler(crmUserService, log),
		Note:        handler.NewNoteHandler(noteService, log),
		Ticket:      handler.NewTicketHandler(ticketService, log),
		Intake:      handler.NewIntakeHandler(intakeService, cfg.Storage.MaxUploadSizeBytes, log),
	})

	var scheduler *jobs.Scheduler
	if cfg.Jobs.ChatCleanupEnabled {
		scheduler = jobs.NewScheduler(log)
		cleanup := jobs.NewChatCleanupJob(chatSessionService, cfg.Jobs.ChatSessionMaxIdleDuration(), log)
		if err := scheduler.Schedule(cfg.Jobs.ChatCleanupSchedule, time.Minute, cleanup); err != nil {
			return fmt.Errorf("failed to schedule chat cleanup: %w", err)
		}
		scheduler.Start()
	} else {
		log.Info("Chat session cleanup disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if scheduler != nil {
			scheduler.Stop(ctx)
		}

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}

// newRedisClient accepts either host:port or a redis:// URL and verifies the
// connection
func newRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if strings.HasPrefix(cfg.Addr, "redis://") || strings.HasPrefix(cfg.Addr, "rediss://") {
		parsed, err := redis.ParseURL(cfg.Addr)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		if parsed.Password == "" {
			parsed.Password = cfg.Password
		}
		opts = parsed
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}
