package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"wa_botflow/internal/config"
	"wa_botflow/internal/infrastructure"
	"wa_botflow/internal/interfaces"
	httpiface "wa_botflow/internal/interfaces/http"
	"wa_botflow/internal/repository"
	"wa_botflow/internal/templates"
	"wa_botflow/internal/usecases"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration", "error", err)
		os.Exit(1)
	}
	logger := config.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	pgClient, err := infrastructure.NewPostgresClient(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	cache, err := infrastructure.NewCache(cfg.StateCacheTTL)
	if err != nil {
		return err
	}
	defer cache.Close()

	// Repositories
	userRepo := repository.NewUserRepository(pgClient.Pool)
	tenantManager := repository.NewTenantManager(pgClient.Pool)
	usageRepo := repository.NewUsageRepository(pgClient.Pool)
	configRepo := repository.NewConfigRepository(pgClient.Pool, cache)
	menuRepo := repository.NewMenuRepository(pgClient.Pool, cache)
	bookingRepo := repository.NewBookingRepository(pgClient.Pool, cache)
	conversationRepo := repository.NewConversationRepository(pgClient.Pool, cache)
	templateStore := repository.NewTemplateStore(pgClient.Pool, cache)

	registry, err := templates.NewRegistry(cfg.TemplatesDir, logger)
	if err != nil {
		return err
	}
	go func() {
		if err := registry.Watch(ctx); err != nil {
			logger.Warn("template watcher stopped", "error", err)
		}
	}()

	// AI assist is optional; without a key every assist falls back.
	var ai interfaces.AIClient
	if cfg.GeminiAPIKey != "" {
		ai = infrastructure.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	} else {
		logger.Info("GEMINI_API_KEY not set, AI assist disabled")
	}
	gate := usecases.NewAssistGate(ai, configRepo, logger)

	limiter := infrastructure.NewMessageRateLimiter(cfg.InboundRate, cfg.InboundBurst)
	defer limiter.Close()

	messageService := usecases.NewMessageService(usecases.MessageServiceDeps{
		Graphs:        menuRepo,
		Steps:         bookingRepo,
		Configs:       configRepo,
		Conversations: conversationRepo,
		Usage:         usageRepo,
		Assistant:     gate,
		Limiter:       limiter,
		Logger:        logger,
	})

	waManager := infrastructure.NewWhatsAppManager(cfg.WADevicesDir, messageService.HandleInbound, logger)
	tgManager := infrastructure.NewTelegramBotManager(messageService.HandleInbound, logger)
	defer waManager.DisconnectAll()
	defer tgManager.DisconnectAll()

	var cloud interfaces.Messenger
	if cfg.WACloudToken != "" && cfg.WAPhoneNumberID != "" {
		cloud = infrastructure.NewWhatsAppBusinessClient(cfg.WACloudToken, cfg.WAPhoneNumberID)
	}

	templateUsecase := usecases.NewTemplateUsecase(registry, templateStore, infrastructure.NewKeyedLocker(), gate, logger)
	dashboardUsecase := usecases.NewDashboardUsecase(menuRepo, bookingRepo, configRepo, conversationRepo, gate)
	authUsecase := usecases.NewAuthUsecase(userRepo, tenantManager, cfg.JWTSecret)

	if cfg.AdminPassword != "" {
		if err := authUsecase.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			logger.Warn("failed to ensure admin user", "error", err)
		}
	}

	restoreTenants(ctx, userRepo, tenantManager, tgManager, logger)

	if cfg.TelegramBotToken != "" && cfg.TelegramBusiness != "" {
		if _, err := tgManager.ConnectBot(cfg.TelegramBusiness, cfg.TelegramBotToken); err != nil {
			logger.Warn("telegram autoconnect failed", "business", cfg.TelegramBusiness, "error", err)
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	httpiface.SetupRoutes(r, httpiface.Deps{
		Messages:    messageService,
		Auth:        authUsecase,
		Dashboard:   dashboardUsecase,
		Templates:   templateUsecase,
		Users:       userRepo,
		Usage:       usageRepo,
		Tenants:     tenantManager,
		WhatsApp:    waManager,
		Telegram:    tgManager,
		CloudAPI:    cloud,
		VerifyToken: cfg.WAVerifyToken,
		Middleware:  httpiface.NewMiddleware(cfg.JWTSecret),
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// restoreTenants brings every business schema up to date and restarts the
// Telegram bots of owners who stored a token.
func restoreTenants(ctx context.Context, users *repository.UserRepository, tenants *repository.TenantManager,
	tgManager *infrastructure.TelegramBotManager, logger *slog.Logger) {
	list, err := users.List(ctx)
	if err != nil {
		logger.Warn("could not list users for tenant migration", "error", err)
		return
	}
	for _, u := range list {
		if u.SchemaName == "" {
			continue
		}
		if err := tenants.EnsureTenantTables(ctx, u.SchemaName); err != nil {
			logger.Warn("tenant migration failed", "business", u.SchemaName, "error", err)
			continue
		}
		if u.TelegramToken != "" && u.CanRunBot() {
			if _, err := tgManager.ConnectBot(u.SchemaName, u.TelegramToken); err != nil {
				logger.Warn("telegram reconnect failed", "business", u.SchemaName, "error", err)
			}
		}
	}
}
