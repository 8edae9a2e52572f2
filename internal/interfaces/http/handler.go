package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"wa_botflow/internal/entities"
	"wa_botflow/internal/infrastructure"
	"wa_botflow/internal/interfaces"
	"wa_botflow/internal/repository"
	"wa_botflow/internal/usecases"
)

// UserDirectory is the account storage behind the admin and Telegram routes.
type UserDirectory interface {
	GetByID(ctx context.Context, id int) (*entities.User, error)
	List(ctx context.Context) ([]entities.User, error)
	UpdateAccess(ctx context.Context, u entities.User) error
	Delete(ctx context.Context, id int) error
	SetTelegramToken(ctx context.Context, id int, token string) error
}

// UsageReporter reads the per-owner message counters.
type UsageReporter interface {
	GetQuotaStatus(ctx context.Context, userID int, dailyLimit, monthlyLimit int) (*repository.UserQuotaStatus, error)
	GetUsageHistory(ctx context.Context, userID int, days int) ([]repository.DailyUsage, error)
}

// SchemaDropper removes a business with all its data.
type SchemaDropper interface {
	DropTenantSchema(ctx context.Context, schemaName string) error
}

// Deps wires the HTTP surface. The transport managers and the Cloud API
// client are optional; their routes answer 503 when absent.
type Deps struct {
	Messages    *usecases.MessageService
	Auth        *usecases.AuthUsecase
	Dashboard   *usecases.DashboardUsecase
	Templates   *usecases.TemplateUsecase
	Users       UserDirectory
	Usage       UsageReporter
	Tenants     SchemaDropper
	WhatsApp    *infrastructure.WhatsAppManager
	Telegram    *infrastructure.TelegramBotManager
	CloudAPI    interfaces.Messenger
	VerifyToken string
	Middleware  *Middleware
	Logger      *slog.Logger
}

type Handler struct {
	messages  *usecases.MessageService
	auth      *usecases.AuthUsecase
	dashboard *usecases.DashboardUsecase
	templates *usecases.TemplateUsecase
	users     UserDirectory
	usage     UsageReporter
	waManager *infrastructure.WhatsAppManager
	logger    *slog.Logger
}

func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		messages:  d.Messages,
		auth:      d.Auth,
		dashboard: d.Dashboard,
		templates: d.Templates,
		users:     d.Users,
		usage:     d.Usage,
		waManager: d.WhatsApp,
		logger:    logger,
	}
}

func SetupRoutes(r *gin.Engine, d Deps) {
	h := NewHandler(d)
	adminHandler := NewAdminHandler(d.Users, d.Usage, d.Tenants, d.WhatsApp, d.Telegram)
	telegramHandler := NewTelegramHandler(d.Telegram, d.Users)
	webhookHandler := NewWebhookHandler(d.Messages.HandleInbound, d.CloudAPI, d.VerifyToken, h.logger)
	middleware := d.Middleware

	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(1 << 20))
	r.Use(middleware.CORSMiddleware())

	// Public Routes
	r.POST("/webhook/web", webhookHandler.HandleWebMessage)
	r.GET("/webhook/whatsapp/:business", webhookHandler.VerifyCloudWebhook)
	r.POST("/webhook/whatsapp/:business", webhookHandler.HandleCloudWebhook)

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/register", h.Register)
	}

	api := r.Group("/api")
	api.Use(middleware.AuthRequired())
	api.Use(middleware.RateLimitPerUser(5, 10))
	{
		api.GET("/dashboard/stats", h.GetUserStats)

		api.GET("/menus", h.ListMenus)
		api.GET("/menus/validate", h.ValidateGraph)
		api.GET("/menus/:id", h.GetMenu)
		api.POST("/menus", h.CreateMenu)
		api.PUT("/menus/:id", h.UpdateMenu)
		api.DELETE("/menus/:id", h.DeleteMenu)
		api.POST("/menus/:id/entry", h.SetEntryMenu)
		api.POST("/menus/:id/buttons", h.CreateButton)
		api.PUT("/buttons/:id", h.UpdateButton)
		api.DELETE("/buttons/:id", h.DeleteButton)

		api.GET("/booking-steps", h.ListBookingSteps)
		api.POST("/booking-steps", h.CreateBookingStep)
		api.PUT("/booking-steps/:id", h.UpdateBookingStep)
		api.DELETE("/booking-steps/:id", h.DeleteBookingStep)

		api.GET("/bot-config", h.GetBotConfig)
		api.PUT("/bot-config", h.SaveBotConfig)
		api.POST("/bot-config/ai/enable", h.EnableAI)

		api.GET("/templates", h.ListTemplates)
		api.POST("/templates/:id/apply", h.ApplyTemplate)

		api.POST("/preview", h.Preview)

		api.GET("/conversations", h.ListConversations)
		api.POST("/conversations/release", h.ReleaseConversation)

		api.GET("/whatsapp/qr", h.GetWhatsAppQR)
		api.GET("/whatsapp/status", h.GetWhatsAppStatus)
		api.POST("/whatsapp/connect", h.ConnectWhatsApp)
		api.POST("/whatsapp/logout", h.LogoutWhatsApp)

		telegramHandler.RegisterRoutes(api)
	}

	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired())
	admin.Use(middleware.AdminRequired())
	{
		admin.GET("/stats", adminHandler.GetStats)
		admin.GET("/users", adminHandler.GetAllUsers)
		admin.PUT("/users/:id/status", adminHandler.UpdateUserStatus)
		admin.PUT("/users/:id/whatsapp", adminHandler.UpdateWAEnabled)
		admin.PUT("/users/:id/limits", adminHandler.UpdateUserLimits)
		admin.GET("/users/:id/usage", adminHandler.GetUserUsage)
		admin.POST("/users/:id/disconnect-wa", adminHandler.DisconnectUserWA)
		admin.DELETE("/users/:id", adminHandler.DeleteUser)
	}
}

// respondError maps domain errors to status codes. Unexpected errors are
// logged and hidden from the caller.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, entities.ErrInvalidMenu),
		errors.Is(err, entities.ErrInvalidButton),
		errors.Is(err, entities.ErrInvalidBookingStep),
		errors.Is(err, entities.ErrInvalidBotConfig),
		errors.Is(err, entities.ErrInvalidTemplate),
		errors.Is(err, usecases.ErrWeakPassword),
		errors.Is(err, usecases.ErrInvalidInbound):
		status = http.StatusBadRequest
	case errors.Is(err, usecases.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, interfaces.ErrAccountDenied):
		status = http.StatusForbidden
	case errors.Is(err, entities.ErrTemplateNotFound),
		errors.Is(err, interfaces.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, interfaces.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, interfaces.ErrQuotaExceeded),
		errors.Is(err, usecases.ErrRateLimited):
		status = http.StatusTooManyRequests
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// ========================================
// Auth
// ========================================

type credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handler) Register(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if !ValidUsername(req.Username) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid username"})
		return
	}
	user, err := h.auth.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "registered", "business_id": user.BusinessID()})
}

// ========================================
// Per-business WhatsApp (linked device)
// ========================================

// ConnectWhatsApp creates and connects the business's WhatsApp client
func (h *Handler) ConnectWhatsApp(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	if h.waManager == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "WhatsApp not configured"})
		return
	}

	client, err := h.waManager.ConnectClient(c.Request.Context(), businessID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	phone, name := client.GetUserInfo()
	c.JSON(http.StatusOK, gin.H{
		"status":    "connecting",
		"connected": client.IsLoggedIn(),
		"phone":     phone,
		"name":      name,
	})
}

// GetWhatsAppQR returns the pairing QR code as PNG
func (h *Handler) GetWhatsAppQR(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	if h.waManager == nil {
		c.String(http.StatusServiceUnavailable, "WhatsApp not configured")
		return
	}

	client, err := h.waManager.ConnectClient(c.Request.Context(), businessID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	png, ok, err := client.QRPNG(256)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to generate QR code")
		return
	}
	if !ok {
		if client.IsLoggedIn() {
			c.String(http.StatusOK, "Already logged in")
			return
		}
		c.String(http.StatusAccepted, "QR code not yet available. Please wait...")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// GetWhatsAppStatus returns the WhatsApp connection status of the business
func (h *Handler) GetWhatsAppStatus(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	if h.waManager == nil {
		c.JSON(http.StatusOK, gin.H{"connected": false, "error": "WhatsApp not configured"})
		return
	}

	client := h.waManager.GetClient(businessID)
	if client == nil {
		c.JSON(http.StatusOK, gin.H{"connected": false, "initialized": false})
		return
	}

	phone, name := client.GetUserInfo()
	c.JSON(http.StatusOK, gin.H{
		"connected":   client.IsLoggedIn(),
		"initialized": true,
		"phone":       phone,
		"name":        name,
		"hasQR":       client.GetQR() != "",
	})
}

// LogoutWhatsApp unlinks the device of the business
func (h *Handler) LogoutWhatsApp(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	if h.waManager == nil {
		c.JSON(http.StatusOK, gin.H{"status": "logged_out", "message": "WhatsApp not configured"})
		return
	}

	// The session may already be gone on the phone side.
	if err := h.waManager.LogoutClient(businessID); err != nil {
		h.logger.Warn("whatsapp logout", "business", businessID, "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}
