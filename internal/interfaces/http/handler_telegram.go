package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"wa_botflow/internal/infrastructure"
)

// TelegramHandler manages the Telegram bot of each business
type TelegramHandler struct {
	tgManager *infrastructure.TelegramBotManager
	users     UserDirectory
	logger    *slog.Logger
}

func NewTelegramHandler(tgManager *infrastructure.TelegramBotManager, users UserDirectory) *TelegramHandler {
	return &TelegramHandler{
		tgManager: tgManager,
		users:     users,
		logger:    slog.Default(),
	}
}

// RegisterRoutes registers Telegram management routes
func (h *TelegramHandler) RegisterRoutes(api *gin.RouterGroup) {
	tg := api.Group("/telegram")
	tg.Use(h.requireManager)
	{
		tg.GET("/status", h.GetStatus)
		tg.POST("/token", h.SaveToken)
		tg.POST("/connect", h.Connect)
		tg.POST("/disconnect", h.Disconnect)
		tg.POST("/validate", h.ValidateToken)
	}
}

func (h *TelegramHandler) requireManager(c *gin.Context) {
	if h.tgManager == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Telegram not configured"})
		return
	}
	c.Next()
}

// GetStatus returns the connection status of the business's bot
func (h *TelegramHandler) GetStatus(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), getUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	connected, botName := h.tgManager.GetStatus(businessID)
	c.JSON(http.StatusOK, gin.H{
		"has_token": user.TelegramToken != "",
		"connected": connected,
		"bot_name":  botName,
	})
}

// SaveToken validates and stores the bot token; an empty token clears it
func (h *TelegramHandler) SaveToken(c *gin.Context) {
	userID := getUserID(c)
	var req struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Token == "" {
		if err := h.users.SetTelegramToken(c.Request.Context(), userID, ""); err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "cleared"})
		return
	}

	botName, err := h.tgManager.ValidateToken(req.Token)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token: " + err.Error()})
		return
	}
	if err := h.users.SetTelegramToken(c.Request.Context(), userID, req.Token); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved", "bot_name": botName})
}

// ValidateToken checks if a token is valid without saving
func (h *TelegramHandler) ValidateToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	botName, err := h.tgManager.ValidateToken(req.Token)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "bot_name": "@" + botName})
}

// Connect starts polling with the stored token
func (h *TelegramHandler) Connect(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), getUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if user.TelegramToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No token configured. Please save your bot token first."})
		return
	}

	instance, err := h.tgManager.ConnectBot(businessID, user.TelegramToken)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to connect: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "connected",
		"bot_name": "@" + instance.Bot.Self.UserName,
	})
}

// Disconnect stops the business's bot
func (h *TelegramHandler) Disconnect(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	h.tgManager.DisconnectBot(businessID)
	c.JSON(http.StatusOK, gin.H{"status": "disconnected"})
}
