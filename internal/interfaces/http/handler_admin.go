package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wa_botflow/internal/entities"
	"wa_botflow/internal/infrastructure"
)

type AdminHandler struct {
	users     UserDirectory
	usage     UsageReporter
	tenants   SchemaDropper
	waManager *infrastructure.WhatsAppManager
	tgManager *infrastructure.TelegramBotManager
	logger    *slog.Logger
}

func NewAdminHandler(users UserDirectory, usage UsageReporter, tenants SchemaDropper, waManager *infrastructure.WhatsAppManager, tgManager *infrastructure.TelegramBotManager) *AdminHandler {
	return &AdminHandler{
		users:     users,
		usage:     usage,
		tenants:   tenants,
		waManager: waManager,
		tgManager: tgManager,
		logger:    slog.Default(),
	}
}

// GetStats returns platform statistics
func (h *AdminHandler) GetStats(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var active, waEnabled, admins int
	for _, u := range users {
		if u.IsActive {
			active++
		}
		if u.WAEnabled {
			waEnabled++
		}
		if u.IsAdmin() {
			admins++
		}
	}

	activeWA, activeTG := 0, 0
	if h.waManager != nil {
		activeWA = len(h.waManager.ConnectedBusinesses())
	}
	if h.tgManager != nil {
		activeTG = h.tgManager.ConnectedCount()
	}

	c.JSON(http.StatusOK, gin.H{
		"total_users":           len(users),
		"active_users":          active,
		"wa_enabled_users":      waEnabled,
		"active_wa_connections": activeWA,
		"active_telegram_bots":  activeTG,
		"admin_count":           admins,
	})
}

// GetAllUsers returns list of all users
func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	connected := make(map[string]bool)
	if h.waManager != nil {
		for _, id := range h.waManager.ConnectedBusinesses() {
			connected[id] = true
		}
	}

	result := make([]gin.H, len(users))
	for i, u := range users {
		result[i] = gin.H{
			"id":            u.ID,
			"username":      u.Username,
			"role":          u.Role,
			"schema_name":   u.SchemaName,
			"is_active":     u.IsActive,
			"wa_enabled":    u.WAEnabled,
			"wa_connected":  connected[u.SchemaName],
			"daily_limit":   u.DailyLimit,
			"monthly_limit": u.MonthlyLimit,
		}
	}

	c.JSON(http.StatusOK, result)
}

// UpdateUserStatus enables/disables a user account
func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	var payload struct {
		IsActive bool `json:"is_active"`
	}
	user, ok := h.bindUser(c, &payload)
	if !ok {
		return
	}

	if user.ID == getUserID(c) && !payload.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot disable your own account"})
		return
	}

	user.IsActive = payload.IsActive
	if !h.save(c, user) {
		return
	}
	if !payload.IsActive {
		h.disconnect(user.SchemaName)
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated", "is_active": payload.IsActive})
}

// UpdateWAEnabled enables/disables WhatsApp for a user
func (h *AdminHandler) UpdateWAEnabled(c *gin.Context) {
	var payload struct {
		WAEnabled bool `json:"wa_enabled"`
	}
	user, ok := h.bindUser(c, &payload)
	if !ok {
		return
	}

	user.WAEnabled = payload.WAEnabled
	if !h.save(c, user) {
		return
	}
	if !payload.WAEnabled && h.waManager != nil {
		h.waManager.DisconnectClient(user.SchemaName)
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated", "wa_enabled": payload.WAEnabled})
}

// UpdateUserLimits sets message quotas for a user (0 means unlimited)
func (h *AdminHandler) UpdateUserLimits(c *gin.Context) {
	var payload struct {
		DailyLimit   int `json:"daily_limit"`
		MonthlyLimit int `json:"monthly_limit"`
	}
	user, ok := h.bindUser(c, &payload)
	if !ok {
		return
	}
	if payload.DailyLimit < 0 || payload.MonthlyLimit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Limits cannot be negative"})
		return
	}

	user.DailyLimit = payload.DailyLimit
	user.MonthlyLimit = payload.MonthlyLimit
	if !h.save(c, user) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":        "updated",
		"daily_limit":   payload.DailyLimit,
		"monthly_limit": payload.MonthlyLimit,
	})
}

// GetUserUsage returns the quota status and daily history of a user
func (h *AdminHandler) GetUserUsage(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}
	if h.usage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Usage tracking not configured"})
		return
	}
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days < 1 || days > 365 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 365"})
		return
	}

	ctx := c.Request.Context()
	quota, err := h.usage.GetQuotaStatus(ctx, user.ID, user.DailyLimit, user.MonthlyLimit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	history, err := h.usage.GetUsageHistory(ctx, user.ID, days)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quota": quota, "history": history})
}

// DisconnectUserWA forcefully disconnects a user's WhatsApp
func (h *AdminHandler) DisconnectUserWA(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}
	if h.waManager == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "WhatsApp not configured"})
		return
	}
	h.waManager.DisconnectClient(user.SchemaName)
	c.JSON(http.StatusOK, gin.H{"status": "disconnected"})
}

// DeleteUser removes an account together with its business data
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}
	if user.ID == getUserID(c) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete your own account"})
		return
	}

	h.disconnect(user.SchemaName)
	ctx := c.Request.Context()
	if user.SchemaName != "" && h.tenants != nil {
		if err := h.tenants.DropTenantSchema(ctx, user.SchemaName); err != nil {
			respondError(c, h.logger, err)
			return
		}
	}
	if err := h.users.Delete(ctx, user.ID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.logger.Info("user deleted", "user", user.ID, "business", user.SchemaName)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *AdminHandler) loadUser(c *gin.Context) (*entities.User, bool) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return nil, false
	}
	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return nil, false
	}
	return user, true
}

func (h *AdminHandler) bindUser(c *gin.Context, payload any) (*entities.User, bool) {
	user, ok := h.loadUser(c)
	if !ok {
		return nil, false
	}
	if err := c.ShouldBindJSON(payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return nil, false
	}
	return user, true
}

func (h *AdminHandler) save(c *gin.Context, user *entities.User) bool {
	if err := h.users.UpdateAccess(c.Request.Context(), *user); err != nil {
		respondError(c, h.logger, err)
		return false
	}
	return true
}

func (h *AdminHandler) disconnect(businessID string) {
	if businessID == "" {
		return
	}
	if h.waManager != nil {
		h.waManager.DisconnectClient(businessID)
	}
	if h.tgManager != nil {
		h.tgManager.DisconnectBot(businessID)
	}
}
