package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"wa_botflow/internal/entities"
)

// GetUserStats returns dashboard stats for the caller's business
func (h *Handler) GetUserStats(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	userID := getUserID(c)

	menus, err := h.dashboard.ListMenus(ctx, businessID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	steps, err := h.dashboard.ListBookingSteps(ctx, businessID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	warnings, err := h.dashboard.ValidateGraph(ctx, businessID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	waConnected, waPhone, waName := false, "", ""
	if h.waManager != nil {
		if client := h.waManager.GetClient(businessID); client != nil && client.IsConnected() {
			waConnected = true
			waPhone, waName = client.GetUserInfo()
		}
	}

	response := gin.H{
		"menu_count":         len(menus),
		"booking_step_count": len(steps),
		"graph_warnings":     len(warnings),
		"wa_connected":       waConnected,
		"wa_phone":           waPhone,
		"wa_name":            waName,
		"business_id":        businessID,
	}

	if h.users != nil && h.usage != nil {
		if user, err := h.users.GetByID(ctx, userID); err == nil {
			if quota, err := h.usage.GetQuotaStatus(ctx, userID, user.DailyLimit, user.MonthlyLimit); err == nil {
				response["quota"] = quota
			}
		}
	}

	c.JSON(http.StatusOK, response)
}

// Menus

type menuRequest struct {
	Name         string `json:"name"`
	MessageText  string `json:"message_text"`
	IsEntryPoint bool   `json:"is_entry_point"`
}

func (r menuRequest) menu(id string) entities.Menu {
	return entities.Menu{
		ID:           id,
		Name:         SanitizeString(r.Name),
		MessageText:  SanitizeString(r.MessageText),
		IsEntryPoint: r.IsEntryPoint,
	}
}

func (h *Handler) ListMenus(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	menus, err := h.dashboard.ListMenus(c.Request.Context(), businessID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, menus)
}

func (h *Handler) GetMenu(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	menu, err := h.dashboard.GetMenu(c.Request.Context(), businessID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

func (h *Handler) CreateMenu(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	var req menuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	menu := req.menu("")
	if err := h.dashboard.CreateMenu(c.Request.Context(), businessID, &menu); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, menu)
}

func (h *Handler) UpdateMenu(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req menuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.dashboard.UpdateMenu(c.Request.Context(), businessID, req.menu(id)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *Handler) DeleteMenu(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.dashboard.DeleteMenu(c.Request.Context(), businessID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) SetEntryMenu(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.dashboard.SetEntryMenu(c.Request.Context(), businessID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated", "entry_menu_id": id})
}

// ValidateGraph lists the inconsistencies of the business's menu graph.
func (h *Handler) ValidateGraph(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	warnings, err := h.dashboard.ValidateGraph(c.Request.Context(), businessID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": len(warnings) == 0, "warnings": warnings})
}

// Buttons

type buttonRequest struct {
	Order      int                 `json:"order"`
	Label      string              `json:"label"`
	ActionType entities.ActionType `json:"action_type"`
	NextMenuID *string             `json:"next_menu_id"`
}

func (r buttonRequest) button(id, menuID string) entities.Button {
	next := r.NextMenuID
	if next != nil && *next == "" {
		next = nil
	}
	return entities.Button{
		ID:         id,
		MenuID:     menuID,
		Order:      r.Order,
		Label:      SanitizeString(r.Label),
		ActionType: entities.ActionType(strings.ToUpper(string(r.ActionType))),
		NextMenuID: next,
	}
}

func (h *Handler) CreateButton(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	menuID, ok := pathID(c)
	if !ok {
		return
	}
	var req buttonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	button := req.button("", menuID)
	if err := h.dashboard.CreateButton(c.Request.Context(), businessID, &button); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, button)
}

func (h *Handler) UpdateButton(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req buttonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.dashboard.UpdateButton(c.Request.Context(), businessID, req.button(id, "")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *Handler) DeleteButton(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.dashboard.DeleteButton(c.Request.Context(), businessID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Booking steps

func (h *Handler) ListBookingSteps(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	steps, err := h.dashboard.ListBookingSteps(c.Request.Context(), businessID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, steps)
}

func (h *Handler) CreateBookingStep(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	var step entities.BookingStep
	if err := c.ShouldBindJSON(&step); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	step.ID = ""
	if err := h.dashboard.CreateBookingStep(c.Request.Context(), businessID, &step); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, step)
}

func (h *Handler) UpdateBookingStep(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var step entities.BookingStep
	if err := c.ShouldBindJSON(&step); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	step.ID = id
	if err := h.dashboard.UpdateBookingStep(c.Request.Context(), businessID, step); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *Handler) DeleteBookingStep(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.dashboard.DeleteBookingStep(c.Request.Context(), businessID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Bot config

func (h *Handler) GetBotConfig(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	cfg, err := h.dashboard.GetBotConfig(c.Request.Context(), businessID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *Handler) SaveBotConfig(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	var cfg entities.BotConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.dashboard.SaveBotConfig(c.Request.Context(), businessID, cfg); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// EnableAI switches AI assistance back on after the breaker turned it off.
func (h *Handler) EnableAI(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	if err := h.dashboard.EnableAI(c.Request.Context(), businessID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "enabled"})
}

// Templates

func (h *Handler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, h.templates.ListTemplates())
}

// ApplyTemplate wipes the business's graph and rebuilds it from a template.
func (h *Handler) ApplyTemplate(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	result, err := h.templates.ApplyTemplate(c.Request.Context(), businessID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Preview and conversations

type previewRequest struct {
	State         entities.State `json:"state"`
	Context       map[string]any `json:"context"`
	MessageText   string         `json:"message_text"`
	ButtonPayload string         `json:"button_payload"`
}

// Preview routes one event against the stored graph without touching any
// conversation.
func (h *Handler) Preview(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if !ValidateLength(req.MessageText, 0, MaxPreviewText) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message too long"})
		return
	}
	ev := entities.InboundEvent{MessageText: SanitizeString(req.MessageText), ButtonPayload: req.ButtonPayload}.Event()
	result, err := h.messages.Preview(c.Request.Context(), businessID, req.State, req.Context, ev)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) ListConversations(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	state := entities.State(strings.ToUpper(c.Query("state")))
	list, err := h.dashboard.ListConversations(c.Request.Context(), businessID, state, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ReleaseConversation hands a conversation in human review back to the bot.
func (h *Handler) ReleaseConversation(c *gin.Context) {
	businessID, ok := getBusinessID(c)
	if !ok {
		return
	}
	var req struct {
		Platform string `json:"platform" binding:"required"`
		Contact  string `json:"contact" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "platform and contact are required"})
		return
	}
	if err := h.messages.Release(c.Request.Context(), businessID, req.Platform, req.Contact); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "released"})
}

// pathID reads the :id parameter, answering 400 itself when it is not a UUID.
func pathID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if !ValidID(id) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return "", false
	}
	return id, true
}
