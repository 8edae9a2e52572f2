package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wa_botflow/internal/entities"
	"wa_botflow/internal/infrastructure"
	"wa_botflow/internal/interfaces"
)

const cloudTurnTimeout = 30 * time.Second

// WebhookHandler receives customer messages from transports that push to us
// over HTTP: the web chat widget and the WhatsApp Cloud API.
type WebhookHandler struct {
	handle      infrastructure.InboundHandler
	cloud       interfaces.Messenger
	verifyToken string
	logger      *slog.Logger
}

func NewWebhookHandler(handle infrastructure.InboundHandler, cloud interfaces.Messenger, verifyToken string, logger *slog.Logger) *WebhookHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookHandler{handle: handle, cloud: cloud, verifyToken: verifyToken, logger: logger}
}

// HandleWebMessage runs one turn for the web widget and answers with the
// reply inline. A null reply means the bot stays silent.
func (h *WebhookHandler) HandleWebMessage(c *gin.Context) {
	var payload struct {
		BusinessID    string `json:"business_id" binding:"required"`
		From          string `json:"from" binding:"required"`
		Content       string `json:"content"`
		ButtonPayload string `json:"button_payload"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "business_id and from are required"})
		return
	}
	if !ValidBusinessID(payload.BusinessID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown business"})
		return
	}
	if !ValidateLength(payload.From, 1, MaxContactLength) || !ValidateLength(payload.Content, 0, MaxWebMessage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message too long"})
		return
	}

	reply, err := h.handle(c.Request.Context(), entities.InboundEvent{
		BusinessID:    payload.BusinessID,
		Platform:      "web",
		Contact:       payload.From,
		MessageText:   SanitizeString(payload.Content),
		ButtonPayload: payload.ButtonPayload,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// VerifyCloudWebhook answers the Cloud API subscription handshake.
func (h *WebhookHandler) VerifyCloudWebhook(c *gin.Context) {
	if h.verifyToken == "" {
		c.String(http.StatusServiceUnavailable, "webhook not configured")
		return
	}
	if c.Query("hub.mode") != "subscribe" || c.Query("hub.verify_token") != h.verifyToken {
		c.String(http.StatusForbidden, "verification failed")
		return
	}
	c.String(http.StatusOK, c.Query("hub.challenge"))
}

// HandleCloudWebhook acknowledges at once and routes the messages in the
// background; the Cloud API retries deliveries that are not acked quickly.
func (h *WebhookHandler) HandleCloudWebhook(c *gin.Context) {
	businessID := c.Param("business")
	if !ValidBusinessID(businessID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown business"})
		return
	}
	if h.cloud == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "WhatsApp Cloud API not configured"})
		return
	}
	var body infrastructure.CloudWebhook
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	events := body.InboundEvents(businessID)
	if len(events) > 0 {
		go h.processCloud(events)
	}
	c.JSON(http.StatusOK, gin.H{"status": "received", "messages": len(events)})
}

func (h *WebhookHandler) processCloud(events []entities.InboundEvent) {
	for _, ev := range events {
		ctx, cancel := context.WithTimeout(context.Background(), cloudTurnTimeout)
		reply, err := h.handle(ctx, ev)
		if err != nil {
			h.logger.Warn("cloud message not handled", "business", ev.BusinessID, "contact", ev.Contact, "error", err)
		} else if reply != nil {
			if err := h.cloud.SendReply(ctx, ev.Contact, *reply); err != nil {
				h.logger.Error("cloud reply failed", "business", ev.BusinessID, "contact", ev.Contact, "error", err)
			}
		}
		cancel()
	}
}
