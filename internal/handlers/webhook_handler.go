package handlers

import (
	"net/http"

	"github.com/bazarbekovic131/wahr-chatbot/internal/whatsapp"
	"github.com/bazarbekovic131/wahr-chatbot/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookHandler handles the WhatsApp webhook endpoints
type WebhookHandler struct {
	verifyToken string
	dispatcher  DispatcherInterface
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(verifyToken string, dispatcher DispatcherInterface) *WebhookHandler {
	return &WebhookHandler{
		verifyToken: verifyToken,
		dispatcher:  dispatcher,
	}
}

// Verify handles the platform's webhook verification handshake (GET /webhook).
// Responds with the challenge when mode is "subscribe" and the token matches.
func (h *WebhookHandler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "" || token == "" {
		logger.Info("Webhook verification missing parameters")
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Missing parameters"})
		return
	}

	if mode != "subscribe" || token != h.verifyToken {
		logger.Info("Webhook verification failed")
		c.JSON(http.StatusForbidden, gin.H{"status": "error", "message": "Verification failed"})
		return
	}

	logger.Info("Webhook verified")
	c.String(http.StatusOK, challenge)
}

// Receive handles incoming webhook events (POST /webhook).
//
// Every message send triggers four webhook deliveries: message, sent,
// delivered, read. Status updates are acknowledged and ignored.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var payload whatsapp.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		logger.Error("Failed to decode webhook JSON", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid JSON provided"})
		return
	}

	if payload.IsStatusUpdate() {
		logger.Debug("Received a WhatsApp status update")
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	if !payload.IsValidMessage() {
		logger.Info("Not a valid WhatsApp API event")
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Not a WhatsApp API event"})
		return
	}

	if err := h.dispatcher.Process(c.Request.Context(), &payload); err != nil {
		logger.Error("Failed to process webhook message", zap.Error(err))
		// State persisted before the failure is intentionally not rolled back
		if whatsapp.IsTimeout(err) {
			c.JSON(http.StatusRequestTimeout, gin.H{"status": "error", "message": "Request timed out"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to process message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
