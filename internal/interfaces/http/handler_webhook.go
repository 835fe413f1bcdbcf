package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pagebot/internal/entities"
)

// defaultVerifyToken mirrors the handshake fallback used before any settings
// are stored.
const defaultVerifyToken = "my_verify_token"

// VerifyWebhook answers the platform's subscription handshake: echo the
// challenge iff hub.mode is "subscribe" and the verify token matches.
func (h *Handler) VerifyWebhook(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	settings, err := h.botService.APISettings(c.Request.Context())
	if err != nil {
		h.logger.Error("load api settings", zap.Error(err))
	}
	verifyToken := settings.FacebookVerifyToken
	if verifyToken == "" {
		verifyToken = defaultVerifyToken
	}

	if mode == "subscribe" && token == verifyToken {
		h.logger.Info("webhook verified")
		c.String(http.StatusOK, challenge)
		return
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "Verification failed"})
}

// ReceiveWebhook accepts a page webhook delivery. Once the body parses, the
// response is always success: internal failures are logged, never surfaced,
// so the platform does not retry the whole batch.
func (h *Handler) ReceiveWebhook(c *gin.Context) {
	var payload entities.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Error("malformed webhook body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook processing failed"})
		return
	}

	h.botService.ProcessWebhook(c.Request.Context(), &payload)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
