package omi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"omi-voice-gateway/pkg/logger"

	"github.com/gin-gonic/gin"
)

// cannedReply is the fixed acknowledgement pushed back when the wearable
// delivers captured speech.
const cannedReply = "I have heard you!"

// WebhookHandler receives transcript payloads from the OMI platform and
// pushes the canned acknowledgement back to the user. Like the provider
// webhook, it acknowledges success regardless of internal outcome.

type WebhookHandler struct {
	Notifier *Notifier
}

type webhookPayload struct {
	SessionID string `json:"session_id"`
	Segments  []struct {
		Text string `json:"text"`
	} `json:"segments"`
	Message string `json:"message"`
	Text    string `json:"text"`
}

// Handle processes one OMI webhook. The user id arrives as a uid query param;
// text may arrive as transcript segments or as a plain message field.
func (h WebhookHandler) Handle(c *gin.Context) {
	log := logger.FromGin(c)

	var payload webhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Warn("omi webhook malformed json", "err", err)
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	userID := c.Query("uid")
	text := payload.text()

	if userID == "" || text == "" {
		log.Info("omi webhook without uid or text", "session_id", payload.SessionID)
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	log.Info("omi webhook received", "uid", userID, "chars", len(text))

	// The push happens off the request path; the webhook response must not
	// wait on the OMI API.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := h.Notifier.SendNotification(ctx, userID, cannedReply); err != nil {
			log.Error("omi notification failed", "uid", userID, "err", err)
		}
	}()

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (p webhookPayload) text() string {
	parts := make([]string, 0, len(p.Segments))
	for _, s := range p.Segments {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	if m := strings.TrimSpace(p.Message); m != "" {
		return m
	}
	return strings.TrimSpace(p.Text)
}
