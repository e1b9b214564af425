package main

import (
	"net/http"

	"omi-voice-gateway/internal/assistant"
	"omi-voice-gateway/internal/calls"
	"omi-voice-gateway/internal/omi"
	"omi-voice-gateway/internal/summarize"
	"omi-voice-gateway/internal/vapi"

	"github.com/gin-gonic/gin"
)

// deps bundles the wired services handed to route registration.
type deps struct {
	Store      calls.Store
	Calls      *calls.Service
	Settings   *assistant.Registry
	Summarizer *summarize.Service
	Notifier   *omi.Notifier
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers delegate to internal modules.
func registerRoutes(r *gin.Engine, d deps) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "OMI voice gateway",
			"status":  "running",
			"endpoints": gin.H{
				"call":     "/api/call",
				"webhooks": "/api/webhooks",
				"health":   "/healthz",
			},
		})
	})

	api := r.Group("/api")
	{
		callHandlers := calls.Handlers{Service: d.Calls}
		api.POST("/call", callHandlers.CreateCall)
		api.GET("/call/:callId", callHandlers.GetCall)
		api.GET("/call/:callId/summary", callHandlers.GetSummary)

		configHandlers := assistant.Handlers{Registry: d.Settings}
		api.GET("/config", configHandlers.GetConfig)
		api.POST("/config", configHandlers.UpdateConfig)
		api.POST("/config/prompt", configHandlers.UpdatePrompt)

		api.POST("/summarize", summarize.Handlers{Service: d.Summarizer}.Summarize)

		// Provider webhooks (public). Either endpoint must always answer 2xx
		// so the providers never enter their retry loops.
		webhooks := api.Group("/webhooks")
		{
			webhooks.POST("/vapi", vapi.WebhookHandler{Store: d.Store}.Handle)
			webhooks.POST("/omi", omi.WebhookHandler{Notifier: d.Notifier}.Handle)
		}
	}
}
