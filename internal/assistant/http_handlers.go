package assistant

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers exposes read/update access to the assistant settings.

type Handlers struct {
	Registry *Registry
}

func (h Handlers) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.Registry.Get())
}

func (h Handlers) UpdateConfig(c *gin.Context) {
	var p Update
	if err := c.ShouldBindJSON(&p); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	s := h.Registry.Update(p)
	c.JSON(http.StatusOK, gin.H{"success": true, "config": s})
}

type promptRequest struct {
	Prompt string `json:"prompt"`
}

// UpdatePrompt replaces the system prompt used for inline assistants.
func (h Handlers) UpdatePrompt(c *gin.Context) {
	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Prompt == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}
	s := h.Registry.Update(Update{SystemPrompt: &req.Prompt})
	c.JSON(http.StatusOK, gin.H{"success": true, "prompt": s.SystemPrompt})
}
