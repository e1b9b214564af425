package summarize

import (
	"errors"
	"net/http"

	"omi-voice-gateway/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Service *Service
}

type summarizeRequest struct {
	Transcript         string `json:"transcript"`
	CustomInstructions string `json:"customInstructions"`
}

func (h Handlers) Summarize(c *gin.Context) {
	log := logger.FromGin(c)

	var req summarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Transcript == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "transcript is required"})
		return
	}

	res, err := h.Service.Summarize(c.Request.Context(), req.Transcript, req.CustomInstructions)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "OpenAI API key not configured"})
			return
		}
		log.Error("summarization failed", "err", err)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "summarization failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": res.Summary, "usage": res.Usage})
}
