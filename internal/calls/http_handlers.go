package calls

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"omi-voice-gateway/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups the call HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call the service, return JSON.

type Handlers struct {
	Service *Service
}

type createCallRequest struct {
	Message string `json:"message"`
	User    *struct {
		Name        string `json:"name"`
		PhoneNumber string `json:"phoneNumber"`
	} `json:"user"`
	Context map[string]string `json:"context"`
}

// CreateCall places an outbound call and returns the provider call id plus a
// relative status URL, echoed in the Location header for discoverability.
func (h Handlers) CreateCall(c *gin.Context) {
	log := logger.FromGin(c)

	var req createCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Message == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	in := CreateCallRequest{Message: req.Message, Context: req.Context}
	if req.User != nil {
		in.UserName = req.User.Name
		in.UserNumber = req.User.PhoneNumber
	}

	callID, err := h.Service.StartCall(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, ErrMessageRequired) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "message is required"})
			return
		}
		log.Error("call creation failed", "err", err)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "call creation failed"})
		return
	}

	statusURL := "/api/call/" + callID
	c.Header("Location", statusURL)
	c.JSON(http.StatusCreated, gin.H{"callId": callID, "statusUrl": statusURL})
}

// GetCall serves the record snapshot. With ?wait=ended&timeout=N it performs
// a bounded wait for the terminal status; the timeout is clamped server-side.
func (h Handlers) GetCall(c *gin.Context) {
	callID := c.Param("callId")

	var timeout time.Duration
	if c.Query("wait") == "ended" {
		secs, err := strconv.Atoi(c.DefaultQuery("timeout", "0"))
		if err == nil && secs > 0 {
			timeout = time.Duration(secs) * time.Second
		}
	}

	res, err := h.Service.WaitForEnded(c.Request.Context(), callID, timeout)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"call":     res.Record,
		"waited":   res.Waited,
		"timedOut": res.TimedOut,
	})
}

// GetSummary is a convenience projection of the summary field.
func (h Handlers) GetSummary(c *gin.Context) {
	summary, err := h.Service.GetSummary(c.Param("callId"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
