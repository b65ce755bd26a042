package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/shared/telemetry"
)

// Envelope is the uniform response shape returned by every business endpoint.
type Envelope struct {
	Success          bool        `json:"success"`
	Content          interface{} `json:"content,omitempty"`
	Message          string      `json:"message,omitempty"`
	RemainingCredits *int        `json:"remainingCredits,omitempty"`
}

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK writes a successful envelope carrying content.
func OK(c *gin.Context, content interface{}) {
	JSON(c, http.StatusOK, Envelope{Success: true, Content: content})
}

// OKWithCredits writes a successful envelope carrying content and the
// caller's remaining credit balance for the capability just consumed.
func OKWithCredits(c *gin.Context, content interface{}, remaining int) {
	JSON(c, http.StatusOK, Envelope{Success: true, Content: content, RemainingCredits: &remaining})
}

// Failure logs and sends a failed envelope, aborting further handlers.
func Failure(c *gin.Context, status int, message string) {
	fields := map[string]any{
		"status":     status,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	telemetry.Error("http.failure", fields)

	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message})
}
