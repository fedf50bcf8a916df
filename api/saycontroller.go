package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"saythenumber/numinput"
	"saythenumber/orchestrator"
)

// sayRequest carries raw user text; "number" may be a JSON string or number
type sayRequest struct {
	Number json.RawMessage `json:"number"`
}

// RegisterSayRoutes registers the status and submit endpoints.
func RegisterSayRoutes(r *gin.Engine, orch *orchestrator.Orchestrator, logger *zap.Logger) {
	g := r.Group("/api")
	g.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, orch.Snapshot())
	})
	g.POST("/say-now", handleSay(orch.SubmitNow, orch, logger))
	g.POST("/say-delay", handleSay(orch.SubmitWithDelay, orch, logger))
}

// handleSay normalizes the raw text and submits it on one path.
// 202 when dispatched, 200 when rejected locally, 409 while another attempt is loading.
func handleSay(submit func(string) (*orchestrator.Attempt, error), orch *orchestrator.Orchestrator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sayRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
			return
		}
		raw, err := rawNumber(req.Number)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "number must be a string or a number"})
			return
		}

		attempt, err := submit(numinput.Normalize(raw))
		if errors.Is(err, orchestrator.ErrAttemptInFlight) {
			c.JSON(http.StatusConflict, gin.H{
				"error":  "Attempt already in flight",
				"status": orch.Snapshot(),
			})
			return
		}
		if err != nil {
			logger.Error("Submit failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if !attempt.Dispatched() {
			c.JSON(http.StatusOK, attempt.Result())
			return
		}
		c.JSON(http.StatusAccepted, attempt.Started())
	}
}

func rawNumber(field json.RawMessage) (string, error) {
	if len(field) == 0 || string(field) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(field, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(field, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}
