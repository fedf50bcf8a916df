package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"saythenumber/history"
)

// RegisterHistoryRoutes registers the history endpoints. exporter may be nil.
func RegisterHistoryRoutes(r *gin.Engine, recorder *history.Recorder, exporter *history.Exporter, logger *zap.Logger) {
	g := r.Group("/api/history")
	g.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, recorder.Recent())
	})
	g.POST("/export", handleExport(recorder, exporter, logger))
}

func handleExport(recorder *history.Recorder, exporter *history.Exporter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if exporter == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history export is not configured"})
			return
		}

		key, err := exporter.Export(c.Request.Context(), recorder)
		switch {
		case errors.Is(err, history.ErrObjectExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case err != nil:
			logger.Error("History export failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			logger.Info("✅ History exported", zap.String("key", key))
			c.JSON(http.StatusCreated, gin.H{"key": key})
		}
	}
}
