package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"saythenumber/history"
	"saythenumber/orchestrator"
)

// Dependencies are the components the HTTP surface exposes. Exporter and
// Metrics are optional.
type Dependencies struct {
	Orchestrator *orchestrator.Orchestrator
	History      *history.Recorder
	Exporter     *history.Exporter
	Metrics      http.Handler
	Logger       *zap.Logger
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(deps Dependencies) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	r := gin.New()
	// Minimal middleware: recovery; request logging stays at debug level
	r.Use(gin.Recovery(), requestLogger(deps.Logger))

	RegisterHealthRoutes(r)
	RegisterSayRoutes(r, deps.Orchestrator, deps.Logger)
	RegisterHistoryRoutes(r, deps.History, deps.Exporter, deps.Logger)
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics))
	}
	return r
}

// RegisterHealthRoutes registers GET /health
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.Debug("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()))
	}
}
