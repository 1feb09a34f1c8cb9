package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"food-analysis-gateway/config"
	"food-analysis-gateway/llm"
	"food-analysis-gateway/version"
)

// ServiceName appears in health, version and log output.
const ServiceName = "food-analysis-gateway"

// Handlers represents the HTTP handlers for the gateway.
type Handlers struct {
	cfg      *config.Config
	provider llm.Provider
}

// NewHandlers creates new HTTP handlers backed by the given provider.
func NewHandlers(cfg *config.Config, provider llm.Provider) *Handlers {
	return &Handlers{cfg: cfg, provider: provider}
}

// HealthCheck handles health check requests
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"service":  ServiceName,
		"provider": h.provider.SourceName(),
	})
}

// Version returns build information.
func (h *Handlers) Version(c *gin.Context) {
	c.JSON(http.StatusOK, version.Get(ServiceName))
}
