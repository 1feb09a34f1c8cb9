package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"food-analysis-gateway/config"
	"food-analysis-gateway/gemini"
	"food-analysis-gateway/handlers"
	"food-analysis-gateway/llm"
	"food-analysis-gateway/metrics"
	"food-analysis-gateway/middleware"
	"food-analysis-gateway/stubllm"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Info(".env file not found, using system environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// A missing key is reported per request as a misconfiguration, so the
	// service still starts; warn loudly at boot instead of exiting.
	if cfg.GeminiAPIKey == "" && cfg.LLMProvider != "stub" {
		log.Warn("GEMINI_API_KEY is not set; analyze requests will fail until it is configured")
	}

	provider := newProvider(cfg)
	log.Infof("Using %s vision-language provider", provider.SourceName())

	// Register Prometheus metrics
	metrics.Register()

	// Initialize handlers
	h := handlers.NewHandlers(cfg, provider)

	// Setup HTTP server
	router := gin.Default()
	router.Use(middleware.SecurityHeaders())

	// API routes
	api := router.Group("/api")
	{
		api.GET("/health", h.HealthCheck)
		api.GET("/version", h.Version)
		api.POST("/analyze-food", h.AnalyzeFood)
	}

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Infof("Starting HTTP server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

// newProvider selects the vision-language provider. The stub provider keeps
// CI and local runs off the network.
func newProvider(cfg *config.Config) llm.Provider {
	if strings.EqualFold(cfg.LLMProvider, "stub") {
		return stubllm.NewClient()
	}
	return gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
}
