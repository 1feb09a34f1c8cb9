package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"food-analysis-gateway/dataurl"
	"food-analysis-gateway/llm"
	"food-analysis-gateway/metrics"
	"food-analysis-gateway/models"
	"food-analysis-gateway/sanitize"
)

// AnalyzeFood handles POST /api/analyze-food: it admits and bounds the
// inbound payload, forwards the decoded image to the vision-language
// provider under a deadline, and maps the classified outcome to the HTTP
// contract. Admission failures are client errors and are never retried.
func (h *Handlers) AnalyzeFood(c *gin.Context) {
	metrics.AnalyzeInFlight.Inc()
	defer metrics.AnalyzeInFlight.Dec()

	// Declared-length gate before the body is read. The decoded-size check
	// below stays authoritative since the header can be absent or wrong.
	if c.Request.ContentLength > int64(h.cfg.MaxImageSize) {
		h.reject(c, http.StatusRequestEntityTooLarge,
			"Request body too large - maximum allowed size is 10MB", "declared_too_large")
		return
	}

	if c.ContentType() != "application/json" {
		h.reject(c, http.StatusUnsupportedMediaType,
			"Invalid content type - application/json required", "bad_content_type")
		return
	}

	// Bound the actual read as well; 2x the image limit covers the base64
	// expansion plus the JSON envelope.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 2*int64(h.cfg.MaxImageSize))

	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.reject(c, http.StatusRequestEntityTooLarge,
				"Request body too large - maximum allowed size is 10MB", "body_too_large")
			return
		}
		h.reject(c, http.StatusBadRequest, "No image provided", "bad_json")
		return
	}
	if req.Image == "" {
		h.reject(c, http.StatusBadRequest, "No image provided", "no_image")
		return
	}

	imageData, err := dataurl.Parse(req.Image, h.cfg.MaxImageSize)
	if err != nil {
		h.rejectDataURL(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.GeminiTimeout)
	defer cancel()

	start := time.Now()
	outcome := h.provider.AnalyzeImage(ctx, imageData)
	metrics.ProviderCallDurationSeconds.
		WithLabelValues(outcome.Kind.String()).
		Observe(time.Since(start).Seconds())

	h.respond(c, outcome)
}

// rejectDataURL maps each data URL validation failure to its status and
// client message.
func (h *Handlers) rejectDataURL(c *gin.Context, err error) {
	switch {
	case errors.Is(err, dataurl.ErrNotImageDataURL):
		h.reject(c, http.StatusBadRequest, "Invalid image format - must be a data URL", "bad_prefix")
	case errors.Is(err, dataurl.ErrEmptyPayload):
		h.reject(c, http.StatusBadRequest, "Empty image data", "empty_payload")
	case errors.Is(err, dataurl.ErrInvalidBase64):
		h.reject(c, http.StatusBadRequest, "Invalid base64 image data", "invalid_base64")
	case errors.Is(err, dataurl.ErrTooLarge):
		h.reject(c, http.StatusRequestEntityTooLarge, "Image too large - maximum allowed size is 10MB", "decoded_too_large")
	default:
		h.reject(c, http.StatusBadRequest, "Invalid image data URL format", "malformed_data_url")
	}
}

func (h *Handlers) reject(c *gin.Context, status int, message, reason string) {
	metrics.RejectedPayloadsTotal.WithLabelValues(reason).Inc()
	metrics.AnalyzeRequestsTotal.WithLabelValues("rejected").Inc()
	c.JSON(status, models.ErrorResponse{Error: message})
}

// respond maps a classified provider outcome to the HTTP contract. Full
// diagnostic detail goes to the server log only; clients get the bounded
// outcome message.
func (h *Handlers) respond(c *gin.Context, outcome llm.Outcome) {
	metrics.AnalyzeRequestsTotal.WithLabelValues(outcome.Kind.String()).Inc()

	switch outcome.Kind {
	case llm.OutcomeSuccess:
		c.JSON(http.StatusOK, models.AnalyzeResponse{Analysis: sanitize.HTML(outcome.Text)})
	case llm.OutcomeSafetyBlocked:
		log.WithField("detail", outcome.Detail).Warn("Analysis blocked by provider safety policy")
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: outcome.Message})
	case llm.OutcomeProviderError:
		log.WithField("status", outcome.Status).WithField("detail", outcome.Detail).
			Error("Provider returned an error")
		c.JSON(outcome.Status, models.ErrorResponse{Error: outcome.Message})
	case llm.OutcomeTimeout:
		log.WithField("detail", outcome.Detail).Error("Provider call timed out")
		c.JSON(http.StatusRequestTimeout, models.ErrorResponse{Error: outcome.Message})
	case llm.OutcomeMisconfigured:
		log.Errorf("Provider misconfigured: %s", outcome.Detail)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: outcome.Message})
	case llm.OutcomeMalformed:
		log.WithField("detail", outcome.Detail).Error("Provider response had no usable content")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: outcome.Message})
	default:
		log.WithField("detail", outcome.Detail).Error("Provider call failed")
		message := outcome.Message
		if message == "" {
			message = "Failed to analyze the image. Please try again."
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: message})
	}
}
