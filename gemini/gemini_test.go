package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"food-analysis-gateway/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-key", "gemini-1.5-pro")
	c.baseURL = srv.URL
	return c
}

func TestAnalyzeImageRequestShape(t *testing.T) {
	imageData := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	var captured geminiRequest
	var capturedPath string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path + "?" + r.URL.RawQuery
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	})

	outcome := c.AnalyzeImage(context.Background(), imageData)
	if outcome.Kind != llm.OutcomeSuccess {
		t.Fatalf("Kind = %v, want success (detail: %s)", outcome.Kind, outcome.Detail)
	}

	if !strings.Contains(capturedPath, "/models/gemini-1.5-pro:generateContent?key=test-key") {
		t.Errorf("unexpected request path %q", capturedPath)
	}

	if len(captured.Contents) != 1 || len(captured.Contents[0].Parts) != 2 {
		t.Fatalf("unexpected contents shape: %+v", captured.Contents)
	}
	parts := captured.Contents[0].Parts
	if !strings.Contains(parts[0].Text, "nutritional analysis expert") {
		t.Errorf("first part is not the analysis prompt: %q", parts[0].Text)
	}
	if parts[1].InlineData == nil {
		t.Fatal("second part has no inline data")
	}
	if parts[1].InlineData.MimeType != "image/jpeg" {
		t.Errorf("mime type = %q, want image/jpeg", parts[1].InlineData.MimeType)
	}
	if parts[1].InlineData.Data != base64.StdEncoding.EncodeToString(imageData) {
		t.Error("inline data does not match the input image bytes")
	}

	gc := captured.GenerationConfig
	if gc.Temperature != 0.2 || gc.TopK != 32 || gc.TopP != 0.95 || gc.MaxOutputTokens != 800 {
		t.Errorf("unexpected generation config: %+v", gc)
	}

	if len(captured.SafetySettings) != 4 {
		t.Fatalf("safety settings count = %d, want 4", len(captured.SafetySettings))
	}
	for _, s := range captured.SafetySettings {
		if s.Threshold != "BLOCK_MEDIUM_AND_ABOVE" {
			t.Errorf("threshold for %s = %q, want BLOCK_MEDIUM_AND_ABOVE", s.Category, s.Threshold)
		}
	}
}

func TestAnalyzeImageMissingCredential(t *testing.T) {
	c := NewClient("", "gemini-1.5-pro")
	c.baseURL = "http://127.0.0.1:1" // must never be contacted

	outcome := c.AnalyzeImage(context.Background(), []byte{1})
	if outcome.Kind != llm.OutcomeMisconfigured {
		t.Fatalf("Kind = %v, want misconfigured", outcome.Kind)
	}
	if strings.Contains(outcome.Message, "GEMINI_API_KEY") {
		t.Error("client-facing message leaks configuration detail")
	}
}

func TestClassifySuccess(t *testing.T) {
	body := []byte(`{"candidates":[{"content":{"parts":[{"text":"**Food:** Bagel"}]}}]}`)
	outcome := classify(http.StatusOK, body)
	if outcome.Kind != llm.OutcomeSuccess {
		t.Fatalf("Kind = %v, want success", outcome.Kind)
	}
	if outcome.Text != "**Food:** Bagel" {
		t.Errorf("Text = %q", outcome.Text)
	}
}

func TestClassifySafetyBlockBeforeEmptyCandidates(t *testing.T) {
	// A blocked prompt has zero candidates; it must still classify as a
	// safety block, not as a malformed response.
	body := []byte(`{"promptFeedback":{"blockReason":"SAFETY"},"candidates":[]}`)
	outcome := classify(http.StatusOK, body)
	if outcome.Kind != llm.OutcomeSafetyBlocked {
		t.Fatalf("Kind = %v, want safety_blocked", outcome.Kind)
	}
	if !strings.Contains(outcome.Message, "try a different image") {
		t.Errorf("Message = %q, want client-actionable safety message", outcome.Message)
	}
	if !strings.Contains(outcome.Detail, "SAFETY") {
		t.Errorf("Detail = %q, want block reason for server logs", outcome.Detail)
	}
}

func TestClassifyNoCandidates(t *testing.T) {
	outcome := classify(http.StatusOK, []byte(`{"candidates":[]}`))
	if outcome.Kind != llm.OutcomeMalformed {
		t.Fatalf("Kind = %v, want malformed", outcome.Kind)
	}
	if !strings.Contains(outcome.Message, "No analysis results returned") {
		t.Errorf("Message = %q", outcome.Message)
	}
}

func TestClassifyNoTextContent(t *testing.T) {
	outcome := classify(http.StatusOK, []byte(`{"candidates":[{"content":{"parts":[{}]}}]}`))
	if outcome.Kind != llm.OutcomeMalformed {
		t.Fatalf("Kind = %v, want malformed", outcome.Kind)
	}
	if !strings.Contains(outcome.Message, "No text content") {
		t.Errorf("Message = %q", outcome.Message)
	}
}

func TestClassifyProviderErrorWithMessage(t *testing.T) {
	body := []byte(`{"error":{"code":429,"message":"Resource has been exhausted"}}`)
	outcome := classify(http.StatusTooManyRequests, body)
	if outcome.Kind != llm.OutcomeProviderError {
		t.Fatalf("Kind = %v, want provider_error", outcome.Kind)
	}
	if outcome.Status != http.StatusTooManyRequests {
		t.Errorf("Status = %d, want 429", outcome.Status)
	}
	if outcome.Message != "Resource has been exhausted" {
		t.Errorf("Message = %q, want provider message verbatim", outcome.Message)
	}
}

func TestClassifyProviderErrorJSONWithoutMessage(t *testing.T) {
	outcome := classify(http.StatusBadGateway, []byte(`{"status":"UNAVAILABLE"}`))
	if outcome.Kind != llm.OutcomeProviderError {
		t.Fatalf("Kind = %v, want provider_error", outcome.Kind)
	}
	if outcome.Message != "Error from Gemini API" {
		t.Errorf("Message = %q", outcome.Message)
	}
}

func TestClassifyProviderErrorUnparseableBody(t *testing.T) {
	raw := strings.Repeat("x", 250)
	outcome := classify(http.StatusInternalServerError, []byte(raw))
	if outcome.Kind != llm.OutcomeProviderError {
		t.Fatalf("Kind = %v, want provider_error", outcome.Kind)
	}
	want := "Error from Gemini API: " + strings.Repeat("x", 100) + "..."
	if outcome.Message != want {
		t.Errorf("Message = %q, want 100-char excerpt", outcome.Message)
	}
	if outcome.Detail != raw {
		t.Error("Detail must keep the full body for server logs")
	}
}

func TestAnalyzeImageTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte(`{"candidates":[]}`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	outcome := c.AnalyzeImage(ctx, []byte{1})
	if outcome.Kind != llm.OutcomeTimeout {
		t.Fatalf("Kind = %v, want timeout", outcome.Kind)
	}
	if !strings.Contains(outcome.Message, "timed out") {
		t.Errorf("Message = %q", outcome.Message)
	}
}

func TestAnalyzeImageTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient("test-key", "gemini-1.5-pro")
	c.baseURL = srv.URL

	outcome := c.AnalyzeImage(context.Background(), []byte{1})
	if outcome.Kind != llm.OutcomeTransportError {
		t.Fatalf("Kind = %v, want transport_error", outcome.Kind)
	}
}
