package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"food-analysis-gateway/llm"
)

const analysisPrompt = "You are a nutritional analysis expert. Analyze this food image and provide the following information:\n" +
	"1) Food identification: What food item(s) is shown in the image?\n" +
	"2) Estimated calories per serving\n" +
	"3) Key nutritional benefits (proteins, vitamins, minerals, etc.)\n" +
	"4) Potential allergens or dietary considerations\n\n" +
	"Format your response in clear, labeled sections with bullet points where appropriate."

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// maxErrorExcerpt bounds how much of an unparseable provider error body
	// is echoed to the client.
	maxErrorExcerpt = 100

	// maxResponseBytes bounds how much of the provider response is read.
	maxResponseBytes = 1 << 20
)

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type geminiRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
	SafetySettings   []safetySetting  `json:"safetySettings"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text,omitempty"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

type geminiErrorResponse struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// The generation parameters and safety thresholds are fixed; they are built
// once so that what is tested is exactly what is sent.
var defaultGenerationConfig = generationConfig{
	Temperature:     0.2,
	TopK:            32,
	TopP:            0.95,
	MaxOutputTokens: 800,
}

var defaultSafetySettings = []safetySetting{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
}

// Client calls the Gemini generateContent endpoint. The call deadline comes
// from the caller's context; the client itself holds no timeout state.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		model:   strings.TrimSpace(model),
		baseURL: defaultBaseURL,
		http:    &http.Client{},
	}
}

func (c *Client) SourceName() string {
	return "Gemini"
}

// AnalyzeImage sends the fixed analysis request with the image inlined as
// base64 and classifies the response. It never retries.
func (c *Client) AnalyzeImage(ctx context.Context, imageData []byte) llm.Outcome {
	if c.apiKey == "" {
		return llm.Outcome{
			Kind:    llm.OutcomeMisconfigured,
			Message: "Analysis service is not configured. Please try again later.",
			Detail:  "GEMINI_API_KEY is not set",
		}
	}

	reqBody := geminiRequest{
		Contents: []content{
			{
				Parts: []part{
					{Text: analysisPrompt},
					{
						// Mime type is fixed to image/jpeg regardless of the
						// declared image subtype, matching the historical
						// behavior of this endpoint.
						InlineData: &inlineData{
							MimeType: "image/jpeg",
							Data:     base64.StdEncoding.EncodeToString(imageData),
						},
					},
				},
			},
		},
		GenerationConfig: defaultGenerationConfig,
		SafetySettings:   defaultSafetySettings,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return llm.Outcome{
			Kind:    llm.OutcomeTransportError,
			Message: "Failed to analyze the image. Please try again.",
			Detail:  fmt.Sprintf("marshal request: %v", err),
		}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return llm.Outcome{
			Kind:    llm.OutcomeTransportError,
			Message: "Failed to analyze the image. Please try again.",
			Detail:  fmt.Sprintf("create request: %v", err),
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportOutcome(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return c.transportOutcome(ctx, err)
	}

	return classify(resp.StatusCode, body)
}

func (c *Client) transportOutcome(ctx context.Context, err error) llm.Outcome {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return llm.Outcome{
			Kind:    llm.OutcomeTimeout,
			Message: "The request timed out. Please try again with a smaller image.",
			Detail:  err.Error(),
		}
	}
	return llm.Outcome{
		Kind:    llm.OutcomeTransportError,
		Message: "Failed to analyze the image. Please try again.",
		Detail:  err.Error(),
	}
}

// classify turns the raw provider response into exactly one outcome. The
// safety-block check must run before the candidate-emptiness checks: a
// blocked prompt legitimately has no candidates.
func classify(status int, body []byte) llm.Outcome {
	if status < 200 || status >= 300 {
		return classifyError(status, body)
	}

	var gr geminiResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return llm.Outcome{
			Kind:    llm.OutcomeMalformed,
			Message: "No analysis results returned from the AI model. Please try a different image.",
			Detail:  fmt.Sprintf("unmarshal response: %v; body: %s", err, body),
		}
	}

	if gr.PromptFeedback != nil && gr.PromptFeedback.BlockReason != "" {
		return llm.Outcome{
			Kind:    llm.OutcomeSafetyBlocked,
			Message: "The request was blocked for safety reasons. Please try a different image.",
			Detail:  "block reason: " + gr.PromptFeedback.BlockReason,
		}
	}

	if len(gr.Candidates) == 0 {
		return llm.Outcome{
			Kind:    llm.OutcomeMalformed,
			Message: "No analysis results returned from the AI model. Please try a different image.",
			Detail:  "no candidates in response: " + string(body),
		}
	}

	var text string
	for _, p := range gr.Candidates[0].Content.Parts {
		if p.Text != "" {
			text = p.Text
			break
		}
	}
	if text == "" {
		return llm.Outcome{
			Kind:    llm.OutcomeMalformed,
			Message: "No text content in the AI model response. Please try a different image.",
			Detail:  "no text part in first candidate: " + string(body),
		}
	}

	return llm.Outcome{Kind: llm.OutcomeSuccess, Text: text}
}

func classifyError(status int, body []byte) llm.Outcome {
	if json.Valid(body) {
		var ge geminiErrorResponse
		_ = json.Unmarshal(body, &ge)
		message := "Error from Gemini API"
		if ge.Error != nil && ge.Error.Message != "" {
			message = ge.Error.Message
		}
		return llm.Outcome{
			Kind:    llm.OutcomeProviderError,
			Status:  status,
			Message: message,
			Detail:  string(body),
		}
	}

	excerpt := string(body)
	if len(excerpt) > maxErrorExcerpt {
		excerpt = excerpt[:maxErrorExcerpt]
	}
	return llm.Outcome{
		Kind:    llm.OutcomeProviderError,
		Status:  status,
		Message: fmt.Sprintf("Error from Gemini API: %s...", excerpt),
		Detail:  string(body),
	}
}
