package models

// AnalyzeRequest is the inbound payload for the analyze-food endpoint.
// Image must be a base64 data URL ("data:image/<subtype>;base64,<data>").
type AnalyzeRequest struct {
	Image string `json:"image"`
}

// AnalyzeResponse is the success envelope returned to the client.
// Analysis is HTML-entity escaped before it is placed here.
type AnalyzeResponse struct {
	Analysis string `json:"analysis"`
}

// ErrorResponse is the uniform error envelope for all failure outcomes.
type ErrorResponse struct {
	Error string `json:"error"`
}
