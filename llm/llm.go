package llm

import "context"

// OutcomeKind tags the result of one provider call. Classification is a
// closed set so the handler can map each case to exactly one HTTP status.
type OutcomeKind int

const (
	// OutcomeSuccess carries extracted analysis text.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeSafetyBlocked is a provider content-policy refusal. It is an
	// expected outcome, not an error to retry.
	OutcomeSafetyBlocked
	// OutcomeProviderError is a non-2xx provider response; Status holds the
	// provider's HTTP status, which is passed through to the client.
	OutcomeProviderError
	// OutcomeMalformed is a 2xx provider response with no usable content.
	OutcomeMalformed
	// OutcomeTimeout means the provider did not respond within the deadline.
	OutcomeTimeout
	// OutcomeTransportError is a non-timeout network failure.
	OutcomeTransportError
	// OutcomeMisconfigured means the provider credential is missing. This is
	// an operator error; the client only sees a generic message.
	OutcomeMisconfigured
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeSafetyBlocked:
		return "safety_blocked"
	case OutcomeProviderError:
		return "provider_error"
	case OutcomeMalformed:
		return "malformed"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeTransportError:
		return "transport_error"
	case OutcomeMisconfigured:
		return "misconfigured"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of one image analysis call.
type Outcome struct {
	Kind OutcomeKind

	// Text is the raw analysis text when Kind is OutcomeSuccess. It is not
	// sanitized here; the handler escapes it exactly once.
	Text string

	// Status is the provider HTTP status when Kind is OutcomeProviderError.
	Status int

	// Message is a bounded, client-safe description of the failure. It never
	// contains credentials, stack traces or raw provider payloads.
	Message string

	// Detail is server-side diagnostic context. Logged, never returned to
	// the client.
	Detail string
}

// Provider abstracts a vision-language model used by the gateway.
// Implementations must be safe for concurrent use.
type Provider interface {
	// AnalyzeImage sends raw image bytes to the model and classifies the
	// response. The call is bounded by ctx; implementations must not retry.
	AnalyzeImage(ctx context.Context, imageData []byte) Outcome
	// SourceName returns a short provider label for logs and metrics.
	SourceName() string
}
