package dataurl

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Prefix is the only accepted data URL scheme for inbound images.
const Prefix = "data:image/"

var (
	ErrNotImageDataURL = errors.New("not an image data URL")
	ErrMalformed       = errors.New("malformed data URL")
	ErrEmptyPayload    = errors.New("empty base64 payload")
	ErrInvalidBase64   = errors.New("invalid base64 payload")
	ErrTooLarge        = errors.New("decoded payload exceeds size limit")
)

// Parse validates an image data URL and returns the decoded image bytes.
// maxDecoded bounds the decoded size; oversized payloads are rejected,
// never truncated. The prefix check runs before any decoding so obviously
// bad input is cheap to refuse.
func Parse(s string, maxDecoded int) ([]byte, error) {
	if !strings.HasPrefix(s, Prefix) {
		return nil, ErrNotImageDataURL
	}

	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return nil, ErrMalformed
	}

	payload := strings.TrimSpace(parts[1])
	if payload == "" {
		return nil, ErrEmptyPayload
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBase64, err)
	}

	if len(decoded) > maxDecoded {
		return nil, ErrTooLarge
	}

	return decoded, nil
}
