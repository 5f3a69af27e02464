package domain

import (
	"errors"
	"strings"

	apperrors "focustree/internal/platform/errors"
)

// IsRateLimited reports whether err means the backend refused for quota.
// Adapters map their native signals to apperrors.ErrRateLimited; the text
// checks catch backends that only surface the status in the message.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, apperrors.ErrRateLimited) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
