package out

import (
	"context"

	"focustree/internal/modules/coach/domain"
)

// Model is a text/vision model backend. Implementations return the raw reply
// text and map quota refusals to apperrors.ErrRateLimited.
type Model interface {
	Generate(ctx context.Context, req domain.Request) (string, error)
}
