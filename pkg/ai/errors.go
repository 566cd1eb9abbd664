package ai

import (
	"context"
	"errors"
	"net/http"

	cerrors "github.com/matzehuels/campaigncanvas/pkg/errors"
)

// classify maps an upstream failure to a coded error. status is the HTTP
// status reported by the provider SDK, or 0 when none is known.
func classify(provider string, status int, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return cerrors.Wrap(cerrors.ErrCodeUpstream, err, "%s request timed out", provider)
	}
	switch cerrors.FromStatus(status) {
	case cerrors.ErrCodeRateLimited:
		return cerrors.Wrap(cerrors.ErrCodeRateLimited, err, "rate limit exceeded, please try again later")
	case cerrors.ErrCodeCreditsExhausted:
		return cerrors.Wrap(cerrors.ErrCodeCreditsExhausted, err, "AI credits exhausted, please add funds to continue")
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return cerrors.Wrap(cerrors.ErrCodeUpstream, err, "%s rejected the API key", provider)
	}
	return cerrors.Wrap(cerrors.ErrCodeUpstream, err, "%s request failed", provider)
}

// errEmpty is returned when a provider answers without any text.
var errEmpty = errors.New("empty response")
