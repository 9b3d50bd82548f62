package google

import (
	"errors"
	"fmt"
	"time"

	"github.com/spetersoncode/scout"
	"google.golang.org/genai"
)

// BlockedError indicates the request was blocked by content filtering.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("google: request blocked: %s", e.Reason)
}

// Category reports blocked prompts as user input errors.
func (e *BlockedError) Category() scout.ErrorCategory { return scout.ErrorUserInput }

// StatusCode returns 0; blocking is not an HTTP failure.
func (e *BlockedError) StatusCode() int { return 0 }

// RetryAfter returns 0.
func (e *BlockedError) RetryAfter() time.Duration { return 0 }

// wrapError categorizes API errors by status code. genai.APIError does
// not expose headers, so Retry-After is unavailable.
func wrapError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	return scout.NewHTTPError("google", apiErr.Code, nil, err)
}
