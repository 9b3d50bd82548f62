package openai

import (
	"errors"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/spetersoncode/scout"
)

// wrapError categorizes API errors by status code and Retry-After.
// Other errors pass through for the retry heuristics.
func wrapError(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	var header http.Header
	if apiErr.Response != nil {
		header = apiErr.Response.Header
	}
	return scout.NewHTTPError("openai", apiErr.StatusCode, header, err)
}
