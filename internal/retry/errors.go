package retry

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/spetersoncode/scout"
)

// statusCoder matches errors that carry an HTTP status code.
type statusCoder interface {
	StatusCode() int
}

// IsTransient determines if an error is transient and should be retried.
// A scout.CategorizedError decides for itself. Otherwise these count as
// transient: HTTP 408, 429 and 5xx, network timeouts, connection resets
// and refusals, temporary DNS failures, and provider messages that say
// so ("rate limit", "overloaded", ...). Context cancellation never is.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var ce scout.CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == scout.ErrorTransient
	}

	var sc statusCoder
	if errors.As(err, &sc) && scout.CategorizeStatus(sc.StatusCode()) == scout.ErrorTransient {
		return true
	}

	return isTransientNetworkError(err) || hasTransientMessage(err)
}

func isTransientNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET, syscall.ECONNREFUSED, syscall.ETIMEDOUT:
			return true
		}
	}
	return false
}

var transientPatterns = []string{
	"connection reset",
	"connection refused",
	"timeout",
	"temporary failure",
	"service unavailable",
	"too many requests",
	"rate limit",
	"overloaded",
	"bad gateway",
	"gateway timeout",
	"error 429",
	"error 503",
}

func hasTransientMessage(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, p := range transientPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
