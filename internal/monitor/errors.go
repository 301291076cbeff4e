package monitor

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

// Error class sentinels per §7. Concrete errors wrap one of these via
// errors.Is/errors.As so the retry engine and health classifier can branch
// on class without knowing the upstream SDK's error shape.
var (
	// ErrPermanent indicates a misconfiguration (auth denied, resource
	// not found): re-raised to the caller, never silently swallowed, but
	// still collapses to health.Unknown for the current tick.
	ErrPermanent = errors.New("monitor: permanent error")
	// ErrTransient indicates a rate-limit, 5xx, or timeout: retried by the
	// resilience engine before being mapped to health.Unknown.
	ErrTransient = errors.New("monitor: transient error")
	// ErrUnclassified indicates an error the classifier does not
	// recognize: treated as transient-safe (mapped to Unknown) but logged
	// with full context so it can be triaged into one of the other two
	// classes later.
	ErrUnclassified = errors.New("monitor: unclassified error")
)

type classifiedError struct {
	class error
	cause error
}

func (e *classifiedError) Error() string { return e.class.Error() + ": " + e.cause.Error() }
func (e *classifiedError) Unwrap() []error { return []error{e.class, e.cause} }

func wrapPermanent(cause error) error    { return &classifiedError{class: ErrPermanent, cause: cause} }
func wrapTransient(cause error) error    { return &classifiedError{class: ErrTransient, cause: cause} }
func wrapUnclassified(cause error) error { return &classifiedError{class: ErrUnclassified, cause: cause} }

// ClassifyGCP maps a google.golang.org/api error to one of the three §7
// classes.
func ClassifyGCP(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return wrapTransient(err)
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return wrapPermanent(err)
		case http.StatusTooManyRequests, http.StatusRequestTimeout:
			return wrapTransient(err)
		default:
			if gerr.Code >= 500 {
				return wrapTransient(err)
			}
			return wrapUnclassified(err)
		}
	}
	return wrapUnclassified(err)
}

// ClassifyCloudflare maps a Cloudflare API error to one of the three §7
// classes. cloudflare-go surfaces HTTP status via its own error types;
// callers pass the already-extracted status code since the exact type
// varies across the SDK's request helpers.
func ClassifyCloudflare(err error, statusCode int) error {
	if err == nil {
		return nil
	}
	switch {
	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden, statusCode == http.StatusNotFound:
		return wrapPermanent(err)
	case statusCode == http.StatusTooManyRequests, statusCode >= 500, statusCode == http.StatusRequestTimeout:
		return wrapTransient(err)
	case statusCode == 0:
		// No HTTP status available (e.g. network-level failure, or a
		// client-side context deadline) — treat as transient, it is the
		// safe default for an outage we didn't cause.
		return wrapTransient(err)
	default:
		return wrapUnclassified(err)
	}
}

// IsRetryable reports whether err (as classified by ClassifyGCP /
// ClassifyCloudflare) should be retried by the resilience engine: only
// ErrTransient is retryable; permanent and unclassified errors terminate
// the retry immediately per §7.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient)
}
