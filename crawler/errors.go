package crawler

import (
	"context"
	"errors"
	"net"
	"net/http"
)

// errKind labels a fetch failure for metrics and the run summary.
type errKind string

const (
	errUnknown     errKind = "unknown"
	errTimeout     errKind = "timeout"
	errConnection  errKind = "connection"
	errForbidden   errKind = "forbidden"
	errNotFound    errKind = "not_found"
	errRateLimited errKind = "rate_limited"
	errOther       errKind = "other"
)

// classifyFetch maps a transport error and HTTP status to an error kind.
// Timeouts are checked before generic net.OpError so a timed-out dial is
// labelled as a timeout.
func classifyFetch(err error, statusCode int) errKind {
	if err == nil && statusCode == 0 {
		return errUnknown
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return errTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errTimeout
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errConnection
	}

	switch statusCode {
	case http.StatusForbidden:
		return errForbidden
	case http.StatusNotFound:
		return errNotFound
	case http.StatusTooManyRequests:
		return errRateLimited
	}

	if err == nil {
		return errUnknown
	}
	return errOther
}
