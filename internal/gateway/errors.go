package gateway

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrRequestFailed marks a non-success HTTP status.
	ErrRequestFailed = errors.New("request failed")
	// ErrTransport marks network, DNS or connection failures.
	ErrTransport = errors.New("transport failure")
	// ErrMalformedResponse marks a success status with an undecodable body.
	ErrMalformedResponse = errors.New("malformed response")
)

// RequestFailedError describes a non-success response. Body is only filled for
// POST calls; GET failures never carry server detail.
type RequestFailedError struct {
	Method     string
	Path       string
	Status     int
	StatusText string
	Body       string
}

func (e *RequestFailedError) Error() string {
	msg := fmt.Sprintf("%s %s: http %d", e.Method, e.Path, e.Status)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// StatusOf returns the HTTP status carried by err, if any.
func StatusOf(err error) (int, string, bool) {
	var rf *RequestFailedError
	if errors.As(err, &rf) {
		return rf.Status, rf.StatusText, true
	}
	return 0, "", false
}

func IsRequestFailed(err error) bool { return errors.Is(err, ErrRequestFailed) }

func IsTransport(err error) bool { return errors.Is(err, ErrTransport) }
