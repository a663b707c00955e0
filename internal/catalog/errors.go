package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
)

// Kind classifies a failed catalog call.
type Kind int

const (
	// KindUnexpected covers everything that is neither transport nor status,
	// e.g. undecodable payloads.
	KindUnexpected Kind = iota
	// KindTransport means the request never produced a usable response.
	KindTransport
	// KindStatus means the catalog answered with an HTTP error status.
	KindStatus
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	default:
		return "unexpected"
	}
}

// Error is the single error type returned by Client.
type Error struct {
	Kind       Kind
	StatusCode int    // set for KindStatus
	Detail     string // human-readable cause, safe to show
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("catalog returned status %d", e.StatusCode)
	case KindTransport:
		return "catalog unreachable: " + e.Detail
	default:
		return "catalog failure: " + e.Detail
	}
}

func (e *Error) Unwrap() error { return e.Err }

// ErrNotFound matches any status error with code 404 via errors.Is.
var ErrNotFound = errors.New("catalog: not found")

// Is lets errors.Is(err, ErrNotFound) match 404 status errors.
func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.Kind == KindStatus && e.StatusCode == 404
}

func transportError(err error) *Error {
	return &Error{Kind: KindTransport, Detail: causeText(err), Err: err}
}

func statusError(code int) *Error {
	return &Error{Kind: KindStatus, StatusCode: code, Detail: fmt.Sprintf("status %d", code)}
}

func unexpectedError(err error) *Error {
	return &Error{Kind: KindUnexpected, Detail: causeText(err), Err: err}
}

// Classify maps any error onto a catalog *Error. Errors that already are
// *Error are returned as is; network, I/O and context failures become
// KindTransport; anything else is KindUnexpected. Classify(nil) is nil.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	if isTransport(err) {
		return transportError(err)
	}
	return unexpectedError(err)
}

func isTransport(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// causeText drops the "Get \"url\":" prefix url.Error adds; the URL is noise
// in a status line.
func causeText(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return err.Error()
}
