// Package apperr defines the error kinds used across PopShop's pipeline and
// their default HTTP disposition, so handlers never need to hand-roll status
// codes for the same failure twice.
package apperr

import "fmt"

// Kind identifies a class of failure with a well-known HTTP disposition.
type Kind string

const (
	InvalidConfiguration  Kind = "InvalidConfiguration"
	EmptyConfiguration    Kind = "EmptyConfiguration"
	RequestTooLarge       Kind = "RequestTooLarge"
	HeadersTooLarge       Kind = "HeadersTooLarge"
	RateLimited           Kind = "RateLimited"
	InvalidHost           Kind = "InvalidHost"
	RequestTimeout        Kind = "RequestTimeout"
	NoRuleMatched         Kind = "NoRuleMatched"
	UnsafeProxyURL        Kind = "UnsafeProxyURL"
	ProxyTransportFailure Kind = "ProxyTransportFailure"
	UpstreamTimeout       Kind = "UpstreamTimeout"
	InternalFailure       Kind = "InternalFailure"
)

// Status is the HTTP status code this error kind maps to at the pipeline
// boundary.
func (k Kind) Status() int {
	switch k {
	case RequestTooLarge:
		return 413
	case HeadersTooLarge:
		return 431
	case RateLimited:
		return 429
	case InvalidHost:
		return 400
	case RequestTimeout:
		return 408
	case NoRuleMatched:
		return 404
	case UnsafeProxyURL:
		return 400
	case ProxyTransportFailure, UpstreamTimeout:
		return 502
	default:
		return 500
	}
}

// Error is a typed failure carrying the kind and a human-readable message.
// The config loader returns it; the per-request middleware and pipeline do
// not build Errors and take their response codes from Kind.Status().
type Error struct {
	Kind    Kind
	Message string
	File    string
	Line    int
}

func (e *Error) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s (%s:%d)", e.Kind, e.Message, e.File, e.Line)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New builds an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithFile attaches file/line provenance, used by the config loader when a
// document fails validation so operators can locate the offending file.
func (e *Error) WithFile(file string, line int) *Error {
	e.File = file
	e.Line = line
	return e
}
