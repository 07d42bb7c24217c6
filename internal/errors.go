package foyer

import (
	"errors"
	"fmt"
)

// Kind classifies a failure into the closed local error vocabulary.
// Every upstream-originated error is translated into exactly one Kind.
type Kind int

const (
	// KindUnknown is the zero value; it never leaves the translator.
	KindUnknown Kind = iota
	// KindUnauthenticated covers missing/invalid sessions and upstream 401s.
	KindUnauthenticated
	// KindConflict covers upstream 409s and marked 400s (e.g. duplicate email).
	KindConflict
	// KindInvalidInput covers upstream 422 validation rejections.
	KindInvalidInput
	// KindUpstream covers any other upstream 4xx/5xx.
	KindUpstream
	// KindUnavailable covers transport failures: refused, reset, timed out.
	KindUnavailable
	// KindDecode covers 2xx responses whose body does not match the
	// declared payload shape.
	KindDecode
	// KindValidation covers local pre-upstream checks; these never reach
	// the upstream client.
	KindValidation
)

// String returns the kind name used in logs and metrics labels.
func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindConflict:
		return "conflict"
	case KindInvalidInput:
		return "invalid_input"
	case KindUpstream:
		return "upstream_error"
	case KindUnavailable:
		return "unavailable"
	case KindDecode:
		return "decode_error"
	case KindValidation:
		return "validation_error"
	default:
		return "unknown"
	}
}

// Envelope is the typed error carried from the proxy/aggregator boundary to
// the caller. Message is safe to show to end users for 400-class kinds.
// Status and Body hold the raw upstream response for diagnostics; they are
// logged, never echoed to the browser.
type Envelope struct {
	Kind    Kind
	Message string
	Status  int    // upstream HTTP status, 0 when no response was received
	Body    string // raw upstream body, truncated at capture time
}

// Error returns the kind and message; the raw upstream body is deliberately
// excluded so wrapped errors can be surfaced without leaking upstream
// internals.
func (e *Envelope) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// E constructs an Envelope with no upstream response attached.
func E(kind Kind, msg string) *Envelope {
	return &Envelope{Kind: kind, Message: msg}
}

// Ef constructs an Envelope with a formatted message.
func Ef(kind Kind, format string, args ...any) *Envelope {
	return &Envelope{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from err, unwrapping as needed.
// Returns KindUnknown for errors that carry no envelope.
func KindOf(err error) Kind {
	var e *Envelope
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries an Envelope of the given kind.
func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }
