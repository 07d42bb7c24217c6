package upstream

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	foyer "github.com/eugener/foyer/internal"
)

// conflictMarkers are substrings of an upstream 400 "detail" field that
// identify duplicate-resource rejections the upstream reports without a 409.
var conflictMarkers = []string{
	"already exists",
	"already registered",
	"already in use",
}

// TranslateTransport converts a failure with no upstream response into an
// Envelope. Timeouts, refused connections, and resets all classify as
// unavailable; the distinction is not actionable for callers.
func TranslateTransport(err error) *foyer.Envelope {
	msg := "upstream unreachable"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		msg = "upstream call timed out"
	case errors.Is(err, context.Canceled):
		msg = "upstream call canceled"
	default:
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			msg = "upstream call timed out"
		}
	}
	return &foyer.Envelope{
		Kind:    foyer.KindUnavailable,
		Message: msg,
		Body:    err.Error(),
	}
}

// Translate converts an upstream (status, body) pair into exactly one
// Envelope. It is a pure function: the same pair always yields the same
// kind. Rules are checked in order, first match wins.
func Translate(status int, body string) *foyer.Envelope {
	switch {
	case status == http.StatusUnauthorized:
		return &foyer.Envelope{
			Kind:    foyer.KindUnauthenticated,
			Message: "upstream rejected credentials",
			Status:  status,
			Body:    body,
		}
	case status == http.StatusConflict, status == http.StatusBadRequest && hasConflictMarker(body):
		return &foyer.Envelope{
			Kind:    foyer.KindConflict,
			Message: detailOr(body, "resource already exists"),
			Status:  status,
			Body:    body,
		}
	case status == http.StatusUnprocessableEntity:
		return &foyer.Envelope{
			Kind:    foyer.KindInvalidInput,
			Message: "upstream rejected request data: " + body,
			Status:  status,
			Body:    body,
		}
	default:
		return &foyer.Envelope{
			Kind:    foyer.KindUpstream,
			Message: "upstream error: " + http.StatusText(status),
			Status:  status,
			Body:    body,
		}
	}
}

// hasConflictMarker reports whether a 400 body carries a known
// duplicate-resource marker in its detail field (or, for non-JSON bodies,
// anywhere in the text).
func hasConflictMarker(body string) bool {
	text := body
	if detail := gjson.Get(body, "detail"); detail.Exists() {
		text = detail.String()
	}
	text = strings.ToLower(text)
	for _, m := range conflictMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// detailOr extracts the upstream's detail message for user display,
// falling back when the body is not the expected JSON shape.
func detailOr(body, fallback string) string {
	if detail := gjson.Get(body, "detail"); detail.Exists() && detail.Type == gjson.String {
		return detail.String()
	}
	return fallback
}
