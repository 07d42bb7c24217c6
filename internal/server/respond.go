package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	foyer "github.com/eugener/foyer/internal"
)

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func errorResponse(msg, typ string) apiError {
	var e apiError
	e.Error.Message = msg
	e.Error.Type = typ
	return e
}

// respondError maps an error envelope onto the outbound status and body.
// 400-class kinds carry their message through to the browser; upstream and
// decode failures get a generic message, with the raw upstream response
// going to the log only.
func (s *server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	kind := foyer.KindOf(err)

	if s.deps.Metrics != nil && kind != foyer.KindValidation {
		s.deps.Metrics.UpstreamErrors.WithLabelValues(kind.String()).Inc()
	}

	status := errorStatus(kind)
	msg := err.Error()
	switch kind {
	case foyer.KindUpstream, foyer.KindDecode, foyer.KindUnknown:
		// The upstream body may contain stack traces or internals.
		var env *foyer.Envelope
		if errors.As(err, &env) {
			slog.LogAttrs(r.Context(), slog.LevelError, "upstream failure",
				slog.String("kind", kind.String()),
				slog.Int("upstream_status", env.Status),
				slog.String("upstream_body", env.Body),
				slog.String("request_id", foyer.RequestIDFromContext(r.Context())),
			)
		} else {
			slog.LogAttrs(r.Context(), slog.LevelError, "request failed",
				slog.String("error", err.Error()),
				slog.String("request_id", foyer.RequestIDFromContext(r.Context())),
			)
		}
		msg = "upstream request failed"
	}

	writeJSON(w, status, errorResponse(msg, kind.String()))
}

func errorStatus(kind foyer.Kind) int {
	switch kind {
	case foyer.KindValidation, foyer.KindInvalidInput:
		return http.StatusBadRequest
	case foyer.KindConflict:
		return http.StatusConflict
	case foyer.KindUnauthenticated:
		return http.StatusUnauthorized
	case foyer.KindUnavailable, foyer.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// jsonCT is a pre-allocated header value slice. Direct map assignment
// (w.Header()["Content-Type"] = jsonCT) avoids the []string{v} alloc
// that Header.Set creates on every call. Saves 1 alloc/req.
var jsonCT = []string{"application/json"}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header()["Content-Type"] = jsonCT
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
