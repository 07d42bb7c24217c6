package foyer

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestEnvelopeErrorOmitsBody(t *testing.T) {
	t.Parallel()
	err := &Envelope{
		Kind:    KindUpstream,
		Message: "upstream returned 500",
		Status:  500,
		Body:    `{"detail":"stack trace with secrets"}`,
	}
	if got := err.Error(); strings.Contains(got, "secrets") {
		t.Errorf("Error() leaked the upstream body: %q", got)
	}
	if got := err.Error(); got != "upstream_error: upstream returned 500" {
		t.Errorf("Error() = %q", got)
	}
}

func TestKindOfUnwraps(t *testing.T) {
	t.Parallel()
	base := E(KindConflict, "email already registered")
	wrapped := fmt.Errorf("signup: %w", base)
	if KindOf(wrapped) != KindConflict {
		t.Errorf("KindOf(wrapped) = %v", KindOf(wrapped))
	}
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Error("plain errors must map to KindUnknown")
	}
	if !IsKind(wrapped, KindConflict) {
		t.Error("IsKind should see through wrapping")
	}
}

func TestKindStrings(t *testing.T) {
	t.Parallel()
	cases := map[Kind]string{
		KindUnauthenticated: "unauthenticated",
		KindConflict:        "conflict",
		KindInvalidInput:    "invalid_input",
		KindUpstream:        "upstream_error",
		KindUnavailable:     "unavailable",
		KindDecode:          "decode_error",
		KindValidation:      "validation_error",
		KindUnknown:         "unknown",
	}
	for kind, want := range cases {
		if kind.String() != want {
			t.Errorf("%d.String() = %q, want %q", kind, kind.String(), want)
		}
	}
}
