package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "plain", err: stderrors.New("boom"), want: http.StatusInternalServerError},
		{name: "invalid input", err: E(KindInvalidInput, "bad"), want: http.StatusBadRequest},
		{name: "not found", err: E(KindNotFound, "missing"), want: http.StatusNotFound},
		{name: "method", err: E(KindMethodNotAllowed, "nope"), want: http.StatusMethodNotAllowed},
		{name: "unavailable", err: E(KindUnavailable, "down"), want: http.StatusServiceUnavailable},
		{name: "unknown", err: E(KindUnknown, "?"), want: http.StatusInternalServerError},
		{name: "wrapped", err: fmt.Errorf("render: %w", E(KindNotFound, "missing")), want: http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := HTTPStatus(tc.err); got != tc.want {
				t.Fatalf("HTTPStatus() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestLocalizationKey(t *testing.T) {
	t.Parallel()

	if got := LocalizationKey(nil); got != "" {
		t.Fatalf("LocalizationKey(nil) = %q", got)
	}
	if got := LocalizationKey(stderrors.New("x")); got != "" {
		t.Fatalf("LocalizationKey(plain) = %q", got)
	}
	err := fmt.Errorf("wrap: %w", EK(KindNotFound, "  web.error.not_found ", "missing"))
	if got := LocalizationKey(err); got != "web.error.not_found" {
		t.Fatalf("LocalizationKey() = %q", got)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	t.Parallel()

	if Wrap(KindUnavailable, "web.error.internal", nil) != nil {
		t.Fatal("Wrap(nil) should be nil")
	}
	cause := stderrors.New("disk full")
	err := Wrap(KindUnavailable, "web.error.internal", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause")
	}
	if HTTPStatus(err) != http.StatusServiceUnavailable {
		t.Fatalf("HTTPStatus() = %d", HTTPStatus(err))
	}
	if err.Error() != "disk full" {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestErrorMessageFallsBackToKind(t *testing.T) {
	t.Parallel()

	if got := (Error{Kind: KindNotFound}).Error(); got != "not_found" {
		t.Fatalf("Error() = %q", got)
	}
}
