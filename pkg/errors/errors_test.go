package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructorStatusCodes(t *testing.T) {
	cases := []struct {
		name string
		err  *AppError
		code string
		want int
	}{
		{"not found", NotFoundWithID("Allocation", "abc"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad payload", nil), CodeValidation, http.StatusBadRequest},
		{"invalid input", InvalidInput("bad id"), CodeInvalidInput, http.StatusBadRequest},
		{"conflict", Conflict("slot taken"), CodeConflict, http.StatusBadRequest},
		{"internal", Internal("boom", errors.New("cause")), CodeInternal, http.StatusInternalServerError},
		{"unavailable", Unavailable("mongodb"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.StatusCode() != tc.want {
				t.Errorf("expected status %d, got %d", tc.want, tc.err.StatusCode())
			}
		})
	}
}

func TestErrorStringAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("Failed to create allocation", cause)

	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to reach the cause")
	}
	msg := err.Error()
	if msg != "INTERNAL_ERROR: Failed to create allocation (caused by: connection refused)" {
		t.Errorf("unexpected message: %s", msg)
	}

	bare := Conflict("slot taken")
	if bare.Error() != "CONFLICT: slot taken" {
		t.Errorf("unexpected message: %s", bare.Error())
	}
}

func TestAsAppError(t *testing.T) {
	original := Validation("bad", nil)
	if got := AsAppError(original); got != original {
		t.Error("expected the same AppError back")
	}

	wrapped := AsAppError(fmt.Errorf("driver: %w", errors.New("timeout")))
	if wrapped.Code != CodeInternal {
		t.Errorf("foreign errors must map to internal, got %s", wrapped.Code)
	}
	if wrapped.StatusCode() != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", wrapped.StatusCode())
	}
}

func TestNotFoundDetails(t *testing.T) {
	err := NotFoundWithID("Allocation", "65f000000000000000000001")
	if err.Details["resource"] != "Allocation" || err.Details["id"] != "65f000000000000000000001" {
		t.Errorf("unexpected details: %v", err.Details)
	}
}

func TestWithDetails(t *testing.T) {
	err := InvalidInput("bad skip").WithDetails(map[string]any{"skip": "-1"})
	if err.Details["skip"] != "-1" {
		t.Errorf("unexpected details: %v", err.Details)
	}
}
