package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(EInvalidEntry, "Invalid entry")

	if err.Error() != "E_INVALID_ENTRY: Invalid entry" {
		t.Errorf("Error() = %q, want %q", err.Error(), "E_INVALID_ENTRY: Invalid entry")
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(EPersistFailed, "Failed to save entry", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	ae, ok := AsAppError(fmt.Errorf("outer: %w", err))
	if !ok {
		t.Fatal("AsAppError failed on wrapped error")
	}
	if ae.Code != EPersistFailed {
		t.Errorf("Code = %q, want %q", ae.Code, EPersistFailed)
	}
}

func TestNewWithDetailsCopies(t *testing.T) {
	details := map[string]string{"filename": "x.md"}
	err := NewWithDetails(ENotAllowed, "File not allowed", details)
	details["filename"] = "changed"

	ae, _ := AsAppError(err)
	if ae.Details["filename"] != "x.md" {
		t.Errorf("details were not copied: %v", ae.Details)
	}
	if ae2, _ := AsAppError(NewWithDetails(ENotFound, "x", nil)); ae2.Details != nil {
		t.Error("expected nil details for empty map")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid entry", New(EInvalidEntry, "x"), http.StatusBadRequest},
		{"not allowed", New(ENotAllowed, "x"), http.StatusForbidden},
		{"not found", New(ENotFound, "x"), http.StatusNotFound},
		{"rate limited", New(ERateLimited, "x"), http.StatusTooManyRequests},
		{"persist", Wrap(EPersistFailed, "x", errors.New("y")), http.StatusInternalServerError},
		{"plain", errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if GetCode(nil) != "" {
		t.Error("expected empty code for nil")
	}
	if GetCode(errors.New("plain")) != "" {
		t.Error("expected empty code for plain error")
	}
	if GetCode(New(ERateLimited, "x")) != ERateLimited {
		t.Error("expected E_RATE_LIMITED")
	}
}
