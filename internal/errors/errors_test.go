package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestBackendErrorCarriesContext(t *testing.T) {
	cause := stderrors.New("throttled")
	err := Backend("cloudwatch", "compute", cause)

	if err.Type != TypeBackend {
		t.Fatalf("expected type %s, got %s", TypeBackend, err.Type)
	}
	if err.Context["backend"] != "cloudwatch" || err.Context["batch"] != "compute" {
		t.Errorf("unexpected context: %v", err.Context)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be reachable through Unwrap")
	}
	want := `[BACKEND_ERROR] cloudwatch query "compute" failed: throttled`
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestIsTypeWalksWrappedChain(t *testing.T) {
	inner := Backend("costexplorer", "daily-cost", stderrors.New("timeout"))

	tests := []struct {
		name string
		err  error
		typ  Type
		want bool
	}{
		{name: "direct", err: inner, typ: TypeBackend, want: true},
		{name: "fmt wrapped", err: fmt.Errorf("run: %w", inner), typ: TypeBackend, want: true},
		{name: "nested domain error", err: Internal("join", inner), typ: TypeBackend, want: true},
		{name: "other type", err: inner, typ: TypeConfig, want: false},
		{name: "plain error", err: stderrors.New("x"), typ: TypeBackend, want: false},
		{name: "nil", err: nil, typ: TypeBackend, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsType(tt.err, tt.typ); got != tt.want {
				t.Errorf("IsType(%v, %s) = %v, want %v", tt.err, tt.typ, got, tt.want)
			}
		})
	}
}

func TestErrorWithoutCause(t *testing.T) {
	err := Input("instance id is required")
	if err.Error() != "[INPUT_ERROR] instance id is required" {
		t.Errorf("unexpected message: %s", err.Error())
	}
	if err.Unwrap() != nil {
		t.Error("expected nil cause")
	}
}
