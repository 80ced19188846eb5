package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeOutOfStock, http.StatusConflict},
		{CodeStockLimit, http.StatusConflict},
		{CodeOrderValidation, http.StatusUnprocessableEntity},
		{CodeDependency, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Fatalf("%s: expected status %d, got %d", tc.code, tc.status, got)
		}
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("boom")
	err := Wrap(CodeDependency, cause, "persist cart")
	if err.Unwrap() != cause {
		t.Fatalf("expected cause to survive wrapping")
	}
	if As(fmt.Errorf("outer: %w", err)) == nil {
		t.Fatalf("expected As to find typed error through wrapping")
	}
}

func TestWithDetails(t *testing.T) {
	t.Parallel()

	err := New(CodeStockLimit, "quantity exceeds stock").WithDetails(map[string]any{"available": 4})
	details, ok := err.Details().(map[string]any)
	if !ok || details["available"] != 4 {
		t.Fatalf("unexpected details: %+v", err.Details())
	}
}
