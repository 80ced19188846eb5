package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextFieldsPropagate(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: &buf})

	ctx := logg.WithSessionID(context.Background(), "sess-1")
	ctx = logg.WithField(ctx, "product_id", "p-42")
	logg.Info(ctx, "cart.persisted")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["session_id"] != "sess-1" {
		t.Fatalf("expected session_id field, got %+v", entry)
	}
	if entry["product_id"] != "p-42" {
		t.Fatalf("expected product_id field, got %+v", entry)
	}
	if entry["message"] != "cart.persisted" {
		t.Fatalf("expected message, got %+v", entry)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	if ParseLevel("DEBUG") != zerolog.DebugLevel {
		t.Fatal("expected debug level")
	}
	if ParseLevel("") != zerolog.InfoLevel {
		t.Fatal("expected info fallback")
	}
	if ParseLevel("bogus") != zerolog.InfoLevel {
		t.Fatal("expected info fallback for garbage")
	}
}
