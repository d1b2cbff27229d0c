// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithJobID(ctx, "job-9")

	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Fatalf("request id: got %q", got)
	}
	if got := JobIDFromContext(ctx); got != "job-9" {
		t.Fatalf("job id: got %q", got)
	}
}

func TestContextNilSafe(t *testing.T) {
	//nolint:staticcheck // exercising nil-context tolerance on purpose
	if got := RequestIDFromContext(nil); got != "" {
		t.Fatalf("expected empty request id for nil context, got %q", got)
	}
	//nolint:staticcheck
	if got := JobIDFromContext(nil); got != "" {
		t.Fatalf("expected empty job id for nil context, got %q", got)
	}
}

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithRequestID(context.Background(), "req-42")

	logger := WithContext(ctx, Base().Output(&buf))
	logger.Info().Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if entry["request_id"] != "req-42" {
		t.Fatalf("expected request_id field, got %v", entry)
	}
}
