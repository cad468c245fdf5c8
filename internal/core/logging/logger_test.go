package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	logger := Component("store")
	logger.Info().Msg("test message")

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log: %v", err)
	}

	if got := logEntry["cmp"]; got != "store" {
		t.Errorf("Component() cmp = %q, want %q", got, "store")
	}

	if got := logEntry["message"]; got != "test message" {
		t.Errorf("message = %q, want %q", got, "test message")
	}
}

func TestFor_AttachesContextHook(t *testing.T) {
	var buf bytes.Buffer
	logger := For(zerolog.New(&buf), "writer")

	ctx := WithTaskID(context.Background(), "task_1")
	logger.Warn().Ctx(ctx).Msg("save failed")

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log: %v", err)
	}

	if got := logEntry["task_id"]; got != "task_1" {
		t.Errorf("task_id = %v, want %q", got, "task_1")
	}
	if got := logEntry["cmp"]; got != "writer" {
		t.Errorf("cmp = %v, want %q", got, "writer")
	}
}
