package logger

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(buf *bytes.Buffer, format logFormat) (*structuredHandler, *asyncWriter) {
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	handler := newStructuredHandler(handlerConfig{
		level:    slog.LevelInfo,
		writer:   aw,
		format:   format,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})
	return handler, aw
}

func drain(t *testing.T, aw *asyncWriter) {
	t.Helper()
	require.NoError(t, aw.Flush())
	require.NoError(t, aw.Close())
}

func TestStructuredHandlerKVOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	handler, aw := newTestHandler(buf, formatKV)
	ctx := WithRID(Background(), "rid-123")
	ctx = WithUpdateMeta(ctx, 42, 7, 9)

	log := slog.New(handler).With("component", "app")
	LogEvent(ctx, log, slog.LevelInfo, "test.event",
		slog.String("status", "ok"),
		slog.String("cause", "unit"),
	)
	drain(t, aw)

	line := strings.TrimSpace(buf.String())
	require.NotEmpty(t, line)

	tokens := strings.Split(line, " ")
	require.GreaterOrEqual(t, len(tokens), 6, "line: %s", line)
	for i, prefix := range []string{"ts=", "level=INFO", "component=app", "event=test.event", "status=ok", "rid=rid-123"} {
		assert.True(t, strings.HasPrefix(tokens[i], prefix),
			"token %d = %s, expected prefix %s", i, tokens[i], prefix)
	}
}

func TestStructuredHandlerJSONOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	handler, aw := newTestHandler(buf, formatJSON)
	ctx := WithRID(Background(), "rid-json")
	ctx = WithUpdateMeta(ctx, 11, 22, 33)

	log := slog.New(handler).With("component", "api")
	LogEvent(ctx, log, slog.LevelError, "api.request",
		slog.String("status", "fail"),
		slog.String("err", "boom"),
		slog.String("err_code", "UNAVAILABLE"),
	)
	drain(t, aw)

	line := strings.TrimSpace(buf.String())
	require.True(t, strings.HasPrefix(line, "{"), "expected JSON, got %s", line)

	pos := -1
	for _, pref := range []string{`{"ts":`, `"level":"ERROR"`, `"component":"api"`, `"event":"api.request"`, `"status":"fail"`, `"rid":"rid-json"`} {
		idx := strings.Index(line, pref)
		require.True(t, idx > pos, "prefix %s out of order within %s", pref, line)
		pos = idx
	}
}

func TestStructuredHandlerCompactRID(t *testing.T) {
	buf := &bytes.Buffer{}
	handler, aw := newTestHandler(buf, formatKV)
	rawRID := "123:456:789"
	ctx := WithRID(Background(), rawRID)

	log := slog.New(handler).With("component", "app")
	LogEvent(ctx, log, slog.LevelInfo, "rid.test", slog.String("status", "ok"))
	drain(t, aw)

	line := strings.TrimSpace(buf.String())
	assert.Contains(t, line, "rid="+CompactRID(rawRID))
	assert.NotContains(t, line, "rid_full=", "rid_full is JSON-only")
}

func TestStructuredHandlerCompactRIDJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	handler, aw := newTestHandler(buf, formatJSON)
	rawRID := "12:34:56"
	ctx := WithRID(Background(), rawRID)

	log := slog.New(handler).With("component", "app")
	LogEvent(ctx, log, slog.LevelInfo, "rid.test", slog.String("status", "ok"))
	drain(t, aw)

	line := strings.TrimSpace(buf.String())
	assert.Contains(t, line, `"rid":"`+CompactRID(rawRID)+`"`)
	assert.Contains(t, line, `"rid_full":"`+rawRID+`"`)
	assert.Contains(t, line, `"ts_unix_nano"`)
}

func TestStructuredHandlerDurationNormalization(t *testing.T) {
	buf := &bytes.Buffer{}
	handler, aw := newTestHandler(buf, formatKV)

	log := slog.New(handler).With("component", "api")
	LogEvent(Background(), log, slog.LevelInfo, "api.request",
		slog.Duration("duration", 1500000000),
	)
	drain(t, aw)

	assert.Contains(t, strings.TrimSpace(buf.String()), "duration_ms=1500")
}
