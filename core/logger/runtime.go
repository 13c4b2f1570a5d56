package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode"
)

// Context keys are unexported struct types so no other package can collide
// with them.
type (
	ridKey      struct{}
	updateIDKey struct{}
	userIDKey   struct{}
	chatIDKey   struct{}
	loggerKey   struct{}
	handlerKey  struct{}
)

func value[T any](ctx context.Context, key any) (T, bool) {
	var zero T
	if ctx == nil {
		return zero, false
	}
	v, ok := ctx.Value(key).(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// WithLogger stores log in the context so lower layers emit through the
// same component logger.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey{}, log)
}

// FromContext returns the context logger, falling back to the global one.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := value[*slog.Logger](ctx, loggerKey{}); ok {
		return l
	}
	return L
}

// WithRID attaches the request correlation id.
func WithRID(ctx context.Context, rid string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ridKey{}, rid)
}

func RIDFrom(ctx context.Context) string {
	rid, _ := value[string](ctx, ridKey{})
	return rid
}

// WithUpdateMeta attaches the identifiers shared by every log line of one
// Telegram update.
func WithUpdateMeta(ctx context.Context, updateID int, userID, chatID int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, updateIDKey{}, updateID)
	ctx = context.WithValue(ctx, userIDKey{}, userID)
	return context.WithValue(ctx, chatIDKey{}, chatID)
}

// WithHandler records which handler owns the rest of this update's logs.
func WithHandler(ctx context.Context, handler string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if handler == "" {
		return ctx
	}
	return context.WithValue(ctx, handlerKey{}, handler)
}

func HandlerFrom(ctx context.Context) string {
	h, _ := value[string](ctx, handlerKey{})
	return h
}

func UserIDFrom(ctx context.Context) int64 {
	id, _ := value[int64](ctx, userIDKey{})
	return id
}

func ChatIDFrom(ctx context.Context) int64 {
	id, _ := value[int64](ctx, chatIDKey{})
	return id
}

func UpdateIDFrom(ctx context.Context) int {
	id, _ := value[int](ctx, updateIDKey{})
	return id
}

// Sanitize strips control and format runes from s, keeping tab and newline,
// so user input cannot mangle a log line.
func Sanitize(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		case r == 0x7F, unicode.IsControl(r), unicode.Is(unicode.Cf, r):
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SanitizeLimit sanitizes s and truncates it to max runes.
func SanitizeLimit(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(Sanitize(s))
	if len(runes) > max {
		runes = runes[:max]
	}
	return string(runes)
}

// BuildRID formats the correlation id as updateID:chatID:userID.
func BuildRID(updateID int, chatID, userID int64) string {
	return fmt.Sprintf("%d:%d:%d", updateID, chatID, userID)
}

// CompactRID re-encodes a numeric a:b:c rid as base36 segments joined with
// dots. Anything that is not three numeric segments passes through as is.
func CompactRID(rid string) string {
	rid = strings.TrimSpace(rid)
	if rid == "" {
		return ""
	}
	parts := strings.Split(rid, ":")
	if len(parts) != 3 {
		return rid
	}
	out := make([]string, len(parts))
	for i, part := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || strings.TrimSpace(part) == "" {
			return rid
		}
		out[i] = strconv.FormatInt(n, 36)
	}
	return strings.Join(out, ".")
}
