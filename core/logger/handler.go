package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

type logFormat string

const (
	formatJSON logFormat = "json"
	formatKV   logFormat = "kv"

	tsLayout = "2006-01-02T15:04:05.000Z07:00"
)

type handlerConfig struct {
	level    slog.Leveler
	writer   *asyncWriter
	format   logFormat
	keyOrder []string
}

// structuredHandler renders records as single KV or JSON lines with a fixed
// leading key order.
type structuredHandler struct {
	cfg    handlerConfig
	attrs  []slog.Attr
	groups []string
}

func newStructuredHandler(cfg handlerConfig) *structuredHandler {
	if cfg.level == nil {
		cfg.level = slog.LevelInfo
	}
	if cfg.keyOrder == nil {
		cfg.keyOrder = slices.Clone(defaultKeyOrder)
	}
	return &structuredHandler{cfg: cfg}
}

func (h *structuredHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.cfg.level.Level()
}

func (h *structuredHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg.writer == nil {
		return fmt.Errorf("logger: writer not initialized")
	}

	rec := make(record, 16)
	asJSON := h.cfg.format == formatJSON

	ts := r.Time.UTC()
	rec["ts"] = ts.Truncate(time.Millisecond).Format(tsLayout)
	rec["level"] = normalizeLevel(r.Level.String())
	if asJSON {
		rec["ts_unix_nano"] = ts.UnixNano()
	}

	for _, a := range h.attrs {
		h.absorb(rec, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.absorb(rec, a)
		return true
	})
	rec.fillFromContext(ctx)

	// rid is shortened in output; JSON keeps the full form alongside.
	if rid, ok := rec.str("rid"); ok && rid != "" {
		if compact := CompactRID(rid); compact != "" && compact != rid {
			if asJSON {
				if _, seen := rec["rid_full"]; !seen {
					rec["rid_full"] = rid
				}
			}
			rec["rid"] = compact
		}
	}

	if ev, ok := rec.str("event"); !ok || ev == "" {
		rec["event"] = "unknown"
		if r.Message != "" {
			rec["event"] = r.Message
		}
	}
	if comp, ok := rec.str("component"); !ok || comp == "" {
		rec["component"] = "app"
	}

	rec.normalizeEnums()
	rec.prune()

	line, err := h.render(rec)
	if err != nil {
		return err
	}
	if len(line) == 0 || line[len(line)-1] != '\n' {
		line = append(line, '\n')
	}
	return h.cfg.writer.Write(line)
}

func (h *structuredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(slices.Clone(h.attrs), attrs...)
	return &clone
}

func (h *structuredHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(slices.Clone(h.groups), name)
	return &clone
}

func (h *structuredHandler) absorb(rec record, attr slog.Attr) {
	walkAttr(strings.Join(h.groups, "."), attr, func(k string, v slog.Value) {
		key, val, ok := coerceValue(k, v)
		if ok {
			rec[key] = val
		}
	})
}

func (h *structuredHandler) render(rec record) ([]byte, error) {
	if h.cfg.format == formatJSON {
		return renderJSON(rec, h.cfg.keyOrder)
	}
	return renderKV(rec, h.cfg.keyOrder), nil
}

// record is one flattened log line before rendering.
type record map[string]any

func (rec record) str(key string) (string, bool) {
	v, ok := rec[key]
	if !ok {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	case fmt.Stringer:
		return val.String(), true
	default:
		return fmt.Sprint(val), true
	}
}

// fillFromContext backfills correlation fields; explicit attrs win.
func (rec record) fillFromContext(ctx context.Context) {
	if ctx == nil {
		return
	}
	put := func(key string, v any) {
		if _, ok := rec[key]; !ok {
			rec[key] = v
		}
	}
	if rid := RIDFrom(ctx); rid != "" {
		put("rid", rid)
	}
	if uid := UserIDFrom(ctx); uid != 0 {
		put("user_id", uid)
	}
	if upd := UpdateIDFrom(ctx); upd != 0 {
		put("update_id", upd)
	}
	if cid := ChatIDFrom(ctx); cid != 0 {
		put("chat_id", cid)
	}
	if handler := HandlerFrom(ctx); handler != "" {
		put("handler", handler)
	}
}

func (rec record) normalizeEnums() {
	if level, ok := rec.str("level"); ok {
		rec["level"] = normalizeLevel(level)
	}
	if s, ok := rec.str("status"); ok && s != "" {
		if norm, valid := normalizeStatus(s); valid {
			rec["status"] = norm
		}
	}
	if o, ok := rec.str("outcome"); ok && o != "" {
		norm, valid := normalizeOutcome(o)
		if valid {
			rec["outcome"] = norm
		} else {
			delete(rec, "outcome")
		}
	}
}

func (rec record) prune() {
	for k, v := range rec {
		switch val := v.(type) {
		case nil:
			delete(rec, k)
		case string:
			if val == "" {
				delete(rec, k)
			}
		case fmt.Stringer:
			if val.String() == "" {
				delete(rec, k)
			}
		}
	}
}

func walkAttr(prefix string, attr slog.Attr, emit func(string, slog.Value)) {
	key := attr.Key
	switch {
	case key == "":
		key = prefix
	case prefix != "":
		key = prefix + "." + key
	}
	if attr.Value.Kind() == slog.KindGroup {
		for _, child := range attr.Value.Group() {
			walkAttr(key, child, emit)
		}
		return
	}
	if key != "" {
		emit(key, attr.Value)
	}
}

// coerceValue flattens a slog value to a renderable scalar. Durations come
// out as integral milliseconds under a *_ms key.
func coerceValue(key string, val slog.Value) (string, any, bool) {
	if key == "" {
		return "", nil, false
	}
	switch val.Kind() {
	case slog.KindString:
		return key, strings.TrimSpace(val.String()), true
	case slog.KindBool:
		return key, val.Bool(), true
	case slog.KindInt64:
		return key, val.Int64(), true
	case slog.KindUint64:
		u := val.Uint64()
		if u <= math.MaxInt64 {
			return key, int64(u), true
		}
		return key, u, true
	case slog.KindFloat64:
		return key, val.Float64(), true
	case slog.KindDuration:
		return millisKey(key), RoundMS(val.Duration()).Milliseconds(), true
	case slog.KindTime:
		return key, val.Time().UTC().Format(time.RFC3339Nano), true
	case slog.KindAny:
		switch x := val.Any().(type) {
		case nil:
			return key, nil, false
		case error:
			return key, x.Error(), true
		case string:
			return key, strings.TrimSpace(x), true
		case time.Duration:
			return millisKey(key), RoundMS(x).Milliseconds(), true
		case fmt.Stringer:
			return key, x.String(), true
		default:
			return key, fmt.Sprint(x), true
		}
	default:
		return key, val.Any(), true
	}
}

func millisKey(key string) string {
	switch {
	case key == "duration":
		return "duration_ms"
	case strings.HasSuffix(key, "_duration"):
		return strings.TrimSuffix(key, "_duration") + "_duration_ms"
	case strings.HasSuffix(key, "_ms"):
		return key
	}
	return key + "_ms"
}

// sortKeys puts the configured prefix keys first, then the rest sorted.
func sortKeys(rec record, order []string) []string {
	keys := make([]string, 0, len(rec))
	seen := make(map[string]struct{}, len(rec))
	for _, key := range order {
		if _, ok := rec[key]; ok {
			keys = append(keys, key)
			seen[key] = struct{}{}
		}
	}
	rest := make([]string, 0, len(rec)-len(keys))
	for key := range maps.Keys(rec) {
		if _, ok := seen[key]; !ok {
			rest = append(rest, key)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}

func renderJSON(rec record, order []string) ([]byte, error) {
	var buf strings.Builder
	buf.WriteByte('{')
	for i, key := range sortKeys(rec, order) {
		data, err := json.Marshal(rec[key])
		if err != nil {
			return nil, err
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(key))
		buf.WriteByte(':')
		buf.Write(data)
	}
	buf.WriteByte('}')
	return []byte(buf.String()), nil
}

func renderKV(rec record, order []string) []byte {
	var buf strings.Builder
	for i, key := range sortKeys(rec, order) {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(key)
		buf.WriteByte('=')
		buf.WriteString(kvValue(rec[key]))
	}
	return []byte(buf.String())
}

func kvValue(val any) string {
	switch v := val.(type) {
	case string:
		return quoteIfNeeded(v)
	case bool:
		return strconv.FormatBool(v)
	case int, int64, uint64, float64:
		return fmt.Sprint(v)
	default:
		return quoteIfNeeded(fmt.Sprint(v))
	}
}

func quoteIfNeeded(s string) string {
	needs := strings.IndexFunc(s, func(r rune) bool {
		return r <= 32 || r == '=' || r == '"'
	})
	if needs >= 0 {
		return strconv.Quote(s)
	}
	return s
}
