package observability

import (
	"io"
	"os"
	"sort"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Logger writes one JSON object per line: timestamp, level, message and the
// given fields.
type Logger struct {
	base kitlog.Logger
}

func NewLogger() *Logger {
	return NewLoggerWithWriter(os.Stdout)
}

func NewLoggerWithWriter(w io.Writer) *Logger {
	base := kitlog.NewJSONLogger(kitlog.NewSyncWriter(w))
	base = kitlog.With(base, "timestamp", kitlog.DefaultTimestampUTC)
	return &Logger{base: base}
}

func (l *Logger) Info(message string, fields map[string]any) {
	_ = level.Info(l.base).Log(keyvals(message, fields)...)
}

func (l *Logger) Error(message string, fields map[string]any) {
	_ = level.Error(l.base).Log(keyvals(message, fields)...)
}

func keyvals(message string, fields map[string]any) []any {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]any, 0, 2+2*len(keys))
	kv = append(kv, "message", message)
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}
	return kv
}
