// Package telemetry writes the session event log: one JSON object per
// line, append-only, safe for concurrent writers. The dashboard owns
// the terminal, so nothing here ever writes to stdout or stderr.
package telemetry

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

type JSONLogger struct {
	mu  sync.Mutex
	w   io.WriteCloser
	now func() time.Time
}

// NewJSONLogger logs to path, or discards everything when path is
// empty. An unconfigured logger is always safe to call.
func NewJSONLogger(path string) (*JSONLogger, error) {
	if path == "" {
		return &JSONLogger{w: nopCloser{Writer: io.Discard}, now: time.Now}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &JSONLogger{w: f, now: time.Now}, nil
}

// NewJSONLoggerTo logs to an arbitrary writer. Used by tests and by the
// debug pane.
func NewJSONLoggerTo(w io.Writer) *JSONLogger {
	return &JSONLogger{w: nopCloser{Writer: w}, now: time.Now}
}

func (l *JSONLogger) Info(msg string, fields map[string]any) {
	l.log("info", msg, fields)
}

func (l *JSONLogger) Warn(msg string, fields map[string]any) {
	l.log("warn", msg, fields)
}

func (l *JSONLogger) Error(msg string, fields map[string]any) {
	l.log("error", msg, fields)
}

func (l *JSONLogger) log(level, msg string, fields map[string]any) {
	if l == nil || l.w == nil {
		return
	}
	entry := map[string]any{
		"ts":    l.now().UTC().Format(time.RFC3339Nano),
		"level": level,
		"msg":   msg,
	}
	for k, v := range fields {
		entry[k] = v
	}
	b, _ := json.Marshal(entry)
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.w.Write(append(b, '\n'))
}

func (l *JSONLogger) Close() error {
	if l == nil || l.w == nil {
		return nil
	}
	return l.w.Close()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
