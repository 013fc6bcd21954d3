package telemetry

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"
)

func TestLoggerWritesOneJSONObjectPerLine(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONLoggerTo(&buf)

	l.Info("boot", map[string]any{"challenges": 50})
	l.Warn("assistant degraded", nil)
	l.Error("synthesis failed", map[string]any{"category": "LOGIC"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	wantLevels := []string{"info", "warn", "error"}
	for i, line := range lines {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("line %d not valid JSON: %v", i, err)
		}
		if entry["level"] != wantLevels[i] {
			t.Fatalf("line %d: expected level %q, got %v", i, wantLevels[i], entry["level"])
		}
		if entry["ts"] == "" || entry["msg"] == "" {
			t.Fatalf("line %d missing ts or msg: %v", i, entry)
		}
	}
}

func TestConcurrentWritesStayLineFramed(t *testing.T) {
	var buf syncBuffer
	l := NewJSONLoggerTo(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				l.Info("tick", map[string]any{"worker": j})
			}
		}()
	}
	wg.Wait()

	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	count := 0
	for sc.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			t.Fatalf("interleaved write produced invalid JSON: %v", err)
		}
		count++
	}
	if count != 8*50 {
		t.Fatalf("expected 400 entries, got %d", count)
	}
}

func TestNilAndUnconfiguredLoggerAreSafe(t *testing.T) {
	var l *JSONLogger
	l.Info("ignored", nil)
	if err := l.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}

	discard, err := NewJSONLogger("")
	if err != nil {
		t.Fatalf("new discard logger: %v", err)
	}
	discard.Error("ignored", nil)
	if err := discard.Close(); err != nil {
		t.Fatalf("discard close: %v", err)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}
