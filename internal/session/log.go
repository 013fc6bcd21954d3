// Package session holds the process-lifetime conversation log shared by
// the operator, the assistant, and system announcements. The log is
// append-only: entries are never edited, removed, or reordered.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sender identifies who produced a conversation message.
type Sender string

const (
	SenderOperator  Sender = "operator"
	SenderAssistant Sender = "assistant"
	SenderSystem    Sender = "system"
)

// Message is one turn in the assistant dialogue.
type Message struct {
	ID        string
	Sender    Sender
	Text      string
	Timestamp time.Time
}

// Log is the append-only conversation transcript. Appends may arrive
// from concurrent backend completions; their relative order is whatever
// order they complete in.
type Log struct {
	mu       sync.Mutex
	messages []Message
	now      func() time.Time
}

func NewLog() *Log {
	return &Log{now: time.Now}
}

// Append adds one message and returns it with id and timestamp filled
// in. Timestamps never go backwards; a clock step back is clamped to
// the previous entry's timestamp so insertion order stays authoritative.
func (l *Log) Append(sender Sender, text string) Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	ts := l.now()
	if n := len(l.messages); n > 0 && ts.Before(l.messages[n-1].Timestamp) {
		ts = l.messages[n-1].Timestamp
	}
	msg := Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		Timestamp: ts,
	}
	l.messages = append(l.messages, msg)
	return msg
}

// Messages returns a copy of the transcript in append order.
func (l *Log) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Message(nil), l.messages...)
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.messages)
}
