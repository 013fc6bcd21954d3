package assistant

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"cipherforge/internal/session"
)

// Fallback texts appended when a backend call cannot produce a reply.
// The turn is never silently dropped.
const (
	fallbackNoCredential = "SYSTEM ERROR: NO API KEY DETECTED. CLASSIFIED INFO REDACTED."
	fallbackTransport    = "[CONNECTION ERROR]: Unable to reach AI Core."
	fallbackEmptyReply   = "Connection interrupted..."
)

// Pipeline sequences one conversational turn: operator message in,
// assistant (or fallback) message out. It does not serialize callers;
// overlapping sends are allowed and their replies land in completion
// order. The busy flag exists so the boundary can disable duplicate
// submissions, not to enforce mutual exclusion.
type Pipeline struct {
	backend Backend
	log     *session.Log

	inFlight atomic.Int32

	// Notify, when set, is called after every observable pipeline state
	// change (message appended, busy flag moved).
	Notify func()
}

func NewPipeline(backend Backend, log *session.Log) *Pipeline {
	return &Pipeline{backend: backend, log: log}
}

// Busy reports whether at least one send is still waiting on the
// backend. A counter rather than a plain flag, so the first of two
// overlapping completions does not clear the indicator early.
func (p *Pipeline) Busy() bool {
	return p.inFlight.Load() > 0
}

// Send runs one full turn and blocks until the reply (or fallback) has
// been appended. The operator message is appended before the backend
// dispatch, so the transcript always shows the question ahead of any
// answer. Every call grows the log by exactly two messages.
func (p *Pipeline) Send(ctx context.Context, text string, personality Personality, stateContext string) session.Message {
	p.log.Append(session.SenderOperator, text)
	p.inFlight.Add(1)
	p.notify()

	reply, err := p.backend.Complete(ctx, text, SystemInstruction(personality, stateContext))
	switch {
	case errors.Is(err, ErrNoCredential):
		reply = fallbackNoCredential
	case err != nil:
		reply = fallbackTransport
	case strings.TrimSpace(reply) == "":
		reply = fallbackEmptyReply
	}

	msg := p.log.Append(session.SenderAssistant, reply)
	p.inFlight.Add(-1)
	p.notify()
	return msg
}

// IsFallback reports whether a reply text is one of the pipeline's
// canned failure messages rather than a real backend completion.
func IsFallback(text string) bool {
	switch text {
	case fallbackNoCredential, fallbackTransport, fallbackEmptyReply:
		return true
	}
	return false
}

func (p *Pipeline) notify() {
	if p.Notify != nil {
		p.Notify()
	}
}
