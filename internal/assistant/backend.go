// Package assistant mediates everything the external generative model
// does for the dashboard: flavored chat replies, hint turns, and the
// synthesis of brand-new challenges. The state machine never crashes on
// this boundary; every failure degrades to a visible message or a no-op.
package assistant

import (
	"context"
	"errors"
)

// Backend is the consumed generative-language capability. Complete
// returns plain text shaped by a system instruction; CompleteStructured
// returns a machine-parseable JSON payload.
type Backend interface {
	Complete(ctx context.Context, prompt, systemInstruction string) (string, error)
	CompleteStructured(ctx context.Context, prompt string) ([]byte, error)
}

// ErrNoCredential marks a backend that was configured without an API
// key. Callers treat it like any other backend failure.
var ErrNoCredential = errors.New("assistant backend: no API credential")

// Disabled is the backend used when no credential is configured. Every
// call fails with ErrNoCredential so the pipeline's fallback messaging
// takes over.
type Disabled struct{}

func (Disabled) Complete(context.Context, string, string) (string, error) {
	return "", ErrNoCredential
}

func (Disabled) CompleteStructured(context.Context, string) ([]byte, error) {
	return nil, ErrNoCredential
}
