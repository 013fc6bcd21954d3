package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// Scripted is an offline backend for demos and tests. Chat replies
// cycle through a fixed script; structured calls produce a solvable
// canned challenge. No network, no credentials, fully deterministic.
type Scripted struct {
	mu    sync.Mutex
	turn  int
	synth int
}

func NewScripted() *Scripted { return &Scripted{} }

var scriptedReplies = []string{
	"Signal locked. State your objective, operator.",
	"Analysis running... try looking at the encoding first.",
	"The pattern repeats. It always repeats.",
	"You are closer than the console makes it look.",
}

func (s *Scripted) Complete(ctx context.Context, prompt, systemInstruction string) (string, error) {
	_ = ctx
	_ = systemInstruction

	s.mu.Lock()
	reply := scriptedReplies[s.turn%len(scriptedReplies)]
	s.turn++
	s.mu.Unlock()

	if strings.Contains(strings.ToLower(prompt), "hint") {
		return "Hint acknowledged. Re-read the challenge content; the answer is encoded, not hidden.", nil
	}
	return reply, nil
}

func (s *Scripted) CompleteStructured(ctx context.Context, prompt string) ([]byte, error) {
	_ = ctx
	_ = prompt

	s.mu.Lock()
	n := s.synth
	s.synth++
	s.mu.Unlock()

	payload := map[string]string{
		"title":       fmt.Sprintf("Echo Chamber %d", n+1),
		"description": "A training simulation emitted a mirrored transmission. Reverse it to recover the flag.",
		"flag":        fmt.Sprintf("CTF{mirror_%d}", n+1),
		"hint":        "Read the content back to front.",
		"content":     reverse(fmt.Sprintf("CTF{mirror_%d}", n+1)),
	}
	return json.Marshal(payload)
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
