package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cipherforge/internal/catalog"
)

type structuredBackend struct {
	raw []byte
	err error

	lastPrompt string
}

func (s *structuredBackend) Complete(ctx context.Context, prompt, systemInstruction string) (string, error) {
	return "", errors.New("not used")
}

func (s *structuredBackend) CompleteStructured(ctx context.Context, prompt string) ([]byte, error) {
	s.lastPrompt = prompt
	return s.raw, s.err
}

const validPayload = `{
	"title": "Broken Mirror",
	"description": "A reversed transmission hides the key.",
	"flag": "CTF{reversed}",
	"hint": "Read it backwards.",
	"content": "}desrever{FTC"
}`

func TestSynthesizeMapsPayload(t *testing.T) {
	b := &structuredBackend{raw: []byte(validPayload)}
	s := NewSynthesizer(b)

	ch, err := s.Synthesize(context.Background(), catalog.CategoryCryptography, catalog.DifficultyIntermediate)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if ch.Title != "Broken Mirror" || ch.Flag != "CTF{reversed}" || ch.Hint != "Read it backwards." {
		t.Fatalf("payload fields not mapped: %+v", ch)
	}
	if ch.Category != catalog.CategoryCryptography || ch.Difficulty != catalog.DifficultyIntermediate {
		t.Fatalf("requested category/difficulty not honored: %+v", ch)
	}
	if ch.Points != 100 {
		t.Fatalf("intermediate synthesis should award 100 points, got %d", ch.Points)
	}
	if !ch.Synthesized {
		t.Fatalf("challenge not marked synthesized")
	}
	if !strings.HasPrefix(ch.ID, catalog.GeneratedIDPrefix) {
		t.Fatalf("id %q outside reserved namespace", ch.ID)
	}
	if !strings.Contains(b.lastPrompt, "CRYPTOGRAPHY") || !strings.Contains(b.lastPrompt, "INTERMEDIATE") {
		t.Fatalf("prompt missing category or difficulty:\n%s", b.lastPrompt)
	}
}

func TestSynthesisPointsTable(t *testing.T) {
	cases := []struct {
		diff catalog.Difficulty
		want int
	}{
		{catalog.DifficultyBeginner, 50},
		{catalog.DifficultyIntermediate, 100},
		{catalog.DifficultyAdvanced, 200},
		{catalog.DifficultyExpert, 200},
		{catalog.DifficultyInsane, 200},
	}
	for _, tc := range cases {
		if got := synthesisPoints(tc.diff); got != tc.want {
			t.Fatalf("%s: expected %d points, got %d", tc.diff, tc.want, got)
		}
	}
}

func TestSynthesizeIDsNeverCollide(t *testing.T) {
	s := NewSynthesizer(&structuredBackend{raw: []byte(validPayload)})
	// Frozen clock forces the per-process counter to do the work.
	s.now = func() time.Time { return time.Unix(1700000000, 0) }

	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		ch, err := s.Synthesize(context.Background(), catalog.CategoryLogic, catalog.DifficultyBeginner)
		if err != nil {
			t.Fatalf("Synthesize #%d: %v", i, err)
		}
		if _, dup := seen[ch.ID]; dup {
			t.Fatalf("duplicate id %q at iteration %d", ch.ID, i)
		}
		seen[ch.ID] = struct{}{}
	}
}

func TestSynthesizeFailures(t *testing.T) {
	cases := []struct {
		name string
		b    *structuredBackend
	}{
		{"backend error", &structuredBackend{err: errors.New("boom")}},
		{"no credential", &structuredBackend{err: ErrNoCredential}},
		{"unparsable", &structuredBackend{raw: []byte("I cannot do that")}},
		{"missing flag", &structuredBackend{raw: []byte(`{"title":"x","description":"y","hint":"z"}`)}},
		{"blank title", &structuredBackend{raw: []byte(`{"title":"  ","description":"y","flag":"CTF{a}","hint":"z"}`)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSynthesizer(tc.b)
			_, err := s.Synthesize(context.Background(), catalog.CategoryForensics, catalog.DifficultyExpert)
			if !errors.Is(err, ErrSynthesis) {
				t.Fatalf("expected ErrSynthesis, got %v", err)
			}
		})
	}
}

func TestSynthesizeRandomSamplesBothAxes(t *testing.T) {
	s := NewSynthesizer(&structuredBackend{raw: []byte(validPayload)})
	picks := []int{2, 4}
	s.pick = func(n int) int {
		v := picks[0]
		picks = picks[1:]
		return v % n
	}

	ch, err := s.SynthesizeRandom(context.Background())
	if err != nil {
		t.Fatalf("SynthesizeRandom: %v", err)
	}
	if ch.Category != catalog.Categories()[2] {
		t.Fatalf("expected category %s, got %s", catalog.Categories()[2], ch.Category)
	}
	if ch.Difficulty != catalog.Difficulties()[4] {
		t.Fatalf("expected difficulty %s, got %s", catalog.Difficulties()[4], ch.Difficulty)
	}
}

func TestScriptedBackendSynthesisIsSolvable(t *testing.T) {
	s := NewSynthesizer(NewScripted())
	ch, err := s.Synthesize(context.Background(), catalog.CategoryLogic, catalog.DifficultyBeginner)
	if err != nil {
		t.Fatalf("Synthesize with scripted backend: %v", err)
	}
	if reverse(ch.Content) != ch.Flag {
		t.Fatalf("scripted challenge not solvable: content %q flag %q", ch.Content, ch.Flag)
	}
}
