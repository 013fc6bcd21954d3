package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync/atomic"
	"time"

	"cipherforge/internal/catalog"
)

// ErrSynthesis is the single failure outcome for challenge synthesis.
// Parse failures, schema violations, missing credentials, and transport
// errors all collapse into it; callers only learn that synthesis did
// not occur.
var ErrSynthesis = errors.New("challenge synthesis failed")

// synthesisPayload is the structured shape requested from the backend.
type synthesisPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Flag        string `json:"flag"`
	Hint        string `json:"hint"`
	Content     string `json:"content"`
}

// Synthesizer turns backend output into validated catalog entries.
// Points are assigned from a fixed difficulty table, never from the
// backend, so the model cannot inflate rewards.
type Synthesizer struct {
	backend Backend
	seq     atomic.Uint64
	now     func() time.Time
	pick    func(n int) int
}

func NewSynthesizer(backend Backend) *Synthesizer {
	return &Synthesizer{
		backend: backend,
		now:     time.Now,
		pick:    rand.Intn,
	}
}

// SynthesizeRandom samples category and difficulty independently and
// uniformly, then synthesizes.
func (s *Synthesizer) SynthesizeRandom(ctx context.Context) (catalog.Challenge, error) {
	cats := catalog.Categories()
	diffs := catalog.Difficulties()
	return s.Synthesize(ctx, cats[s.pick(len(cats))], diffs[s.pick(len(diffs))])
}

// Synthesize requests one new challenge from the backend.
func (s *Synthesizer) Synthesize(ctx context.Context, cat catalog.Category, diff catalog.Difficulty) (catalog.Challenge, error) {
	raw, err := s.backend.CompleteStructured(ctx, synthesisPrompt(cat, diff))
	if err != nil {
		return catalog.Challenge{}, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}

	var payload synthesisPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return catalog.Challenge{}, fmt.Errorf("%w: parse payload: %v", ErrSynthesis, err)
	}
	if err := payload.validate(); err != nil {
		return catalog.Challenge{}, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}

	ch := catalog.Challenge{
		ID:          s.nextID(),
		Title:       payload.Title,
		Description: payload.Description,
		Category:    cat,
		Difficulty:  diff,
		Points:      synthesisPoints(diff),
		Flag:        payload.Flag,
		Hint:        payload.Hint,
		Content:     payload.Content,
		Synthesized: true,
	}
	if err := ch.Validate(); err != nil {
		return catalog.Challenge{}, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	return ch, nil
}

func (p synthesisPayload) validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return errors.New("payload missing title")
	}
	if strings.TrimSpace(p.Description) == "" {
		return errors.New("payload missing description")
	}
	if strings.TrimSpace(p.Flag) == "" {
		return errors.New("payload missing flag")
	}
	if strings.TrimSpace(p.Hint) == "" {
		return errors.New("payload missing hint")
	}
	return nil
}

// nextID allocates an id in the reserved generated- namespace. The
// nanosecond timestamp plus a process-wide counter keeps ids unique
// even when two syntheses land in the same tick.
func (s *Synthesizer) nextID() string {
	return fmt.Sprintf("%s%d-%d", catalog.GeneratedIDPrefix, s.now().UnixNano(), s.seq.Add(1))
}

// synthesisPoints maps difficulty to reward. Fixed table; the backend
// has no say.
func synthesisPoints(diff catalog.Difficulty) int {
	switch diff {
	case catalog.DifficultyBeginner:
		return 50
	case catalog.DifficultyIntermediate:
		return 100
	case catalog.DifficultyAdvanced, catalog.DifficultyExpert, catalog.DifficultyInsane:
		return 200
	}
	return 200
}

func synthesisPrompt(cat catalog.Category, diff catalog.Difficulty) string {
	var b strings.Builder
	b.WriteString("Generate a unique Capture The Flag (CTF) challenge.\n")
	fmt.Fprintf(&b, "Category: %s\n", cat.Label())
	fmt.Fprintf(&b, "Difficulty: %s\n\n", diff)
	b.WriteString("Output JSON ONLY with this schema:\n")
	b.WriteString("{\n")
	b.WriteString("  \"title\": \"string\",\n")
	b.WriteString("  \"description\": \"string (The scenario)\",\n")
	b.WriteString("  \"flag\": \"string (The answer, format CTF{...})\",\n")
	b.WriteString("  \"hint\": \"string\",\n")
	b.WriteString("  \"content\": \"string (The puzzle text, code snippet, or ciphertext)\"\n")
	b.WriteString("}\n")
	b.WriteString("Make sure the flag is solvable from the content provided or simple logic.")
	return b.String()
}
