package assistant

import (
	"strings"
	"testing"

	"cipherforge/internal/catalog"
	"cipherforge/internal/progress"
)

func TestBuildContextActiveChallenge(t *testing.T) {
	p := progress.New()
	p = progress.ApplySolve(p, "warmup", 120)

	ch := &catalog.Challenge{
		ID:          "cookie-1",
		Title:       "Cookie Monster",
		Description: "Inspect the session cookie.",
		Category:    catalog.CategoryWeb,
		Difficulty:  catalog.DifficultyBeginner,
		Points:      50,
		Flag:        "CTF{cookie}",
	}

	got := BuildContext(p, ch, 50)
	for _, want := range []string{
		`"Cookie Monster"`,
		"WEB EXPLOITATION",
		"Inspect the session cookie.",
		"CTF{cookie}",
		"Operator Score: 120",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("context missing %q:\n%s", want, got)
		}
	}
}

func TestBuildContextDashboard(t *testing.T) {
	p := progress.New()
	p = progress.ApplySolve(p, "a", 50)
	p = progress.ApplySolve(p, "b", 100)

	got := BuildContext(p, nil, 51)
	for _, want := range []string{
		"dashboard",
		"Score: 150",
		"Solved: 2",
		"Available Challenges: 51",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("context missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Flag:") {
		t.Fatalf("dashboard context must not mention any flag:\n%s", got)
	}
}
