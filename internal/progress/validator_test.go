package progress

import (
	"testing"

	"cipherforge/internal/catalog"
)

func flagChallenge(flag string) catalog.Challenge {
	return catalog.Challenge{
		ID:          "web-1",
		Title:       "x",
		Description: "d",
		Category:    catalog.CategoryWeb,
		Difficulty:  catalog.DifficultyBeginner,
		Points:      50,
		Flag:        flag,
	}
}

func TestSubmitExactMatchAccepted(t *testing.T) {
	ch := flagChallenge("CTF{html_comments_reveal_all}")
	if got := Submit(ch, "CTF{html_comments_reveal_all}"); got != OutcomeAccepted {
		t.Fatalf("expected accepted, got %v", got)
	}
}

func TestSubmitTrimsSurroundingWhitespaceOnly(t *testing.T) {
	ch := flagChallenge("CTF{x}")
	if got := Submit(ch, "  CTF{x}\n"); got != OutcomeAccepted {
		t.Fatalf("surrounding whitespace should be ignored, got %v", got)
	}
	if got := Submit(ch, "CTF{ x }"); got != OutcomeRejected {
		t.Fatalf("inner whitespace must not be normalized, got %v", got)
	}
}

func TestSubmitIsCaseSensitive(t *testing.T) {
	ch := flagChallenge("CTF{x}")
	if got := Submit(ch, "ctf{x}"); got != OutcomeRejected {
		t.Fatalf("expected case-sensitive rejection, got %v", got)
	}
}

func TestSubmitRejectsNearMiss(t *testing.T) {
	ch := flagChallenge("CTF{sql_injection_master}")
	if got := Submit(ch, "CTF{sql_injection_maste}"); got != OutcomeRejected {
		t.Fatalf("expected rejection, got %v", got)
	}
}
