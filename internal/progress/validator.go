package progress

import (
	"strings"

	"cipherforge/internal/catalog"
)

// Outcome is the result of one flag submission.
type Outcome int

const (
	OutcomeRejected Outcome = iota
	OutcomeAccepted
)

func (o Outcome) String() string {
	if o == OutcomeAccepted {
		return "accepted"
	}
	return "rejected"
}

// Submit checks a candidate answer against a challenge's flag.
// Surrounding whitespace on the candidate is ignored; the comparison
// itself is byte-exact and case-sensitive. No partial credit, no
// near-miss feedback.
func Submit(ch catalog.Challenge, candidate string) Outcome {
	if strings.TrimSpace(candidate) == ch.Flag {
		return OutcomeAccepted
	}
	return OutcomeRejected
}
