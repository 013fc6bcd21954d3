package assistant

import (
	"fmt"

	"cipherforge/internal/catalog"
	"cipherforge/internal/progress"
)

// BuildContext produces the bounded state snapshot that grounds each
// assistant turn. The visible message log is deliberately NOT replayed
// to the backend; each call gets only this one sentence plus the latest
// operator message, which keeps calls stateless and cheap.
//
// When a challenge is active the snapshot includes its flag. That is
// intentional privileged access so the assistant can reason about
// correctness; the string is opaque input to the pipeline and is never
// rendered to the operator.
func BuildContext(p progress.Progress, active *catalog.Challenge, catalogSize int) string {
	if active != nil {
		return fmt.Sprintf(
			"Operator is working on challenge %q (Category: %s). Description: %s. Flag: %s. Operator Score: %d.",
			active.Title, active.Category.Label(), active.Description, active.Flag, p.Score,
		)
	}
	return fmt.Sprintf(
		"Operator is in the dashboard. Score: %d. Solved: %d. Available Challenges: %d.",
		p.Score, p.SolvedCount(), catalogSize,
	)
}
