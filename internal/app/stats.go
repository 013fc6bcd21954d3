package app

import (
	"fmt"
	"strings"

	"cipherforge/internal/state"
)

// formatStats renders the session journal summary for the stats
// overlay. Rates are computed here rather than in SQL so a journal read
// failure degrades to a plain error string, never a panic.
func formatStats(sum state.Summary, solves []state.Solve) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Submissions:     %d\n", sum.Submissions)
	fmt.Fprintf(&b, "Accepted:        %d (%s)\n", sum.Accepted, percent(sum.Accepted, sum.Submissions))
	fmt.Fprintf(&b, "Solves:          %d\n", sum.Solves)
	fmt.Fprintf(&b, "Points awarded:  %d\n", sum.PointsAwarded)
	fmt.Fprintf(&b, "Assistant turns: %d\n", sum.AssistantTurns)
	fmt.Fprintf(&b, "Syntheses:       %d (%s ok)\n", sum.Syntheses, percent(sum.SynthesisOK, sum.Syntheses))

	if len(solves) > 0 {
		b.WriteString("\nRecent solves:\n")
		for _, s := range solves {
			fmt.Fprintf(&b, "  %s  %s  +%d -> %d (%s)\n",
				s.At.Local().Format("15:04:05"), s.Title, s.Points, s.ScoreAfter, s.RankAfter)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func percent(part, whole int) string {
	if whole <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%d%%", part*100/whole)
}
