// Package progress owns the operator's session standing: cumulative
// score, the set of solved challenge ids, and the rank derived from the
// score. All transitions are pure; callers hold the previous value and
// receive the next one.
package progress

// Rank labels, coarsest to finest. Rank is a function of score alone.
const (
	RankScriptKiddie = "Script Kiddie"
	RankHacker       = "Hacker"
	RankElite        = "Elite"
	RankCyberGod     = "Cyber God"
)

// Progress is the single-operator session state. Score never decreases
// and the solved set never shrinks.
type Progress struct {
	Score  int
	Rank   string
	solved map[string]struct{}
}

func New() Progress {
	return Progress{Rank: RankScriptKiddie, solved: map[string]struct{}{}}
}

// DeriveRank recomputes the rank from scratch. Thresholds are strict:
// a score of exactly 500 is still Script Kiddie.
func DeriveRank(score int) string {
	switch {
	case score > 3000:
		return RankCyberGod
	case score > 1500:
		return RankElite
	case score > 500:
		return RankHacker
	default:
		return RankScriptKiddie
	}
}

// ApplySolve returns the progress after crediting one solved challenge.
// The caller guarantees the challenge has not been credited before.
func ApplySolve(p Progress, challengeID string, points int) Progress {
	next := Progress{
		Score:  p.Score + points,
		solved: make(map[string]struct{}, len(p.solved)+1),
	}
	for id := range p.solved {
		next.solved[id] = struct{}{}
	}
	next.solved[challengeID] = struct{}{}
	next.Rank = DeriveRank(next.Score)
	return next
}

func (p Progress) Solved(challengeID string) bool {
	_, ok := p.solved[challengeID]
	return ok
}

func (p Progress) SolvedCount() int { return len(p.solved) }

// SolvedIDs returns a copy of the solved set.
func (p Progress) SolvedIDs() []string {
	out := make([]string, 0, len(p.solved))
	for id := range p.solved {
		out = append(out, id)
	}
	return out
}
