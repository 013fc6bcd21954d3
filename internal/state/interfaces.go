// Package state keeps the session journal: an event record of every
// submission, solve, assistant turn, and synthesis made during one run
// of the dashboard. Rows live in an in-memory database and are gone
// when the process exits; the journal exists to feed the stats overlay,
// not to persist progress.
package state

import (
	"context"
	"time"
)

type Journal interface {
	EnsureSchema(ctx context.Context) error
	RecordSubmission(ctx context.Context, sub Submission) error
	RecordSolve(ctx context.Context, solve Solve) error
	RecordAssistantTurn(ctx context.Context, turn AssistantTurn) error
	RecordSynthesis(ctx context.Context, syn Synthesis) error
	GetSummary(ctx context.Context) (Summary, error)
	RecentSolves(ctx context.Context, limit int) ([]Solve, error)
	Close() error
}

// Submission is one flag attempt, accepted or not.
type Submission struct {
	ChallengeID string
	Accepted    bool
	At          time.Time
}

// Solve is the first accepted submission for a challenge.
type Solve struct {
	ChallengeID string
	Title       string
	Points      int
	ScoreAfter  int
	RankAfter   string
	At          time.Time
}

// AssistantTurn records one chat round trip. Fallback turns count too;
// Delivered distinguishes a real reply from fallback text.
type AssistantTurn struct {
	Personality string
	Delivered   bool
	At          time.Time
}

// Synthesis records one challenge-generation attempt.
type Synthesis struct {
	ChallengeID string
	Category    string
	Difficulty  string
	Succeeded   bool
	At          time.Time
}

type Summary struct {
	Submissions    int
	Accepted       int
	Solves         int
	PointsAwarded  int
	AssistantTurns int
	Syntheses      int
	SynthesisOK    int
}
