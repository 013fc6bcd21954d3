package state

import (
	"context"
	"testing"
	"time"
)

func newTestJournal(t *testing.T) *SQLiteJournal {
	t.Helper()
	j, err := NewInMemory()
	if err != nil {
		t.Fatalf("new in-memory journal: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	if err := j.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return j
}

func TestSummaryCountsEvents(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

	if err := j.RecordSubmission(ctx, Submission{ChallengeID: "web-1", Accepted: false, At: now}); err != nil {
		t.Fatalf("record rejected submission: %v", err)
	}
	if err := j.RecordSubmission(ctx, Submission{ChallengeID: "web-1", Accepted: true, At: now.Add(time.Minute)}); err != nil {
		t.Fatalf("record accepted submission: %v", err)
	}
	if err := j.RecordSolve(ctx, Solve{
		ChallengeID: "web-1",
		Title:       "Cookie Monster",
		Points:      50,
		ScoreAfter:  50,
		RankAfter:   "Script Kiddie",
		At:          now.Add(time.Minute),
	}); err != nil {
		t.Fatalf("record solve: %v", err)
	}
	if err := j.RecordAssistantTurn(ctx, AssistantTurn{Personality: "FRIENDLY_TUTOR", Delivered: true, At: now}); err != nil {
		t.Fatalf("record assistant turn: %v", err)
	}
	if err := j.RecordSynthesis(ctx, Synthesis{Category: "LOGIC", Difficulty: "BEGINNER", Succeeded: false, At: now}); err != nil {
		t.Fatalf("record failed synthesis: %v", err)
	}

	sum, err := j.GetSummary(ctx)
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	want := Summary{
		Submissions:    2,
		Accepted:       1,
		Solves:         1,
		PointsAwarded:  50,
		AssistantTurns: 1,
		Syntheses:      1,
		SynthesisOK:    0,
	}
	if sum != want {
		t.Fatalf("summary mismatch:\n got  %+v\n want %+v", sum, want)
	}
}

func TestSolveReplayIsNoOp(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

	solve := Solve{ChallengeID: "logic-3", Title: "Dead Pixel", Points: 100, ScoreAfter: 100, RankAfter: "Script Kiddie", At: now}
	if err := j.RecordSolve(ctx, solve); err != nil {
		t.Fatalf("record solve: %v", err)
	}
	solve.Points = 9000
	if err := j.RecordSolve(ctx, solve); err != nil {
		t.Fatalf("replay solve: %v", err)
	}

	sum, err := j.GetSummary(ctx)
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	if sum.Solves != 1 || sum.PointsAwarded != 100 {
		t.Fatalf("replayed solve mutated the journal: %+v", sum)
	}
}

func TestRecentSolvesNewestFirst(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	base := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		if err := j.RecordSolve(ctx, Solve{
			ChallengeID: id,
			Title:       id,
			Points:      50,
			ScoreAfter:  50 * (i + 1),
			RankAfter:   "Script Kiddie",
			At:          base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("record solve %s: %v", id, err)
		}
	}

	solves, err := j.RecentSolves(ctx, 2)
	if err != nil {
		t.Fatalf("recent solves: %v", err)
	}
	if len(solves) != 2 {
		t.Fatalf("expected 2 solves, got %d", len(solves))
	}
	if solves[0].ChallengeID != "c" || solves[1].ChallengeID != "b" {
		t.Fatalf("solves not newest first: %q then %q", solves[0].ChallengeID, solves[1].ChallengeID)
	}
	if !solves[0].At.Equal(base.Add(2 * time.Minute)) {
		t.Fatalf("timestamp not round-tripped: %v", solves[0].At)
	}
}

func TestBlankChallengeIDIgnored(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	if err := j.RecordSubmission(ctx, Submission{ChallengeID: "  "}); err != nil {
		t.Fatalf("blank submission: %v", err)
	}
	if err := j.RecordSolve(ctx, Solve{ChallengeID: ""}); err != nil {
		t.Fatalf("blank solve: %v", err)
	}

	sum, err := j.GetSummary(ctx)
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	if sum.Submissions != 0 || sum.Solves != 0 {
		t.Fatalf("blank ids should be dropped: %+v", sum)
	}
}
