package progress

import "testing"

func TestDeriveRankThresholdsAreStrict(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{0, RankScriptKiddie},
		{500, RankScriptKiddie},
		{501, RankHacker},
		{1500, RankHacker},
		{1501, RankElite},
		{3000, RankElite},
		{3001, RankCyberGod},
	}
	for _, tc := range cases {
		if got := DeriveRank(tc.score); got != tc.want {
			t.Fatalf("DeriveRank(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestDeriveRankMonotonic(t *testing.T) {
	order := map[string]int{RankScriptKiddie: 0, RankHacker: 1, RankElite: 2, RankCyberGod: 3}
	prev := 0
	for score := 0; score <= 4000; score += 50 {
		cur := order[DeriveRank(score)]
		if cur < prev {
			t.Fatalf("rank regressed at score %d", score)
		}
		prev = cur
	}
}

func TestApplySolveCreditsScoreAndSet(t *testing.T) {
	p := New()
	p = ApplySolve(p, "web-1", 50)
	if p.Score != 50 {
		t.Fatalf("expected score 50, got %d", p.Score)
	}
	if p.Rank != RankScriptKiddie {
		t.Fatalf("50 points should stay %q, got %q", RankScriptKiddie, p.Rank)
	}
	if !p.Solved("web-1") || p.SolvedCount() != 1 {
		t.Fatalf("solved set not updated: %#v", p.SolvedIDs())
	}
}

func TestApplySolveCrossesHackerThreshold(t *testing.T) {
	p := New()
	p = ApplySolve(p, "a", 520)
	if p.Rank != RankHacker {
		t.Fatalf("520 should already be %q, got %q", RankHacker, p.Rank)
	}
	p = ApplySolve(p, "b", 100)
	if p.Score != 620 {
		t.Fatalf("expected 620, got %d", p.Score)
	}
	if p.Rank != RankHacker {
		t.Fatalf("expected %q at 620, got %q", RankHacker, p.Rank)
	}
}

func TestApplySolveDoesNotAliasPreviousValue(t *testing.T) {
	p1 := New()
	p2 := ApplySolve(p1, "web-1", 50)
	if p1.Solved("web-1") {
		t.Fatalf("previous progress value mutated")
	}
	p3 := ApplySolve(p2, "web-2", 60)
	if p2.Solved("web-2") {
		t.Fatalf("intermediate progress value mutated")
	}
	if p3.SolvedCount() != 2 {
		t.Fatalf("expected 2 solves, got %d", p3.SolvedCount())
	}
}

func TestRankDependsOnScoreAlone(t *testing.T) {
	// Two different paths to the same score land on the same rank.
	a := ApplySolve(ApplySolve(New(), "x", 400), "y", 200)
	b := ApplySolve(New(), "z", 600)
	if a.Rank != b.Rank {
		t.Fatalf("rank diverged for equal scores: %q vs %q", a.Rank, b.Rank)
	}
}
