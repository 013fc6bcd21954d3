package state

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteJournal struct {
	db *sql.DB
}

// NewInMemory opens a fresh private database for this process. Nothing
// touches the filesystem.
func NewInMemory() (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// The in-memory database vanishes if its sole connection closes.
	db.SetMaxOpenConns(1)
	return &SQLiteJournal{db: db}, nil
}

func (s *SQLiteJournal) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS submissions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			challenge_id TEXT NOT NULL,
			accepted INTEGER NOT NULL,
			at_ts TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS solves (
			challenge_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			points INTEGER NOT NULL,
			score_after INTEGER NOT NULL,
			rank_after TEXT NOT NULL,
			at_ts TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS assistant_turns (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			personality TEXT NOT NULL,
			delivered INTEGER NOT NULL,
			at_ts TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS syntheses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			challenge_id TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			succeeded INTEGER NOT NULL,
			at_ts TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteJournal) RecordSubmission(ctx context.Context, sub Submission) error {
	if strings.TrimSpace(sub.ChallengeID) == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions(challenge_id, accepted, at_ts) VALUES(?,?,?)`,
		sub.ChallengeID,
		boolInt(sub.Accepted),
		stamp(sub.At),
	)
	return err
}

func (s *SQLiteJournal) RecordSolve(ctx context.Context, solve Solve) error {
	if strings.TrimSpace(solve.ChallengeID) == "" {
		return nil
	}
	// A challenge solves at most once; a replayed event is a no-op.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO solves(challenge_id, title, points, score_after, rank_after, at_ts)
		VALUES(?,?,?,?,?,?)
		ON CONFLICT(challenge_id) DO NOTHING
	`,
		solve.ChallengeID,
		solve.Title,
		solve.Points,
		solve.ScoreAfter,
		solve.RankAfter,
		stamp(solve.At),
	)
	return err
}

func (s *SQLiteJournal) RecordAssistantTurn(ctx context.Context, turn AssistantTurn) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO assistant_turns(personality, delivered, at_ts) VALUES(?,?,?)`,
		turn.Personality,
		boolInt(turn.Delivered),
		stamp(turn.At),
	)
	return err
}

func (s *SQLiteJournal) RecordSynthesis(ctx context.Context, syn Synthesis) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO syntheses(challenge_id, category, difficulty, succeeded, at_ts) VALUES(?,?,?,?,?)`,
		syn.ChallengeID,
		syn.Category,
		syn.Difficulty,
		boolInt(syn.Succeeded),
		stamp(syn.At),
	)
	return err
}

func (s *SQLiteJournal) GetSummary(ctx context.Context) (Summary, error) {
	var out Summary
	row := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM submissions),
			(SELECT COALESCE(SUM(accepted),0) FROM submissions),
			(SELECT COUNT(*) FROM solves),
			(SELECT COALESCE(SUM(points),0) FROM solves),
			(SELECT COUNT(*) FROM assistant_turns),
			(SELECT COUNT(*) FROM syntheses),
			(SELECT COALESCE(SUM(succeeded),0) FROM syntheses)
	`)
	if err := row.Scan(
		&out.Submissions,
		&out.Accepted,
		&out.Solves,
		&out.PointsAwarded,
		&out.AssistantTurns,
		&out.Syntheses,
		&out.SynthesisOK,
	); err != nil {
		return Summary{}, err
	}
	return out, nil
}

func (s *SQLiteJournal) RecentSolves(ctx context.Context, limit int) ([]Solve, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT challenge_id, title, points, score_after, rank_after, at_ts
		FROM solves
		ORDER BY at_ts DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Solve, 0, limit)
	for rows.Next() {
		var (
			solve Solve
			atRaw string
		)
		if err := rows.Scan(&solve.ChallengeID, &solve.Title, &solve.Points, &solve.ScoreAfter, &solve.RankAfter, &atRaw); err != nil {
			return nil, err
		}
		if t, err := time.Parse(timeLayout, atRaw); err == nil {
			solve.At = t
		}
		out = append(out, solve)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteJournal) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func stamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timeLayout)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
