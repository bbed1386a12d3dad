// Package store handles SQLite persistence of games and solved problems.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FireLemons/ToMetric/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for game history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			timed INTEGER NOT NULL,
			tolerance REAL NOT NULL,
			outcome TEXT NOT NULL,
			level INTEGER NOT NULL,
			attempts INTEGER NOT NULL,
			solved INTEGER NOT NULL,
			avg_error REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS solves (
			id INTEGER PRIMARY KEY,
			game_id TEXT NOT NULL REFERENCES games(id),
			solved_at TEXT NOT NULL,
			level INTEGER NOT NULL,
			difficulty REAL NOT NULL,
			conversion_key TEXT NOT NULL,
			category TEXT NOT NULL,
			customary_unit TEXT NOT NULL,
			metric_unit TEXT NOT NULL,
			given REAL NOT NULL,
			exact REAL NOT NULL,
			answer REAL NOT NULL,
			error_percent REAL NOT NULL,
			tries INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_games_started_at ON games(started_at);`,
		`CREATE INDEX IF NOT EXISTS idx_solves_game_id ON solves(game_id);`,
		`CREATE INDEX IF NOT EXISTS idx_solves_conversion_key ON solves(conversion_key);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// timeLayout keeps a fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// InsertGame stores a new game. An empty ID is replaced with a random UUID;
// the stored ID is returned.
func (s *Store) InsertGame(ctx context.Context, g model.GameRecord) (string, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.Outcome == "" {
		g.Outcome = model.OutcomePlaying
	}
	if g.EndedAt.IsZero() {
		g.EndedAt = g.StartedAt
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games (id, started_at, ended_at, timed, tolerance, outcome, level, attempts, solved, avg_error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID,
		formatTime(g.StartedAt),
		formatTime(g.EndedAt),
		boolInt(g.Timed),
		g.Tolerance,
		g.Outcome,
		g.Level,
		g.Attempts,
		g.Solved,
		g.AvgError,
	)
	if err != nil {
		return "", err
	}
	return g.ID, nil
}

// UpdateGame writes the progress and outcome of an existing game.
func (s *Store) UpdateGame(ctx context.Context, g model.GameRecord) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE games SET ended_at = ?, outcome = ?, level = ?, attempts = ?, solved = ?, avg_error = ?
		 WHERE id = ?`,
		formatTime(g.EndedAt),
		g.Outcome,
		g.Level,
		g.Attempts,
		g.Solved,
		g.AvgError,
		g.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("game %s not found", g.ID)
	}
	return nil
}

// InsertSolve stores one accepted answer.
func (s *Store) InsertSolve(ctx context.Context, r model.SolveRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO solves (game_id, solved_at, level, difficulty, conversion_key, category, customary_unit, metric_unit, given, exact, answer, error_percent, tries)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.GameID,
		formatTime(r.SolvedAt),
		r.Level,
		r.Difficulty,
		r.ConversionKey,
		r.Category,
		r.CustomaryUnit,
		r.MetricUnit,
		r.Given,
		r.Exact,
		r.Answer,
		r.ErrorPercent,
		r.Tries,
	)
	return err
}

// ListGames returns games filtered by stats config, oldest first. Last keeps
// only the most recent N games.
func (s *Store) ListGames(ctx context.Context, cfg model.StatsConfig) ([]model.GameRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "started_at >= ?")
		args = append(args, formatTime(*cfg.Since))
	}
	if cfg.Category != "" {
		clauses = append(clauses, "id IN (SELECT game_id FROM solves WHERE category = ?)")
		args = append(args, cfg.Category)
	}
	limit := -1
	if cfg.Last > 0 {
		limit = cfg.Last
	}
	args = append(args, limit)
	query := fmt.Sprintf(`SELECT * FROM (
			SELECT id, started_at, ended_at, timed, tolerance, outcome, level, attempts, solved, avg_error
			FROM games
			WHERE %s
			ORDER BY started_at DESC
			LIMIT ?
		) ORDER BY started_at ASC`, strings.Join(clauses, " AND "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var games []model.GameRecord
	for rows.Next() {
		var g model.GameRecord
		var startedAt, endedAt string
		var timed int
		if err := rows.Scan(&g.ID, &startedAt, &endedAt, &timed, &g.Tolerance, &g.Outcome, &g.Level, &g.Attempts, &g.Solved, &g.AvgError); err != nil {
			return nil, err
		}
		if g.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if g.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		g.Timed = timed != 0
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

// ListSolves returns the solves of the given games, oldest first. A non-empty
// category narrows the result.
func (s *Store) ListSolves(ctx context.Context, gameIDs []string, category string) ([]model.SolveRecord, error) {
	if len(gameIDs) == 0 {
		return nil, nil
	}
	where, args := gameFilter(gameIDs, category)
	query := fmt.Sprintf(`SELECT game_id, solved_at, level, difficulty, conversion_key, category, customary_unit, metric_unit, given, exact, answer, error_percent, tries
		FROM solves
		WHERE %s
		ORDER BY solved_at ASC, id ASC`, where)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.SolveRecord
	for rows.Next() {
		var r model.SolveRecord
		var solvedAt string
		if err := rows.Scan(&r.GameID, &solvedAt, &r.Level, &r.Difficulty, &r.ConversionKey, &r.Category, &r.CustomaryUnit, &r.MetricUnit, &r.Given, &r.Exact, &r.Answer, &r.ErrorPercent, &r.Tries); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, solvedAt)
		if err != nil {
			return nil, err
		}
		r.SolvedAt = parsed
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListConversionAggregates sums solves per conversion across games.
func (s *Store) ListConversionAggregates(ctx context.Context, gameIDs []string, category string) ([]model.ConversionAggregate, error) {
	if len(gameIDs) == 0 {
		return nil, nil
	}
	where, args := gameFilter(gameIDs, category)
	query := fmt.Sprintf(`SELECT conversion_key, MIN(customary_unit), MIN(metric_unit),
		COUNT(*) AS solves, SUM(tries) AS tries, SUM(error_percent) AS error_sum
		FROM solves
		WHERE %s
		GROUP BY conversion_key`, where)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.ConversionAggregate
	for rows.Next() {
		var agg model.ConversionAggregate
		if err := rows.Scan(&agg.ConversionKey, &agg.CustomaryUnit, &agg.MetricUnit, &agg.Solves, &agg.Tries, &agg.ErrorSum); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func gameFilter(gameIDs []string, category string) (string, []any) {
	placeholders := make([]string, len(gameIDs))
	args := make([]any, 0, len(gameIDs)+1)
	for i, id := range gameIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}
	where := fmt.Sprintf("game_id IN (%s)", strings.Join(placeholders, ","))
	if category != "" {
		where += " AND category = ?"
		args = append(args, category)
	}
	return where, args
}
