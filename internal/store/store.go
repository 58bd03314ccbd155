// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists completed runs in a SQLite database so past
// results can be rescored, exported, or compared without re-querying the
// upstream source. It also tracks every listing ever stored in a seen
// table, which is informational: results are never filtered by it.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/jobscout/pkg/types"
)

const dbFile = "jobscout.db"

// Store manages the run history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the run history database at cfg.Path, creating
// the schema if it does not exist. An empty path selects jobscout.db in
// the working directory.
func Open(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = dbFile
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL,
			request TEXT NOT NULL,
			duplicates_removed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS reports (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			report TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			listing_url TEXT NOT NULL,
			title TEXT NOT NULL,
			record TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS scores (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			listing_url TEXT NOT NULL,
			title TEXT NOT NULL,
			score TEXT NOT NULL,
			PRIMARY KEY (run_id, listing_url, title)
		)`,
		`CREATE TABLE IF NOT EXISTS seen (
			listing_url TEXT NOT NULL,
			title TEXT NOT NULL,
			first_seen TEXT NOT NULL,
			PRIMARY KEY (listing_url, title)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_run ON records(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RunInfo is a run history listing entry.
type RunInfo struct {
	ID                int64               `json:"id" yaml:"id"`
	CreatedAt         time.Time           `json:"created_at" yaml:"created_at"`
	Request           types.SearchRequest `json:"request" yaml:"request"`
	Records           int                 `json:"records" yaml:"records"`
	DuplicatesRemoved int                 `json:"duplicates_removed" yaml:"duplicates_removed"`
}

// SaveRun persists a completed run and returns its id. Every stored
// record is also upserted into the seen table; the count of listings not
// seen before is returned alongside.
func (s *Store) SaveRun(ctx context.Context, result types.RunResult) (id int64, newListings int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	reqJSON, err := json.Marshal(result.Request)
	if err != nil {
		return 0, 0, fmt.Errorf("marshaling request: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (created_at, request, duplicates_removed) VALUES (?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), string(reqJSON), result.DuplicatesRemoved,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, 0, fmt.Errorf("reading run id: %w", err)
	}

	for i, rep := range result.Reports {
		repJSON, err := json.Marshal(rep)
		if err != nil {
			return 0, 0, fmt.Errorf("marshaling report for %s: %w", rep.Employer, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO reports (run_id, position, report) VALUES (?, ?, ?)`,
			id, i, string(repJSON),
		); err != nil {
			return 0, 0, fmt.Errorf("inserting report: %w", err)
		}
	}

	recStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (run_id, position, listing_url, title, record) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, 0, fmt.Errorf("preparing record insert: %w", err)
	}
	defer recStmt.Close()

	seenStmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO seen (listing_url, title, first_seen) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, 0, fmt.Errorf("preparing seen insert: %w", err)
	}
	defer seenStmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for i, r := range result.Records {
		recJSON, err := json.Marshal(r)
		if err != nil {
			return 0, 0, fmt.Errorf("marshaling record %q: %w", r.Title, err)
		}
		if _, err := recStmt.ExecContext(ctx, id, i, r.ListingURL, r.Title, string(recJSON)); err != nil {
			return 0, 0, fmt.Errorf("inserting record: %w", err)
		}
		res, err := seenStmt.ExecContext(ctx, r.ListingURL, r.Title, now)
		if err != nil {
			return 0, 0, fmt.Errorf("updating seen table: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			newListings += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("committing run: %w", err)
	}
	return id, newListings, nil
}

// GetRun loads a stored run by id.
func (s *Store) GetRun(ctx context.Context, id int64) (types.RunResult, error) {
	var result types.RunResult
	var reqJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT request, duplicates_removed FROM runs WHERE id = ?`, id,
	).Scan(&reqJSON, &result.DuplicatesRemoved)
	if err == sql.ErrNoRows {
		return types.RunResult{}, fmt.Errorf("run %d not found", id)
	}
	if err != nil {
		return types.RunResult{}, fmt.Errorf("loading run %d: %w", id, err)
	}
	if err := json.Unmarshal([]byte(reqJSON), &result.Request); err != nil {
		return types.RunResult{}, fmt.Errorf("parsing stored request: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT report FROM reports WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return types.RunResult{}, fmt.Errorf("loading reports: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var repJSON string
		if err := rows.Scan(&repJSON); err != nil {
			return types.RunResult{}, fmt.Errorf("scanning report: %w", err)
		}
		var rep types.EmployerReport
		if err := json.Unmarshal([]byte(repJSON), &rep); err != nil {
			return types.RunResult{}, fmt.Errorf("parsing stored report: %w", err)
		}
		result.Reports = append(result.Reports, rep)
	}
	if err := rows.Err(); err != nil {
		return types.RunResult{}, fmt.Errorf("reading reports: %w", err)
	}

	recRows, err := s.db.QueryContext(ctx,
		`SELECT record FROM records WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return types.RunResult{}, fmt.Errorf("loading records: %w", err)
	}
	defer recRows.Close()
	for recRows.Next() {
		var recJSON string
		if err := recRows.Scan(&recJSON); err != nil {
			return types.RunResult{}, fmt.Errorf("scanning record: %w", err)
		}
		var rec types.JobRecord
		if err := json.Unmarshal([]byte(recJSON), &rec); err != nil {
			return types.RunResult{}, fmt.Errorf("parsing stored record: %w", err)
		}
		result.Records = append(result.Records, rec)
	}
	if err := recRows.Err(); err != nil {
		return types.RunResult{}, fmt.Errorf("reading records: %w", err)
	}

	return result, nil
}

// ListRuns returns run history entries, newest first. A non-positive
// limit returns everything.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunInfo, error) {
	query := `SELECT r.id, r.created_at, r.request, r.duplicates_removed,
			(SELECT count(*) FROM records WHERE run_id = r.id)
		FROM runs r ORDER BY r.id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var infos []RunInfo
	for rows.Next() {
		var info RunInfo
		var createdAt, reqJSON string
		if err := rows.Scan(&info.ID, &createdAt, &reqJSON, &info.DuplicatesRemoved, &info.Records); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if info.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parsing run timestamp: %w", err)
		}
		if err := json.Unmarshal([]byte(reqJSON), &info.Request); err != nil {
			return nil, fmt.Errorf("parsing stored request: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// SaveScores attaches relevance scores to a stored run, replacing any
// earlier scoring of the same run.
func (s *Store) SaveScores(ctx context.Context, runID int64, scored []types.ScoredRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM scores WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("clearing old scores: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO scores (run_id, listing_url, title, score) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing score insert: %w", err)
	}
	defer stmt.Close()

	for _, sr := range scored {
		scoreJSON, err := json.Marshal(sr.Relevance)
		if err != nil {
			return fmt.Errorf("marshaling score for %q: %w", sr.Record.Title, err)
		}
		if _, err := stmt.ExecContext(ctx, runID, sr.Record.ListingURL, sr.Record.Title, string(scoreJSON)); err != nil {
			return fmt.Errorf("inserting score: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing scores: %w", err)
	}
	return nil
}

// GetScores loads a run's records with their stored relevance scores,
// highest score first. Records never scored are omitted.
func (s *Store) GetScores(ctx context.Context, runID int64) ([]types.ScoredRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.record, sc.score
		 FROM scores sc
		 JOIN records r ON r.run_id = sc.run_id
			AND r.listing_url = sc.listing_url AND r.title = sc.title
		 WHERE sc.run_id = ?
		 ORDER BY json_extract(sc.score, '$.score') DESC, r.position`, runID)
	if err != nil {
		return nil, fmt.Errorf("loading scores: %w", err)
	}
	defer rows.Close()

	var scored []types.ScoredRecord
	for rows.Next() {
		var recJSON, scoreJSON string
		if err := rows.Scan(&recJSON, &scoreJSON); err != nil {
			return nil, fmt.Errorf("scanning score: %w", err)
		}
		var sr types.ScoredRecord
		if err := json.Unmarshal([]byte(recJSON), &sr.Record); err != nil {
			return nil, fmt.Errorf("parsing stored record: %w", err)
		}
		if err := json.Unmarshal([]byte(scoreJSON), &sr.Relevance); err != nil {
			return nil, fmt.Errorf("parsing stored score: %w", err)
		}
		scored = append(scored, sr)
	}
	return scored, rows.Err()
}

// Seen reports whether a listing was stored by any earlier run, and when
// it was first stored.
func (s *Store) Seen(ctx context.Context, record types.JobRecord) (bool, time.Time, error) {
	var firstSeen string
	err := s.db.QueryRowContext(ctx,
		`SELECT first_seen FROM seen WHERE listing_url = ? AND title = ?`,
		record.ListingURL, record.Title,
	).Scan(&firstSeen)
	if err == sql.ErrNoRows {
		return false, time.Time{}, nil
	}
	if err != nil {
		return false, time.Time{}, fmt.Errorf("querying seen table: %w", err)
	}
	t, err := time.Parse(time.RFC3339, firstSeen)
	if err != nil {
		return false, time.Time{}, fmt.Errorf("parsing seen timestamp: %w", err)
	}
	return true, t, nil
}

// PruneSeen removes seen entries first stored before the cutoff and
// returns the number removed.
func (s *Store) PruneSeen(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM seen WHERE first_seen < ?`, cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("pruning seen table: %w", err)
	}
	return res.RowsAffected()
}
