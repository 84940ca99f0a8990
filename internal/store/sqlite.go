package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/stellarlinkco/agent-bench/internal/bench"
)

const defaultListLimit = 50

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	insertRunStmt    *sql.Stmt
	insertResultStmt *sql.Stmt
	getRunStmt       *sql.Stmt
	listRunsStmt     *sql.Stmt
	resultsByRunStmt *sql.Stmt
}

// NewSQLiteStore opens or creates a SQLite store at the given path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("store: empty sqlite path")
	}
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("store: create sqlite dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping sqlite: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	st := &SQLiteStore{db: db}
	if err := st.prepareStatements(); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON`,
		`PRAGMA journal_mode = WAL`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			total_samples INTEGER NOT NULL,
			average_score REAL NOT NULL,
			accuracy REAL NOT NULL,
			by_dataset_json TEXT,
			config_json TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS run_results (
			run_id TEXT NOT NULL,
			idx INTEGER NOT NULL,
			dataset TEXT NOT NULL,
			question TEXT NOT NULL,
			ground_truth TEXT NOT NULL,
			prediction TEXT NOT NULL,
			rationale TEXT NOT NULL,
			score REAL NOT NULL,
			metadata_json TEXT,
			PRIMARY KEY (run_id, idx),
			FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_results_run_id ON run_results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("store: init schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) prepareStatements() error {
	if s == nil || s.db == nil {
		return errors.New("store: nil sqlite store")
	}

	ctx := context.Background()
	type stmtSpec struct {
		dst    **sql.Stmt
		query  string
		errFmt string
	}

	specs := []stmtSpec{
		{
			dst: &s.insertRunStmt,
			query: `
				INSERT INTO runs (
					id, started_at, finished_at, total_samples, average_score, accuracy, by_dataset_json, config_json
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`,
			errFmt: "store: prepare insert run: %w",
		},
		{
			dst: &s.insertResultStmt,
			query: `
				INSERT INTO run_results (
					run_id, idx, dataset, question, ground_truth, prediction, rationale, score, metadata_json
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
			errFmt: "store: prepare insert result: %w",
		},
		{
			dst: &s.getRunStmt,
			query: `
				SELECT id, started_at, finished_at, total_samples, average_score, accuracy, by_dataset_json, config_json
				FROM runs WHERE id = ?
			`,
			errFmt: "store: prepare get run: %w",
		},
		{
			dst: &s.listRunsStmt,
			query: `
				SELECT id, started_at, finished_at, total_samples, average_score, accuracy, by_dataset_json, config_json
				FROM runs
				ORDER BY started_at DESC, id DESC
				LIMIT ?
			`,
			errFmt: "store: prepare list runs: %w",
		},
		{
			dst: &s.resultsByRunStmt,
			query: `
				SELECT dataset, question, ground_truth, prediction, rationale, score, metadata_json
				FROM run_results
				WHERE run_id = ?
				ORDER BY idx ASC
			`,
			errFmt: "store: prepare results by run: %w",
		},
	}

	for _, spec := range specs {
		stmt, err := s.db.PrepareContext(ctx, spec.query)
		if err != nil {
			return fmt.Errorf(spec.errFmt, err)
		}
		*spec.dst = stmt
	}

	return nil
}

// Close releases database resources.
func (s *SQLiteStore) Close() error {
	if s == nil {
		return nil
	}
	stmts := []*sql.Stmt{
		s.insertRunStmt,
		s.insertResultStmt,
		s.getRunStmt,
		s.listRunsStmt,
		s.resultsByRunStmt,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun persists a run summary and its detailed results in one
// transaction. Result rows keep their input index so reads preserve order.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *RunRecord, results []bench.EvalResult) error {
	if s == nil {
		return errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return errors.New("store: nil context")
	}
	if run == nil {
		return errors.New("store: nil run")
	}

	id := strings.TrimSpace(run.ID)
	if id == "" {
		return errors.New("store: empty run id")
	}
	if run.StartedAt.IsZero() || run.FinishedAt.IsZero() {
		return errors.New("store: missing run timestamps")
	}

	byDatasetJSON, err := marshalOrNull(run.ByDataset)
	if err != nil {
		return fmt.Errorf("store: marshal by_dataset: %w", err)
	}
	cfgJSON, err := marshalOrNull(run.Config)
	if err != nil {
		return fmt.Errorf("store: marshal run config: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin run tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	runStmt := tx.StmtContext(ctx, s.insertRunStmt)
	defer runStmt.Close()

	_, err = runStmt.ExecContext(
		ctx,
		id,
		run.StartedAt.UTC().UnixMilli(),
		run.FinishedAt.UTC().UnixMilli(),
		run.TotalSamples,
		run.AverageScore,
		run.Accuracy,
		byDatasetJSON,
		cfgJSON,
	)
	if err != nil {
		return fmt.Errorf("store: insert run: %w", err)
	}

	resultStmt := tx.StmtContext(ctx, s.insertResultStmt)
	defer resultStmt.Close()

	for i := range results {
		r := &results[i]
		metaJSON, err := marshalOrNull(r.Metadata)
		if err != nil {
			return fmt.Errorf("store: marshal result metadata: %w", err)
		}
		_, err = resultStmt.ExecContext(
			ctx,
			id,
			i,
			r.Dataset,
			r.Question,
			r.GroundTruth,
			r.Prediction,
			r.Rationale,
			r.Score,
			metaJSON,
		)
		if err != nil {
			return fmt.Errorf("store: insert result %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit run: %w", err)
	}
	return nil
}

// GetRun returns one run summary by id.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("store: empty run id")
	}

	row := s.getRunStmt.QueryRowContext(ctx, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: run %q: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*RunRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.listRunsStmt.QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var out []*RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	return out, nil
}

// GetRunResults returns a run's detailed results in input order.
func (s *SQLiteStore) GetRunResults(ctx context.Context, runID string) ([]bench.EvalResult, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return nil, errors.New("store: empty run id")
	}

	rows, err := s.resultsByRunStmt.QueryContext(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("store: get run results: %w", err)
	}
	defer rows.Close()

	var out []bench.EvalResult
	for rows.Next() {
		var (
			r        bench.EvalResult
			metaJSON sql.NullString
		)
		if err := rows.Scan(&r.Dataset, &r.Question, &r.GroundTruth, &r.Prediction, &r.Rationale, &r.Score, &metaJSON); err != nil {
			return nil, fmt.Errorf("store: scan result: %w", err)
		}
		if metaJSON.Valid && metaJSON.String != "" && metaJSON.String != "null" {
			if err := json.Unmarshal([]byte(metaJSON.String), &r.Metadata); err != nil {
				return nil, fmt.Errorf("store: parse result metadata: %w", err)
			}
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: get run results: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var (
		run           RunRecord
		startedAt     int64
		finishedAt    int64
		byDatasetJSON sql.NullString
		cfgJSON       sql.NullString
	)
	err := row.Scan(
		&run.ID,
		&startedAt,
		&finishedAt,
		&run.TotalSamples,
		&run.AverageScore,
		&run.Accuracy,
		&byDatasetJSON,
		&cfgJSON,
	)
	if err != nil {
		return nil, err
	}

	run.StartedAt = time.UnixMilli(startedAt).UTC()
	run.FinishedAt = time.UnixMilli(finishedAt).UTC()

	if byDatasetJSON.Valid && byDatasetJSON.String != "" && byDatasetJSON.String != "null" {
		if err := json.Unmarshal([]byte(byDatasetJSON.String), &run.ByDataset); err != nil {
			return nil, fmt.Errorf("parse by_dataset: %w", err)
		}
	}
	if cfgJSON.Valid && cfgJSON.String != "" && cfgJSON.String != "null" {
		if err := json.Unmarshal([]byte(cfgJSON.String), &run.Config); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	return &run, nil
}

func marshalOrNull(v any) (string, error) {
	if v == nil {
		return "null", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
