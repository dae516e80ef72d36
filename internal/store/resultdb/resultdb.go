// Package resultdb persists classification runs to SQLite so successive
// preset runs over the same corpus can be compared offline.
package resultdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"

	"scenerank/internal/model"
)

// DB wraps the results database.
type DB struct{ sql *sql.DB }

func Open(path string) (*DB, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := d.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		return nil, err
	}
	db := &DB{sql: d}
	if err := db.migrate(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) Close() error { return d.sql.Close() }

func (d *DB) migrate() error {
	_, err := d.sql.Exec(`
	CREATE TABLE IF NOT EXISTS runs (
	  id INTEGER PRIMARY KEY AUTOINCREMENT,
	  ts INTEGER NOT NULL,
	  preset TEXT NOT NULL,
	  profiles INTEGER NOT NULL,
	  known INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS results (
	  run_id INTEGER NOT NULL REFERENCES runs(id),
	  username TEXT NOT NULL,
	  classified TEXT NOT NULL,
	  score REAL NOT NULL,
	  play_party REAL NOT NULL,
	  workshop REAL NOT NULL,
	  attendee REAL NOT NULL,
	  penalties REAL NOT NULL,
	  details TEXT,
	  reasons TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id, score DESC);
	`)
	return err
}

// SaveRun stores a run header and one result row per profile, returning
// the run id.
func (d *DB) SaveRun(ctx context.Context, ts time.Time, preset string, knownSize int, rows []model.Row) (int64, error) {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `INSERT INTO runs(ts, preset, profiles, known) VALUES(?,?,?,?)`,
		ts.Unix(), preset, len(rows), knownSize)
	if err != nil {
		return 0, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO results
	  (run_id, username, classified, score, play_party, workshop, attendee, penalties, details, reasons)
	  VALUES(?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, r := range rows {
		cb, _ := json.Marshal(r.Classified)
		db, _ := json.Marshal(r.Details)
		rb, _ := json.Marshal(r.Reasons)
		if _, err := stmt.ExecContext(ctx, runID, r.Username, string(cb), r.Score,
			r.Details.PlayParty, r.Details.Workshop, r.Details.Attendee, r.Details.Penalties,
			string(db), string(rb)); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// RunInfo is a stored run header.
type RunInfo struct {
	ID       int64
	TS       time.Time
	Preset   string
	Profiles int
	Known    int
}

// Runs lists stored runs, newest first.
func (d *DB) Runs(ctx context.Context) ([]RunInfo, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT id, ts, preset, profiles, known FROM runs ORDER BY ts DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RunInfo
	for rows.Next() {
		var r RunInfo
		var ts int64
		if err := rows.Scan(&r.ID, &ts, &r.Preset, &r.Profiles, &r.Known); err != nil {
			return nil, err
		}
		r.TS = time.Unix(ts, 0).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// TopRows returns up to limit rows of a run, score-descending.
func (d *DB) TopRows(ctx context.Context, runID int64, limit int) ([]model.Row, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT username, classified, score, details, reasons FROM results WHERE run_id=? ORDER BY score DESC LIMIT ?`,
		runID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Row
	for rows.Next() {
		var r model.Row
		var cb, db, rb string
		if err := rows.Scan(&r.Username, &cb, &r.Score, &db, &rb); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(cb), &r.Classified)
		_ = json.Unmarshal([]byte(db), &r.Details)
		_ = json.Unmarshal([]byte(rb), &r.Reasons)
		out = append(out, r)
	}
	return out, rows.Err()
}
