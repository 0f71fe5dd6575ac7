package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/flatkey/internal/doc"
)

// ListRuns returns recorded runs, most recent first (created_at DESC,
// id DESC as a deterministic tiebreaker - UUIDv7 ids sort by time).
// Returns an empty slice (not nil) when nothing is recorded.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, sources, snapshot_hash, key_count
		FROM runs
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun returns one run by id. Returns sql.ErrNoRows via the wrapped
// error when the id is unknown.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, sources, snapshot_hash, key_count
		FROM runs
		WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if err != nil {
		return Run{}, fmt.Errorf("get run %q: %w", id, err)
	}
	return run, nil
}

// ReadOutputs returns a run's outputs in their original emission order.
// Returns an empty slice (not nil) for an unknown or empty run.
func (s *Store) ReadOutputs(ctx context.Context, runID string) ([]Output, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pos, key, env_key, value
		FROM outputs
		WHERE run_id = ?
		ORDER BY pos ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query outputs: %w", err)
	}
	defer rows.Close()

	outputs := []Output{}
	for rows.Next() {
		var (
			out       Output
			envKey    sql.NullString
			valueJSON string
		)
		if err := rows.Scan(&out.Pos, &out.Key, &envKey, &valueJSON); err != nil {
			return nil, fmt.Errorf("scan output: %w", err)
		}
		if envKey.Valid {
			out.EnvKey = envKey.String
		}
		out.Value, err = doc.UnmarshalJSON([]byte(valueJSON))
		if err != nil {
			return nil, fmt.Errorf("decode output %q: %w", out.Key, err)
		}
		outputs = append(outputs, out)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outputs: %w", err)
	}
	return outputs, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanRun.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run         Run
		createdAt   string
		sourcesJSON string
	)
	if err := row.Scan(&run.ID, &createdAt, &sourcesJSON, &run.SnapshotHash, &run.KeyCount); err != nil {
		return Run{}, err
	}

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	run.CreatedAt = t

	if err := json.Unmarshal([]byte(sourcesJSON), &run.Sources); err != nil {
		return Run{}, fmt.Errorf("parse sources: %w", err)
	}
	return run, nil
}
