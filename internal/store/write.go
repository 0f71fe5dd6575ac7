package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/flatkey/internal/doc"
)

// Run identifies one recorded resolution.
type Run struct {
	ID           string
	CreatedAt    time.Time
	Sources      []string
	SnapshotHash string
	KeyCount     int
}

// Output is one emitted key/value pair within a run.
type Output struct {
	Pos    int
	Key    string
	EnvKey string // "" when no env name was derived
	Value  doc.Value
}

// WriteRun inserts a run and its outputs in a single transaction.
// Values are serialized to canonical JSON. Uses ON CONFLICT(id) DO NOTHING
// for idempotency - re-writing an existing run id is silently ignored.
func (s *Store) WriteRun(ctx context.Context, run Run, outputs []Output) error {
	sourcesJSON, err := json.Marshal(run.Sources)
	if err != nil {
		return fmt.Errorf("write run: marshal sources: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, sources, snapshot_hash, key_count)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
		string(sourcesJSON),
		run.SnapshotHash,
		run.KeyCount,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Run id already recorded; outputs are immutable, nothing to do.
		return tx.Commit()
	}

	for _, out := range outputs {
		valueJSON, err := doc.MarshalCanonical(out.Value)
		if err != nil {
			return fmt.Errorf("write run: marshal output %q: %w", out.Key, err)
		}
		var envKey sql.NullString
		if out.EnvKey != "" {
			envKey = sql.NullString{String: out.EnvKey, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO outputs (run_id, pos, key, env_key, value)
			VALUES (?, ?, ?, ?, ?)
		`, run.ID, out.Pos, out.Key, envKey, string(valueJSON)); err != nil {
			return fmt.Errorf("write run: output %q: %w", out.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}
	return nil
}
