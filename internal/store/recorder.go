package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/flatkey/internal/doc"
)

// Recorder is an emit.Emitter adapter that buffers a run's outputs and
// writes them to the store in one transaction on Commit. Nothing reaches
// the database until Commit, so an aborted run leaves no trace.
type Recorder struct {
	store  *Store
	logger *slog.Logger

	outputs []Output
}

// NewRecorder creates a Recorder backed by the given store.
func NewRecorder(s *Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: s, logger: logger}
}

// SetOutput buffers one output pair in emission order.
func (r *Recorder) SetOutput(key string, value doc.Value) error {
	r.outputs = append(r.outputs, Output{
		Pos:   len(r.outputs),
		Key:   key,
		Value: value,
	})
	return nil
}

// ExportEnv attaches a derived env name to the most recently buffered
// output. Env derivation always follows its output pair in emission
// order, so the association is positional.
func (r *Recorder) ExportEnv(name, _ string) error {
	if len(r.outputs) == 0 {
		return fmt.Errorf("env export %q before any output", name)
	}
	r.outputs[len(r.outputs)-1].EnvKey = name
	return nil
}

// Info implements emit.Emitter.
func (r *Recorder) Info(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Info(msg, args...)
	}
}

// Commit writes the buffered run. The run id is a fresh UUIDv7 (so ids
// sort by creation time); the snapshot hash is supplied by the caller so
// the recorded identity matches what the pipeline computed.
// Returns the written run.
func (r *Recorder) Commit(ctx context.Context, sources []string, snapshotHash string) (Run, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Run{}, fmt.Errorf("commit run: generate id: %w", err)
	}

	run := Run{
		ID:           id.String(),
		CreatedAt:    time.Now().UTC(),
		Sources:      sources,
		SnapshotHash: snapshotHash,
		KeyCount:     len(r.outputs),
	}
	if err := r.store.WriteRun(ctx, run, r.outputs); err != nil {
		return Run{}, err
	}
	return run, nil
}
