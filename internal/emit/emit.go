// Package emit defines the output capability the pipeline hands its final
// key/value pairs to, plus the built-in sinks: a text/JSON stream writer,
// an env-file writer, and a fan-out combinator.
//
// Emission is whole-or-nothing: the pipeline invokes an Emitter only after
// the full resolved map and filter pass have succeeded, so sinks never see
// partial output from a failed run.
package emit

import (
	"github.com/roach88/flatkey/internal/doc"
)

// Emitter receives final key/value pairs in resolved-map order.
type Emitter interface {
	// SetOutput records one output pair. Calls arrive in emission order.
	SetOutput(key string, value doc.Value) error

	// ExportEnv records a derived environment variable. Called once per
	// output pair when env derivation is configured, in the same order.
	ExportEnv(name, value string) error

	// Info reports pipeline progress. args are slog-style key/value
	// pairs.
	Info(msg string, args ...any)
}

// Multi fans out to several emitters in order. The first error from any
// sink aborts the fan-out.
type Multi []Emitter

func (m Multi) SetOutput(key string, value doc.Value) error {
	for _, e := range m {
		if err := e.SetOutput(key, value); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) ExportEnv(name, value string) error {
	for _, e := range m {
		if err := e.ExportEnv(name, value); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Info(msg string, args ...any) {
	for _, e := range m {
		e.Info(msg, args...)
	}
}
