package emit

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/flatkey/internal/doc"
)

// Writer emits key/value pairs to an io.Writer as either text or JSON.
//
// Text mode streams "key = value" lines as they arrive, with env exports
// rendered as "export NAME=value" lines after the outputs. JSON mode
// buffers everything and writes a single object on Flush, so the stream
// is valid JSON even with env exports present.
type Writer struct {
	Format string // "text" | "json"
	Out    io.Writer
	Logger *slog.Logger

	envLines []string
	outputs  []jsonPair
	envs     []jsonPair
}

type jsonPair struct {
	Key   string
	Value any
}

type jsonOutput struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// NewWriter creates a Writer for the given format.
func NewWriter(format string, out io.Writer, logger *slog.Logger) *Writer {
	return &Writer{Format: format, Out: out, Logger: logger}
}

// SetOutput implements Emitter.
func (w *Writer) SetOutput(key string, value doc.Value) error {
	if w.Format == "json" {
		w.outputs = append(w.outputs, jsonPair{Key: key, Value: jsonValue(value)})
		return nil
	}
	_, err := fmt.Fprintf(w.Out, "%s = %s\n", key, doc.StringForm(value))
	return err
}

// ExportEnv implements Emitter. Text-mode env lines are held back until
// Flush so outputs and exports are not interleaved.
func (w *Writer) ExportEnv(name, value string) error {
	if w.Format == "json" {
		w.envs = append(w.envs, jsonPair{Key: name, Value: value})
		return nil
	}
	w.envLines = append(w.envLines, fmt.Sprintf("export %s=%q\n", name, value))
	return nil
}

// Info implements Emitter.
func (w *Writer) Info(msg string, args ...any) {
	if w.Logger != nil {
		w.Logger.Info(msg, args...)
	}
}

// Flush writes any buffered output. Must be called once after emission
// completes; it is a no-op for a text-mode writer with no env exports.
func (w *Writer) Flush() error {
	if w.Format != "json" {
		for _, line := range w.envLines {
			if _, err := io.WriteString(w.Out, line); err != nil {
				return err
			}
		}
		w.envLines = nil
		return nil
	}

	// Outputs are an ordered list, not a map: a filter rewrite can leave
	// two entries with the same key, and both must appear. Env exports
	// name a shell namespace where the last writer wins, so a map is the
	// honest shape there.
	payload := struct {
		Outputs []jsonOutput   `json:"outputs"`
		Env     map[string]any `json:"env,omitempty"`
	}{
		Outputs: make([]jsonOutput, 0, len(w.outputs)),
	}
	for _, p := range w.outputs {
		payload.Outputs = append(payload.Outputs, jsonOutput{Key: p.Key, Value: p.Value})
	}
	if len(w.envs) > 0 {
		payload.Env = make(map[string]any, len(w.envs))
		for _, p := range w.envs {
			payload.Env[p.Key] = p.Value
		}
	}

	enc := json.NewEncoder(w.Out)
	return enc.Encode(payload)
}

// jsonValue converts a doc.Value into the shape encoding/json expects.
func jsonValue(v doc.Value) any {
	switch val := v.(type) {
	case doc.Null:
		return nil
	case doc.String:
		return string(val)
	case doc.Int:
		return int64(val)
	case doc.Float:
		return float64(val)
	case doc.Bool:
		return bool(val)
	case doc.Sequence:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = jsonValue(elem)
		}
		return out
	case *doc.Mapping:
		out := make(map[string]any, val.Len())
		for _, k := range val.Keys() {
			mv, _ := val.Get(k)
			out[k] = jsonValue(mv)
		}
		return out
	default:
		return nil
	}
}
