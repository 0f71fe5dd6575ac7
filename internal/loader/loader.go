// Package loader reads configuration documents from disk and parses them
// into doc.Value trees. YAML (and JSON, which YAML subsumes) and CUE
// sources are supported; the syntax is chosen by file extension.
package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/flatkey/internal/doc"
)

// Error code constants for load failures.
const (
	ErrCodeNotFound    = "E101" // Source file missing
	ErrCodeRead        = "E102" // Source file unreadable
	ErrCodeSyntax      = "E103" // Document syntax invalid
	ErrCodeUnsupported = "E104" // Unrecognized file extension
	ErrCodeRootKind    = "E105" // Document root is not a mapping
)

// LoadError represents a failure to read or parse a source document.
type LoadError struct {
	Code    string
	Path    string
	Message string
	Err     error // underlying cause (optional)
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadFile reads and parses one source file. A YAML file may contain
// multiple documents separated by "---"; each becomes one tree, in file
// order. CUE files always yield exactly one tree.
//
// Every returned tree is rooted at a mapping - scalar- or sequence-rooted
// documents are rejected, since only mappings can be merged and flattened.
func LoadFile(path string) ([]doc.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "source file not found", Err: err}
		}
		return nil, &LoadError{Code: ErrCodeRead, Path: path, Message: fmt.Sprintf("reading source: %v", err), Err: err}
	}

	var trees []doc.Value
	switch filepath.Ext(path) {
	case ".yaml", ".yml", ".json":
		trees, err = decodeYAML(path, data)
	case ".cue":
		var tree doc.Value
		tree, err = decodeCUE(path, data)
		if tree != nil {
			trees = []doc.Value{tree}
		}
	default:
		return nil, &LoadError{
			Code:    ErrCodeUnsupported,
			Path:    path,
			Message: fmt.Sprintf("unsupported extension %q (want .yaml, .yml, .json, or .cue)", filepath.Ext(path)),
		}
	}
	if err != nil {
		return nil, err
	}

	for _, tree := range trees {
		if _, ok := tree.(*doc.Mapping); !ok {
			return nil, &LoadError{
				Code:    ErrCodeRootKind,
				Path:    path,
				Message: fmt.Sprintf("document root must be a mapping, got %T", tree),
			}
		}
	}
	return trees, nil
}

// LoadAll loads every path in order and returns the concatenated trees.
// Path order determines merge precedence, so it is preserved exactly.
// The first failing path aborts the load.
func LoadAll(paths []string) ([]doc.Value, error) {
	var trees []doc.Value
	for _, path := range paths {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		trees = append(trees, loaded...)
	}
	return trees, nil
}
