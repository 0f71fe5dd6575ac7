package cli

import (
	"fmt"
	"log/slog"

	"github.com/roach88/flatkey/internal/doc"
	"github.com/roach88/flatkey/internal/filter"
	"github.com/roach88/flatkey/internal/loader"
	"github.com/roach88/flatkey/internal/merge"
	"github.com/roach88/flatkey/internal/resolve"
)

// pipelineResult is the outcome of a successful load-merge-flatten-filter
// pass, before anything is emitted.
type pipelineResult struct {
	Entries  []filter.Entry
	Resolved *resolve.Resolved
	Hash     string // content-addressed snapshot hash of the resolved map
}

// runPipeline executes the core pipeline over the given sources. Source
// order is merge precedence: later documents override earlier ones.
// Any failure aborts before emission - callers only see entries from a
// fully successful pass.
func runPipeline(paths []string, pattern, envPrefix string, logger *slog.Logger) (*pipelineResult, error) {
	logger.Debug("loading sources", "count", len(paths))
	trees, err := loader.LoadAll(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("sources loaded", "documents", len(trees))

	merged := merge.Merge(trees...)
	root, ok := merged.(*doc.Mapping)
	if !ok {
		// The loader guarantees mapping roots, so this cannot happen
		// through LoadAll; guard for programmatic callers.
		return nil, fmt.Errorf("merged document root is %T, want mapping", merged)
	}

	result, err := resolve.Flatten(root)
	if err != nil {
		return nil, err
	}
	logger.Debug("document flattened", "keys", result.Resolved.Len(), "arrays", len(result.ArrayMarks))

	entries, err := filter.Apply(result.Resolved, pattern, envPrefix)
	if err != nil {
		return nil, err
	}

	hash, err := result.Resolved.Fingerprint()
	if err != nil {
		return nil, fmt.Errorf("computing snapshot hash: %w", err)
	}

	return &pipelineResult{
		Entries:  entries,
		Resolved: result.Resolved,
		Hash:     hash,
	}, nil
}
