package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidationResult holds validation results for JSON output.
type ValidationResult struct {
	Valid        bool     `json:"valid"`
	Keys         int      `json:"keys"`
	Sources      []string `json:"sources"`
	SnapshotHash string   `json:"snapshot_hash,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Resolve documents without emitting outputs",
		Long: `Run the full merge-flatten-resolve pipeline and report whether it
succeeds, without emitting any key/value pairs. Catches syntax errors,
undefined $(name) references, and malformed filter patterns.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Match, "match", "", "also validate this key filter pattern")
	cmd.Flags().StringVar(&opts.EnvPrefix, "env-prefix", "", "also derive environment variable names")

	return cmd
}

func runValidate(opts *ResolveOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	result, err := runPipeline(paths, opts.Match, opts.EnvPrefix, logger)
	if err != nil {
		_ = formatter.Error(ErrorCode(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "validation failed", err)
	}

	if opts.Format == "json" {
		return formatter.Success(ValidationResult{
			Valid:        true,
			Keys:         result.Resolved.Len(),
			Sources:      paths,
			SnapshotHash: result.Hash,
		})
	}

	formatter.VerboseLog("snapshot hash: %s", result.Hash)
	noun := "documents"
	if len(paths) == 1 {
		noun = "document"
	}
	return formatter.Success(fmt.Sprintf("%d %s valid, %d keys resolved", len(paths), noun, result.Resolved.Len()))
}
