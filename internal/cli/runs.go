package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/flatkey/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string
}

// RunSummary is the JSON shape for one listed run.
type RunSummary struct {
	ID           string   `json:"id"`
	CreatedAt    string   `json:"created_at"`
	Sources      []string `json:"sources"`
	SnapshotHash string   `json:"snapshot_hash"`
	Keys         int      `json:"keys"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs",
		Long: `List runs recorded with "resolve --db", most recent first.

Runs with the same snapshot hash resolved to identical output.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite history database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open history database", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(cmd.Context())
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if opts.Format == "json" {
		summaries := make([]RunSummary, 0, len(runs))
		for _, run := range runs {
			summaries = append(summaries, runSummary(run))
		}
		return formatter.Success(summaries)
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
		return nil
	}
	for _, run := range runs {
		hash := run.SnapshotHash
		if len(hash) > 12 {
			hash = hash[:12]
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %3d keys  %s  %s\n",
			run.ID,
			run.CreatedAt.Format(time.RFC3339),
			run.KeyCount,
			hash,
			strings.Join(run.Sources, ","),
		)
	}
	return nil
}

func runSummary(run store.Run) RunSummary {
	return RunSummary{
		ID:           run.ID,
		CreatedAt:    run.CreatedAt.Format(time.RFC3339Nano),
		Sources:      run.Sources,
		SnapshotHash: run.SnapshotHash,
		Keys:         run.KeyCount,
	}
}
