package cli

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/flatkey/internal/doc"
	"github.com/roach88/flatkey/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
}

// ShowResult is the JSON shape for a displayed run.
type ShowResult struct {
	Run     RunSummary   `json:"run"`
	Outputs []ShowOutput `json:"outputs"`
}

// ShowOutput is one output pair of a displayed run.
type ShowOutput struct {
	Key    string `json:"key"`
	EnvKey string `json:"env_key,omitempty"`
	Value  string `json:"value"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print a recorded run's outputs",
		Long: `Print one recorded run's key/value pairs in their original emission
order, as stored by "resolve --db".`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite history database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runShow(opts *ShowOptions, runID string, cmd *cobra.Command) error {
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

	run, err := st.GetRun(cmd.Context(), runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			_ = formatter.Error(ErrCodeRunNotFound, fmt.Sprintf("run %q not found", runID), nil)
			return NewExitError(ExitCommandError, "run not found")
		}
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	outputs, err := st.ReadOutputs(cmd.Context(), runID)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read outputs", err)
	}

	if opts.Format == "json" {
		result := ShowResult{Run: runSummary(run), Outputs: make([]ShowOutput, 0, len(outputs))}
		for _, out := range outputs {
			result.Outputs = append(result.Outputs, ShowOutput{
				Key:    out.Key,
				EnvKey: out.EnvKey,
				Value:  doc.StringForm(out.Value),
			})
		}
		return formatter.Success(result)
	}

	formatter.VerboseLog("run %s (%d keys, snapshot %s)", run.ID, run.KeyCount, run.SnapshotHash)
	for _, out := range outputs {
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", out.Key, doc.StringForm(out.Value))
	}
	return nil
}
