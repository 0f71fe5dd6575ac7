package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/flatkey/internal/doc"
	"github.com/roach88/flatkey/internal/emit"
	"github.com/roach88/flatkey/internal/store"
)

// ResolveOptions holds flags for the resolve command.
type ResolveOptions struct {
	*RootOptions
	Match     string
	EnvPrefix string
	EnvFile   string
	Database  string
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "resolve <file>...",
		Short: "Merge, flatten, and resolve documents",
		Long: `Merge one or more documents (later files override earlier ones),
flatten the result into dotted key-paths, resolve $(name) references, and
emit the final key/value pairs.

Example:
  flatkey resolve base.yaml prod.yaml
  flatkey resolve config.yaml --match '^prod\.' --env-prefix APP --env-file .env
  flatkey resolve config.cue --db ./history.db`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Match, "match", "", "only emit keys matching this pattern; the matched text is stripped from the key")
	cmd.Flags().StringVar(&opts.EnvPrefix, "env-prefix", "", "derive environment variable names with this prefix")
	cmd.Flags().StringVar(&opts.EnvFile, "env-file", "", "write derived NAME=value lines to this file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite history database")

	return cmd
}

func runResolve(opts *ResolveOptions, paths []string, cmd *cobra.Command) error {
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	result, err := runPipeline(paths, opts.Match, opts.EnvPrefix, logger)
	if err != nil {
		formatter := &OutputFormatter{
			Format:    opts.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   opts.Verbose,
		}
		_ = formatter.Error(ErrorCode(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "resolution failed", err)
	}

	// Assemble sinks. Everything below this point sees only a fully
	// resolved, filtered run.
	writer := emit.NewWriter(opts.Format, cmd.OutOrStdout(), logger)
	sinks := emit.Multi{writer}

	var envFile *emit.EnvFile
	if opts.EnvFile != "" {
		envFile = emit.NewEnvFile(opts.EnvFile)
		sinks = append(sinks, envFile)
	}

	var recorder *store.Recorder
	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open history database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing history database", "error", closeErr)
			}
		}()
		recorder = store.NewRecorder(st, logger)
		sinks = append(sinks, recorder)
	}

	sinks.Info("emitting resolved outputs", "keys", len(result.Entries), "snapshot", result.Hash)
	for _, entry := range result.Entries {
		if err := sinks.SetOutput(entry.Key, entry.Value); err != nil {
			return WrapExitError(ExitCommandError, "emitting output", err)
		}
		if entry.EnvKey != "" {
			if err := sinks.ExportEnv(entry.EnvKey, doc.StringForm(entry.Value)); err != nil {
				return WrapExitError(ExitCommandError, "exporting env", err)
			}
		}
	}

	if err := writer.Flush(); err != nil {
		return WrapExitError(ExitCommandError, "writing output", err)
	}
	if envFile != nil {
		if err := envFile.Flush(); err != nil {
			return WrapExitError(ExitCommandError, "writing env file", err)
		}
		logger.Debug("env file written", "path", opts.EnvFile)
	}
	if recorder != nil {
		run, err := recorder.Commit(cmd.Context(), paths, result.Hash)
		if err != nil {
			return WrapExitError(ExitCommandError, "recording run", err)
		}
		logger.Info("run recorded", "id", run.ID, "keys", run.KeyCount)
	}

	return nil
}
