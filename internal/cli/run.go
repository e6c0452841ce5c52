package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/egraph-go/egraph/internal/egraph"
	"github.com/egraph-go/egraph/internal/journal"
	"github.com/egraph-go/egraph/internal/script"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	Dump     bool

	// TokenGenerator allows overriding the session token generator (for
	// testing). If nil, defaults to UUIDv7Generator.
	TokenGenerator journal.TokenGenerator
}

// RunResult holds the executed script's outcome.
type RunResult struct {
	Script      string           `json:"script"`
	Session     string           `json:"session,omitempty"`
	Classes     int              `json:"classes"`
	Fingerprint string           `json:"fingerprint"`
	Passed      bool             `json:"passed"`
	Failures    []script.Failure `json:"failures,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <script.yaml>",
		Short: "Execute a script against a fresh graph",
		Long: `Execute a script against a fresh e-graph and evaluate its assertions.

With --db, every operation is journaled under a new session token and the
session is sealed with the final graph fingerprint, so the run can later be
verified with replay.

Exit codes:
  0 - Script executed and all assertions held
  1 - One or more assertions failed
  2 - Command error (script unreadable, journal unavailable, etc.)

Examples:
  egraph run examples/kleene.yaml
  egraph run --db ./journal.db examples/kleene.yaml
  egraph run examples/kleene.yaml --dump --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (optional; enables recording)")
	cmd.Flags().BoolVar(&opts.Dump, "dump", false, "print the canonical graph dump after execution")

	return cmd
}

func runScript(opts *RunOptions, path string, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	s, err := script.Load(path)
	if err != nil {
		formatter.Error(ErrCodeLoad, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load script", err)
	}
	slog.Info("script loaded", "name", s.Name, "steps", len(s.Steps))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var rec script.Recorder
	var sess *journal.Session
	if opts.Database != "" {
		store, err := journal.Open(opts.Database)
		if err != nil {
			formatter.Error(ErrCodeJournal, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer store.Close()

		gen := opts.TokenGenerator
		if gen == nil {
			gen = journal.UUIDv7Generator{}
		}
		sess, err = store.Begin(ctx, s.Name, gen)
		if err != nil {
			formatter.Error(ErrCodeJournal, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to begin session", err)
		}
		slog.Info("recording session", "token", sess.Token())
		rec = sess
	}

	g := egraph.New()
	res, err := script.Execute(ctx, s, g, rec)
	if err != nil {
		formatter.Error(ErrCodeExecution, err.Error(), nil)
		return WrapExitError(ExitCommandError, "script execution failed", err)
	}

	if sess != nil {
		if err := sess.Seal(ctx, res.Fingerprint); err != nil {
			formatter.Error(ErrCodeJournal, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to seal session", err)
		}
	}

	out := RunResult{
		Script:      s.Name,
		Classes:     res.Classes,
		Fingerprint: res.Fingerprint,
		Passed:      res.Passed(),
		Failures:    res.Failures,
	}
	if sess != nil {
		out.Session = sess.Token()
	}

	if err := outputRun(formatter, out, g, opts.Dump); err != nil {
		return err
	}

	if !res.Passed() {
		return NewExitError(ExitFailure, fmt.Sprintf("%d assertion(s) failed", len(res.Failures)))
	}
	return nil
}

func outputRun(f *OutputFormatter, out RunResult, g *egraph.Graph, dump bool) error {
	if f.Format == "json" {
		return f.Success(out)
	}

	fmt.Fprintf(f.Writer, "script %s: %d canonical classes, fingerprint %s\n",
		out.Script, out.Classes, out.Fingerprint)
	if out.Session != "" {
		fmt.Fprintf(f.Writer, "recorded session %s\n", out.Session)
	}
	for _, failure := range out.Failures {
		fmt.Fprintf(f.Writer, "FAIL [%s]: %s\n", failure.Assertion, failure.Message)
	}
	if out.Passed {
		fmt.Fprintln(f.Writer, "all assertions passed")
	}
	if dump {
		fmt.Fprint(f.Writer, g.Dump())
	}
	return nil
}

// configureLogging routes slog to stderr at a level matching --verbose.
func configureLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
