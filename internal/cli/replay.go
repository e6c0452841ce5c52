package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/egraph-go/egraph/internal/journal"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Session  string // optional - specific session only
}

// ReplaySessionResult holds the replay outcome for a single session.
type ReplaySessionResult struct {
	Session     string `json:"session"`
	Script      string `json:"script"`
	Sealed      bool   `json:"sealed"`
	Ops         int    `json:"ops"`
	Classes     int    `json:"classes"`
	Fingerprint string `json:"fingerprint"`
	Verified    bool   `json:"verified"`
	Divergence  string `json:"divergence,omitempty"`
}

// ReplayResult holds the overall replay outcome.
type ReplayResult struct {
	Sessions    []ReplaySessionResult `json:"sessions"`
	AllVerified bool                  `json:"all_verified"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay journaled sessions and verify determinism",
		Long: `Replay journaled sessions against fresh graphs and verify each recorded
result, including the sealed fingerprint.

The graph is deterministic, so a divergence means the journal was tampered
with or the engine changed behavior between recording and replay.

Exit codes:
  0 - All sessions replayed identically
  1 - At least one session diverged
  2 - Command error (database not found, unknown session, etc.)

Examples:
  egraph replay --db ./journal.db
  egraph replay --db ./journal.db --session 0190-a2b4-...
  egraph replay --db ./journal.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "replay a specific session only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := journal.Open(opts.Database)
	if err != nil {
		formatter.Error(ErrCodeJournal, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer store.Close()

	var sessions []journal.SessionInfo
	if opts.Session != "" {
		info, err := store.GetSession(ctx, opts.Session)
		if err != nil {
			formatter.Error(ErrCodeJournal, err.Error(), nil)
			return WrapExitError(ExitCommandError, "unknown session", err)
		}
		sessions = []journal.SessionInfo{info}
	} else {
		sessions, err = store.ListSessions(ctx)
		if err != nil {
			formatter.Error(ErrCodeJournal, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
	}

	result := ReplayResult{
		Sessions:    make([]ReplaySessionResult, 0, len(sessions)),
		AllVerified: true,
	}

	for _, info := range sessions {
		sr, err := replaySession(ctx, store, info, formatter)
		if err != nil {
			formatter.Error(ErrCodeJournal, err.Error(), nil)
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay session %s", info.Token), err)
		}
		if !sr.Verified {
			result.AllVerified = false
		}
		result.Sessions = append(result.Sessions, sr)
	}

	if err := outputReplay(formatter, result); err != nil {
		return err
	}

	if !result.AllVerified {
		return NewExitError(ExitFailure, "replay divergence detected")
	}
	return nil
}

// replaySession replays one session. Divergence is an outcome, not an
// error; only infrastructure failures propagate.
func replaySession(ctx context.Context, store *journal.Store, info journal.SessionInfo, f *OutputFormatter) (ReplaySessionResult, error) {
	sr := ReplaySessionResult{
		Session: info.Token,
		Script:  info.ScriptName,
		Sealed:  info.Sealed,
	}

	ops, err := store.ReadOps(ctx, info.Token)
	if err != nil {
		return sr, err
	}
	sr.Ops = len(ops)

	f.VerboseLog("replaying session %s (%d ops)", info.Token, len(ops))

	g, err := store.Replay(ctx, info.Token)
	if err != nil {
		if journal.IsDivergence(err) {
			sr.Divergence = err.Error()
			return sr, nil
		}
		return sr, err
	}

	sr.Classes = g.CanonicalCount()
	sr.Fingerprint = g.Fingerprint()
	sr.Verified = true
	return sr, nil
}

func outputReplay(f *OutputFormatter, result ReplayResult) error {
	if f.Format == "json" {
		return f.Success(result)
	}

	if len(result.Sessions) == 0 {
		fmt.Fprintln(f.Writer, "No sessions found in journal.")
		return nil
	}

	for _, sr := range result.Sessions {
		if sr.Verified {
			fmt.Fprintf(f.Writer, "OK   %s  %s  %d ops, %d classes, fingerprint %s\n",
				sr.Session, sr.Script, sr.Ops, sr.Classes, sr.Fingerprint)
		} else {
			fmt.Fprintf(f.Writer, "FAIL %s  %s  %s\n", sr.Session, sr.Script, sr.Divergence)
		}
	}
	return nil
}
