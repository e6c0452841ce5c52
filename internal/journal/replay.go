package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/egraph-go/egraph/internal/egraph"
)

// DivergenceError reports a replay that did not reproduce the recorded run.
// The graph is deterministic, so any divergence means the journal and the
// engine disagree, which must surface loudly rather than be papered over.
type DivergenceError struct {
	// Session is the affected session token.
	Session string

	// Seq is the op at which replay diverged, 0 for a final
	// fingerprint mismatch.
	Seq int64

	// Message describes the divergence.
	Message string
}

// Error implements the error interface.
func (e *DivergenceError) Error() string {
	if e.Seq > 0 {
		return fmt.Sprintf("replay diverged at op %d (session=%s): %s", e.Seq, e.Session, e.Message)
	}
	return fmt.Sprintf("replay diverged (session=%s): %s", e.Session, e.Message)
}

// IsDivergence returns true if the error is a replay divergence.
// Uses errors.As to handle wrapped errors.
func IsDivergence(err error) bool {
	var de *DivergenceError
	return errors.As(err, &de)
}

// Replay reconstructs a session's graph by reapplying its ops in seq order.
//
// Every op's recorded result is checked against the id the fresh graph
// actually produces, and for a sealed session the final fingerprint is
// checked too. The returned graph is rebuilt (congruence-closed) on success.
func (s *Store) Replay(ctx context.Context, token string) (*egraph.Graph, error) {
	info, err := s.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}

	ops, err := s.ReadOps(ctx, token)
	if err != nil {
		return nil, err
	}

	g := egraph.New()
	for _, op := range ops {
		switch op.Kind {
		case OpAdd:
			id, err := g.Add(op.Symbol, op.Children)
			if err != nil {
				return nil, &DivergenceError{
					Session: token,
					Seq:     op.Seq,
					Message: fmt.Sprintf("add %s: %v", op.Symbol, err),
				}
			}
			if id != op.Result {
				return nil, &DivergenceError{
					Session: token,
					Seq:     op.Seq,
					Message: fmt.Sprintf("add %s produced id %d, journal has %d", op.Symbol, id, op.Result),
				}
			}
		case OpMerge:
			root, err := g.Merge(op.A, op.B)
			if err != nil {
				return nil, &DivergenceError{
					Session: token,
					Seq:     op.Seq,
					Message: fmt.Sprintf("merge %d %d: %v", op.A, op.B, err),
				}
			}
			if root != op.Result {
				return nil, &DivergenceError{
					Session: token,
					Seq:     op.Seq,
					Message: fmt.Sprintf("merge %d %d produced root %d, journal has %d", op.A, op.B, root, op.Result),
				}
			}
		case OpRebuild:
			g.Rebuild()
		default:
			return nil, &DivergenceError{
				Session: token,
				Seq:     op.Seq,
				Message: fmt.Sprintf("unknown op kind %q", op.Kind),
			}
		}
	}

	g.Rebuild()

	if info.Sealed {
		if fp := g.Fingerprint(); fp != info.Fingerprint {
			return nil, &DivergenceError{
				Session: token,
				Message: fmt.Sprintf("fingerprint %s does not match sealed %s", fp, info.Fingerprint),
			}
		}
	}

	return g, nil
}
