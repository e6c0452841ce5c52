package harness

import (
	"context"
	"fmt"

	"github.com/egraph-go/egraph/internal/journal"
	"github.com/egraph-go/egraph/internal/term"
)

// TraceEvent is one captured operation.
type TraceEvent struct {
	Seq    int64
	Kind   journal.OpKind
	Node   term.Node // add only
	A, B   term.ID   // merge only
	Result term.ID
}

// String renders the event as one trace line.
func (e TraceEvent) String() string {
	switch e.Kind {
	case journal.OpAdd:
		return fmt.Sprintf("%d add %s -> %d", e.Seq, e.Node, e.Result)
	case journal.OpMerge:
		return fmt.Sprintf("%d merge %d %d -> %d", e.Seq, e.A, e.B, e.Result)
	default:
		return fmt.Sprintf("%d rebuild", e.Seq)
	}
}

// traceRecorder implements script.Recorder, capturing ops in memory with
// seqs from a logical clock.
type traceRecorder struct {
	clock  *journal.Clock
	events []TraceEvent
}

func newTraceRecorder() *traceRecorder {
	return &traceRecorder{clock: journal.NewClock()}
}

func (r *traceRecorder) RecordAdd(_ context.Context, symbol string, children []term.ID, result term.ID) error {
	r.events = append(r.events, TraceEvent{
		Seq:    r.clock.Next(),
		Kind:   journal.OpAdd,
		Node:   term.New(symbol, children),
		Result: result,
	})
	return nil
}

func (r *traceRecorder) RecordMerge(_ context.Context, a, b, result term.ID) error {
	r.events = append(r.events, TraceEvent{
		Seq:    r.clock.Next(),
		Kind:   journal.OpMerge,
		A:      a,
		B:      b,
		Result: result,
	})
	return nil
}

func (r *traceRecorder) RecordRebuild(_ context.Context) error {
	r.events = append(r.events, TraceEvent{
		Seq:  r.clock.Next(),
		Kind: journal.OpRebuild,
	})
	return nil
}
