package journal

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/egraph-go/egraph/internal/term"
)

// OpKind distinguishes the journaled operation kinds.
type OpKind string

const (
	// OpAdd records an interned node.
	OpAdd OpKind = "add"
	// OpMerge records an asserted equivalence.
	OpMerge OpKind = "merge"
	// OpRebuild records a congruence repair point. Rebuilds change which
	// ids later adds and merges resolve to, so replay must reapply them
	// at the same positions.
	OpRebuild OpKind = "rebuild"
)

// Op is one journaled operation.
type Op struct {
	Session  string
	Seq      int64
	Kind     OpKind
	Symbol   string    // add only
	Children []term.ID // add only
	A, B     term.ID   // merge only
	Result   term.ID   // id returned by Add, root returned by Merge
}

// Session records the ops of one graph construction under a single token.
// It implements script.Recorder.
//
// Writes use ON CONFLICT DO NOTHING keyed on (session, seq), so re-running a
// crashed recording over the same session is idempotent.
type Session struct {
	store *Store
	token string
	clock *Clock
}

// Token returns the session token.
func (s *Session) Token() string {
	return s.token
}

// RecordAdd journals a successful Add and the id it produced.
func (s *Session) RecordAdd(ctx context.Context, symbol string, children []term.ID, result term.ID) error {
	childJSON, err := marshalChildren(children)
	if err != nil {
		return fmt.Errorf("record add: %w", err)
	}
	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO ops (session_token, seq, kind, symbol, children, result)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_token, seq) DO NOTHING
	`, s.token, s.clock.Next(), string(OpAdd), symbol, childJSON, int64(result))
	if err != nil {
		return fmt.Errorf("record add: %w", err)
	}
	return nil
}

// RecordMerge journals a successful Merge and the canonical root it produced.
func (s *Session) RecordMerge(ctx context.Context, a, b term.ID, result term.ID) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO ops (session_token, seq, kind, a, b, result)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_token, seq) DO NOTHING
	`, s.token, s.clock.Next(), string(OpMerge), int64(a), int64(b), int64(result))
	if err != nil {
		return fmt.Errorf("record merge: %w", err)
	}
	return nil
}

// RecordRebuild journals a rebuild point.
func (s *Session) RecordRebuild(ctx context.Context) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO ops (session_token, seq, kind)
		VALUES (?, ?, ?)
		ON CONFLICT(session_token, seq) DO NOTHING
	`, s.token, s.clock.Next(), string(OpRebuild))
	if err != nil {
		return fmt.Errorf("record rebuild: %w", err)
	}
	return nil
}

// Seal marks the session complete and stores the final graph fingerprint,
// which Replay later verifies.
func (s *Session) Seal(ctx context.Context, fingerprint string) error {
	_, err := s.store.db.ExecContext(ctx, `
		UPDATE sessions SET fingerprint = ?, sealed = 1 WHERE token = ?
	`, fingerprint, s.token)
	if err != nil {
		return fmt.Errorf("seal session: %w", err)
	}
	return nil
}

// marshalChildren serializes child ids to JSON TEXT for storage. A JSON
// array of integers has one canonical rendering, so the column is stable
// across writes.
func marshalChildren(children []term.ID) (string, error) {
	ids := make([]int64, len(children))
	for i, c := range children {
		ids[i] = int64(c)
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("marshal children: %w", err)
	}
	return string(data), nil
}

// unmarshalChildren parses the children column.
func unmarshalChildren(data string) ([]term.ID, error) {
	var ids []int64
	if err := json.Unmarshal([]byte(data), &ids); err != nil {
		return nil, fmt.Errorf("unmarshal children: %w", err)
	}
	children := make([]term.ID, len(ids))
	for i, id := range ids {
		children[i] = term.ID(id)
	}
	return children, nil
}
