package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/egraph-go/egraph/internal/term"
)

// SessionInfo is the stored metadata of a session.
type SessionInfo struct {
	Token       string
	ScriptName  string
	Fingerprint string
	Sealed      bool
}

// ErrSessionNotFound is returned when a token matches no recorded session.
var ErrSessionNotFound = errors.New("session not found")

// GetSession returns a session's metadata.
func (s *Store) GetSession(ctx context.Context, token string) (SessionInfo, error) {
	var info SessionInfo
	var sealed int
	err := s.db.QueryRowContext(ctx, `
		SELECT token, script_name, fingerprint, sealed
		FROM sessions WHERE token = ?
	`, token).Scan(&info.Token, &info.ScriptName, &info.Fingerprint, &sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return SessionInfo{}, fmt.Errorf("%w: %s", ErrSessionNotFound, token)
	}
	if err != nil {
		return SessionInfo{}, fmt.Errorf("get session: %w", err)
	}
	info.Sealed = sealed != 0
	return info, nil
}

// ListSessions returns all recorded sessions ordered by token. UUIDv7
// tokens sort by creation time.
func (s *Store) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, script_name, fingerprint, sealed
		FROM sessions ORDER BY token ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []SessionInfo
	for rows.Next() {
		var info SessionInfo
		var sealed int
		if err := rows.Scan(&info.Token, &info.ScriptName, &info.Fingerprint, &sealed); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		info.Sealed = sealed != 0
		sessions = append(sessions, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	if sessions == nil {
		sessions = []SessionInfo{}
	}
	return sessions, nil
}

// ReadOps returns a session's ops in deterministic replay order
// (ORDER BY seq ASC). Returns an empty slice for a session with no ops.
func (s *Store) ReadOps(ctx context.Context, token string) ([]Op, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_token, seq, kind, symbol, children, a, b, result
		FROM ops
		WHERE session_token = ?
		ORDER BY seq ASC
	`, token)
	if err != nil {
		return nil, fmt.Errorf("query ops: %w", err)
	}
	defer rows.Close()

	var ops []Op
	for rows.Next() {
		var op Op
		var kind, childJSON string
		var a, b, result int64
		if err := rows.Scan(&op.Session, &op.Seq, &kind, &op.Symbol, &childJSON, &a, &b, &result); err != nil {
			return nil, fmt.Errorf("scan op: %w", err)
		}
		op.Kind = OpKind(kind)
		op.A, op.B, op.Result = term.ID(a), term.ID(b), term.ID(result)
		if op.Kind == OpAdd {
			children, err := unmarshalChildren(childJSON)
			if err != nil {
				return nil, fmt.Errorf("op seq %d: %w", op.Seq, err)
			}
			op.Children = children
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ops: %w", err)
	}

	if ops == nil {
		ops = []Op{}
	}
	return ops, nil
}
