package egraph

import (
	"errors"
	"fmt"

	"github.com/egraph-go/egraph/internal/term"
)

// NotFoundError reports a lookup with an identifier this graph never minted.
//
// The disjoint-set's internal lazy registration would silently root a bogus
// identifier, so every externally reachable operation checks minting first
// and returns this instead. Unknown-id typos surface as errors, never as
// fresh classes.
type NotFoundError struct {
	ID term.ID
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unknown e-class id %d", e.ID)
}

// IsNotFound returns true if the error is an unknown-identifier error.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// InvariantError reports a violated structural invariant.
//
// Invariant violations are internal defects, not recoverable runtime
// conditions: no normal operation returns one. They are only surfaced by
// CheckInvariants, which tests run after every Rebuild.
type InvariantError struct {
	// Invariant names the violated invariant.
	Invariant string

	// Message describes the violation.
	Message string

	// Class identifies the affected class, if any.
	Class term.ID
}

// Invariant names used by CheckInvariants.
const (
	InvariantCanonicalKeys  = "canonical-keys"
	InvariantCongruence     = "congruence"
	InvariantParentSound    = "parent-soundness"
	InvariantFindIdempotent = "find-idempotent"
	InvariantHashconsTotal  = "hashcons-total"
)

// Error implements the error interface.
func (e *InvariantError) Error() string {
	if e.Class != 0 {
		return fmt.Sprintf("invariant %s violated: %s (class=%d)", e.Invariant, e.Message, e.Class)
	}
	return fmt.Sprintf("invariant %s violated: %s", e.Invariant, e.Message)
}
