package authz

import (
	"errors"
	"fmt"

	"github.com/abrezinsky/racenight/internal/models"
)

// ErrDenied is the sentinel all authorization denials unwrap to.
var ErrDenied = errors.New("authz: denied")

// DeniedError reports a refused action with a machine-readable reason
// so callers can render role-appropriate messaging without re-deriving
// the rule.
type DeniedError struct {
	Action      Action
	PrincipalID int64
	Reason      string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("action %s denied for principal %d: %s", e.Action, e.PrincipalID, e.Reason)
}

func (e *DeniedError) Unwrap() error {
	return ErrDenied
}

// RoleTransitionError reports an illegal party-role transition. It
// carries the attempted transition and the target's current role; the
// transition is never partially applied.
type RoleTransitionError struct {
	Attempted string
	Current   models.Role
	Actor     models.Role
}

func (e *RoleTransitionError) Error() string {
	return fmt.Sprintf("illegal role transition %s: actor role %s, target role %s", e.Attempted, e.Actor, e.Current)
}

func (e *RoleTransitionError) Unwrap() error {
	return ErrDenied
}
