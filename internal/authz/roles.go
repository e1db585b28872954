package authz

import (
	"github.com/abrezinsky/racenight/internal/models"
)

// Role transition names carried by RoleTransitionError.
const (
	TransitionPromote  = "promote"
	TransitionDemote   = "demote"
	TransitionRemove   = "remove"
	TransitionTransfer = "transfer_ownership"
)

// CanPromote decides whether an actor with the given party role may
// promote a target member to CO_HOST. Only a HOST may promote, and only
// a PARTICIPANT can be promoted.
func CanPromote(actor, target models.Role) error {
	if actor != models.RoleHost {
		return &RoleTransitionError{Attempted: TransitionPromote, Current: target, Actor: actor}
	}
	if target != models.RoleParticipant {
		return &RoleTransitionError{Attempted: TransitionPromote, Current: target, Actor: actor}
	}
	return nil
}

// CanDemote decides whether an actor may demote a target CO_HOST back
// to PARTICIPANT. Only a HOST may demote, and only a CO_HOST can be
// demoted; demoting a PARTICIPANT or the HOST is illegal.
func CanDemote(actor, target models.Role) error {
	if actor != models.RoleHost {
		return &RoleTransitionError{Attempted: TransitionDemote, Current: target, Actor: actor}
	}
	if target != models.RoleCoHost {
		return &RoleTransitionError{Attempted: TransitionDemote, Current: target, Actor: actor}
	}
	return nil
}

// CanRemove decides whether an actor may remove a target member.
// A HOST may remove anyone except itself (transfer ownership first);
// a CO_HOST may remove only PARTICIPANTs.
func CanRemove(actor, target models.Role, removingSelf bool) error {
	switch actor {
	case models.RoleHost:
		if removingSelf {
			return &RoleTransitionError{Attempted: TransitionRemove, Current: target, Actor: actor}
		}
		return nil
	case models.RoleCoHost:
		if target != models.RoleParticipant {
			return &RoleTransitionError{Attempted: TransitionRemove, Current: target, Actor: actor}
		}
		return nil
	default:
		return &RoleTransitionError{Attempted: TransitionRemove, Current: target, Actor: actor}
	}
}

// CanTransferOwnership decides whether an actor may hand the HOST role
// to a target member. Only the current HOST may transfer, and not to
// itself. The swap itself (target becomes HOST, former HOST becomes
// CO_HOST) is applied atomically by the caller.
func CanTransferOwnership(actor, target models.Role, transferringToSelf bool) error {
	if actor != models.RoleHost || transferringToSelf {
		return &RoleTransitionError{Attempted: TransitionTransfer, Current: target, Actor: actor}
	}
	if !target.Valid() {
		return &RoleTransitionError{Attempted: TransitionTransfer, Current: target, Actor: actor}
	}
	return nil
}
