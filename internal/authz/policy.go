package authz

import (
	"github.com/abrezinsky/racenight/internal/models"
)

// Action identifies a mutating operation subject to authorization.
type Action string

// Platform-wide actions, gated on named permissions.
const (
	ActionViewAllUsers  Action = "view_all_users"
	ActionAssignRoles   Action = "assign_roles"
	ActionDeleteUser    Action = "delete_user"
	ActionManageCatalog Action = "manage_catalog"
	ActionManageParties Action = "manage_parties"
)

// Party-scoped actions, gated on the acting member's party role.
const (
	ActionCreateRace     Action = "create_race"
	ActionStartRace      Action = "start_race"
	ActionCompleteRace   Action = "complete_race"
	ActionAddRacers      Action = "add_racers"
	ActionAttributeCar   Action = "attribute_car"
	ActionAttributeMap   Action = "attribute_map"
	ActionRecordScore    Action = "record_score"
	ActionRecordOwnScore Action = "record_own_score"
	ActionManageMembers  Action = "manage_members"
	ActionRemoveMember   Action = "remove_member"
	ActionViewScores     Action = "view_scores"
)

// Decision reason codes.
const (
	ReasonOK                = "OK"
	ReasonNoPrincipal       = "NO_PRINCIPAL"
	ReasonMissingPermission = "MISSING_PERMISSION"
	ReasonNotAMember        = "NOT_A_MEMBER"
	ReasonInsufficientRole  = "INSUFFICIENT_ROLE"
	ReasonUnknownAction     = "UNKNOWN_ACTION"
)

// Decision is the outcome of an authorization check. The gate never
// mutates state; callers check the decision before invoking a
// transition.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow is the single allowed decision.
var Allow = Decision{Allowed: true, Reason: ReasonOK}

// Deny builds a denial with the given reason code.
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// rule is one row of the policy table: either a permission requirement
// (any-of) or a minimum party role, never both.
type rule struct {
	anyOf   []Permission
	minRole models.Role
}

// policy maps every authorized action to its rule. Actions absent from
// this table are denied: the gate fails closed.
var policy = map[Action]rule{
	ActionViewAllUsers:  {anyOf: []Permission{PermissionViewAllUsers}},
	ActionAssignRoles:   {anyOf: []Permission{PermissionAssignRoles}},
	ActionDeleteUser:    {anyOf: []Permission{PermissionDeleteUser}},
	ActionManageCatalog: {anyOf: []Permission{PermissionManageCatalog, PermissionManageUsers}},
	ActionManageParties: {anyOf: []Permission{PermissionManageParties}},

	ActionCreateRace:     {minRole: models.RoleCoHost},
	ActionStartRace:      {minRole: models.RoleCoHost},
	ActionCompleteRace:   {minRole: models.RoleCoHost},
	ActionAddRacers:      {minRole: models.RoleCoHost},
	ActionAttributeCar:   {minRole: models.RoleCoHost},
	ActionAttributeMap:   {minRole: models.RoleCoHost},
	ActionRecordScore:    {minRole: models.RoleCoHost},
	ActionRecordOwnScore: {minRole: models.RoleParticipant},
	ActionManageMembers:  {minRole: models.RoleHost},
	ActionRemoveMember:   {minRole: models.RoleCoHost},
	ActionViewScores:     {minRole: models.RoleParticipant},
}

// Authorize decides whether a principal may perform an action.
// partyRole is the principal's member role for the party in question;
// pass an empty role when the principal is not a member (or the action
// is not party-scoped). Unknown actions are denied.
func Authorize(p *Principal, action Action, partyRole models.Role) Decision {
	if p == nil {
		return Deny(ReasonNoPrincipal)
	}

	r, ok := policy[action]
	if !ok {
		return Deny(ReasonUnknownAction)
	}

	if len(r.anyOf) > 0 {
		if HasAny(p, r.anyOf) {
			return Allow
		}
		return Deny(ReasonMissingPermission)
	}

	// Party-scoped: the wildcard permission overrides membership, so
	// platform operators can act on any party.
	if Has(p, PermissionAll) {
		return Allow
	}
	if !partyRole.Valid() {
		return Deny(ReasonNotAMember)
	}
	if partyRole.Rank() < r.minRole.Rank() {
		return Deny(ReasonInsufficientRole)
	}
	return Allow
}

// Require is Authorize folded into an error: nil when allowed, a
// *DeniedError otherwise.
func Require(p *Principal, action Action, partyRole models.Role) error {
	d := Authorize(p, action, partyRole)
	if d.Allowed {
		return nil
	}
	var id int64
	if p != nil {
		id = p.ID
	}
	return &DeniedError{Action: action, PrincipalID: id, Reason: d.Reason}
}
