package entity

// Role is the closed set of account roles.
//
// Privilege-wise there are exactly two tiers: the owner, and everyone
// else. Checks must go through the capability methods below, never
// through comparison against display labels.
type Role string

const (
	// RoleOwner is the principal: triages new cases, approves drafts
	// and manages the team.
	RoleOwner Role = "owner"

	// RoleLawyer handles cases delegated by the owner.
	RoleLawyer Role = "lawyer"

	// RoleIntern has the same capabilities as a lawyer; the distinction
	// is informational only.
	RoleIntern Role = "intern"
)

func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleLawyer || r == RoleIntern
}

// CanTriage reports whether the role may delegate cases, respond to
// clients directly and approve drafts.
func (r Role) CanTriage() bool {
	return r == RoleOwner
}

// CanBeAssigned reports whether cases may be delegated to this role.
func (r Role) CanBeAssigned() bool {
	return r == RoleLawyer || r == RoleIntern
}
