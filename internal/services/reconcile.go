package services

import "github.com/cookideas/server/internal/models"

// RoleChange records one reconciliation decision.
type RoleChange struct {
	MembershipID string
	NewRole      string
}

// ReconcileRoles derives membership roles from the equity distribution.
//
// Every member holding the maximum equity (when that maximum is positive) is
// an owner; ties produce multiple simultaneous owners. Any other member with
// positive equity is an equity owner. A member previously holding an
// equity-derived role whose equity dropped to zero is demoted to viewer.
// Contractor, debt-financier, and viewer roles are preserved unless the
// equity rule reclassifies them.
//
// The function is pure; callers persist the returned changes. Because the
// derived role is a strict function of equity, replaying reconciliation after
// a partial write converges to the same state.
func ReconcileRoles(members []*models.Membership) []RoleChange {
	maxEquity := 0.0
	for _, m := range members {
		if eq := m.Equity(); eq > maxEquity {
			maxEquity = eq
		}
	}

	var changes []RoleChange
	for _, m := range members {
		newRole := m.Role
		switch {
		case maxEquity > 0 && m.Equity() == maxEquity:
			newRole = models.RoleOwner
		case m.Equity() > 0:
			newRole = models.RoleEquityOwner
		case m.Role == models.RoleOwner || m.Role == models.RoleEquityOwner:
			newRole = models.RoleViewer
		}
		if newRole != m.Role {
			changes = append(changes, RoleChange{MembershipID: m.ID, NewRole: newRole})
		}
	}
	return changes
}
