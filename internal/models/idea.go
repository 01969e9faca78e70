package models

import "time"

// Idea represents a business idea project
type Idea struct {
	ID              string    `json:"id"`
	CreatorID       string    `json:"creator_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	ProblemCategory string    `json:"problem_category"`
	Solution        string    `json:"solution"`
	Visibility      bool      `json:"visibility"` // true = public
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Role values for idea memberships. Owner and equity owner are derived from
// the equity distribution by the reconciliation pass; the others are assigned
// directly and preserved across reconciliations.
const (
	RoleOwner         = "owner"
	RoleEquityOwner   = "equity_owner"
	RoleDebtFinancier = "debt_financier"
	RoleContractor    = "contractor"
	RoleViewer        = "viewer"
)

// ValidRole reports whether role is one of the five membership roles.
func ValidRole(role string) bool {
	switch role {
	case RoleOwner, RoleEquityOwner, RoleDebtFinancier, RoleContractor, RoleViewer:
		return true
	}
	return false
}

// Membership links a user to an idea with a role. EquityPercentage is set
// only for equity-holding roles; AccessExpiresAt only for contractors.
type Membership struct {
	ID               string     `json:"id"`
	IdeaID           string     `json:"idea_id"`
	UserID           string     `json:"user_id"`
	Role             string     `json:"role"`
	EquityPercentage *float64   `json:"equity_percentage,omitempty"`
	AccessExpiresAt  *time.Time `json:"access_expires_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Equity returns the membership's equity percentage, treating NULL as zero.
func (m *Membership) Equity() float64 {
	if m.EquityPercentage == nil {
		return 0
	}
	return *m.EquityPercentage
}

// MemberWithProfile includes the member's public profile for listings.
type MemberWithProfile struct {
	Membership
	Profile Profile `json:"profile"`
}
