package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cookideas/server/internal/models"
)

func member(id, role string, equity float64) *models.Membership {
	m := &models.Membership{ID: id, Role: role}
	if equity > 0 {
		m.EquityPercentage = &equity
	}
	return m
}

func changesByID(changes []RoleChange) map[string]string {
	out := make(map[string]string, len(changes))
	for _, c := range changes {
		out[c.MembershipID] = c.NewRole
	}
	return out
}

func TestReconcileRolesMaxHolderBecomesOwner(t *testing.T) {
	changes := ReconcileRoles([]*models.Membership{
		member("a", models.RoleOwner, 30),
		member("b", models.RoleEquityOwner, 70),
	})

	got := changesByID(changes)
	assert.Equal(t, models.RoleOwner, got["b"])
	assert.Equal(t, models.RoleEquityOwner, got["a"])
}

func TestReconcileRolesTiesProduceMultipleOwners(t *testing.T) {
	changes := ReconcileRoles([]*models.Membership{
		member("a", models.RoleOwner, 50),
		member("b", models.RoleEquityOwner, 50),
	})

	got := changesByID(changes)
	// a already holds owner; only b changes.
	assert.NotContains(t, got, "a")
	assert.Equal(t, models.RoleOwner, got["b"])
}

func TestReconcileRolesZeroEquityDemotesToViewer(t *testing.T) {
	changes := ReconcileRoles([]*models.Membership{
		member("a", models.RoleOwner, 0),
		member("b", models.RoleEquityOwner, 100),
		member("c", models.RoleEquityOwner, 0),
	})

	got := changesByID(changes)
	assert.Equal(t, models.RoleViewer, got["a"])
	assert.Equal(t, models.RoleOwner, got["b"])
	assert.Equal(t, models.RoleViewer, got["c"])
}

func TestReconcileRolesPreservesNonEquityRoles(t *testing.T) {
	changes := ReconcileRoles([]*models.Membership{
		member("a", models.RoleOwner, 100),
		member("b", models.RoleContractor, 0),
		member("c", models.RoleDebtFinancier, 0),
		member("d", models.RoleViewer, 0),
	})

	assert.Empty(t, changes)
}

func TestReconcileRolesAllZeroEquityChangesNothingButEquityRoles(t *testing.T) {
	changes := ReconcileRoles([]*models.Membership{
		member("a", models.RoleViewer, 0),
		member("b", models.RoleContractor, 0),
	})

	assert.Empty(t, changes)
}

func TestReconcileRolesEmpty(t *testing.T) {
	assert.Empty(t, ReconcileRoles(nil))
}

func TestReconcileRolesIdempotent(t *testing.T) {
	members := []*models.Membership{
		member("a", models.RoleOwner, 40),
		member("b", models.RoleEquityOwner, 60),
		member("c", models.RoleContractor, 0),
	}

	first := ReconcileRoles(members)
	for _, c := range first {
		for _, m := range members {
			if m.ID == c.MembershipID {
				m.Role = c.NewRole
			}
		}
	}

	assert.Empty(t, ReconcileRoles(members))
}
