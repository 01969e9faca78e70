package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookideas/server/internal/models"
)

func TestAssignRoleEquityTransfer(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	creator := createUser(t, db, "founder", "Asha", "Rao")
	partner := createUser(t, db, "partner", "Ben", "Okafor")
	idea := createIdea(t, db, creator.ID, "Meal Kit Planner")
	roles := newRoleService(db)

	thirty := 30.0
	err := roles.AssignRole(ctx, creator.ID, AssignRoleParams{
		IdeaID:           idea.ID,
		Recipient:        "partner",
		Role:             models.RoleEquityOwner,
		EquityPercentage: &thirty,
	})
	require.NoError(t, err)

	assert.InDelta(t, 70.0, memberEquity(t, db, idea.ID, creator.ID), 1e-9)
	assert.InDelta(t, 30.0, memberEquity(t, db, idea.ID, partner.ID), 1e-9)
	assert.Equal(t, models.RoleOwner, memberRole(t, db, idea.ID, creator.ID))
	assert.Equal(t, models.RoleEquityOwner, memberRole(t, db, idea.ID, partner.ID))
}

func TestAssignRoleMajorityTransferFlipsOwnership(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	creator := createUser(t, db, "founder", "Asha", "Rao")
	partner := createUser(t, db, "partner", "Ben", "Okafor")
	idea := createIdea(t, db, creator.ID, "Meal Kit Planner")
	roles := newRoleService(db)

	thirty := 30.0
	require.NoError(t, roles.AssignRole(ctx, creator.ID, AssignRoleParams{
		IdeaID: idea.ID, Recipient: "partner", Role: models.RoleEquityOwner, EquityPercentage: &thirty,
	}))

	forty := 40.0
	require.NoError(t, roles.AssignRole(ctx, creator.ID, AssignRoleParams{
		IdeaID: idea.ID, Recipient: "partner", Role: models.RoleEquityOwner, EquityPercentage: &forty,
	}))

	assert.InDelta(t, 30.0, memberEquity(t, db, idea.ID, creator.ID), 1e-9)
	assert.InDelta(t, 70.0, memberEquity(t, db, idea.ID, partner.ID), 1e-9)
	assert.Equal(t, models.RoleEquityOwner, memberRole(t, db, idea.ID, creator.ID))
	assert.Equal(t, models.RoleOwner, memberRole(t, db, idea.ID, partner.ID))
}

func TestAssignRoleEqualSplitKeepsBothOwners(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	creator := createUser(t, db, "founder", "Asha", "Rao")
	partner := createUser(t, db, "partner", "Ben", "Okafor")
	idea := createIdea(t, db, creator.ID, "Meal Kit Planner")
	roles := newRoleService(db)

	fifty := 50.0
	require.NoError(t, roles.AssignRole(ctx, creator.ID, AssignRoleParams{
		IdeaID: idea.ID, Recipient: "partner", Role: models.RoleEquityOwner, EquityPercentage: &fifty,
	}))

	assert.Equal(t, models.RoleOwner, memberRole(t, db, idea.ID, creator.ID))
	assert.Equal(t, models.RoleOwner, memberRole(t, db, idea.ID, partner.ID))
}

func TestAssignRoleTotalEquityIsConserved(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	creator := createUser(t, db, "founder", "Asha", "Rao")
	createUser(t, db, "p1", "Ben", "Okafor")
	createUser(t, db, "p2", "Cara", "Lindqvist")
	idea := createIdea(t, db, creator.ID, "Meal Kit Planner")
	roles := newRoleService(db)

	for _, tc := range []struct {
		recipient string
		amount    float64
	}{
		{"p1", 25.0},
		{"p2", 10.5},
		{"p1", 5.5},
	} {
		amount := tc.amount
		require.NoError(t, roles.AssignRole(ctx, creator.ID, AssignRoleParams{
			IdeaID: idea.ID, Recipient: tc.recipient, Role: models.RoleEquityOwner, EquityPercentage: &amount,
		}))
	}

	var total float64
	require.NoError(t, db.QueryRow(
		"SELECT COALESCE(SUM(equity_percentage), 0) FROM idea_members WHERE idea_id = ?", idea.ID,
	).Scan(&total))
	assert.InDelta(t, 100.0, total, 1e-9)
}

func TestAssignRoleExcessiveTransferRefused(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	creator := createUser(t, db, "founder", "Asha", "Rao")
	createUser(t, db, "partner", "Ben", "Okafor")
	idea := createIdea(t, db, creator.ID, "Meal Kit Planner")
	roles := newRoleService(db)

	amount := 150.0
	err := roles.AssignRole(ctx, creator.ID, AssignRoleParams{
		IdeaID: idea.ID, Recipient: "partner", Role: models.RoleEquityOwner, EquityPercentage: &amount,
	})
	assert.Equal(t, ErrCodeExcessiveTransfer, CodeOf(err))

	// Nothing was written.
	assert.InDelta(t, 100.0, memberEquity(t, db, idea.ID, creator.ID), 1e-9)
	assert.Equal(t, 1, countRows(t, db, "SELECT COUNT(1) FROM idea_members WHERE idea_id = ?", idea.ID))
}

func TestAssignRoleWithoutEquityRefused(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	creator := createUser(t, db, "founder", "Asha", "Rao")
	partner := createUser(t, db, "partner", "Ben", "Okafor")
	createUser(t, db, "third", "Cara", "Lindqvist")
	idea := createIdea(t, db, creator.ID, "Meal Kit Planner")
	roles := newRoleService(db)

	hundred := 100.0
	require.NoError(t, roles.AssignRole(ctx, creator.ID, AssignRoleParams{
		IdeaID: idea.ID, Recipient: "partner", Role: models.RoleEquityOwner, EquityPercentage: &hundred,
	}))
	// The creator transferred everything away and was demoted.
	assert.Equal(t, models.RoleViewer, memberRole(t, db, idea.ID, creator.ID))
	assert.Equal(t, models.RoleOwner, memberRole(t, db, idea.ID, partner.ID))

	ten := 10.0
	err := roles.AssignRole(ctx, creator.ID, AssignRoleParams{
		IdeaID: idea.ID, Recipient: "third", Role: models.RoleEquityOwner, EquityPercentage: &ten,
	})
	assert.Equal(t, ErrCodeInsufficientPermission, CodeOf(err))
}

func TestAssignRoleSelfAssignmentRefused(t *testing.T) {
	db := newTestDB(t)
	creator := createUser(t, db, "founder", "Asha", "Rao")
	idea := createIdea(t, db, creator.ID, "Meal Kit Planner")

	ten := 10.0
	err := newRoleService(db).AssignRole(context.Background(), creator.ID, AssignRoleParams{
		IdeaID: idea.ID, Recipient: "founder", Role: models.RoleEquityOwner, EquityPercentage: &ten,
	})
	assert.Equal(t, ErrCodeSelfAssignment, CodeOf(err))
}

func TestAssignRoleRecipientNotFound(t *testing.T) {
	db := newTestDB(t)
	creator := createUser(t, db, "founder", "Asha", "Rao")
	idea := createIdea(t, db, creator.ID, "Meal Kit Planner")

	err := newRoleService(db).AssignRole(context.Background(), creator.ID, AssignRoleParams{
		IdeaID: idea.ID, Recipient: "nobody", Role: models.RoleViewer,
	})
	assert.Equal(t, ErrCodeRecipientNotFound, CodeOf(err))
}

func TestAssignRoleRequiresAuthenticatedActor(t *testing.T) {
	db := newTestDB(t)
	creator := createUser(t, db, "founder", "Asha", "Rao")
	idea := createIdea(t, db, creator.ID, "Meal Kit Planner")

	err := newRoleService(db).AssignRole(context.Background(), "", AssignRoleParams{
		IdeaID: idea.ID, Recipient: "founder", Role: models.RoleViewer,
	})
	assert.Equal(t, ErrCodeUnauthorized, CodeOf(err))
}

func TestAssignRoleViewerActorRefused(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	creator := createUser(t, db, "founder", "Asha", "Rao")
	viewer := createUser(t, db, "watcher", "Ben", "Okafor")
	createUser(t, db, "third", "Cara", "Lindqvist")
	idea := createIdea(t, db, creator.ID, "Meal Kit Planner")
	roles := newRoleService(db)

	require.NoError(t, roles.AssignRole(ctx, creator.ID, AssignRoleParams{
		IdeaID: idea.ID, Recipient: "watcher", Role: models.RoleViewer,
	}))

	err := roles.AssignRole(ctx, viewer.ID, AssignRoleParams{
		IdeaID: idea.ID, Recipient: "third", Role: models.RoleViewer,
	})
	assert.Equal(t, ErrCodeInsufficientPermission, CodeOf(err))
}

func TestAssignRoleOwnerNotAssignable(t *testing.T) {
	db := newTestDB(t)
	creator := createUser(t, db, "founder", "Asha", "Rao")
	createUser(t, db, "partner", "Ben", "Okafor")
	idea := createIdea(t, db, creator.ID, "Meal Kit Planner")

	err := newRoleService(db).AssignRole(context.Background(), creator.ID, AssignRoleParams{
		IdeaID: idea.ID, Recipient: "partner", Role: models.RoleOwner,
	})
	assert.Equal(t, ErrCodeInvalidInput, CodeOf(err))
}

func TestAssignRoleDebtFinancierRequiresAllTerms(t *testing.T) {
	db := newTestDB(t)
	creator := createUser(t, db, "founder", "Asha", "Rao")
	createUser(t, db, "lender", "Ben", "Okafor")
	idea := createIdea(t, db, creator.ID, "Meal Kit Planner")
	amount := 5000.0

	cases := []AssignRoleParams{
		{IdeaID: idea.ID, Recipient: "lender", Role: models.RoleDebtFinancier},
		{IdeaID: idea.ID, Recipient: "lender", Role: models.RoleDebtFinancier, DebtAmount: &amount, RepaymentMode: models.RepaymentMonthly, FullRepaymentDate: "2027-06-01"},
		{IdeaID: idea.ID, Recipient: "lender", Role: models.RoleDebtFinancier, DebtAmount: &amount, DebtDate: "2026-06-01", FullRepaymentDate: "2027-06-01"},
		{IdeaID: idea.ID, Recipient: "lender", Role: models.RoleDebtFinancier, DebtAmount: &amount, DebtDate: "2026-06-01", RepaymentMode: models.RepaymentMonthly},
	}
	roles := newRoleService(db)
	for _, p := range cases {
		err := roles.AssignRole(context.Background(), creator.ID, p)
		assert.Equal(t, ErrCodeIncompleteDebtData, CodeOf(err))
	}
	assert.Equal(t, 0, countRows(t, db, "SELECT COUNT(1) FROM debt_records WHERE idea_id = ?", idea.ID))
}

func TestAssignRoleDebtFinancierPipeline(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	creator := createUser(t, db, "founder", "Asha", "Rao")
	lender := createUser(t, db, "lender", "Ben", "Okafor")
	idea := createIdea(t, db, creator.ID, "Meal Kit Planner")

	amount := 5000.0
	require.NoError(t, newRoleService(db).AssignRole(ctx, creator.ID, AssignRoleParams{
		IdeaID:            idea.ID,
		Recipient:         "lender",
		Role:              models.RoleDebtFinancier,
		DebtAmount:        &amount,
		DebtDate:          "2026-06-01",
		RepaymentMode:     models.RepaymentMonthly,
		FullRepaymentDate: "2027-06-01",
	}))

	assert.Equal(t, models.RoleDebtFinancier, memberRole(t, db, idea.ID, lender.ID))

	records, err := NewDebtService(db, NewProfileService(db)).ListByIdea(ctx, idea.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, lender.ID, records[0].FinancierID)
	assert.InDelta(t, 5000.0, records[0].Amount, 1e-9)
	assert.Equal(t, models.RepaymentMonthly, records[0].RepaymentMode)

	txns, err := NewFinanceService(db).ListTransactions(ctx, idea.ID)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, models.TransactionIncome, txns[0].Type)
	assert.Equal(t, "Debt added by Ben Okafor of debt financier", txns[0].Description)
	assert.Equal(t, "Debt Financing", txns[0].Category)
	assert.InDelta(t, 5000.0, txns[0].Amount, 1e-9)
}

func TestAssignRoleDebtFinancierMembershipFailureIsStaged(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	creator := createUser(t, db, "founder", "Asha", "Rao")
	createUser(t, db, "lender", "Ben", "Okafor")
	idea := createIdea(t, db, creator.ID, "Meal Kit Planner")

	// Make the membership insert fail at the store level.
	_, err := db.Exec(`CREATE TRIGGER block_member_insert BEFORE INSERT ON idea_members
		BEGIN SELECT RAISE(ABORT, 'insert blocked'); END`)
	require.NoError(t, err)

	amount := 5000.0
	err = newRoleService(db).AssignRole(ctx, creator.ID, AssignRoleParams{
		IdeaID:            idea.ID,
		Recipient:         "lender",
		Role:              models.RoleDebtFinancier,
		DebtAmount:        &amount,
		DebtDate:          "2026-06-01",
		RepaymentMode:     models.RepaymentMonthly,
		FullRepaymentDate: "2027-06-01",
	})
	assert.Equal(t, ErrCodeMembershipInsertFailed, CodeOf(err))

	assert.Equal(t, 0, countRows(t, db, "SELECT COUNT(1) FROM debt_records WHERE idea_id = ?", idea.ID))
	assert.Equal(t, 0, countRows(t, db, "SELECT COUNT(1) FROM transactions WHERE idea_id = ?", idea.ID))
}

func TestAssignRoleContractorStoresExpiry(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	creator := createUser(t, db, "founder", "Asha", "Rao")
	contractor := createUser(t, db, "builder", "Ben", "Okafor")
	idea := createIdea(t, db, creator.ID, "Meal Kit Planner")

	expires := time.Now().Add(90 * 24 * time.Hour).Truncate(time.Second)
	require.NoError(t, newRoleService(db).AssignRole(ctx, creator.ID, AssignRoleParams{
		IdeaID: idea.ID, Recipient: "builder", Role: models.RoleContractor, ExpiresAt: &expires,
	}))

	m, err := NewMembershipService(db).GetMembership(ctx, idea.ID, contractor.ID)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, models.RoleContractor, m.Role)
	require.NotNil(t, m.AccessExpiresAt)
	assert.True(t, m.AccessExpiresAt.Equal(expires))
}

func TestAssignRoleAcceptsEmailRecipient(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	creator := createUser(t, db, "founder", "Asha", "Rao")
	viewer := createUser(t, db, "watcher", "Ben", "Okafor")
	idea := createIdea(t, db, creator.ID, "Meal Kit Planner")

	require.NoError(t, newRoleService(db).AssignRole(ctx, creator.ID, AssignRoleParams{
		IdeaID: idea.ID, Recipient: "watcher@example.com", Role: models.RoleViewer,
	}))
	assert.Equal(t, models.RoleViewer, memberRole(t, db, idea.ID, viewer.ID))
}
