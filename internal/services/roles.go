package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cookideas/server/internal/models"
)

// RoleService implements the equity/role reconciliation engine: assigning
// roles to idea members, transferring fractional ownership, and keeping every
// member's role consistent with the resulting equity distribution.
type RoleService struct {
	db          *sql.DB
	profiles    *ProfileService
	memberships *MembershipService
	debts       *DebtService
}

// NewRoleService creates a new RoleService
func NewRoleService(db *sql.DB, profiles *ProfileService, memberships *MembershipService, debts *DebtService) *RoleService {
	return &RoleService{db: db, profiles: profiles, memberships: memberships, debts: debts}
}

// AssignRoleParams holds the inputs to AssignRole. Recipient is a username or
// email. EquityPercentage applies only to equity_owner assignments, ExpiresAt
// only to contractors, and the debt fields only to debt financiers.
type AssignRoleParams struct {
	IdeaID            string
	Recipient         string
	Role              string
	EquityPercentage  *float64
	ExpiresAt         *time.Time
	DebtAmount        *float64
	DebtDate          string
	RepaymentMode     string
	FullRepaymentDate string
}

// AssignRole validates and performs a role assignment on behalf of actorID.
//
// Validation runs before the first write, in order: authentication, recipient
// resolution, self-assignment, debt-field completeness, actor permission
// (owner or equity_owner; the idea's creator holds implicit owner
// permission), and equity sufficiency. The equity branch then transfers the
// requested percentage from actor to recipient and re-derives every member's
// role, all inside a single transaction so concurrent transfers cannot lose
// updates and a failure leaves no partial state.
func (s *RoleService) AssignRole(ctx context.Context, actorID string, p AssignRoleParams) error {
	if actorID == "" {
		return newError(ErrCodeUnauthorized, "you must be logged in to assign roles")
	}

	if p.Role == models.RoleOwner || !models.ValidRole(p.Role) {
		return newError(ErrCodeInvalidInput, "invalid role; owner is derived from equity and cannot be assigned directly")
	}

	recipient, err := s.profiles.Resolve(ctx, p.Recipient)
	if err != nil {
		if CodeOf(err) == ErrCodeNotFound {
			return newError(ErrCodeRecipientNotFound, "recipient not found, please check the username or email")
		}
		return err
	}

	if recipient.ID == actorID {
		return newError(ErrCodeSelfAssignment, "you cannot assign roles to yourself")
	}

	if p.Role == models.RoleDebtFinancier {
		if p.DebtAmount == nil || *p.DebtAmount <= 0 || p.DebtDate == "" || p.RepaymentMode == "" || p.FullRepaymentDate == "" {
			return newError(ErrCodeIncompleteDebtData, "all debt financier fields are required")
		}
	}

	actorRole, found, err := s.memberships.RoleInIdea(ctx, p.IdeaID, actorID)
	if err != nil {
		return err
	}
	if !found || (actorRole != models.RoleOwner && actorRole != models.RoleEquityOwner) {
		return newError(ErrCodeInsufficientPermission, "you do not have permission to assign roles")
	}

	actorMembership, err := s.memberships.GetMembership(ctx, p.IdeaID, actorID)
	if err != nil {
		return err
	}
	actorEquity := 0.0
	if actorMembership != nil {
		actorEquity = actorMembership.Equity()
	}

	transferring := p.Role == models.RoleEquityOwner && p.EquityPercentage != nil
	if transferring {
		amount := *p.EquityPercentage
		if amount <= 0 {
			return newError(ErrCodeInvalidInput, "equity percentage must be positive")
		}
		if actorEquity <= 0 {
			return newError(ErrCodeInsufficientEquity, "you do not have any equity to assign")
		}
		if amount > actorEquity {
			return newError(ErrCodeExcessiveTransfer, "you cannot assign more equity than you own")
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if transferring {
		if err := s.transferEquity(ctx, tx, p.IdeaID, actorID, recipient.ID, *p.EquityPercentage); err != nil {
			return err
		}
	} else {
		if err := upsertMembership(ctx, tx, p.IdeaID, recipient.ID, p.Role, nil, contractorExpiry(p)); err != nil {
			if p.Role == models.RoleDebtFinancier {
				return wrapError(ErrCodeMembershipInsertFailed, "failed to add financier as member", err)
			}
			return fmt.Errorf("failed to upsert membership: %w", err)
		}
		if p.Role == models.RoleDebtFinancier {
			terms := DebtTerms{
				Amount:            *p.DebtAmount,
				DebtDate:          p.DebtDate,
				RepaymentMode:     p.RepaymentMode,
				FullRepaymentDate: p.FullRepaymentDate,
			}
			if err := s.debts.recordDebt(ctx, tx, p.IdeaID, recipient, terms); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit role assignment: %w", err)
	}
	return nil
}

func contractorExpiry(p AssignRoleParams) *time.Time {
	if p.Role == models.RoleContractor {
		return p.ExpiresAt
	}
	return nil
}

// transferEquity moves amount from sender to recipient and re-derives every
// member's role from the resulting distribution, all within tx.
func (s *RoleService) transferEquity(ctx context.Context, tx *sql.Tx, ideaID, senderID, recipientID string, amount float64) error {
	recipientEquity := 0.0
	var existing sql.NullFloat64
	err := tx.QueryRowContext(ctx,
		"SELECT equity_percentage FROM idea_members WHERE idea_id = ? AND user_id = ?",
		ideaID, recipientID,
	).Scan(&existing)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to get recipient membership: %w", err)
	}
	if existing.Valid {
		recipientEquity = existing.Float64
	}

	newEquity := recipientEquity + amount
	if err := upsertMembership(ctx, tx, ideaID, recipientID, models.RoleEquityOwner, &newEquity, nil); err != nil {
		return fmt.Errorf("failed to upsert recipient membership: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE idea_members SET equity_percentage = equity_percentage - ? WHERE idea_id = ? AND user_id = ? AND equity_percentage >= ?",
		amount, ideaID, senderID, amount,
	)
	if err != nil {
		return fmt.Errorf("failed to deduct sender equity: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to deduct sender equity: %w", err)
	}
	if affected == 0 {
		// The sender's equity changed since validation; the conditional
		// update refuses rather than driving the balance negative.
		return newError(ErrCodeExcessiveTransfer, "you cannot assign more equity than you own")
	}

	members, err := loadMembershipsTx(ctx, tx, ideaID)
	if err != nil {
		return err
	}
	for _, change := range ReconcileRoles(members) {
		_, err := tx.ExecContext(ctx,
			"UPDATE idea_members SET role = ? WHERE id = ?",
			change.NewRole, change.MembershipID,
		)
		if err != nil {
			return fmt.Errorf("failed to update member role: %w", err)
		}
	}
	return nil
}

// upsertMembership inserts or updates the (idea, user) membership row.
// Equity is overwritten only when a value is supplied; the access expiry is
// cleared for non-contractor roles.
func upsertMembership(ctx context.Context, tx *sql.Tx, ideaID, userID, role string, equity *float64, expiresAt *time.Time) error {
	var expiry any
	if expiresAt != nil {
		expiry = expiresAt.Unix()
	}
	if equity != nil {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO idea_members (id, idea_id, user_id, role, equity_percentage, access_expires_at, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (idea_id, user_id) DO UPDATE SET role = excluded.role, equity_percentage = excluded.equity_percentage, access_expires_at = excluded.access_expires_at`,
			uuid.New().String(), ideaID, userID, role, *equity, expiry, time.Now().Unix(),
		)
		return err
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO idea_members (id, idea_id, user_id, role, equity_percentage, access_expires_at, created_at)
		 VALUES (?, ?, ?, ?, NULL, ?, ?)
		 ON CONFLICT (idea_id, user_id) DO UPDATE SET role = excluded.role, access_expires_at = excluded.access_expires_at`,
		uuid.New().String(), ideaID, userID, role, expiry, time.Now().Unix(),
	)
	return err
}

func loadMembershipsTx(ctx context.Context, tx *sql.Tx, ideaID string) ([]*models.Membership, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT "+membershipColumns+" FROM idea_members WHERE idea_id = ?",
		ideaID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load memberships: %w", err)
	}
	defer rows.Close()

	var members []*models.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
