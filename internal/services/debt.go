package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cookideas/server/internal/models"
)

// DebtService implements the debt intake pipeline: establishing a
// debt-financier membership together with its debt record and the matching
// income ledger entry.
type DebtService struct {
	db       *sql.DB
	profiles *ProfileService
}

// NewDebtService creates a new DebtService
func NewDebtService(db *sql.DB, profiles *ProfileService) *DebtService {
	return &DebtService{db: db, profiles: profiles}
}

// DebtTerms holds the financing terms supplied with a debt-financier
// assignment.
type DebtTerms struct {
	Amount            float64
	DebtDate          string // ISO date (YYYY-MM-DD)
	RepaymentMode     string
	FullRepaymentDate string
}

// AddDebtFinancier runs the full pipeline for an already-resolved financier
// user id: profile lookup, membership insert, debt record, income
// transaction. All writes happen in one transaction, so a failure at any
// stage leaves no partial records; the returned error still identifies the
// stage that refused.
func (s *DebtService) AddDebtFinancier(ctx context.Context, ideaID, financierID string, terms DebtTerms) error {
	financier, err := s.profiles.GetByID(ctx, financierID)
	if err != nil {
		return wrapError(ErrCodeProfileLookupFailed, "failed to look up financier profile", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO idea_members (id, idea_id, user_id, role, equity_percentage, access_expires_at, created_at)
		 VALUES (?, ?, ?, ?, NULL, NULL, ?)
		 ON CONFLICT (idea_id, user_id) DO UPDATE SET role = excluded.role`,
		uuid.New().String(), ideaID, financierID, models.RoleDebtFinancier, time.Now().Unix(),
	)
	if err != nil {
		return wrapError(ErrCodeMembershipInsertFailed, "failed to add financier as member", err)
	}

	if err := s.recordDebt(ctx, tx, ideaID, financier, terms); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit debt intake: %w", err)
	}
	return nil
}

// recordDebt writes the debt record and its income transaction within tx.
// The membership stage is the caller's responsibility.
func (s *DebtService) recordDebt(ctx context.Context, tx *sql.Tx, ideaID string, financier *models.User, terms DebtTerms) error {
	now := time.Now().Unix()

	_, err := tx.ExecContext(ctx,
		"INSERT INTO debt_records (id, idea_id, financier_id, debt_date, amount, repayment_mode, full_repayment_date, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		uuid.New().String(), ideaID, financier.ID, terms.DebtDate, terms.Amount, terms.RepaymentMode, terms.FullRepaymentDate, now,
	)
	if err != nil {
		return wrapError(ErrCodeDebtRecordInsertFailed, "failed to record debt", err)
	}

	narration := fmt.Sprintf("Debt added by %s %s of debt financier", financier.FirstName, financier.LastName)
	_, err = tx.ExecContext(ctx,
		"INSERT INTO transactions (id, idea_id, type, amount, description, date, category, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		uuid.New().String(), ideaID, models.TransactionIncome, terms.Amount, narration, terms.DebtDate, "Debt Financing", now,
	)
	if err != nil {
		return wrapError(ErrCodeTransactionInsertFailed, "failed to record debt transaction", err)
	}
	return nil
}

// ListByIdea returns the idea's debt records, newest first.
func (s *DebtService) ListByIdea(ctx context.Context, ideaID string) ([]*models.DebtRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, idea_id, financier_id, debt_date, amount, repayment_mode, full_repayment_date, created_at FROM debt_records WHERE idea_id = ? ORDER BY debt_date DESC",
		ideaID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list debt records: %w", err)
	}
	defer rows.Close()

	var records []*models.DebtRecord
	for rows.Next() {
		var r models.DebtRecord
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.IdeaID, &r.FinancierID, &r.DebtDate, &r.Amount, &r.RepaymentMode, &r.FullRepaymentDate, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan debt record: %w", err)
		}
		r.CreatedAt = time.Unix(createdAt, 0)
		records = append(records, &r)
	}
	return records, rows.Err()
}
