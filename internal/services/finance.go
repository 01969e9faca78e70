package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cookideas/server/internal/models"
)

// FinanceService handles an idea's transaction ledger
type FinanceService struct {
	db *sql.DB
}

// NewFinanceService creates a new FinanceService
func NewFinanceService(db *sql.DB) *FinanceService {
	return &FinanceService{db: db}
}

// AddTransactionParams holds the fields for a new ledger entry.
type AddTransactionParams struct {
	Type        string
	Amount      float64
	Description string
	Date        string // ISO date (YYYY-MM-DD)
	Category    string
}

// AddTransaction records a ledger entry. Permission is checked by the caller.
func (s *FinanceService) AddTransaction(ctx context.Context, ideaID string, p AddTransactionParams) (*models.Transaction, error) {
	if p.Type != models.TransactionIncome && p.Type != models.TransactionExpense {
		return nil, newError(ErrCodeInvalidInput, "type must be income or expense")
	}
	if p.Amount <= 0 {
		return nil, newError(ErrCodeInvalidInput, "amount must be positive")
	}
	if p.Date == "" {
		return nil, newError(ErrCodeInvalidInput, "date is required")
	}

	id := uuid.New().String()
	now := time.Now().Unix()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO transactions (id, idea_id, type, amount, description, date, category, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		id, ideaID, p.Type, p.Amount, p.Description, p.Date, p.Category, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add transaction: %w", err)
	}

	return &models.Transaction{
		ID:          id,
		IdeaID:      ideaID,
		Type:        p.Type,
		Amount:      p.Amount,
		Description: p.Description,
		Date:        p.Date,
		Category:    p.Category,
		CreatedAt:   time.Unix(now, 0),
	}, nil
}

// ListTransactions returns the idea's ledger entries, newest first.
func (s *FinanceService) ListTransactions(ctx context.Context, ideaID string) ([]*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, idea_id, type, amount, description, date, category, created_at FROM transactions WHERE idea_id = ? ORDER BY date DESC, created_at DESC",
		ideaID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		var t models.Transaction
		var createdAt int64
		if err := rows.Scan(&t.ID, &t.IdeaID, &t.Type, &t.Amount, &t.Description, &t.Date, &t.Category, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.CreatedAt = time.Unix(createdAt, 0)
		transactions = append(transactions, &t)
	}
	return transactions, rows.Err()
}

// Summary aggregates the idea's ledger into income, expenses, and balance.
func (s *FinanceService) Summary(ctx context.Context, ideaID string) (*models.FinanceSummary, error) {
	var income, expenses float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0)
		 FROM transactions WHERE idea_id = ?`,
		ideaID,
	).Scan(&income, &expenses)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize finances: %w", err)
	}

	return &models.FinanceSummary{
		TotalIncome:   income,
		TotalExpenses: expenses,
		Balance:       income - expenses,
	}, nil
}
