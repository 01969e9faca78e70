package models

import "time"

// Repayment modes for debt records.
const (
	RepaymentLumpSum          = "lump_sum"
	RepaymentMonthly          = "monthly"
	RepaymentQuarterly        = "quarterly"
	RepaymentAnnual           = "annual"
	RepaymentRevenueBased     = "revenue_based"
	RepaymentEquityConversion = "equity_conversion"
)

// DebtRecord captures a single debt financing event. Records are created once
// per debt-financier assignment and never mutated afterwards.
type DebtRecord struct {
	ID                string    `json:"id"`
	IdeaID            string    `json:"idea_id"`
	FinancierID       string    `json:"financier_id"`
	DebtDate          string    `json:"debt_date"` // ISO date (YYYY-MM-DD)
	Amount            float64   `json:"amount"`
	RepaymentMode     string    `json:"repayment_mode"`
	FullRepaymentDate string    `json:"full_repayment_date"`
	CreatedAt         time.Time `json:"created_at"`
}

// Transaction types.
const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// Transaction is a ledger entry against an idea.
type Transaction struct {
	ID          string    `json:"id"`
	IdeaID      string    `json:"idea_id"`
	Type        string    `json:"type"` // income | expense
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Date        string    `json:"date"` // ISO date (YYYY-MM-DD)
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

// FinanceSummary aggregates an idea's ledger.
type FinanceSummary struct {
	TotalIncome   float64 `json:"total_income"`
	TotalExpenses float64 `json:"total_expenses"`
	Balance       float64 `json:"balance"`
}
