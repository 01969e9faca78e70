package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cookideas/server/internal/authz"
	"github.com/cookideas/server/internal/middleware"
	"github.com/cookideas/server/internal/services"
)

// FinanceHandler handles transaction ledger and debt record endpoints
type FinanceHandler struct {
	finances    *services.FinanceService
	debts       *services.DebtService
	memberships *services.MembershipService
	enforcer    *authz.Enforcer
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(finances *services.FinanceService, debts *services.DebtService, memberships *services.MembershipService, enforcer *authz.Enforcer) *FinanceHandler {
	return &FinanceHandler{finances: finances, debts: debts, memberships: memberships, enforcer: enforcer}
}

// requireMember aborts unless the caller belongs to the idea. Returns the
// user and idea id on success.
func (h *FinanceHandler) requireMember(c *gin.Context) (string, string, bool) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return "", "", false
	}
	ideaID := c.Param("id")

	_, isMember, err := h.memberships.RoleInIdea(c.Request.Context(), ideaID, user.ID)
	if err != nil {
		respondServiceError(c, err)
		return "", "", false
	}
	if !isMember {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return "", "", false
	}
	return user.ID, ideaID, true
}

// ListTransactions returns the idea's ledger, newest first
func (h *FinanceHandler) ListTransactions(c *gin.Context) {
	_, ideaID, ok := h.requireMember(c)
	if !ok {
		return
	}

	transactions, err := h.finances.ListTransactions(c.Request.Context(), ideaID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// AddTransactionRequest represents a new ledger entry
type AddTransactionRequest struct {
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
}

// AddTransaction records a ledger entry; requires manage-finances permission
func (h *FinanceHandler) AddTransaction(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}
	ideaID := c.Param("id")

	allowed, err := h.enforcer.CanManageFinances(user.ID, ideaID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var req AddTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	transaction, err := h.finances.AddTransaction(c.Request.Context(), ideaID, services.AddTransactionParams{
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        req.Date,
		Category:    req.Category,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, transaction)
}

// Summary returns the idea's income, expenses, and balance
func (h *FinanceHandler) Summary(c *gin.Context) {
	_, ideaID, ok := h.requireMember(c)
	if !ok {
		return
	}

	summary, err := h.finances.Summary(c.Request.Context(), ideaID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ListDebts returns the idea's debt records
func (h *FinanceHandler) ListDebts(c *gin.Context) {
	_, ideaID, ok := h.requireMember(c)
	if !ok {
		return
	}

	records, err := h.debts.ListByIdea(c.Request.Context(), ideaID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
