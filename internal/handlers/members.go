package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cookideas/server/internal/middleware"
	"github.com/cookideas/server/internal/services"
)

// MemberHandler handles team membership endpoints
type MemberHandler struct {
	memberships *services.MembershipService
	roles       *services.RoleService
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(memberships *services.MembershipService, roles *services.RoleService) *MemberHandler {
	return &MemberHandler{memberships: memberships, roles: roles}
}

// List returns the idea's members with their profiles
func (h *MemberHandler) List(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}
	ideaID := c.Param("id")

	_, isMember, err := h.memberships.RoleInIdea(c.Request.Context(), ideaID, user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !isMember {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	members, err := h.memberships.ListMembers(c.Request.Context(), ideaID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// AssignRoleRequest represents a role assignment request. Recipient is a
// username or email.
type AssignRoleRequest struct {
	Recipient         string   `json:"recipient"`
	Role              string   `json:"role"`
	EquityPercentage  *float64 `json:"equity_percentage"`
	ExpiresAt         *string  `json:"expires_at"` // RFC 3339, contractors only
	DebtAmount        *float64 `json:"debt_amount"`
	DebtDate          string   `json:"debt_date"`
	RepaymentMode     string   `json:"repayment_mode"`
	FullRepaymentDate string   `json:"full_repayment_date"`
}

// AssignRole invokes the equity/role reconciliation engine
func (h *MemberHandler) AssignRole(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}
	ideaID := c.Param("id")

	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Recipient == "" || req.Role == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipient and role are required"})
		return
	}

	params := services.AssignRoleParams{
		IdeaID:            ideaID,
		Recipient:         req.Recipient,
		Role:              req.Role,
		EquityPercentage:  req.EquityPercentage,
		DebtAmount:        req.DebtAmount,
		DebtDate:          req.DebtDate,
		RepaymentMode:     req.RepaymentMode,
		FullRepaymentDate: req.FullRepaymentDate,
	}
	if req.ExpiresAt != nil {
		t, err := time.Parse(time.RFC3339, *req.ExpiresAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expires_at must be an RFC 3339 timestamp"})
			return
		}
		params.ExpiresAt = &t
	}

	if err := h.roles.AssignRole(c.Request.Context(), user.ID, params); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role assigned"})
}

// Remove deletes a viewer or contractor membership
func (h *MemberHandler) Remove(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	if err := h.memberships.RemoveMember(c.Request.Context(), user.ID, c.Param("membershipId")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "member removed"})
}
