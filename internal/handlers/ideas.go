package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cookideas/server/internal/authz"
	"github.com/cookideas/server/internal/middleware"
	"github.com/cookideas/server/internal/services"
)

// IdeaHandler handles idea endpoints, including the contractor NDA gate on
// the idea view.
type IdeaHandler struct {
	ideas       *services.IdeaService
	memberships *services.MembershipService
	ndas        *services.NDAService
	enforcer    *authz.Enforcer
}

// NewIdeaHandler creates a new IdeaHandler
func NewIdeaHandler(ideas *services.IdeaService, memberships *services.MembershipService, ndas *services.NDAService, enforcer *authz.Enforcer) *IdeaHandler {
	return &IdeaHandler{ideas: ideas, memberships: memberships, ndas: ndas, enforcer: enforcer}
}

// CreateIdeaRequest represents an idea creation request
type CreateIdeaRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	ProblemCategory string `json:"problem_category"`
	Solution        string `json:"solution"`
	Visibility      bool   `json:"visibility"`
}

// Create creates a new idea with the caller as owner at 100% equity
func (h *IdeaHandler) Create(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	var req CreateIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	idea, err := h.ideas.CreateIdea(c.Request.Context(), user.ID, services.CreateIdeaParams{
		Name:            req.Name,
		Description:     req.Description,
		ProblemCategory: req.ProblemCategory,
		Solution:        req.Solution,
		Visibility:      req.Visibility,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, idea)
}

// List lists the ideas the caller created or belongs to
func (h *IdeaHandler) List(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	ideas, err := h.ideas.ListIdeasByUser(c.Request.Context(), user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ideas)
}

// ListPublic lists publicly visible ideas
func (h *IdeaHandler) ListPublic(c *gin.Context) {
	ideas, err := h.ideas.ListPublicIdeas(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ideas)
}

// Get returns an idea. Contractors who have not yet accepted the idea's NDA
// get the NDA text and an nda_required marker instead of the idea body.
func (h *IdeaHandler) Get(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}
	ideaID := c.Param("id")

	idea, err := h.ideas.GetIdeaByID(c.Request.Context(), ideaID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	_, isMember, err := h.memberships.RoleInIdea(c.Request.Context(), ideaID, user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !isMember && !idea.Visibility {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	state, err := h.ndas.State(c.Request.Context(), ideaID, user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if state == services.GatePending {
		content, custom, err := h.ndas.Content(c.Request.Context(), idea)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"nda_required": true,
			"idea_id":      idea.ID,
			"idea_name":    idea.Name,
			"nda": gin.H{
				"content": content,
				"custom":  custom,
			},
		})
		return
	}

	c.JSON(http.StatusOK, idea)
}

// UpdateIdeaRequest represents a partial idea update
type UpdateIdeaRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	ProblemCategory *string `json:"problem_category"`
	Solution        *string `json:"solution"`
	Visibility      *bool   `json:"visibility"`
}

// Update applies a partial update to an idea
func (h *IdeaHandler) Update(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}
	ideaID := c.Param("id")

	canEdit, err := h.enforcer.CanEdit(user.ID, ideaID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !canEdit {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var req UpdateIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	idea, err := h.ideas.UpdateIdea(c.Request.Context(), ideaID, services.UpdateIdeaParams{
		Name:            req.Name,
		Description:     req.Description,
		ProblemCategory: req.ProblemCategory,
		Solution:        req.Solution,
		Visibility:      req.Visibility,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, idea)
}

// Permissions returns the caller's derived permissions on an idea
func (h *IdeaHandler) Permissions(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}
	ideaID := c.Param("id")

	canWrite, err := h.enforcer.CanWrite(user.ID, ideaID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	canEdit, err := h.enforcer.CanEdit(user.ID, ideaID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	canManageFinances, err := h.enforcer.CanManageFinances(user.ID, ideaID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"can_write":           canWrite,
		"can_edit":            canEdit,
		"can_manage_finances": canManageFinances,
	})
}
