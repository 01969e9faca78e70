package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cookideas/server/internal/middleware"
	"github.com/cookideas/server/internal/services"
)

// NDAHandler handles NDA text and acceptance endpoints
type NDAHandler struct {
	ideas       *services.IdeaService
	memberships *services.MembershipService
	ndas        *services.NDAService
}

// NewNDAHandler creates a new NDAHandler
func NewNDAHandler(ideas *services.IdeaService, memberships *services.MembershipService, ndas *services.NDAService) *NDAHandler {
	return &NDAHandler{ideas: ideas, memberships: memberships, ndas: ndas}
}

// Get returns the NDA text for an idea (custom or default) along with the
// caller's gate state
func (h *NDAHandler) Get(c *gin.Context) {
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
	if !isMember {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	content, custom, err := h.ndas.Content(c.Request.Context(), idea)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	state, err := h.ndas.State(c.Request.Context(), ideaID, user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"content": content,
		"custom":  custom,
		"state":   state,
	})
}

// UpdateNDARequest represents an NDA text update
type UpdateNDARequest struct {
	Content string `json:"content"`
}

// Update upserts the idea's custom NDA text
func (h *NDAHandler) Update(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	var req UpdateNDARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	nda, err := h.ndas.Update(c.Request.Context(), user.ID, c.Param("id"), req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, nda)
}

// Accept records the caller's acceptance of the idea's NDA
func (h *NDAHandler) Accept(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	if err := h.ndas.Accept(c.Request.Context(), c.Param("id"), user.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "NDA accepted"})
}
