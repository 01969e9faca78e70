package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cookideas/server/internal/authz"
	"github.com/cookideas/server/internal/middleware"
	"github.com/cookideas/server/internal/services"
	"github.com/cookideas/server/internal/storage"
)

// DocumentHandler handles document upload/download endpoints
type DocumentHandler struct {
	documents   *services.DocumentService
	memberships *services.MembershipService
	enforcer    *authz.Enforcer
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documents *services.DocumentService, memberships *services.MembershipService, enforcer *authz.Enforcer) *DocumentHandler {
	return &DocumentHandler{documents: documents, memberships: memberships, enforcer: enforcer}
}

// List returns the idea's document metadata
func (h *DocumentHandler) List(c *gin.Context) {
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

	docs, err := h.documents.List(c.Request.Context(), ideaID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

// Upload stores a document from a multipart form; requires write permission
func (h *DocumentHandler) Upload(c *gin.Context) {
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
	if !canWrite {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	defer file.Close()

	name := c.PostForm("name")
	if name == "" {
		name = fileHeader.Filename
	}
	contentType := fileHeader.Header.Get("Content-Type")

	doc, err := h.documents.Upload(c.Request.Context(), ideaID, user.ID, name, contentType, file, fileHeader.Size)
	if err != nil {
		if err == storage.ErrDisabled {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": storage.ErrDisabled.Error()})
			return
		}
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// Download streams a document's content
func (h *DocumentHandler) Download(c *gin.Context) {
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

	doc, obj, err := h.documents.Open(c.Request.Context(), ideaID, c.Param("docId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer obj.Reader.Close()

	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(doc.Name))
	c.DataFromReader(http.StatusOK, obj.Size, obj.ContentType, obj.Reader, nil)
}

// Delete removes a document; requires edit permission
func (h *DocumentHandler) Delete(c *gin.Context) {
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

	if err := h.documents.Delete(c.Request.Context(), ideaID, c.Param("docId")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "document deleted"})
}
