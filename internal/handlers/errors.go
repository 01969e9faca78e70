package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cookideas/server/internal/services"
)

// respondServiceError maps a service error to an HTTP status and writes the
// user-facing message. Store-level details stay in the log.
func respondServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch services.CodeOf(err) {
	case services.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
	case services.ErrCodeInsufficientPermission, services.ErrCodeRemovalForbidden:
		status = http.StatusForbidden
	case services.ErrCodeNotFound, services.ErrCodeRecipientNotFound:
		status = http.StatusNotFound
	case services.ErrCodeSelfAssignment,
		services.ErrCodeIncompleteDebtData,
		services.ErrCodeInsufficientEquity,
		services.ErrCodeExcessiveTransfer,
		services.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	case services.ErrCodeProfileLookupFailed,
		services.ErrCodeMembershipInsertFailed,
		services.ErrCodeDebtRecordInsertFailed,
		services.ErrCodeTransactionInsertFailed,
		services.ErrCodeDeleteFailed:
		status = http.StatusInternalServerError
	}

	if status == http.StatusInternalServerError {
		log.Printf("[handlers] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": services.UserMessage(err)})
}
