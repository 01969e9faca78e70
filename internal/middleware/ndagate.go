package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cookideas/server/internal/services"
)

// NDAGateMiddleware blocks contractors who have not yet accepted the idea's
// NDA from the idea's sub-resources (members, finance, documents). The NDA
// endpoints themselves stay reachable so the contractor can read and accept
// the agreement. Expects the idea id in the "id" route parameter and runs
// after AuthMiddleware.
func NDAGateMiddleware(ndas *services.NDAService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUserFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		state, err := ndas.State(c.Request.Context(), c.Param("id"), user.ID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to check NDA status"})
			return
		}
		if state == services.GatePending {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":        "NDA acceptance required",
				"nda_required": true,
			})
			return
		}

		c.Next()
	}
}
