package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole est le contrôle d'accès appliqué uniformément au niveau du
// routage : un seul point de décision, pas de vérification ad hoc dans les
// handlers.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, exists := c.Get("role")
		if !exists || current != role {
			c.JSON(http.StatusForbidden, gin.H{
				"message": "Accès interdit. Vous devez être administrateur pour accéder à cette ressource.",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
