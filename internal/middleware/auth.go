package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"game_market_back_end/internal/models"
)

// UserResolver résout un bearer token opaque vers l'utilisateur qui le porte.
// Implémenté par cache.AuthCache (Redis + MongoDB).
type UserResolver interface {
	ResolveToken(ctx context.Context, token string) (*models.User, error)
}

// AuthRequired valide le token opaque du header Authorization et pose
// l'utilisateur dans le contexte Gin. Seuls les comptes vérifiés passent.
func AuthRequired(resolver UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Utilisateur non authentifié : Token manquant ou incorrect."})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Utilisateur non authentifié : Token non valide."})
			c.Abort()
			return
		}

		user, err := resolver.ResolveToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Utilisateur non trouvé"})
			c.Abort()
			return
		}

		c.Set("userId", user.ID.Hex())
		c.Set("email", user.Email)
		c.Set("role", user.Role)
		c.Next()
	}
}
