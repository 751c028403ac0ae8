package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"game_market_back_end/internal/models"
)

type staticResolver struct {
	user *models.User
}

func (r *staticResolver) ResolveToken(_ context.Context, token string) (*models.User, error) {
	if r.user != nil && r.user.Token == token {
		return r.user, nil
	}
	return nil, mongo.ErrNoDocuments
}

func newAuthRouter(resolver UserResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/", AuthRequired(resolver))
	group.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": c.GetString("email"), "role": c.GetString("role")})
	})
	group.GET("/admin", RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doAuth(r *gin.Engine, path, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Email: "jean@example.com", Role: models.RoleUser, Token: "tok123"}
	r := newAuthRouter(&staticResolver{user: user})

	assert.Equal(t, http.StatusUnauthorized, doAuth(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doAuth(r, "/me", "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, doAuth(r, "/me", "Bearer mauvais").Code)

	w := doAuth(r, "/me", "Bearer tok123")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jean@example.com")
}

func TestRequireRole(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Email: "jean@example.com", Role: models.RoleUser, Token: "tok123"}
	r := newAuthRouter(&staticResolver{user: user})

	w := doAuth(r, "/admin", "Bearer tok123")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Accès interdit")

	admin := &models.User{ID: primitive.NewObjectID(), Email: "root@example.com", Role: models.RoleAdmin, Token: "tokAdmin"}
	r = newAuthRouter(&staticResolver{user: admin})
	assert.Equal(t, http.StatusOK, doAuth(r, "/admin", "Bearer tokAdmin").Code)
}
