package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"game_market_back_end/internal/models"
)

const (
	// AuthCacheTTL borne la durée de vie d'une résolution token → utilisateur
	// pour éviter une requête MongoDB à chaque appel authentifié.
	AuthCacheTTL = 15 * time.Minute
)

// TokenResolver est implémenté par store.UserStore.
type TokenResolver interface {
	FindByToken(ctx context.Context, token string) (*models.User, error)
}

// AuthCache résout un token opaque vers son utilisateur, Redis d'abord,
// MongoDB ensuite.
type AuthCache struct {
	redis *redis.Client
	users TokenResolver
}

func NewAuthCache(rdb *redis.Client, users TokenResolver) *AuthCache {
	return &AuthCache{redis: rdb, users: users}
}

func (c *AuthCache) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	key := "auth:token:" + token

	if data, err := c.redis.Get(ctx, key).Result(); err == nil {
		var user models.User
		if json.Unmarshal([]byte(data), &user) == nil {
			return &user, nil
		}
	}

	user, err := c.users.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if jsonData, err := json.Marshal(user); err == nil {
		c.redis.Set(ctx, key, jsonData, AuthCacheTTL)
	}

	return user, nil
}

// InvalidateToken retire une entrée du cache (changement de mot de passe, etc.).
func (c *AuthCache) InvalidateToken(ctx context.Context, token string) {
	c.redis.Del(ctx, "auth:token:"+token)
}
