package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	LoginMaxAttempts          = 5
	SignupMaxAttempts         = 3
	ForgotPasswordMaxAttempts = 3

	LoginCooldown          = 15 * time.Minute
	SignupCooldown         = 30 * time.Minute
	ForgotPasswordCooldown = 10 * time.Minute
)

// RateLimiter compte les tentatives par email dans Redis.
type RateLimiter struct {
	redis *redis.Client
}

func NewRateLimiter(rdb *redis.Client) *RateLimiter {
	return &RateLimiter{redis: rdb}
}

// LoginRateLimit limite les tentatives de connexion par email.
func (r *RateLimiter) LoginRateLimit() gin.HandlerFunc {
	return r.emailRateLimit("login_attempts", LoginMaxAttempts, LoginCooldown)
}

// SignupRateLimit limite les créations de compte par email.
func (r *RateLimiter) SignupRateLimit() gin.HandlerFunc {
	return r.emailRateLimit("signup_attempts", SignupMaxAttempts, SignupCooldown)
}

// ResetPasswordRateLimit limite les demandes de réinitialisation par email.
func (r *RateLimiter) ResetPasswordRateLimit() gin.HandlerFunc {
	return r.emailRateLimit("reset_attempts", ForgotPasswordMaxAttempts, ForgotPasswordCooldown)
}

func (r *RateLimiter) emailRateLimit(prefix string, max int, cooldown time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Lire le body sans le consommer
		bodyBytes, _ := io.ReadAll(c.Request.Body)

		var input struct {
			Email string `json:"email"`
		}
		if err := json.Unmarshal(bodyBytes, &input); err != nil || input.Email == "" {
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			c.Next()
			return
		}

		// Remettre le body pour les handlers suivants
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		ctx := c.Request.Context()
		key := fmt.Sprintf("%s:%s", prefix, input.Email)

		attempts, err := r.redis.Incr(ctx, key).Result()
		if err != nil {
			c.Next()
			return
		}
		if attempts == 1 {
			r.redis.Expire(ctx, key, cooldown)
		}

		if attempts > int64(max) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"message": "Trop de tentatives, veuillez réessayer plus tard",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
