// Package auth holds password hashing and the bearer-token middleware. The
// token is the username itself; nothing is signed or verified.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skufu/medplat/internal/store"
)

const (
	RoleAdmin = "admin"

	userKey = "auth.user"
)

var ErrMissingToken = errors.New("missing or malformed bearer token")

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// TokenFromHeader extracts the token from an "Authorization: Bearer <token>"
// header value.
func TokenFromHeader(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMissingToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

// IssueToken returns the token handed out at login.
func IssueToken(u *store.User) string {
	return u.Username
}

type UserLookup interface {
	GetUser(ctx context.Context, username string) (*store.User, error)
}

// Middleware resolves the bearer token to a stored user. Missing tokens and
// unknown users are rejected with 401.
func Middleware(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := TokenFromHeader(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		user, err := users.GetUser(c.Request.Context(), token)
		if errors.Is(err, store.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user", "details": err.Error()})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// RequireRole must run after Middleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if user.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*store.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*store.User)
	return user, ok
}
