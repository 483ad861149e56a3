package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/freelance-market/market-backend/internal/auth"
	"github.com/freelance-market/market-backend/internal/users/domain"
)

// JWTAuthMiddleware validates bearer tokens and stores user identity in context
func JWTAuthMiddleware(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing authorization token"})
			c.Abort()
			return
		}

		claims, err := issuer.Verify(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(auth.CtxUserID, claims.Subject)
		c.Set(auth.CtxUserEmail, claims.Email)
		c.Set(auth.CtxUserRole, string(claims.Role))

		c.Next()
	}
}

// RequireRoles rejects the request unless the authenticated user's role is
// one of the given set. Runs after JWTAuthMiddleware.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := auth.UserRole(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "insufficient role"})
		c.Abort()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
