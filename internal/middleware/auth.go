package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/urbanthreads/storefront-service/internal/models"
)

const principalKey = "principal"

// Auth parses the Bearer token on every request in the group and attaches the
// acting principal to the context. Requests without a valid token are
// rejected before reaching any handler.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		principal, err := parseToken(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization token"})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireAdmin rejects requests whose principal lacks the admin flag. Must
// run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := PrincipalFrom(c)
		if principal == nil || !principal.IsAdmin {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin privilege required"})
			return
		}
		c.Next()
	}
}

// PrincipalFrom returns the authenticated principal attached by Auth, or nil.
func PrincipalFrom(c *gin.Context) *models.Principal {
	if v, exists := c.Get(principalKey); exists {
		if p, ok := v.(*models.Principal); ok {
			return p
		}
	}
	return nil
}

func parseToken(tokenString, secret string) (*models.Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}

	principal := &models.Principal{}
	if v, ok := claims["user_id"].(string); ok {
		principal.UserID = v
	}
	if v, ok := claims["name"].(string); ok {
		principal.Name = v
	}
	if v, ok := claims["is_admin"].(bool); ok {
		principal.IsAdmin = v
	}

	if principal.UserID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return principal, nil
}
