package mw

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"hostel-admin/internal/auth"
)

const (
	claimsKey   = "claims"
	hostelIDKey = "hostelId"
)

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "message": msg})
}

// Authenticate validates the bearer token and stores its claims on the context.
func Authenticate(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abort(c, http.StatusUnauthorized, "missing or invalid authorization header")
			return
		}
		claims, err := issuer.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole rejects requests whose token carries a different role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			abort(c, http.StatusUnauthorized, "not authenticated")
			return
		}
		if claims.Role != role {
			abort(c, http.StatusForbidden, "insufficient permissions")
			return
		}
		c.Next()
	}
}

// HostelScope requires a positive hostelId query parameter.
func HostelScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Query("hostelId"), 10, 64)
		if err != nil || id <= 0 {
			abort(c, http.StatusBadRequest, "hostelId query parameter is required")
			return
		}
		c.Set(hostelIDKey, id)
		c.Next()
	}
}

// Claims returns the token claims stored by Authenticate, or nil.
func Claims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// HostelID returns the hostel stored by HostelScope.
func HostelID(c *gin.Context) int64 {
	return c.GetInt64(hostelIDKey)
}
