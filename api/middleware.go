package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mdsabbir/vaxchain/internal/auth"
	"github.com/mdsabbir/vaxchain/internal/domain"
	"github.com/mdsabbir/vaxchain/internal/policy"
)

const userContextKey = "currentUser"

// AuthRequired verifies the bearer token and stores the caller identity on
// the request context. Token issuance belongs to the identity provider.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		user, err := auth.ParseValidate(token, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(userContextKey, *user)
		c.Next()
	}
}

// RequireCapability evaluates the caller's role against the policy table
// before the handler runs.
func RequireCapability(allowed func(policy.Capabilities) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allowed(policy.For(currentUser(c).Role)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "operation not permitted for role"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) domain.User {
	v, _ := c.Get(userContextKey)
	user, _ := v.(domain.User)
	return user
}
