package middleware

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"hotel-billing/services"
	"hotel-billing/utils"
)

const identityKey = "identity"

// IdentityResolver loads the current role and permissions of a staff account.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, staffID uint) (services.Identity, error)
}

// Auth resolves the bearer token into a services.Identity. Requests without a
// valid token continue anonymously; every service operation then refuses
// them with an authentication error.
func Auth(secret string, resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			c.Next()
			return
		}
		claims, err := utils.ParseAccessToken(secret, strings.TrimSpace(raw))
		if err != nil {
			c.Next()
			return
		}
		staffID, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil || staffID == 0 {
			c.Next()
			return
		}
		id, err := resolver.ResolveIdentity(c.Request.Context(), uint(staffID))
		if err != nil {
			if services.KindOf(err) != services.KindAuthorization {
				log.Printf("⚠️  resolve identity for staff %d: %v", staffID, err)
			}
			c.Next()
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// IdentityFrom returns the caller set by Auth, or the anonymous identity.
func IdentityFrom(c *gin.Context) services.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(services.Identity); ok {
			return id
		}
	}
	return services.Identity{}
}
