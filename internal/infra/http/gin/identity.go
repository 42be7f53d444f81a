package ginserver

import (
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"
)

const principalContextKey = "bikely.principal"

// principal is the authenticated caller as asserted by the edge gateway.
// The gateway terminates authentication and forwards the verified identity
// in headers; this service only consumes it.
type principal struct {
	ID        string
	AccountID string
}

// IdentityMiddleware lifts the gateway identity headers into the request
// context. Requests without an identity pass through; handlers that need
// one reject them via requireUser.
type IdentityMiddleware struct{}

func (m IdentityMiddleware) Handle(c *gin.Context) {
	id := strings.TrimSpace(c.GetHeader("X-User-ID"))
	if id != "" {
		c.Set(principalContextKey, principal{
			ID:        id,
			AccountID: strings.TrimSpace(c.GetHeader("X-Payout-Account")),
		})
	}
	c.Next()
}

func currentPrincipal(c *gin.Context) (principal, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return principal{}, false
	}
	p, ok := val.(principal)
	return p, ok
}

func requireUser(c *gin.Context) (principal, bool) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return principal{}, false
	}
	return p, true
}
