package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"pawclub/internal/auth"
)

// AccessLevel is the authentication state a route requires.
type AccessLevel int

const (
	// Public routes serve anonymous requests. A present token is still
	// resolved so handlers can personalize, but a bad token is ignored.
	Public AccessLevel = iota
	// Authenticated routes reject requests without a valid principal.
	Authenticated
)

// RouteRule maps a method and gin route pattern to a required access level.
// Method "*" matches any method.
type RouteRule struct {
	Method  string
	Pattern string
	Level   AccessLevel
}

const principalKey = "pawclub.principal"

// AuthGate intercepts every request once, resolves the bearer token if one is
// present and enforces the route table. The first matching rule wins;
// unmatched requests require authentication.
func AuthGate(authn *auth.Authenticator, rules []RouteRule, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		level := levelFor(rules, c.Request.Method, c.FullPath())

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			if level == Public {
				c.Next()
				return
			}
			unauthorized(c)
			return
		}

		principal, err := authn.ResolvePrincipal(token)
		if err != nil {
			// Never log the token itself, only the failure cause.
			if level == Public {
				logger.WithError(err).Debug("ignoring bad token on public route")
				c.Next()
				return
			}
			logger.WithError(err).Info("rejecting unauthenticated request")
			unauthorized(c)
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// PrincipalFrom returns the principal attached by the gate, if any.
func PrincipalFrom(c *gin.Context) (*auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	principal, ok := v.(*auth.Principal)
	return principal, ok
}

func levelFor(rules []RouteRule, method, pattern string) AccessLevel {
	for _, rule := range rules {
		if rule.Method != "*" && rule.Method != method {
			continue
		}
		if rule.Pattern == pattern {
			return rule.Level
		}
	}
	return Authenticated
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
