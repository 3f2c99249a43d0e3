package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"vibestays/internal/app/policies"
	authsvc "vibestays/internal/app/services/auth"
	domainadmin "vibestays/internal/domain/admin"
	domainauth "vibestays/internal/domain/auth"
)

const (
	principalContextKey = "vibestays.principal"
	tokenContextKey     = "vibestays.token"
)

// AuthMiddleware resolves bearer tokens into a principal. Requests without a valid
// token continue anonymously; admin routes reject them later.
type AuthMiddleware struct {
	Service *authsvc.Service
	Logger  *slog.Logger
}

func (m AuthMiddleware) Handle(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" || m.Service == nil {
		c.Next()
		return
	}
	resolved, err := m.Service.ResolveToken(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, domainauth.ErrSessionNotFound) && m.Logger != nil {
			m.Logger.Debug("token validation failed", "error", err)
		}
		c.Next()
		return
	}
	user := resolved.User
	p := policies.Principal{
		UserID: string(user.ID),
		Email:  user.Email,
		Name:   user.Name,
		Role:   string(user.Role),
	}
	c.Set(principalContextKey, p)
	c.Set(tokenContextKey, token)
	c.Request = c.Request.WithContext(policies.ContextWithPrincipal(c.Request.Context(), p))
	c.Next()
}

// RequireAdmin aborts requests that carry no admin principal.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := currentPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
			return
		}
		if !p.HasRole(string(domainadmin.RoleAdmin)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

func currentPrincipal(c *gin.Context) (policies.Principal, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return policies.Principal{}, false
	}
	p, ok := val.(policies.Principal)
	return p, ok
}

func bearerToken(c *gin.Context) string {
	if token := c.GetString(tokenContextKey); token != "" {
		return token
	}
	return extractBearerToken(c.GetHeader("Authorization"))
}

func extractBearerToken(header string) string {
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
