package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/models"
	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/service"
	appErrors "github.com/VWTAlpine/Gradevue2UI-sub000/pkg/errors"
	"github.com/VWTAlpine/Gradevue2UI-sub000/pkg/response"
)

// ContextClaimsKey is the gin context key storing JWT claims.
const ContextClaimsKey = "currentClaims"

// ContextSessionKey is the gin context key storing the resolved session.
const ContextSessionKey = "currentSession"

// Session protects routes by requiring a valid access token and resolving
// the backing grade session. A token that outlives the in-memory session
// (process restart) is still honoured when a persisted snapshot with
// sealed credentials exists.
func Session(manager *service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := manager.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		session, err := manager.Resolve(c.Request.Context(), claims)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextClaimsKey, claims)
		c.Set(ContextSessionKey, session)
		c.Next()
	}
}

// SessionFrom extracts the resolved grade session from the gin context.
func SessionFrom(c *gin.Context) (*service.GradeSession, bool) {
	value, ok := c.Get(ContextSessionKey)
	if !ok {
		return nil, false
	}
	session, ok := value.(*service.GradeSession)
	return session, ok
}

// ClaimsFrom extracts the validated JWT claims from the gin context.
func ClaimsFrom(c *gin.Context) (*models.JWTClaims, bool) {
	value, ok := c.Get(ContextClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	return claims, ok
}
