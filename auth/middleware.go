// auth/middleware.go
package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/revguard/api/dao"
	"github.com/revguard/api/db"
	apperrors "github.com/revguard/api/errors"
	logger "github.com/revguard/api/logging"
	"github.com/revguard/api/model"
	"github.com/revguard/api/rbac"
	"github.com/revguard/api/util"
)

const (
	currentUserKey = "currentUser"
	tokenIDKey     = "tokenID"
	tokenExpiryKey = "tokenExpiry"
)

// TokenRevocations answers whether a token ID has been revoked before its
// natural expiry.
type TokenRevocations interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisRevocations backs the revocation list with the shared Redis client.
type RedisRevocations struct{}

func (RedisRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return db.IsTokenRevoked(ctx, tokenID)
}

// Authenticate resolves the bearer token to a live user and stores it in the
// request context. Every failure mode, missing header, bad signature, expired
// or revoked token, unknown or deleted user, yields the same generic 401 so
// responses never disclose account existence.
func Authenticate(userDAO *dao.UserDAO, revocations TokenRevocations) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			unauthorized(c)
			return
		}

		claims, err := ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			unauthorized(c)
			return
		}

		if revocations != nil && claims.ID != "" {
			revoked, err := revocations.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				logger.Error("Failed to check token revocation", zap.Error(err))
				unauthorized(c)
				return
			}
			if revoked {
				unauthorized(c)
				return
			}
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			unauthorized(c)
			return
		}

		user, err := userDAO.GetByID(c.Request.Context(), userID)
		if err != nil {
			unauthorized(c)
			return
		}

		c.Set(currentUserKey, user)
		c.Set(tokenIDKey, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(tokenExpiryKey, claims.ExpiresAt.Time)
		}
		c.Next()
	}
}

// RequireActive rejects requests from deactivated accounts. Runs after
// Authenticate so the token itself has already been accepted.
func RequireActive() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			unauthorized(c)
			return
		}
		if !user.IsActive {
			util.RespondWithError(c, http.StatusForbidden, "Inactive user", apperrors.ErrInactiveUser)
			return
		}
		c.Next()
	}
}

// RequireRole admits only users holding exactly the given role. There is no
// role hierarchy; administrators needing access to a non-admin route must be
// granted it explicitly in the route table.
func RequireRole(role model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			unauthorized(c)
			return
		}
		if user.Role != role {
			util.RespondWithError(c, http.StatusForbidden, "Insufficient privileges", apperrors.ErrRoleMismatch)
			return
		}
		c.Next()
	}
}

// RequirePermission admits users whose effective permission set contains the
// code. Administrators pass unconditionally through the resolver bypass.
func RequirePermission(resolver *rbac.Resolver, code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			unauthorized(c)
			return
		}
		allowed, err := resolver.HasPermission(c.Request.Context(), user, code)
		if err != nil {
			util.RespondWithError(c, http.StatusForbidden, "Insufficient privileges", err)
			return
		}
		if !allowed {
			util.RespondWithError(c, http.StatusForbidden, "Insufficient privileges", apperrors.ErrRoleMismatch)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user placed by Authenticate.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok
}

// CurrentToken returns the bearer token's ID and expiry placed by
// Authenticate. Used by logout to revoke for the remaining lifetime.
func CurrentToken(c *gin.Context) (tokenID string, expiry time.Time, ok bool) {
	idValue, exists := c.Get(tokenIDKey)
	if !exists {
		return "", time.Time{}, false
	}
	tokenID, ok = idValue.(string)
	if !ok || tokenID == "" {
		return "", time.Time{}, false
	}
	if expValue, exists := c.Get(tokenExpiryKey); exists {
		if t, isTime := expValue.(time.Time); isTime {
			expiry = t
		}
	}
	return tokenID, expiry, true
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, util.Envelope{
		Status:  http.StatusUnauthorized,
		Message: "Could not validate credentials",
		Data:    []interface{}{},
	})
}
