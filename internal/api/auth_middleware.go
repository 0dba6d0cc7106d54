package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"leilao/internal/entity"
)

const currentUserContextKey = "current-user"

// RequestUser is the acting identity decoded from the access token. The token
// itself is the source of truth; no database lookup happens per request.
type RequestUser struct {
	ID    uint
	Name  string
	Email string
	Role  string
}

// IsAdmin reports whether the user holds the admin role.
func (u *RequestUser) IsAdmin() bool {
	if u == nil {
		return false
	}
	return u.Role == entity.UserRoleAdmin
}

// IsManager reports whether the user holds the manager or admin role.
func (u *RequestUser) IsManager() bool {
	if u == nil {
		return false
	}
	switch u.Role {
	case entity.UserRoleAdmin, entity.UserRoleManager:
		return true
	default:
		return false
	}
}

// AuthMiddleware validates the Bearer token and stores the acting identity in
// the request context. Missing, malformed, expired and otherwise invalid
// tokens each abort with their own stable message.
func (h *HTTPHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if strings.TrimSpace(authHeader) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{Message: MsgMissingToken})
			return
		}

		// Only a fully absent header counts as "no token"; a Bearer scheme
		// carrying a blank token is malformed, not missing.
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(strings.TrimSpace(parts[0]), "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{Message: MsgInvalidToken})
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{Message: MsgInvalidToken})
			return
		}

		claims, err := h.authManager.ParseToken(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{Message: MsgExpiredToken})
				return
			}
			logrus.WithError(err).Warn("failed to parse jwt token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{Message: MsgInvalidToken})
			return
		}

		c.Set(currentUserContextKey, &RequestUser{
			ID:    claims.UserID,
			Name:  claims.Name,
			Email: claims.Email,
			Role:  claims.Role,
		})
		c.Next()
	}
}

// RequireAdmin rejects any identity that is not an admin.
func (h *HTTPHandler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, APIError{Message: MsgAdminRequired})
			return
		}
		c.Next()
	}
}

// RequireManager rejects any identity that is neither a manager nor an admin.
func (h *HTTPHandler) RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsManager() {
			c.AbortWithStatusJSON(http.StatusForbidden, APIError{Message: MsgManagerRequired})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated identity from the context, nil when
// the request did not pass AuthMiddleware.
func CurrentUser(c *gin.Context) *RequestUser {
	value, exists := c.Get(currentUserContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*RequestUser)
	if !ok {
		return nil
	}
	return user
}
