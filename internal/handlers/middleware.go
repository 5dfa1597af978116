package handlers

import (
	"net/http"
	"strings"

	"contactbook/internal/models"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

// authMiddleware authenticates the request from its bearer token. The token
// subject is re-resolved against the user store so tokens for deleted users
// stop working immediately; the resolved user lands in the Gin context.
func (h *Handler) authMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		h.respondError(c, http.StatusUnauthorized, "missing Authorization header")
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		h.respondError(c, http.StatusUnauthorized, "invalid Authorization header format")
		return
	}

	claims, err := h.services.ParseToken(parts[1])
	if err != nil {
		h.respondError(c, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	user, err := h.services.UserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("auth_resolve_user_failed", "err", err, "user_id", claims.UserID)
		}
		h.respondError(c, http.StatusInternalServerError, "internal server error")
		return
	}
	if user == nil {
		h.respondError(c, http.StatusUnauthorized, "user no longer exists")
		return
	}

	c.Set(currentUserKey, *user)
	c.Next()
}

// requireRoles gates an endpoint to the given role set. An empty set passes
// everything through; must run after authMiddleware.
func (h *Handler) requireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(roles) == 0 {
			c.Next()
			return
		}

		user, ok := currentUser(c)
		if !ok {
			h.respondError(c, http.StatusUnauthorized, "missing authenticated user")
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		h.respondError(c, http.StatusForbidden, "insufficient role")
	}
}

// currentUser pulls the authenticated user placed by authMiddleware.
func currentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}
