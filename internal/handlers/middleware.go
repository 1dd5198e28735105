package handlers

import (
	"net/http"

	"myflix"
	"myflix/internal/models"
	"myflix/internal/service"

	"github.com/gin-gonic/gin"
)

const userCtxKey = "user"

// requireAuth admits the request only when strategy resolves a user, which
// is then available to handlers through currentUser.
func (h *Handler) requireAuth(strategy service.Strategy) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := strategy.Authenticate(c.Request.Context(), c.Request)
		if err != nil {
			if h.log != nil {
				h.log.Infow("auth_rejected", "path", c.Request.URL.Path, "err", err)
			}
			if isUnauthorized(err) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, myflix.ErrorResponse{Error: unauthorizedMessage(err)})
				return
			}
			h.respondError(c, err, "auth_store_failed")
			c.Abort()
			return
		}

		c.Set(userCtxKey, u)
		c.Next()
	}
}

// requireOwner rejects mutations of another user's account.
func (h *Handler) requireOwner(c *gin.Context) {
	if !h.enforceOwnership {
		c.Next()
		return
	}
	u := currentUser(c)
	if u == nil || u.Username != c.Param("username") {
		c.AbortWithStatusJSON(http.StatusForbidden, myflix.ErrorResponse{Error: service.ErrForbidden.Error()})
		return
	}
	c.Next()
}

func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userCtxKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}
