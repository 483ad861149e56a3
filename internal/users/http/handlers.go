package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	authmw "github.com/freelance-market/market-backend/internal/auth/middleware"
	"github.com/freelance-market/market-backend/internal/users/domain"
	"github.com/freelance-market/market-backend/internal/users/service"
)

type Handler struct {
	svc *service.UserService
}

func New(svc *service.UserService) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the user routes. The group is already behind JWT auth;
// the full listing is admin only, single lookups are open to any
// authenticated user.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("", authmw.RequireRoles(domain.RoleAdmin), h.list)
	r.GET("/:id", h.get)
}

func (h *Handler) list(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "users": users})
}

func (h *Handler) get(c *gin.Context) {
	u, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": u})
}
