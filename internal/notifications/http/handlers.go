package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freelance-market/market-backend/internal/auth"
	"github.com/freelance-market/market-backend/internal/notifications/domain"
	"github.com/freelance-market/market-backend/internal/notifications/service"
)

type Handler struct {
	svc *service.NotificationService
}

func New(svc *service.NotificationService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(r gin.IRouter) {
	r.GET("", h.listMine)
	r.POST("/:id/read", h.markRead)
}

func (h *Handler) listMine(c *gin.Context) {
	items, err := h.svc.ListForUser(c.Request.Context(), auth.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "notifications": items})
}

func (h *Handler) markRead(c *gin.Context) {
	n, err := h.svc.MarkAsRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "notification": n})
}
