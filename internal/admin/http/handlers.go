package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/freelance-market/market-backend/internal/admin/service"
)

type Handler struct {
	svc *service.AdminService
}

func New(svc *service.AdminService) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the admin routes. The caller wraps the group with the
// ADMIN role guard.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/dashboard-stats", h.dashboardStats)
	r.GET("/users", h.users)
	r.GET("/active-projects", h.activeProjects)
	r.GET("/recent-orders", h.recentOrders)
	r.POST("/system-stats", h.updateSystemStats)
}

func (h *Handler) dashboardStats(c *gin.Context) {
	st, err := h.svc.DashboardStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "stats": st})
}

func (h *Handler) users(c *gin.Context) {
	skip, take := pageParams(c)
	page, err := h.svc.Users(c.Request.Context(), skip, take)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "users": page.Users, "total": page.Total})
}

func (h *Handler) activeProjects(c *gin.Context) {
	skip, take := pageParams(c)
	page, err := h.svc.ActiveProjects(c.Request.Context(), skip, take)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok": true, "projects": page.Projects, "total": page.Total, "has_more": page.HasMore,
	})
}

func (h *Handler) recentOrders(c *gin.Context) {
	skip, take := pageParams(c)
	page, err := h.svc.RecentOrders(c.Request.Context(), skip, take)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok": true, "orders": page.Orders, "total": page.Total, "has_more": page.HasMore,
	})
}

func (h *Handler) updateSystemStats(c *gin.Context) {
	st, err := h.svc.UpdateSystemStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "stats": st})
}

// pageParams reads skip/take query params with the 0/10 defaults.
func pageParams(c *gin.Context) (skip, take int) {
	skip, take = 0, 10
	if v, err := strconv.Atoi(c.DefaultQuery("skip", "0")); err == nil && v >= 0 {
		skip = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("take", "10")); err == nil && v > 0 && v <= 100 {
		take = v
	}
	return skip, take
}
