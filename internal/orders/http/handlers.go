package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/freelance-market/market-backend/internal/auth"
	authmw "github.com/freelance-market/market-backend/internal/auth/middleware"
	"github.com/freelance-market/market-backend/internal/orders/domain"
	"github.com/freelance-market/market-backend/internal/orders/service"
	projectsdomain "github.com/freelance-market/market-backend/internal/projects/domain"
	usersdomain "github.com/freelance-market/market-backend/internal/users/domain"
)

type Handler struct {
	svc *service.OrderService
}

func New(svc *service.OrderService) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the order routes. The group is already behind JWT auth;
// the role split mirrors who may drive each transition: clients place,
// cancel and request revisions, freelancers accept, start and complete.
func (h *Handler) Register(r gin.IRouter) {
	client := authmw.RequireRoles(usersdomain.RoleClient)
	freelancer := authmw.RequireRoles(usersdomain.RoleFreelancer)

	r.POST("", client, h.create)
	r.GET("/mine", client, h.listMine)
	r.GET("/received", freelancer, h.listReceived)
	r.GET("/:id", h.get)
	r.PUT("/:id", h.update)

	r.POST("/:id/accept", freelancer, h.transition(domain.StatusAccepted))
	r.POST("/:id/start", freelancer, h.transition(domain.StatusInProgress))
	r.POST("/:id/complete", freelancer, h.transition(domain.StatusCompleted))
	r.POST("/:id/cancel", h.transition(domain.StatusCancelled))
	r.POST("/:id/revision", client, h.transition(domain.StatusRevision))
}

type createReq struct {
	ProjectID    string  `json:"project_id" binding:"required"`
	Requirements *string `json:"requirements"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	o, err := h.svc.Create(c.Request.Context(), auth.UserID(c), req.ProjectID, req.Requirements)
	if err != nil {
		if errors.Is(err, projectsdomain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "order": o})
}

func (h *Handler) get(c *gin.Context) {
	o, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "order": o})
}

func (h *Handler) listMine(c *gin.Context) {
	items, err := h.svc.ListByClient(c.Request.Context(), auth.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "orders": items})
}

func (h *Handler) listReceived(c *gin.Context) {
	items, err := h.svc.ListByFreelancer(c.Request.Context(), auth.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "orders": items})
}

type updateReq struct {
	Status       *string    `json:"status"`
	Requirements *string    `json:"requirements"`
	DeliveryDate *time.Time `json:"delivery_date"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	var status *domain.Status
	if req.Status != nil {
		if !domain.IsValidStatus(*req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid status"})
			return
		}
		st := domain.Status(*req.Status)
		status = &st
	}

	o, err := h.svc.Update(c.Request.Context(), c.Param("id"), status, req.Requirements, req.DeliveryDate)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "order": o})
}

func (h *Handler) transition(target domain.Status) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), target)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "order": o})
	}
}
