package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/freelance-market/market-backend/internal/events"
)

// Handler streams realtime updates over Server-Sent Events (SSE). Every
// stream is a broadcast: all connected subscribers of a topic get every
// message, with no per-user filtering, no acknowledgment and no retry.
type Handler struct {
	bus *events.Bus
}

func New(bus *events.Bus) *Handler {
	return &Handler{bus: bus}
}

func (h *Handler) Register(r gin.IRouter) {
	r.GET("/order-updates", h.stream(events.TopicOrderUpdates))
	r.GET("/dashboard-stats", h.stream(events.TopicDashboardStats))
	r.GET("/user-activity", h.stream(events.TopicUserActivity))
}

func (h *Handler) stream(topic string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Set SSE headers
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

		flusher, ok := c.Writer.(http.Flusher)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "streaming unsupported"})
			return
		}

		ctx := c.Request.Context()
		sub := h.bus.Raw(ctx, topic)
		defer sub.Close()
		msgs := sub.Channel()

		fmt.Fprintf(c.Writer, "event: connected\ndata: {\"topic\":%q}\n\n", topic)
		flusher.Flush()

		// Keep-alive pings so proxies do not drop idle connections.
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				// Client disconnected
				return

			case <-ticker.C:
				fmt.Fprint(c.Writer, ": keep-alive\n\n")
				flusher.Flush()

			case msg, open := <-msgs:
				if !open {
					return
				}
				fmt.Fprintf(c.Writer, "event: message\ndata: %s\n\n", msg.Payload)
				flusher.Flush()
			}
		}
	}
}
