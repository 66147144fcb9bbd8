package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zamflow/internal/events"
	"zamflow/internal/users"
)

type eventsHandler struct {
	broker events.Broker
	logger *zap.Logger
}

func newEventsHandler(broker events.Broker, logger *zap.Logger) *eventsHandler {
	return &eventsHandler{broker: broker, logger: logger}
}

// visible reports whether viewer may receive ev. Profile changes are only
// streamed to admins.
func visible(viewer *users.User, ev events.Event) bool {
	if ev.Collection == events.Users {
		return viewer.Role == users.RoleAdmin
	}
	return true
}

// handleStream handles GET /api/events?collection=. Events are sent as
// Server-Sent Events until the client goes away.
func (h *eventsHandler) handleStream(c *gin.Context) {
	if h.broker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "events are not enabled"})
		return
	}
	viewer := profileFrom(c)
	collection := c.Query("collection")

	ch, cancel := h.broker.Subscribe(c.Request.Context())
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent("ready", gin.H{"collection": collection})
	c.Writer.Flush()

	h.logger.Debug("event stream opened", zap.String("user_id", viewer.ID), zap.String("collection", collection))
	c.Stream(func(w io.Writer) bool {
		ev, ok := <-ch
		if !ok {
			return false
		}
		if collection != "" && ev.Collection != collection {
			return true
		}
		if !visible(viewer, ev) {
			return true
		}
		c.SSEvent(ev.Collection, ev)
		return true
	})
	h.logger.Debug("event stream closed", zap.String("user_id", viewer.ID))
}
