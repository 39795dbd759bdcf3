package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// eventsHandler handles GET /api/v1/sessions/:id/events. It streams the
// session's bucket and turn events as server-sent events until the
// client disconnects.
func (s *Server) eventsHandler(c *gin.Context) {
	if s.bus == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "event streaming is disabled"})
		return
	}

	sessionID := c.Param("id")
	ch, cancel := s.bus.Subscribe(sessionID)
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	// Flush headers now so clients see the stream open before the
	// first event arrives.
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case env, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(env.Type, json.RawMessage(env.Payload))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
