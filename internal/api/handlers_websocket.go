package api

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// newUpgrader accepts the configured CORS origins. A wildcard allows all.
func newUpgrader(allowed []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, o := range allowed {
				if o == "*" || o == origin {
					return true
				}
			}
			return false
		},
	}
}

// HandleWebSocket streams resource change events
// @Summary WebSocket endpoint for resource change events
// @Description Establishes a WebSocket connection that receives an event for every created, updated or deleted resource
// @Tags events
// @Success 101 {string} string "Switching Protocols"
// @Router /ws/events [get]
func (s *Server) HandleWebSocket(c echo.Context) error {
	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.log.WithError(err).Warn("WebSocket upgrade failed")
		return nil
	}

	client := &Client{
		hub:  s.hub,
		conn: ws,
		send: make(chan []byte, 256),
	}

	select {
	case s.hub.register <- client:
	case <-s.hub.done:
		_ = ws.Close()
		return nil
	}

	// Start client goroutines
	go client.writePump()
	go client.readPump()

	return nil
}

// GetWebSocketStats returns WebSocket connection statistics
// @Summary Get WebSocket statistics
// @Description Returns the number of connected event listeners
// @Tags events
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /ws/stats [get]
func (s *Server) GetWebSocketStats(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"connected_clients": s.hub.ClientCount(),
		"status":            "operational",
	})
}
