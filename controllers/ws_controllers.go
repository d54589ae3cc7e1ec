package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-waitlist/hub"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WaitlistSocketHandler -> endpoint WebSocket untuk dashboard real-time.
// Client tidak menerima delta: setiap event membawa snapshot penuh dan client
// wajib me-render ulang dari situ.
func WaitlistSocketHandler(c *gin.Context) {
	role := c.Param("role")
	if role != "guest" && role != "staff" && role != "admin" {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	hub.RegisterClient(ws, role)

	for {
		_, _, err := ws.ReadMessage()
		if err != nil {
			break
		}
	}

	hub.UnregisterClient(ws)
}
