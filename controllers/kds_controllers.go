package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/laselecta/mesa-manager/kds"
	"github.com/laselecta/mesa-manager/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// KDSHandler -> websocket endpoint streaming table, kitchen, and inventory
// events. Every authenticated role gets the feed; floor staff watch table
// changes, the kitchen watches orders. The connection is dropped from the
// hub when the client goes away.
func KDSHandler(c *gin.Context) {
	roleInterface, exists := c.Get("role")
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	role := roleInterface.(string)

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	kds.RegisterClient(ws, role)
	defer kds.UnregisterClient(ws)

	utils.InfoLogger.Printf("KDS client connected (role=%s, clients=%d)", role, kds.ClientCount())

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
}
