package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/tablegeom/internal/layout"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origins are checked by middleware.WebSocketOriginCheck
	},
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	readLimit  = 65536
)

// Client represents a connected editor
type Client struct {
	conn  *websocket.Conn
	hub   *Hub
	sess  *session
	admin string
	send  chan []byte
}

// HandleEditor upgrades GET /editor/:name/ws. The admin username is read
// from the context set by middleware.AdminAuth.
func (h *Hub) HandleEditor(c *gin.Context) {
	name := c.Param("name")
	adminName := c.GetString("admin")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := &Client{
		conn:  conn,
		hub:   h,
		admin: adminName,
		send:  make(chan []byte, 256),
	}

	if _, err := h.join(c.Request.Context(), name, client); err != nil {
		log.Printf("[EDITOR] open %s for %s: %v", name, adminName, err)
		msg := "could not open layout"
		if errors.Is(err, layout.ErrNoAuthoring) {
			msg = "layout was uploaded as binary and has no authoring document"
		}
		data, _ := json.Marshal(outMessage{Type: "error", Message: msg})
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		conn.WriteMessage(websocket.TextMessage, data)
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, msg))
		conn.Close()
		return
	}
	log.Printf("[EDITOR] %s joined %s", adminName, name)

	go client.writePump()
	go client.readPump()
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed by Hub.leave.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] write error for %s: %v", c.admin, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] ping error for %s: %v", c.admin, err)
				return
			}
		}
	}
}

// readPump reads editor commands until the connection drops.
func (c *Client) readPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(readLimit)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] unexpected close for %s: %v", c.admin, err)
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("Invalid message")
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *Client) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "promote_last", "promote_first":
		var ref RimRef
		if err := json.Unmarshal(msg.Data, &ref); err != nil {
			c.sendError("Invalid rim reference")
			return
		}
		c.sess.promote(c, ref, msg.Type == "promote_last")

	case "snapshot":
		c.sess.snapshot(c)

	case "save":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		c.sess.save(ctx, c.hub, c)

	default:
		c.sendError("Unknown message type")
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	c.sess.mu.Lock()
	defer c.sess.mu.Unlock()
	if _, ok := c.sess.clients[c]; !ok {
		return
	}
	c.sess.sendLocked(c, outMessage{Type: "error", Message: message})
}
