package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 30 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 256
)

type Client struct {
	PlayerID string
	Conn     *websocket.Conn
	Send     chan []byte
	Hub      *Hub
	Done     chan struct{}

	// guarded by Hub.mu
	gameID string
}

func NewClient(playerID string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		PlayerID: playerID,
		Conn:     conn,
		Send:     make(chan []byte, sendBuffer),
		Hub:      hub,
		Done:     make(chan struct{}),
	}
}

// Run blocks until the connection closes and both pumps have exited.
func (c *Client) Run() {
	written := make(chan struct{})
	go func() {
		defer close(written)
		c.writePump()
	}()

	gameID := c.Hub.register(c)
	c.sendMessage(MsgReady, ReadyPayload{PlayerID: c.PlayerID, GameID: gameID})

	c.readPump()
	<-written
}

// send queues a frame without blocking. Frames for a slow client are
// dropped.
func (c *Client) send(msg []byte) bool {
	select {
	case <-c.Done:
		return false
	default:
	}
	select {
	case c.Send <- msg:
		return true
	case <-c.Done:
		return false
	default:
		c.Hub.logger.Warn("client send buffer full, dropping frame", zap.String("player_id", c.PlayerID))
		return false
	}
}

func (c *Client) sendMessage(typ string, payload any) {
	b, err := json.Marshal(Outbound{Type: typ, Payload: payload})
	if err != nil {
		c.Hub.logger.Error("marshal outbound", zap.String("type", typ), zap.Error(err))
		return
	}
	c.send(b)
}

func (c *Client) sendError(err error, code string) {
	c.sendMessage(MsgError, ErrorPayload{Message: err.Error(), Code: code})
}

func (c *Client) readPump() {
	defer func() {
		close(c.Done)
		c.Hub.unregister(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.Hub.logger.Info("ws read error", zap.String("player_id", c.PlayerID), zap.Error(err))
			}
			return
		}
		c.Hub.handleMessage(c, msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.Hub.logger.Debug("ws write error", zap.String("player_id", c.PlayerID), zap.Error(err))
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.Done:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
