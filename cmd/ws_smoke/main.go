package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"richman_server/internal/game"
	"richman_server/internal/logger"
	"richman_server/internal/ws"
)

type smokeClient struct {
	name string
	conn *websocket.Conn
}

func dial(host, playerID string) *smokeClient {
	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	url := fmt.Sprintf("ws://%s/ws?player_id=%s", host, playerID)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		logger.Fatal("dial", "player_id", playerID, "error", err)
	}
	return &smokeClient{name: playerID, conn: conn}
}

func (c *smokeClient) send(typ string, payload any) {
	if err := c.conn.WriteJSON(ws.Outbound{Type: typ, Payload: payload}); err != nil {
		logger.Fatal("write", "player_id", c.name, "error", err)
	}
}

// waitFor reads frames until match returns true or the deadline passes.
func (c *smokeClient) waitFor(d time.Duration, match func(ws.Envelope) bool) (ws.Envelope, bool) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		_ = c.conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return ws.Envelope{}, false
			}
			continue
		}
		var env ws.Envelope
		if json.Unmarshal(msg, &env) != nil {
			continue
		}
		if match(env) {
			return env, true
		}
	}
	return ws.Envelope{}, false
}

func ofType(typ string) func(ws.Envelope) bool {
	return func(env ws.Envelope) bool { return env.Type == typ }
}

func eventOf(typ game.EventType, out *game.Event) func(ws.Envelope) bool {
	return func(env ws.Envelope) bool {
		if env.Type != ws.MsgEvent {
			return false
		}
		var ev game.Event
		if json.Unmarshal(env.Payload, &ev) != nil {
			return false
		}
		*out = ev
		return ev.Type == typ
	}
}

func main() {
	host := flag.String("host", "127.0.0.1:8080", "server host:port")
	flag.Parse()

	a := dial(*host, "smoke-a")
	defer a.conn.Close()
	b := dial(*host, "smoke-b")
	defer b.conn.Close()

	a.waitFor(2*time.Second, ofType(ws.MsgReady))
	b.waitFor(2*time.Second, ofType(ws.MsgReady))

	a.send(ws.MsgCreate, ws.CreatePayload{RoomID: "smoke"})
	env, ok := a.waitFor(3*time.Second, ofType(ws.MsgJoined))
	if !ok {
		logger.Fatal("create: no joined frame")
	}
	var joined ws.JoinedPayload
	_ = json.Unmarshal(env.Payload, &joined)
	logger.Info("game created", "game_id", joined.GameID)

	b.send(ws.MsgJoin, ws.GamePayload{GameID: joined.GameID})
	if _, ok := b.waitFor(3*time.Second, ofType(ws.MsgJoined)); !ok {
		logger.Fatal("join: no joined frame")
	}

	a.send(ws.MsgStart, nil)
	var turn game.Event
	if _, ok := a.waitFor(3*time.Second, eventOf(game.EventTurnStarted, &turn)); !ok {
		logger.Fatal("start: no turn_started event")
	}
	logger.Info("game started", "first_player", turn.PlayerID)

	first := a
	if turn.PlayerID == b.name {
		first = b
	}
	first.send(ws.MsgAction, ws.ActionPayload{Type: game.ActionRollDice})
	env, ok = first.waitFor(3*time.Second, ofType(ws.MsgActionResult))
	if !ok {
		logger.Fatal("roll: no action_result frame")
	}
	logger.Info("roll result", "player_id", first.name, "payload", string(env.Payload))

	a.send(ws.MsgLeave, nil)
	var ended game.Event
	if _, ok := b.waitFor(3*time.Second, eventOf(game.EventGameEnded, &ended)); ok {
		logger.Info("game ended", "winner", ended.Data["winner_id"])
	}

	logger.Info("smoke test finished")
}
