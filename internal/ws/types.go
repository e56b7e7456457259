package ws

const (
	// client - server
	MsgCreate = "create"
	MsgJoin   = "join"
	MsgStart  = "start"
	MsgLeave  = "leave"
	MsgAction = "action"
	MsgPing   = "ping"

	// both directions: the client asks, the server answers with a snapshot
	MsgState = "state"

	// server - client
	MsgReady        = "ready"
	MsgJoined       = "joined"
	MsgLeft         = "left"
	MsgEvent        = "event"
	MsgActionResult = "action_result"
	MsgError        = "error"
	MsgPong         = "pong"
)
