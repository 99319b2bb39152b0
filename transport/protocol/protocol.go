package protocol

// Client to server events
const (
	EventCreateRoom     = "createRoom"
	EventJoinRoom       = "joinRoom"
	EventLeaveRoom      = "leaveRoom"
	EventStartGame      = "startGame"
	EventJoinGameRoom   = "joinGameRoom"
	EventPlayerMovement = "playerMovement"
)

// Server to client events
const (
	EventRoomCreated        = "roomCreated"
	EventRoomJoined         = "roomJoined"
	EventUpdatePlayers      = "updatePlayers"
	EventErrorMsg           = "errorMsg"
	EventGameStarted        = "gameStarted"
	EventCurrentPlayers     = "currentPlayers"
	EventNewPlayer          = "newPlayer"
	EventPlayerMoved        = "playerMoved"
	EventPlayerDisconnected = "playerDisconnected"
)

// Payload limits
const (
	MaxRoomNameLength = 40
	MaxPlayersLimit   = 64
	MaxCodeLength     = 16
)

// Envelope is one outbound message.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// Player is the wire form of a ship in a room.
type Player struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Angle float64 `json:"angle"`
	Color string  `json:"color"`
	Host  bool    `json:"host,omitempty"`
}

// Players maps connection ids to their ships.
type Players map[string]Player

// RoomJoinedPayload acknowledges a successful joinRoom.
type RoomJoinedPayload struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// PlayerPayload carries one player and the connection that owns it.
type PlayerPayload struct {
	ID     string `json:"id"`
	Player Player `json:"player"`
}

// RoomCreated tells the creator its new code.
func RoomCreated(code string) Envelope {
	return Envelope{Event: EventRoomCreated, Data: code}
}

// RoomJoined acknowledges a join to the joiner.
func RoomJoined(code, name string) Envelope {
	return Envelope{Event: EventRoomJoined, Data: RoomJoinedPayload{Code: code, Name: name}}
}

// UpdatePlayers carries the full lobby snapshot.
func UpdatePlayers(players Players) Envelope {
	return Envelope{Event: EventUpdatePlayers, Data: players}
}

// ErrorMsg carries human readable failure text.
func ErrorMsg(text string) Envelope {
	return Envelope{Event: EventErrorMsg, Data: text}
}

// GameStarted moves every member to the game screen.
func GameStarted() Envelope {
	return Envelope{Event: EventGameStarted}
}

// CurrentPlayers gives a game-screen entrant the room snapshot.
func CurrentPlayers(players Players) Envelope {
	return Envelope{Event: EventCurrentPlayers, Data: players}
}

// NewPlayer announces a game-screen entrant to the others.
func NewPlayer(id string, p Player) Envelope {
	return Envelope{Event: EventNewPlayer, Data: PlayerPayload{ID: id, Player: p}}
}

// PlayerMoved relays a pose update.
func PlayerMoved(id string, p Player) Envelope {
	return Envelope{Event: EventPlayerMoved, Data: PlayerPayload{ID: id, Player: p}}
}

// PlayerDisconnected tells a game-screen room that a ship is gone.
func PlayerDisconnected(id string) Envelope {
	return Envelope{Event: EventPlayerDisconnected, Data: id}
}
