package session

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/wricardo/asteroids-relay/game/service"
	"github.com/wricardo/asteroids-relay/transport/protocol"
)

// Spawn pose for new and re-entering players
const (
	SpawnX     = 400.0
	SpawnY     = 300.0
	SpawnAngle = -math.Pi / 2
)

// DefaultRoomName is used when createRoom carries a blank name.
const DefaultRoomName = "Space Room"

// DefaultPalette is cycled by the number of players present at join.
var DefaultPalette = []string{"#00f2ff", "#39ff14", "#ff00ff", "#ffff00"}

// Options tunes a Registry. Zero values pick the defaults, except
// DefaultMaxPlayers and MaxRooms where 0 means uncapped.
type Options struct {
	DefaultRoomName   string
	DefaultMaxPlayers int
	MaxRooms          int
	Palette           []string
	Codes             *CodeGenerator
	Logger            *log.Logger
}

// Registry owns every live room and the connection to room side table.
// It implements service.RoomRegistry.
type Registry struct {
	rooms    map[string]*service.Room
	connRoom map[string]string
	sender   service.Sender
	opts     Options
	logger   *log.Logger
	mu       sync.RWMutex
}

var _ service.RoomRegistry = (*Registry)(nil)

// NewRegistry creates an empty registry that replies through sender.
func NewRegistry(sender service.Sender, opts Options) *Registry {
	if opts.DefaultRoomName == "" {
		opts.DefaultRoomName = DefaultRoomName
	}
	if len(opts.Palette) == 0 {
		opts.Palette = DefaultPalette
	}
	if opts.Codes == nil {
		// The defaults are always valid.
		opts.Codes, _ = NewCodeGenerator(DefaultAlphabet, DefaultCodeLength)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Registry{
		rooms:    make(map[string]*service.Room),
		connRoom: make(map[string]string),
		sender:   sender,
		opts:     opts,
		logger:   logger.WithPrefix("rooms"),
	}
}

// CreateRoom makes a lobby room with the caller as host and returns its code.
// The caller leaves any room it was in.
func (r *Registry) CreateRoom(connID, name string, maxPlayers *int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.opts.MaxRooms > 0 && len(r.rooms) >= r.opts.MaxRooms {
		return "", service.ErrTooManyRooms
	}

	code, err := r.opts.Codes.Generate(func(code string) bool {
		_, live := r.rooms[code]
		return live
	})
	if err != nil {
		return "", err
	}

	r.leaveLocked(connID)

	name = strings.TrimSpace(name)
	if name == "" {
		name = r.opts.DefaultRoomName
	}
	limit := r.opts.DefaultMaxPlayers
	if maxPlayers != nil {
		limit = *maxPlayers
	}

	room := &service.Room{
		Code:       code,
		Name:       name,
		State:      service.RoomLobby,
		MaxPlayers: limit,
		HostID:     connID,
		CreatedAt:  time.Now(),
		Players:    make(map[string]*protocol.Player),
	}
	player := r.newPlayer(room)
	player.Host = true
	room.Players[connID] = player

	r.rooms[code] = room
	r.connRoom[connID] = code

	r.send(connID, protocol.RoomCreated(code))
	r.send(connID, protocol.UpdatePlayers(room.Snapshot()))
	return code, nil
}

// JoinRoom adds the caller to a lobby room and broadcasts the new roster.
func (r *Registry) JoinRoom(connID, code string) error {
	code = protocol.NormalizeCode(code)

	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[code]
	if !ok {
		return service.ErrRoomNotFound
	}

	if _, member := room.Players[connID]; !member {
		if room.State != service.RoomLobby {
			return service.ErrRoomNotJoinable
		}
		if room.Full() {
			return &service.RoomFullError{Code: code, Limit: room.MaxPlayers}
		}
		r.leaveLocked(connID)
		room.Players[connID] = r.newPlayer(room)
		r.connRoom[connID] = code
	}

	r.send(connID, protocol.RoomJoined(room.Code, room.Name))
	r.broadcast(room, protocol.UpdatePlayers(room.Snapshot()), "")
	return nil
}

// LeaveRoom removes the caller from its room. It reports whether the caller
// was in one.
func (r *Registry) LeaveRoom(connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leaveLocked(connID)
}

// StartGame moves the caller's room to playing and tells every member.
// Callers outside any room, or in a room already playing, are ignored.
func (r *Registry) StartGame(connID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room := r.roomOfLocked(connID)
	if room == nil || room.State != service.RoomLobby {
		return nil
	}

	room.State = service.RoomPlaying
	r.logger.Info("game started", "code", room.Code, "players", len(room.Players))
	r.broadcast(room, protocol.GameStarted(), "")
	return nil
}

// JoinGameRoom re-associates the caller with a room on the game screen and
// resets its ship to the spawn pose.
func (r *Registry) JoinGameRoom(connID, code string) error {
	code = protocol.NormalizeCode(code)

	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[code]
	if !ok {
		return service.ErrRoomNotFound
	}

	player, member := room.Players[connID]
	if !member {
		if room.Full() {
			return &service.RoomFullError{Code: code, Limit: room.MaxPlayers}
		}
		r.leaveLocked(connID)
		player = r.newPlayer(room)
		room.Players[connID] = player
		r.connRoom[connID] = code
	}
	player.X, player.Y, player.Angle = SpawnX, SpawnY, SpawnAngle

	r.send(connID, protocol.CurrentPlayers(room.Snapshot()))
	r.broadcast(room, protocol.NewPlayer(connID, *player), connID)
	return nil
}

// Move updates the caller's own ship and relays it to the other members.
// It reports false, sending nothing, when the caller owns no player.
func (r *Registry) Move(connID string, x, y, angle float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	room := r.roomOfLocked(connID)
	if room == nil {
		return false
	}
	player, ok := room.Players[connID]
	if !ok {
		return false
	}

	player.X, player.Y, player.Angle = x, y, angle
	r.broadcast(room, protocol.PlayerMoved(connID, *player), connID)
	return true
}

// Disconnect cleans up after a closed connection.
func (r *Registry) Disconnect(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(connID)
}

// List returns snapshots of every live room ordered by code.
func (r *Registry) List() []*service.RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]*service.RoomInfo, 0, len(r.rooms))
	for _, room := range r.rooms {
		infos = append(infos, room.Info())
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Code < infos[j].Code
	})
	return infos
}

// Get returns a snapshot of one room.
func (r *Registry) Get(code string) (*service.RoomInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[protocol.NormalizeCode(code)]
	if !ok {
		return nil, service.ErrRoomNotFound
	}
	return room.Info(), nil
}

// Count returns the number of live rooms.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// PlayerCount returns the number of connections that are in a room.
func (r *Registry) PlayerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.connRoom)
}

// RoomOf returns the code of the caller's room, if any.
func (r *Registry) RoomOf(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	code, ok := r.connRoom[connID]
	return code, ok
}

func (r *Registry) roomOfLocked(connID string) *service.Room {
	code, ok := r.connRoom[connID]
	if !ok {
		return nil
	}
	return r.rooms[code]
}

// leaveLocked removes the caller from its room, destroying the room when it
// empties and otherwise telling the remaining members.
func (r *Registry) leaveLocked(connID string) bool {
	code, ok := r.connRoom[connID]
	if !ok {
		return false
	}
	delete(r.connRoom, connID)

	room, ok := r.rooms[code]
	if !ok {
		return false
	}
	delete(room.Players, connID)

	if len(room.Players) == 0 {
		delete(r.rooms, code)
		r.logger.Info("room closed", "code", code)
		return true
	}

	if room.State == service.RoomLobby {
		r.broadcast(room, protocol.UpdatePlayers(room.Snapshot()), "")
	} else {
		r.broadcast(room, protocol.PlayerDisconnected(connID), "")
	}
	return true
}

func (r *Registry) newPlayer(room *service.Room) *protocol.Player {
	palette := r.opts.Palette
	return &protocol.Player{
		X:     SpawnX,
		Y:     SpawnY,
		Angle: SpawnAngle,
		Color: palette[len(room.Players)%len(palette)],
	}
}

// broadcast sends env to every member of room except the given connection.
// Pass an empty except to include everyone.
func (r *Registry) broadcast(room *service.Room, env protocol.Envelope, except string) {
	for id := range room.Players {
		if id == except {
			continue
		}
		r.send(id, env)
	}
}

func (r *Registry) send(connID string, env protocol.Envelope) {
	if r.sender != nil {
		r.sender.Send(connID, env)
	}
}
