package service

import (
	"time"

	"github.com/wricardo/asteroids-relay/game/engine"
	"github.com/wricardo/asteroids-relay/transport/protocol"
)

// RoomState is the lifecycle stage of a room. It only moves forward.
type RoomState string

const (
	RoomLobby   RoomState = "lobby"
	RoomPlaying RoomState = "playing"
)

// Room is a live relay room
type Room struct {
	Code       string
	Name       string
	State      RoomState
	MaxPlayers int // 0 means uncapped
	HostID     string
	CreatedAt  time.Time
	Players    map[string]*protocol.Player
}

// Full reports whether the cap is reached.
func (r *Room) Full() bool {
	return r.MaxPlayers > 0 && len(r.Players) >= r.MaxPlayers
}

// Snapshot copies the players for sending.
func (r *Room) Snapshot() protocol.Players {
	players := make(protocol.Players, len(r.Players))
	for id, p := range r.Players {
		players[id] = *p
	}
	return players
}

// Info builds the admin view of the room.
func (r *Room) Info() *RoomInfo {
	return &RoomInfo{
		Code:        r.Code,
		Name:        r.Name,
		State:       r.State,
		MaxPlayers:  r.MaxPlayers,
		PlayerCount: len(r.Players),
		HostID:      r.HostID,
		CreatedAt:   r.CreatedAt,
		Players:     r.Snapshot(),
	}
}

// RoomInfo provides information about a room
type RoomInfo struct {
	Code        string           `json:"code"`
	Name        string           `json:"name"`
	State       RoomState        `json:"state"`
	MaxPlayers  int              `json:"max_players"`
	PlayerCount int              `json:"player_count"`
	HostID      string           `json:"host_id,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	Players     protocol.Players `json:"players"`
}

// RelayStats summarises the relay for health checks
type RelayStats struct {
	Rooms       int `json:"rooms"`
	Players     int `json:"players"`
	Connections int `json:"connections"`
}

// ConfigInfo provides information about a simulation preset
type ConfigInfo struct {
	Filename      string `json:"filename,omitempty"`
	ConfigID      string `json:"config_id"` // The identifier to pass to simulate
	Name          string `json:"name"`
	Description   string `json:"description"`
	Lives         int    `json:"lives"`
	BaseAsteroids int    `json:"base_asteroids"`
}

// SimulationRequest configures a headless autopilot run
type SimulationRequest struct {
	ConfigID string `json:"config_id,omitempty"`
	Ticks    int    `json:"ticks,omitempty"`
	Seed     int64  `json:"seed,omitempty"`
}

// SimulationResult summarises a headless run
type SimulationResult struct {
	ConfigID           string      `json:"config_id"`
	Seed               int64       `json:"seed"`
	TicksRequested     int         `json:"ticks_requested"`
	TicksRun           int         `json:"ticks_run"`
	Score              int         `json:"score"`
	Level              int         `json:"level"`
	Lives              int         `json:"lives"`
	GameOver           bool        `json:"game_over"`
	AsteroidsDestroyed int         `json:"asteroids_destroyed"`
	ShotsFired         int         `json:"shots_fired"`
	ShipsLost          int         `json:"ships_lost"`
	Accuracy           float64     `json:"accuracy"`
	FinalPose          engine.Pose `json:"final_pose"`
}
