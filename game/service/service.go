package service

import (
	"context"

	"github.com/wricardo/asteroids-relay/game/engine"
	"github.com/wricardo/asteroids-relay/transport/protocol"
)

// RelayService handles relay traffic from connections and answers admin
// queries about live rooms.
type RelayService interface {
	// Connection lifecycle, called from the transport's event loop
	Connect(ctx context.Context, connID string)
	HandleFrame(ctx context.Context, connID string, frame *protocol.Frame)
	Disconnect(ctx context.Context, connID string)

	// Dispatch runs one already-parsed message
	Dispatch(ctx context.Context, connID string, msg protocol.Message)

	// Admin queries
	ListRooms(ctx context.Context) ([]*RoomInfo, error)
	GetRoom(ctx context.Context, code string) (*RoomInfo, error)
	Stats(ctx context.Context) RelayStats
}

// GameService exposes the simulation presets and headless runs
type GameService interface {
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
	Simulate(ctx context.Context, req SimulationRequest) (*SimulationResult, error)
}

// RoomRegistry defines room storage and the relay operations on it
type RoomRegistry interface {
	CreateRoom(connID, name string, maxPlayers *int) (string, error)
	JoinRoom(connID, code string) error
	LeaveRoom(connID string) bool
	StartGame(connID string) error
	JoinGameRoom(connID, code string) error
	Move(connID string, x, y, angle float64) bool
	Disconnect(connID string)

	List() []*RoomInfo
	Get(code string) (*RoomInfo, error)
	Count() int
	PlayerCount() int
}

// Sender delivers an outbound message to one connection. Implementations
// must not block.
type Sender interface {
	Send(connID string, env protocol.Envelope)
}

// ConfigManager handles simulation preset loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}
