package service

import (
	"context"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/wricardo/asteroids-relay/transport/protocol"
)

// relayServiceImpl implements the RelayService interface
type relayServiceImpl struct {
	rooms       RoomRegistry
	sender      Sender
	logger      *log.Logger
	connections atomic.Int64
}

// NewRelayService creates a relay service over a room registry. The sender
// is used for errorMsg replies.
func NewRelayService(rooms RoomRegistry, sender Sender, logger *log.Logger) RelayService {
	if logger == nil {
		logger = log.Default()
	}
	return &relayServiceImpl{
		rooms:  rooms,
		sender: sender,
		logger: logger.WithPrefix("relay"),
	}
}

// Connect records a new connection
func (s *relayServiceImpl) Connect(ctx context.Context, connID string) {
	n := s.connections.Add(1)
	s.logger.Debug("connected", "conn", connID, "connections", n)
}

// HandleFrame parses a frame and dispatches it. Malformed or unknown
// messages are dropped.
func (s *relayServiceImpl) HandleFrame(ctx context.Context, connID string, frame *protocol.Frame) {
	msg, err := protocol.Parse(frame)
	if err != nil {
		s.logger.Debug("dropping message", "conn", connID, "event", frame.Event, "err", err)
		return
	}
	s.Dispatch(ctx, connID, msg)
}

// Dispatch runs one relay operation for a connection
func (s *relayServiceImpl) Dispatch(ctx context.Context, connID string, msg protocol.Message) {
	switch m := msg.(type) {
	case protocol.CreateRoom:
		code, err := s.rooms.CreateRoom(connID, m.Name, m.MaxPlayers)
		if err != nil {
			s.fail(connID, msg, err)
			return
		}
		s.logger.Info("room created", "code", code, "host", connID)

	case protocol.JoinRoom:
		if err := s.rooms.JoinRoom(connID, m.Code); err != nil {
			s.fail(connID, msg, err)
			return
		}
		s.logger.Info("joined room", "code", m.Code, "conn", connID)

	case protocol.LeaveRoom:
		if s.rooms.LeaveRoom(connID) {
			s.logger.Info("left room", "conn", connID)
		}

	case protocol.StartGame:
		if err := s.rooms.StartGame(connID); err != nil {
			s.fail(connID, msg, err)
		}

	case protocol.JoinGameRoom:
		if err := s.rooms.JoinGameRoom(connID, m.Code); err != nil {
			s.fail(connID, msg, err)
			return
		}
		s.logger.Debug("entered game", "code", m.Code, "conn", connID)

	case protocol.PlayerMovement:
		s.rooms.Move(connID, m.X, m.Y, m.Angle)

	default:
		s.logger.Warn("unhandled message", "conn", connID, "event", msg.Event())
	}
}

// Disconnect removes the connection from its room
func (s *relayServiceImpl) Disconnect(ctx context.Context, connID string) {
	s.rooms.Disconnect(connID)
	n := s.connections.Add(-1)
	s.logger.Debug("disconnected", "conn", connID, "connections", n)
}

// ListRooms returns every live room
func (s *relayServiceImpl) ListRooms(ctx context.Context) ([]*RoomInfo, error) {
	return s.rooms.List(), nil
}

// GetRoom returns one room by code
func (s *relayServiceImpl) GetRoom(ctx context.Context, code string) (*RoomInfo, error) {
	return s.rooms.Get(protocol.NormalizeCode(code))
}

// Stats returns live counts
func (s *relayServiceImpl) Stats(ctx context.Context) RelayStats {
	return RelayStats{
		Rooms:       s.rooms.Count(),
		Players:     s.rooms.PlayerCount(),
		Connections: int(s.connections.Load()),
	}
}

// fail reports user-facing errors to the caller and logs the rest.
func (s *relayServiceImpl) fail(connID string, msg protocol.Message, err error) {
	text, ok := UserMessage(err)
	if !ok {
		s.logger.Error("relay operation failed", "conn", connID, "event", msg.Event(), "err", err)
		return
	}
	s.logger.Info("request refused", "conn", connID, "event", msg.Event(), "reason", err)
	if s.sender != nil {
		s.sender.Send(connID, protocol.ErrorMsg(text))
	}
}
