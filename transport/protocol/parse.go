package protocol

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

var (
	ErrUnknownEvent   = errors.New("unknown event")
	ErrInvalidPayload = errors.New("invalid payload")
)

// Message is a decoded and validated inbound message.
type Message interface {
	Event() string
}

// CreateRoom asks for a new room. A nil MaxPlayers selects the server default.
type CreateRoom struct {
	Name       string
	MaxPlayers *int
}

// JoinRoom asks to join a lobby by code.
type JoinRoom struct {
	Code string
}

// LeaveRoom drops the caller's membership.
type LeaveRoom struct{}

// StartGame moves the caller's room from lobby to playing.
type StartGame struct{}

// JoinGameRoom re-enters a room from the game screen.
type JoinGameRoom struct {
	Code string
}

// PlayerMovement carries the caller's latest pose.
type PlayerMovement struct {
	X     float64
	Y     float64
	Angle float64
}

func (CreateRoom) Event() string     { return EventCreateRoom }
func (JoinRoom) Event() string       { return EventJoinRoom }
func (LeaveRoom) Event() string      { return EventLeaveRoom }
func (StartGame) Event() string      { return EventStartGame }
func (JoinGameRoom) Event() string   { return EventJoinGameRoom }
func (PlayerMovement) Event() string { return EventPlayerMovement }

// NormalizeCode canonicalises a room code for lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Parse turns a frame into a typed message, rejecting anything malformed.
func Parse(f *Frame) (Message, error) {
	switch f.Event {
	case EventCreateRoom:
		return parseCreateRoom(f)
	case EventJoinRoom:
		code, err := parseCode(f)
		if err != nil {
			return nil, err
		}
		return JoinRoom{Code: code}, nil
	case EventJoinGameRoom:
		code, err := parseCode(f)
		if err != nil {
			return nil, err
		}
		return JoinGameRoom{Code: code}, nil
	case EventLeaveRoom:
		return LeaveRoom{}, nil
	case EventStartGame:
		return StartGame{}, nil
	case EventPlayerMovement:
		return parseMovement(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, f.Event)
	}
}

func invalid(event, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidPayload, event, fmt.Sprintf(format, args...))
}

func parseCreateRoom(f *Frame) (Message, error) {
	msg := CreateRoom{}
	if !f.HasPayload() {
		return msg, nil
	}

	var p struct {
		Name       string `json:"name"`
		MaxPlayers *int   `json:"maxPlayers"`
	}
	if err := f.Bind(&p); err != nil {
		// A bare string is taken as the room name.
		var name string
		if f.Bind(&name) != nil {
			return nil, invalid(f.Event, "%v", err)
		}
		p.Name = name
	}

	msg.Name = strings.TrimSpace(p.Name)
	if utf8.RuneCountInString(msg.Name) > MaxRoomNameLength {
		return nil, invalid(f.Event, "name longer than %d characters", MaxRoomNameLength)
	}

	if p.MaxPlayers != nil {
		n := *p.MaxPlayers
		if n < 0 || n > MaxPlayersLimit {
			return nil, invalid(f.Event, "maxPlayers must be between 0 and %d", MaxPlayersLimit)
		}
		if n > 0 {
			msg.MaxPlayers = &n
		}
	}
	return msg, nil
}

// parseCode accepts either a bare code string or {"code": "..."}.
func parseCode(f *Frame) (string, error) {
	if !f.HasPayload() {
		return "", invalid(f.Event, "missing room code")
	}

	var code string
	if err := f.Bind(&code); err != nil {
		var p struct {
			Code string `json:"code"`
		}
		if err := f.Bind(&p); err != nil {
			return "", invalid(f.Event, "%v", err)
		}
		code = p.Code
	}

	code = NormalizeCode(code)
	if code == "" {
		return "", invalid(f.Event, "empty room code")
	}
	if len(code) > MaxCodeLength {
		return "", invalid(f.Event, "room code longer than %d characters", MaxCodeLength)
	}
	return code, nil
}

func parseMovement(f *Frame) (Message, error) {
	var p struct {
		X        *float64 `json:"x"`
		Y        *float64 `json:"y"`
		Angle    *float64 `json:"angle"`
		Rotation *float64 `json:"rotation"`
	}
	if err := f.Bind(&p); err != nil {
		return nil, invalid(f.Event, "%v", err)
	}

	angle := p.Angle
	if angle == nil {
		angle = p.Rotation
	}
	if p.X == nil || p.Y == nil || angle == nil {
		return nil, invalid(f.Event, "x, y and angle are required")
	}

	msg := PlayerMovement{X: *p.X, Y: *p.Y, Angle: *angle}
	for _, v := range []float64{msg.X, msg.Y, msg.Angle} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, invalid(f.Event, "non-finite coordinate")
		}
	}
	return msg, nil
}
