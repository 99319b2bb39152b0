package service

import (
	"errors"
	"fmt"
)

// User-facing relay failures. They are reported to the originating
// connection as errorMsg.
var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomFull        = errors.New("room is full")
	ErrRoomNotJoinable = errors.New("room is not joinable")
	ErrTooManyRooms    = errors.New("too many rooms")
)

var (
	ErrCodeSpaceExhausted = errors.New("room code space exhausted")
	ErrInvalidTicks       = errors.New("invalid tick count")
)

// RoomFullError carries the cap of the room that refused a join.
type RoomFullError struct {
	Code  string
	Limit int
}

func (e *RoomFullError) Error() string {
	return fmt.Sprintf("room %s is full (limit %d)", e.Code, e.Limit)
}

// Is makes errors.Is(err, ErrRoomFull) match.
func (e *RoomFullError) Is(target error) bool {
	return target == ErrRoomFull
}

// UserMessage returns the text shown to a player for a relay failure.
// The second result is false for errors that stay server-side.
func UserMessage(err error) (string, bool) {
	var full *RoomFullError
	switch {
	case errors.As(err, &full):
		return fmt.Sprintf("Room is full. Limit: %d players.", full.Limit), true
	case errors.Is(err, ErrRoomFull):
		return "Room is full.", true
	case errors.Is(err, ErrRoomNotFound):
		return "Room not found. Check the code and try again.", true
	case errors.Is(err, ErrRoomNotJoinable):
		return "That game has already started.", true
	case errors.Is(err, ErrTooManyRooms), errors.Is(err, ErrCodeSpaceExhausted):
		return "No free rooms right now. Try again later.", true
	default:
		return "", false
	}
}
