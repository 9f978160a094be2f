// game/errors.go
package game

import (
	"errors"
	"fmt"
)

var (
	// ErrValidationRejected marks a handler rejection. Reported to the
	// acting player only, never broadcast.
	ErrValidationRejected = errors.New("action rejected")
	// ErrCapacityExceeded is returned when a join hits the handler's
	// declared player maximum.
	ErrCapacityExceeded = errors.New("room is full")
	// ErrRoomNotFound is returned for an unknown or expired room code.
	ErrRoomNotFound = errors.New("room not found")
	// ErrTooManyRooms is returned when creating a room would exceed the
	// configured instance-wide limit.
	ErrTooManyRooms = errors.New("too many active rooms")
	// ErrPhaseViolation is returned when an event arrives in a phase
	// that does not accept it.
	ErrPhaseViolation = errors.New("not allowed in current phase")
	// ErrRoomEnded is returned for events reaching a terminal room.
	ErrRoomEnded = errors.New("room has ended")
	// ErrNotHost is returned when a host-only command comes from a
	// non-host player.
	ErrNotHost = errors.New("host only")
	// ErrAlreadyStarted is returned on start during an active game.
	ErrAlreadyStarted = errors.New("game already started")
	// ErrNotEnoughPlayers is returned on start below the handler minimum.
	ErrNotEnoughPlayers = errors.New("not enough players")
	// ErrPlayersNotReady is returned on start while a non-host player
	// is still unready.
	ErrPlayersNotReady = errors.New("players not ready")
	// ErrUnknownPlayer is returned for events from ids not seated in
	// the room.
	ErrUnknownPlayer = errors.New("player not in room")
	// ErrUnknownGameType is returned when no factory is registered for
	// the requested type key.
	ErrUnknownGameType = errors.New("unknown game type")
	// ErrDuplicateGameType is returned when a type key is registered
	// twice. Registration happens once at startup.
	ErrDuplicateGameType = errors.New("game type already registered")
)

// Rejectf 构造带原因的校验拒绝，供 Handler 在 ValidateAction 里使用
func Rejectf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidationRejected, fmt.Sprintf(format, args...))
}

// HandlerFault 记录 Handler 回调抛出的意外错误，只对本房间致命
type HandlerFault struct {
	GameType string
	Op       string
	Err      error
}

func (f *HandlerFault) Error() string {
	return fmt.Sprintf("handler fault in %s.%s: %v", f.GameType, f.Op, f.Err)
}

func (f *HandlerFault) Unwrap() error {
	return f.Err
}

// IsFault reports whether err is (or wraps) a HandlerFault.
func IsFault(err error) bool {
	var f *HandlerFault
	return errors.As(err, &f)
}

// ReasonCode maps an error to the short code carried on directed
// messages. Unrecognized errors map to "internal".
func ReasonCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidationRejected):
		return "rejected"
	case errors.Is(err, ErrCapacityExceeded):
		return "room_full"
	case errors.Is(err, ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, ErrTooManyRooms):
		return "too_many_rooms"
	case errors.Is(err, ErrPhaseViolation):
		return "phase_violation"
	case errors.Is(err, ErrRoomEnded):
		return "room_ended"
	case errors.Is(err, ErrNotHost):
		return "not_host"
	case errors.Is(err, ErrAlreadyStarted):
		return "already_started"
	case errors.Is(err, ErrNotEnoughPlayers):
		return "not_enough_players"
	case errors.Is(err, ErrPlayersNotReady):
		return "players_not_ready"
	case errors.Is(err, ErrUnknownPlayer):
		return "unknown_player"
	case errors.Is(err, ErrUnknownGameType):
		return "unknown_game_type"
	case IsFault(err):
		return "handler_fault"
	default:
		return "internal"
	}
}
