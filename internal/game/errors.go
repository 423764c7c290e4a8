// internal/game/errors.go
package game

import (
	"errors"

	engine "github.com/smackdown/crazy8/engine"
)

// Room and registry errors. Engine rule errors pass through wrapped.
var (
	ErrRoomExists      = errors.New("room already exists")
	ErrRoomNotFound    = errors.New("room does not exist")
	ErrRoomFull        = errors.New("room is full")
	ErrGameInProgress  = errors.New("game is in progress")
	ErrInvalidRoomCode = errors.New("invalid room code")
	ErrInvalidName     = errors.New("invalid player name")
	ErrWrongPhase      = errors.New("action not allowed in this phase")
	ErrNotInRoom       = errors.New("player is not in this room")
	ErrInvalidChat     = errors.New("invalid chat message")
	ErrUnknownAction   = errors.New("unknown action")
	ErrRoomClosed      = errors.New("room is closed")
)

// RoomErrorReason maps a join/create error to the short reason clients
// switch on. It returns "" for errors that are not room errors.
func RoomErrorReason(err error) string {
	switch {
	case errors.Is(err, ErrRoomExists):
		return "exists"
	case errors.Is(err, ErrRoomNotFound), errors.Is(err, ErrRoomClosed):
		return "not_found"
	case errors.Is(err, ErrRoomFull):
		return "full"
	case errors.Is(err, ErrGameInProgress):
		return "in_progress"
	case errors.Is(err, ErrInvalidRoomCode):
		return "invalid_code"
	}
	return ""
}

// rejectCode maps an action error to a stable code for private_action_rejected.
func rejectCode(err error) string {
	switch {
	case errors.Is(err, engine.ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, engine.ErrCardNotInHand):
		return "card_not_in_hand"
	case errors.Is(err, engine.ErrIllegalMove):
		return "illegal_move"
	case errors.Is(err, engine.ErrSuitRequired):
		return "suit_required"
	case errors.Is(err, engine.ErrAlreadyDrew):
		return "already_drew"
	case errors.Is(err, engine.ErrMustPlayDrawn):
		return "must_play_drawn"
	case errors.Is(err, engine.ErrNothingToPass):
		return "nothing_to_pass"
	case errors.Is(err, engine.ErrGameOver):
		return "game_over"
	case errors.Is(err, ErrWrongPhase):
		return "wrong_phase"
	case errors.Is(err, ErrNotInRoom):
		return "not_in_room"
	case errors.Is(err, ErrInvalidChat):
		return "invalid_chat"
	case errors.Is(err, ErrInvalidName):
		return "invalid_name"
	case errors.Is(err, ErrUnknownAction):
		return "unknown_action"
	}
	return "rejected"
}
