// internal/gateway/messages.go
package gateway

import (
	"encoding/json"
	"errors"
	"fmt"

	engine "github.com/smackdown/crazy8/engine"
	"github.com/smackdown/crazy8/internal/game"
)

// Inbound message types.
const (
	MsgCreateRoom     = "create_room"
	MsgJoinRoom       = "join_room"
	MsgRegisterPlayer = "register_player"
	MsgAddBot         = "add_bot"
	MsgSetReady       = "set_ready"
	MsgConfirmReady   = "confirm_ready"
	MsgPlayCard       = "play_card"
	MsgDrawCard       = "draw_card"
	MsgPassTurn       = "pass_turn"
	MsgChat           = "chat"
	MsgSyncState      = "sync_state"
)

// Outbound reply types. Room events are sent as game.GameEvent.
const (
	MsgRegistered  = "registered"
	MsgRoomCreated = "room_created"
	MsgJoined      = "joined"
	MsgRoomError   = "room_error"
	MsgError       = "error"
)

var (
	ErrUnknownMessage = errors.New("unknown message type")
	ErrBadPayload     = errors.New("malformed payload")
)

// Envelope is the JSON frame for both directions.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Reply is an outbound non-event message.
type Reply struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Command is a decoded inbound message.
type Command interface {
	isCommand()
}

type (
	// RegisterPlayer sets the connection's display name and cosmetic.
	RegisterPlayer struct {
		Name     string `json:"name"`
		Cosmetic string `json:"cosmetic"`
	}
	// CreateRoom opens a room (empty Code asks for a random one) and joins it.
	CreateRoom struct {
		Code     string `json:"code"`
		Name     string `json:"name"`
		Cosmetic string `json:"cosmetic"`
	}
	// JoinRoom joins an existing room.
	JoinRoom struct {
		Code     string `json:"code"`
		Name     string `json:"name"`
		Cosmetic string `json:"cosmetic"`
	}
	AddBot       struct{}
	SetReady     struct{ Ready bool }
	ConfirmReady struct{}
	SyncState    struct{}
	Chat         struct{ Text string }
	// TurnAction is a play, draw or pass.
	TurnAction struct{ Action game.Action }
)

func (RegisterPlayer) isCommand() {}
func (CreateRoom) isCommand()     {}
func (JoinRoom) isCommand()       {}
func (AddBot) isCommand()         {}
func (SetReady) isCommand()       {}
func (ConfirmReady) isCommand()   {}
func (SyncState) isCommand()      {}
func (Chat) isCommand()           {}
func (TurnAction) isCommand()     {}

type readyPayload struct {
	Ready *bool `json:"ready"`
}

type chatPayload struct {
	Text string `json:"text"`
}

type seqPayload struct {
	Seq int `json:"seq"`
}

type playPayload struct {
	Seq  int             `json:"seq"`
	Card *game.EventCard `json:"card"`
	Suit string          `json:"suit"`
}

// ParseMessage decodes one inbound frame.
func ParseMessage(data []byte) (Command, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return Decode(env)
}

// Decode turns an envelope into a typed command.
func Decode(env Envelope) (Command, error) {
	switch env.Type {
	case MsgRegisterPlayer:
		var c RegisterPlayer
		if err := unmarshal(env, &c); err != nil {
			return nil, err
		}
		return c, nil
	case MsgCreateRoom:
		var c CreateRoom
		if err := unmarshal(env, &c); err != nil {
			return nil, err
		}
		return c, nil
	case MsgJoinRoom:
		var c JoinRoom
		if err := unmarshal(env, &c); err != nil {
			return nil, err
		}
		if c.Code == "" {
			return nil, fmt.Errorf("%s: %w: code is required", env.Type, ErrBadPayload)
		}
		return c, nil
	case MsgAddBot:
		return AddBot{}, nil
	case MsgSetReady:
		var p readyPayload
		if err := unmarshal(env, &p); err != nil {
			return nil, err
		}
		ready := true
		if p.Ready != nil {
			ready = *p.Ready
		}
		return SetReady{Ready: ready}, nil
	case MsgConfirmReady:
		return ConfirmReady{}, nil
	case MsgSyncState:
		return SyncState{}, nil
	case MsgChat:
		var p chatPayload
		if err := unmarshal(env, &p); err != nil {
			return nil, err
		}
		return Chat{Text: p.Text}, nil
	case MsgDrawCard, MsgPassTurn:
		var p seqPayload
		if err := unmarshal(env, &p); err != nil {
			return nil, err
		}
		kind := game.ActionDrawCard
		if env.Type == MsgPassTurn {
			kind = game.ActionPassTurn
		}
		return TurnAction{Action: game.Action{Kind: kind, Seq: p.Seq}}, nil
	case MsgPlayCard:
		return decodePlay(env)
	}
	return nil, fmt.Errorf("%q: %w", env.Type, ErrUnknownMessage)
}

func decodePlay(env Envelope) (Command, error) {
	var p playPayload
	if err := unmarshal(env, &p); err != nil {
		return nil, err
	}
	if p.Card == nil {
		return nil, fmt.Errorf("%s: %w: card is required", env.Type, ErrBadPayload)
	}
	card, err := game.ParseEventCard(*p.Card)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", env.Type, ErrBadPayload, err)
	}
	suit := engine.NoSuit
	if p.Suit != "" {
		if suit, err = engine.ParseSuit(p.Suit); err != nil {
			return nil, fmt.Errorf("%s: %w: %v", env.Type, ErrBadPayload, err)
		}
	}
	return TurnAction{Action: game.Action{Kind: game.ActionPlayCard, Seq: p.Seq, Card: card, Suit: suit}}, nil
}

func unmarshal(env Envelope, v interface{}) error {
	if len(env.Payload) == 0 || string(env.Payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Payload, v); err != nil {
		return fmt.Errorf("%s: %w: %v", env.Type, ErrBadPayload, err)
	}
	return nil
}
