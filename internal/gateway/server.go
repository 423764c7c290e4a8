// internal/gateway/server.go
package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/smackdown/crazy8/internal/game"
	"github.com/smackdown/crazy8/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	writeTimeout = 5 * time.Second
	readLimit    = 4096
)

// Server accepts WebSocket connections and turns their messages into
// registry and room calls.
type Server struct {
	reg            *game.Registry
	hub            *Hub
	log            logrus.FieldLogger
	originPatterns []string
}

// NewServer wires a gateway to the registry. The registry must have been
// built with hub as its broadcaster. originPatterns lists extra hosts allowed
// to connect cross-origin; empty allows same-origin only.
func NewServer(log logrus.FieldLogger, reg *game.Registry, hub *Hub, originPatterns []string) *Server {
	return &Server{reg: reg, hub: hub, log: log, originPatterns: originPatterns}
}

// ServeHTTP upgrades the request and runs the connection until it closes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.originPatterns})
	if err != nil {
		s.log.WithError(err).Warn("websocket accept")
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(readLimit)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// closeSlow can run under a room lock, so the close handshake happens elsewhere.
	cl := newClient(func() {
		go conn.Close(websocket.StatusPolicyViolation, "connection too slow to keep up with messages")
	})
	sess := &session{srv: s, client: cl, log: s.log.WithField("remote", r.RemoteAddr)}
	defer sess.leave()

	go writeLoop(ctx, conn, cl, sess.log)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				sess.log.Debug("connection closed")
			default:
				sess.log.WithError(err).Debug("read failed")
			}
			return
		}
		sess.handle(data)
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn, cl *client, log logrus.FieldLogger) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-cl.send:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, conn, msg)
			cancel()
			if err != nil {
				log.WithError(err).Debug("write failed")
				conn.CloseNow()
				return
			}
		}
	}
}

// session is the per-connection identity and room membership.
type session struct {
	srv    *Server
	client *client
	log    logrus.FieldLogger

	player *models.Player
	room   *game.Room
}

func (s *session) reply(typ string, payload map[string]interface{}) {
	s.client.enqueue(Reply{Type: typ, Payload: payload})
}

func (s *session) fail(err error) {
	s.reply(MsgError, map[string]interface{}{"message": err.Error()})
}

func (s *session) roomFail(err error) {
	reason := game.RoomErrorReason(err)
	if reason == "" {
		s.fail(err)
		return
	}
	s.reply(MsgRoomError, map[string]interface{}{"reason": reason, "message": err.Error()})
}

var (
	errAlreadyInRoom = errors.New("already in a room")
	errNoRoom        = errors.New("not in a room")
)

func (s *session) handle(data []byte) {
	cmd, err := ParseMessage(data)
	if err != nil {
		s.log.WithError(err).Debug("bad message")
		s.fail(err)
		return
	}

	switch c := cmd.(type) {
	case RegisterPlayer:
		s.register(c.Name, c.Cosmetic)
		return
	case CreateRoom:
		s.create(c)
		return
	case JoinRoom:
		s.join(c.Code, c.Name, c.Cosmetic)
		return
	}

	if s.room == nil {
		s.fail(errNoRoom)
		return
	}
	id := s.player.ID
	switch c := cmd.(type) {
	case AddBot:
		_, err = s.room.AddBot()
	case SetReady:
		err = s.room.SetReady(id, c.Ready)
	case ConfirmReady:
		err = s.room.ConfirmReady(id)
	case Chat:
		err = s.room.Chat(id, c.Text)
	case SyncState:
		err = s.room.SyncState(id)
	case TurnAction:
		err = s.room.HandleAction(id, c.Action)
		// Rule violations were already reported by the room.
		if err != nil && !errors.Is(err, game.ErrRoomClosed) && !errors.Is(err, game.ErrNotInRoom) {
			return
		}
	}
	if err != nil {
		s.fail(err)
	}
}

// register sets or updates the connection identity while outside a room.
func (s *session) register(name, cosmetic string) {
	if s.room != nil {
		s.fail(errAlreadyInRoom)
		return
	}
	if s.player == nil {
		s.player = models.NewPlayer(name, cosmetic)
	} else {
		s.player.Name, s.player.Cosmetic = name, cosmetic
	}
	s.reply(MsgRegistered, map[string]interface{}{"playerId": s.player.ID})
}

func (s *session) ensurePlayer(name, cosmetic string) {
	switch {
	case s.player == nil:
		s.player = models.NewPlayer(name, cosmetic)
	case name != "":
		s.player.Name, s.player.Cosmetic = name, cosmetic
	}
}

func (s *session) create(c CreateRoom) {
	if !s.leaveFinished() {
		s.fail(errAlreadyInRoom)
		return
	}
	room, err := s.srv.reg.Create(c.Code)
	if err != nil {
		s.roomFail(err)
		return
	}
	s.reply(MsgRoomCreated, map[string]interface{}{"code": room.Code})
	if !s.join(room.Code, c.Name, c.Cosmetic) {
		s.srv.reg.Remove(room.Code)
	}
}

func (s *session) join(code, name, cosmetic string) bool {
	if !s.leaveFinished() {
		s.fail(errAlreadyInRoom)
		return false
	}
	s.ensurePlayer(name, cosmetic)
	room, err := s.srv.reg.Get(code)
	if err != nil {
		s.roomFail(err)
		return false
	}
	// Subscribe first so the roster snapshot sent during Join arrives.
	s.srv.hub.subscribe(room.Code, s.player.ID, s.client)
	if err := room.Join(s.player); err != nil {
		s.srv.hub.unsubscribe(room.Code, s.player.ID)
		s.roomFail(err)
		return false
	}
	s.room = room
	s.log = s.log.WithFields(logrus.Fields{"room": room.Code, "player": s.player.ID})
	s.reply(MsgJoined, map[string]interface{}{"code": room.Code, "playerId": s.player.ID})
	return true
}

// leaveFinished drops membership of a finished room so the connection can
// start another. It reports whether the session is now outside any room.
func (s *session) leaveFinished() bool {
	if s.room == nil {
		return true
	}
	if s.room.CurrentPhase() != game.PhaseFinished {
		return false
	}
	s.leave()
	return true
}

// leave runs when the socket closes.
func (s *session) leave() {
	if s.room == nil {
		return
	}
	code, id := s.room.Code, s.player.ID
	s.srv.hub.unsubscribe(code, id)
	if err := s.srv.reg.Leave(code, id); err != nil && !errors.Is(err, game.ErrRoomNotFound) {
		s.log.WithError(err).Debug("leave")
	}
	s.room = nil
	// The old room keeps its record; the identity carries on with fresh flags.
	next := *s.player
	next.Ready, next.Confirmed, next.Connected = false, false, true
	s.player = &next
}
