// internal/game/room.go
package game

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	engine "github.com/smackdown/crazy8/engine"
	"github.com/smackdown/crazy8/internal/cache"
	"github.com/smackdown/crazy8/internal/database"
	"github.com/smackdown/crazy8/internal/models"
	"github.com/sirupsen/logrus"
)

// Phase is the room lifecycle stage.
type Phase string

const (
	PhaseLobby      Phase = "lobby"
	PhaseCountdown  Phase = "countdown"
	PhaseInProgress Phase = "in_progress"
	PhaseFinished   Phase = "finished"
)

// Game-over reasons.
const (
	ReasonCountdownZero = "countdown_zero"
	ReasonLastPlayer    = "last_player"
	ReasonDeckExhausted = "deck_exhausted"
)

const (
	maxNameLen = 20
	maxChatLen = 200
)

// OnGameEndFunc is called once when a game finishes. winner is uuid.Nil when
// the deck ran out.
type OnGameEndFunc func(code string, winner uuid.UUID, reason string)

// Options configure new rooms.
type Options struct {
	Rules    engine.HouseRules
	BotDelay time.Duration
	// Seed returns the shuffle seed for each new game. Nil uses the clock.
	Seed func() uint64
}

// DefaultOptions returns the standard rules with the default bot delay.
func DefaultOptions() Options {
	return Options{Rules: engine.DefaultHouseRules(), BotDelay: 1200 * time.Millisecond}
}

// Room is one game session: its roster, phase and, once started, the engine
// state. Every exported method takes Mu.
type Room struct {
	ID   uuid.UUID
	Code string

	Phase   Phase
	Players []*models.Player // engine seat i belongs to Players[i] once started
	Engine  *engine.GameState
	// Seq is the sequence number the next play/draw/pass must carry.
	Seq int

	Rules    engine.HouseRules
	BotDelay time.Duration

	confirmations int
	actionIndex   int
	botCount      int
	startedAt     time.Time
	botTimer      *time.Timer
	closed        bool
	seed          func() uint64
	log           logrus.FieldLogger

	Mu sync.Mutex

	BroadcastFn         func(ev GameEvent)
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent)
	OnGameEnd           OnGameEndFunc
}

// NewRoom creates an empty room in the lobby phase.
func NewRoom(log logrus.FieldLogger, code string, opts Options) *Room {
	seed := opts.Seed
	if seed == nil {
		seed = func() uint64 { return uint64(time.Now().UnixNano()) }
	}
	return &Room{
		ID:       uuid.New(),
		Code:     code,
		Phase:    PhaseLobby,
		Rules:    opts.Rules,
		BotDelay: opts.BotDelay,
		seed:     seed,
		log:      log.WithField("room", code),
	}
}

// ---------------------------------------------------------------------------
// Membership
// ---------------------------------------------------------------------------

// Join adds p to the lobby. The joiner gets a private roster snapshot and the
// room is told about the new player.
func (r *Room) Join(p *models.Player) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return r.join(p)
}

func (r *Room) join(p *models.Player) error {
	if r.closed {
		return ErrRoomClosed
	}
	if r.Phase != PhaseLobby {
		return ErrGameInProgress
	}
	if r.getPlayerByID(p.ID) != nil {
		return nil
	}
	if len(r.Players) >= int(r.Rules.MaxPlayers) {
		return ErrRoomFull
	}
	name, ok := cleanName(p.Name)
	if !ok {
		return fmt.Errorf("%q: %w", p.Name, ErrInvalidName)
	}
	p.Name = name
	r.Players = append(r.Players, p)
	r.log.WithField("player", p.ID).Infof("%s joined (%d/%d)", p.Name, len(r.Players), r.Rules.MaxPlayers)

	r.fireEventToPlayer(p.ID, GameEvent{
		Type:    EventRosterSnapshot,
		Payload: map[string]interface{}{"code": r.Code, "players": r.roster(), "phase": r.Phase},
	})
	r.fireEvent(GameEvent{
		Type:    EventPlayerJoined,
		User:    eventUser(p),
		Payload: map[string]interface{}{"cosmetic": p.Cosmetic, "isBot": p.IsBot, "ready": p.Ready},
	})
	r.logAction(p.ID, string(EventPlayerJoined), map[string]interface{}{"name": p.Name, "isBot": p.IsBot})
	r.maybeStartCountdown()
	return nil
}

// AddBot seats a computer player. Bots are ready as soon as they join.
func (r *Room) AddBot() (*models.Player, error) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	r.botCount++
	b := models.NewBot(fmt.Sprintf("Bot %d", r.botCount))
	if err := r.join(b); err != nil {
		r.botCount--
		return nil, err
	}
	return b, nil
}

// Leave removes a player (disconnect or explicit exit). It reports whether the
// room has no connected humans left, in which case the room is closed.
func (r *Room) Leave(playerID uuid.UUID) (empty bool, err error) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	idx := r.playerIndex(playerID)
	if idx < 0 {
		return r.humanCount() == 0, ErrNotInRoom
	}
	p := r.Players[idx]
	p.Connected = false
	r.log.WithField("player", p.ID).Infof("%s left during %s", p.Name, r.Phase)
	r.logAction(p.ID, string(EventPlayerLeft), map[string]interface{}{"phase": r.Phase})

	switch r.Phase {
	case PhaseInProgress:
		r.leaveInProgress(idx)
	case PhaseCountdown:
		r.removePlayer(idx)
		r.fireEvent(GameEvent{Type: EventPlayerLeft, User: eventUser(p)})
		r.resetConfirmations()
		if len(r.Players) < int(r.Rules.MinPlayers) {
			r.Phase = PhaseLobby
			r.clearReady()
		}
	case PhaseFinished:
		// Seats stay aligned with the final engine state.
		r.fireEvent(GameEvent{Type: EventPlayerLeft, User: eventUser(p)})
	default:
		r.removePlayer(idx)
		r.fireEvent(GameEvent{Type: EventPlayerLeft, User: eventUser(p)})
	}

	if r.humanCount() == 0 {
		r.closeLocked()
		return true, nil
	}
	switch r.Phase {
	case PhaseCountdown:
		r.startCountdown()
	case PhaseLobby:
		r.maybeStartCountdown()
	}
	return false, nil
}

// leaveInProgress takes a seat out of a running game. Assumes lock is held.
func (r *Room) leaveInProgress(idx int) {
	p := r.Players[idx]
	turnMoved, err := r.Engine.RemoveSeat(idx)
	if err != nil {
		r.log.WithError(err).Error("remove seat")
		return
	}
	r.removePlayer(idx)
	r.fireEvent(GameEvent{Type: EventPlayerLeft, User: eventUser(p)})

	if r.Engine.Over {
		r.finish(ReasonLastPlayer)
		return
	}
	r.clearReady()
	r.broadcastHandCounts()
	if turnMoved {
		r.Seq++
		r.startTurn()
	}
}

func (r *Room) removePlayer(idx int) {
	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)
}

// ---------------------------------------------------------------------------
// Ready / countdown
// ---------------------------------------------------------------------------

// SetReady flags a lobby player ready or not. When everyone is ready and there
// are enough players the countdown starts.
func (r *Room) SetReady(playerID uuid.UUID, ready bool) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.Phase != PhaseLobby {
		return ErrWrongPhase
	}
	p := r.getPlayerByID(playerID)
	if p == nil {
		return ErrNotInRoom
	}
	p.Ready = ready
	r.fireEvent(GameEvent{Type: EventPlayerReady, User: eventUser(p), Payload: map[string]interface{}{"ready": ready}})
	r.maybeStartCountdown()
	return nil
}

// ConfirmReady records a player's confirmation during the countdown. The
// last confirmation starts the game.
func (r *Room) ConfirmReady(playerID uuid.UUID) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.Phase != PhaseCountdown {
		return ErrWrongPhase
	}
	p := r.getPlayerByID(playerID)
	if p == nil {
		return ErrNotInRoom
	}
	r.confirm(p)
	return nil
}

func (r *Room) confirm(p *models.Player) {
	if p.Confirmed || r.Phase != PhaseCountdown {
		return
	}
	p.Confirmed = true
	r.confirmations++
	r.fireEvent(GameEvent{
		Type:    EventPlayerConfirmed,
		User:    eventUser(p),
		Payload: map[string]interface{}{"confirmed": r.confirmations, "needed": len(r.Players)},
	})
	if r.confirmations == len(r.Players) {
		r.startGame()
	}
}

func (r *Room) maybeStartCountdown() {
	if r.Phase != PhaseLobby || len(r.Players) < int(r.Rules.MinPlayers) {
		return
	}
	for _, p := range r.Players {
		if !p.Ready {
			return
		}
	}
	r.Phase = PhaseCountdown
	r.resetConfirmations()
	r.startCountdown()
}

// startCountdown announces the countdown and lets bots confirm.
func (r *Room) startCountdown() {
	r.log.Infof("countdown started with %d players", len(r.Players))
	r.fireEvent(GameEvent{Type: EventCountdownStarted, Payload: map[string]interface{}{"players": len(r.Players)}})
	for _, p := range r.Players {
		if p.IsBot {
			r.confirm(p)
		}
	}
}

func (r *Room) resetConfirmations() {
	r.confirmations = 0
	for _, p := range r.Players {
		p.Confirmed = false
	}
}

// clearReady resets human ready flags. Bots stay ready.
func (r *Room) clearReady() {
	for _, p := range r.Players {
		p.Ready = p.IsBot
		p.Confirmed = false
	}
	r.confirmations = 0
}

// ---------------------------------------------------------------------------
// Game lifecycle
// ---------------------------------------------------------------------------

// startGame shuffles the turn order, deals and signals the first turn.
// Assumes lock is held.
func (r *Room) startGame() {
	seed := r.seed()
	g, err := engine.NewGame(seed, r.Rules, len(r.Players))
	if err != nil {
		r.log.WithError(err).Error("cannot start game")
		r.Phase = PhaseLobby
		r.clearReady()
		return
	}
	ordered := make([]*models.Player, len(r.Players))
	for seat, orig := range g.Order {
		ordered[seat] = r.Players[orig]
	}
	r.Players = ordered
	r.Engine = &g
	r.Phase = PhaseInProgress
	r.Seq = 0
	r.startedAt = time.Now()

	first, err := r.Engine.Deal()
	if err != nil {
		r.log.WithError(err).Error("deal failed")
		r.finish(ReasonDeckExhausted)
		return
	}
	r.log.WithField("seed", seed).Infof("game started with %d players", len(r.Players))

	order := make([]EventUser, len(r.Players))
	for i, p := range r.Players {
		order[i] = *eventUser(p)
	}
	r.fireEvent(GameEvent{Type: EventGameStarted, Payload: map[string]interface{}{"order": order, "gameId": r.ID}})
	r.logAction(uuid.Nil, string(EventGameStarted), map[string]interface{}{"seed": seed, "players": len(r.Players)})

	for i, p := range r.Players {
		r.fireEventToPlayer(p.ID, GameEvent{
			Type:    EventPrivateHandDealt,
			Cards:   toEventCards(r.Engine.Seats[i].Hand),
			Payload: map[string]interface{}{"countdown": r.Engine.Seats[i].Countdown},
		})
	}
	r.fireEvent(GameEvent{Type: EventFirstCardInPlay, Card: toEventCard(first)})
	r.broadcastHandCounts()
	r.startTurn()
}

// finish ends the game exactly once. Assumes lock is held.
func (r *Room) finish(reason string) {
	if r.Phase == PhaseFinished {
		return
	}
	r.Phase = PhaseFinished
	r.stopBotTimer()

	winner := uuid.Nil
	if r.Engine != nil {
		r.Engine.Over = true
		if w := r.Engine.Winner; w >= 0 && w < len(r.Players) {
			winner = r.Players[w].ID
		}
	}
	standings := r.standings()
	entry := r.log.WithField("reason", reason)
	if reason == ReasonDeckExhausted {
		entry.Error("game aborted: deck exhausted")
	} else {
		entry.WithField("winner", winner).Info("game over")
	}

	payload := map[string]interface{}{"reason": reason, "standings": standings}
	ev := GameEvent{Type: EventGameOver, Payload: payload}
	if winner != uuid.Nil {
		ev.User = eventUser(r.getPlayerByID(winner))
		payload["winner"] = winner.String()
	}
	r.fireEvent(ev)
	r.logAction(uuid.Nil, string(EventGameOver), map[string]interface{}{"reason": reason, "winner": winner})
	r.persistResult(reason, winner, standings)

	if r.OnGameEnd != nil {
		r.OnGameEnd(r.Code, winner, reason)
	}
}

// Standing is one row of the game_over table.
type Standing struct {
	Player    EventUser `json:"player"`
	IsBot     bool      `json:"isBot"`
	Place     int       `json:"place"`
	Countdown int       `json:"countdown"`
	HandSize  int       `json:"handSize"`
}

func (r *Room) standings() []Standing {
	if r.Engine == nil {
		return nil
	}
	var out []Standing
	for _, s := range r.Engine.Standings() {
		if s.Seat >= len(r.Players) {
			continue
		}
		p := r.Players[s.Seat]
		out = append(out, Standing{
			Player:    *eventUser(p),
			IsBot:     p.IsBot,
			Place:     s.Place,
			Countdown: s.Countdown,
			HandSize:  s.HandSize,
		})
	}
	return out
}

// persistResult archives the finished game when a database is configured.
// Assumes lock is held by caller.
func (r *Room) persistResult(reason string, winner uuid.UUID, standings []Standing) {
	if database.DB == nil {
		return
	}
	res := database.GameResult{
		GameID:    r.ID,
		RoomCode:  r.Code,
		Reason:    reason,
		WinnerID:  winner,
		StartedAt: r.startedAt,
		EndedAt:   time.Now(),
		Turns:     r.Seq,
	}
	for _, s := range standings {
		res.Standings = append(res.Standings, database.PlayerStanding{
			PlayerID:  s.Player.ID,
			Name:      s.Player.Name,
			IsBot:     s.IsBot,
			Place:     s.Place,
			Countdown: s.Countdown,
			HandSize:  s.HandSize,
		})
	}
	log := r.log
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.StoreGameResult(ctx, res); err != nil {
			log.WithError(err).Error("store game result")
		}
	}()
}

// ---------------------------------------------------------------------------
// Chat / close
// ---------------------------------------------------------------------------

// Chat relays a message from a member to the room.
func (r *Room) Chat(playerID uuid.UUID, text string) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	p := r.getPlayerByID(playerID)
	if p == nil {
		return ErrNotInRoom
	}
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > maxChatLen {
		return ErrInvalidChat
	}
	r.fireEvent(GameEvent{Type: EventChatMessage, User: eventUser(p), Payload: map[string]interface{}{"text": text}})
	return nil
}

// Close stops any pending bot move. The room accepts nothing afterwards.
func (r *Room) Close() {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	r.closeLocked()
}

func (r *Room) closeLocked() {
	if r.closed {
		return
	}
	r.closed = true
	r.stopBotTimer()
	r.log.Info("room closed")
}

// Closed reports whether the room has been closed.
func (r *Room) Closed() bool {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return r.closed
}

// CurrentPhase returns the room phase.
func (r *Room) CurrentPhase() Phase {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return r.Phase
}

// ---------------------------------------------------------------------------
// Helpers (lock held)
// ---------------------------------------------------------------------------

func (r *Room) fireEvent(ev GameEvent) {
	if r.BroadcastFn != nil {
		r.BroadcastFn(ev)
	}
}

// fireEventToPlayer sends a private event to a connected human.
func (r *Room) fireEventToPlayer(playerID uuid.UUID, ev GameEvent) {
	if r.BroadcastToPlayerFn == nil {
		return
	}
	p := r.getPlayerByID(playerID)
	if p == nil || p.IsBot || !p.Connected {
		return
	}
	r.BroadcastToPlayerFn(playerID, ev)
}

func (r *Room) reject(playerID uuid.UUID, err error) {
	r.fireEventToPlayer(playerID, GameEvent{
		Type:    EventPrivateActionRejected,
		Payload: map[string]interface{}{"code": rejectCode(err), "message": err.Error()},
	})
}

func (r *Room) broadcastHandCounts() {
	if r.Engine == nil {
		return
	}
	counts := make(map[string]int, len(r.Players))
	for i, p := range r.Players {
		counts[p.ID.String()] = r.Engine.HandLen(i)
	}
	r.fireEvent(GameEvent{Type: EventHandCountUpdated, Payload: map[string]interface{}{
		"counts":   counts,
		"drawPile": len(r.Engine.Deck.DrawPile),
	}})
}

func (r *Room) getPlayerByID(id uuid.UUID) *models.Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Room) playerIndex(id uuid.UUID) int {
	for i, p := range r.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (r *Room) humanCount() int {
	n := 0
	for _, p := range r.Players {
		if !p.IsBot && p.Connected {
			n++
		}
	}
	return n
}

func (r *Room) roster() []models.Player {
	out := make([]models.Player, len(r.Players))
	for i, p := range r.Players {
		out[i] = *p
	}
	return out
}

func eventUser(p *models.Player) *EventUser {
	if p == nil {
		return nil
	}
	return &EventUser{ID: p.ID, Name: p.Name}
}

// cleanName trims and validates a display name.
func cleanName(s string) (string, bool) {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	if n == 0 || n > maxNameLen {
		return "", false
	}
	for _, c := range s {
		if unicode.IsControl(c) {
			return "", false
		}
	}
	return s, true
}

// logAction sends room action details to the historian via the Redis queue.
// Assumes lock is held by caller.
func (r *Room) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	r.actionIndex++
	if cache.Rdb == nil {
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}
	rec := cache.GameActionRecord{
		GameID:        r.ID,
		RoomCode:      r.Code,
		ActionIndex:   r.actionIndex,
		ActorUserID:   actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	log := r.log
	go func(rec cache.GameActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishGameAction(ctx, rec); err != nil {
			log.WithError(err).Warnf("publish action %d (%s)", rec.ActionIndex, rec.ActionType)
		}
	}(rec)
}
