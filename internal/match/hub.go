package match

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gridpoint/tictactoe-server/internal/apperror"
	"github.com/gridpoint/tictactoe-server/internal/entity"
)

const sendBufferSize = 8

// Bridge turns terminal transitions into statistics and leaderboard
// writes. Failures are the caller's to log; they never roll back the
// game outcome.
type Bridge interface {
	RecordWin(ctx context.Context, winner, loser *entity.Player) error
	RecordDraw(ctx context.Context, first, second *entity.Player) error
}

// Client is one connected participant. The transport layer owns the
// network connection and drains Messages into it; the hub owns the
// channel and closes it when the client is dropped.
type Client struct {
	PlayerID string
	Name     string

	send chan any
}

func NewClient(playerID, name string) *Client {
	return &Client{
		PlayerID: playerID,
		Name:     name,
		send:     make(chan any, sendBufferSize),
	}
}

// Messages yields the events to deliver to this client. The channel is
// closed when the session ends or the client is evicted.
func (that *Client) Messages() <-chan any {
	return that.send
}

type clientCommand struct {
	client  *Client
	command Command
}

type signalCommand struct {
	data string
}

type terminateCommand struct{}

func (signalCommand) isCommand()    {}
func (terminateCommand) isCommand() {}

// Hub owns one session and serializes every event destined for it
// through a single goroutine, so the state machine itself needs no
// locks. Different hubs run fully in parallel.
type Hub struct {
	logger   *slog.Logger
	session  *entity.Session
	bridge   Bridge
	registry Registry

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	commands   chan clientCommand
	done       chan struct{}

	// read by matchmaking from other goroutines
	occupancy atomic.Int32
	closed    atomic.Bool

	now func() time.Time
}

func NewHub(logger *slog.Logger, session *entity.Session, bridge Bridge, registry Registry) *Hub {
	return &Hub{
		logger:   logger.With("component", "hub", "sessionID", session.ID),
		session:  session,
		bridge:   bridge,
		registry: registry,

		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan clientCommand),
		done:       make(chan struct{}),

		now: time.Now,
	}
}

func (that *Hub) ID() string {
	return that.session.ID
}

// Label returns the discoverable matchmaking metadata of this session.
func (that *Hub) Label() Label {
	return NewLabel(that.session.Mode, that.session.TimeLimit)
}

// IsOpen reports whether the session still has a free seat. Safe to
// call from any goroutine.
func (that *Hub) IsOpen() bool {
	return !that.closed.Load() && that.occupancy.Load() < 2
}

// Join submits a join attempt. The attempt itself is decided inside the
// event loop, so two concurrent joins can never both win the last seat.
func (that *Hub) Join(client *Client) error {
	select {
	case that.register <- client:
		return nil
	case <-that.done:
		return apperror.ErrSessionTerminated
	}
}

// Leave detaches a client. Mid-game this forfeits in the opponent's
// favor; before the game starts it just frees the seat.
func (that *Hub) Leave(client *Client) {
	select {
	case that.unregister <- client:
	case <-that.done:
	}
}

// Dispatch hands a decoded client command to the event loop. Commands
// for a finished session are silently dropped.
func (that *Hub) Dispatch(client *Client, command Command) {
	select {
	case that.commands <- clientCommand{client: client, command: command}:
	case <-that.done:
	}
}

// Signal is an administrative hook with no game-logic effect.
func (that *Hub) Signal(data string) {
	that.Dispatch(nil, signalCommand{data: data})
}

// Terminate is an administrative hook with no game-logic effect.
func (that *Hub) Terminate() {
	that.Dispatch(nil, terminateCommand{})
}

// Run processes the session's event stream until the session ends.
func (that *Hub) Run() {
	for {
		select {
		case client := <-that.register:
			that.handleJoin(client)
		case client := <-that.unregister:
			that.handleLeave(client)
		case msg := <-that.commands:
			that.handleCommand(msg.client, msg.command)
		case <-that.done:
			return
		}
	}
}

func (that *Hub) handleJoin(client *Client) {
	log := that.logger.With("method", "handleJoin", "playerID", client.PlayerID)

	if that.session.Terminated {
		that.reject(client, "Match is already over")
		return
	}

	player, err := that.session.AddPlayer(client.PlayerID, client.Name, that.now())
	if err != nil {
		log.Warn("join rejected", "error", err)
		that.reject(client, "Match is full")
		return
	}

	that.clients[client] = true
	that.occupancy.Store(int32(len(that.session.Players)))

	log.Info("player joined", "mark", player.Mark)

	that.broadcast(PlayerJoinedEvent{Type: EventPlayerJoined, Player: player})

	if that.session.GameStarted {
		roster := make(map[string]*entity.Player, len(that.session.Players))
		for _, p := range that.session.Players {
			roster[p.ID] = p
		}

		log.Info("game starting", "firstTurn", that.session.CurrentTurn)

		that.broadcast(GameStartEvent{
			Type:        EventGameStart,
			Players:     roster,
			CurrentTurn: that.session.CurrentTurn,
			Mode:        that.session.Mode,
			TimeLimit:   that.session.TimeLimit,
		})
	}
}

func (that *Hub) handleLeave(client *Client) {
	log := that.logger.With("method", "handleLeave", "playerID", client.PlayerID)

	if _, ok := that.clients[client]; ok {
		delete(that.clients, client)
		close(client.send)
	}

	if that.session.Terminated {
		return
	}

	if that.session.PlayerByID(client.PlayerID) == nil {
		return
	}

	if that.session.GameStarted {
		// disconnect mid-game counts as a forfeit
		winner, err := that.session.Forfeit(client.PlayerID)
		if err != nil {
			log.Warn("failed to forfeit on disconnect", "error", err)
			return
		}

		log.Info("player disconnected mid-game", "winner", winner.ID)
		that.finishDecisive(winner, that.session.PlayerByID(client.PlayerID), ReasonForfeit)
		return
	}

	that.session.RemovePlayer(client.PlayerID)
	that.occupancy.Store(int32(len(that.session.Players)))

	log.Info("player left before game start")
	that.broadcast(PlayerDisconnectedEvent{Type: EventPlayerDisconnected, UserID: client.PlayerID})
}

func (that *Hub) handleCommand(client *Client, command Command) {
	log := that.logger.With("method", "handleCommand")

	switch cmd := command.(type) {
	case MoveCommand:
		if cmd.Position == TimeoutPosition {
			that.handleTimeout(client)
			return
		}
		that.handleMove(client, cmd.Position)
	case ForfeitCommand:
		that.handleForfeit(client)
	case signalCommand:
		log.Info("signal received", "data", cmd.data)
	case terminateCommand:
		log.Info("terminate requested", "status", that.session.Terminated)
	default:
		log.Warn("unknown command dropped")
	}
}

func (that *Hub) handleMove(client *Client, position int) {
	log := that.logger.With("method", "handleMove", "playerID", client.PlayerID, "position", position)

	result, err := that.session.ApplyMove(client.PlayerID, position, that.now())
	if err != nil {
		// rule violations are no-ops for the offending client
		log.Warn("move ignored", "error", err)
		return
	}

	log.Info("move applied", "mark", result.Mark)

	switch result.Outcome {
	case entity.OutcomeWin:
		winner := that.session.PlayerByID(client.PlayerID)
		that.finishDecisive(winner, that.session.OtherPlayer(client.PlayerID), "")
	case entity.OutcomeDraw:
		that.finishDraw()
	default:
		event := MoveMadeEvent{
			Type:        EventMoveMade,
			Position:    result.Position,
			Mark:        result.Mark,
			Board:       that.session.Board.Cells(),
			CurrentTurn: that.session.CurrentTurn,
		}
		if that.session.IsTimed() {
			taken := result.TimeTaken
			event.TimeTaken = &taken
		}
		that.broadcast(event)
	}
}

func (that *Hub) handleTimeout(client *Client) {
	log := that.logger.With("method", "handleTimeout", "playerID", client.PlayerID)

	if err := that.session.ApplyTimeout(client.PlayerID, that.now()); err != nil {
		log.Warn("timeout ignored", "error", err)
		return
	}

	log.Info("turn expired, passing turn", "currentTurn", that.session.CurrentTurn)

	taken := 0.0
	that.broadcast(MoveMadeEvent{
		Type:        EventMoveMade,
		Position:    TimeoutPosition,
		Board:       that.session.Board.Cells(),
		CurrentTurn: that.session.CurrentTurn,
		TimeTaken:   &taken,
	})
}

func (that *Hub) handleForfeit(client *Client) {
	log := that.logger.With("method", "handleForfeit", "playerID", client.PlayerID)

	winner, err := that.session.Forfeit(client.PlayerID)
	if err != nil {
		log.Warn("forfeit ignored", "error", err)
		return
	}

	log.Info("player forfeited", "winner", winner.ID)
	that.finishDecisive(winner, that.session.PlayerByID(client.PlayerID), ReasonForfeit)
}

// finishDecisive broadcasts the terminal event, records the outcome
// once and tears the session down.
func (that *Hub) finishDecisive(winner, loser *entity.Player, reason string) {
	log := that.logger.With("method", "finishDecisive")

	that.broadcast(GameOverEvent{
		Type:   EventGameOver,
		Winner: winner.ID,
		Board:  that.session.Board.Cells(),
		IsDraw: false,
		Reason: reason,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := that.bridge.RecordWin(ctx, winner, loser); err != nil {
		log.Error("failed to record game result", "error", err)
	}

	that.teardown()
}

func (that *Hub) finishDraw() {
	log := that.logger.With("method", "finishDraw")

	that.broadcast(GameOverEvent{
		Type:   EventGameOver,
		Board:  that.session.Board.Cells(),
		IsDraw: true,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := that.bridge.RecordDraw(ctx, that.session.Players[0], that.session.Players[1]); err != nil {
		log.Error("failed to record draw", "error", err)
	}

	that.teardown()
}

// reject answers a refused join attempt and drops the client without
// touching session state.
func (that *Hub) reject(client *Client, reason string) {
	select {
	case client.send <- JoinRejectedEvent{Type: EventJoinRejected, Reason: reason}:
	default:
	}
	close(client.send)
}

// broadcast delivers an event to every connected client at most once.
// A client whose buffer is full is dropped rather than blocking the
// session loop.
func (that *Hub) broadcast(event any) {
	for client := range that.clients {
		select {
		case client.send <- event:
		default:
			delete(that.clients, client)
			close(client.send)
		}
	}
}

// teardown releases every resource held for the session. The hub is
// unreachable through the registry afterwards and is never reused.
func (that *Hub) teardown() {
	that.closed.Store(true)
	that.registry.Remove(that.session.ID)

	for client := range that.clients {
		delete(that.clients, client)
		close(client.send)
	}

	close(that.done)
	that.logger.Info("session torn down")
}
