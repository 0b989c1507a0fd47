package entity

import (
	"time"

	"github.com/gridpoint/tictactoe-server/internal/apperror"
)

const (
	ModeStandard = "standard"
	ModeTimed    = "timed"

	maxPlayers = 2
)

// Outcome of a single applied move.
type Outcome int

const (
	OutcomeContinue Outcome = iota
	OutcomeWin
	OutcomeDraw
)

// MoveResult describes what a valid move did to the session.
type MoveResult struct {
	Position  int
	Mark      string
	Outcome   Outcome
	TimeTaken float64 // seconds since the previous move, timed mode only
}

// Session is the authoritative record of one two-player match. All
// mutation goes through its methods; the per-session event loop in the
// match package guarantees they are never called concurrently.
type Session struct {
	ID        string
	Mode      string
	TimeLimit int // seconds per move, timed mode only

	Board       Board
	Players     []*Player // insertion order: first joiner plays X
	CurrentTurn string    // player id, empty until both players joined
	MoveCount   int
	WinnerID    string
	IsDraw      bool
	GameStarted bool
	Terminated  bool
	LastMoveAt  time.Time
}

func NewSession(id, mode string, timeLimit int) *Session {
	if mode == "" {
		mode = ModeStandard
	}

	// the time limit only means something in timed mode; normalizing it
	// here keeps matchmaking label comparison consistent
	if mode != ModeTimed {
		timeLimit = 0
	}

	return &Session{
		ID:        id,
		Mode:      mode,
		TimeLimit: timeLimit,
	}
}

func (that *Session) IsFull() bool {
	return len(that.Players) >= maxPlayers
}

// IsOpen reports whether the session can still accept a joiner and is
// therefore discoverable by matchmaking.
func (that *Session) IsOpen() bool {
	return !that.Terminated && !that.IsFull()
}

func (that *Session) IsTimed() bool {
	return that.Mode == ModeTimed
}

func (that *Session) PlayerByID(id string) *Player {
	for _, player := range that.Players {
		if player.ID == id {
			return player
		}
	}
	return nil
}

// OtherPlayer returns the opponent of the given player, or nil when the
// session does not hold two players.
func (that *Session) OtherPlayer(id string) *Player {
	for _, player := range that.Players {
		if player.ID != id {
			return player
		}
	}
	return nil
}

// AddPlayer joins a player into the session, assigning X to the first
// joiner and O to the second. The second join starts the game: X holds
// the first turn and the move clock is stamped.
func (that *Session) AddPlayer(id, name string, now time.Time) (*Player, error) {
	if that.Terminated {
		return nil, apperror.ErrSessionTerminated
	}

	if existing := that.PlayerByID(id); existing != nil {
		return existing, nil
	}

	if that.IsFull() {
		return nil, apperror.ErrSessionFull
	}

	mark := MarkX
	if len(that.Players) == 1 {
		mark = MarkO
	}

	player := &Player{ID: id, Name: name, Mark: mark}
	that.Players = append(that.Players, player)

	if that.IsFull() {
		that.GameStarted = true
		that.CurrentTurn = that.Players[0].ID // X always goes first
		that.LastMoveAt = now
	}

	return player, nil
}

// RemovePlayer removes a player from a session that has not started.
func (that *Session) RemovePlayer(id string) {
	for i, player := range that.Players {
		if player.ID == id {
			that.Players = append(that.Players[:i], that.Players[i+1:]...)
			return
		}
	}
}

// ApplyMove validates and applies one move. A rule violation returns a
// sentinel error and leaves the session untouched.
func (that *Session) ApplyMove(playerID string, cell int, now time.Time) (*MoveResult, error) {
	if that.Terminated {
		return nil, apperror.ErrSessionTerminated
	}

	if !that.GameStarted {
		return nil, apperror.ErrGameIsNotStarted
	}

	if playerID != that.CurrentTurn {
		return nil, apperror.ErrNotYourTurn
	}

	if !that.Board.InRange(cell) {
		return nil, apperror.ErrInvalidCell
	}

	if that.Board.IsOccupied(cell) {
		return nil, apperror.ErrCellOccupied
	}

	player := that.PlayerByID(playerID)
	if player == nil {
		return nil, apperror.ErrPlayerNotInGame
	}

	that.Board.set(cell, player.Mark)
	that.MoveCount++

	result := &MoveResult{
		Position: cell,
		Mark:     player.Mark,
	}

	if that.IsTimed() {
		result.TimeTaken = now.Sub(that.LastMoveAt).Seconds()
	}
	that.LastMoveAt = now

	switch {
	case that.Board.HasWinner():
		that.WinnerID = playerID
		that.Terminated = true
		result.Outcome = OutcomeWin
	case that.MoveCount == BoardSize:
		that.IsDraw = true
		that.Terminated = true
		result.Outcome = OutcomeDraw
	default:
		that.CurrentTurn = that.OtherPlayer(playerID).ID
		result.Outcome = OutcomeContinue
	}

	return result, nil
}

// ApplyTimeout passes the turn after the acting player's move clock ran
// out. The board and move count stay untouched; only the turn holder may
// submit it.
func (that *Session) ApplyTimeout(playerID string, now time.Time) error {
	if that.Terminated {
		return apperror.ErrSessionTerminated
	}

	if !that.GameStarted {
		return apperror.ErrGameIsNotStarted
	}

	if playerID != that.CurrentTurn {
		return apperror.ErrNotYourTurn
	}

	that.CurrentTurn = that.OtherPlayer(playerID).ID
	that.LastMoveAt = now

	return nil
}

// Forfeit ends the game in favor of the opponent and returns the winner.
func (that *Session) Forfeit(playerID string) (*Player, error) {
	if that.Terminated {
		return nil, apperror.ErrSessionTerminated
	}

	if !that.GameStarted {
		return nil, apperror.ErrGameIsNotStarted
	}

	if that.PlayerByID(playerID) == nil {
		return nil, apperror.ErrPlayerNotInGame
	}

	winner := that.OtherPlayer(playerID)
	if winner == nil {
		return nil, apperror.ErrPlayerNotInGame
	}

	that.WinnerID = winner.ID
	that.Terminated = true

	return winner, nil
}
