package apperror

import "errors"

var (
	ErrSessionFull       = errors.New("session is full")
	ErrSessionTerminated = errors.New("session is already terminated")
	ErrSessionNotFound   = errors.New("session not found")
	ErrGameIsNotStarted  = errors.New("game is not started")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrInvalidCell       = errors.New("invalid cell index")
	ErrPlayerNotInGame   = errors.New("player is not part of this session")
	ErrNotFound          = errors.New("not found")
)
