package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/gridpoint/tictactoe-server/internal/entity"
)

type matchmaker interface {
	FindOrCreate(ctx context.Context, mode string, timeLimit int) (string, error)
	CreateExplicit(mode string, timeLimit int) string
}

type statsReader interface {
	ReadStats(ctx context.Context, playerID string) (*entity.Stats, error)
}

type Handlers struct {
	logger     *slog.Logger
	matchmaker matchmaker
	stats      statsReader
}

func NewHandlers(logger *slog.Logger, matchmaker matchmaker, stats statsReader) *Handlers {
	return &Handlers{
		logger:     logger.With("component", "rest"),
		matchmaker: matchmaker,
		stats:      stats,
	}
}

type findMatchRequest struct {
	Mode      string `json:"mode"`
	TimeLimit int    `json:"timeLimit"`
}

type matchResponse struct {
	MatchID string `json:"matchId"`
}

func (that *Handlers) Ping(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// CreateMatch unconditionally creates a fresh session.
func (that *Handlers) CreateMatch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	log := that.logger.With("method", "CreateMatch")

	var request findMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		// an empty body just means default mode
		request = findMatchRequest{}
	}

	matchID := that.matchmaker.CreateExplicit(request.Mode, request.TimeLimit)

	log.Info("created match", "matchID", matchID)
	that.writeJSON(w, matchResponse{MatchID: matchID})
}

// FindMatch routes the caller into an open session with the requested
// label, creating one when the search stays empty.
func (that *Handlers) FindMatch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	log := that.logger.With("method", "FindMatch")

	var request findMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Warn("failed to parse payload, using defaults", "error", err)
		request = findMatchRequest{}
	}

	matchID, err := that.matchmaker.FindOrCreate(r.Context(), request.Mode, request.TimeLimit)
	if err != nil {
		log.Error("matchmaking failed", "error", err)
		http.Error(w, "matchmaking failed", http.StatusInternalServerError)
		return
	}

	log.Info("resolved match", "matchID", matchID, "mode", request.Mode)
	that.writeJSON(w, matchResponse{MatchID: matchID})
}

// PlayerStats returns the caller's current statistics record so clients
// can render post-game deltas.
func (that *Handlers) PlayerStats(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	log := that.logger.With("method", "PlayerStats")

	playerID := params.ByName("id")
	if playerID == "" {
		http.Error(w, "missing player id", http.StatusBadRequest)
		return
	}

	stats, err := that.stats.ReadStats(r.Context(), playerID)
	if err != nil {
		log.Error("failed to read stats", "playerID", playerID, "error", err)
		http.Error(w, "failed to read stats", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, stats)
}

func (that *Handlers) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
