package match

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gridpoint/tictactoe-server/internal/entity"
)

// Matchmaker routes players into open sessions, creating one when the
// search comes up empty.
type Matchmaker struct {
	logger        *slog.Logger
	hubLogger     *slog.Logger
	registry      Registry
	bridge        Bridge
	retryInterval time.Duration
}

func NewMatchmaker(logger *slog.Logger, registry Registry, bridge Bridge, retryInterval time.Duration) *Matchmaker {
	return &Matchmaker{
		logger:        logger.With("component", "matchmaker"),
		hubLogger:     logger,
		registry:      registry,
		bridge:        bridge,
		retryInterval: retryInterval,
	}
}

// FindOrCreate returns the id of an open session with a matching label,
// retrying the search once after a short delay before creating a fresh
// session. The retry narrows, but does not close, the window in which
// two concurrent callers each create a session; at worst one duplicate
// open session remains and picks up later joiners. Session occupancy
// itself is enforced by the hub, so the race can never overfill a
// session.
func (that *Matchmaker) FindOrCreate(ctx context.Context, mode string, timeLimit int) (string, error) {
	log := that.logger.With("method", "FindOrCreate", "mode", mode, "timeLimit", timeLimit)

	label := NewLabel(mode, timeLimit)

	if hub, ok := that.registry.FindOpen(label); ok {
		log.Info("found open session", "sessionID", hub.ID())
		return hub.ID(), nil
	}

	// a concurrent creator may not be visible yet; wait once and retry
	timer := time.NewTimer(that.retryInterval)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		return "", fmt.Errorf("matchmaking canceled: %w", ctx.Err())
	}

	if hub, ok := that.registry.FindOpen(label); ok {
		log.Info("found open session on retry", "sessionID", hub.ID())
		return hub.ID(), nil
	}

	hub := that.createSession(label)
	log.Info("created new session", "sessionID", hub.ID())

	return hub.ID(), nil
}

// CreateExplicit unconditionally creates a session, bypassing search.
func (that *Matchmaker) CreateExplicit(mode string, timeLimit int) string {
	log := that.logger.With("method", "CreateExplicit", "mode", mode, "timeLimit", timeLimit)

	hub := that.createSession(NewLabel(mode, timeLimit))
	log.Info("created new session", "sessionID", hub.ID())

	return hub.ID()
}

func (that *Matchmaker) createSession(label Label) *Hub {
	session := entity.NewSession(uuid.NewString(), label.Mode, label.TimeLimit)

	hub := NewHub(that.hubLogger, session, that.bridge, that.registry)
	that.registry.Add(hub)
	go hub.Run()

	return hub
}
