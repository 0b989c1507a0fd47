package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gridpoint/tictactoe-server/internal/config"
	"github.com/gridpoint/tictactoe-server/internal/entity"
)

type statsRepo interface {
	GetByPlayerID(ctx context.Context, playerID string) (*entity.Stats, error)
	Save(ctx context.Context, playerID string, stats *entity.Stats) error
}

type leaderboardRepo interface {
	UpsertScore(ctx context.Context, leaderboardID, playerID, displayName string, score int) error
}

// StatsService is the bridge between terminal game transitions and the
// statistics/leaderboard collaborators. Stats writes are authoritative;
// the leaderboard write is best effort and never blocks termination.
type StatsService struct {
	logger          *slog.Logger
	statsRepo       statsRepo
	leaderboardRepo leaderboardRepo
	scoring         config.Scoring
}

func NewStatsService(logger *slog.Logger, statsRepo statsRepo, leaderboardRepo leaderboardRepo, scoring config.Scoring) *StatsService {
	return &StatsService{
		logger:          logger.With("component", "stats"),
		statsRepo:       statsRepo,
		leaderboardRepo: leaderboardRepo,
		scoring:         scoring,
	}
}

// RecordWin applies the decisive-outcome deltas: the winner gains the
// win points and extends its streak, the loser pays them with the score
// floored at zero and its streak reset.
func (that *StatsService) RecordWin(ctx context.Context, winner, loser *entity.Player) error {
	log := that.logger.With("method", "RecordWin", "winnerID", winner.ID, "loserID", loser.ID)

	winnerErr := that.update(ctx, winner, func(stats *entity.Stats) {
		stats.Score += that.scoring.WinPoints
		stats.Wins++
		stats.WinStreak++
	})

	loserErr := that.update(ctx, loser, func(stats *entity.Stats) {
		stats.Score -= that.scoring.WinPoints
		if stats.Score < 0 {
			stats.Score = 0
		}
		stats.Losses++
		stats.WinStreak = 0
	})

	if winnerErr != nil || loserErr != nil {
		return fmt.Errorf("failed to record win: %w", errors.Join(winnerErr, loserErr))
	}

	log.Info("recorded decisive outcome")

	return nil
}

// RecordDraw credits both players with the draw points and resets their
// streaks.
func (that *StatsService) RecordDraw(ctx context.Context, first, second *entity.Player) error {
	log := that.logger.With("method", "RecordDraw", "firstID", first.ID, "secondID", second.ID)

	applyDraw := func(stats *entity.Stats) {
		stats.Score += that.scoring.DrawPoints
		stats.Draws++
		stats.WinStreak = 0
	}

	firstErr := that.update(ctx, first, applyDraw)
	secondErr := that.update(ctx, second, applyDraw)

	if firstErr != nil || secondErr != nil {
		return fmt.Errorf("failed to record draw: %w", errors.Join(firstErr, secondErr))
	}

	log.Info("recorded draw")

	return nil
}

// ReadStats returns the player's current record, zero-valued for a
// player that never finished a game.
func (that *StatsService) ReadStats(ctx context.Context, playerID string) (*entity.Stats, error) {
	stats, err := that.statsRepo.GetByPlayerID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}

	return stats, nil
}

// update applies one mutation to a player's record, then mirrors the new
// score to the leaderboard. A leaderboard failure is logged and dropped.
func (that *StatsService) update(ctx context.Context, player *entity.Player, mutate func(*entity.Stats)) error {
	log := that.logger.With("method", "update", "playerID", player.ID)

	stats, err := that.statsRepo.GetByPlayerID(ctx, player.ID)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	mutate(stats)

	if err = that.statsRepo.Save(ctx, player.ID, stats); err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}

	err = that.leaderboardRepo.UpsertScore(ctx, that.scoring.LeaderboardID, player.ID, player.Name, stats.Score)
	if err != nil {
		log.Error("failed to update leaderboard", "error", err)
	}

	return nil
}
