package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/gridpoint/tictactoe-server/internal/entity"
)

type StatsRepository interface {
	GetByPlayerID(ctx context.Context, playerID string) (*entity.Stats, error)
	Save(ctx context.Context, playerID string, stats *entity.Stats) error
}

type dbStats struct {
	client *redis.Client
}

func NewStatsRepository(client *redis.Client) StatsRepository {
	return &dbStats{
		client: client,
	}
}

// GetByPlayerID returns the player's record, or a zero record when the
// player has never finished a game.
func (that *dbStats) GetByPlayerID(ctx context.Context, playerID string) (*entity.Stats, error) {
	statsKey := "stats:" + playerID

	response, err := that.client.Get(ctx, statsKey).Result()

	if errors.Is(err, redis.Nil) {
		return &entity.Stats{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get stats by player ID: %w", err)
	}

	var existingStats entity.Stats
	if err = json.Unmarshal([]byte(response), &existingStats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
	}

	return &existingStats, nil
}

func (that *dbStats) Save(ctx context.Context, playerID string, stats *entity.Stats) error {
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	statsKey := "stats:" + playerID
	err = that.client.Set(ctx, statsKey, statsJSON, 0).Err()
	if err != nil {
		return fmt.Errorf("failed to set stats: %w", err)
	}

	return nil
}
