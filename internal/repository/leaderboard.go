package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// LeaderboardEntry is one ranked row of a leaderboard.
type LeaderboardEntry struct {
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
}

type LeaderboardRepository interface {
	UpsertScore(ctx context.Context, leaderboardID, playerID, displayName string, score int) error
	Top(ctx context.Context, leaderboardID string, limit int64) ([]LeaderboardEntry, error)
}

type dbLeaderboard struct {
	client *redis.Client
}

func NewLeaderboardRepository(client *redis.Client) LeaderboardRepository {
	return &dbLeaderboard{
		client: client,
	}
}

func leaderboardKey(leaderboardID string) string {
	return "leaderboard:" + leaderboardID
}

func leaderboardNamesKey(leaderboardID string) string {
	return "leaderboard:" + leaderboardID + ":names"
}

// UpsertScore writes the player's ranked score and display name.
func (that *dbLeaderboard) UpsertScore(ctx context.Context, leaderboardID, playerID, displayName string, score int) error {
	err := that.client.ZAdd(ctx, leaderboardKey(leaderboardID), redis.Z{
		Score:  float64(score),
		Member: playerID,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to set leaderboard score: %w", err)
	}

	err = that.client.HSet(ctx, leaderboardNamesKey(leaderboardID), playerID, displayName).Err()
	if err != nil {
		return fmt.Errorf("failed to set leaderboard display name: %w", err)
	}

	return nil
}

// Top returns the highest-scored entries, best first.
func (that *dbLeaderboard) Top(ctx context.Context, leaderboardID string, limit int64) ([]LeaderboardEntry, error) {
	ranked, err := that.client.ZRevRangeWithScores(ctx, leaderboardKey(leaderboardID), 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list leaderboard: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(ranked))
	for _, member := range ranked {
		playerID, ok := member.Member.(string)
		if !ok {
			continue
		}

		displayName, err := that.client.HGet(ctx, leaderboardNamesKey(leaderboardID), playerID).Result()
		if err != nil {
			displayName = ""
		}

		entries = append(entries, LeaderboardEntry{
			PlayerID:    playerID,
			DisplayName: displayName,
			Score:       int(member.Score),
		})
	}

	return entries, nil
}
