package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/gridpoint/tictactoe-server/internal/apperror"
	"github.com/gridpoint/tictactoe-server/internal/entity"
)

type ProfileRepository interface {
	CreateOrUpdate(ctx context.Context, profile *entity.Profile) error
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
}

type dbProfile struct {
	client *redis.Client
}

func NewProfileRepository(client *redis.Client) ProfileRepository {
	return &dbProfile{
		client: client,
	}
}

func (that *dbProfile) CreateOrUpdate(ctx context.Context, profile *entity.Profile) error {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	profileKey := "profile:" + profile.ID
	err = that.client.Set(ctx, profileKey, profileJSON, 0).Err()
	if err != nil {
		return fmt.Errorf("failed to set profile: %w", err)
	}

	return nil
}

func (that *dbProfile) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	profileKey := "profile:" + id

	response, err := that.client.Get(ctx, profileKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get profile by ID: %w", err)
	}

	var existingProfile entity.Profile
	if err = json.Unmarshal([]byte(response), &existingProfile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return &existingProfile, nil
}
