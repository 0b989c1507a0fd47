package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gridpoint/tictactoe-server/internal/entity"
)

type profileRepo interface {
	CreateOrUpdate(ctx context.Context, profile *entity.Profile) error
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
}

// ProfileService keeps the account/profile collaborator in sync with
// connecting players. There is no authentication here: an unknown or
// absent id simply becomes a fresh guest identity.
type ProfileService struct {
	profileRepo profileRepo
}

func NewProfileService(profileRepo profileRepo) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
	}
}

// EnsureProfile mints an id for first-time players and persists the
// latest display name for returning ones.
func (that *ProfileService) EnsureProfile(ctx context.Context, id, name string) (*entity.Profile, error) {
	if id == "" {
		id = uuid.NewString()
	}

	profile := &entity.Profile{ID: id, Name: name}
	if err := that.profileRepo.CreateOrUpdate(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	return profile, nil
}

func (that *ProfileService) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	profile, err := that.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}
