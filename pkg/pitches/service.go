package pitches

import (
	"context"
	"errors"

	"launchdir/pkg/startups"
)

var (
	ErrInvalidKind = errors.New("invalid pitch kind")
	ErrForbidden   = errors.New("actor is not allowed to manage pitches for this startup")
)

type PitchService interface {
	CreatePitch(ctx context.Context, actorUUID string, input Pitch) (Pitch, error)
	DeletePitch(ctx context.Context, actorUUID string, id int64) error
	GetPitchByID(ctx context.Context, id int64) (Pitch, error)
	ListPitchesByStartup(ctx context.Context, startupID int64, page, limit int) ([]Pitch, int64, error)
}

type pitchService struct {
	repo        PitchRepository
	startupRepo startups.StartupRepository
}

func NewPitchService(repo PitchRepository, startupRepo startups.StartupRepository) PitchService {
	return &pitchService{repo: repo, startupRepo: startupRepo}
}

// CreatePitch attaches pitch material to a listing. Only the listing owner may
// add material.
func (s *pitchService) CreatePitch(ctx context.Context, actorUUID string, input Pitch) (Pitch, error) {
	if !IsValidKind(input.Kind) {
		return Pitch{}, ErrInvalidKind
	}

	startup, err := s.startupRepo.GetStartupByID(ctx, input.StartupID)
	if err != nil {
		return Pitch{}, err
	}
	if startup.OwnerUUID != actorUUID {
		return Pitch{}, ErrForbidden
	}

	return s.repo.CreatePitch(ctx, input)
}

func (s *pitchService) DeletePitch(ctx context.Context, actorUUID string, id int64) error {
	pitch, err := s.repo.GetPitchByID(ctx, id)
	if err != nil {
		return err
	}

	startup, err := s.startupRepo.GetStartupByID(ctx, pitch.StartupID)
	if err != nil {
		return err
	}
	if startup.OwnerUUID != actorUUID {
		return ErrForbidden
	}

	return s.repo.DeletePitch(ctx, id)
}

func (s *pitchService) GetPitchByID(ctx context.Context, id int64) (Pitch, error) {
	return s.repo.GetPitchByID(ctx, id)
}

func (s *pitchService) ListPitchesByStartup(ctx context.Context, startupID int64, page, limit int) ([]Pitch, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit
	return s.repo.ListPitchesByStartup(ctx, startupID, limit, offset)
}
