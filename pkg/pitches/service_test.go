package pitches

import (
	"context"
	"testing"

	"launchdir/pkg/startups"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPitchRepository struct {
	mock.Mock
}

func (m *mockPitchRepository) CreatePitch(ctx context.Context, input Pitch) (Pitch, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(Pitch), args.Error(1)
}

func (m *mockPitchRepository) DeletePitch(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockPitchRepository) GetPitchByID(ctx context.Context, id int64) (Pitch, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Pitch), args.Error(1)
}

func (m *mockPitchRepository) ListPitchesByStartup(ctx context.Context, startupID int64, limit, offset int) ([]Pitch, int64, error) {
	args := m.Called(ctx, startupID, limit, offset)
	return args.Get(0).([]Pitch), args.Get(1).(int64), args.Error(2)
}

type mockStartupRepository struct {
	mock.Mock
}

func (m *mockStartupRepository) CreateStartup(ctx context.Context, input startups.Startup) (startups.Startup, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(startups.Startup), args.Error(1)
}

func (m *mockStartupRepository) UpdateStartup(ctx context.Context, input startups.Startup) (startups.Startup, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(startups.Startup), args.Error(1)
}

func (m *mockStartupRepository) SetStatus(ctx context.Context, id int64, status string) (startups.Startup, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(startups.Startup), args.Error(1)
}

func (m *mockStartupRepository) DeleteStartup(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockStartupRepository) GetStartupByID(ctx context.Context, id int64) (startups.Startup, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(startups.Startup), args.Error(1)
}

func (m *mockStartupRepository) GetStartupBySlug(ctx context.Context, slug string) (startups.Startup, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(startups.Startup), args.Error(1)
}

func (m *mockStartupRepository) ListStartups(ctx context.Context, status string, limit, offset int) ([]startups.Startup, int64, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]startups.Startup), args.Get(1).(int64), args.Error(2)
}

func (m *mockStartupRepository) ListStartupsByOwner(ctx context.Context, ownerUUID string) ([]startups.Startup, error) {
	args := m.Called(ctx, ownerUUID)
	return args.Get(0).([]startups.Startup), args.Error(1)
}

func (m *mockStartupRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func TestCreatePitch_RejectsUnknownKind(t *testing.T) {
	repo := new(mockPitchRepository)
	startupRepo := new(mockStartupRepository)
	service := NewPitchService(repo, startupRepo)

	_, err := service.CreatePitch(context.Background(), "owner-uuid", Pitch{
		StartupID: 1,
		Title:     "Series A deck",
		Kind:      "powerpoint",
		FileURL:   "https://files.example.com/deck.pdf",
	})

	require.ErrorIs(t, err, ErrInvalidKind)
	repo.AssertNotCalled(t, "CreatePitch")
	startupRepo.AssertNotCalled(t, "GetStartupByID")
}

func TestCreatePitch_OnlyOwnerMayAttach(t *testing.T) {
	repo := new(mockPitchRepository)
	startupRepo := new(mockStartupRepository)
	service := NewPitchService(repo, startupRepo)

	startupRepo.On("GetStartupByID", mock.Anything, int64(1)).
		Return(startups.Startup{ID: 1, OwnerUUID: "owner-uuid"}, nil)

	_, err := service.CreatePitch(context.Background(), "someone-else", Pitch{
		StartupID: 1,
		Title:     "Series A deck",
		Kind:      KindDeck,
		FileURL:   "https://files.example.com/deck.pdf",
	})

	require.ErrorIs(t, err, ErrForbidden)
	repo.AssertNotCalled(t, "CreatePitch")
}

func TestCreatePitch_OwnerSucceeds(t *testing.T) {
	repo := new(mockPitchRepository)
	startupRepo := new(mockStartupRepository)
	service := NewPitchService(repo, startupRepo)

	input := Pitch{StartupID: 1, Title: "Series A deck", Kind: KindDeck, FileURL: "https://files.example.com/deck.pdf"}

	startupRepo.On("GetStartupByID", mock.Anything, int64(1)).
		Return(startups.Startup{ID: 1, OwnerUUID: "owner-uuid"}, nil)
	repo.On("CreatePitch", mock.Anything, input).
		Return(Pitch{ID: 10, StartupID: 1, Title: input.Title, Kind: input.Kind, FileURL: input.FileURL}, nil)

	created, err := service.CreatePitch(context.Background(), "owner-uuid", input)

	require.NoError(t, err)
	require.Equal(t, int64(10), created.ID)
	repo.AssertExpectations(t)
}

func TestDeletePitch_UnknownPitch(t *testing.T) {
	repo := new(mockPitchRepository)
	startupRepo := new(mockStartupRepository)
	service := NewPitchService(repo, startupRepo)

	repo.On("GetPitchByID", mock.Anything, int64(99)).Return(Pitch{}, ErrPitchNotFound)

	err := service.DeletePitch(context.Background(), "owner-uuid", 99)

	require.ErrorIs(t, err, ErrPitchNotFound)
	repo.AssertNotCalled(t, "DeletePitch")
}

func TestDeletePitch_NonOwnerForbidden(t *testing.T) {
	repo := new(mockPitchRepository)
	startupRepo := new(mockStartupRepository)
	service := NewPitchService(repo, startupRepo)

	repo.On("GetPitchByID", mock.Anything, int64(10)).Return(Pitch{ID: 10, StartupID: 1}, nil)
	startupRepo.On("GetStartupByID", mock.Anything, int64(1)).
		Return(startups.Startup{ID: 1, OwnerUUID: "owner-uuid"}, nil)

	err := service.DeletePitch(context.Background(), "someone-else", 10)

	require.ErrorIs(t, err, ErrForbidden)
	repo.AssertNotCalled(t, "DeletePitch")
}

func TestListPitchesByStartup_PaginationDefaults(t *testing.T) {
	repo := new(mockPitchRepository)
	startupRepo := new(mockStartupRepository)
	service := NewPitchService(repo, startupRepo)

	repo.On("ListPitchesByStartup", mock.Anything, int64(1), 10, 0).
		Return([]Pitch{}, int64(0), nil)

	_, _, err := service.ListPitchesByStartup(context.Background(), 1, 0, 0)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
