package moderation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockModerationRepository struct {
	mock.Mock
}

func (m *mockModerationRepository) FindInvalidStatusIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

func (m *mockModerationRepository) ResetStatusToPending(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func TestModerationService_Reconcile_NoopWhenClean(t *testing.T) {
	repo := new(mockModerationRepository)
	service := NewModerationService(repo)

	repo.On("FindInvalidStatusIDs", mock.Anything).Return([]int64{}, nil)

	result, err := service.Reconcile(context.Background())

	require.NoError(t, err)
	require.Zero(t, result.RepairedCount)
	require.Empty(t, result.RepairedIDs)
	repo.AssertNotCalled(t, "ResetStatusToPending", mock.Anything, mock.Anything)
}

func TestModerationService_Reconcile_RepairsInvalidRecords(t *testing.T) {
	repo := new(mockModerationRepository)
	service := NewModerationService(repo)

	repo.On("FindInvalidStatusIDs", mock.Anything).Return([]int64{3, 8, 21}, nil)
	repo.On("ResetStatusToPending", mock.Anything, []int64{3, 8, 21}).Return(int64(3), nil)

	result, err := service.Reconcile(context.Background())

	require.NoError(t, err)
	require.EqualValues(t, 3, result.RepairedCount)
	require.Equal(t, []int64{3, 8, 21}, result.RepairedIDs)
	repo.AssertExpectations(t)
}

func TestModerationService_Reconcile_IdempotentSecondRun(t *testing.T) {
	repo := new(mockModerationRepository)
	service := NewModerationService(repo)

	repo.On("FindInvalidStatusIDs", mock.Anything).Return([]int64{5}, nil).Once()
	repo.On("ResetStatusToPending", mock.Anything, []int64{5}).Return(int64(1), nil).Once()
	repo.On("FindInvalidStatusIDs", mock.Anything).Return([]int64{}, nil).Once()

	first, err := service.Reconcile(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, first.RepairedCount)

	second, err := service.Reconcile(context.Background())
	require.NoError(t, err)
	require.Zero(t, second.RepairedCount)

	repo.AssertExpectations(t)
}

func TestModerationService_Reconcile_QueryErrorAborts(t *testing.T) {
	repo := new(mockModerationRepository)
	service := NewModerationService(repo)

	repo.On("FindInvalidStatusIDs", mock.Anything).Return(nil, errors.New("connection reset"))

	_, err := service.Reconcile(context.Background())

	require.Error(t, err)
	repo.AssertNotCalled(t, "ResetStatusToPending", mock.Anything, mock.Anything)
}

func TestModerationService_Reconcile_UpdateErrorAborts(t *testing.T) {
	repo := new(mockModerationRepository)
	service := NewModerationService(repo)

	repo.On("FindInvalidStatusIDs", mock.Anything).Return([]int64{9}, nil)
	repo.On("ResetStatusToPending", mock.Anything, []int64{9}).Return(int64(0), errors.New("deadlock detected"))

	_, err := service.Reconcile(context.Background())

	require.Error(t, err)
}
