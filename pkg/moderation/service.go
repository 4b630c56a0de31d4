package moderation

import (
	"context"
	"fmt"
	"log"
)

type ReconcileResult struct {
	RepairedCount int64   `json:"repaired_count"`
	RepairedIDs   []int64 `json:"repaired_ids"`
}

type ModerationService interface {
	Reconcile(ctx context.Context) (ReconcileResult, error)
}

type moderationService struct {
	repo ModerationRepository
}

func NewModerationService(repo ModerationRepository) ModerationService {
	return &moderationService{repo: repo}
}

// Reconcile sweeps for records whose status drifted outside the valid set and
// forces them back to pending. The sweep is idempotent; a run that finds
// nothing performs no writes. Any datastore error aborts the run, the next
// scheduled invocation retries.
func (s *moderationService) Reconcile(ctx context.Context) (ReconcileResult, error) {
	ids, err := s.repo.FindInvalidStatusIDs(ctx)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("find invalid statuses: %w", err)
	}

	if len(ids) == 0 {
		return ReconcileResult{RepairedCount: 0, RepairedIDs: []int64{}}, nil
	}

	count, err := s.repo.ResetStatusToPending(ctx, ids)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("reset statuses: %w", err)
	}

	log.Printf("moderation reconcile repaired %d record(s): %v", count, ids)

	return ReconcileResult{RepairedCount: count, RepairedIDs: ids}, nil
}
