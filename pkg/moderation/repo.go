package moderation

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"launchdir/pkg/startups"
)

type ModerationRepository interface {
	FindInvalidStatusIDs(ctx context.Context) ([]int64, error)
	ResetStatusToPending(ctx context.Context, ids []int64) (int64, error)
}

type postgresModerationRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresModerationRepository(pool *pgxpool.Pool) ModerationRepository {
	return &postgresModerationRepository{pool: pool}
}

// FindInvalidStatusIDs collects every live record whose status fell outside
// the moderation enum: NULL, empty, or any legacy value.
func (r *postgresModerationRepository) FindInvalidStatusIDs(ctx context.Context) ([]int64, error) {
	query := `SELECT id
              FROM startups
              WHERE is_deleted = false
                AND (status IS NULL OR status NOT IN ($1, $2, $3))
              ORDER BY id`

	rows, err := r.pool.Query(ctx, query, startups.StatusPending, startups.StatusApproved, startups.StatusRejected)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *postgresModerationRepository) ResetStatusToPending(ctx context.Context, ids []int64) (int64, error) {
	cmd, err := r.pool.Exec(ctx,
		"UPDATE startups SET status = $1, updated_at = NOW() WHERE id = ANY($2)",
		startups.StatusPending, ids)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
