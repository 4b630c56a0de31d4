package audit

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Recorder interface {
	Append(ctx context.Context, e Entry) error
	ListByEntity(ctx context.Context, entity string, entityID int64, limit, offset int) ([]Entry, int64, error)
}

type postgresRecorder struct {
	pool *pgxpool.Pool
}

func NewPostgresRecorder(pool *pgxpool.Pool) Recorder {
	return &postgresRecorder{pool: pool}
}

func (r *postgresRecorder) Append(ctx context.Context, e Entry) error {
	query := `INSERT INTO audit_log (actor_uuid, action, entity, entity_id, details, created_at)
              VALUES ($1, $2, $3, $4, $5, NOW())`

	_, err := r.pool.Exec(ctx, query, e.ActorUUID, e.Action, e.Entity, e.EntityID, e.Details)
	return err
}

func (r *postgresRecorder) ListByEntity(ctx context.Context, entity string, entityID int64, limit, offset int) ([]Entry, int64, error) {
	query := `SELECT id, actor_uuid, action, entity, entity_id, details, created_at
              FROM audit_log
              WHERE entity = $1 AND entity_id = $2
              ORDER BY id DESC
              LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, entity, entityID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ActorUUID, &e.Action, &e.Entity, &e.EntityID, &e.Details, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	countRow := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM audit_log WHERE entity = $1 AND entity_id = $2", entity, entityID)
	if err := countRow.Scan(&total); err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
