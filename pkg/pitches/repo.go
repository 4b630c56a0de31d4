package pitches

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrPitchNotFound = errors.New("pitch not found")

type PitchRepository interface {
	CreatePitch(ctx context.Context, input Pitch) (Pitch, error)
	DeletePitch(ctx context.Context, id int64) error
	GetPitchByID(ctx context.Context, id int64) (Pitch, error)
	ListPitchesByStartup(ctx context.Context, startupID int64, limit, offset int) ([]Pitch, int64, error)
}

type postgresPitchRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPitchRepository(pool *pgxpool.Pool) PitchRepository {
	return &postgresPitchRepository{pool: pool}
}

func (r *postgresPitchRepository) CreatePitch(ctx context.Context, input Pitch) (Pitch, error) {
	query := `
		INSERT INTO pitches (startup_id, title, kind, file_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, startup_id, title, kind, file_url, created_at
	`

	var p Pitch
	err := r.pool.QueryRow(ctx, query, input.StartupID, input.Title, input.Kind, input.FileURL).Scan(
		&p.ID,
		&p.StartupID,
		&p.Title,
		&p.Kind,
		&p.FileURL,
		&p.CreatedAt,
	)
	if err != nil {
		return Pitch{}, fmt.Errorf("insert pitch: %w", err)
	}
	return p, nil
}

func (r *postgresPitchRepository) DeletePitch(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE pitches SET is_deleted = TRUE WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPitchNotFound
	}
	return nil
}

func (r *postgresPitchRepository) GetPitchByID(ctx context.Context, id int64) (Pitch, error) {
	query := `
		SELECT id, startup_id, title, kind, file_url, created_at
		FROM pitches
		WHERE id = $1 AND is_deleted = FALSE
	`

	var p Pitch
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.StartupID,
		&p.Title,
		&p.Kind,
		&p.FileURL,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Pitch{}, ErrPitchNotFound
		}
		return Pitch{}, err
	}
	return p, nil
}

func (r *postgresPitchRepository) ListPitchesByStartup(ctx context.Context, startupID int64, limit, offset int) ([]Pitch, int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM pitches WHERE startup_id = $1 AND is_deleted = FALSE`,
		startupID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, startup_id, title, kind, file_url, created_at
		FROM pitches
		WHERE startup_id = $1 AND is_deleted = FALSE
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, startupID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	pitches := make([]Pitch, 0, limit)
	for rows.Next() {
		var p Pitch
		if err := rows.Scan(&p.ID, &p.StartupID, &p.Title, &p.Kind, &p.FileURL, &p.CreatedAt); err != nil {
			return nil, 0, err
		}
		pitches = append(pitches, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return pitches, total, nil
}
