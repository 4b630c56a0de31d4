package startups

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrStartupNotFound = errors.New("startup not found")

const startupColumns = "id, name, slug, description, website_url, logo_url, owner_uuid, status, created_at, updated_at"

type StartupRepository interface {
	CreateStartup(ctx context.Context, input Startup) (Startup, error)
	UpdateStartup(ctx context.Context, input Startup) (Startup, error)
	SetStatus(ctx context.Context, id int64, status string) (Startup, error)
	DeleteStartup(ctx context.Context, id int64) error
	GetStartupByID(ctx context.Context, id int64) (Startup, error)
	GetStartupBySlug(ctx context.Context, slug string) (Startup, error)
	ListStartups(ctx context.Context, status string, limit, offset int) ([]Startup, int64, error)
	ListStartupsByOwner(ctx context.Context, ownerUUID string) ([]Startup, error)
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
}

type postgresStartupRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresStartupRepository(pool *pgxpool.Pool) StartupRepository {
	return &postgresStartupRepository{pool: pool}
}

func (r *postgresStartupRepository) CreateStartup(ctx context.Context, input Startup) (Startup, error) {
	query := `INSERT INTO startups (name, slug, description, website_url, logo_url, owner_uuid, status, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
              RETURNING ` + startupColumns

	row := r.pool.QueryRow(ctx, query, input.Name, input.Slug, input.Description, input.WebsiteURL, input.LogoURL, input.OwnerUUID, input.Status)
	return scanStartup(row)
}

// UpdateStartup rewrites the owner-editable fields. Slug and status are
// deliberately not touched here; status changes go through SetStatus.
func (r *postgresStartupRepository) UpdateStartup(ctx context.Context, input Startup) (Startup, error) {
	query := `UPDATE startups
              SET name = $1, description = $2, website_url = $3, logo_url = $4, updated_at = NOW()
              WHERE id = $5 AND is_deleted = false
              RETURNING ` + startupColumns

	row := r.pool.QueryRow(ctx, query, input.Name, input.Description, input.WebsiteURL, input.LogoURL, input.ID)
	return scanStartup(row)
}

func (r *postgresStartupRepository) SetStatus(ctx context.Context, id int64, status string) (Startup, error) {
	query := `UPDATE startups
              SET status = $1, updated_at = NOW()
              WHERE id = $2 AND is_deleted = false
              RETURNING ` + startupColumns

	row := r.pool.QueryRow(ctx, query, status, id)
	return scanStartup(row)
}

func (r *postgresStartupRepository) DeleteStartup(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "UPDATE startups SET is_deleted = true, updated_at = NOW() WHERE id = $1 AND is_deleted = false", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrStartupNotFound
	}
	return nil
}

func (r *postgresStartupRepository) GetStartupByID(ctx context.Context, id int64) (Startup, error) {
	query := `SELECT ` + startupColumns + `
              FROM startups
              WHERE id = $1 AND is_deleted = false`

	return scanStartup(r.pool.QueryRow(ctx, query, id))
}

func (r *postgresStartupRepository) GetStartupBySlug(ctx context.Context, slug string) (Startup, error) {
	query := `SELECT ` + startupColumns + `
              FROM startups
              WHERE slug = $1 AND is_deleted = false`

	return scanStartup(r.pool.QueryRow(ctx, query, slug))
}

func (r *postgresStartupRepository) ListStartups(ctx context.Context, status string, limit, offset int) ([]Startup, int64, error) {
	whereClauses := []string{"is_deleted = false"}
	args := []interface{}{}
	argPos := 1

	if status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argPos))
		args = append(args, status)
		argPos++
	}

	whereSQL := "WHERE " + strings.Join(whereClauses, " AND ")

	query := fmt.Sprintf(`SELECT %s
              FROM startups
              %s
              ORDER BY id
              LIMIT $%d OFFSET $%d`, startupColumns, whereSQL, argPos, argPos+1)

	rows, err := r.pool.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]Startup, 0)
	for rows.Next() {
		s, err := scanStartup(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	countRow := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM startups "+whereSQL, args...)
	if err := countRow.Scan(&total); err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *postgresStartupRepository) ListStartupsByOwner(ctx context.Context, ownerUUID string) ([]Startup, error) {
	query := `SELECT ` + startupColumns + `
              FROM startups
              WHERE owner_uuid = $1 AND is_deleted = false
              ORDER BY id`

	rows, err := r.pool.Query(ctx, query, ownerUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Startup, 0)
	for rows.Next() {
		s, err := scanStartup(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// SlugExists satisfies slug.Checker. Soft-deleted rows still hold their slug
// (the unique constraint covers them), so they are counted as taken.
func (r *postgresStartupRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM startups WHERE slug = $1 AND id <> $2)", slug, excludeID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func scanStartup(row pgx.Row) (Startup, error) {
	var s Startup
	if err := row.Scan(&s.ID, &s.Name, &s.Slug, &s.Description, &s.WebsiteURL, &s.LogoURL, &s.OwnerUUID, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Startup{}, ErrStartupNotFound
		}
		return Startup{}, err
	}
	return s, nil
}
