package moderation

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"launchdir/pkg/startups"
	"launchdir/pkg/testhelpers"
)

func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if err := godotenv.Load(); err != nil {
		t.Log("No .env file found, using environment variables")
	}
	dsn := os.Getenv("DATABASE_URL_FOR_TEST")
	if dsn == "" {
		t.Skip("DATABASE_URL_FOR_TEST not set; skipping integration tests")
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	cfg.MaxConns = 4

	ctx := context.Background()
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)

	t.Cleanup(func() { pool.Close() })
	return pool
}

func corruptStatus(t *testing.T, pool *pgxpool.Pool, id int64, status string) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		"UPDATE startups SET status = $2 WHERE id = $1", id, status)
	require.NoError(t, err)
}

func TestReconcile_RepairsCorruptRows(t *testing.T) {
	pool := newTestPool(t)
	repo := NewPostgresModerationRepository(pool)
	service := NewModerationService(repo)
	startupRepo := startups.NewPostgresStartupRepository(pool)

	owner := testhelpers.CreateTestUser(t, pool)
	corruptID := testhelpers.CreateTestStartup(t, pool, owner)
	cleanID := testhelpers.CreateTestStartup(t, pool, owner)

	corruptStatus(t, pool, corruptID, "archived")

	result, err := service.Reconcile(context.Background())
	require.NoError(t, err)
	require.Contains(t, result.RepairedIDs, corruptID)
	require.NotContains(t, result.RepairedIDs, cleanID)

	repaired, err := startupRepo.GetStartupByID(context.Background(), corruptID)
	require.NoError(t, err)
	require.Equal(t, startups.StatusPending, repaired.Status)

	clean, err := startupRepo.GetStartupByID(context.Background(), cleanID)
	require.NoError(t, err)
	require.Equal(t, startups.StatusPending, clean.Status)
}

func TestReconcile_SecondRunFindsNothingNew(t *testing.T) {
	pool := newTestPool(t)
	repo := NewPostgresModerationRepository(pool)
	service := NewModerationService(repo)

	owner := testhelpers.CreateTestUser(t, pool)
	id := testhelpers.CreateTestStartup(t, pool, owner)
	corruptStatus(t, pool, id, "SOLD")

	first, err := service.Reconcile(context.Background())
	require.NoError(t, err)
	require.Contains(t, first.RepairedIDs, id)

	second, err := service.Reconcile(context.Background())
	require.NoError(t, err)
	require.NotContains(t, second.RepairedIDs, id)
}
