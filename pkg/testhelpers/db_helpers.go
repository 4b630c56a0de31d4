package testhelpers

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

var uniqueCounter int64

func nextSuffix() int64 {
	return atomic.AddInt64(&uniqueCounter, 1)
}

// CreateTestUser inserts a minimal valid founder row and returns its UUID.
func CreateTestUser(t *testing.T, db *pgxpool.Pool) string {
	t.Helper()

	ctx := context.Background()
	suffix := nextSuffix()
	name := fmt.Sprintf("test-user-%d", suffix)
	email := fmt.Sprintf("%s@example.com", name)
	userUUID := uuid.NewString()

	_, err := db.Exec(ctx,
		"INSERT INTO users (name, email, role, password_hash, uuid) VALUES ($1, $2, 'founder', $3, $4)",
		name, email, "hash", userUUID)
	require.NoError(t, err)
	return userUUID
}

// CreateTestAdmin inserts an admin row and returns its UUID.
func CreateTestAdmin(t *testing.T, db *pgxpool.Pool) string {
	t.Helper()

	ctx := context.Background()
	suffix := nextSuffix()
	name := fmt.Sprintf("test-admin-%d", suffix)
	email := fmt.Sprintf("%s@example.com", name)
	adminUUID := uuid.NewString()

	_, err := db.Exec(ctx,
		"INSERT INTO users (name, email, role, password_hash, uuid) VALUES ($1, $2, 'admin', $3, $4)",
		name, email, "hash", adminUUID)
	require.NoError(t, err)
	return adminUUID
}

// CreateTestStartup inserts a pending startup for the given owner and returns its ID.
func CreateTestStartup(t *testing.T, db *pgxpool.Pool, ownerUUID string) int64 {
	t.Helper()

	ctx := context.Background()
	suffix := nextSuffix()
	name := fmt.Sprintf("test-startup-%d", suffix)
	slug := fmt.Sprintf("test-startup-%d", suffix)

	var id int64
	err := db.QueryRow(ctx,
		"INSERT INTO startups (name, slug, owner_uuid, status) VALUES ($1, $2, $3, 'pending') RETURNING id",
		name, slug, ownerUUID).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateTestPitch inserts a deck pitch for the given startup and returns its ID.
func CreateTestPitch(t *testing.T, db *pgxpool.Pool, startupID int64) int64 {
	t.Helper()

	ctx := context.Background()
	suffix := nextSuffix()
	title := fmt.Sprintf("test-pitch-%d", suffix)

	var id int64
	err := db.QueryRow(ctx,
		"INSERT INTO pitches (startup_id, title, kind, file_url) VALUES ($1, $2, 'deck', 'https://files.example.com/deck.pdf') RETURNING id",
		startupID, title).Scan(&id)
	require.NoError(t, err)
	return id
}
