package connect

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageStore interface {
	SaveMessage(ctx context.Context, m Message) (int64, error)
	GetThread(ctx context.Context, userUUID, peerUUID string, startupID int64, limit int, beforeEpoch int64) ([]ThreadMessage, error)
	MarkThreadRead(ctx context.Context, receiverUUID, peerUUID string) (int64, error)
}

type postgresMessageStore struct {
	pool *pgxpool.Pool
}

func NewPostgresMessageStore(pool *pgxpool.Pool) MessageStore {
	return &postgresMessageStore{pool: pool}
}

// SaveMessage resolves both participants by uuid and inserts the message.
// A zero StartupID stores NULL, meaning the conversation has no listing context.
func (r *postgresMessageStore) SaveMessage(ctx context.Context, m Message) (int64, error) {
	const insertSQL = `
		INSERT INTO messages (startup_id, sender_id, receiver_id, content, is_read, messaged_at)
		SELECT NULLIF($1, 0), s.id, rc.id, $4, FALSE, $5
		FROM users s, users rc
		WHERE s.uuid = $2 AND rc.uuid = $3
		  AND s.is_deleted = FALSE AND rc.is_deleted = FALSE
		RETURNING id
	`

	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var dbID int64
	row := r.pool.QueryRow(ctxTimeout, insertSQL, m.StartupID, m.SenderUUID, m.ReceiverUUID, m.Content, m.SentAt.Unix())
	if err := row.Scan(&dbID); err != nil {
		return 0, fmt.Errorf("insert message: %w", err)
	}
	return dbID, nil
}

// GetThread fetches the conversation between two users, oldest first.
// When startupID is non-zero only messages about that listing are returned.
func (r *postgresMessageStore) GetThread(ctx context.Context, userUUID, peerUUID string, startupID int64, limit int, beforeEpoch int64) ([]ThreadMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	const querySQL = `
		SELECT
			s.uuid AS sender_uuid,
			rc.uuid AS receiver_uuid,
			COALESCE(m.startup_id, 0),
			m.content,
			m.is_read,
			m.messaged_at
		FROM messages m
		JOIN users s ON m.sender_id = s.id
		JOIN users rc ON m.receiver_id = rc.id
		WHERE (
			(s.uuid = $1 AND rc.uuid = $2)
			OR
			(s.uuid = $2 AND rc.uuid = $1)
		)
		AND ($3 = 0 OR m.startup_id = $3)
		AND m.messaged_at < $4
		ORDER BY m.messaged_at ASC
		LIMIT $5
	`

	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctxTimeout, querySQL, userUUID, peerUUID, startupID, beforeEpoch, limit)
	if err != nil {
		return nil, fmt.Errorf("query thread: %w", err)
	}
	defer rows.Close()

	result := make([]ThreadMessage, 0, limit)
	for rows.Next() {
		var item ThreadMessage
		if err := rows.Scan(&item.SenderUUID, &item.ReceiverUUID, &item.StartupID, &item.Content, &item.IsRead, &item.MessagedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return result, nil
}

// MarkThreadRead marks every unread message from peerUUID to receiverUUID as
// read and returns how many rows changed.
func (r *postgresMessageStore) MarkThreadRead(ctx context.Context, receiverUUID, peerUUID string) (int64, error) {
	const updateSQL = `
		UPDATE messages m
		SET is_read = TRUE
		FROM users rc, users s
		WHERE m.receiver_id = rc.id
		  AND m.sender_id = s.id
		  AND rc.uuid = $1
		  AND s.uuid = $2
		  AND m.is_read = FALSE
	`

	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.pool.Exec(ctxTimeout, updateSQL, receiverUUID, peerUUID)
	if err != nil {
		return 0, fmt.Errorf("mark thread read: %w", err)
	}
	return cmd.RowsAffected(), nil
}
