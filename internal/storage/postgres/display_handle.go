package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"storefront_bot/internal/domain"
)

// DisplayHandleStore persists which messages show the catalog per context so
// in-place edits keep working across restarts.
type DisplayHandleStore struct {
	db *sqlx.DB
}

func NewDisplayHandleStore(db *sqlx.DB) *DisplayHandleStore {
	return &DisplayHandleStore{db: db}
}

type displayHandleRow struct {
	ContextID  string         `db:"context_id"`
	ChannelID  string         `db:"channel_id"`
	MessageIDs pq.StringArray `db:"message_ids"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

// Get returns nil without error when contextID has no handle.
func (s *DisplayHandleStore) Get(ctx context.Context, contextID string) (*domain.DisplayHandle, error) {
	var row displayHandleRow
	query := `
		SELECT context_id, channel_id, message_ids, updated_at
		FROM display_handles
		WHERE context_id = $1`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query, contextID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &domain.DisplayHandle{
		ContextID:  row.ContextID,
		ChannelID:  row.ChannelID,
		MessageIDs: []string(row.MessageIDs),
		UpdatedAt:  row.UpdatedAt,
	}, nil
}

func (s *DisplayHandleStore) Save(ctx context.Context, handle *domain.DisplayHandle) error {
	query := `
		INSERT INTO display_handles (context_id, channel_id, message_ids, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (context_id) DO UPDATE SET
			channel_id = EXCLUDED.channel_id,
			message_ids = EXCLUDED.message_ids,
			updated_at = EXCLUDED.updated_at`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		handle.ContextID,
		handle.ChannelID,
		pq.Array(handle.MessageIDs),
		handle.UpdatedAt,
	)
	return err
}
