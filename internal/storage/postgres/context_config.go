package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"storefront_bot/internal/domain"
)

type ContextConfigStore struct {
	db *sqlx.DB
}

func NewContextConfigStore(db *sqlx.DB) *ContextConfigStore {
	return &ContextConfigStore{db: db}
}

const contextConfigColumns = `context_id, log_channel_id, update_log_channel_id, store_url, api_key,
			setup_channel_id, last_sync_at, created_at, updated_at`

// Get returns domain.ErrNotConfigured when contextID has no record.
func (s *ContextConfigStore) Get(ctx context.Context, contextID string) (*domain.ContextConfig, error) {
	var cfg domain.ContextConfig
	query := `SELECT ` + contextConfigColumns + ` FROM context_configs WHERE context_id = $1`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &cfg, query, contextID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotConfigured
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *ContextConfigStore) List(ctx context.Context) ([]domain.ContextConfig, error) {
	query := `SELECT ` + contextConfigColumns + ` FROM context_configs ORDER BY context_id`

	configs := []domain.ContextConfig{}
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &configs, query); err != nil {
		return nil, err
	}
	return configs, nil
}

// Upsert writes the setup answers for a context. last_sync_at is owned by the
// sync loop and survives a re-run of setup.
func (s *ContextConfigStore) Upsert(ctx context.Context, cfg *domain.ContextConfig) error {
	query := `
		INSERT INTO context_configs (
			context_id, log_channel_id, update_log_channel_id, store_url, api_key, setup_channel_id
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (context_id) DO UPDATE SET
			log_channel_id = EXCLUDED.log_channel_id,
			update_log_channel_id = EXCLUDED.update_log_channel_id,
			store_url = EXCLUDED.store_url,
			api_key = EXCLUDED.api_key,
			setup_channel_id = EXCLUDED.setup_channel_id,
			updated_at = NOW()`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		cfg.ContextID,
		cfg.LogChannelID,
		cfg.UpdateLogChannelID,
		cfg.StoreURL,
		cfg.APIKey,
		cfg.SetupChannelID,
	)
	return err
}

func (s *ContextConfigStore) UpdateLastSync(ctx context.Context, contextID string, at time.Time) error {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		"UPDATE context_configs SET last_sync_at = $2 WHERE context_id = $1",
		contextID, at,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotConfigured
	}
	return nil
}
