package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"storefront_bot/internal/config"
	"storefront_bot/internal/domain"
)

const updateLogTitle = "Products Updated"

// SyncService refreshes the cached catalog of every configured context.
type SyncService struct {
	source    Source
	products  ProductStore
	configs   ContextConfigStore
	txManager TransactionManager
	messenger Messenger
	publisher Publisher
	locker    Locker
	logger    *slog.Logger
	config    config.SyncConfig
	display   config.DisplayConfig
	now       func() time.Time
}

func NewSyncService(
	source Source,
	products ProductStore,
	configs ContextConfigStore,
	txManager TransactionManager,
	messenger Messenger,
	publisher Publisher,
	locker Locker,
	logger *slog.Logger,
	cfg config.SyncConfig,
	display config.DisplayConfig,
) *SyncService {
	return &SyncService{
		source:    source,
		products:  products,
		configs:   configs,
		txManager: txManager,
		messenger: messenger,
		publisher: publisher,
		locker:    locker,
		logger:    logger.With("component", "sync", "source", source.ID()),
		config:    cfg,
		display:   display,
		now:       time.Now,
	}
}

// Sync runs one tick. Contexts succeed or fail independently; the returned
// error only reports that the set of contexts could not be loaded.
func (s *SyncService) Sync(ctx context.Context) (*domain.SyncStats, error) {
	startTime := time.Now()
	runID := uuid.NewString()
	logger := s.logger.With("run_id", runID)

	configs, skipped, err := s.loadConfigs(ctx, logger)
	if err != nil {
		return nil, fmt.Errorf("load configs: %w", err)
	}

	stats := &domain.SyncStats{
		RunID:    runID,
		Contexts: len(configs) + skipped,
		Skipped:  skipped,
	}

	if len(configs) == 0 {
		logger.Warn("no configured contexts, skipping tick")
		stats.Duration = time.Since(startTime)
		return stats, nil
	}

	logger.Info("starting sync", "source_name", s.source.Name(), "contexts", len(configs))

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(s.config.MaxConcurrency)

	for i := range configs {
		cfg := &configs[i]
		g.Go(func() error {
			ctxLogger := logger.With("context_id", cfg.ContextID)
			n, err := s.syncContext(ctx, runID, cfg, ctxLogger)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				stats.Failed++
				s.logFailure(ctxLogger, err)
				return nil
			}
			stats.Succeeded++
			stats.Products += n
			return nil
		})
	}
	_ = g.Wait()

	stats.Duration = time.Since(startTime)

	logger.Info("sync completed",
		"contexts", stats.Contexts,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"skipped", stats.Skipped,
		"products", stats.Products,
		"duration", stats.Duration,
	)

	return stats, nil
}

func (s *SyncService) loadConfigs(ctx context.Context, logger *slog.Logger) ([]domain.ContextConfig, int, error) {
	if len(s.config.ContextIDs) == 0 {
		configs, err := s.configs.List(ctx)
		return configs, 0, err
	}

	configs := make([]domain.ContextConfig, 0, len(s.config.ContextIDs))
	skipped := 0
	for _, id := range s.config.ContextIDs {
		cfg, err := s.configs.Get(ctx, id)
		if errors.Is(err, domain.ErrNotConfigured) {
			logger.Error("configuration not found for context, skipping", "context_id", id)
			skipped++
			continue
		}
		if err != nil {
			return nil, 0, err
		}
		configs = append(configs, *cfg)
	}
	return configs, skipped, nil
}

func (s *SyncService) syncContext(ctx context.Context, runID string, cfg *domain.ContextConfig, logger *slog.Logger) (int, error) {
	unlock, err := s.locker.Lock(ctx, cfg.ContextID)
	if err != nil {
		return 0, fmt.Errorf("acquire context lock: %w", err)
	}
	defer unlock()

	products, err := s.source.FetchProducts(ctx, cfg.StoreURL, cfg.APIKey)
	if err != nil {
		return 0, fmt.Errorf("fetch products: %w", err)
	}

	logger.Debug("fetched products from source", "count", len(products))

	syncedAt := s.now()
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.products.ReplaceAll(txCtx, cfg.ContextID, products); err != nil {
			return fmt.Errorf("replace products: %w", err)
		}
		if err := s.configs.UpdateLastSync(txCtx, cfg.ContextID, syncedAt); err != nil {
			return fmt.Errorf("stamp last sync: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("store products: %w", err)
	}

	s.notifyUpdateLog(ctx, cfg, syncedAt, logger)

	if s.publisher != nil {
		if err := s.publisher.PublishCatalogUpdated(ctx, runID, cfg.ContextID, len(products), syncedAt); err != nil {
			logger.Warn("failed to publish catalog update", "error", err)
		}
	}

	logger.Info("context synced", "products", len(products))

	return len(products), nil
}

func (s *SyncService) notifyUpdateLog(ctx context.Context, cfg *domain.ContextConfig, syncedAt time.Time, logger *slog.Logger) {
	if cfg.UpdateLogChannelID == "" {
		logger.Debug("no update log channel configured")
		return
	}

	page := domain.Page{
		Title:  updateLogTitle,
		Body:   "The products list has been updated. Last updated: " + syncedAt.Format(s.display.TimeLayout),
		Footer: s.display.Footer,
	}

	if _, err := s.messenger.Send(ctx, cfg.UpdateLogChannelID, page); err != nil {
		logger.Warn("failed to send update log notification",
			"channel_id", cfg.UpdateLogChannelID,
			"error", err,
		)
	}
}

func (s *SyncService) logFailure(logger *slog.Logger, err error) {
	if domain.IsRetryable(err) {
		logger.Warn("context sync failed, will retry next tick", "error", err)
		return
	}
	logger.Error("context sync failed, setup needs attention", "error", err)
}
