package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"storefront_bot/internal/config"
	"storefront_bot/internal/domain"
)

// errStaleHandle means the stored display can no longer be edited and a
// fresh one has to be sent.
var errStaleHandle = errors.New("display handle is stale")

// Presenter answers catalog requests and keeps one live display per context.
type Presenter struct {
	products  ProductStore
	configs   ContextConfigStore
	handles   DisplayHandleStore
	source    Source
	converter CurrencyConverter
	txManager TransactionManager
	messenger Messenger
	locker    Locker
	logger    *slog.Logger
	display   config.DisplayConfig
	now       func() time.Time
}

func NewPresenter(
	products ProductStore,
	configs ContextConfigStore,
	handles DisplayHandleStore,
	source Source,
	converter CurrencyConverter,
	txManager TransactionManager,
	messenger Messenger,
	locker Locker,
	logger *slog.Logger,
	display config.DisplayConfig,
) *Presenter {
	return &Presenter{
		products:  products,
		configs:   configs,
		handles:   handles,
		source:    source,
		converter: converter,
		txManager: txManager,
		messenger: messenger,
		locker:    locker,
		logger:    logger.With("component", "presenter"),
		display:   display,
		now:       time.Now,
	}
}

// Present shows the catalog of contextID in channelID, editing the existing
// display in place when there is one. It returns domain.ErrNotConfigured or
// domain.ErrNoProducts for the cases a user can act on.
func (p *Presenter) Present(ctx context.Context, contextID, channelID string) error {
	unlock, err := p.locker.Lock(ctx, contextID)
	if err != nil {
		return fmt.Errorf("acquire context lock: %w", err)
	}
	defer unlock()

	logger := p.logger.With("context_id", contextID, "channel_id", channelID)

	products, storeURL, err := p.loadCatalog(ctx, contextID, logger)
	if err != nil {
		return err
	}

	pages := p.render(ctx, products, storeURL)

	if err := p.deliver(ctx, contextID, channelID, pages, logger); err != nil {
		return err
	}

	logger.Info("catalog presented", "products", len(products), "pages", len(pages))
	return nil
}

func (p *Presenter) loadCatalog(ctx context.Context, contextID string, logger *slog.Logger) ([]domain.Product, string, error) {
	products, err := p.products.ReadAll(ctx, contextID)
	if err != nil {
		return nil, "", fmt.Errorf("read cached products: %w", err)
	}

	cfg, err := p.configs.Get(ctx, contextID)
	if err != nil {
		if errors.Is(err, domain.ErrNotConfigured) {
			return nil, "", domain.ErrNotConfigured
		}
		return nil, "", fmt.Errorf("load config: %w", err)
	}

	if len(products) == 0 {
		logger.Info("cache empty, fetching from source")

		fetched, err := p.source.FetchProducts(ctx, cfg.StoreURL, cfg.APIKey)
		if err != nil {
			return nil, "", fmt.Errorf("fetch products: %w", err)
		}

		err = p.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			return p.products.ReplaceAll(txCtx, contextID, fetched)
		})
		if err != nil {
			logger.Warn("failed to cache fetched products", "error", err)
		}

		products = fetched
	}

	if len(products) == 0 {
		return nil, "", domain.ErrNoProducts
	}

	return products, cfg.StoreURL, nil
}

func (p *Presenter) render(ctx context.Context, products []domain.Product, storeURL string) []domain.Page {
	entries := make([]string, len(products))
	for i, product := range products {
		usd := p.converter.ToUSD(ctx, product.Price, product.Currency)
		entries[i] = FormatEntry(storeURL, product, usd)
	}

	return buildPages(Paginate(entries, p.display.MaxPageLength), p.display.Footer)
}

func (p *Presenter) deliver(ctx context.Context, contextID, channelID string, pages []domain.Page, logger *slog.Logger) error {
	handle, err := p.handles.Get(ctx, contextID)
	if err != nil {
		logger.Warn("failed to load display handle, sending new display", "error", err)
		handle = nil
	}

	if handle != nil && p.usable(ctx, handle, channelID, logger) {
		ids, err := p.update(ctx, handle, pages, logger)
		switch {
		case err == nil:
			if !slices.Equal(ids, handle.MessageIDs) {
				p.saveHandle(ctx, contextID, channelID, ids, logger)
			}
			return nil
		case errors.Is(err, errStaleHandle):
			logger.Info("display no longer editable, sending new display", "error", err)
		default:
			if len(ids) > 0 {
				p.saveHandle(ctx, contextID, channelID, ids, logger)
			}
			return fmt.Errorf("update display: %w", err)
		}
	}

	ids, err := p.sendAll(ctx, channelID, pages)
	if len(ids) > 0 {
		p.saveHandle(ctx, contextID, channelID, ids, logger)
	}
	if err != nil {
		return fmt.Errorf("send display: %w", err)
	}
	return nil
}

// usable reports whether handle still points at a live display in channelID.
func (p *Presenter) usable(ctx context.Context, handle *domain.DisplayHandle, channelID string, logger *slog.Logger) bool {
	if len(handle.MessageIDs) == 0 || handle.ChannelID != channelID {
		return false
	}
	if err := p.messenger.Exists(ctx, handle.ChannelID, handle.MessageIDs[0]); err != nil {
		logger.Debug("display message not found", "message_id", handle.MessageIDs[0], "error", err)
		return false
	}
	return true
}

// update edits the existing messages page by page, sending extra pages and
// deleting surplus messages so the display matches pages exactly.
func (p *Presenter) update(ctx context.Context, handle *domain.DisplayHandle, pages []domain.Page, logger *slog.Logger) ([]string, error) {
	ids := slices.Clone(handle.MessageIDs)

	for i, page := range pages {
		if i >= len(ids) {
			id, err := p.messenger.Send(ctx, handle.ChannelID, page)
			if err != nil {
				return ids, err
			}
			ids = append(ids, id)
			continue
		}

		err := p.messenger.Edit(ctx, handle.ChannelID, ids[i], page)
		if err == nil {
			continue
		}
		if i == 0 {
			return nil, fmt.Errorf("%w: %w", errStaleHandle, err)
		}

		logger.Warn("failed to edit display page, resending", "page", i, "message_id", ids[i], "error", err)
		id, err := p.messenger.Send(ctx, handle.ChannelID, page)
		if err != nil {
			return ids, err
		}
		ids[i] = id
	}

	for _, stale := range ids[min(len(pages), len(ids)):] {
		if err := p.messenger.Delete(ctx, handle.ChannelID, stale); err != nil {
			logger.Warn("failed to delete surplus display page", "message_id", stale, "error", err)
		}
	}

	return ids[:len(pages)], nil
}

func (p *Presenter) sendAll(ctx context.Context, channelID string, pages []domain.Page) ([]string, error) {
	ids := make([]string, 0, len(pages))
	for _, page := range pages {
		id, err := p.messenger.Send(ctx, channelID, page)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (p *Presenter) saveHandle(ctx context.Context, contextID, channelID string, ids []string, logger *slog.Logger) {
	handle := &domain.DisplayHandle{
		ContextID:  contextID,
		ChannelID:  channelID,
		MessageIDs: ids,
		UpdatedAt:  p.now(),
	}
	if err := p.handles.Save(ctx, handle); err != nil {
		logger.Warn("failed to save display handle", "error", err)
	}
}
