package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"storefront_bot/internal/domain"
)

type ProductStore interface {
	ReplaceAll(ctx context.Context, contextID string, products []domain.Product) error
	ReadAll(ctx context.Context, contextID string) ([]domain.Product, error)
}

type ContextConfigStore interface {
	Get(ctx context.Context, contextID string) (*domain.ContextConfig, error)
	List(ctx context.Context) ([]domain.ContextConfig, error)
	UpdateLastSync(ctx context.Context, contextID string, at time.Time) error
}

type DisplayHandleStore interface {
	Get(ctx context.Context, contextID string) (*domain.DisplayHandle, error)
	Save(ctx context.Context, handle *domain.DisplayHandle) error
}

type Source interface {
	ID() string
	Name() string
	FetchProducts(ctx context.Context, storeURL, apiKey string) ([]domain.Product, error)
}

type CurrencyConverter interface {
	ToUSD(ctx context.Context, amount decimal.Decimal, currency string) decimal.Decimal
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	PublishCatalogUpdated(ctx context.Context, runID, contextID string, productCount int, syncedAt time.Time) error
	Close() error
}

// Messenger is the chat gateway's outbound side.
type Messenger interface {
	Send(ctx context.Context, channelID string, page domain.Page) (string, error)
	Edit(ctx context.Context, channelID, messageID string, page domain.Page) error
	Exists(ctx context.Context, channelID, messageID string) error
	Delete(ctx context.Context, channelID, messageID string) error
	Reply(ctx context.Context, channelID, text string) error
}

type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}
