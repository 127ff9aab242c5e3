package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is one storefront catalog item.
type Product struct {
	ContextID string          `db:"context_id" json:"-"`
	Title     string          `db:"title" json:"title"`
	UniqueID  string          `db:"unique_id" json:"uniqid"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Currency  string          `db:"currency" json:"currency"`
}

// ContextConfig is the per-context setup record.
type ContextConfig struct {
	ContextID          string     `db:"context_id"`
	LogChannelID       string     `db:"log_channel_id"`
	UpdateLogChannelID string     `db:"update_log_channel_id"`
	StoreURL           string     `db:"store_url"`
	APIKey             string     `db:"api_key"`
	SetupChannelID     string     `db:"setup_channel_id"`
	LastSyncAt         *time.Time `db:"last_sync_at"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
}

// DisplayHandle points at the messages currently showing the catalog in a
// context, one message per page.
type DisplayHandle struct {
	ContextID  string
	ChannelID  string
	MessageIDs []string
	UpdatedAt  time.Time
}

// Page is one size-bounded display segment.
type Page struct {
	Title  string
	Body   string
	Footer string
}

// InboundMessage is a chat message delivered by the gateway.
type InboundMessage struct {
	ContextID string
	ChannelID string
	MessageID string
	AuthorID  string
	IsBot     bool
	IsAdmin   bool
	Content   string
}
