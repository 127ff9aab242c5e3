// Package bot routes inbound chat commands to the catalog and setup flows.
package bot

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"storefront_bot/internal/domain"
)

const (
	CommandProducts = "!products"
	CommandSetup    = "!setup"
	CommandHelp     = "!help"
	CommandPing     = "!ping"
)

const (
	notConfiguredReply = "This server has not been set up yet. An administrator needs to run !setup first."
	noProductsReply    = "No products found."
	presentFailedReply = "Sorry, there was an error fetching or displaying the products."
)

type Presenter interface {
	Present(ctx context.Context, contextID, channelID string) error
}

type Wizard interface {
	Start(ctx context.Context, msg domain.InboundMessage) error
	Handle(ctx context.Context, msg domain.InboundMessage) bool
}

type Messenger interface {
	Send(ctx context.Context, channelID string, page domain.Page) (string, error)
	Reply(ctx context.Context, channelID, text string) error
}

// LatencyReporter exposes the gateway heartbeat round trip for !ping.
type LatencyReporter interface {
	Latency() time.Duration
}

type Config struct {
	CommandTimeout time.Duration
	Footer         string
}

type Handler struct {
	presenter Presenter
	wizard    Wizard
	messenger Messenger
	latency   LatencyReporter
	logger    *slog.Logger
	config    Config
}

// NewHandler wires the router. latency may be nil, in which case !ping
// answers without a gateway round trip.
func NewHandler(presenter Presenter, wizard Wizard, messenger Messenger, latency LatencyReporter, logger *slog.Logger, cfg Config) *Handler {
	return &Handler{
		presenter: presenter,
		wizard:    wizard,
		messenger: messenger,
		latency:   latency,
		logger:    logger.With("component", "bot"),
		config:    cfg,
	}
}

// HandleMessage processes one inbound message. Failures are reported to the
// channel and logged; nothing is returned to the gateway.
func (h *Handler) HandleMessage(ctx context.Context, msg domain.InboundMessage) {
	if msg.IsBot || msg.ContextID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.CommandTimeout)
	defer cancel()

	if h.wizard.Handle(ctx, msg) {
		return
	}

	command := strings.TrimSpace(msg.Content)
	logger := h.logger.With("context_id", msg.ContextID, "channel_id", msg.ChannelID, "command", command)

	switch command {
	case CommandProducts:
		h.handleProducts(ctx, msg, logger)
	case CommandSetup:
		if err := h.wizard.Start(ctx, msg); err != nil {
			logger.Warn("failed to start setup", "error", err)
		}
	case CommandHelp:
		if _, err := h.messenger.Send(ctx, msg.ChannelID, h.helpPage()); err != nil {
			logger.Warn("failed to send help", "error", err)
		}
	case CommandPing:
		h.reply(ctx, msg.ChannelID, h.pingText(), logger)
	}
}

func (h *Handler) handleProducts(ctx context.Context, msg domain.InboundMessage, logger *slog.Logger) {
	start := time.Now()

	err := h.presenter.Present(ctx, msg.ContextID, msg.ChannelID)
	switch {
	case err == nil:
		logger.Debug("products command handled", "duration", time.Since(start))
	case errors.Is(err, domain.ErrNotConfigured):
		logger.Info("products requested before setup")
		h.reply(ctx, msg.ChannelID, notConfiguredReply, logger)
	case errors.Is(err, domain.ErrNoProducts):
		logger.Info("store has no products")
		h.reply(ctx, msg.ChannelID, noProductsReply, logger)
	default:
		logger.Error("failed to present products", "error", err)
		h.reply(ctx, msg.ChannelID, presentFailedReply, logger)
	}
}

func (h *Handler) reply(ctx context.Context, channelID, text string, logger *slog.Logger) {
	if err := h.messenger.Reply(ctx, channelID, text); err != nil {
		logger.Warn("failed to reply", "error", err)
	}
}

func (h *Handler) helpPage() domain.Page {
	lines := []string{
		"Here are the available commands:",
		"",
		"**" + CommandSetup + "** - Setup bot configuration (Server Admins only)",
		"**" + CommandProducts + "** - List all products",
		"**" + CommandPing + "** - Show the bot's latency",
		"**" + CommandHelp + "** - Show this help message",
	}
	return domain.Page{
		Title:  "Bot Help",
		Body:   strings.Join(lines, "\n"),
		Footer: h.config.Footer,
	}
}

func (h *Handler) pingText() string {
	if h.latency == nil {
		return "Pong!"
	}
	return fmt.Sprintf("Pong! API latency: %dms", h.latency.Latency().Milliseconds())
}
