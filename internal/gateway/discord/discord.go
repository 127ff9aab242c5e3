// Package discord connects the bot to Discord through discordgo.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"storefront_bot/internal/domain"
)

const embedColor = 0x3498DB

// MessageHandler receives every message the gateway sees in a guild channel.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg domain.InboundMessage)
}

type Config struct {
	Token string
}

// Gateway sends catalog pages as embeds and forwards inbound messages.
type Gateway struct {
	session *discordgo.Session
	logger  *slog.Logger
}

func New(cfg Config, logger *slog.Logger) (*Gateway, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	return &Gateway{
		session: session,
		logger:  logger.With("component", "discord"),
	}, nil
}

// Open registers handler and connects. Messages are handled with ctx as
// their parent context, so cancelling it aborts in-flight commands.
func (g *Gateway) Open(ctx context.Context, handler MessageHandler) error {
	g.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		g.logger.Info("connected to discord", "user", r.User.Username, "guilds", len(r.Guilds))
	})

	g.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.GuildID == "" {
			return
		}
		handler.HandleMessage(ctx, toInbound(m, g.isAdmin(m)))
	})

	if err := g.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	return nil
}

func (g *Gateway) Close() error {
	return g.session.Close()
}

// Latency is the last heartbeat round trip.
func (g *Gateway) Latency() time.Duration {
	return g.session.HeartbeatLatency()
}

func (g *Gateway) Send(ctx context.Context, channelID string, page domain.Page) (string, error) {
	msg, err := g.session.ChannelMessageSendEmbed(channelID, toEmbed(page), discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("send embed: %w", err)
	}
	return msg.ID, nil
}

func (g *Gateway) Edit(ctx context.Context, channelID, messageID string, page domain.Page) error {
	if _, err := g.session.ChannelMessageEditEmbed(channelID, messageID, toEmbed(page), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("edit embed: %w", err)
	}
	return nil
}

func (g *Gateway) Exists(ctx context.Context, channelID, messageID string) error {
	if _, err := g.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("fetch message: %w", err)
	}
	return nil
}

func (g *Gateway) Delete(ctx context.Context, channelID, messageID string) error {
	if err := g.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

func (g *Gateway) Reply(ctx context.Context, channelID, text string) error {
	if _, err := g.session.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (g *Gateway) isAdmin(m *discordgo.MessageCreate) bool {
	perms, err := g.session.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil {
		g.logger.Debug("failed to resolve permissions",
			"user_id", m.Author.ID,
			"channel_id", m.ChannelID,
			"error", err,
		)
		return false
	}
	return hasAdmin(perms)
}

func hasAdmin(perms int64) bool {
	return perms&discordgo.PermissionAdministrator != 0
}

func toInbound(m *discordgo.MessageCreate, isAdmin bool) domain.InboundMessage {
	return domain.InboundMessage{
		ContextID: m.GuildID,
		ChannelID: m.ChannelID,
		MessageID: m.ID,
		AuthorID:  m.Author.ID,
		IsBot:     m.Author.Bot,
		IsAdmin:   isAdmin,
		Content:   m.Content,
	}
}

func toEmbed(page domain.Page) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       page.Title,
		Description: page.Body,
		Color:       embedColor,
	}
	if page.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: page.Footer}
	}
	return embed
}
