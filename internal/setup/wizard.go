// Package setup implements the !setup conversation that records a context's
// log channels and store credentials.
package setup

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"storefront_bot/internal/domain"
)

type State int

const (
	StateAwaitLogChannel State = iota
	StateAwaitUpdateLogChannel
	StateAwaitStoreURL
	StateAwaitAPIKey
	StateSaved
	StateAborted
)

const (
	restartHint     = " You will need to run the !setup command again."
	notAdminReply   = "Only server administrators can run !setup."
	timeoutReply    = "Setup timed out waiting for an answer." + restartHint
	savedReply      = "Bot setup completed successfully."
	saveFailedReply = "An error occurred during setup. Please try again later."
	replyTimeout    = 10 * time.Second
)

type ConfigStore interface {
	Upsert(ctx context.Context, cfg *domain.ContextConfig) error
}

type Replier interface {
	Reply(ctx context.Context, channelID, text string) error
}

// step is one row of the transition table.
type step struct {
	prompt  string
	invalid string
	parse   func(content string) (string, bool)
	assign  func(cfg *domain.ContextConfig, value string)
	next    State
}

var steps = map[State]step{
	StateAwaitLogChannel: {
		prompt:  "Please mention the channel where you want bot logs to be sent (e.g., #log-channel):",
		invalid: "Invalid channel mentioned.",
		parse:   parseChannelMention,
		assign:  func(cfg *domain.ContextConfig, v string) { cfg.LogChannelID = v },
		next:    StateAwaitUpdateLogChannel,
	},
	StateAwaitUpdateLogChannel: {
		prompt:  "Please mention the channel where you want update logs to be sent (e.g., #update-log-channel):",
		invalid: "Invalid channel mentioned.",
		parse:   parseChannelMention,
		assign:  func(cfg *domain.ContextConfig, v string) { cfg.UpdateLogChannelID = v },
		next:    StateAwaitStoreURL,
	},
	StateAwaitStoreURL: {
		prompt:  "Please provide your Sellix store URL (e.g., yourstore.mysellix.io):",
		invalid: "Invalid Sellix store URL provided.",
		parse:   parseStoreURL,
		assign:  func(cfg *domain.ContextConfig, v string) { cfg.StoreURL = v },
		next:    StateAwaitAPIKey,
	},
	StateAwaitAPIKey: {
		prompt: "Please obtain your Sellix API key by going to https://dashboard.sellix.io/settings/security " +
			"and clicking re-generate. Then copy it and paste it here:",
		invalid: "Invalid Sellix API key provided.",
		parse:   parseAPIKey,
		assign:  func(cfg *domain.ContextConfig, v string) { cfg.APIKey = v },
		next:    StateSaved,
	},
}

type sessionKey struct {
	contextID string
	userID    string
}

type session struct {
	state     State
	channelID string
	cfg       domain.ContextConfig
	timer     *time.Timer
	// gen identifies the armed timer; a stale timer that fires late is ignored.
	gen int
}

// Wizard runs one setup session per (context, user).
type Wizard struct {
	store   ConfigStore
	replier Replier
	timeout time.Duration
	logger  *slog.Logger

	mu       sync.Mutex
	sessions map[sessionKey]*session
}

func NewWizard(store ConfigStore, replier Replier, stepTimeout time.Duration, logger *slog.Logger) *Wizard {
	return &Wizard{
		store:    store,
		replier:  replier,
		timeout:  stepTimeout,
		logger:   logger.With("component", "setup"),
		sessions: make(map[sessionKey]*session),
	}
}

// Start opens a session for the author of msg and asks the first question.
// A session already open for the same author is replaced.
func (w *Wizard) Start(ctx context.Context, msg domain.InboundMessage) error {
	if !msg.IsAdmin {
		return w.replier.Reply(ctx, msg.ChannelID, notAdminReply)
	}

	key := sessionKey{contextID: msg.ContextID, userID: msg.AuthorID}
	sess := &session{
		state:     StateAwaitLogChannel,
		channelID: msg.ChannelID,
		cfg: domain.ContextConfig{
			ContextID:      msg.ContextID,
			SetupChannelID: msg.ChannelID,
		},
	}

	w.mu.Lock()
	if old, ok := w.sessions[key]; ok {
		old.timer.Stop()
	}
	w.sessions[key] = sess
	w.arm(key, sess)
	w.mu.Unlock()

	w.logger.Info("setup started", "context_id", msg.ContextID, "user_id", msg.AuthorID)

	return w.replier.Reply(ctx, msg.ChannelID, steps[StateAwaitLogChannel].prompt)
}

// Handle feeds msg to the author's open session. It reports whether the
// message was consumed as a setup answer.
func (w *Wizard) Handle(ctx context.Context, msg domain.InboundMessage) bool {
	key := sessionKey{contextID: msg.ContextID, userID: msg.AuthorID}

	w.mu.Lock()
	sess, ok := w.sessions[key]
	if !ok || sess.channelID != msg.ChannelID {
		w.mu.Unlock()
		return false
	}
	sess.timer.Stop()

	current := steps[sess.state]
	value, valid := current.parse(msg.Content)
	if !valid {
		sess.state = StateAborted
		delete(w.sessions, key)
		w.mu.Unlock()

		w.logger.Info("setup aborted, invalid answer", "context_id", msg.ContextID, "user_id", msg.AuthorID)
		w.reply(ctx, msg.ChannelID, current.invalid+restartHint)
		return true
	}

	current.assign(&sess.cfg, value)
	sess.state = current.next

	if sess.state != StateSaved {
		w.arm(key, sess)
		prompt := steps[sess.state].prompt
		w.mu.Unlock()

		w.reply(ctx, msg.ChannelID, prompt)
		return true
	}

	delete(w.sessions, key)
	cfg := sess.cfg
	w.mu.Unlock()

	if err := w.store.Upsert(ctx, &cfg); err != nil {
		w.logger.Error("failed to save setup", "context_id", cfg.ContextID, "error", err)
		w.reply(ctx, msg.ChannelID, saveFailedReply)
		return true
	}

	w.logger.Info("setup saved", "context_id", cfg.ContextID, "store_url", cfg.StoreURL)
	w.reply(ctx, msg.ChannelID, savedReply)
	return true
}

// arm starts the step timer. Callers hold w.mu.
func (w *Wizard) arm(key sessionKey, sess *session) {
	sess.gen++
	gen := sess.gen
	sess.timer = time.AfterFunc(w.timeout, func() { w.expire(key, sess, gen) })
}

func (w *Wizard) expire(key sessionKey, sess *session, gen int) {
	w.mu.Lock()
	if w.sessions[key] != sess || sess.gen != gen {
		w.mu.Unlock()
		return
	}
	sess.state = StateAborted
	delete(w.sessions, key)
	w.mu.Unlock()

	w.logger.Info("setup timed out", "context_id", key.contextID, "user_id", key.userID)

	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()
	w.reply(ctx, sess.channelID, timeoutReply)
}

func (w *Wizard) reply(ctx context.Context, channelID, text string) {
	if err := w.replier.Reply(ctx, channelID, text); err != nil {
		w.logger.Warn("failed to send setup reply", "channel_id", channelID, "error", err)
	}
}

// active reports the state of an open session.
func (w *Wizard) active(contextID, userID string) (State, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	sess, ok := w.sessions[sessionKey{contextID: contextID, userID: userID}]
	if !ok {
		return StateAborted, false
	}
	return sess.state, true
}

var channelMention = regexp.MustCompile(`<#(\d+)>`)

func parseChannelMention(content string) (string, bool) {
	m := channelMention.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func parseStoreURL(content string) (string, bool) {
	raw := strings.TrimSpace(content)
	if raw == "" {
		return "", false
	}
	if !strings.HasPrefix(raw, "https://") && !strings.HasPrefix(raw, "http://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || strings.ContainsAny(u.Host, " \t") {
		return "", false
	}
	return strings.TrimRight(u.String(), "/"), true
}

func parseAPIKey(content string) (string, bool) {
	key := strings.TrimSpace(content)
	if key == "" || strings.ContainsAny(key, " \t\n") {
		return "", false
	}
	return key, true
}
