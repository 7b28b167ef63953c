package autoreact

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/capybot/autoreact/config"
)

// API is the slice of the Telegram Bot API the bot needs. It exists so the
// dispatch and reaction logic can run against an in-memory fake in tests.
type API interface {
	// Me returns the bot's own account.
	Me(ctx context.Context) (*telego.User, error)
	// Updates starts long polling and returns the update stream. The channel
	// is closed when ctx is cancelled.
	Updates(ctx context.Context) (<-chan telego.Update, error)
	// React attaches a single emoji reaction to a message.
	React(ctx context.Context, chatID int64, messageID int, emoji string, big bool) error
	// Reply sends text as a reply to a message.
	Reply(ctx context.Context, chatID int64, messageID int, text string) error
}

// Client implements API on top of telego.
type Client struct {
	api         *telego.Bot
	pollTimeout int
}

// NewClient builds a Telegram client for the given configuration.
func NewClient(cfg *config.Config) (*Client, error) {
	opt := telego.WithDiscardLogger()
	if cfg.Debug {
		opt = telego.WithDefaultDebugLogger()
	}

	api, err := telego.NewBot(cfg.Token, opt)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &Client{api: api, pollTimeout: cfg.PollTimeoutSec}, nil
}

func (c *Client) Me(ctx context.Context) (*telego.User, error) {
	return c.api.GetMe(ctx)
}

// Updates discards the queued backlog, then starts long polling for message
// updates. Stale stickers from before a restart never trigger a reaction.
func (c *Client) Updates(ctx context.Context) (<-chan telego.Update, error) {
	stale, err := c.api.GetUpdates(ctx, &telego.GetUpdatesParams{Offset: -1})
	if err != nil {
		return nil, fmt.Errorf("discard pending updates: %w", err)
	}
	offset := 0
	if len(stale) > 0 {
		offset = stale[len(stale)-1].UpdateID + 1
	}

	updates, err := c.api.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Offset:         offset,
		Timeout:        c.pollTimeout,
		AllowedUpdates: []string{telego.MessageUpdates},
	})
	if err != nil {
		return nil, fmt.Errorf("start long polling: %w", err)
	}
	return updates, nil
}

func (c *Client) React(ctx context.Context, chatID int64, messageID int, emoji string, big bool) error {
	return c.api.SetMessageReaction(ctx, &telego.SetMessageReactionParams{
		ChatID:    tu.ID(chatID),
		MessageID: messageID,
		Reaction: []telego.ReactionType{
			&telego.ReactionTypeEmoji{Type: telego.ReactionEmoji, Emoji: emoji},
		},
		IsBig: big,
	})
}

func (c *Client) Reply(ctx context.Context, chatID int64, messageID int, text string) error {
	_, err := c.api.SendMessage(
		ctx,
		tu.Message(
			tu.ID(chatID),
			text,
		).WithReplyParameters(&telego.ReplyParameters{MessageID: messageID}),
	)
	return err
}
