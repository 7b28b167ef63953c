package autoreact

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	"github.com/rs/zerolog"

	"github.com/capybot/autoreact/config"
	"github.com/capybot/autoreact/functions"
)

// Bot watches group messages and reacts to stickers from the configured
// allow-list. It holds no per-chat state and processes updates sequentially.
type Bot struct {
	api      API
	targets  *functions.Set[string]
	emoji    string
	big      bool
	reply    string
	watching []string
	log      zerolog.Logger
}

// New builds a bot from an already validated configuration.
func New(cfg *config.Config, api API, logger zerolog.Logger) *Bot {
	return &Bot{
		api:      api,
		targets:  functions.NewSet(cfg.TargetStickerIDs...),
		emoji:    cfg.ReactionEmoji,
		big:      cfg.ReactionBig,
		reply:    cfg.ReplyText,
		watching: cfg.TargetStickerIDs,
		log:      logger,
	}
}

// Run blocks on the update stream until ctx is cancelled. Failures on a
// single message are logged and swallowed; a failure to establish the
// stream itself is returned.
func (b *Bot) Run(ctx context.Context) error {
	me, err := b.api.Me(ctx)
	if err != nil {
		b.log.Error().Err(err).Msg("Failed to get bot info")
	} else {
		b.log.Info().Str("username", me.Username).Msg("Bot started")
	}
	b.log.Info().Strs("sticker_ids", b.watching).Msg("Watching for stickers")
	b.log.Info().Str("emoji", b.emoji).Msg("Will react with")

	updates, err := b.api.Updates(ctx)
	if err != nil {
		return fmt.Errorf("receive updates: %w", err)
	}

	b.log.Info().Msg("Auto-react bot is running")

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update telego.Update) {
	message := update.Message
	if message == nil || message.Sticker == nil {
		return
	}
	if !b.targets.Has(message.Sticker.FileUniqueID) {
		return
	}

	b.log.Info().
		Int64("chat_id", message.Chat.ID).
		Int("message_id", message.MessageID).
		Str("sticker_id", message.Sticker.FileUniqueID).
		Msg("Target sticker detected")

	b.react(ctx, message.Chat.ID, message.MessageID)
}

// react attaches the reaction and, only if that succeeded, sends the reply.
// Errors are classified and logged, never propagated.
func (b *Bot) react(ctx context.Context, chatID int64, messageID int) {
	if err := b.api.React(ctx, chatID, messageID, b.emoji, b.big); err != nil {
		b.logFailure("add reaction", chatID, err)
		return
	}

	b.log.Info().Int64("chat_id", chatID).Str("emoji", b.emoji).Msg("Reaction added")

	if err := b.api.Reply(ctx, chatID, messageID, b.reply); err != nil {
		b.logFailure("send reply", chatID, err)
	}
}

func (b *Bot) logFailure(step string, chatID int64, err error) {
	kind := Classify(err)
	event := b.log.Warn()
	if kind == KindUnknown {
		event = b.log.Error()
	}
	event = event.Err(err).
		Str("cause", kind.String()).
		Int64("chat_id", chatID)

	switch kind {
	case KindForbidden:
		event.Msg("Bot lacks permission to add reactions or send messages in this chat")
	case KindInvalidReaction:
		event.Str("emoji", b.emoji).Msg("Emoji not supported for reactions")
	case KindMessageGone:
		event.Msg("Message too old or deleted")
	default:
		event.Msg("Failed to " + step)
	}
}
