package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/capybot/autoreact/functions"
)

// Config holds everything the bot needs for its lifetime. Loaded once at
// startup and never mutated afterwards.
type Config struct {
	// Token is the bot token from @BotFather.
	Token string `koanf:"token"`
	// TargetStickerIDs are the file_unique_id values of stickers to react to.
	TargetStickerIDs []string `koanf:"target_sticker_ids"`
	// ReactionEmoji is attached to matching messages.
	ReactionEmoji string `koanf:"reaction_emoji"`
	// ReactionBig requests the enlarged reaction animation.
	ReactionBig bool `koanf:"reaction_big"`
	// ReplyText is sent as a reply to the matching message.
	ReplyText string `koanf:"reply_text"`
	// PollTimeoutSec is the long-poll wait per cycle, in seconds.
	PollTimeoutSec int `koanf:"poll_timeout_sec"`
	// Debug enables telego request logging.
	Debug bool `koanf:"debug"`
}

// Load reads configuration from defaults, an optional TOML file and
// AUTOREACT_* environment variables, in that order of precedence.
// An empty path falls back to ./autoreact.toml when it exists.
func Load(configPath string) (*Config, error) {
	var k = koanf.New(".")

	k.Load(confmap.Provider(map[string]interface{}{
		"target_sticker_ids": []string{
			"AgADZwADuRtZCw",
			"AgADLXUAAkw0aEk",
			"AgADtnYAAuLomUs",
		},
		"reaction_emoji":   "👎",
		"reaction_big":     false,
		"reply_text":       "Хейтер обнаружен! Атакую!",
		"poll_timeout_sec": 20,
	}, "."), nil)

	if configPath == "" {
		if _, err := os.Stat("autoreact.toml"); err == nil {
			configPath = "autoreact.toml"
		}
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	}

	k.Load(env.Provider("AUTOREACT_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "AUTOREACT_")), "__", ".", -1)
	}), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.TargetStickerIDs = functions.Map(cfg.TargetStickerIDs, strings.TrimSpace)
	cfg.TargetStickerIDs = functions.NewSet(cfg.TargetStickerIDs...).Values()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("bot token is required (set AUTOREACT_TOKEN or token in the config file)")
	}
	if len(c.TargetStickerIDs) == 0 {
		return fmt.Errorf("at least one target sticker id is required")
	}
	for _, id := range c.TargetStickerIDs {
		if id == "" {
			return fmt.Errorf("target sticker ids must not be empty")
		}
	}
	if c.ReactionEmoji == "" {
		return fmt.Errorf("reaction emoji is required")
	}
	if c.PollTimeoutSec <= 0 {
		return fmt.Errorf("poll timeout must be positive, got %d", c.PollTimeoutSec)
	}
	return nil
}

// PollTimeout returns the long-poll wait as a duration.
func (c *Config) PollTimeout() time.Duration {
	return time.Duration(c.PollTimeoutSec) * time.Second
}
