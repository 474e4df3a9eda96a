// Package config loads the bot configuration from defaults, an optional YAML
// file and QUILL_-prefixed environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Voice struct {
	Enabled   bool   `koanf:"enabled"`
	Model     string `koanf:"model"`
	Voice     string `koanf:"voice"`
	Format    string `koanf:"format"` // mp3, wav or opus
	PollDelay int    `koanf:"poll_delay"`
}

type Search struct {
	URL        string `koanf:"url"`
	MaxResults int    `koanf:"max_results"`
}

type Config struct {
	Model           string   `koanf:"model"`
	MaxHistory      int      `koanf:"max_history"`
	TriggerWords    []string `koanf:"trigger_words"`
	AllowDM         bool     `koanf:"allow_dm"`
	SmartMention    bool     `koanf:"smart_mention"`
	Instructions    string   `koanf:"instructions"`     // default persona name
	InstructionsDir string   `koanf:"instructions_dir"` // directory of persona .txt files
	InternetAccess  bool     `koanf:"internet_access"`
	Language        string   `koanf:"language"`
	NSFWFilter      bool     `koanf:"nsfw_filter"`
	BlacklistWords  []string `koanf:"blacklist_words"`

	Presences       []string `koanf:"presences"`
	DisablePresence bool     `koanf:"disable_presence"`
	PresenceDelay   int      `koanf:"presence_delay"` // seconds between updates

	CommandPrefix string `koanf:"command_prefix"`
	OwnerID       string `koanf:"owner_id"`
	StatusAddr    string `koanf:"status_addr"` // keep-alive / status feed listen address, empty disables
	Proxy         string `koanf:"proxy"`       // SOCKS5 address for outbound API calls, empty disables

	Voice  Voice  `koanf:"voice"`
	Search Search `koanf:"search"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"model":              "gpt-4o-mini",
		"max_history":        8,
		"trigger_words":      []string{},
		"allow_dm":           true,
		"smart_mention":      true,
		"instructions":       "chatgpt",
		"instructions_dir":   "instructions",
		"internet_access":    true,
		"language":           "en",
		"nsfw_filter":        true,
		"presences":          []string{"with {guild_count} servers"},
		"disable_presence":   false,
		"presence_delay":     20,
		"command_prefix":     "!",
		"voice.enabled":      true,
		"voice.model":        "tts-1",
		"voice.voice":        "alloy",
		"voice.format":       "mp3",
		"voice.poll_delay":   1,
		"search.url":         "https://api.tavily.com/search",
		"search.max_results": 3,
	}
}

// Load reads the configuration. path may be empty, in which case only well
// known locations are tried and missing files are not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	k.Load(confmap.Provider(defaults(), "."), nil)

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	} else {
		for _, candidate := range []string{"config.yaml", "config.yml"} {
			if _, err := os.Stat(candidate); err == nil {
				if err := k.Load(file.Provider(candidate), yaml.Parser()); err != nil {
					return nil, fmt.Errorf("load config %s: %w", candidate, err)
				}
				break
			}
		}
	}

	k.Load(env.Provider("QUILL_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "QUILL_")), "__", ".")
	}), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.MaxHistory < 1 {
		return fmt.Errorf("max_history must be a positive integer, got %d", c.MaxHistory)
	}
	if c.Instructions == "" {
		return fmt.Errorf("instructions (default persona) must not be empty")
	}
	if c.PresenceDelay < 1 {
		return fmt.Errorf("presence_delay must be at least 1 second, got %d", c.PresenceDelay)
	}
	switch c.Voice.Format {
	case "mp3", "wav", "opus":
	default:
		return fmt.Errorf("voice.format must be mp3, wav or opus, got %q", c.Voice.Format)
	}
	return nil
}
