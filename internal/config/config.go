package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultListen is the API server address when none is configured.
const DefaultListen = ":8377"

// Config is the root configuration for a taskdeck project.
type Config struct {
	Version  int    `yaml:"version"`
	Listen   string `yaml:"listen,omitempty"`
	Passcode string `yaml:"passcode,omitempty"`
	Notify   Notify `yaml:"notify,omitempty"`
}

// Notify holds the outbound notification sinks. Any sink left without
// its endpoint and credential is simply inactive — never an error.
type Notify struct {
	Webhook  Webhook  `yaml:"webhook,omitempty"`
	Agent    Agent    `yaml:"agent,omitempty"`
	Telegram Telegram `yaml:"telegram,omitempty"`
}

// Webhook is a generic JSON webhook sink. Token is optional.
type Webhook struct {
	URL   string `yaml:"url,omitempty"`
	Token string `yaml:"token,omitempty"`
}

// Configured reports whether the sink should receive events.
func (w Webhook) Configured() bool { return w.URL != "" }

// Agent is a chat-bot agent sink reached via its hooks endpoint.
type Agent struct {
	URL   string `yaml:"url,omitempty"`
	Token string `yaml:"token,omitempty"`
}

// Configured reports whether the sink should receive events.
func (a Agent) Configured() bool { return a.URL != "" && a.Token != "" }

// Telegram is a messaging-bot sink using the Bot API.
type Telegram struct {
	BotToken string `yaml:"bot_token,omitempty"`
	ChatID   string `yaml:"chat_id,omitempty"`
}

// Configured reports whether the sink should receive events.
func (t Telegram) Configured() bool { return t.BotToken != "" && t.ChatID != "" }

// Load reads and parses the config file at the given path. Fields left
// empty in the file fall back to environment variables, so credentials
// can stay out of the config file entirely.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the config to the given path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns a starter config.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Listen:  DefaultListen,
	}
}

func (c *Config) applyEnv() {
	fallback(&c.Passcode, "TASKDECK_PASSCODE")
	fallback(&c.Notify.Webhook.URL, "WEBHOOK_URL")
	fallback(&c.Notify.Webhook.Token, "WEBHOOK_TOKEN")
	fallback(&c.Notify.Agent.URL, "AGENT_WEBHOOK_URL")
	fallback(&c.Notify.Agent.Token, "AGENT_HOOK_TOKEN")
	fallback(&c.Notify.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	fallback(&c.Notify.Telegram.ChatID, "TELEGRAM_CHAT_ID")
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
}

func (c *Config) validate() error {
	// Half-configured sinks are a config mistake, not an inactive sink.
	if c.Notify.Agent.URL != "" && c.Notify.Agent.Token == "" {
		return fmt.Errorf("notify.agent: token is required when url is set")
	}
	tg := c.Notify.Telegram
	if (tg.BotToken == "") != (tg.ChatID == "") {
		return fmt.Errorf("notify.telegram: bot_token and chat_id must be set together")
	}
	return nil
}

// fallback fills *dst from the environment when it is empty.
func fallback(dst *string, envKey string) {
	if *dst == "" {
		*dst = os.Getenv(envKey)
	}
}
