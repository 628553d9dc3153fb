package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(p, []byte(data), 0644)
	return p
}

func TestLoad_Valid(t *testing.T) {
	p := writeConfig(t, `version: 1
listen: ":9000"
passcode: hunter2
notify:
  webhook:
    url: https://example.com/hook
    token: secret
  telegram:
    bot_token: bot123
    chat_id: "42"
`)

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Listen != ":9000" {
		t.Errorf("expected :9000, got %q", cfg.Listen)
	}
	if cfg.Passcode != "hunter2" {
		t.Errorf("expected passcode, got %q", cfg.Passcode)
	}
	if !cfg.Notify.Webhook.Configured() {
		t.Error("expected webhook sink configured")
	}
	if !cfg.Notify.Telegram.Configured() {
		t.Error("expected telegram sink configured")
	}
	if cfg.Notify.Agent.Configured() {
		t.Error("agent sink should be inactive when unset")
	}
}

func TestLoad_DefaultListen(t *testing.T) {
	p := writeConfig(t, "version: 1\n")

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Listen != DefaultListen {
		t.Errorf("expected default listen %q, got %q", DefaultListen, cfg.Listen)
	}
}

func TestLoad_EnvFallback(t *testing.T) {
	t.Setenv("WEBHOOK_URL", "https://env.example.com/hook")
	t.Setenv("TASKDECK_PASSCODE", "from-env")

	p := writeConfig(t, "version: 1\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Notify.Webhook.URL != "https://env.example.com/hook" {
		t.Errorf("expected webhook url from env, got %q", cfg.Notify.Webhook.URL)
	}
	if cfg.Passcode != "from-env" {
		t.Errorf("expected passcode from env, got %q", cfg.Passcode)
	}
}

func TestLoad_FileBeatsEnv(t *testing.T) {
	t.Setenv("WEBHOOK_URL", "https://env.example.com/hook")

	p := writeConfig(t, `version: 1
notify:
  webhook:
    url: https://file.example.com/hook
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Notify.Webhook.URL != "https://file.example.com/hook" {
		t.Errorf("file value should win over env, got %q", cfg.Notify.Webhook.URL)
	}
}

func TestLoad_HalfConfiguredAgent(t *testing.T) {
	p := writeConfig(t, `version: 1
notify:
  agent:
    url: https://bot.example.com
`)
	if _, err := Load(p); err == nil {
		t.Fatal("expected error for agent url without token")
	}
}

func TestLoad_HalfConfiguredTelegram(t *testing.T) {
	p := writeConfig(t, `version: 1
notify:
  telegram:
    bot_token: bot123
`)
	if _, err := Load(p); err == nil {
		t.Fatal("expected error for bot_token without chat_id")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSave_And_Reload(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Passcode = "roundtrip"
	cfg.Notify.Webhook = Webhook{URL: "https://example.com/hook", Token: "tok"}

	if err := Save(p, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(p)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.Passcode != "roundtrip" {
		t.Error("passcode lost after save/load round-trip")
	}
	if loaded.Notify.Webhook.Token != "tok" {
		t.Error("webhook token lost after round-trip")
	}
}
