package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("CHANNEL_ID", "@testchannel")
	t.Setenv("ADMIN_IDS", "")
	t.Setenv("POLL_TIMEOUT", "")
	t.Setenv("SUBSCRIPTION_CACHE_TTL", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Fatalf("expected default log level info, got %q", cfg.Log.Level)
	}
	if cfg.Bot.PollTimeout != 30*time.Second {
		t.Fatalf("expected default poll timeout 30s, got %s", cfg.Bot.PollTimeout)
	}
	if cfg.Bot.SubscriptionCacheTTL != 5*time.Minute {
		t.Fatalf("expected default cache ttl 5m, got %s", cfg.Bot.SubscriptionCacheTTL)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("CHANNEL_ID", "@channel")
	t.Setenv("ADMIN_IDS", "100, 200,300")
	t.Setenv("POLL_TIMEOUT", "45s")
	t.Setenv("SUBSCRIPTION_CACHE_TTL", "1m")
	t.Setenv("POSTGRES_DSN", "postgres://x:y@db:5432/refbot")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if len(cfg.Bot.AdminIDs) != 3 || cfg.Bot.AdminIDs[1] != 200 {
		t.Fatalf("unexpected admin ids: %v", cfg.Bot.AdminIDs)
	}
	if !cfg.Bot.IsAdmin(300) {
		t.Fatal("expected 300 to be admin")
	}
	if cfg.Bot.IsAdmin(400) {
		t.Fatal("expected 400 not to be admin")
	}
	if cfg.Bot.PollTimeout != 45*time.Second {
		t.Fatalf("expected poll timeout 45s, got %s", cfg.Bot.PollTimeout)
	}
	if cfg.Postgres.DSN != "postgres://x:y@db:5432/refbot" {
		t.Fatalf("unexpected dsn: %q", cfg.Postgres.DSN)
	}
}

func TestLoadTokenValidation(t *testing.T) {
	t.Setenv("CHANNEL_ID", "@channel")
	t.Setenv("ADMIN_IDS", "")

	t.Setenv("BOT_TOKEN", "not-a-token")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for malformed token")
	}

	t.Setenv("BOT_TOKEN", "Bot 123456789:AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Bot.Token != "123456789:AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" {
		t.Fatalf("expected Bot prefix stripped, got %q", cfg.Bot.Token)
	}
}

func TestLoadRequiresChannel(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("CHANNEL_ID", "")
	t.Setenv("ADMIN_IDS", "")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for missing channel id")
	}
}
