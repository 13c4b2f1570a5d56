package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func baseConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
		API:      APIConfig{BaseURL: "http://localhost:8000/api/v1"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := baseConfig()
	require.NoError(t, Normalize(cfg))
	require.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
	require.Equal(t, 10*time.Second, cfg.APITimeout())
	require.Equal(t, 300*time.Millisecond, cfg.APIRetryBackoff())
	require.Equal(t, 10*time.Minute, cfg.SessionTTL())
}

func TestNormalizeTrimsBaseURL(t *testing.T) {
	cfg := baseConfig()
	cfg.API.BaseURL = "  http://backend:8000/api/v1/ "
	require.NoError(t, Normalize(cfg))
	require.Equal(t, "http://backend:8000/api/v1", cfg.API.BaseURL)
}

func TestNormalizeRejectsMissingFields(t *testing.T) {
	cfg := baseConfig()
	cfg.Telegram.Token = ""
	require.Error(t, Normalize(cfg))

	cfg = baseConfig()
	cfg.API.BaseURL = ""
	require.Error(t, Normalize(cfg))
}

func TestNormalizeRunModeAlias(t *testing.T) {
	cfg := baseConfig()
	cfg.Telegram.RunMode = "polling"
	require.NoError(t, Normalize(cfg))
	require.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
}

func TestNormalizeWebhookRequiresEndpoint(t *testing.T) {
	cfg := baseConfig()
	cfg.Telegram.RunMode = "webhook"
	require.Error(t, Normalize(cfg))

	cfg.Webhook = WebhookConfig{URL: "https://bot.example.com", Listen: "0.0.0.0", Port: 8443}
	require.NoError(t, Normalize(cfg))
}

func TestNormalizeRateLimitExcludes(t *testing.T) {
	cfg := baseConfig()
	cfg.RateLimit.ExcludeUpdates = []string{" Callback ", "message"}
	require.NoError(t, Normalize(cfg))
	require.Equal(t, []string{"callback", "message"}, cfg.RateLimit.ExcludeUpdates)

	cfg.RateLimit.ExcludeUpdates = []string{"bogus"}
	require.Error(t, Normalize(cfg))
}
