package telegram

import (
	"fmt"
	"strings"
	"time"

	coreconfig "github.com/sporttich/sportbot/core/config"

	tele "gopkg.in/telebot.v4"
)

const defaultLongPollTimeout = 10 * time.Second

// BuildPoller selects the update source from the run mode: a webhook
// listener when configured, a long poller otherwise.
func BuildPoller(cfg *coreconfig.Config) tele.Poller {
	mode := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if mode == coreconfig.RunModeWebhook {
		return &tele.Webhook{
			Listen:   fmt.Sprintf("%s:%d", cfg.Webhook.Listen, cfg.Webhook.Port),
			Endpoint: &tele.WebhookEndpoint{PublicURL: cfg.Webhook.URL},
		}
	}

	timeout := defaultLongPollTimeout
	if cfg.Telegram.LongPollTimeoutSeconds > 0 {
		timeout = time.Duration(cfg.Telegram.LongPollTimeoutSeconds) * time.Second
	}
	return &tele.LongPoller{Timeout: timeout}
}
