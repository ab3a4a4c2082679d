package notify

import (
	"errors"
	"log/slog"

	"github.com/gamma-omg/trend-bot/internal/config"
)

// Create builds the configured notifier. An absent notifier section
// falls back to the log notifier.
func Create(log *slog.Logger, cfg config.Config, creds config.Credentials) (Notifier, error) {
	_, ok := cfg.NotifierRef.Notifier.(config.Telegram)
	if ok {
		return NewTelegramNotifier(creds, log)
	}

	_, ok = cfg.NotifierRef.Notifier.(config.Log)
	if ok {
		return NewLogNotifier(log), nil
	}

	if cfg.NotifierRef.Notifier == nil {
		return NewLogNotifier(log), nil
	}

	return nil, errors.New("unknown notifier")
}
