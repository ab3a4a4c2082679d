package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const (
	sandboxEnvFile = ".env.sandbox"
	liveEnvFile    = ".env.live"

	paperBaseUrl = "https://paper-api.alpaca.markets"
	liveBaseUrl  = "https://api.alpaca.markets"
)

// Credentials carry every secret the adapters need. They are loaded
// once in cmd and handed to constructors as plain values; core packages
// never read the environment themselves.
type Credentials struct {
	AlpacaKey      string
	AlpacaSecret   string
	AlpacaBaseUrl  string
	TelegramToken  string
	TelegramChatId string
}

// LoadCredentials reads .env.live or .env.sandbox depending on mode,
// falling back to the process environment when the file is absent.
func LoadCredentials(live bool) (Credentials, error) {
	file := sandboxEnvFile
	baseUrl := paperBaseUrl
	if live {
		file = liveEnvFile
		baseUrl = liveBaseUrl
	}

	if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Credentials{}, fmt.Errorf("unable to load %s: %w", file, err)
	}

	if v := os.Getenv("ALPACA_BASE_URL"); v != "" {
		baseUrl = v
	}

	return Credentials{
		AlpacaKey:      os.Getenv("ALPACA_API_KEY"),
		AlpacaSecret:   os.Getenv("ALPACA_SECRET_KEY"),
		AlpacaBaseUrl:  baseUrl,
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatId: os.Getenv("TELEGRAM_CHAT_ID"),
	}, nil
}
