package provider

import (
	"errors"
	"log/slog"

	"github.com/gamma-omg/trend-bot/internal/config"
	"github.com/gamma-omg/trend-bot/internal/provider/alpaca"
	csvstore "github.com/gamma-omg/trend-bot/internal/provider/csv"
)

// Create builds the configured bar provider. An absent provider section
// defaults to Alpaca with credentials from the environment.
func Create(log *slog.Logger, cfg config.Config, creds config.Credentials) (BarProvider, error) {
	alpacaCfg, ok := cfg.ProviderRef.Provider.(config.Alpaca)
	if ok {
		return alpaca.NewBarProvider(alpacaCfg, creds, log), nil
	}

	csvCfg, ok := cfg.ProviderRef.Provider.(config.Csv)
	if ok {
		return csvstore.NewStore(csvCfg.Dir, log), nil
	}

	if cfg.ProviderRef.Provider == nil {
		return alpaca.NewBarProvider(config.Alpaca{}, creds, log), nil
	}

	return nil, errors.New("unknown bar provider")
}
