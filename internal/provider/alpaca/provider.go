package alpaca

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/gamma-omg/trend-bot/internal/config"
	"github.com/gamma-omg/trend-bot/internal/market"
	"github.com/shopspring/decimal"
)

type marketDataApi interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// BarProvider fetches split adjusted daily bars from the Alpaca market
// data API.
type BarProvider struct {
	log  *slog.Logger
	api  marketDataApi
	feed marketdata.Feed
}

func NewBarProvider(cfg config.Alpaca, creds config.Credentials, log *slog.Logger) *BarProvider {
	client := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    creds.AlpacaKey,
		APISecret: creds.AlpacaSecret,
		BaseURL:   cfg.BaseUrl,
	})

	return &BarProvider{
		log:  log,
		api:  client,
		feed: marketdata.Feed(cfg.Feed),
	}
}

func (p *BarProvider) GetDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]market.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := p.api.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Adjustment: marketdata.Split,
		Start:      start,
		End:        end,
		Feed:       p.feed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch daily bars for %s: %w", symbol, err)
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: no daily bars for %s between %s and %s",
			market.ErrDataUnavailable, symbol, market.DateKey(start), market.DateKey(end))
	}

	p.log.Debug("fetched daily bars",
		slog.String("symbol", symbol),
		slog.Int("count", len(raw)))

	bars := make([]market.Bar, len(raw))
	for i, b := range raw {
		bars[i] = market.Bar{
			Time:   b.Timestamp,
			Open:   decimal.NewFromFloat(b.Open),
			High:   decimal.NewFromFloat(b.High),
			Low:    decimal.NewFromFloat(b.Low),
			Close:  decimal.NewFromFloat(b.Close),
			Volume: decimal.NewFromInt(int64(b.Volume)),
		}
	}

	return market.Normalize(bars), nil
}
