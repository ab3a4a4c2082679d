package broker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/gamma-omg/trend-bot/internal/config"
	"github.com/shopspring/decimal"
)

const fillTimeout = 30 * time.Second

// Fill is the result of a completed market order.
type Fill struct {
	OrderId  string
	Symbol   string
	Qty      decimal.Decimal
	AvgPrice decimal.Decimal
	FilledAt time.Time
}

type tradingApi interface {
	PlaceOrder(req alpaca.PlaceOrderRequest) (*alpaca.Order, error)
	GetOrder(orderID string) (*alpaca.Order, error)
	GetAccount() (*alpaca.Account, error)
	GetPosition(symbol string) (*alpaca.Position, error)
}

// AlpacaBroker submits day market orders and reads account state
// through the Alpaca trading API.
type AlpacaBroker struct {
	log  *slog.Logger
	api  tradingApi
	poll time.Duration
}

func NewAlpacaBroker(creds config.Credentials, log *slog.Logger) *AlpacaBroker {
	client := alpaca.NewClient(alpaca.ClientOpts{
		APIKey:    creds.AlpacaKey,
		APISecret: creds.AlpacaSecret,
		BaseURL:   creds.AlpacaBaseUrl,
	})

	return &AlpacaBroker{
		log:  log,
		api:  client,
		poll: 1 * time.Second,
	}
}

// Cash returns the account's available cash balance.
func (b *AlpacaBroker) Cash() (c decimal.Decimal, err error) {
	acc, err := b.api.GetAccount()
	if err != nil {
		err = fmt.Errorf("failed to get alpaca account: %w", err)
		return
	}

	c = acc.Cash
	return
}

// Position returns the open quantity and average entry price for
// symbol. No open position is zero quantity, not an error.
func (b *AlpacaBroker) Position(symbol string) (qty, avgEntry decimal.Decimal, err error) {
	p, err := b.api.GetPosition(symbol)
	if err != nil {
		var apiErr *alpaca.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return decimal.Zero, decimal.Zero, nil
		}

		err = fmt.Errorf("failed to get position for %s: %w", symbol, err)
		return
	}

	return p.Qty, p.AvgEntryPrice, nil
}

func (b *AlpacaBroker) MarketBuy(ctx context.Context, symbol string, qty int64) (Fill, error) {
	return b.submit(ctx, symbol, qty, alpaca.Buy)
}

func (b *AlpacaBroker) MarketSell(ctx context.Context, symbol string, qty int64) (Fill, error) {
	return b.submit(ctx, symbol, qty, alpaca.Sell)
}

func (b *AlpacaBroker) submit(ctx context.Context, symbol string, qty int64, side alpaca.Side) (f Fill, err error) {
	q := decimal.NewFromInt(qty)
	ord, err := b.api.PlaceOrder(alpaca.PlaceOrderRequest{
		Symbol:      symbol,
		Qty:         &q,
		Side:        side,
		Type:        alpaca.Market,
		TimeInForce: alpaca.Day,
	})
	if err != nil {
		err = fmt.Errorf("failed to place %s order for %s: %w", side, symbol, err)
		return
	}

	b.log.Info("order submitted",
		slog.String("symbol", symbol),
		slog.String("side", string(side)),
		slog.Int64("qty", qty),
		slog.String("order_id", ord.ID))

	ctx, cancel := context.WithTimeout(ctx, fillTimeout)
	defer cancel()

	ord, err = b.waitFillOrder(ctx, ord)
	if err != nil {
		err = fmt.Errorf("failed to fill order: %w", err)
		return
	}

	f = Fill{
		OrderId:  ord.ID,
		Symbol:   symbol,
		Qty:      ord.FilledQty,
		AvgPrice: *ord.FilledAvgPrice,
		FilledAt: *ord.FilledAt,
	}
	return
}

func (b *AlpacaBroker) waitFillOrder(ctx context.Context, o *alpaca.Order) (*alpaca.Order, error) {
	ticker := time.NewTicker(b.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			order, err := b.api.GetOrder(o.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to update order state: %w", err)
			}

			if order.FilledAt != nil {
				return order, nil
			}
		}
	}
}
