package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes notifications to the structured log. It is the
// default sink and the one backtests use.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Signal(_ context.Context, s Signal) error {
	n.log.Info("trade signal",
		slog.String("symbol", s.Symbol),
		slog.String("action", s.Action),
		slog.String("price", s.Price.StringFixed(2)),
		slog.Int64("shares", s.Shares),
		slog.String("portfolio_value", s.PortfolioValue.StringFixed(2)),
		slog.String("reason", s.Reason))
	return nil
}

func (n *LogNotifier) Announce(_ context.Context, text string) error {
	n.log.Info(text)
	return nil
}
