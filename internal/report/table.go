package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/gamma-omg/trend-bot/internal/sim"
)

const dateLayout = "2006-01-02"

// WriteTable prints a run's trades and summary as a fixed width table.
func WriteTable(w io.Writer, symbol string, res *sim.Result) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s trades:\n", symbol)
	fmt.Fprintf(&b, "%-12s%-10s%-12s%-8s%-12s\n", "Date", "Action", "Price", "Shares", "Value")
	b.WriteString(strings.Repeat("-", 54) + "\n")

	for _, t := range res.Trades {
		fmt.Fprintf(&b, "%-12s%-10s%-12s%-8d%-12s\n",
			t.Time.Format(dateLayout),
			t.Action,
			t.Price.StringFixed(2),
			t.Shares,
			t.PortfolioValue.StringFixed(2))
	}
	if len(res.Trades) == 0 {
		b.WriteString("no trades\n")
	}

	b.WriteString(res.Summary.String() + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}
