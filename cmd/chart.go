package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gamma-omg/trend-bot/internal/report"
	"github.com/gamma-omg/trend-bot/internal/sim"
)

var chartCmd = &cobra.Command{
	Use:   "chart <ticker> [ticker...]",
	Short: "Render a backtest chart per ticker",
	Long: `Chart replays the strategy like backtest and renders the closes with
their EMA and SMA, the executed BUY and SELL markers and the portfolio
value into <ticker>_chart.png.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChart,
}

var chartOut string

func init() {
	rootCmd.AddCommand(chartCmd)

	chartCmd.Flags().StringVar(&chartOut, "out", "", "output directory (defaults to report.chart_dir, then .)")
}

func runChart(cmd *cobra.Command, args []string) error {
	r, err := analysisSetup()
	if err != nil {
		return err
	}

	dir := chartOut
	if dir == "" {
		dir = r.cfg.Report.ChartDir
	}
	if dir == "" {
		dir = "."
	}

	a := r.signalAgent()
	params := sim.Params{
		EmaSpan:   r.cfg.Strategy.EmaSpan,
		SmaWindow: r.cfg.Strategy.SmaWindow,
	}

	for _, symbol := range args {
		res, bars, err := a.RunBacktest(cmd.Context(), symbol)
		if err != nil {
			return err
		}

		path := filepath.Join(dir, symbol+"_chart.png")
		if err := report.RenderChart(path, symbol, bars, params, res); err != nil {
			return err
		}

		r.log.Info("chart rendered", "symbol", symbol, "path", path)
	}

	return nil
}
