package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gamma-omg/trend-bot/internal/report"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest <ticker> [ticker...]",
	Short: "Replay the strategy over historical bars",
	Long: `Backtest simulates the trend rules over the configured lookback
window and prints the executed trades and summary per ticker. When
report.file is set in the config the accumulated JSON report is
written there as well.

Example:
  trendbot backtest TQQQ QQQ`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBacktest,
}

func init() {
	rootCmd.AddCommand(backtestCmd)
}

func runBacktest(cmd *cobra.Command, args []string) error {
	r, err := analysisSetup()
	if err != nil {
		return err
	}

	a := r.signalAgent()
	builder := report.NewBuilder(r.log)

	for _, symbol := range args {
		res, _, err := a.RunBacktest(cmd.Context(), symbol)
		if err != nil {
			return err
		}

		if err := report.WriteTable(os.Stdout, symbol, res); err != nil {
			return err
		}
		fmt.Println()

		builder.Submit(symbol, res)
	}

	if r.cfg.Report.File != "" {
		if err := builder.WriteToFile(r.cfg.Report.File); err != nil {
			return err
		}
		r.log.Info("report written", "path", r.cfg.Report.File)
	}

	return nil
}
