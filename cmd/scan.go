package cmd

import (
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Simulate the watchlist and send the daily summary",
	Long: `Scan runs the strategy over every configured ticker, notifies each
same day signal and finishes with one combined summary table. Tickers
come from scan.tickers in the config or from the scan.tickers_file
CSV. Scan never submits orders.`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	r, err := setup()
	if err != nil {
		return err
	}
	defer r.Close()

	a := r.signalAgent()

	rows, scanned, err := a.Scan(cmd.Context())
	if err != nil {
		return err
	}

	a.AnnounceScan(cmd.Context(), rows, scanned)
	return nil
}
