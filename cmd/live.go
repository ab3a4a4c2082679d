package cmd

import (
	"github.com/spf13/cobra"
)

var liveCmd = &cobra.Command{
	Use:   "live <ticker>",
	Short: "Run one trading day for a ticker",
	Long: `Live fetches fresh bars, checks for a same day signal and routes it
through the notifier and the journal. With live.execute enabled it
also sizes and submits market orders through the brokerage, and on
quiet days it applies the configured exit rules to a held position.

Paper endpoints by default; pass --live to trade the real account.`,
	Args: cobra.ExactArgs(1),
	RunE: runLive,
}

func init() {
	rootCmd.AddCommand(liveCmd)
}

func runLive(cmd *cobra.Command, args []string) error {
	r, err := setup()
	if err != nil {
		return err
	}
	defer r.Close()

	return r.tradingAgent().RunLive(cmd.Context(), args[0])
}
