package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/gamma-omg/trend-bot/internal/config"
	"github.com/gamma-omg/trend-bot/internal/market"
	"github.com/gamma-omg/trend-bot/internal/provider/alpaca"
	csvstore "github.com/gamma-omg/trend-bot/internal/provider/csv"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <ticker> [ticker...]",
	Short: "Download daily bars into the CSV cache",
	Long: `Fetch pulls split adjusted daily bars from Alpaca and stores them as
date,open,high,low,close,volume CSV files, one per ticker. A fresh
fetch keeps the trailing --days bars; --update merges recent bars into
the existing cache instead of rewriting it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

var (
	fetchDays   int
	fetchUpdate bool
	fetchDir    string
)

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().IntVar(&fetchDays, "days", 200, "trading days to keep on a fresh fetch")
	fetchCmd.Flags().BoolVar(&fetchUpdate, "update", false, "merge new bars into the existing cache")
	fetchCmd.Flags().StringVar(&fetchDir, "dir", "", "cache directory (defaults to the csv provider dir, then ./data)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	log := newLogger()

	cfg, err := config.ReadFromFile(cfgPath)
	if err != nil {
		return err
	}

	creds, err := config.LoadCredentials(live)
	if err != nil {
		return err
	}

	alpacaCfg, _ := cfg.ProviderRef.Provider.(config.Alpaca)
	src := alpaca.NewBarProvider(alpacaCfg, creds, log)
	store := csvstore.NewStore(cacheDir(*cfg), log)

	for _, symbol := range args {
		if err := fetchSymbol(cmd.Context(), src, store, symbol); err != nil {
			return err
		}

		log.Info("cache updated", "symbol", symbol, "path", store.Path(symbol))
	}

	return nil
}

func cacheDir(cfg config.Config) string {
	if fetchDir != "" {
		return fetchDir
	}
	if csvCfg, ok := cfg.ProviderRef.Provider.(config.Csv); ok && csvCfg.Dir != "" {
		return csvCfg.Dir
	}

	return "data"
}

// fetchSymbol requests half again as many calendar days as requested,
// so weekends and holidays still leave enough trading bars to keep. An
// update re-reads a few days before the cached tip and relies on Merge
// to de-duplicate and freshen revised bars.
func fetchSymbol(ctx context.Context, src *alpaca.BarProvider, store *csvstore.Store, symbol string) error {
	end := time.Now()
	start := end.AddDate(0, 0, -(fetchDays + fetchDays/2))

	if fetchUpdate {
		cached, err := store.ReadBars(symbol)
		if err != nil {
			return err
		}
		if len(cached) > 0 {
			start = cached[len(cached)-1].Time.AddDate(0, 0, -5)
		}

		fresh, err := src.GetDailyBars(ctx, symbol, start, end)
		if err != nil {
			return err
		}

		return store.WriteBars(symbol, market.Merge(cached, fresh))
	}

	bars, err := src.GetDailyBars(ctx, symbol, start, end)
	if err != nil {
		return err
	}

	return store.WriteBars(symbol, market.LastN(bars, fetchDays))
}
