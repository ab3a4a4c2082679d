package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gamma-omg/trend-bot/internal/agent"
	"github.com/gamma-omg/trend-bot/internal/broker"
	"github.com/gamma-omg/trend-bot/internal/config"
	"github.com/gamma-omg/trend-bot/internal/journal"
	"github.com/gamma-omg/trend-bot/internal/notify"
	"github.com/gamma-omg/trend-bot/internal/provider"
)

var (
	cfgPath string
	live    bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "trendbot",
	Short: "EMA/SMA trend following bot for daily stock bars",
	Long: `Trendbot rides medium term uptrends in a single ticker or a whole
watchlist. It buys when the close breaks above its EMA and SMA, sells
when the close drops back under the SMA after a bar above it, and can
report, notify, journal and optionally execute what it finds.

Dry run against the paper endpoints by default; --live switches to the
live credentials and brokerage.`,
	SilenceUsage: true,
}

// Execute runs the CLI. Cancelling ctx aborts in flight provider and
// broker calls.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "trendbot.yaml", "path to the yaml config file")
	rootCmd.PersistentFlags().BoolVar(&live, "live", false, "use live credentials and endpoints instead of the sandbox")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// runtime bundles the collaborators the commands wire out of the
// config. Close releases the journal.
type runtime struct {
	log      *slog.Logger
	cfg      config.Config
	creds    config.Credentials
	provider provider.BarProvider
	notifier notify.Notifier
	journal  journal.Journal
}

// analysisSetup wires only what offline analysis needs: the configured
// bar provider, a log notifier and no journal.
func analysisSetup() (*runtime, error) {
	log := newLogger()

	cfg, err := config.ReadFromFile(cfgPath)
	if err != nil {
		return nil, err
	}

	creds, err := config.LoadCredentials(live)
	if err != nil {
		return nil, err
	}

	p, err := provider.Create(log, *cfg, creds)
	if err != nil {
		return nil, err
	}

	return &runtime{
		log:      log,
		cfg:      *cfg,
		creds:    creds,
		provider: p,
		notifier: notify.NewLogNotifier(log),
		journal:  journal.Noop{},
	}, nil
}

// setup extends analysisSetup with the configured notifier and journal
// for commands that dispatch signals.
func setup() (*runtime, error) {
	r, err := analysisSetup()
	if err != nil {
		return nil, err
	}

	n, err := notify.Create(r.log, r.cfg, r.creds)
	if err != nil {
		return nil, err
	}

	j, err := journal.Create(r.cfg)
	if err != nil {
		return nil, err
	}

	r.notifier = n
	r.journal = j
	return r, nil
}

func (r *runtime) Close() error {
	return r.journal.Close()
}

func (r *runtime) mode() string {
	if live {
		return agent.ModeLive
	}
	return agent.ModeSandbox
}

// signalAgent wires an agent that notifies and journals but never
// touches the brokerage.
func (r *runtime) signalAgent() *agent.Agent {
	return agent.New(r.cfg, r.mode(), r.provider, r.notifier, r.journal, nil, r.log)
}

// tradingAgent adds the brokerage when order execution is enabled.
func (r *runtime) tradingAgent() *agent.Agent {
	if !r.cfg.Live.Execute {
		return r.signalAgent()
	}

	b := broker.NewAlpacaBroker(r.creds, r.log)
	return agent.New(r.cfg, r.mode(), r.provider, r.notifier, r.journal, b, r.log)
}
