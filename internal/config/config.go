package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Strategy    Strategy          `yaml:"strategy"`
	ProviderRef ProviderReference `yaml:"provider"`
	NotifierRef NotifierReference `yaml:"notifier"`
	JournalRef  JournalReference  `yaml:"journal"`
	Scan        Scan              `yaml:"scan"`
	Live        Live              `yaml:"live"`
	Report      Report            `yaml:"report"`
}

func Read(r io.Reader) (*Config, error) {
	cfg := Config{
		Strategy: Strategy{
			EmaSpan:        20,
			SmaWindow:      40,
			SlopeWindow:    6,
			InitialCapital: 10000,
			LookbackDays:   365,
			BufferDays:     60,
		},
		Scan: Scan{MaxParallel: 4},
		Live: Live{
			Reenter:         true,
			PositionSizePct: 50,
		},
	}

	d := yaml.NewDecoder(r)
	err := d.Decode(&cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

func (c *Config) validate() error {
	s := c.Strategy
	if s.EmaSpan < 2 {
		return fmt.Errorf("strategy.ema_span must be at least 2, got %d", s.EmaSpan)
	}
	if s.SmaWindow < 2 {
		return fmt.Errorf("strategy.sma_window must be at least 2, got %d", s.SmaWindow)
	}
	if s.SlopeWindow < 1 {
		return fmt.Errorf("strategy.slope_window must be at least 1, got %d", s.SlopeWindow)
	}
	if s.InitialCapital <= 0 {
		return fmt.Errorf("strategy.initial_capital must be positive, got %v", s.InitialCapital)
	}
	if s.CommissionPct < 0 {
		return fmt.Errorf("strategy.commission_pct cannot be negative, got %v", s.CommissionPct)
	}
	if s.LookbackDays < 1 {
		return fmt.Errorf("strategy.lookback_days must be at least 1, got %d", s.LookbackDays)
	}
	if s.BufferDays < 0 {
		return fmt.Errorf("strategy.buffer_days cannot be negative, got %d", s.BufferDays)
	}

	if c.Scan.MaxParallel < 1 {
		return fmt.Errorf("scan.max_parallel must be at least 1, got %d", c.Scan.MaxParallel)
	}

	l := c.Live
	if l.PositionSizePct <= 0 || l.PositionSizePct > 100 {
		return fmt.Errorf("live.position_size_pct must be within (0, 100], got %v", l.PositionSizePct)
	}
	if l.ProfitTargetPct < 0 {
		return fmt.Errorf("live.profit_target_pct cannot be negative, got %v", l.ProfitTargetPct)
	}

	return nil
}

type Strategy struct {
	EmaSpan        int     `yaml:"ema_span"`
	SmaWindow      int     `yaml:"sma_window"`
	SlopeWindow    int     `yaml:"slope_window"`
	InitialCapital float64 `yaml:"initial_capital"`
	CommissionPct  float64 `yaml:"commission_pct"`
	LookbackDays   int     `yaml:"lookback_days"`
	BufferDays     int     `yaml:"buffer_days"`
}

type Scan struct {
	TickersFile string   `yaml:"tickers_file"`
	Tickers     []string `yaml:"tickers"`
	MaxParallel int      `yaml:"max_parallel"`
}

// Live controls the single ticker trading run. Execute gates real
// orders; with it off the run still notifies and journals. A zero
// ProfitTargetPct disables the partial take profit check.
type Live struct {
	Execute         bool    `yaml:"execute"`
	Reenter         bool    `yaml:"reenter"`
	PositionSizePct float64 `yaml:"position_size_pct"`
	ProfitTargetPct float64 `yaml:"profit_target_pct"`
	MacdExit        bool    `yaml:"macd_exit"`
}

type Report struct {
	File     string `yaml:"file"`
	ChartDir string `yaml:"chart_dir"`
}

// provider configs

type Provider interface{}

type ProviderReference struct {
	Provider Provider
}

type Alpaca struct {
	BaseUrl string `yaml:"base_url"`
	Feed    string `yaml:"feed"`
}

type Csv struct {
	Dir string `yaml:"dir"`
}

func (w *ProviderReference) UnmarshalYAML(value *yaml.Node) error {
	if len(value.Content) == 0 {
		return nil
	}

	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return errors.New("invalid provider yaml format")
	}

	key := value.Content[0].Value
	switch key {
	case "alpaca":
		var alpaca Alpaca
		if err := value.Content[1].Decode(&alpaca); err != nil {
			return fmt.Errorf("failed parsing Alpaca provider config: %w", err)
		}
		w.Provider = alpaca
	case "csv":
		var csv Csv
		if err := value.Content[1].Decode(&csv); err != nil {
			return fmt.Errorf("failed parsing csv provider config: %w", err)
		}
		w.Provider = csv
	default:
		return fmt.Errorf("unknown provider type: %s", key)
	}

	return nil
}

// notifier configs

type Notifier interface{}

type NotifierReference struct {
	Notifier Notifier
}

type Telegram struct{}

type Log struct{}

func (w *NotifierReference) UnmarshalYAML(value *yaml.Node) error {
	if len(value.Content) == 0 {
		return nil
	}

	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return errors.New("invalid notifier yaml format")
	}

	key := value.Content[0].Value
	switch key {
	case "telegram":
		w.Notifier = Telegram{}
	case "log":
		w.Notifier = Log{}
	default:
		return fmt.Errorf("unknown notifier type: %s", key)
	}

	return nil
}

// journal configs

type Journal interface{}

type JournalReference struct {
	Journal Journal
}

type Sqlite struct {
	Path string `yaml:"path"`
}

type CsvJournal struct {
	Path string `yaml:"path"`
}

func (w *JournalReference) UnmarshalYAML(value *yaml.Node) error {
	if len(value.Content) == 0 {
		return nil
	}

	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return errors.New("invalid journal yaml format")
	}

	key := value.Content[0].Value
	switch key {
	case "sqlite":
		var sqlite Sqlite
		if err := value.Content[1].Decode(&sqlite); err != nil {
			return fmt.Errorf("failed parsing sqlite journal config: %w", err)
		}
		w.Journal = sqlite
	case "csv":
		var csv CsvJournal
		if err := value.Content[1].Decode(&csv); err != nil {
			return fmt.Errorf("failed parsing csv journal config: %w", err)
		}
		w.Journal = csv
	default:
		return fmt.Errorf("unknown journal type: %s", key)
	}

	return nil
}
