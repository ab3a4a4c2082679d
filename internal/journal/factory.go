package journal

import (
	"errors"

	"github.com/gamma-omg/trend-bot/internal/config"
)

// Create builds the configured journal. An absent journal section means
// trades are not persisted anywhere.
func Create(cfg config.Config) (Journal, error) {
	sqliteCfg, ok := cfg.JournalRef.Journal.(config.Sqlite)
	if ok {
		return NewSqlite(sqliteCfg.Path)
	}

	csvCfg, ok := cfg.JournalRef.Journal.(config.CsvJournal)
	if ok {
		return NewCsv(csvCfg.Path), nil
	}

	if cfg.JournalRef.Journal == nil {
		return Noop{}, nil
	}

	return nil, errors.New("unknown journal")
}
