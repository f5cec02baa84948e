package config

import (
	"database/sql"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LedgerConfig controls how workflows run their unit of work.
type LedgerConfig struct {
	Isolation      sql.IsolationLevel
	RetryAttempts  int
	RetryBaseDelay time.Duration
	Events         EventsConfig
}

// EventsConfig selects where committed postings are announced.
type EventsConfig struct {
	Driver       string
	Topic        string
	KafkaBrokers []string
}

func LoadLedgerConfig() *LedgerConfig {
	return &LedgerConfig{
		Isolation:      getIsolation("ledger_isolation", sql.LevelSerializable),
		RetryAttempts:  getInt("ledger_retry_attempts", 3),
		RetryBaseDelay: getDuration("ledger_retry_base_delay", 50*time.Millisecond),
		Events: EventsConfig{
			Driver:       viper.GetString(setting("events_driver", "none")),
			Topic:        viper.GetString(setting("events_topic", "ledger.posted")),
			KafkaBrokers: getList("kafka_brokers"),
		},
	}
}

var isolationLevels = map[string]sql.IsolationLevel{
	"read_committed":  sql.LevelReadCommitted,
	"repeatable_read": sql.LevelRepeatableRead,
	"serializable":    sql.LevelSerializable,
}

func getIsolation(key string, def sql.IsolationLevel) sql.IsolationLevel {
	if level, ok := isolationLevels[strings.ToLower(viper.GetString(setting(key, "serializable")))]; ok {
		return level
	}
	return def
}
