package config

import (
	"fmt"
	"log/slog"
	"strings"

	"ledger/internal/domain"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Ledger LedgerConfig
	Log    LogConfig
	HTTP   HTTPConfig
}

type LedgerConfig struct {
	Agency string `env:"LEDGER_AGENCY" env-default:"0001"`
	// Decimal text, e.g. "500" or "250.50".
	WithdrawalLimit      string `env:"LEDGER_WITHDRAWAL_LIMIT" env-default:"500"`
	WithdrawalCountLimit int    `env:"LEDGER_WITHDRAWAL_COUNT_LIMIT" env-default:"3"`
	SigningKey           string `env:"LEDGER_SIGNING_KEY" env-default:"ledger-dev-key"`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" env-default:"info"`
}

type HTTPConfig struct {
	Addr        string `env:"HTTP_ADDR" env-default:":8080"`
	MetricsAddr string `env:"METRICS_ADDR" env-default:":9090"`
}

func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Ledger.Agency) == "" {
		return fmt.Errorf("LEDGER_AGENCY must not be empty")
	}
	if _, err := c.Ledger.Limits(); err != nil {
		return err
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// Limits parses the configured withdrawal caps.
func (c LedgerConfig) Limits() (domain.Limits, error) {
	perTx, err := decimal.NewFromString(strings.TrimSpace(c.WithdrawalLimit))
	if err != nil {
		return domain.Limits{}, fmt.Errorf("LEDGER_WITHDRAWAL_LIMIT: %w", err)
	}
	if !perTx.IsPositive() {
		return domain.Limits{}, fmt.Errorf("LEDGER_WITHDRAWAL_LIMIT must be positive, got %s", perTx)
	}
	if c.WithdrawalCountLimit < 0 {
		return domain.Limits{}, fmt.Errorf("LEDGER_WITHDRAWAL_COUNT_LIMIT must not be negative, got %d", c.WithdrawalCountLimit)
	}
	return domain.Limits{PerTransaction: perTx, WithdrawalCount: c.WithdrawalCountLimit}, nil
}

func (c LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}
