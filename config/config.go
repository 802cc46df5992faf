package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"moloch_dao/contract/dao"
	"moloch_dao/sdk"
)

const EnvPrefix = "MOLOCH"

// Store drivers understood by the replay host.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

var (
	ErrInvalidStoreDriver = errors.New("store.driver must be one of memory, file, sqlite or postgres")
	ErrMissingStoreDSN    = errors.New("store.dsn is required for the selected driver")
	ErrInvalidLogLevel    = errors.New("log.level must be one of trace, debug, info, warn or error")
	ErrInvalidAmount      = errors.New("invalid u128 amount")
	ErrInvalidNumber      = errors.New("invalid number")
)

type Config struct {
	LogLevel    string
	StoreDriver string
	StoreDSN    string
	MetricsAddr string
	DAO         dao.Params
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("store.driver", StoreMemory)
	v.SetDefault("store.dsn", "")
	v.SetDefault("metrics.addr", "")

	// one second periods, meant for local replays
	v.SetDefault("dao.summoner", "")
	v.SetDefault("dao.token", "")
	v.SetDefault("dao.period_duration", uint64(1_000_000_000))
	v.SetDefault("dao.voting_period_length", 3)
	v.SetDefault("dao.grace_period_length", 1)
	v.SetDefault("dao.abort_window", 2)
	v.SetDefault("dao.proposal_deposit", "2000000000000000000000000")
	v.SetDefault("dao.dilution_bound", "2")
	v.SetDefault("dao.processing_reward", "1")
}

// Load reads defaults, then the optional yaml file at path, then MOLOCH_*
// environment variables. An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		LogLevel:    strings.ToLower(strings.TrimSpace(v.GetString("log.level"))),
		StoreDriver: strings.ToLower(strings.TrimSpace(v.GetString("store.driver"))),
		StoreDSN:    strings.TrimSpace(v.GetString("store.dsn")),
		MetricsAddr: strings.TrimSpace(v.GetString("metrics.addr")),
	}

	var err error
	p := &cfg.DAO
	p.Summoner = sdk.Address(strings.TrimSpace(v.GetString("dao.summoner")))
	p.Token = sdk.Asset(strings.TrimSpace(v.GetString("dao.token")))
	if p.PeriodDuration, err = number(v, "dao.period_duration"); err != nil {
		return nil, err
	}
	if p.VotingPeriodLength, err = number(v, "dao.voting_period_length"); err != nil {
		return nil, err
	}
	if p.GracePeriodLength, err = number(v, "dao.grace_period_length"); err != nil {
		return nil, err
	}
	if p.AbortWindow, err = number(v, "dao.abort_window"); err != nil {
		return nil, err
	}
	if p.ProposalDeposit, err = amount(v, "dao.proposal_deposit"); err != nil {
		return nil, err
	}
	if p.DilutionBound, err = amount(v, "dao.dilution_bound"); err != nil {
		return nil, err
	}
	if p.ProcessingReward, err = amount(v, "dao.processing_reward"); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks host settings. Genesis params are checked by the engine at summon.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	switch c.StoreDriver {
	case StoreMemory:
	case StoreFile, StoreSQLite, StorePostgres:
		if c.StoreDSN == "" {
			return fmt.Errorf("%w: %s", ErrMissingStoreDSN, c.StoreDriver)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStoreDriver, c.StoreDriver)
	}
	return nil
}

// number accepts ints from yaml and decimal strings from the environment.
// Strings are read as plain base 10, so "010" is ten.
func number(v *viper.Viper, key string) (uint64, error) {
	raw := v.Get(key)
	if s, ok := raw.(string); ok {
		s = strings.TrimSpace(s)
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w for %s: %q", ErrInvalidNumber, key, s)
		}
		return n, nil
	}
	n, err := cast.ToUint64E(raw)
	if err != nil {
		return 0, fmt.Errorf("%w for %s: %v", ErrInvalidNumber, key, err)
	}
	return n, nil
}

// amount goes through the string form so values above 2^64 survive.
func amount(v *viper.Viper, key string) (dao.U128, error) {
	s, err := cast.ToStringE(v.Get(key))
	if err != nil {
		return dao.U128{}, fmt.Errorf("%w for %s: %v", ErrInvalidAmount, key, err)
	}
	u, err := dao.U128FromDecimal(strings.TrimSpace(s))
	if err != nil {
		return dao.U128{}, fmt.Errorf("%w for %s: %v", ErrInvalidAmount, key, err)
	}
	return u, nil
}
