package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// SweepConfig holds operational thresholds for the escalation and snapshot sweeps.
// The scoring formulas themselves are fixed; only sweep knobs are tunable.
type SweepConfig struct {
	// BlacklistThreshold is the minimum risk score that triggers auto-escalation.
	BlacklistThreshold int `mapstructure:"blacklistThreshold"`
	// LeaderboardSize caps the weekly engagement ranking.
	LeaderboardSize int `mapstructure:"leaderboardSize"`
	// FeedSize caps the public activity feed.
	FeedSize int `mapstructure:"feedSize"`
}

func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		BlacklistThreshold: 70,
		LeaderboardSize:    10,
		FeedSize:           50,
	}
}

type SweepConfigHolder struct {
	current atomic.Value // holds SweepConfig
}

// NewSweepConfigHolder loads sweep.yml and keeps it hot-reloaded on file change.
// A missing config file falls back to defaults.
func NewSweepConfigHolder() (*SweepConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("sweep")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/latewatch/config")
	v.AddConfigPath("/etc/latewatch")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LATEWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultSweepConfig()
	v.SetDefault("sweep.blacklistThreshold", defaults.BlacklistThreshold)
	v.SetDefault("sweep.leaderboardSize", defaults.LeaderboardSize)
	v.SetDefault("sweep.feedSize", defaults.FeedSize)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg SweepConfig
	if err := v.UnmarshalKey("sweep", &cfg); err != nil {
		return nil, err
	}
	if err := validateSweepConfig(cfg); err != nil {
		return nil, err
	}

	holder := &SweepConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated SweepConfig
		if err := v.UnmarshalKey("sweep", &updated); err != nil {
			log.Printf("[sweep-config] reload failed: %v", err)
			return
		}
		if err := validateSweepConfig(updated); err != nil {
			log.Printf("[sweep-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[sweep-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticSweepConfigHolder wraps a fixed config, for tests and embedding callers.
func NewStaticSweepConfigHolder(cfg SweepConfig) *SweepConfigHolder {
	holder := &SweepConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *SweepConfigHolder) Get() SweepConfig {
	return h.current.Load().(SweepConfig)
}

func validateSweepConfig(cfg SweepConfig) error {
	if cfg.BlacklistThreshold < 0 || cfg.BlacklistThreshold > 100 {
		return errors.New("sweep.blacklistThreshold must be within [0,100]")
	}
	if cfg.LeaderboardSize <= 0 {
		return errors.New("sweep.leaderboardSize must be positive")
	}
	if cfg.FeedSize <= 0 {
		return errors.New("sweep.feedSize must be positive")
	}
	return nil
}
