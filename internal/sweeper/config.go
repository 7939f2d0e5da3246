package sweeper

import "time"

type Config struct {
	// PollInterval is how often the sweep loop wakes up.
	PollInterval time.Duration
	// RunTimeout bounds a single sweep run.
	RunTimeout time.Duration
	// SnapshotEvery is the cadence of the portfolio snapshot series.
	SnapshotEvery time.Duration
	// LockTTL bounds how long the sweep lock is held.
	LockTTL time.Duration
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = 15 * time.Minute
	}
	if c.RunTimeout <= 0 {
		c.RunTimeout = 5 * time.Minute
	}
	if c.SnapshotEvery <= 0 {
		c.SnapshotEvery = 7 * 24 * time.Hour
	}
	if c.LockTTL <= 0 {
		c.LockTTL = 10 * time.Minute
	}
	return c
}
