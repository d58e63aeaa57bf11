package scheduler

import (
	"time"
)

// Config controls scheduler cadences and batch behavior.
type Config struct {
	RunInterval         time.Duration
	DemandInterval      time.Duration
	UtilizationInterval time.Duration
	RetentionInterval   time.Duration
	SnapshotRetention   time.Duration
	JobTimeout          time.Duration
	LockTTL             time.Duration
	BatchSize           int
	EnabledJobs         []string
}

func DefaultConfig() Config {
	return Config{
		RunInterval:         time.Minute,
		DemandInterval:      15 * time.Minute,
		UtilizationInterval: 24 * time.Hour,
		RetentionInterval:   24 * time.Hour,
		SnapshotRetention:   90 * 24 * time.Hour,
		JobTimeout:          30 * time.Second,
		LockTTL:             5 * time.Minute,
		BatchSize:           50,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.DemandInterval <= 0 {
		c.DemandInterval = defaults.DemandInterval
	}
	if c.UtilizationInterval <= 0 {
		c.UtilizationInterval = defaults.UtilizationInterval
	}
	if c.RetentionInterval <= 0 {
		c.RetentionInterval = defaults.RetentionInterval
	}
	if c.SnapshotRetention <= 0 {
		c.SnapshotRetention = defaults.SnapshotRetention
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	if c.LockTTL <= 0 {
		c.LockTTL = defaults.LockTTL
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaults.BatchSize
	}
	return c
}
