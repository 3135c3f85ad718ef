package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScheduler()
	c.normalizeCapture()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.RecordingsDir, err = expandPath(c.Paths.RecordingsDir); err != nil {
		return fmt.Errorf("paths.recordings_dir: %w", err)
	}
	if c.Paths.ProgramsDir, err = expandPath(c.Paths.ProgramsDir); err != nil {
		return fmt.Errorf("paths.programs_dir: %w", err)
	}
	if c.Paths.ChannelsFile, err = expandPath(c.Paths.ChannelsFile); err != nil {
		return fmt.Errorf("paths.channels_file: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeScheduler() {
	c.Scheduler.PrincipalSubscription = strings.TrimSpace(c.Scheduler.PrincipalSubscription)
	if c.Scheduler.PrincipalSubscription == "" {
		c.Scheduler.PrincipalSubscription = defaultPrincipalSubscription
	}
}

func (c *Config) normalizeCapture() {
	c.Capture.Binary = strings.TrimSpace(c.Capture.Binary)
	if c.Capture.Binary == "" {
		c.Capture.Binary = defaultCaptureBinary
	}
	if len(c.Capture.RetryDelaysSeconds) == 0 {
		c.Capture.RetryDelaysSeconds = defaultRetryDelays()
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
