package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScheduler(); err != nil {
		return err
	}
	if err := c.validateCapture(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateScheduler() error {
	if c.Scheduler.PollIntervalSeconds <= 0 {
		return errors.New("scheduler.poll_interval_seconds must be positive")
	}
	return nil
}

func (c *Config) validateCapture() error {
	if c.Capture.GiveUpFloorSeconds <= 0 {
		return errors.New("capture.giveup_floor_seconds must be positive")
	}
	if c.Capture.StabilityThresholdSeconds <= 0 {
		return errors.New("capture.stability_threshold_seconds must be positive")
	}
	for i, delay := range c.Capture.RetryDelaysSeconds {
		if delay < 0 {
			return fmt.Errorf("capture.retry_delays_seconds[%d] must not be negative", i)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
}
