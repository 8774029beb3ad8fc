package config

import (
	"errors"
	"fmt"
)

// Validate checks the settings every command relies on. API keys are checked
// where the corresponding client is built, so commands that do not need them
// (e.g. "cost summary") still run without them.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be 'postgres' or 'sqlite', got '%s'", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}

	if c.YouTube.Timeout <= 0 {
		return errors.New("youtube.timeout must be positive")
	}
	if c.YouTube.RequestsPerSecond < 0 {
		return errors.New("youtube.requests_per_second must not be negative")
	}

	switch c.Categorization.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("categorization.provider must be 'openai' or 'gemini', got '%s'", c.Categorization.Provider)
	}
	if c.Categorization.Model == "" {
		return errors.New("categorization.model is required")
	}
	if c.Categorization.PageSize <= 0 || c.Categorization.PageSize > 50 {
		// 50 is the Data API's maxResults ceiling.
		return fmt.Errorf("categorization.page_size (%d) must be between 1 and 50", c.Categorization.PageSize)
	}
	if c.Categorization.Concurrency <= 0 {
		return errors.New("categorization.concurrency must be a positive integer")
	}
	if c.Categorization.ClassifyTimeout <= 0 {
		return errors.New("categorization.classify_timeout must be positive")
	}

	for provider, models := range c.Pricing {
		for model, price := range models {
			if price.InputPerToken < 0 || price.OutputPerToken < 0 {
				return fmt.Errorf("pricing for provider '%s', model '%s' has negative token cost", provider, model)
			}
		}
	}

	return nil
}
