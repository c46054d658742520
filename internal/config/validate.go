package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if c.TMDB.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/cinebox/config.toml"
		}
		return fmt.Errorf("tmdb.api_key is required. Set CINEBOX_TMDB_API_KEY or edit %s (create with 'cinebox config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateScan() error {
	if len(c.Scan.VideoExtensions) == 0 {
		return errors.New("scan.video_extensions must not be empty")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
}
