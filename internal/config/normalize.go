package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeScan(); err != nil {
		return err
	}
	c.normalizeTMDB()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeScan() error {
	roots := make([]string, 0, len(c.Scan.Roots))
	seen := make(map[string]struct{}, len(c.Scan.Roots))
	for _, root := range c.Scan.Roots {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		expanded, err := expandPath(root)
		if err != nil {
			return fmt.Errorf("scan.roots: %w", err)
		}
		if _, dup := seen[expanded]; dup {
			continue
		}
		seen[expanded] = struct{}{}
		roots = append(roots, expanded)
	}
	c.Scan.Roots = roots

	if len(c.Scan.VideoExtensions) == 0 {
		c.Scan.VideoExtensions = defaultVideoExtensions()
	}
	exts := make([]string, 0, len(c.Scan.VideoExtensions))
	for _, ext := range c.Scan.VideoExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	c.Scan.VideoExtensions = exts

	if strings.TrimSpace(c.Scan.FFprobeBinary) == "" {
		c.Scan.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Scan.ProbeTimeoutSeconds <= 0 {
		c.Scan.ProbeTimeoutSeconds = defaultProbeTimeoutSeconds
	}
	return nil
}

func (c *Config) normalizeTMDB() {
	// The environment override keeps API keys out of config files; this is
	// the only place cinebox consults the process environment.
	if key := strings.TrimSpace(os.Getenv("CINEBOX_TMDB_API_KEY")); key != "" {
		c.TMDB.APIKey = key
	}
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	c.TMDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.TMDB.BaseURL), "/")
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	if c.TMDB.RequestTimeoutSeconds <= 0 {
		c.TMDB.RequestTimeoutSeconds = defaultRequestTimeout
	}
	if c.TMDB.RetryAttempts <= 0 {
		c.TMDB.RetryAttempts = defaultRetryAttempts
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
