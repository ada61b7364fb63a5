package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable. A missing YouTube API key is
// not a validation error; commands that call the API check it with
// RequireYouTubeKey.
func (c *Config) Validate() error {
	if err := c.validateYouTube(); err != nil {
		return err
	}
	if err := c.validateLyrics(); err != nil {
		return err
	}
	if err := c.validateFilter(); err != nil {
		return err
	}
	if err := c.validateIngest(); err != nil {
		return err
	}
	if c.Notifications.NtfyTopic != "" {
		if err := validateHTTPURL("notifications.ntfy_topic", c.Notifications.NtfyTopic); err != nil {
			return err
		}
	}
	return c.validateLogging()
}

func (c *Config) validateYouTube() error {
	if err := validateHTTPURL("youtube.base_url", c.YouTube.BaseURL); err != nil {
		return err
	}
	switch c.YouTube.TextFormat {
	case "plainText", "html":
	default:
		return fmt.Errorf("youtube.text_format must be plainText or html, got %q", c.YouTube.TextFormat)
	}
	if c.YouTube.MaxRetries > 10 {
		return errors.New("youtube.max_retries must be between 0 and 10")
	}
	return nil
}

func (c *Config) validateLyrics() error {
	if err := validateHTTPURL("lyrics.base_url", c.Lyrics.BaseURL); err != nil {
		return err
	}
	if c.Lyrics.RedisURL != "" {
		parsed, err := url.Parse(c.Lyrics.RedisURL)
		if err != nil || (parsed.Scheme != "redis" && parsed.Scheme != "rediss") {
			return fmt.Errorf("lyrics.redis_url must be a redis:// or rediss:// URL, got %q", c.Lyrics.RedisURL)
		}
	}
	return nil
}

func (c *Config) validateFilter() error {
	if c.Filter.SimilarityThreshold <= 0 || c.Filter.SimilarityThreshold > 1 {
		return errors.New("filter.similarity_threshold must be greater than 0 and at most 1")
	}
	return nil
}

func (c *Config) validateIngest() error {
	if c.Ingest.MaxComments < 0 {
		return errors.New("ingest.max_comments must be positive")
	}
	if c.Ingest.PageDelaySeconds < 0 {
		return errors.New("ingest.page_delay_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}

func validateHTTPURL(key, value string) error {
	parsed, err := url.Parse(strings.TrimSpace(value))
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("%s must be an http(s) URL, got %q", key, value)
	}
	return nil
}
