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
	c.normalizeYouTube()
	c.normalizeLyrics()
	if err := c.normalizeFilter(); err != nil {
		return err
	}
	c.normalizeIngest()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeYouTube() {
	c.YouTube.APIKey = strings.TrimSpace(c.YouTube.APIKey)
	if c.YouTube.APIKey == "" {
		if value, ok := os.LookupEnv("YOUTUBE_API_KEY"); ok {
			c.YouTube.APIKey = strings.TrimSpace(value)
		}
	}
	c.YouTube.BaseURL = strings.TrimRight(strings.TrimSpace(c.YouTube.BaseURL), "/")
	if c.YouTube.BaseURL == "" {
		c.YouTube.BaseURL = defaultYouTubeBaseURL
	}
	c.YouTube.PlaylistID = strings.TrimSpace(c.YouTube.PlaylistID)
	switch strings.ToLower(strings.TrimSpace(c.YouTube.TextFormat)) {
	case "html":
		c.YouTube.TextFormat = "html"
	case "", "plaintext":
		c.YouTube.TextFormat = defaultYouTubeTextFormat
	}
	if c.YouTube.RequestsPerSecond <= 0 {
		c.YouTube.RequestsPerSecond = defaultYouTubeRequestsPerSec
	}
	if c.YouTube.MaxRetries < 0 {
		c.YouTube.MaxRetries = 0
	}
	if c.YouTube.TimeoutSeconds <= 0 {
		c.YouTube.TimeoutSeconds = defaultYouTubeTimeoutSeconds
	}
}

func (c *Config) normalizeLyrics() {
	c.Lyrics.BaseURL = strings.TrimRight(strings.TrimSpace(c.Lyrics.BaseURL), "/")
	if c.Lyrics.BaseURL == "" {
		c.Lyrics.BaseURL = defaultLyricsBaseURL
	}
	if c.Lyrics.TimeoutSeconds <= 0 {
		c.Lyrics.TimeoutSeconds = defaultLyricsTimeoutSeconds
	}
	c.Lyrics.RedisURL = strings.TrimSpace(c.Lyrics.RedisURL)
	if c.Lyrics.RedisURL == "" {
		if value, ok := os.LookupEnv("TUNETALK_REDIS_URL"); ok {
			c.Lyrics.RedisURL = strings.TrimSpace(value)
		}
	}
	if c.Lyrics.RedisTTLHours < 0 {
		c.Lyrics.RedisTTLHours = 0
	}
}

func (c *Config) normalizeFilter() error {
	if len(c.Filter.Keywords) > 0 {
		keywords := make([]string, 0, len(c.Filter.Keywords))
		seen := make(map[string]struct{}, len(c.Filter.Keywords))
		for _, keyword := range c.Filter.Keywords {
			normalized := strings.ToLower(strings.TrimSpace(keyword))
			if normalized == "" {
				continue
			}
			if _, exists := seen[normalized]; exists {
				continue
			}
			seen[normalized] = struct{}{}
			keywords = append(keywords, normalized)
		}
		c.Filter.Keywords = keywords
	}
	if strings.TrimSpace(c.Filter.VocabularyPath) != "" {
		var err error
		if c.Filter.VocabularyPath, err = expandPath(strings.TrimSpace(c.Filter.VocabularyPath)); err != nil {
			return fmt.Errorf("filter.vocabulary_path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeIngest() {
	if c.Ingest.MaxComments == 0 {
		c.Ingest.MaxComments = defaultMaxComments
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeoutSeconds <= 0 {
		c.Notifications.RequestTimeoutSeconds = defaultNtfyTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
