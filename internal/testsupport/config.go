package testsupport

import (
	"path/filepath"
	"testing"

	"tunetalk/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Remote calls are disabled by default: page delays are zero and the
// YouTube key is a dummy value.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.YouTube.APIKey = "test"
	cfgVal.Paths.OutputDir = filepath.Join(base, "comments")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Ingest.PageDelaySeconds = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithYouTubeKey sets the YouTube API key on the test config.
func WithYouTubeKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.YouTube.APIKey = key
	}
}

// WithYouTubeBaseURL points the YouTube client at a fake server.
func WithYouTubeBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.YouTube.BaseURL = url
		b.cfg.YouTube.RequestsPerSecond = 0
	}
}

// WithLyricsBaseURL points the lyrics client at a fake server.
func WithLyricsBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Lyrics.BaseURL = url
	}
}

// WithMaxComments overrides the per-video admitted-comment cap.
func WithMaxComments(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ingest.MaxComments = n
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
