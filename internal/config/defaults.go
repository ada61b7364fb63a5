package config

const (
	defaultConfigPath            = "~/.config/tunetalk/config.toml"
	defaultOutputDir             = "comments"
	defaultStateDir              = "~/.local/share/tunetalk"
	defaultLogDir                = "~/.local/share/tunetalk/logs"
	defaultYouTubeBaseURL        = "https://www.googleapis.com/youtube/v3"
	defaultYouTubeTextFormat     = "plainText"
	defaultYouTubeRequestsPerSec = 5.0
	defaultYouTubeMaxRetries     = 3
	defaultYouTubeTimeoutSeconds = 30
	defaultLyricsBaseURL         = "https://api.lyrics.ovh"
	defaultLyricsTimeoutSeconds  = 15
	defaultLyricsRedisTTLHours   = 24 * 30
	defaultSimilarityThreshold   = 0.8
	defaultMaxComments           = 100
	defaultPageDelaySeconds      = 2
	defaultNtfyTimeoutSeconds    = 10
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			StateDir:  defaultStateDir,
			LogDir:    defaultLogDir,
		},
		YouTube: YouTube{
			BaseURL:           defaultYouTubeBaseURL,
			TextFormat:        defaultYouTubeTextFormat,
			RequestsPerSecond: defaultYouTubeRequestsPerSec,
			MaxRetries:        defaultYouTubeMaxRetries,
			TimeoutSeconds:    defaultYouTubeTimeoutSeconds,
		},
		Lyrics: Lyrics{
			BaseURL:        defaultLyricsBaseURL,
			TimeoutSeconds: defaultLyricsTimeoutSeconds,
			RedisTTLHours:  defaultLyricsRedisTTLHours,
		},
		Filter: Filter{
			SimilarityThreshold: defaultSimilarityThreshold,
		},
		Ingest: Ingest{
			MaxComments:      defaultMaxComments,
			PageDelaySeconds: defaultPageDelaySeconds,
		},
		Notifications: Notifications{
			RequestTimeoutSeconds: defaultNtfyTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
