package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"tunetalk/internal/admission"
	"tunetalk/internal/config"
	"tunetalk/internal/ingest"
	"tunetalk/internal/ledger"
	"tunetalk/internal/logging"
	"tunetalk/internal/lyrics"
	"tunetalk/internal/notifications"
	"tunetalk/internal/table"
	"tunetalk/internal/youtube"
)

// pipeline bundles the collaborators of one ingest run.
type pipeline struct {
	orchestrator *ingest.Orchestrator
	closers      []func() error
}

func (p *pipeline) Close() {
	for i := len(p.closers) - 1; i >= 0; i-- {
		_ = p.closers[i]()
	}
}

func buildPipeline(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pipeline, error) {
	p := &pipeline{}

	client, err := newYouTubeClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	policy, err := buildPolicy(cfg)
	if err != nil {
		return nil, err
	}
	cache, closeCache, err := buildLyricsCache(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	p.closers = append(p.closers, closeCache)

	store, err := ledger.Open(ctx, cfg.LedgerPath())
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	p.closers = append(p.closers, store.Close)

	p.orchestrator, err = ingest.New(client, cache, policy, table.NewStore(cfg.Paths.OutputDir),
		ingest.WithRecorder(store),
		ingest.WithNotifier(notifications.NewService(cfg)),
		ingest.WithLogger(logger),
		ingest.WithMaxComments(cfg.Ingest.MaxComments),
		ingest.WithPageDelay(cfg.PageDelay()),
		ingest.WithLockPath(cfg.LockPath()),
	)
	if err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

func newYouTubeClient(cfg *config.Config, logger *slog.Logger) (*youtube.Client, error) {
	if err := cfg.RequireYouTubeKey(); err != nil {
		return nil, err
	}
	return youtube.New(cfg.YouTube.APIKey,
		youtube.WithBaseURL(cfg.YouTube.BaseURL),
		youtube.WithTimeout(cfg.YouTubeTimeout()),
		youtube.WithRateLimit(cfg.YouTube.RequestsPerSecond),
		youtube.WithMaxRetries(cfg.YouTube.MaxRetries),
		youtube.WithTextFormat(cfg.YouTube.TextFormat),
		youtube.WithReplies(cfg.YouTube.IncludeReplies),
		youtube.WithLogger(logger),
	)
}

func buildPolicy(cfg *config.Config) (*admission.Policy, error) {
	vocabulary := admission.DefaultVocabulary()
	if path := strings.TrimSpace(cfg.Filter.VocabularyPath); path != "" {
		loaded, err := admission.LoadVocabulary(path)
		if err != nil {
			return nil, err
		}
		vocabulary = loaded
	}
	return admission.NewPolicy(vocabulary.Keywords(cfg.Filter.Keywords...), cfg.Filter.SimilarityThreshold)
}

// buildLyricsCache returns the reference corpus cache. An unreachable Redis
// tier is logged and skipped; lookups then go straight to the lyrics API.
func buildLyricsCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*lyrics.Cache, func() error, error) {
	client, err := lyrics.New(cfg.Lyrics.BaseURL, lyrics.WithTimeout(cfg.LyricsTimeout()))
	if err != nil {
		return nil, nil, err
	}
	closer := func() error { return nil }
	opts := []lyrics.CacheOption{lyrics.WithLogger(logger)}
	if cfg.Lyrics.RedisURL != "" {
		store, err := lyrics.DialRedis(ctx, cfg.Lyrics.RedisURL, cfg.LyricsRedisTTL())
		if err != nil {
			logging.WarnWithContext(logger, "lyrics redis tier unavailable", "lyrics_store_unavailable",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check lyrics.redis_url or unset it"),
				logging.String(logging.FieldImpact, "lyrics are fetched from the API on every run"),
			)
		} else {
			opts = append(opts, lyrics.WithStore(store))
			closer = store.Close
		}
	}
	return lyrics.NewCache(client, opts...), closer, nil
}
