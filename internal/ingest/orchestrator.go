package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"tunetalk/internal/admission"
	"tunetalk/internal/ledger"
	"tunetalk/internal/logging"
	"tunetalk/internal/lyrics"
	"tunetalk/internal/notifications"
	"tunetalk/internal/table"
	"tunetalk/internal/youtube"
)

// ErrLocked is returned when another run holds the output directory lock.
var ErrLocked = errors.New("another tunetalk ingest is already running")

// Source lists playlists and pages through comment threads.
type Source interface {
	ListPlaylist(ctx context.Context, playlistID string) ([]youtube.Video, error)
	CommentThreads(videoID string) *youtube.Pager[youtube.Comment]
}

// Corpus returns reference lines for a title. An empty result disables
// similarity suppression for that video.
type Corpus interface {
	Lines(ctx context.Context, title, performer string) []string
}

// Recorder persists per-video outcomes.
type Recorder interface {
	Record(ctx context.Context, entry ledger.Entry) error
}

// Orchestrator runs the per-video ingestion state machine.
type Orchestrator struct {
	source      Source
	corpus      Corpus
	policy      *admission.Policy
	tables      *table.Store
	recorder    Recorder
	notifier    notifications.Service
	logger      *slog.Logger
	maxComments int
	pageDelay   time.Duration
	sleep       func(context.Context, time.Duration) error
	lockPath    string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRecorder records each video's terminal state (typically a ledger.Store).
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// WithNotifier publishes run results. Runs that only skipped videos are not
// announced.
func WithNotifier(n notifications.Service) Option {
	return func(o *Orchestrator) { o.notifier = n }
}

// WithLogger sets the orchestrator logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMaxComments caps admitted comments per video. Non-positive means no cap.
func WithMaxComments(n int) Option {
	return func(o *Orchestrator) { o.maxComments = n }
}

// WithPageDelay sets the pause between comment pages.
func WithPageDelay(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d >= 0 {
			o.pageDelay = d
		}
	}
}

// WithSleep replaces the context-aware sleep used between pages.
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(o *Orchestrator) {
		if sleep != nil {
			o.sleep = sleep
		}
	}
}

// WithLockPath enables the single-instance lock for RunPlaylist.
func WithLockPath(path string) Option {
	return func(o *Orchestrator) { o.lockPath = strings.TrimSpace(path) }
}

// New constructs an Orchestrator.
func New(source Source, corpus Corpus, policy *admission.Policy, tables *table.Store, opts ...Option) (*Orchestrator, error) {
	if source == nil || policy == nil || tables == nil {
		return nil, errors.New("ingest: source, policy, and table store are required")
	}
	o := &Orchestrator{
		source:      source,
		corpus:      corpus,
		policy:      policy,
		tables:      tables,
		logger:      logging.NewNop(),
		maxComments: 100,
		pageDelay:   2 * time.Second,
		sleep:       youtube.SleepWithContext,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = logging.NewComponentLogger(o.logger, "ingest")
	return o, nil
}

// RunPlaylist ingests every video of playlistID in playlist order. A listing
// failure or cancellation is returned as an error; per-video failures are
// reported in the summary only.
func (o *Orchestrator) RunPlaylist(ctx context.Context, playlistID string) (Summary, error) {
	summary := Summary{PlaylistID: playlistID}

	unlock, err := o.acquireLock()
	if err != nil {
		return summary, err
	}
	defer unlock()

	summary.RunID = uuid.NewString()
	ctx = logging.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, o.logger).With(logging.String(logging.FieldPlaylistID, playlistID))
	start := time.Now()

	videos, err := o.source.ListPlaylist(ctx, playlistID)
	if err != nil {
		logging.ErrorWithContext(logger, "playlist listing failed", "playlist_list_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check youtube.api_key and the playlist id"),
		)
		o.notify(ctx, logger, notifications.EventRunFailed, notifications.Payload{
			"playlist": playlistID,
			"error":    err.Error(),
		})
		return summary, fmt.Errorf("list playlist %s: %w", playlistID, err)
	}
	summary.Videos = len(videos)
	logger.Info("playlist listed",
		logging.String(logging.FieldEventType, "playlist_listed"),
		logging.Int("videos", len(videos)),
	)

	for _, video := range videos {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		result := o.ProcessVideo(ctx, video)
		summary.add(result)
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		o.record(ctx, logger, playlistID, summary.RunID, result)
	}

	logger.Info("ingest complete",
		logging.String(logging.FieldEventType, "ingest_complete"),
		logging.Int("videos", summary.Videos),
		logging.Int("done", summary.Done),
		logging.Int("skipped", summary.Skipped),
		logging.Int("disabled", summary.Disabled),
		logging.Int("failed", summary.Failed),
		logging.Int("admitted", summary.Admitted),
		logging.Elapsed("duration", start),
	)
	if summary.Done+summary.Disabled+summary.Failed > 0 {
		o.notify(ctx, logger, notifications.EventRunCompleted, notifications.Payload{
			"playlist": playlistID,
			"videos":   summary.Videos,
			"done":     summary.Done,
			"skipped":  summary.Skipped,
			"disabled": summary.Disabled,
			"failed":   summary.Failed,
			"admitted": summary.Admitted,
			"duration": time.Since(start),
		})
	}
	return summary, nil
}

func (o *Orchestrator) notify(ctx context.Context, logger *slog.Logger, event notifications.Event, payload notifications.Payload) {
	if o.notifier == nil {
		return
	}
	if err := o.notifier.Publish(ctx, event, payload); err != nil {
		logging.WarnWithContext(logger, "notification failed", "notification_failed",
			logging.String("event", string(event)),
			logging.Error(err),
			logging.String(logging.FieldImpact, "run results were not announced"),
		)
	}
}

// ProcessVideo runs the state machine for one video and returns its
// terminal state.
func (o *Orchestrator) ProcessVideo(ctx context.Context, video youtube.Video) Result {
	ctx = logging.WithVideoID(ctx, video.ID)
	logger := logging.WithContext(ctx, o.logger).With(logging.String(logging.FieldTitle, video.Title))
	result := Result{VideoID: video.ID, Title: video.Title, Table: o.tables.Path(video.Title)}

	if o.tables.Exists(video.Title) {
		result.State = StateSkip
		logger.Info("output already present, skipping",
			logging.Args(logging.DecisionAttrs("resume", "skip", "table exists")...)...,
		)
		return result
	}

	var reference []string
	if o.corpus != nil {
		song, performer := referenceQuery(video)
		reference = o.corpus.Lines(ctx, song, performer)
		logger.Debug("reference corpus ready",
			logging.String("performer", performer),
			logging.String("song", song),
			logging.Int("lines", len(reference)),
		)
	}

	writer, err := o.tables.Begin(video.Title)
	if err != nil {
		return o.fail(logger, result, err, "table_create_failed", "check paths.output_dir permissions")
	}

	rejected := make(map[admission.Reason]int)
	pager := o.source.CommentThreads(video.ID)
	disabled := false
	o.transition(logger, &result, StateFetching)
	for comments, err := range pager.All(ctx) {
		if err != nil {
			if youtube.IsCommentsDisabled(err) {
				disabled = true
				break
			}
			_ = writer.Discard()
			result.Pages = pager.Pages()
			if ctx.Err() != nil {
				result.State = StateFailed
				result.Err = ctx.Err()
				return result
			}
			return o.fail(logger, result, err, "comments_fetch_failed", "check youtube quota and network connectivity")
		}

		o.transition(logger, &result, StateAdmitting)
		batch := o.admit(comments, reference, result.Admitted, &result.Scanned, rejected)

		o.transition(logger, &result, StatePersisting)
		if err := writer.Append(batch); err != nil {
			_ = writer.Discard()
			return o.fail(logger, result, err, "table_write_failed", "check free space in paths.output_dir")
		}
		result.Admitted += len(batch)
		result.Pages = pager.Pages()
		logger.Debug("comment page processed",
			logging.Int("page", pager.Pages()),
			logging.Int("page_comments", len(comments)),
			logging.Int("page_admitted", len(batch)),
			logging.Int("admitted", result.Admitted),
		)

		if o.capReached(result.Admitted) || pager.Done() {
			break
		}
		o.transition(logger, &result, StateFetching)
		if err := o.sleep(ctx, o.pageDelay); err != nil {
			_ = writer.Discard()
			result.State = StateFailed
			result.Err = err
			return result
		}
	}
	result.Pages = pager.Pages()

	if err := writer.Commit(); err != nil {
		return o.fail(logger, result, err, "table_commit_failed", "check paths.output_dir permissions")
	}

	if disabled {
		result.State = StateDisabled
		logger.Info("comments disabled, writing empty table",
			logging.String(logging.FieldOutcome, string(StateDisabled)),
			logging.String(logging.FieldEventType, "comments_disabled"),
		)
		return result
	}

	result.State = StateDone
	attrs := []logging.Attr{
		logging.String(logging.FieldOutcome, string(StateDone)),
		logging.Int("admitted", result.Admitted),
		logging.Int("scanned", result.Scanned),
		logging.Int("pages", result.Pages),
	}
	for _, reason := range []admission.Reason{admission.ReasonMultiline, admission.ReasonNoKeyword, admission.ReasonEcho} {
		if n := rejected[reason]; n > 0 {
			attrs = append(attrs, logging.Int("rejected_"+string(reason), n))
		}
	}
	logger.Info("video complete", logging.Args(attrs...)...)
	return result
}

// admit filters one page. Admission stops once the cap is reached; comments
// after that point are not counted as scanned.
func (o *Orchestrator) admit(comments []youtube.Comment, reference []string, admitted int, scanned *int, rejected map[admission.Reason]int) []table.Row {
	var batch []table.Row
	for _, comment := range comments {
		if o.capReached(admitted + len(batch)) {
			break
		}
		*scanned++
		decision := o.policy.Evaluate(comment.Text, reference)
		if !decision.Admitted {
			rejected[decision.Reason]++
			continue
		}
		batch = append(batch, table.Row{
			Comment:  comment.Text,
			UserName: comment.Author,
			Date:     comment.PublishedAt,
		})
	}
	return batch
}

func (o *Orchestrator) transition(logger *slog.Logger, result *Result, next State) {
	if result.State == next {
		return
	}
	logger.Debug("state transition",
		logging.String("from", string(result.State)),
		logging.String("to", string(next)),
		logging.Int("page", result.Pages),
	)
	result.State = next
}

func (o *Orchestrator) capReached(admitted int) bool {
	return o.maxComments > 0 && admitted >= o.maxComments
}

func (o *Orchestrator) fail(logger *slog.Logger, result Result, err error, eventType, hint string) Result {
	result.State = StateFailed
	result.Err = err
	logging.WarnWithContext(logger, "video abandoned", eventType,
		logging.String(logging.FieldOutcome, string(StateFailed)),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, hint),
	)
	return result
}

func (o *Orchestrator) record(ctx context.Context, logger *slog.Logger, playlistID, runID string, result Result) {
	if o.recorder == nil || result.State == StateSkip {
		return
	}
	entry := ledger.Entry{
		VideoID:    result.VideoID,
		PlaylistID: playlistID,
		Title:      result.Title,
		Outcome:    string(result.State),
		Admitted:   result.Admitted,
		Scanned:    result.Scanned,
		Pages:      result.Pages,
		RunID:      runID,
	}
	if result.Err != nil {
		entry.Error = result.Err.Error()
	}
	if err := o.recorder.Record(ctx, entry); err != nil {
		logger.Warn("ledger write failed",
			logging.String(logging.FieldVideoID, result.VideoID),
			logging.Error(err),
			logging.String(logging.FieldEventType, "ledger_write_failed"),
			logging.String(logging.FieldImpact, "status output may be stale"),
		)
	}
}

func (o *Orchestrator) acquireLock() (func(), error) {
	if o.lockPath == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(o.lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure lock dir: %w", err)
	}
	lock := flock.New(o.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			o.logger.Warn("failed to release ingest lock", logging.String("lock", o.lockPath), logging.Error(err))
		}
	}, nil
}

// referenceQuery derives the lyrics lookup for a video. "Performer - Song"
// titles are split; otherwise auto-generated "<Artist> - Topic" channels
// supply the performer.
func referenceQuery(video youtube.Video) (song, performer string) {
	performer, song = lyrics.SplitTitle(video.Title)
	if performer == "" {
		if artist, ok := strings.CutSuffix(strings.TrimSpace(video.ChannelTitle), " - Topic"); ok {
			performer = strings.TrimSpace(artist)
		}
	}
	return song, performer
}
