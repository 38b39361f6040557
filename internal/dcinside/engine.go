package dcinside

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Harvester-LALA/CrawlerV2/internal/config"
	"github.com/Harvester-LALA/CrawlerV2/internal/httpclient"
	"github.com/Harvester-LALA/CrawlerV2/internal/logger"
	"github.com/Harvester-LALA/CrawlerV2/internal/repository"
)

// heartbeatInterval paces the liveness log emitted while a run is active.
const heartbeatInterval = 15 * time.Second

// EngineConfig holds the resolved, per-run configuration of the DCInside
// engine. Mode and URLs are resolved once by the caller; the engine never
// re-derives them.
type EngineConfig struct {
	ScenarioID string
	Mode       config.Mode
	// StartURL is the first listing URL of the run.
	StartURL string
	// BaseURL is the host root requests like the comment API are built on.
	BaseURL string
	// DateFrom bounds the walk: rows strictly older stop it. Optional.
	DateFrom *time.Time
	// ExpirationDate bounds the rehydrate phase's backlog rescan. Optional.
	ExpirationDate *time.Time
	// Rehydrate enables refreshing comment counts and threads of recent
	// posts before the search phase.
	Rehydrate bool
}

// Engine is the DCInside crawl engine: one instance drives one run, owns
// the in-run dedup set, and shares nothing with other instances.
type Engine struct {
	cfg       EngineConfig
	client    Client
	repo      repository.Repository
	log       logger.Interface
	seen      *idSet
	stats     *RunStats
	sleep     sleepFunc
	now       func() time.Time
	heartbeat time.Duration
}

// NewEngine constructs an engine for one run.
func NewEngine(cfg EngineConfig, client Client, repo repository.Repository, log logger.Interface) (*Engine, error) {
	if cfg.ScenarioID == "" {
		return nil, errors.New("scenario id is required")
	}
	if cfg.StartURL == "" {
		return nil, errors.New("start url is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = config.DefaultDCHost
	}
	if log == nil {
		log = logger.NewNoOp()
	}

	return &Engine{
		cfg:       cfg,
		client:    client,
		repo:      repo,
		log:       log.WithComponent("dcinside"),
		seen:      newIDSet(),
		stats:     &RunStats{},
		sleep:     jitterSleep,
		now:       time.Now,
		heartbeat: heartbeatInterval,
	}, nil
}

// StartCrawling executes the run: optional rehydrate, listing walk, then
// detail collection of the queued ids in deterministic order. Cancellation
// via ctx is silent; whatever was persisted before it stays persisted.
func (e *Engine) StartCrawling(ctx context.Context) (StatsSnapshot, error) {
	runID := uuid.NewString()
	log := e.log.With("run_id", runID, "scenario_id", e.cfg.ScenarioID, "mode", e.cfg.Mode.String())

	stopHeartbeat := e.startHeartbeat(log)
	defer stopHeartbeat()

	log.Info("starting crawl", "start_url", e.cfg.StartURL)

	if e.cfg.Rehydrate && e.cfg.ExpirationDate != nil {
		if err := e.rehydrate(ctx, log); err != nil {
			return e.stats.Snapshot(), err
		}
	}

	w := &walker{
		client:     e.client,
		repo:       e.repo,
		log:        log,
		mode:       e.cfg.Mode,
		scenarioID: e.cfg.ScenarioID,
		dateFrom:   e.cfg.DateFrom,
		queue:      e.seen,
		stats:      e.stats,
		sleep:      e.sleep,
	}
	if err := w.Walk(ctx, e.cfg.StartURL); err != nil {
		log.Error("listing walk failed", "error", err)
		return e.stats.Snapshot(), err
	}

	ids := e.seen.Values()
	log.Info("listing walk finished", "queued_posts", len(ids), "pages_walked", e.stats.Snapshot().PagesWalked)

	c := e.newCollector(log)
	if err := c.Collect(ctx, ids); err != nil {
		log.Error("collection failed", "error", err)
		return e.stats.Snapshot(), err
	}

	snapshot := e.stats.Snapshot()
	log.Info("crawl finished",
		"posts_inserted", snapshot.PostsInserted,
		"posts_skipped", snapshot.PostsSkipped,
		"comments_inserted", snapshot.CommentsInserted)
	return snapshot, nil
}

// rehydrate refetches the scenario's posts inside the expiration window,
// refreshing stale comment counts and draining any new comments. Uses the
// same fetchers, parsers and dedup rules as the main phases.
func (e *Engine) rehydrate(ctx context.Context, log logger.Interface) error {
	refs, err := e.repo.ListRecentPosts(ctx, e.cfg.ScenarioID, *e.cfg.ExpirationDate)
	if err != nil {
		return fmt.Errorf("list recent posts: %w", err)
	}
	log.Info("rehydrating recent posts", "count", len(refs), "since", e.cfg.ExpirationDate)

	c := e.newCollector(log)

	for _, ref := range refs {
		if ctx.Err() != nil {
			return nil
		}
		if err := e.sleep(ctx, detailDelay); err != nil {
			return nil
		}

		body, err := e.client.Get(ctx, ref.URL)
		switch {
		case errors.Is(err, httpclient.ErrNotFound):
			continue // deleted since first harvest
		case errors.Is(err, httpclient.ErrRateLimited):
			return fmt.Errorf("rehydrate fetch %s: %w", ref.PlatformPostID, err)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil
		case err != nil:
			log.Warn("rehydrate fetch failed, skipping", "platform_post_id", ref.PlatformPostID, "error", err)
			continue
		}

		detail, err := ParsePostDetail(body)
		if err != nil {
			log.Warn("rehydrate parse failed, skipping", "platform_post_id", ref.PlatformPostID, "error", err)
			continue
		}

		if detail.CommentCnt != ref.CommentCnt {
			if err := e.repo.UpdatePostCommentCount(ctx, ref.ID, detail.CommentCnt); err != nil {
				return fmt.Errorf("update comment count for %s: %w", ref.PlatformPostID, err)
			}
		}
		if detail.CommentCnt > 0 {
			if err := c.collectComments(ctx, ref.ID, ref.PlatformPostID, ref.URL, detail.ESNO); err != nil {
				return err
			}
		}
	}
	return nil
}

// newCollector builds a collector sharing the engine's run state.
func (e *Engine) newCollector(log logger.Interface) *collector {
	return &collector{
		client:     e.client,
		repo:       e.repo,
		log:        log,
		scenarioID: e.cfg.ScenarioID,
		baseURL:    e.cfg.BaseURL,
		stats:      e.stats,
		sleep:      e.sleep,
		now:        e.now,
	}
}

// startHeartbeat emits a liveness log every heartbeat interval until the
// returned stop function runs. Stopped on every exit path of StartCrawling.
func (e *Engine) startHeartbeat(log logger.Interface) func() {
	ticker := time.NewTicker(e.heartbeat)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				s := e.stats.Snapshot()
				log.Info("crawler alive",
					"pages_walked", s.PagesWalked,
					"posts_queued", s.PostsQueued,
					"posts_inserted", s.PostsInserted,
					"comments_inserted", s.CommentsInserted)
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(done)
	}
}
