// Package dispatcher routes a run to the site engine its crawler code
// selects. DCInside is the default; YouTube and Ruliweb codes are matched
// against environment configuration.
package dispatcher

import (
	"context"
	"time"

	"github.com/Harvester-LALA/CrawlerV2/internal/config"
	"github.com/Harvester-LALA/CrawlerV2/internal/dcinside"
	"github.com/Harvester-LALA/CrawlerV2/internal/httpclient"
	"github.com/Harvester-LALA/CrawlerV2/internal/logger"
	"github.com/Harvester-LALA/CrawlerV2/internal/repository"
	"github.com/Harvester-LALA/CrawlerV2/internal/ruliweb"
	"github.com/Harvester-LALA/CrawlerV2/internal/youtube"
)

// Dispatcher builds and runs site engines.
type Dispatcher struct {
	cfg  *config.Config
	repo repository.Repository
	log  logger.Interface
}

// New creates a dispatcher.
func New(cfg *config.Config, repo repository.Repository, log logger.Interface) *Dispatcher {
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Dispatcher{cfg: cfg, repo: repo, log: log}
}

// Run resolves the crawler code and executes one crawl. The returned
// snapshot is zero for non-DCInside engines.
func (d *Dispatcher) Run(ctx context.Context, opts config.CrawlOptions) (dcinside.StatsSnapshot, error) {
	switch {
	case d.cfg.YoutubeCrawlerCode != "" && opts.CrawlerCode == d.cfg.YoutubeCrawlerCode:
		return dcinside.StatsSnapshot{}, youtube.NewEngine(d.log).StartCrawling(ctx)
	case d.cfg.RuliwebCrawlerCode != "" && opts.CrawlerCode == d.cfg.RuliwebCrawlerCode:
		return dcinside.StatsSnapshot{}, ruliweb.NewEngine(d.log).StartCrawling(ctx)
	default:
		return d.runDCInside(ctx, opts)
	}
}

// runDCInside resolves mode and URLs once and hands the run to the
// DCInside engine.
func (d *Dispatcher) runDCInside(ctx context.Context, opts config.CrawlOptions) (dcinside.StatsSnapshot, error) {
	mode := d.cfg.ResolveMode(opts.CrawlerCode)

	startURL, err := d.cfg.StartURL(mode, opts)
	if err != nil {
		return dcinside.StatsSnapshot{}, err
	}
	baseURL := d.cfg.BaseURL(mode, startURL)

	// POST Referer is the run URL when the caller supplied one, the host
	// root otherwise.
	referer := opts.URL
	if referer == "" {
		referer = baseURL
	}

	client := httpclient.New(httpclient.Options{
		Referer: referer,
		Logger:  d.log,
	})

	engine, err := dcinside.NewEngine(dcinside.EngineConfig{
		ScenarioID:     opts.ScenarioID,
		Mode:           mode,
		StartURL:       startURL,
		BaseURL:        baseURL,
		DateFrom:       opts.DateFrom,
		ExpirationDate: d.cfg.ExpirationDate(time.Now()),
		Rehydrate:      opts.Rehydrate,
	}, client, d.repo, d.log)
	if err != nil {
		return dcinside.StatsSnapshot{}, err
	}

	return engine.StartCrawling(ctx)
}
