package dcinside

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Harvester-LALA/CrawlerV2/internal/config"
	"github.com/Harvester-LALA/CrawlerV2/internal/logger"
	"github.com/Harvester-LALA/CrawlerV2/internal/repository"
)

// walker traverses the listing pages of one run in blocks of pages,
// queueing candidate platform ids until it hits the incremental frontier,
// the date cutoff, or the end of pagination.
type walker struct {
	client     Getter
	repo       repository.Repository
	log        logger.Interface
	mode       config.Mode
	scenarioID string
	dateFrom   *time.Time
	queue      *idSet
	stats      *RunStats
	sleep      sleepFunc
}

// Walk runs the block-then-page traversal starting at startURL. A context
// cancellation exits quietly with ctx intact for the caller to inspect.
func (w *walker) Walk(ctx context.Context, startURL string) error {
	current := startURL

	for {
		stop, err := w.walkBlock(ctx, &current)
		if err != nil || stop {
			return err
		}
		if current == "" {
			return nil
		}
		if err := w.sleep(ctx, listPageDelay); err != nil {
			return nil // cancelled between blocks
		}
	}
}

// walkBlock processes one pagination block: the block's landing page, then
// every per-page link inside it. On return *current holds the next block
// URL, or "" when pagination is exhausted.
func (w *walker) walkBlock(ctx context.Context, current *string) (stop bool, err error) {
	if ctx.Err() != nil {
		return true, nil
	}

	body, err := w.client.Get(ctx, *current)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return true, nil
		}
		return false, fmt.Errorf("fetch listing %s: %w", *current, err)
	}

	page, err := ParseListingPage(body, w.mode, *current)
	if err != nil {
		// No pagination either, so the block ends the walk.
		w.log.Warn("skipping unparsable listing page", "url", *current, "error", err)
		*current = ""
		return false, nil
	}
	w.stats.pagesWalked.Add(1)

	stop, err = w.ingestRows(ctx, page.Rows)
	if err != nil || stop {
		return stop, err
	}

	for _, pageURL := range page.PageURLs {
		if ctx.Err() != nil {
			return true, nil
		}
		if sleepErr := w.sleep(ctx, listPageDelay); sleepErr != nil {
			return true, nil
		}

		body, err = w.client.Get(ctx, pageURL)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return true, nil
			}
			return false, fmt.Errorf("fetch listing page %s: %w", pageURL, err)
		}

		inner, parseErr := ParseListingPage(body, w.mode, pageURL)
		if parseErr != nil {
			w.log.Warn("skipping unparsable listing page", "url", pageURL, "error", parseErr)
			continue
		}
		w.stats.pagesWalked.Add(1)

		stop, err = w.ingestRows(ctx, inner.Rows)
		if err != nil || stop {
			return stop, err
		}
	}

	*current = page.NextBlockURL
	return false, nil
}

// ingestRows queues the platform ids of a row batch. A row already known to
// the repository marks the incremental frontier; a row older than the date
// cutoff marks the end of the interesting range. Either one stops the walk.
func (w *walker) ingestRows(ctx context.Context, rows []ListingRow) (stop bool, err error) {
	for _, row := range rows {
		platformID, idErr := URLToPlatformID(row.URL)
		if idErr != nil {
			w.log.Debug("skipping row with undecodable url", "url", row.URL, "error", idErr)
			continue
		}

		if w.dateFrom != nil && row.WrittenAt != nil && row.WrittenAt.Before(*w.dateFrom) {
			w.log.Info("reached date cutoff",
				"platform_post_id", platformID,
				"written_at", row.WrittenAt,
				"date_from", w.dateFrom)
			return true, nil
		}

		if w.queue.Contains(platformID) {
			continue
		}

		existing, findErr := w.repo.FindPostByPlatformID(ctx, w.scenarioID, platformID)
		if findErr != nil {
			return false, fmt.Errorf("boundary check for %s: %w", platformID, findErr)
		}
		if existing != nil {
			w.log.Info("reached incremental frontier", "platform_post_id", platformID)
			return true, nil
		}

		w.queue.Add(platformID)
		w.stats.postsQueued.Add(1)
	}
	return false, nil
}
