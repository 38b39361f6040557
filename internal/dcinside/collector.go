package dcinside

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/Harvester-LALA/CrawlerV2/internal/domain"
	"github.com/Harvester-LALA/CrawlerV2/internal/httpclient"
	"github.com/Harvester-LALA/CrawlerV2/internal/logger"
	"github.com/Harvester-LALA/CrawlerV2/internal/repository"
)

// collector fetches the detail page of every queued post, persists it, and
// drains its comment thread through the paginated comment API.
type collector struct {
	client     Client
	repo       repository.Repository
	log        logger.Interface
	scenarioID string
	baseURL    string
	stats      *RunStats
	sleep      sleepFunc
	now        func() time.Time
}

// Collect processes ids in ascending (gallType, galleryId, numeric postNo)
// order. Deleted posts and unparsable pages are skipped; backend errors and
// exhausted rate-limit retries end the run.
func (c *collector) Collect(ctx context.Context, ids []string) error {
	SortPlatformIDs(ids)

	total := len(ids)
	for i, platformID := range ids {
		if ctx.Err() != nil {
			return nil
		}
		if err := c.sleep(ctx, detailDelay); err != nil {
			return nil
		}

		c.log.Info("collecting post",
			"platform_post_id", platformID,
			"progress", fmt.Sprintf("%d/%d (%.0f%%)", i+1, total, float64(i+1)/float64(total)*100))

		if err := c.collectPost(ctx, platformID); err != nil {
			return err
		}
	}
	return nil
}

// collectPost fetches, parses and persists one post, then its comments.
func (c *collector) collectPost(ctx context.Context, platformID string) error {
	postURL, err := PlatformIDToURL(platformID)
	if err != nil {
		c.log.Warn("skipping malformed queued id", "platform_post_id", platformID, "error", err)
		c.stats.postsSkipped.Add(1)
		return nil
	}

	body, err := c.client.Get(ctx, postURL)
	switch {
	case errors.Is(err, httpclient.ErrNotFound):
		// Deleted since it was listed. Not recoverable, not an error.
		c.log.Info("post deleted upstream, skipping", "platform_post_id", platformID)
		c.stats.postsSkipped.Add(1)
		return nil
	case errors.Is(err, httpclient.ErrRateLimited):
		return fmt.Errorf("fetch post %s: %w", platformID, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil
	case err != nil:
		c.log.Warn("skipping unfetchable post", "platform_post_id", platformID, "error", err)
		c.stats.postsSkipped.Add(1)
		return nil
	}

	detail, err := ParsePostDetail(body)
	if err != nil {
		c.log.Warn("skipping unparsable post", "platform_post_id", platformID, "error", err)
		c.stats.postsSkipped.Add(1)
		return nil
	}

	post, err := c.repo.InsertPost(ctx, domain.PostInput{
		ScenarioID:     c.scenarioID,
		PlatformPostID: platformID,
		URL:            postURL,
		Title:          detail.Title,
		Contents:       detail.Contents,
		Writer:         detail.Writer,
		WriterID:       detail.WriterID,
		WriterIP:       detail.WriterIP,
		WrittenAt:      detail.WrittenAt,
		LikeCnt:        detail.LikeCnt,
		DislikeCnt:     detail.DislikeCnt,
		CommentCnt:     detail.CommentCnt,
	})
	if err != nil {
		return fmt.Errorf("insert post %s: %w", platformID, err)
	}
	c.stats.postsInserted.Add(1)

	if detail.CommentCnt > 0 {
		return c.collectComments(ctx, post.ID, platformID, postURL, detail.ESNO)
	}
	return nil
}

// collectComments pages through the comment API until the upstream returns
// an empty list or a page fails. Each page is persisted as one batch.
func (c *collector) collectComments(ctx context.Context, postID, platformPostID, postURL, esno string) error {
	info, err := ParsePlatformID(platformPostID)
	if err != nil {
		return err
	}

	endpoint := c.baseURL + commentEndpointPath

	for page := 1; ; page++ {
		if ctx.Err() != nil {
			return nil
		}
		if err := c.sleep(ctx, commentPageDelay); err != nil {
			return nil
		}

		body, err := c.client.PostForm(ctx, endpoint, CommentForm(info, esno, page))
		switch {
		case errors.Is(err, httpclient.ErrRateLimited):
			return fmt.Errorf("fetch comments for %s page %d: %w", platformPostID, page, err)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil
		case err != nil:
			c.log.Warn("comment page failed, ending thread",
				"platform_post_id", platformPostID, "page", page, "error", err)
			return nil
		}

		items, err := ParseCommentsResponse(body)
		if errors.Is(err, ErrEndOfPage) {
			return nil
		}
		if err != nil {
			c.log.Warn("unparsable comment page, ending thread",
				"platform_post_id", platformPostID, "page", page, "error", err)
			return nil
		}

		if err := c.ingestCommentPage(ctx, postID, platformPostID, postURL, info, items); err != nil {
			return err
		}
	}
}

// ingestCommentPage filters one page of comment items and writes the
// survivors in a single bulk insert, preserving upstream order.
func (c *collector) ingestCommentPage(
	ctx context.Context,
	postID, platformPostID, postURL string,
	info GalleryInfo,
	items []CommentItem,
) error {
	inputs := make([]domain.CommentInput, 0, len(items))

	for _, item := range items {
		if item.No == "" {
			continue // control row
		}
		if item.DelYN == "Y" {
			continue
		}

		platformCommentID := CommentPlatformID(platformPostID, string(item.No))
		exists, err := c.repo.CommentExists(ctx, c.scenarioID, platformCommentID)
		if err != nil {
			return fmt.Errorf("comment dedup check %s: %w", platformCommentID, err)
		}
		if exists {
			c.stats.commentsSkipped.Add(1)
			continue
		}

		contents := StripHTML(item.Memo)
		if contents == "" {
			c.stats.commentsSkipped.Add(1)
			continue
		}

		writtenAt, err := ParseCommentDate(item.RegDate, c.now())
		if err != nil {
			c.log.Warn("skipping comment with unparsable date",
				"platform_comment_id", platformCommentID, "reg_date", item.RegDate)
			c.stats.commentsSkipped.Add(1)
			continue
		}

		inputs = append(inputs, domain.CommentInput{
			ScenarioID:        c.scenarioID,
			PlatformCommentID: platformCommentID,
			PostID:            postID,
			Writer:            optionalString(item.Name),
			WriterID:          optionalString(item.UserID),
			WriterIP:          optionalString(item.IP),
			Contents:          contents,
			URL:               postURL,
			Gallery:           info.GalleryKey(),
			WrittenAt:         writtenAt,
		})
	}

	if len(inputs) == 0 {
		return nil
	}
	if err := c.repo.InsertCommentsBulk(ctx, inputs); err != nil {
		return fmt.Errorf("insert comments for %s: %w", platformPostID, err)
	}
	c.stats.commentsInserted.Add(int64(len(inputs)))
	return nil
}

// SortPlatformIDs orders platform post ids in place by the deterministic
// three-key order: gallery type, gallery id (both lexicographic), then
// numeric post number. Approximates oldest-first insertion.
func SortPlatformIDs(ids []string) {
	type key struct {
		gallType  string
		galleryID string
		postNo    int64
		raw       string
	}

	keys := make(map[string]key, len(ids))
	for _, id := range ids {
		k := key{raw: id}
		if info, err := ParsePlatformID(id); err == nil {
			k.gallType = string(info.GallType)
			k.galleryID = info.GalleryID
			if n, numErr := strconv.ParseInt(info.PostNo, 10, 64); numErr == nil {
				k.postNo = n
			}
		}
		keys[id] = k
	}

	sort.SliceStable(ids, func(i, j int) bool {
		a, b := keys[ids[i]], keys[ids[j]]
		if a.gallType != b.gallType {
			return a.gallType < b.gallType
		}
		if a.galleryID != b.galleryID {
			return a.galleryID < b.galleryID
		}
		if a.postNo != b.postNo {
			return a.postNo < b.postNo
		}
		return a.raw < b.raw
	})
}

// optionalString returns a pointer to s when non-empty.
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
