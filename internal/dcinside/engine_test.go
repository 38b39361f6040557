package dcinside

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harvester-LALA/CrawlerV2/internal/config"
	"github.com/Harvester-LALA/CrawlerV2/internal/domain"
	"github.com/Harvester-LALA/CrawlerV2/internal/logger"
)

func newTestEngine(t *testing.T, cfg EngineConfig, client Client, repo *fakeRepo) *Engine {
	t.Helper()

	e, err := NewEngine(cfg, client, repo, logger.NewNoOp())
	require.NoError(t, err)
	e.sleep = instantSleep
	e.now = func() time.Time { return time.Date(2025, 10, 1, 0, 0, 0, 0, KST) }
	return e
}

// End-to-end through fakes: walk one listing page, collect the discovered
// post, drain its comment thread.
func TestEngine_StartCrawling(t *testing.T) {
	postURL, err := PlatformIDToURL("DC&G&pro&101")
	require.NoError(t, err)

	client := &fakeClient{
		pages: map[string][]byte{
			listingBaseURL: keywordListing(keywordRow("101", "101", "2025-06-01 00:00:00"), ""),
			postURL:        detailPage("101", "tok", `data-nick="n" data-uid="u"`, `<p id="recommend_view_up_101">5</p>`, "", "1"),
		},
		postBodies: [][]byte{
			[]byte(`{"comments": [{"no": "9", "del_yn": "N", "memo": "hi", "name": "a", "reg_date": "09.30 08:00:00"}]}`),
			[]byte(`{"comments": []}`),
		},
	}
	repo := newFakeRepo()

	e := newTestEngine(t, EngineConfig{
		ScenarioID: "scen-1",
		Mode:       config.ModeKeyword,
		StartURL:   listingBaseURL,
		BaseURL:    "https://gall.dcinside.com",
	}, client, repo)

	snapshot, err := e.StartCrawling(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), snapshot.PostsQueued)
	assert.Equal(t, int64(1), snapshot.PostsInserted)
	assert.Equal(t, int64(1), snapshot.CommentsInserted)

	require.Len(t, repo.insertedPosts, 1)
	assert.Equal(t, "DC&G&pro&101", repo.insertedPosts[0].PlatformPostID)
	require.Len(t, repo.bulks, 1)
	assert.Equal(t, "DC&G&pro&101&9", repo.bulks[0][0].PlatformCommentID)
}

// A second run over the same listing hits the incremental frontier and
// inserts nothing.
func TestEngine_RepeatedRunIsIdempotent(t *testing.T) {
	postURL, err := PlatformIDToURL("DC&G&pro&101")
	require.NoError(t, err)

	makeClient := func() *fakeClient {
		return &fakeClient{
			pages: map[string][]byte{
				listingBaseURL: keywordListing(keywordRow("101", "101", "2025-06-01 00:00:00"), ""),
				postURL:        detailPage("101", "tok", `data-nick="n"`, `<p id="recommend_view_up_101">0</p>`, "", "0"),
			},
		}
	}
	repo := newFakeRepo()

	cfg := EngineConfig{ScenarioID: "scen-1", Mode: config.ModeKeyword, StartURL: listingBaseURL}

	_, err = newTestEngine(t, cfg, makeClient(), repo).StartCrawling(context.Background())
	require.NoError(t, err)
	require.Len(t, repo.insertedPosts, 1)

	snapshot, err := newTestEngine(t, cfg, makeClient(), repo).StartCrawling(context.Background())
	require.NoError(t, err)

	assert.Zero(t, snapshot.PostsQueued)
	assert.Len(t, repo.insertedPosts, 1, "no duplicate insert across runs")
}

// A gallog run walks listings on the gallog origin while comment requests
// stay on the gallery host.
func TestEngine_GallogCommentHost(t *testing.T) {
	start := "https://gallog.dcinside.com/user42/posting"
	postURL, err := PlatformIDToURL("DC&M&programming&501")
	require.NoError(t, err)

	listing := []byte(`<html><body><div class="cont_box">
		<ul class="cont_listbox">
			<li data-no="501">
				<a href="` + postURL + `">a post</a>
				<span class="date">2025.04.01</span>
			</li>
		</ul>
		<div class="bottom_paging_box iconpaging"></div>
	</div></body></html>`)

	client := &fakeClient{
		pages: map[string][]byte{
			start:   listing,
			postURL: detailPage("501", "tok", `data-nick="n"`, `<p id="recommend_view_up_501">0</p>`, "", "1"),
		},
		postBodies: [][]byte{
			[]byte(`{"comments": [{"no": "3", "del_yn": "N", "memo": "hi", "reg_date": "04.01 09:00:00"}]}`),
			[]byte(`{"comments": []}`),
		},
	}
	repo := newFakeRepo()

	e := newTestEngine(t, EngineConfig{
		ScenarioID: "scen-1",
		Mode:       config.ModeGallog,
		StartURL:   start,
		BaseURL:    config.DefaultDCHost,
	}, client, repo)

	_, err = e.StartCrawling(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, client.postURLs)
	assert.Equal(t, "https://gall.dcinside.com/board/comment/", client.postURLs[0])
	require.Len(t, repo.bulks, 1)
	assert.Equal(t, "DC&M&programming&501&3", repo.bulks[0][0].PlatformCommentID)
}

// Cancellation exits promptly and without error.
func TestEngine_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &fakeClient{pages: map[string][]byte{}}
	e := newTestEngine(t, EngineConfig{
		ScenarioID: "scen-1",
		StartURL:   listingBaseURL,
	}, client, newFakeRepo())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := e.StartCrawling(ctx)
		assert.NoError(t, err)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not return promptly after cancellation")
	}
	assert.Empty(t, client.gets)
}

// heartbeatRecorder counts liveness logs; every derived logger is itself.
type heartbeatRecorder struct {
	logger.NoOpLogger
	alive atomic.Int32
}

func (r *heartbeatRecorder) Info(msg string, fields ...any) {
	if msg == "crawler alive" {
		r.alive.Add(1)
	}
}

func (r *heartbeatRecorder) With(fields ...any) logger.Interface   { return r }
func (r *heartbeatRecorder) WithComponent(string) logger.Interface { return r }

// The heartbeat goroutine stops even when the run exits with an error.
func TestEngine_HeartbeatStopsOnFailedRun(t *testing.T) {
	rec := &heartbeatRecorder{}
	client := &fakeClient{pages: map[string][]byte{}} // listing fetch fails

	e, err := NewEngine(EngineConfig{
		ScenarioID: "scen-1",
		StartURL:   listingBaseURL,
	}, client, newFakeRepo(), rec)
	require.NoError(t, err)
	e.sleep = instantSleep
	e.heartbeat = time.Millisecond

	_, err = e.StartCrawling(context.Background())
	require.Error(t, err)

	time.Sleep(20 * time.Millisecond)
	settled := rec.alive.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, rec.alive.Load(), "no heartbeats after the run returned")
}

// The rehydrate phase refreshes stale comment counts and drains new
// comments for posts inside the expiration window.
func TestEngine_Rehydrate(t *testing.T) {
	postURL, err := PlatformIDToURL("DC&G&pro&50")
	require.NoError(t, err)

	client := &fakeClient{
		pages: map[string][]byte{
			// Listing yields nothing new; the rehydrated post reports two
			// comments where the repository recorded one.
			listingBaseURL: keywordListing("", ""),
			postURL:        detailPage("50", "tok", `data-nick="n"`, `<p id="recommend_view_up_50">0</p>`, "", "2"),
		},
		postBodies: [][]byte{
			[]byte(`{"comments": [
				{"no": "1", "del_yn": "N", "memo": "old", "reg_date": "09.01 10:00:00"},
				{"no": "2", "del_yn": "N", "memo": "new", "reg_date": "09.02 10:00:00"}
			]}`),
			[]byte(`{"comments": []}`),
		},
	}

	repo := newFakeRepo()
	repo.recent = []domain.PostRef{{
		ID:             "post-50",
		PlatformPostID: "DC&G&pro&50",
		URL:            postURL,
		CommentCnt:     1,
	}}
	repo.comments["scen-1|DC&G&pro&50&1"] = struct{}{}

	expiration := time.Date(2025, 9, 1, 0, 0, 0, 0, KST)
	e := newTestEngine(t, EngineConfig{
		ScenarioID:     "scen-1",
		Mode:           config.ModeKeyword,
		StartURL:       listingBaseURL,
		ExpirationDate: &expiration,
		Rehydrate:      true,
	}, client, repo)

	_, err = e.StartCrawling(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, repo.countUpdates["post-50"])
	require.Len(t, repo.bulks, 1)
	require.Len(t, repo.bulks[0], 1, "already-held comment is not re-inserted")
	assert.Equal(t, "DC&G&pro&50&2", repo.bulks[0][0].PlatformCommentID)
}
