package dcinside

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/Harvester-LALA/CrawlerV2/internal/domain"
	"github.com/Harvester-LALA/CrawlerV2/internal/httpclient"
)

// instantSleep replaces the jittered politeness sleep in tests.
func instantSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// fakeClient serves canned GET bodies by URL and canned POST bodies in
// order, recording every request.
type fakeClient struct {
	pages      map[string][]byte
	postBodies [][]byte

	gets      []string
	postURLs  []string
	postForms []url.Values
}

func (f *fakeClient) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.gets = append(f.gets, rawURL)

	body, ok := f.pages[rawURL]
	if !ok {
		return nil, fmt.Errorf("%w: %s", httpclient.ErrNotFound, rawURL)
	}
	return body, nil
}

func (f *fakeClient) PostForm(ctx context.Context, rawURL string, form url.Values) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.postURLs = append(f.postURLs, rawURL)
	f.postForms = append(f.postForms, form)

	if len(f.postBodies) == 0 {
		return []byte(`{"comments": []}`), nil
	}
	body := f.postBodies[0]
	f.postBodies = f.postBodies[1:]
	return body, nil
}

// fakeRepo is an in-memory repository implementation.
type fakeRepo struct {
	existing map[string]struct{} // scenario-scoped platform post ids
	comments map[string]struct{} // scenario-scoped platform comment ids
	recent   []domain.PostRef

	insertedPosts []domain.PostInput
	bulks         [][]domain.CommentInput
	countUpdates  map[string]int

	nextID int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		existing:     make(map[string]struct{}),
		comments:     make(map[string]struct{}),
		countUpdates: make(map[string]int),
	}
}

func (r *fakeRepo) FindPostByPlatformID(_ context.Context, scenarioID, platformPostID string) (*domain.Post, error) {
	if _, ok := r.existing[scenarioID+"|"+platformPostID]; ok {
		return &domain.Post{ScenarioID: scenarioID, PlatformPostID: platformPostID}, nil
	}
	return nil, nil
}

func (r *fakeRepo) InsertPost(_ context.Context, input domain.PostInput) (*domain.Post, error) {
	r.insertedPosts = append(r.insertedPosts, input)
	r.existing[input.ScenarioID+"|"+input.PlatformPostID] = struct{}{}
	r.nextID++
	return &domain.Post{
		ID:             fmt.Sprintf("post-%d", r.nextID),
		ScenarioID:     input.ScenarioID,
		PlatformPostID: input.PlatformPostID,
		CommentCnt:     input.CommentCnt,
	}, nil
}

func (r *fakeRepo) UpdatePostCommentCount(_ context.Context, postID string, commentCnt int) error {
	r.countUpdates[postID] = commentCnt
	return nil
}

func (r *fakeRepo) ListRecentPosts(_ context.Context, _ string, _ time.Time) ([]domain.PostRef, error) {
	return r.recent, nil
}

func (r *fakeRepo) InsertCommentsBulk(_ context.Context, inputs []domain.CommentInput) error {
	r.bulks = append(r.bulks, inputs)
	for _, in := range inputs {
		r.comments[in.ScenarioID+"|"+in.PlatformCommentID] = struct{}{}
	}
	return nil
}

func (r *fakeRepo) CommentExists(_ context.Context, scenarioID, platformCommentID string) (bool, error) {
	_, ok := r.comments[scenarioID+"|"+platformCommentID]
	return ok, nil
}
