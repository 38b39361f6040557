// Package repository defines the persistence port the crawl engines depend
// on. Concrete backends live elsewhere; the engines import only this
// contract.
package repository

import (
	"context"
	"time"

	"github.com/Harvester-LALA/CrawlerV2/internal/domain"
)

// Repository is the narrow persistence contract of the crawl engines.
// Each call is assumed logically atomic; no cross-call transactional
// behavior is assumed.
type Repository interface {
	// FindPostByPlatformID returns the post persisted for the scenario
	// under the given platform id, or (nil, nil) when none exists. Used as
	// the incremental boundary check during listing ingestion.
	FindPostByPlatformID(ctx context.Context, scenarioID, platformPostID string) (*domain.Post, error)

	// InsertPost creates a post row and returns it with the backend
	// surrogate id filled in.
	InsertPost(ctx context.Context, input domain.PostInput) (*domain.Post, error)

	// UpdatePostCommentCount replaces the stored comment count of a post.
	// Used by the rehydrate phase.
	UpdatePostCommentCount(ctx context.Context, postID string, commentCnt int) error

	// ListRecentPosts returns lean projections of the scenario's posts
	// written at or after since, oldest first.
	ListRecentPosts(ctx context.Context, scenarioID string, since time.Time) ([]domain.PostRef, error)

	// InsertCommentsBulk appends one page worth of comments in a single
	// batch, preserving slice order.
	InsertCommentsBulk(ctx context.Context, inputs []domain.CommentInput) error

	// CommentExists reports whether the scenario already holds a comment
	// with the given platform comment id.
	CommentExists(ctx context.Context, scenarioID, platformCommentID string) (bool, error)
}
