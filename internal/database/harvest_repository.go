package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Harvester-LALA/CrawlerV2/internal/domain"
	"github.com/Harvester-LALA/CrawlerV2/internal/repository"
)

// postSelectColumns lists columns for SELECT queries on posts.
const postSelectColumns = `id, scenario_id, platform_post_id, url, title, contents,
	writer, writer_id, writer_ip, written_at, like_cnt, dislike_cnt, comment_cnt, created_at`

// commentInsertColumnCount is the number of bound parameters per comment row.
const commentInsertColumnCount = 10

// HarvestRepository implements the repository port on PostgreSQL.
type HarvestRepository struct {
	db *sqlx.DB
}

var _ repository.Repository = (*HarvestRepository)(nil)

// NewHarvestRepository creates a new harvest repository.
func NewHarvestRepository(db *sqlx.DB) *HarvestRepository {
	return &HarvestRepository{db: db}
}

// FindPostByPlatformID returns the scenario's post with the given platform
// id, or (nil, nil) when none exists.
func (r *HarvestRepository) FindPostByPlatformID(ctx context.Context, scenarioID, platformPostID string) (*domain.Post, error) {
	query := `SELECT ` + postSelectColumns + `
		FROM posts
		WHERE scenario_id = $1 AND platform_post_id = $2`

	var post domain.Post
	err := r.db.GetContext(ctx, &post, query, scenarioID, platformPostID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find post by platform id: %w", err)
	}
	return &post, nil
}

// InsertPost creates a post row and returns it with the surrogate id.
func (r *HarvestRepository) InsertPost(ctx context.Context, input domain.PostInput) (*domain.Post, error) {
	query := `
		INSERT INTO posts (scenario_id, platform_post_id, url, title, contents,
			writer, writer_id, writer_ip, written_at, like_cnt, dislike_cnt, comment_cnt)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at
	`

	post := &domain.Post{
		ScenarioID:     input.ScenarioID,
		PlatformPostID: input.PlatformPostID,
		URL:            input.URL,
		Title:          input.Title,
		Contents:       input.Contents,
		Writer:         input.Writer,
		WriterID:       input.WriterID,
		WriterIP:       input.WriterIP,
		WrittenAt:      input.WrittenAt,
		LikeCnt:        input.LikeCnt,
		DislikeCnt:     input.DislikeCnt,
		CommentCnt:     input.CommentCnt,
	}

	err := r.db.QueryRowxContext(
		ctx, query,
		input.ScenarioID, input.PlatformPostID, input.URL, input.Title, input.Contents,
		input.Writer, input.WriterID, input.WriterIP, input.WrittenAt,
		input.LikeCnt, input.DislikeCnt, input.CommentCnt,
	).Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}

	return post, nil
}

// UpdatePostCommentCount replaces the stored comment count of a post.
func (r *HarvestRepository) UpdatePostCommentCount(ctx context.Context, postID string, commentCnt int) error {
	query := `UPDATE posts SET comment_cnt = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, postID, commentCnt); err != nil {
		return fmt.Errorf("failed to update post comment count: %w", err)
	}
	return nil
}

// ListRecentPosts returns lean projections of the scenario's posts written
// at or after since, oldest first.
func (r *HarvestRepository) ListRecentPosts(ctx context.Context, scenarioID string, since time.Time) ([]domain.PostRef, error) {
	query := `
		SELECT id, platform_post_id, url, comment_cnt, written_at
		FROM posts
		WHERE scenario_id = $1 AND written_at >= $2
		ORDER BY written_at ASC
	`

	var refs []domain.PostRef
	if err := r.db.SelectContext(ctx, &refs, query, scenarioID, since); err != nil {
		return nil, fmt.Errorf("failed to list recent posts: %w", err)
	}
	return refs, nil
}

// InsertCommentsBulk appends one page worth of comments in a single
// multi-row insert, preserving slice order.
func (r *HarvestRepository) InsertCommentsBulk(ctx context.Context, inputs []domain.CommentInput) error {
	if len(inputs) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(inputs))
	args := make([]any, 0, len(inputs)*commentInsertColumnCount)
	for i, input := range inputs {
		base := i * commentInsertColumnCount
		marks := make([]string, commentInsertColumnCount)
		for j := range marks {
			marks[j] = fmt.Sprintf("$%d", base+j+1)
		}
		placeholders = append(placeholders, "("+strings.Join(marks, ", ")+")")
		args = append(args,
			input.ScenarioID, input.PlatformCommentID, input.PostID,
			input.Writer, input.WriterID, input.WriterIP,
			input.Contents, input.URL, input.Gallery, input.WrittenAt,
		)
	}

	query := `
		INSERT INTO comments (scenario_id, platform_comment_id, post_id,
			writer, writer_id, writer_ip, contents, url, gallery, written_at)
		VALUES ` + strings.Join(placeholders, ", ")

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert comments: %w", err)
	}
	return nil
}

// CommentExists reports whether the scenario already holds the comment.
func (r *HarvestRepository) CommentExists(ctx context.Context, scenarioID, platformCommentID string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM comments WHERE scenario_id = $1 AND platform_comment_id = $2
	)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, scenarioID, platformCommentID); err != nil {
		return false, fmt.Errorf("failed to check comment existence: %w", err)
	}
	return exists, nil
}
