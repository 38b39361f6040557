// Package domain provides domain models shared across the application.
package domain

import "time"

// Post represents a harvested community post as persisted by the repository.
type Post struct {
	// ID is the backend-assigned surrogate identifier.
	ID string `json:"id" db:"id"`
	// ScenarioID scopes the post to one logical collection effort.
	ScenarioID string `json:"scenario_id" db:"scenario_id"`
	// PlatformPostID is the stable cross-run identity, e.g. "DC&M&programming&42".
	PlatformPostID string `json:"platform_post_id" db:"platform_post_id"`
	// URL is the canonical post view URL.
	URL string `json:"url" db:"url"`
	// Title of the post.
	Title string `json:"title" db:"title"`
	// Contents is the plain-text body.
	Contents string `json:"contents" db:"contents"`
	// Writer is the display name shown on the board, if any.
	Writer *string `json:"writer,omitempty" db:"writer"`
	// WriterID is the account identifier of a logged-in author.
	WriterID *string `json:"writer_id,omitempty" db:"writer_id"`
	// WriterIP is the masked IP of an anonymous author.
	WriterIP *string `json:"writer_ip,omitempty" db:"writer_ip"`
	// WrittenAt is the KST-localized publication instant.
	WrittenAt time.Time `json:"written_at" db:"written_at"`
	// LikeCnt is the upvote count.
	LikeCnt int `json:"like_cnt" db:"like_cnt"`
	// DislikeCnt is the downvote count; nil when the board hides it.
	DislikeCnt *int `json:"dislike_cnt,omitempty" db:"dislike_cnt"`
	// CommentCnt is the comment count reported on the post page.
	CommentCnt int `json:"comment_cnt" db:"comment_cnt"`
	// CreatedAt is the record creation timestamp.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PostInput carries the fields needed to create a post row.
type PostInput struct {
	ScenarioID     string
	PlatformPostID string
	URL            string
	Title          string
	Contents       string
	Writer         *string
	WriterID       *string
	WriterIP       *string
	WrittenAt      time.Time
	LikeCnt        int
	DislikeCnt     *int
	CommentCnt     int
}

// PostRef is the lean projection returned by ListRecentPosts for the
// rehydrate phase. It carries just enough to refetch the page.
type PostRef struct {
	ID             string    `db:"id"`
	PlatformPostID string    `db:"platform_post_id"`
	URL            string    `db:"url"`
	CommentCnt     int       `db:"comment_cnt"`
	WrittenAt      time.Time `db:"written_at"`
}
