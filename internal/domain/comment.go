package domain

import "time"

// Comment represents a harvested post comment.
type Comment struct {
	ID                string    `json:"id" db:"id"`
	ScenarioID        string    `json:"scenario_id" db:"scenario_id"`
	PlatformCommentID string    `json:"platform_comment_id" db:"platform_comment_id"`
	// PostID references the surrogate id of the owning post row.
	PostID    string    `json:"post_id" db:"post_id"`
	Writer    *string   `json:"writer,omitempty" db:"writer"`
	WriterID  *string   `json:"writer_id,omitempty" db:"writer_id"`
	WriterIP  *string   `json:"writer_ip,omitempty" db:"writer_ip"`
	// Contents is the comment body with HTML stripped. Never empty.
	Contents string `json:"contents" db:"contents"`
	// URL is the view URL of the post the comment belongs to.
	URL string `json:"url" db:"url"`
	// Gallery is the "<gallType>&<galleryId>" key of the owning board.
	Gallery   string    `json:"gallery" db:"gallery"`
	WrittenAt time.Time `json:"written_at" db:"written_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CommentInput carries the fields needed to append one comment row.
type CommentInput struct {
	ScenarioID        string
	PlatformCommentID string
	PostID            string
	Writer            *string
	WriterID          *string
	WriterIP          *string
	Contents          string
	URL               string
	Gallery           string
	WrittenAt         time.Time
}
