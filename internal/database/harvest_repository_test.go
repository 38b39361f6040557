package database

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harvester-LALA/CrawlerV2/internal/domain"
)

func newMockRepository(t *testing.T) (*HarvestRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewHarvestRepository(sqlx.NewDb(db, "postgres")), mock
}

func postColumns() []string {
	return []string{
		"id", "scenario_id", "platform_post_id", "url", "title", "contents",
		"writer", "writer_id", "writer_ip", "written_at",
		"like_cnt", "dislike_cnt", "comment_cnt", "created_at",
	}
}

func TestFindPostByPlatformID(t *testing.T) {
	repo, mock := newMockRepository(t)

	writtenAt := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(postColumns()).AddRow(
		"post-1", "scen-1", "DC&G&pro&42", "https://gall.dcinside.com/board/view/?id=pro&no=42",
		"title", "body", "nick", nil, "1.2", writtenAt, 3, 1, 5, writtenAt,
	)
	mock.ExpectQuery(regexp.QuoteMeta("FROM posts")).
		WithArgs("scen-1", "DC&G&pro&42").
		WillReturnRows(rows)

	post, err := repo.FindPostByPlatformID(context.Background(), "scen-1", "DC&G&pro&42")
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, "post-1", post.ID)
	assert.Equal(t, "DC&G&pro&42", post.PlatformPostID)
	require.NotNil(t, post.Writer)
	assert.Equal(t, "nick", *post.Writer)
	assert.Nil(t, post.WriterID)
	require.NotNil(t, post.DislikeCnt)
	assert.Equal(t, 1, *post.DislikeCnt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// A miss is (nil, nil), not an error: the callers use it as the
// incremental frontier probe.
func TestFindPostByPlatformID_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM posts")).
		WithArgs("scen-1", "DC&G&pro&404").
		WillReturnError(sql.ErrNoRows)

	post, err := repo.FindPostByPlatformID(context.Background(), "scen-1", "DC&G&pro&404")
	require.NoError(t, err)
	assert.Nil(t, post)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertPost(t *testing.T) {
	repo, mock := newMockRepository(t)

	writer := "nick"
	writtenAt := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC)

	input := domain.PostInput{
		ScenarioID:     "scen-1",
		PlatformPostID: "DC&G&pro&42",
		URL:            "https://gall.dcinside.com/board/view/?id=pro&no=42",
		Title:          "title",
		Contents:       "body",
		Writer:         &writer,
		WrittenAt:      writtenAt,
		LikeCnt:        3,
		CommentCnt:     5,
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO posts")).
		WithArgs(
			input.ScenarioID, input.PlatformPostID, input.URL, input.Title, input.Contents,
			input.Writer, nil, nil, input.WrittenAt,
			input.LikeCnt, nil, input.CommentCnt,
		).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("post-9", createdAt))

	post, err := repo.InsertPost(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "post-9", post.ID)
	assert.Equal(t, createdAt, post.CreatedAt)
	assert.Equal(t, input.PlatformPostID, post.PlatformPostID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePostCommentCount(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE posts SET comment_cnt = $2 WHERE id = $1")).
		WithArgs("post-9", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePostCommentCount(context.Background(), "post-9", 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRecentPosts(t *testing.T) {
	repo, mock := newMockRepository(t)

	since := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "platform_post_id", "url", "comment_cnt", "written_at"}).
		AddRow("post-1", "DC&G&pro&10", "u1", 2, since.Add(time.Hour)).
		AddRow("post-2", "DC&G&pro&11", "u2", 0, since.Add(2*time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("FROM posts")).
		WithArgs("scen-1", since).
		WillReturnRows(rows)

	refs, err := repo.ListRecentPosts(context.Background(), "scen-1", since)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "DC&G&pro&10", refs[0].PlatformPostID)
	assert.Equal(t, 2, refs[0].CommentCnt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertCommentsBulk(t *testing.T) {
	repo, mock := newMockRepository(t)

	writtenAt := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	name := "a"
	inputs := []domain.CommentInput{
		{
			ScenarioID:        "scen-1",
			PlatformCommentID: "DC&G&pro&42&1",
			PostID:            "post-9",
			Writer:            &name,
			Contents:          "first",
			URL:               "u",
			Gallery:           "G&pro",
			WrittenAt:         writtenAt,
		},
		{
			ScenarioID:        "scen-1",
			PlatformCommentID: "DC&G&pro&42&2",
			PostID:            "post-9",
			Contents:          "second",
			URL:               "u",
			Gallery:           "G&pro",
			WrittenAt:         writtenAt.Add(time.Minute),
		},
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO comments")).
		WithArgs(
			"scen-1", "DC&G&pro&42&1", "post-9", &name, nil, nil, "first", "u", "G&pro", writtenAt,
			"scen-1", "DC&G&pro&42&2", "post-9", nil, nil, nil, "second", "u", "G&pro", writtenAt.Add(time.Minute),
		).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.InsertCommentsBulk(context.Background(), inputs))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// An empty batch is a no-op without touching the database.
func TestInsertCommentsBulk_Empty(t *testing.T) {
	repo, mock := newMockRepository(t)

	require.NoError(t, repo.InsertCommentsBulk(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentExists(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("scen-1", "DC&G&pro&42&1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.CommentExists(context.Background(), "scen-1", "DC&G&pro&42&1")
	require.NoError(t, err)
	assert.True(t, exists)

	assert.NoError(t, mock.ExpectationsWereMet())
}
