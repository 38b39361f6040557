package dcinside

import "sync/atomic"

// RunStats counts the work of one run. Incremented from the engine's single
// logical flow, read concurrently by the heartbeat, hence the atomics.
type RunStats struct {
	pagesWalked      atomic.Int64
	postsQueued      atomic.Int64
	postsInserted    atomic.Int64
	postsSkipped     atomic.Int64
	commentsInserted atomic.Int64
	commentsSkipped  atomic.Int64
}

// StatsSnapshot is a point-in-time copy of RunStats.
type StatsSnapshot struct {
	PagesWalked      int64
	PostsQueued      int64
	PostsInserted    int64
	PostsSkipped     int64
	CommentsInserted int64
	CommentsSkipped  int64
}

// Snapshot returns the current counter values.
func (s *RunStats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		PagesWalked:      s.pagesWalked.Load(),
		PostsQueued:      s.postsQueued.Load(),
		PostsInserted:    s.postsInserted.Load(),
		PostsSkipped:     s.postsSkipped.Load(),
		CommentsInserted: s.commentsInserted.Load(),
		CommentsSkipped:  s.commentsSkipped.Load(),
	}
}
