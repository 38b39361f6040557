package dcinside

import (
	"context"
	"math/rand/v2"
	"net/url"
	"time"
)

// Politeness base delays. The actual pause is jittered:
// base + rand[0, base/2).
const (
	// listPageDelay paces listing page fetches within and between blocks.
	listPageDelay = time.Second
	// detailDelay paces post detail fetches.
	detailDelay = time.Second
	// commentPageDelay paces comment API pages.
	commentPageDelay = 2 * time.Second
)

// Getter fetches a document. Satisfied by *httpclient.Client.
type Getter interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// Poster submits a form. Satisfied by *httpclient.Client.
type Poster interface {
	PostForm(ctx context.Context, rawURL string, form url.Values) ([]byte, error)
}

// Client combines the two fetch operations the engine needs.
type Client interface {
	Getter
	Poster
}

// sleepFunc pauses for a jittered interval derived from base, returning
// early with the context error on cancellation. Injectable for tests.
type sleepFunc func(ctx context.Context, base time.Duration) error

// jitterSleep is the production sleepFunc.
func jitterSleep(ctx context.Context, base time.Duration) error {
	d := base
	if base > 1 {
		d += rand.N(base / 2)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
