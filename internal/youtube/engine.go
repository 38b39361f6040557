// Package youtube holds the planned YouTube crawl engine. Symmetric to the
// DCInside engine once built; currently a stub.
package youtube

import (
	"context"
	"errors"

	"github.com/Harvester-LALA/CrawlerV2/internal/logger"
)

// ErrNotImplemented is returned until the engine exists.
var ErrNotImplemented = errors.New("youtube engine not implemented")

// Engine is the YouTube crawl engine stub.
type Engine struct {
	log logger.Interface
}

// NewEngine creates the stub engine.
func NewEngine(log logger.Interface) *Engine {
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Engine{log: log.WithComponent("youtube")}
}

// StartCrawling reports that the engine is not implemented.
func (e *Engine) StartCrawling(ctx context.Context) error {
	e.log.Warn("youtube crawling requested but not implemented")
	return ErrNotImplemented
}
