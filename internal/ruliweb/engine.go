// Package ruliweb holds the planned Ruliweb crawl engine. Symmetric to the
// DCInside engine once built; currently a stub.
package ruliweb

import (
	"context"
	"errors"

	"github.com/Harvester-LALA/CrawlerV2/internal/logger"
)

// ErrNotImplemented is returned until the engine exists.
var ErrNotImplemented = errors.New("ruliweb engine not implemented")

// Engine is the Ruliweb crawl engine stub.
type Engine struct {
	log logger.Interface
}

// NewEngine creates the stub engine.
func NewEngine(log logger.Interface) *Engine {
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Engine{log: log.WithComponent("ruliweb")}
}

// StartCrawling reports that the engine is not implemented.
func (e *Engine) StartCrawling(ctx context.Context) error {
	e.log.Warn("ruliweb crawling requested but not implemented")
	return ErrNotImplemented
}
