// Package common provides shared dependency construction for CLI commands.
package common

import (
	"fmt"

	"github.com/Harvester-LALA/CrawlerV2/internal/config"
	"github.com/Harvester-LALA/CrawlerV2/internal/logger"
)

// Deps bundles the dependencies every command needs.
type Deps struct {
	Config *config.Config
	Logger logger.Interface
}

// NewCommandDeps loads configuration and builds the logger.
func NewCommandDeps() (*Deps, error) {
	cfg := config.Load()

	log, err := logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		Encoding:    cfg.Log.Encoding,
		Development: cfg.Log.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &Deps{Config: cfg, Logger: log}, nil
}
