// Package cmd implements the command-line interface for the harvester.
package cmd

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Harvester-LALA/CrawlerV2/cmd/crawl"
)

// rootCmd represents the root command of the harvester CLI.
var rootCmd = &cobra.Command{
	Use:   "crawlerv2",
	Short: "A community-site post and comment harvester",
	Long: `CrawlerV2 harvests posts and their comments from Korean community
sites into a pluggable storage backend. Runs are incremental: the crawler
stops at the boundary of what a scenario has already persisted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment variables are available to config.
	_ = godotenv.Load()

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.AddCommand(crawl.Command())
}
