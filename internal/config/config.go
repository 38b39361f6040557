// Package config loads and validates application configuration from the
// environment. Crawler codes are matched against environment variables to
// select a site mode; nothing about modes is hard-coded.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Environment variable keys.
const (
	envKeywordCrawler   = "DC_KEYWORD_CRAWLER"
	envGallogCrawler    = "DC_GALLOG_CRAWLER"
	envYoutubeCrawler   = "YOUTUBE_CRAWLER"
	envRuliwebCrawler   = "RULIWEB_CRAWLER"
	envExpirationPeriod = "EXPIRATION_PERIOD"
	envDCHost           = "DC_HOST"
	envLogLevel         = "LOG_LEVEL"
	envLogEncoding      = "LOG_ENCODING"
	envDevelopment      = "DEVELOPMENT"
)

// DefaultDCHost is the canonical DCInside gallery host.
const DefaultDCHost = "https://gall.dcinside.com"

// expirationSlackHours widens the expiration window past the configured
// period so posts written just before a run boundary are not missed.
const expirationSlackHours = 1

// Config holds the environment-derived application configuration.
type Config struct {
	// KeywordCrawlerCode is the crawler code that selects keyword mode.
	KeywordCrawlerCode string
	// GallogCrawlerCode is the crawler code that selects gallog mode.
	GallogCrawlerCode string
	// YoutubeCrawlerCode is the crawler code routed to the YouTube engine.
	YoutubeCrawlerCode string
	// RuliwebCrawlerCode is the crawler code routed to the Ruliweb engine.
	RuliwebCrawlerCode string
	// ExpirationPeriodDays bounds backlog rescanning during rehydrate.
	// Zero disables the expiration window.
	ExpirationPeriodDays int
	// DCHost is the DCInside gallery host root.
	DCHost string
	// Log holds logger settings.
	Log LogConfig
	// Database holds repository backend settings.
	Database DatabaseConfig
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level       string
	Encoding    string
	Development bool
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Load reads configuration from the environment via viper.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault(envDCHost, DefaultDCHost)
	v.SetDefault(envExpirationPeriod, 0)
	v.SetDefault(envLogLevel, "info")
	v.SetDefault(envLogEncoding, "console")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "harvester")
	v.SetDefault("DB_NAME", "harvester")
	v.SetDefault("DB_SSLMODE", "disable")

	return &Config{
		KeywordCrawlerCode:   v.GetString(envKeywordCrawler),
		GallogCrawlerCode:    v.GetString(envGallogCrawler),
		YoutubeCrawlerCode:   v.GetString(envYoutubeCrawler),
		RuliwebCrawlerCode:   v.GetString(envRuliwebCrawler),
		ExpirationPeriodDays: v.GetInt(envExpirationPeriod),
		DCHost:               strings.TrimRight(v.GetString(envDCHost), "/"),
		Log: LogConfig{
			Level:       v.GetString(envLogLevel),
			Encoding:    v.GetString(envLogEncoding),
			Development: v.GetBool(envDevelopment),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
	}
}

// ExpirationDate derives the rehydrate window lower bound: now minus the
// configured period minus a fixed slack. Returns nil when no period is set.
func (c *Config) ExpirationDate(now time.Time) *time.Time {
	if c.ExpirationPeriodDays <= 0 {
		return nil
	}
	t := now.
		AddDate(0, 0, -c.ExpirationPeriodDays).
		Add(-expirationSlackHours * time.Hour)
	return &t
}
