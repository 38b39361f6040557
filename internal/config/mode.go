package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Mode selects how the DCInside engine interprets a run.
type Mode int

const (
	// ModeRaw treats the input URL as a raw listing.
	ModeRaw Mode = iota
	// ModeKeyword searches within a target gallery.
	ModeKeyword
	// ModeGallog traverses a specific user's posting page.
	ModeGallog
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeKeyword:
		return "keyword"
	case ModeGallog:
		return "gallog"
	default:
		return "raw"
	}
}

// CrawlOptions are the caller-supplied inputs of one run.
type CrawlOptions struct {
	// ScenarioID scopes all persisted rows of the run.
	ScenarioID string
	// CrawlerCode selects the site mode via environment configuration.
	CrawlerCode string
	// URL is the run URL; required in gallog mode.
	URL string
	// Keyword is the search term; required in keyword mode.
	Keyword string
	// Target is the gallery id; required in keyword mode.
	Target string
	// Rehydrate enables the optional backlog-rescan phase.
	Rehydrate bool
	// DateFrom bounds the listing walk; rows strictly older stop it.
	DateFrom *time.Time
}

// ResolveMode matches the run's crawler code against the configured codes.
// Resolved once at construction and passed explicitly from then on.
func (c *Config) ResolveMode(crawlerCode string) Mode {
	switch {
	case c.KeywordCrawlerCode != "" && crawlerCode == c.KeywordCrawlerCode:
		return ModeKeyword
	case c.GallogCrawlerCode != "" && crawlerCode == c.GallogCrawlerCode:
		return ModeGallog
	default:
		return ModeRaw
	}
}

// StartURL builds the first listing URL for the resolved mode.
// Missing required options yield an *OptionError.
func (c *Config) StartURL(mode Mode, opts CrawlOptions) (string, error) {
	switch mode {
	case ModeKeyword:
		if opts.Keyword == "" {
			return "", &OptionError{Option: "keyword", Mode: mode}
		}
		if opts.Target == "" {
			return "", &OptionError{Option: "target", Mode: mode}
		}
		q := url.Values{}
		q.Set("id", opts.Target)
		q.Set("s_type", "search_subject_memo")
		q.Set("s_keyword", opts.Keyword)
		return fmt.Sprintf("%s/board/lists/?%s", c.DCHost, q.Encode()), nil

	case ModeGallog:
		if opts.URL == "" {
			return "", &OptionError{Option: "url", Mode: mode}
		}
		return strings.TrimRight(opts.URL, "/") + "/posting", nil

	default:
		if opts.URL != "" {
			return opts.URL, nil
		}
		if opts.Target != "" {
			return fmt.Sprintf("%s/board/lists/?id=%s", c.DCHost, url.QueryEscape(opts.Target)), nil
		}
		return "", &OptionError{Option: "url or target", Mode: mode}
	}
}

// BaseURL derives the host root board endpoints like the comment API are
// built on. Keyword and gallog runs always target the gallery host: a gallog
// start URL lives on a different origin than the board its posts belong to.
// Raw mode trusts the input URL's origin.
func (c *Config) BaseURL(mode Mode, startURL string) string {
	if mode != ModeRaw {
		return c.DCHost
	}
	u, err := url.Parse(startURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return c.DCHost
	}
	return u.Scheme + "://" + u.Host
}
