package dcinside

import (
	"fmt"
	"strings"
	"time"
)

// KST is Korea Standard Time. All upstream timestamps are interpreted here
// regardless of the runner's local clock.
var KST = time.FixedZone("KST", 9*60*60)

// timestampLayouts are the full-timestamp forms the upstream emits: dot or
// dash separators, with or without seconds.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006.01.02 15:04:05",
	"2006-01-02 15:04",
	"2006.01.02 15:04",
	"2006-01-02",
	"2006.01.02",
}

// shortLayouts are comment-date forms with the year omitted.
var shortLayouts = []string{
	"01.02 15:04:05",
	"01-02 15:04:05",
	"01.02 15:04",
	"01-02 15:04",
}

// ParseTimestamp parses a full upstream timestamp in KST.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, KST); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized timestamp %q", ErrParse, s)
}

// ParseListingDate parses the date cell of a keyword-mode listing row. The
// title attribute carries "YYYY-MM-DD HH:mm:ss"; only the date portion is
// significant, with the time fixed to midnight KST.
func ParseListingDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	return ParseTimestamp(s)
}

// ParseGallogDate parses the "YYYY.MM.DD" date of a gallog listing row.
func ParseGallogDate(s string) (time.Time, error) {
	return ParseTimestamp(s)
}

// ParseCommentDate parses a comment registration date. The upstream omits
// the year on recent comments ("MM.DD HH:mm:ss"); the current KST year is
// prepended in that case. A "02.29" carried into a non-leap year normalizes
// to March 1 per time.Date.
func ParseCommentDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := ParseTimestamp(s); err == nil {
		return t, nil
	}
	for _, layout := range shortLayouts {
		if t, err := time.ParseInLocation(layout, s, KST); err == nil {
			year := now.In(KST).Year()
			return time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, KST), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized comment date %q", ErrParse, s)
}
