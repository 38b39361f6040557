package dcinside

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/Harvester-LALA/CrawlerV2/internal/config"
)

// Upstream listing selectors. Keyword searches render a table, gallog user
// pages render a plain list.
const (
	keywordRowSelector    = "table.gall_list > tbody > tr"
	gallogRowSelector     = "ul.cont_listbox > li"
	keywordPagingSelector = "div.bottom_paging_box.iconpaging"
	gallogPagingSelector  = "div.cont_box div.bottom_paging_box.iconpaging"

	// noticeMarker appears in the number cell of notice rows.
	noticeMarker = "공지"
)

// ListingRow is one post candidate discovered on a listing page.
type ListingRow struct {
	// URL is the absolute post view URL.
	URL string
	// WrittenAt is the row's parsed date; nil when the cell was absent or
	// unparsable.
	WrittenAt *time.Time
}

// ListingPage is the parsed form of one listing document.
type ListingPage struct {
	Rows []ListingRow
	// PageURLs are the per-page links of the current pagination block.
	PageURLs []string
	// NextBlockURL advances to the next pagination block; empty when the
	// listing is exhausted.
	NextBlockURL string
}

// ParseListingPage parses a listing document for the given mode. Rows that
// are notices, ads, or unresolvable are dropped; a malformed pagination
// block yields an empty one rather than an error.
func ParseListingPage(body []byte, mode config.Mode, pageURL string) (*ListingPage, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: listing document: %v", ErrParse, err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: listing page url %q: %v", ErrParse, pageURL, err)
	}

	rowSelector := keywordRowSelector
	pagingSelector := keywordPagingSelector
	if mode == config.ModeGallog {
		rowSelector = gallogRowSelector
		pagingSelector = gallogPagingSelector
	}

	page := &ListingPage{}
	doc.Find(rowSelector).Each(func(_ int, row *goquery.Selection) {
		if parsed, ok := parseListingRow(row, mode, base); ok {
			page.Rows = append(page.Rows, parsed)
		}
	})

	paging := doc.Find(pagingSelector).First()
	page.PageURLs, page.NextBlockURL = parsePagination(paging, base)

	return page, nil
}

// parseListingRow classifies one row and extracts its view URL and date.
// Returns false for notices, ads, and rows without a resolvable link.
func parseListingRow(row *goquery.Selection, mode config.Mode, base *url.URL) (ListingRow, bool) {
	if !isPostRow(row) {
		return ListingRow{}, false
	}

	href, ok := selectRowHref(row)
	if !ok {
		return ListingRow{}, false
	}

	abs, err := resolveHref(base, href)
	if err != nil {
		return ListingRow{}, false
	}

	return ListingRow{URL: abs, WrittenAt: extractRowDate(row, mode)}, true
}

// isPostRow separates real post rows from notices and ads: a data-no
// attribute marks a post outright; otherwise the number cell must be purely
// numeric and free of the notice marker.
func isPostRow(row *goquery.Selection) bool {
	if _, ok := row.Attr("data-no"); ok {
		return true
	}

	num := strings.TrimSpace(row.Find("td.gall_num, .num").First().Text())
	if num == "" || strings.Contains(num, noticeMarker) {
		return false
	}
	for _, r := range num {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// selectRowHref picks the row's view link: the first anchor pointing at
// /board/view, then the title cell's anchor, then any anchor at all.
func selectRowHref(row *goquery.Selection) (string, bool) {
	var href string
	row.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		h, ok := a.Attr("href")
		if ok && strings.Contains(h, "/board/view") {
			href = h
			return false
		}
		return true
	})
	if href != "" {
		return href, true
	}

	if h, ok := row.Find("td.gall_tit a, .subject a").First().Attr("href"); ok && h != "" {
		return h, true
	}
	if h, ok := row.Find("a").First().Attr("href"); ok && h != "" {
		return h, true
	}
	return "", false
}

// extractRowDate reads the row date per mode: the keyword table carries a
// full timestamp in the date cell's title attribute (date portion only, at
// midnight KST); gallog rows hold "YYYY.MM.DD" in span.date.
func extractRowDate(row *goquery.Selection, mode config.Mode) *time.Time {
	if mode == config.ModeGallog {
		if raw := strings.TrimSpace(row.Find("span.date").First().Text()); raw != "" {
			if t, err := ParseGallogDate(raw); err == nil {
				return &t
			}
		}
		return nil
	}

	if title, ok := row.Find("td.gall_date").First().Attr("title"); ok {
		if t, err := ParseListingDate(title); err == nil {
			return &t
		}
	}
	return nil
}

// parsePagination enumerates the per-page links of the current block and
// locates the block-next link. Individual page links have no class; any
// classed anchor is block navigation and is skipped when enumerating pages.
func parsePagination(paging *goquery.Selection, base *url.URL) (pageURLs []string, nextBlockURL string) {
	if paging == nil || paging.Length() == 0 {
		return nil, ""
	}

	paging.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}

		class := a.AttrOr("class", "")
		if strings.Contains(class, "page_next") || strings.Contains(class, "search_next") {
			if abs, err := resolveHref(base, href); err == nil && nextBlockURL == "" {
				nextBlockURL = abs
			}
			return
		}
		if class != "" {
			return
		}

		if abs, err := resolveHref(base, href); err == nil {
			pageURLs = append(pageURLs, abs)
		}
	})

	return pageURLs, nextBlockURL
}

// resolveHref resolves href against base and rejects non-HTTP results.
func resolveHref(base *url.URL, href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidURL, href, err)
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, href)
	}
	return abs.String(), nil
}
