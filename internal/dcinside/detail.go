package dcinside

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// PostDetail is the parsed form of a post view page.
type PostDetail struct {
	// PostNo is the board-local post number from the hidden view form.
	PostNo string
	// ESNO is the opaque token the comment API requires, harvested from
	// input#e_s_n_o.
	ESNO       string
	Title      string
	Contents   string
	Writer     *string
	WriterID   *string
	WriterIP   *string
	WrittenAt  time.Time
	LikeCnt    int
	DislikeCnt *int
	CommentCnt int
}

// trailingIntPattern matches the last integer (with optional thousands
// commas) in a string, e.g. the count inside "댓글 1,234".
var trailingIntPattern = regexp.MustCompile(`([0-9][0-9,]*)\s*$`)

// ParsePostDetail parses a post view page.
func ParsePostDetail(body []byte) (*PostDetail, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: post document: %v", ErrParse, err)
	}

	form := doc.Find("form#_view_form_").First()
	if form.Length() == 0 {
		// Deleted or moved posts render without the view form.
		return nil, fmt.Errorf("%w: view form missing", ErrParse)
	}

	postNo, _ := form.Find("input#no").Attr("value")
	if postNo == "" {
		return nil, fmt.Errorf("%w: post number missing", ErrParse)
	}
	esno, _ := form.Find("input#e_s_n_o").Attr("value")

	wrap := doc.Find("div.view_content_wrap").First()
	if wrap.Length() == 0 {
		return nil, fmt.Errorf("%w: view content missing", ErrParse)
	}

	detail := &PostDetail{
		PostNo:   postNo,
		ESNO:     esno,
		Title:    strings.TrimSpace(wrap.Find("span.title_subject").First().Text()),
		Contents: strings.TrimSpace(wrap.Find("div.write_div").First().Text()),
	}

	writerBox := wrap.Find("div.gall_writer").First()
	detail.Writer = optionalAttr(writerBox, "data-nick")
	detail.WriterID = optionalAttr(writerBox, "data-uid")
	detail.WriterIP = optionalAttr(writerBox, "data-ip")

	writtenAt, err := extractWrittenAt(wrap)
	if err != nil {
		return nil, err
	}
	detail.WrittenAt = writtenAt

	detail.LikeCnt = countText(doc.Find("p#recommend_view_up_" + postNo).First().Text())
	if down := doc.Find("p#recommend_view_down_" + postNo).First(); down.Length() > 0 {
		n := countText(down.Text())
		detail.DislikeCnt = &n
	}
	detail.CommentCnt = countText(wrap.Find("span.gall_comment").First().Text())

	return detail, nil
}

// extractWrittenAt reads the post timestamp, preferring the title attribute
// of the date span over its display text.
func extractWrittenAt(wrap *goquery.Selection) (time.Time, error) {
	dateSpan := wrap.Find("span.gall_date").First()
	raw, ok := dateSpan.Attr("title")
	if !ok || strings.TrimSpace(raw) == "" {
		raw = dateSpan.Text()
	}
	t, err := ParseTimestamp(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("post date: %w", err)
	}
	return t, nil
}

// optionalAttr returns a pointer to a non-empty attribute value, nil
// otherwise.
func optionalAttr(sel *goquery.Selection, name string) *string {
	v, ok := sel.Attr(name)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return nil
	}
	return &v
}

// countText extracts the trailing integer of a count label, stripping
// thousands commas. Missing or malformed counts read as zero.
func countText(s string) int {
	m := trailingIntPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0
	}
	return n
}
