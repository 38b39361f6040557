package dcinside

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// commentEndpointPath is the comment API path, POSTed with the form body
// built by CommentForm.
const commentEndpointPath = "/board/comment/"

// CommentItem is one entry of a comment API response page.
type CommentItem struct {
	// No is the board-local comment number. Control rows come without one
	// and are never persisted.
	No FlexString `json:"no"`
	// DelYN is "Y" for deleted comments.
	DelYN string `json:"del_yn"`
	// Memo is the comment body as an HTML snippet.
	Memo    string `json:"memo"`
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	IP      string `json:"ip"`
	RegDate string `json:"reg_date"`
}

// FlexString decodes JSON values that arrive as either a string or a
// number. The comment API is not consistent about the "no" field.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// commentEnvelope is the documented object form of the comment response.
type commentEnvelope struct {
	Comments []CommentItem `json:"comments"`
}

// ParseCommentsResponse decodes a comment API response. The upstream is
// assumed to return {"comments": [...]}, but a bare array is accepted too.
// An empty list is the normal end of the thread, reported as ErrEndOfPage.
func ParseCommentsResponse(body []byte) ([]CommentItem, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, ErrEndOfPage
	}

	items, err := decodeCommentItems(trimmed)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEndOfPage
	}
	return items, nil
}

// decodeCommentItems accepts both the object and bare-array response forms.
func decodeCommentItems(trimmed []byte) ([]CommentItem, error) {
	var envelope commentEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err == nil {
		return envelope.Comments, nil
	}

	var items []CommentItem
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("%w: comment response: %v", ErrParse, err)
	}
	return items, nil
}

// CommentForm builds the form body of one comment API page request. The
// field set is what the board's own frontend sends; sort is pinned to "N"
// (newest first on the server, order preserved as returned).
func CommentForm(info GalleryInfo, esno string, page int) url.Values {
	gallType := string(info.GallType)
	if gallType == "" {
		gallType = string(GallTypeGeneral)
	}

	form := url.Values{}
	form.Set("id", info.GalleryID)
	form.Set("no", info.PostNo)
	form.Set("cmt_id", info.GalleryID)
	form.Set("cmt_no", info.PostNo)
	form.Set("focus_cno", "")
	form.Set("focus_pno", "")
	form.Set("prevCnt", "")
	form.Set("board_type", "")
	form.Set("e_s_n_o", esno)
	form.Set("sort", "N")
	form.Set("_GALLTYPE_", gallType)
	form.Set("comment_page", strconv.Itoa(page))
	return form
}

// StripHTML converts an HTML snippet to plain text, preserving visible
// content only.
func StripHTML(snippet string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snippet))
	if err != nil {
		return strings.TrimSpace(snippet)
	}
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("script, style").Remove()
	return strings.TrimSpace(doc.Text())
}
