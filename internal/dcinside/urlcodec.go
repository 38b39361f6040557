package dcinside

import (
	"fmt"
	"net/url"
	"strings"
)

// GallType identifies the gallery variant a post belongs to.
type GallType string

// Gallery variants, derived from the URL path prefix.
const (
	GallTypeMinor   GallType = "M"  // /mgallery/
	GallTypeMini    GallType = "MI" // /mini/
	GallTypeGeneral GallType = "G"  // /board/
)

// platformPrefix is the leading token of every platform id.
const platformPrefix = "DC"

// platformSep joins platform id components.
const platformSep = "&"

// CanonicalHost is the host every platform id decodes back to.
const CanonicalHost = "https://gall.dcinside.com"

// viewPathByType maps a gallery type to its post view path.
var viewPathByType = map[GallType]string{
	GallTypeMinor:   "/mgallery/board/view",
	GallTypeMini:    "/mini/board/view",
	GallTypeGeneral: "/board/view",
}

// GalleryInfo is the structured decomposition of a gallery URL.
type GalleryInfo struct {
	GallType  GallType
	GalleryID string
	// PostNo is empty for listing URLs.
	PostNo string
}

// GalleryKey returns the "<gallType>&<galleryId>" key comments are filed
// under.
func (g GalleryInfo) GalleryKey() string {
	return string(g.GallType) + platformSep + g.GalleryID
}

// ExtractGalleryInfo decodes a DCInside URL into its gallery type, gallery
// id and optional post number. The gallery id is mandatory.
func ExtractGalleryInfo(rawURL string) (GalleryInfo, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return GalleryInfo{}, fmt.Errorf("%w: %q: %v", ErrInvalidURL, rawURL, err)
	}

	gallType, err := gallTypeFromPath(u.Path)
	if err != nil {
		return GalleryInfo{}, fmt.Errorf("%w: %q", err, rawURL)
	}

	q := u.Query()
	galleryID := q.Get("id")
	if galleryID == "" {
		return GalleryInfo{}, fmt.Errorf("%w: missing gallery id in %q", ErrInvalidURL, rawURL)
	}

	return GalleryInfo{
		GallType:  gallType,
		GalleryID: galleryID,
		PostNo:    q.Get("no"),
	}, nil
}

// gallTypeFromPath derives the gallery type from a URL path.
func gallTypeFromPath(path string) (GallType, error) {
	switch {
	case strings.Contains(path, "/mgallery/"):
		return GallTypeMinor, nil
	case strings.Contains(path, "/mini/"):
		return GallTypeMini, nil
	case strings.Contains(path, "/board/"):
		return GallTypeGeneral, nil
	default:
		return "", ErrInvalidURL
	}
}

// URLToPlatformID converts a post view URL into the canonical platform id
// "DC&<gallType>&<galleryId>&<postNo>".
func URLToPlatformID(rawURL string) (string, error) {
	info, err := ExtractGalleryInfo(rawURL)
	if err != nil {
		return "", err
	}
	if info.PostNo == "" {
		return "", fmt.Errorf("%w: missing post number in %q", ErrInvalidURL, rawURL)
	}
	return strings.Join(
		[]string{platformPrefix, string(info.GallType), info.GalleryID, info.PostNo},
		platformSep,
	), nil
}

// PlatformIDToURL reconstructs the canonical post view URL from a platform
// id. The inverse of URLToPlatformID under the canonical host.
func PlatformIDToURL(platformID string) (string, error) {
	info, err := ParsePlatformID(platformID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s?id=%s&no=%s",
		CanonicalHost, viewPathByType[info.GallType], info.GalleryID, info.PostNo), nil
}

// ParsePlatformID decomposes a platform post id.
func ParsePlatformID(platformID string) (GalleryInfo, error) {
	parts := strings.Split(platformID, platformSep)
	if len(parts) != 4 || parts[0] != platformPrefix {
		return GalleryInfo{}, fmt.Errorf("%w: %q", ErrInvalidPlatformID, platformID)
	}

	gallType := GallType(parts[1])
	if _, ok := viewPathByType[gallType]; !ok {
		return GalleryInfo{}, fmt.Errorf("%w: unknown gallery type in %q", ErrInvalidPlatformID, platformID)
	}
	if parts[2] == "" || parts[3] == "" {
		return GalleryInfo{}, fmt.Errorf("%w: %q", ErrInvalidPlatformID, platformID)
	}

	return GalleryInfo{GallType: gallType, GalleryID: parts[2], PostNo: parts[3]}, nil
}

// CommentPlatformID builds "<platformPostId>&<commentNo>".
func CommentPlatformID(platformPostID, commentNo string) string {
	return platformPostID + platformSep + commentNo
}
