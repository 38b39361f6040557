// Package dcinside implements the DCInside crawl engine: listing walker,
// post/comment collector, parsers and the URL codec.
package dcinside

import "errors"

// Error types for the dcinside package.
var (
	// ErrInvalidURL is returned when a URL cannot be decoded into a
	// DCInside platform id. Never retried; the walker skips the row.
	ErrInvalidURL = errors.New("invalid DCInside URL")

	// ErrInvalidPlatformID is returned when a platform id string does not
	// have the canonical DC&<gallType>&<galleryId>&<postNo> shape.
	ErrInvalidPlatformID = errors.New("invalid platform id")

	// ErrEndOfPage signals the normal end condition of the comment loop.
	ErrEndOfPage = errors.New("end of comment pages")

	// ErrParse is returned when an upstream document does not contain the
	// structure a parser requires. Logged at the item level and skipped.
	ErrParse = errors.New("parse failed")
)
