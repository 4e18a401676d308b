package youtube

import (
	"errors"
	"strings"
)

// Sentinel errors for the failure modes the API maps to distinct status codes.
var (
	// ErrInvalidURL means no video ID could be extracted from the input
	ErrInvalidURL = errors.New("invalid YouTube URL")

	// ErrAgeRestricted means the platform demanded a signed-in session
	ErrAgeRestricted = errors.New("age-restricted content, cookies required")

	// ErrUnavailable means the video is private, deleted, or region-blocked
	ErrUnavailable = errors.New("video is unavailable or private")

	// ErrNoMetadata means extraction succeeded but produced no usable info
	ErrNoMetadata = errors.New("could not extract video information")
)

// ClassifyExtractionError maps raw yt-dlp output to a sentinel error so the
// HTTP layer can pick a status code. Unrecognized errors pass through.
func ClassifyExtractionError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "sign in") || strings.Contains(msg, "age"):
		return ErrAgeRestricted
	case strings.Contains(msg, "private") || strings.Contains(msg, "unavailable"):
		return ErrUnavailable
	}
	return err
}
