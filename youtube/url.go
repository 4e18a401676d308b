package youtube

import (
	"fmt"
	"regexp"
)

// videoIDPatterns cover the URL shapes the front-end accepts:
// watch?v=, embed/, shorts/, youtu.be/ short links, and bare v= params.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:watch\?v=)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`(?:embed/)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`(?:shorts/)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`(?:youtu\.be/)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})`),
}

// ExtractVideoID pulls the 11-character video ID out of a YouTube URL.
// The more specific patterns are tried first so that playlist and channel
// segments don't shadow the actual ID.
func ExtractVideoID(url string) (string, error) {
	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidURL, url)
}

// IsValidURL reports whether a video ID can be extracted from the URL.
func IsValidURL(url string) bool {
	_, err := ExtractVideoID(url)
	return err == nil
}

// WatchURL builds the canonical watch URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
