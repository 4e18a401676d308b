package convert

import (
	"strings"

	"yttmp3/config"
)

// SafeTitle reduces a video title to a filename-safe form: alphanumerics plus
// space, dash, and underscore, trimmed and capped. Falls back to "audio" when
// nothing survives.
func SafeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}

	safe := strings.TrimSpace(b.String())
	if len(safe) > config.MaxTitleLength {
		safe = strings.TrimSpace(safe[:config.MaxTitleLength])
	}
	if safe == "" {
		return "audio"
	}
	return safe
}
