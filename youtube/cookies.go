package youtube

import (
	"os"

	"yttmp3/config"
)

// ResolveCookieFile returns the cookie file path if it points at a usable
// Netscape cookies.txt. Files at or below the minimum size are placeholders
// (empty exports) and are treated as absent, matching how the extraction
// library would silently fail with them.
func ResolveCookieFile(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	if info.Size() <= config.MinCookieFileSize {
		return "", false
	}
	return path, true
}
