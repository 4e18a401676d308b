package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"yttmp3/config"
	"yttmp3/types"
)

// Extractor negotiates with YouTube through yt-dlp to fetch metadata and
// download audio streams. It owns the client-impersonation fallback chain:
// some videos only extract cleanly through the android/ios/tv player clients.
type Extractor struct {
	cookieFile string
	workDir    string
}

// NewExtractor creates an extractor. cookieFile may be empty; it is only used
// when it resolves to a usable cookies.txt.
func NewExtractor(cookieFile, workDir string) *Extractor {
	resolved, ok := ResolveCookieFile(cookieFile)
	if ok {
		log.Printf("Using cookies file for authentication: %s", resolved)
	} else {
		log.Println("No usable cookies file, proceeding without authentication")
	}
	return &Extractor{
		cookieFile: resolved,
		workDir:    workDir,
	}
}

// strategy is one extraction attempt configuration. Strategies are tried in
// order until one succeeds.
type strategy struct {
	name  string
	apply func(dl *ytdlp.Command)
}

const (
	androidUserAgent = "com.google.android.youtube/19.09.37 (Linux; U; Android 11) gzip"
	iosUserAgent     = "com.google.ios.youtube/19.09.3 (iPhone14,3; U; CPU iOS 15_6 like Mac OS X)"
)

func (e *Extractor) strategies() []strategy {
	return []strategy{
		{
			name: "web_with_cookies",
			apply: func(dl *ytdlp.Command) {
				if e.cookieFile != "" {
					dl.Cookies(e.cookieFile)
				}
			},
		},
		{
			name: "android_client",
			apply: func(dl *ytdlp.Command) {
				dl.ExtractorArgs("youtube:player_client=android;player_skip=webpage")
				dl.AddHeaders("User-Agent:" + androidUserAgent)
			},
		},
		{
			name: "ios_client",
			apply: func(dl *ytdlp.Command) {
				dl.ExtractorArgs("youtube:player_client=ios;player_skip=webpage")
				dl.AddHeaders("User-Agent:" + iosUserAgent)
			},
		},
		{
			name: "tv_client",
			apply: func(dl *ytdlp.Command) {
				dl.ExtractorArgs("youtube:player_client=tv_embedded;player_skip=webpage")
			},
		},
	}
}

// rawInfo is the subset of the yt-dlp info JSON the service cares about.
// Everything else in the dump is ignored.
type rawInfo struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Duration   float64 `json:"duration"`
	Thumbnail  string  `json:"thumbnail"`
	Thumbnails []struct {
		URL string `json:"url"`
	} `json:"thumbnails"`
	Uploader    string `json:"uploader"`
	ViewCount   int64  `json:"view_count"`
	UploadDate  string `json:"upload_date"`
	Description string `json:"description"`
}

// FetchInfo extracts metadata for a video URL, walking the fallback chain.
func (e *Extractor) FetchInfo(ctx context.Context, url string) (*types.VideoInfo, error) {
	var lastErr error

	for i, st := range e.strategies() {
		if i > 0 {
			select {
			case <-time.After(strategyDelay()):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, config.ExtractTimeout)
		info, err := e.fetchInfoOnce(attemptCtx, url, st)
		cancel()

		if err == nil {
			log.Printf("Extracted info using strategy %s", st.name)
			return info, nil
		}
		log.Printf("Extraction strategy %s failed: %v", st.name, err)
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, ClassifyExtractionError(lastErr)
}

func (e *Extractor) fetchInfoOnce(ctx context.Context, url string, st strategy) (*types.VideoInfo, error) {
	dl := ytdlp.New().
		NoWarnings().
		NoPlaylist().
		SkipDownload().
		DumpSingleJSON()
	st.apply(dl)

	result, err := dl.Run(ctx, url)
	if err != nil {
		return nil, err
	}

	var raw rawInfo
	if err := json.Unmarshal([]byte(result.Stdout), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse info JSON: %w", err)
	}
	if raw.ID == "" {
		return nil, ErrNoMetadata
	}

	return normalizeInfo(&raw), nil
}

// normalizeInfo converts the raw yt-dlp dump into the API response shape.
func normalizeInfo(raw *rawInfo) *types.VideoInfo {
	thumbnail := raw.Thumbnail
	if len(raw.Thumbnails) > 0 {
		// The list is ordered worst to best; take the highest quality one.
		thumbnail = raw.Thumbnails[len(raw.Thumbnails)-1].URL
	}

	title := raw.Title
	if title == "" {
		title = "Unknown Title"
	}
	channel := raw.Uploader
	if channel == "" {
		channel = "Unknown Channel"
	}

	description := raw.Description
	if len(description) > config.MaxDescriptionLength {
		description = description[:config.MaxDescriptionLength] + "..."
	}

	return &types.VideoInfo{
		VideoID:     raw.ID,
		Title:       title,
		Duration:    FormatDuration(raw.Duration),
		Thumbnail:   thumbnail,
		Channel:     channel,
		ViewCount:   raw.ViewCount,
		UploadDate:  raw.UploadDate,
		Description: description,
	}
}

// FormatDuration renders a duration in seconds as M:SS, or "Unknown" when the
// platform did not report one.
func FormatDuration(seconds float64) string {
	if seconds <= 0 {
		return "Unknown"
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// DownloadAudio downloads the best audio stream for a URL into the work
// directory and returns the path of the downloaded file. progress, if
// non-nil, receives values in 0..100 as the download advances.
func (e *Extractor) DownloadAudio(ctx context.Context, url string, progress func(percent float64)) (string, error) {
	dl := ytdlp.New().
		NoWarnings().
		NoPlaylist().
		ForceOverwrites().
		RestrictFilenames().
		Format("bestaudio[ext=m4a]/bestaudio/best").
		Output(filepath.Join(e.workDir, "%(id)s.%(ext)s"))

	if e.cookieFile != "" {
		dl.Cookies(e.cookieFile)
	}
	// The android and tv clients are the most reliable for stream URLs.
	dl.ExtractorArgs("youtube:player_client=android,tv_embedded")

	if progress != nil {
		dl.ProgressFunc(500*time.Millisecond, func(update ytdlp.ProgressUpdate) {
			if update.TotalBytes > 0 {
				progress(float64(update.DownloadedBytes) / float64(update.TotalBytes) * 100)
			}
		})
	}

	result, err := dl.Run(ctx, url)
	if err != nil {
		return "", ClassifyExtractionError(err)
	}

	info, err := result.GetExtractedInfo()
	if err != nil || len(info) == 0 || info[0].Filename == nil {
		return "", fmt.Errorf("download finished but no output file reported")
	}
	return *info[0].Filename, nil
}

func strategyDelay() time.Duration {
	spread := config.StrategyDelayMax - config.StrategyDelayMin
	return config.StrategyDelayMin + time.Duration(rand.Int63n(int64(spread)))
}
