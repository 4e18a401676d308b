// Package metadata fetches video metadata from the YouTube Data API. It is
// the fallback path when yt-dlp extraction fails for a video that is still
// publicly listed.
package metadata

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"yttmp3/config"
	"yttmp3/types"
	yt "yttmp3/youtube"
)

// Client wraps the YouTube Data API v3 videos endpoint.
type Client struct {
	service *ytapi.Service
}

// NewClient creates a Data API client authenticated with an API key.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	service, err := ytapi.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("unable to create YouTube service: %w", err)
	}
	return &Client{service: service}, nil
}

// FetchInfo looks up a video by ID and normalizes it into the same shape the
// extractor produces.
func (c *Client) FetchInfo(ctx context.Context, videoID string) (*types.VideoInfo, error) {
	call := c.service.Videos.
		List([]string{"snippet", "contentDetails", "statistics"}).
		Id(videoID).
		Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("videos.list failed: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, yt.ErrUnavailable
	}

	item := resp.Items[0]
	info := &types.VideoInfo{
		VideoID:  videoID,
		Title:    "Unknown Title",
		Channel:  "Unknown Channel",
		Duration: "Unknown",
	}

	if item.Snippet != nil {
		if item.Snippet.Title != "" {
			info.Title = item.Snippet.Title
		}
		if item.Snippet.ChannelTitle != "" {
			info.Channel = item.Snippet.ChannelTitle
		}
		info.Thumbnail = bestThumbnail(item.Snippet.Thumbnails)
		info.UploadDate = normalizeUploadDate(item.Snippet.PublishedAt)

		description := item.Snippet.Description
		if len(description) > config.MaxDescriptionLength {
			description = description[:config.MaxDescriptionLength] + "..."
		}
		info.Description = description
	}

	if item.ContentDetails != nil {
		seconds, err := ParseISODuration(item.ContentDetails.Duration)
		if err == nil {
			info.Duration = yt.FormatDuration(seconds)
		}
	}

	if item.Statistics != nil {
		info.ViewCount = int64(item.Statistics.ViewCount)
	}

	return info, nil
}

// bestThumbnail picks the highest resolution thumbnail the API returned.
func bestThumbnail(details *ytapi.ThumbnailDetails) string {
	if details == nil {
		return ""
	}
	for _, t := range []*ytapi.Thumbnail{details.Maxres, details.Standard, details.High, details.Medium, details.Default} {
		if t != nil && t.Url != "" {
			return t.Url
		}
	}
	return ""
}

// normalizeUploadDate converts RFC3339 publish timestamps into the YYYYMMDD
// form yt-dlp reports, so both metadata paths look identical to clients.
func normalizeUploadDate(publishedAt string) string {
	t, err := time.Parse(time.RFC3339, publishedAt)
	if err != nil {
		return ""
	}
	return t.Format("20060102")
}
