package types

import "time"

// VideoInfo is the normalized metadata returned to clients for a YouTube video.
// Field names mirror what the front-end binds to.
type VideoInfo struct {
	VideoID     string `json:"videoId"`
	Title       string `json:"title"`
	Duration    string `json:"duration"` // formatted M:SS
	Thumbnail   string `json:"thumbnail"`
	Channel     string `json:"channel"`
	ViewCount   int64  `json:"viewCount"`
	UploadDate  string `json:"uploadDate"`
	Description string `json:"description"`

	// Signature is a download token issued when request signing is enabled.
	Signature string `json:"signature,omitempty"`
}

// ConversionEvent is published after a conversion finishes, successfully or not.
type ConversionEvent struct {
	JobID       string    `json:"job_id"`
	VideoID     string    `json:"video_id"`
	Title       string    `json:"title"`
	OutputBytes int64     `json:"output_bytes"`
	Duration    float64   `json:"duration_seconds"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	FinishedAt  time.Time `json:"finished_at"`
}
