package tui

import (
	"time"

	"yttmp3/types"
)

// Messages for the tea program

// InfoFetchedMsg is sent when metadata extraction finishes
type InfoFetchedMsg struct {
	Info *types.VideoInfo
	Err  error
}

// DownloadCompleteMsg is sent when the MP3 has been saved locally
type DownloadCompleteMsg struct {
	Path string
	Size int64
	Err  error
}

// TickMsg is sent periodically while a conversion is running
type TickMsg struct {
	Time time.Time
}

// ProgressMsg carries the server-reported conversion percentage
type ProgressMsg struct {
	Percent int
	Known   bool
}
