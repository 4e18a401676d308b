package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"yttmp3/demo/client"
)

// fetchInfo creates a command that requests metadata for a URL
func fetchInfo(c *client.Client, url string) tea.Cmd {
	return func() tea.Msg {
		info, err := c.FetchInfo(url)
		return InfoFetchedMsg{Info: info, Err: err}
	}
}

// startDownload creates a command that converts and saves the MP3
func startDownload(c *client.Client, url, title, signature string) tea.Cmd {
	return func() tea.Msg {
		path, size, err := c.Download(url, title, signature, ".")
		return DownloadCompleteMsg{Path: path, Size: size, Err: err}
	}
}

// pollProgress creates a command that asks the server how far along the
// conversion for a video is
func pollProgress(c *client.Client, videoID string) tea.Cmd {
	return func() tea.Msg {
		percent, known, err := c.Progress(videoID)
		if err != nil {
			// Polling is cosmetic; the download command reports real failures.
			return ProgressMsg{}
		}
		return ProgressMsg{Percent: percent, Known: known}
	}
}

// tickCmd creates a command that ticks every 500ms while converting
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
