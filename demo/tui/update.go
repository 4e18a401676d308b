package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case InfoFetchedMsg:
		return m.handleInfoFetched(msg)
	case DownloadCompleteMsg:
		return m.handleDownloadComplete(msg)
	case TickMsg:
		if m.State == StateConverting {
			m.Elapsed = time.Since(m.StartedAt)
			return m, tea.Batch(tickCmd(), pollProgress(m.Client, m.Info.VideoID))
		}
	case ProgressMsg:
		if m.State == StateConverting && msg.Known {
			m.Percent = msg.Percent
			m.PercentKnown = true
		}
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter:
		if m.State == StateInput && m.URL != "" {
			m.State = StateFetching
			return m, fetchInfo(m.Client, m.URL)
		}
	case tea.KeyBackspace:
		if m.State == StateInput && len(m.URL) > 0 {
			m.URL = m.URL[:len(m.URL)-1]
		}
		return m, nil
	case tea.KeyRunes:
		if m.State == StateInput {
			m.URL += string(msg.Runes)
			return m, nil
		}
	}

	switch msg.String() {
	case "q":
		if m.State != StateInput {
			return m, tea.Quit
		}
	case "d", "D":
		if m.State == StateReady && m.Info != nil {
			m.State = StateConverting
			m.StartedAt = time.Now()
			return m, tea.Batch(
				startDownload(m.Client, m.URL, m.Info.Title, m.Info.Signature),
				tickCmd(),
			)
		}
	case "n", "N":
		if m.State == StateComplete || m.State == StateError {
			return m.Reset(), nil
		}
	}
	return m, nil
}

// handleInfoFetched processes metadata extraction results
func (m Model) handleInfoFetched(msg InfoFetchedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = msg.Err
		return m, nil
	}
	m.State = StateReady
	m.Info = msg.Info
	return m, nil
}

// handleDownloadComplete processes the finished conversion
func (m Model) handleDownloadComplete(msg DownloadCompleteMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = msg.Err
		return m, nil
	}
	m.State = StateComplete
	m.SavedPath = msg.Path
	m.SavedSize = msg.Size
	m.Elapsed = time.Since(m.StartedAt)
	return m, nil
}
