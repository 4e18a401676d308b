package tui

import (
	"fmt"
	"strings"
	"time"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	// Title
	b.WriteString(TitleStyle.Render("yttmp3 Converter Demo"))
	b.WriteString("\n\n")

	switch m.State {
	case StateInput:
		b.WriteString(InfoStyle.Render(TextInputPrompt))
		b.WriteString("\n\n")
		b.WriteString("> " + m.URL + "█")
		b.WriteString("\n\n")
		b.WriteString(InfoStyle.Render(TextFooterInput))

	case StateFetching:
		b.WriteString(StatusStyle.Render("Fetching video info..."))
		b.WriteString("\n\n")
		b.WriteString(InfoStyle.Render(m.URL))

	case StateReady:
		b.WriteString(BoxStyle.Render(m.formatInfo()))
		b.WriteString("\n\n")
		b.WriteString(StatusStyle.Render(TextDownloadPrompt))
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render(TextFooterReady))

	case StateConverting:
		b.WriteString(BoxStyle.Render(m.formatInfo()))
		b.WriteString("\n\n")
		status := fmt.Sprintf("Converting to MP3... %s", m.Elapsed.Round(time.Second))
		if m.PercentKnown {
			status = fmt.Sprintf("Converting to MP3... %d%% (%s)", m.Percent, m.Elapsed.Round(time.Second))
		}
		b.WriteString(StatusStyle.Render(status))
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render(TextFooterWaiting))

	case StateComplete:
		result := fmt.Sprintf("Saved %s (%.2f MB) in %s",
			m.SavedPath, float64(m.SavedSize)/(1024*1024), m.Elapsed.Round(time.Second))
		b.WriteString(HighlightStyle.Render(" Done "))
		b.WriteString("\n\n")
		b.WriteString(StatusStyle.Render(result))
		b.WriteString("\n\n")
		b.WriteString(InfoStyle.Render(TextFooterDone))

	case StateError:
		b.WriteString(ErrorStyle.Render("Error: " + m.Err.Error()))
		b.WriteString("\n\n")
		b.WriteString(InfoStyle.Render(TextFooterDone))
	}

	b.WriteString("\n")
	return b.String()
}

// formatInfo renders the fetched metadata block
func (m Model) formatInfo() string {
	if m.Info == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Title:    %s\n", m.Info.Title))
	b.WriteString(fmt.Sprintf("Channel:  %s\n", m.Info.Channel))
	b.WriteString(fmt.Sprintf("Duration: %s\n", m.Info.Duration))
	if m.Info.ViewCount > 0 {
		b.WriteString(fmt.Sprintf("Views:    %d\n", m.Info.ViewCount))
	}
	b.WriteString(fmt.Sprintf("ID:       %s", m.Info.VideoID))
	return b.String()
}
