package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"yttmp3/demo/client"
	"yttmp3/types"
)

// State represents the application state machine
type State string

const (
	StateInput      State = "input"
	StateFetching   State = "fetching"
	StateReady      State = "ready"
	StateConverting State = "converting"
	StateComplete   State = "complete"
	StateError      State = "error"
)

// Model represents the TUI client state
type Model struct {
	// API client
	Client *client.Client

	// Local UI state
	State        State
	URL          string
	Info         *types.VideoInfo
	SavedPath    string
	SavedSize    int64
	StartedAt    time.Time
	Elapsed      time.Duration
	Percent      int
	PercentKnown bool
	Err          error
}

// NewModel creates a new TUI model
func NewModel(apiURL string) Model {
	return Model{
		Client: client.NewClient(apiURL),
		State:  StateInput,
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return nil
}

// Reset returns the model to the URL input state.
func (m Model) Reset() Model {
	m.State = StateInput
	m.URL = ""
	m.Info = nil
	m.SavedPath = ""
	m.SavedSize = 0
	m.Elapsed = 0
	m.Percent = 0
	m.PercentKnown = false
	m.Err = nil
	return m
}
