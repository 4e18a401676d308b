package tui

// UI Text Constants
const (
	// Instructions
	TextInputPrompt    = "Paste a YouTube URL and press Enter"
	TextDownloadPrompt = "Press 'd' to convert to MP3"
	TextAnotherPrompt  = "Press 'n' for another URL"

	// Footer
	TextFooterInput   = "Enter to fetch info | Ctrl+C to quit"
	TextFooterReady   = "Press 'd' to download | 'n' for another URL | 'q' to quit"
	TextFooterWaiting = "Converting... | 'q' to quit"
	TextFooterDone    = "Press 'n' for another URL | 'q' to quit"
)
