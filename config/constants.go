package config

import "time"

// Conversion Constants
const (
	// MaxConcurrentConversions limits the number of conversions running simultaneously
	MaxConcurrentConversions = 2

	// MaxOutputFileSize is the maximum allowed size of a converted MP3 in bytes (500MB)
	MaxOutputFileSize = 500 * 1024 * 1024

	// ExtractTimeout bounds a single metadata extraction attempt
	ExtractTimeout = 60 * time.Second

	// DownloadTimeout bounds the download plus encode of a single video
	DownloadTimeout = 15 * time.Minute

	// StrategyDelayMin is the minimum pause between extraction fallback attempts
	StrategyDelayMin = 500 * time.Millisecond

	// StrategyDelayMax is the maximum pause between extraction fallback attempts
	StrategyDelayMax = 1500 * time.Millisecond
)

// Audio Output Constants
const (
	// AudioCodec is the MP3 encoder used by ffmpeg
	AudioCodec = "libmp3lame"

	// AudioBitrate is the output quality bitrate
	AudioBitrate = "320k"

	// AudioFormat is the container/extension of converted files
	AudioFormat = "mp3"
)

// Metadata Constants
const (
	// MaxTitleLength is the maximum character length for sanitized filenames
	MaxTitleLength = 100

	// MaxDescriptionLength is the number of description characters returned to clients
	MaxDescriptionLength = 200
)

// Directory Constants
const (
	// WorkDirPrefix is the prefix of the per-process temp directory for conversions
	WorkDirPrefix = "yttmp3_"
)

// Cookie Constants
const (
	// MinCookieFileSize is the minimum size in bytes for a cookies.txt to be considered usable.
	// Smaller files are placeholders left by browser exports that failed.
	MinCookieFileSize = 100
)

// Signature Constants
const (
	// SignatureTTL is how long an issued download token stays valid
	SignatureTTL = 15 * time.Minute
)

// Progress Constants
const (
	// ProgressTTL is how long progress entries are retained after last update
	ProgressTTL = 30 * time.Minute
)

// Kafka Constants
const (
	// ConversionsTopic receives one event per finished conversion
	ConversionsTopic = "yttmp3.conversions"
)
