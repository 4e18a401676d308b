package convert

import (
	"fmt"
	"os"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"yttmp3/config"
)

// EncodeMP3 transcodes the downloaded audio stream at inputPath into a 320k
// MP3 at outputPath, tagging it with the video title and channel. The input
// file is left in place; callers own cleanup of both paths.
func EncodeMP3(inputPath, outputPath, title, artist string) error {
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input file missing: %w", err)
	}

	args := ffmpeg.KwArgs{
		"vn":            "", // audio only, drop any cover-art video stream
		"c:a":           config.AudioCodec,
		"b:a":           config.AudioBitrate,
		"id3v2_version": "3",
	}
	if meta := buildMetadata(title, artist); len(meta) > 0 {
		args["metadata"] = meta
	}

	err := ffmpeg.Input(inputPath).
		Output(outputPath, args).
		OverWriteOutput().
		Run()
	if err != nil {
		return fmt.Errorf("ffmpeg failed: %w", err)
	}

	return nil
}

// buildMetadata assembles the -metadata arguments for the encode. ffmpeg-go
// repeats the flag for each slice element.
func buildMetadata(title, artist string) []string {
	var meta []string
	if title != "" {
		meta = append(meta, "title="+title)
	}
	if artist != "" {
		meta = append(meta, "artist="+artist)
	}
	return meta
}
