package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// AudioMetadata holds information about an audio file
type AudioMetadata struct {
	SampleRate int
	Channels   int
	Duration   float64 // in seconds
}

type probeOutput struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
		Duration   string `json:"duration"`
	} `json:"streams"`
}

// ffprobePath derives the ffprobe binary that ships alongside ffmpeg
func ffprobePath(ffmpegPath string) string {
	dir, base := filepath.Split(ffmpegPath)
	return dir + strings.Replace(base, "ffmpeg", "ffprobe", 1)
}

// GetAudioMetadata uses ffprobe to read the first audio stream's format
func GetAudioMetadata(ctx context.Context, filename, ffmpegPath string) (*AudioMetadata, error) {
	cmd := exec.CommandContext(ctx, ffprobePath(ffmpegPath),
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=codec_type,sample_rate,channels,duration",
		"-of", "json",
		filename,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	var out probeOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	for _, s := range out.Streams {
		if s.CodecType != "audio" {
			continue
		}
		rate, err := strconv.Atoi(s.SampleRate)
		if err != nil || rate <= 0 {
			return nil, fmt.Errorf("invalid sample rate %q", s.SampleRate)
		}
		// Duration is absent for some containers
		duration, _ := strconv.ParseFloat(s.Duration, 64)
		return &AudioMetadata{
			SampleRate: rate,
			Channels:   s.Channels,
			Duration:   duration,
		}, nil
	}

	return nil, fmt.Errorf("no audio stream found in file")
}
