package main

import (
	"context"
	"errors"
	"testing"

	jerrors "github.com/linuxmatters/jivepulse/internal/errors"
	"github.com/linuxmatters/jivepulse/internal/pipeline"
)

func TestThumbnailPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"out.mp4", "out.png"},
		{"/tmp/show/episode-42.MP4", "/tmp/show/episode-42.png"},
		{"video.final.mp4", "video.final.png"},
		{"noext", "noext.png"},
	}
	for _, tt := range tests {
		if got := thumbnailPath(tt.in); got != tt.want {
			t.Errorf("thumbnailPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFinalProgress_KeepsRenderDone(t *testing.T) {
	var f finalProgress
	f.observe(pipeline.Progress{Phase: pipeline.PhaseAnalysis, Frame: 90, TotalFrames: 90, Done: true})
	f.observe(pipeline.Progress{Phase: pipeline.PhaseRender, Frame: 30, TotalFrames: 90})
	if f.last.Frame != 0 {
		t.Fatalf("only the render Done update should be kept, got frame %d", f.last.Frame)
	}

	f.observe(pipeline.Progress{Phase: pipeline.PhaseRender, Frame: 90, TotalFrames: 90, FileSize: 1234, Done: true})
	if f.last.Frame != 90 || f.last.FileSize != 1234 {
		t.Errorf("final progress = %+v, want frame 90 with size 1234", f.last)
	}
}

func TestReportError_ExitCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"cancelled", jerrors.Cancelled(context.Canceled), 130},
		{"defect", jerrors.FrameIndexOutOfRange(10, 5), 70},
		{"decode", jerrors.Decodef("song.wav", "corrupt"), 1},
		{"plain", errors.New("boom"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reportError(tt.err); got != tt.want {
				t.Errorf("reportError = %d, want %d", got, tt.want)
			}
		})
	}
}
