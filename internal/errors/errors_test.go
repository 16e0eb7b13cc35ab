package errors

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestSentinelMatching(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"decode", Decode("song.mp3", os.ErrNotExist), ErrDecode},
		{"unsupported audio", UnsupportedAudio("sample rate 0"), ErrUnsupportedAudio},
		{"unknown preset", UnknownPreset("loud"), ErrUnknownPreset},
		{"frame index", FrameIndexOutOfRange(120, 120), ErrFrameIndexOutOfRange},
		{"render", Render("zero dimensions"), ErrRender},
		{"encode", Encode("out.mp4", errors.New("disk full")), ErrEncode},
		{"cancelled", Cancelled(nil), ErrCancelled},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if !errors.Is(tc.err, tc.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false, want true", tc.err, tc.sentinel)
			}

			// Wrapping must preserve the classification
			wrapped := fmt.Errorf("generating video: %w", tc.err)
			if !errors.Is(wrapped, tc.sentinel) {
				t.Errorf("wrapped error lost its kind: %v", wrapped)
			}

			// No other sentinel may match
			for _, other := range []error{ErrDecode, ErrUnsupportedAudio, ErrUnknownPreset,
				ErrFrameIndexOutOfRange, ErrRender, ErrEncode, ErrCancelled} {
				if other == tc.sentinel {
					continue
				}
				if errors.Is(tc.err, other) {
					t.Errorf("%v unexpectedly matched %v", tc.err, other)
				}
			}
		})
	}
}

func TestCausePreserved(t *testing.T) {
	err := Decode("song.mp3", os.ErrNotExist)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected cause to be reachable through Unwrap")
	}
}

func TestErrorMessageContext(t *testing.T) {
	err := Decode("/music/song.flac", errors.New("bad sync code"))
	msg := err.Error()

	for _, want := range []string{"decode", "/music/song.flac", "bad sync code"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}

	frameErr := FrameIndexOutOfRange(96, 96)
	if !strings.Contains(frameErr.Error(), "frame 96") {
		t.Errorf("message %q missing frame index", frameErr.Error())
	}
}

func TestIsDefect(t *testing.T) {
	if !IsDefect(fmt.Errorf("wrapped: %w", FrameIndexOutOfRange(5, 3))) {
		t.Error("frame index violation should be a defect")
	}
	if IsDefect(UnknownPreset("loud")) {
		t.Error("unknown preset is a usage error, not a defect")
	}
	if IsDefect(errors.New("plain")) {
		t.Error("unclassified errors are not defects")
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(fmt.Errorf("x: %w", Render("empty"))); got != KindRender {
		t.Errorf("KindOf = %v, want %v", got, KindRender)
	}
	if got := KindOf(errors.New("plain")); got != 0 {
		t.Errorf("KindOf(plain) = %v, want 0", got)
	}
}
