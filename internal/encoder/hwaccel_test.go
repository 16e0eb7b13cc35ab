package encoder

import (
	"context"
	"errors"
	"runtime"
	"slices"
	"strings"
	"testing"
)

const sampleEncoderList = `Encoders:
 V..... = Video
 A..... = Audio
 S..... = Subtitle
 .F.... = Frame-level multithreading
 ..S... = Slice-level multithreading
 ...X.. = Codec is experimental
 ....B. = Supports draw_horiz_band
 .....D = Supports direct rendering method 1
 ------
 V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC / MPEG-4 part 10 (codec h264)
 V....D h264_nvenc           NVIDIA NVENC H.264 encoder (codec h264)
 V..... h264_videotoolbox    VideoToolbox H.264 Encoder (codec h264)
 A....D aac                  AAC (Advanced Audio Coding)
`

func TestParseEncoderList(t *testing.T) {
	names := parseEncoderList([]byte(sampleEncoderList))

	for _, want := range []string{"libx264", "h264_nvenc", "h264_videotoolbox", "aac"} {
		if !names[want] {
			t.Errorf("missing %s", want)
		}
	}
	for _, legend := range []string{"=", "Video", "h264_amf"} {
		if names[legend] {
			t.Errorf("unexpected entry %q", legend)
		}
	}
}

func TestParseHWAccel(t *testing.T) {
	tests := []struct {
		in      string
		want    HWAccelType
		wantErr bool
	}{
		{"", HWAccelNone, false},
		{"none", HWAccelNone, false},
		{"AUTO", HWAccelAuto, false},
		{" nvenc ", HWAccelNVENC, false},
		{"amf", HWAccelAMF, false},
		{"videotoolbox", HWAccelVideoToolbox, false},
		{"vaapi", "", true},
	}

	for _, tt := range tests {
		got, err := ParseHWAccel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHWAccel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHWAccel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// stubFFmpeg replaces the ffmpeg runner: -encoders returns list and any test
// encode succeeds only for the named encoders
func stubFFmpeg(t *testing.T, list string, working ...string) {
	t.Helper()
	orig := runFFmpeg
	t.Cleanup(func() { runFFmpeg = orig })

	runFFmpeg = func(ctx context.Context, ffmpegPath string, args ...string) ([]byte, error) {
		if slices.Contains(args, "-encoders") {
			return []byte(list), nil
		}
		i := slices.Index(args, "-c:v")
		if i >= 0 && slices.Contains(working, args[i+1]) {
			return nil, nil
		}
		return nil, errors.New("device not found")
	}
}

func TestDetectHWEncoders(t *testing.T) {
	stubFFmpeg(t, sampleEncoderList, "h264_nvenc", "h264_videotoolbox")

	encoders := DetectHWEncoders(context.Background(), "ffmpeg")

	want := map[string]bool{"h264_nvenc": true, "h264_amf": false}
	if runtime.GOOS == "darwin" {
		want = map[string]bool{"h264_videotoolbox": true}
	}
	if len(encoders) != len(want) {
		t.Fatalf("got %d encoders, want %d", len(encoders), len(want))
	}
	for _, enc := range encoders {
		if enc.Available != want[enc.Name] {
			t.Errorf("%s available = %v, want %v", enc.Name, enc.Available, want[enc.Name])
		}
	}
}

func TestDetectHWEncoders_NoFFmpeg(t *testing.T) {
	orig := runFFmpeg
	t.Cleanup(func() { runFFmpeg = orig })
	runFFmpeg = func(ctx context.Context, ffmpegPath string, args ...string) ([]byte, error) {
		return nil, errors.New("executable file not found")
	}

	for _, enc := range DetectHWEncoders(context.Background(), "") {
		if enc.Available {
			t.Errorf("%s reported available without ffmpeg", enc.Name)
		}
	}
}

func TestSelectBestEncoder(t *testing.T) {
	if enc := SelectBestEncoder(context.Background(), "ffmpeg", HWAccelNone); enc != nil {
		t.Errorf("Expected nil for HWAccelNone, got %s", enc.Name)
	}

	encoders := []HWEncoder{
		{Name: "h264_nvenc", Type: HWAccelNVENC, Available: false},
		{Name: "h264_amf", Type: HWAccelAMF, Available: true},
	}

	if enc := selectFrom(encoders, HWAccelAuto); enc == nil || enc.Name != "h264_amf" {
		t.Errorf("auto selected %v, want h264_amf", enc)
	}
	if enc := selectFrom(encoders, HWAccelNVENC); enc != nil {
		t.Errorf("unavailable nvenc selected: %v", enc)
	}
	if enc := selectFrom(encoders, HWAccelVideoToolbox); enc != nil {
		t.Errorf("missing videotoolbox selected: %v", enc)
	}
}

func TestGetEncoderStatus(t *testing.T) {
	stubFFmpeg(t, sampleEncoderList, "h264_nvenc")

	status := GetEncoderStatus(context.Background(), "ffmpeg")
	if !strings.HasPrefix(status, "Hardware Encoder Status:") {
		t.Errorf("unexpected status header: %q", status)
	}
	t.Logf("\n%s", status)
}
