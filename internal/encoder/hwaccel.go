package encoder

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/linuxmatters/jivepulse/internal/config"
	log "github.com/sirupsen/logrus"
)

// HWAccelType represents a hardware acceleration type
type HWAccelType string

const (
	HWAccelNone         HWAccelType = "none"         // Software encoding (libx264)
	HWAccelAuto         HWAccelType = "auto"         // Auto-detect best available
	HWAccelNVENC        HWAccelType = "nvenc"        // NVIDIA NVENC
	HWAccelAMF          HWAccelType = "amf"          // AMD Advanced Media Framework
	HWAccelVideoToolbox HWAccelType = "videotoolbox" // Apple VideoToolbox (macOS)
)

// ParseHWAccel validates a --hwaccel value
func ParseHWAccel(s string) (HWAccelType, error) {
	switch t := HWAccelType(strings.ToLower(strings.TrimSpace(s))); t {
	case HWAccelNone, HWAccelAuto, HWAccelNVENC, HWAccelAMF, HWAccelVideoToolbox:
		return t, nil
	case "":
		return HWAccelNone, nil
	default:
		return "", fmt.Errorf("unknown hardware acceleration %q (want none, auto, nvenc, amf or videotoolbox)", s)
	}
}

// HWEncoder represents a detected hardware encoder
type HWEncoder struct {
	Name        string      // Encoder name (e.g., "h264_nvenc")
	Type        HWAccelType // Hardware acceleration type
	Available   bool        // Whether hardware is present and working
	Description string      // Human-readable description
}

// encoderSpec defines a hardware encoder configuration for priority lists
type encoderSpec struct {
	name      string
	accelType HWAccelType
	desc      string
}

// linuxEncoderPriority defines the encoder preference order for Linux and Windows
// Priority: nvenc > amf > software
var linuxEncoderPriority = []encoderSpec{
	{"h264_nvenc", HWAccelNVENC, "NVIDIA NVENC"},
	{"h264_amf", HWAccelAMF, "AMD AMF"},
}

// macOSEncoderPriority defines the encoder preference order for macOS
// Priority: videotoolbox > software
var macOSEncoderPriority = []encoderSpec{
	{"h264_videotoolbox", HWAccelVideoToolbox, "Apple VideoToolbox"},
}

const probeTimeout = 10 * time.Second

// runFFmpeg is swapped out in tests
var runFFmpeg = func(ctx context.Context, ffmpegPath string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, ffmpegPath, args...).Output()
}

// listEncoders returns the encoder names compiled into ffmpeg
func listEncoders(ctx context.Context, ffmpegPath string) (map[string]bool, error) {
	out, err := runFFmpeg(ctx, ffmpegPath, "-hide_banner", "-encoders")
	if err != nil {
		return nil, err
	}
	return parseEncoderList(out), nil
}

// parseEncoderList reads `ffmpeg -encoders` output. Entries look like
// " V....D h264_nvenc           NVIDIA NVENC H.264 encoder".
func parseEncoderList(out []byte) map[string]bool {
	names := make(map[string]bool)
	inList := false

	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		// The capability legend ends with a dashed separator line
		if len(fields) == 1 && strings.HasPrefix(fields[0], "---") {
			inList = true
			continue
		}
		if !inList || len(fields) < 2 || len(fields[0]) != 6 {
			continue
		}
		names[fields[1]] = true
	}
	return names
}

// testEncoderAvailable performs a full encoder capability test by encoding a
// few synthetic frames. This catches cases where the encoder is compiled in
// but no usable device is present.
func testEncoderAvailable(ctx context.Context, ffmpegPath, encoderName string) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	_, err := runFFmpeg(ctx, ffmpegPath,
		"-hide_banner", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=c=black:s=256x256:r=30:d=0.1",
		"-pix_fmt", "yuv420p",
		"-c:v", encoderName,
		"-f", "null", "-",
	)
	return err == nil
}

// DetectHWEncoders probes for available hardware encoders
// Returns a list of detected encoders in priority order
func DetectHWEncoders(ctx context.Context, ffmpegPath string) []HWEncoder {
	if ffmpegPath == "" {
		ffmpegPath = config.DefaultFFmpeg
	}

	var priority []encoderSpec
	switch runtime.GOOS {
	case "darwin":
		priority = macOSEncoderPriority
	default: // Linux, Windows and others
		priority = linuxEncoderPriority
	}

	compiled, err := listEncoders(ctx, ffmpegPath)
	if err != nil {
		log.WithError(err).Debug("could not list ffmpeg encoders")
	}

	var encoders []HWEncoder
	for _, enc := range priority {
		encoder := HWEncoder{
			Name:        enc.name,
			Type:        enc.accelType,
			Description: enc.desc,
		}
		if compiled[enc.name] {
			encoder.Available = testEncoderAvailable(ctx, ffmpegPath, enc.name)
		}
		log.WithFields(log.Fields{
			"encoder":   enc.name,
			"compiled":  compiled[enc.name],
			"available": encoder.Available,
		}).Debug("probed hardware encoder")

		encoders = append(encoders, encoder)
	}

	return encoders
}

// SelectBestEncoder returns the best available encoder based on priority
// If requestedType is HWAccelAuto, it selects the first available hardware encoder
// If requestedType is HWAccelNone, it returns nil (use software)
// Otherwise, it attempts to use the requested type if available
func SelectBestEncoder(ctx context.Context, ffmpegPath string, requestedType HWAccelType) *HWEncoder {
	if requestedType == HWAccelNone || requestedType == "" {
		return nil
	}
	return selectFrom(DetectHWEncoders(ctx, ffmpegPath), requestedType)
}

func selectFrom(encoders []HWEncoder, requestedType HWAccelType) *HWEncoder {
	for i := range encoders {
		if !encoders[i].Available {
			continue
		}
		if requestedType == HWAccelAuto || encoders[i].Type == requestedType {
			return &encoders[i]
		}
	}
	return nil
}

// GetEncoderStatus returns a human-readable status of all hardware encoders
func GetEncoderStatus(ctx context.Context, ffmpegPath string) string {
	var sb strings.Builder
	sb.WriteString("Hardware Encoder Status:\n")

	for _, enc := range DetectHWEncoders(ctx, ffmpegPath) {
		status := "not available"
		if enc.Available {
			status = "available"
		}
		fmt.Fprintf(&sb, "  %s (%s): %s\n", enc.Description, enc.Name, status)
	}

	return sb.String()
}
