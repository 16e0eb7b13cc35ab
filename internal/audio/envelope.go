package audio

import "fmt"

// Band selects which envelope series drives an effect
type Band int

const (
	BandBass Band = iota
	BandMid
	BandHigh
	BandComposite
)

func (b Band) String() string {
	switch b {
	case BandBass:
		return "bass"
	case BandMid:
		return "mid"
	case BandHigh:
		return "high"
	case BandComposite:
		return "composite"
	default:
		return fmt.Sprintf("band(%d)", int(b))
	}
}

// ParseBand converts a band name into a Band
func ParseBand(s string) (Band, error) {
	switch s {
	case "bass":
		return BandBass, nil
	case "mid":
		return BandMid, nil
	case "high":
		return BandHigh, nil
	case "composite":
		return BandComposite, nil
	}
	return 0, fmt.Errorf("unknown band %q", s)
}

// FrameEnergy holds normalised band energies for one video frame, each in [0, 1]
type FrameEnergy struct {
	Bass    float64
	Mid     float64
	High    float64
	Overall float64 // full spectrum, the composite band
}

// Value returns the energy of band b
func (e FrameEnergy) Value(b Band) float64 {
	switch b {
	case BandBass:
		return e.Bass
	case BandMid:
		return e.Mid
	case BandHigh:
		return e.High
	default:
		return e.Overall
	}
}

// Envelope is the frame-aligned energy of a whole track. It is immutable once
// built and safe to share between goroutines.
type Envelope struct {
	Frames    []FrameEnergy
	FrameRate int
	Duration  float64 // seconds of source audio
}

// Len returns the number of video frames covered
func (e *Envelope) Len() int {
	if e == nil {
		return 0
	}
	return len(e.Frames)
}

// FrameAt returns the frame index covering time t in seconds, clamped to the envelope
func (e *Envelope) FrameAt(t float64) int {
	if e.Len() == 0 {
		return 0
	}
	i := int(t * float64(e.FrameRate))
	return max(0, min(i, len(e.Frames)-1))
}

// Loudest returns the index of the frame with the highest overall energy,
// the earliest one on ties
func (e *Envelope) Loudest() int {
	best := 0
	for i, f := range e.Frames {
		if f.Overall > e.Frames[best].Overall {
			best = i
		}
	}
	return best
}
