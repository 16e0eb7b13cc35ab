package pipeline

import (
	"image"
	"time"

	"github.com/linuxmatters/jivepulse/internal/audio"
)

// Phase identifies which pass a progress update belongs to
type Phase int

const (
	PhaseAnalysis Phase = iota // decoding and band extraction
	PhaseRender                // rendering and encoding frames
)

func (p Phase) String() string {
	if p == PhaseAnalysis {
		return "analysis"
	}
	return "render"
}

// Progress is a point-in-time view of a running Generate
type Progress struct {
	Phase       Phase
	Frame       int // frames completed in this phase
	TotalFrames int
	Elapsed     time.Duration // since the phase started

	// Analysis phase
	RMSLevel float64
	Spectrum []float64

	// Render phase
	Levels     audio.FrameEnergy // envelope of the last frame written
	Preview    *image.RGBA       // private copy of a recent frame, nil between preview ticks
	FileSize   int64             // bytes written to the partial output so far
	VideoCodec string
	Done       bool // final update of the phase
}

// progressRelay delivers progress from a single goroutine so the callback
// never blocks the pipeline. Updates the consumer has not picked up yet are
// replaced by newer ones; phase-completion updates are always delivered.
type progressRelay struct {
	ch   chan relayItem
	done chan struct{}
}

type relayItem struct {
	p   Progress
	ack chan struct{} // closed once delivered, nil for droppable updates
}

func newProgressRelay(fn func(Progress)) *progressRelay {
	if fn == nil {
		return nil
	}
	r := &progressRelay{
		ch:   make(chan relayItem, 1),
		done: make(chan struct{}),
	}
	go func() {
		defer close(r.done)
		for item := range r.ch {
			fn(item.p)
			if item.ack != nil {
				close(item.ack)
			}
		}
	}()
	return r
}

// send queues p, dropping any update still waiting. Only one goroutine may
// call send. Updates with Done set block until the callback has seen them.
func (r *progressRelay) send(p Progress) {
	if r == nil {
		return
	}
	item := relayItem{p: p}
	if p.Done {
		item.ack = make(chan struct{})
	}

	select {
	case r.ch <- item:
	default:
		select {
		case <-r.ch:
		default:
		}
		r.ch <- item
	}

	if item.ack != nil {
		<-item.ack
	}
}

// close waits for the callback to finish with the last update
func (r *progressRelay) close() {
	if r == nil {
		return
	}
	close(r.ch)
	<-r.done
}

// wants reports whether anyone is listening
func (r *progressRelay) wants() bool {
	return r != nil
}
