package pipeline

import (
	"context"
	"image"
	"os"
	"sync"
	"time"

	"github.com/linuxmatters/jivepulse/internal/effects"
	jerrors "github.com/linuxmatters/jivepulse/internal/errors"
	log "github.com/sirupsen/logrus"
)

type renderSettings struct {
	workers      int
	previewEvery int
	videoCodec   string
}

type renderStats struct {
	written int
}

// renderedFrame is one worker result
type renderedFrame struct {
	index int
	img   *image.RGBA
	err   error
}

// progressEvery is the number of frames between render progress updates
const progressEvery = 3

// renderAll computes and renders every frame of p.env on a worker pool and
// writes them to sink strictly in index order. At most 2*workers frames are
// in flight (rendering or waiting for their turn) at any time.
func renderAll(ctx context.Context, p *prepared, sink FrameSink, s renderSettings, relay *progressRelay) (renderStats, error) {
	var stats renderStats
	total := p.env.Len()
	workers := max(1, s.workers)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tokens := make(chan struct{}, 2*workers)
	jobs := make(chan int)
	results := make(chan renderedFrame, 2*workers)

	// Producer: hands out frame indices as tokens allow
	go func() {
		defer close(jobs)
		for i := 0; i < total; i++ {
			select {
			case tokens <- struct{}{}:
			case <-ctx.Done():
				return
			}
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res := renderedFrame{index: i}
				params, err := effects.ComputeFrame(p.env, i, p.cfg)
				if err != nil {
					res.err = err
				} else {
					res.img = p.renderer.RenderFrame(params)
				}
				select {
				case results <- res:
				case <-ctx.Done():
					p.renderer.Release(res.img)
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// In-flight frames are discarded once we stop collecting
	defer func() {
		cancel()
		for res := range results {
			p.renderer.Release(res.img)
		}
	}()

	partial := partialPathOf(sink)
	start := time.Now()
	pending := make(map[int]renderedFrame, 2*workers)

	for res := range results {
		if res.err != nil {
			p.renderer.Release(res.img)
			return stats, res.err
		}
		pending[res.index] = res

		for {
			next, ok := pending[stats.written]
			if !ok {
				break
			}
			delete(pending, stats.written)

			if err := ctx.Err(); err != nil {
				p.renderer.Release(next.img)
				return stats, jerrors.Cancelled(err)
			}
			if err := sink.WriteFrame(next.img); err != nil {
				p.renderer.Release(next.img)
				return stats, err
			}

			var preview *image.RGBA
			if relay.wants() && s.previewEvery > 0 && stats.written%s.previewEvery == 0 {
				preview = cloneRGBA(next.img)
			}
			p.renderer.Release(next.img)
			<-tokens
			stats.written++

			if relay.wants() && (stats.written%progressEvery == 0 || preview != nil) {
				relay.send(Progress{
					Phase:       PhaseRender,
					Frame:       stats.written,
					TotalFrames: total,
					Elapsed:     time.Since(start),
					Levels:      p.env.Frames[stats.written-1],
					Preview:     preview,
					FileSize:    fileSize(partial),
					VideoCodec:  s.videoCodec,
				})
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return stats, jerrors.Cancelled(err)
	}
	if stats.written != total {
		return stats, jerrors.New(jerrors.KindRender, "render", "", "frame stream ended early", nil)
	}

	log.WithFields(log.Fields{
		"frames":  stats.written,
		"workers": workers,
		"fps":     float64(stats.written) / max(time.Since(start).Seconds(), 1e-9),
	}).Debug("rendered all frames")
	return stats, nil
}

// partialPathOf returns the file a sink is writing to, if it says
func partialPathOf(sink FrameSink) string {
	if ps, ok := sink.(interface{ PartialPath() string }); ok {
		return ps.PartialPath()
	}
	return ""
}

func fileSize(path string) int64 {
	if path == "" {
		return 0
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}
