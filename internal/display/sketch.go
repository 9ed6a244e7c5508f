package display

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/pleimann/sweepd/internal/gesture"
)

// maxPathPoints caps the recorded touch path of one contact
const maxPathPoints = 512

// Sketch draws a scaled picture of the panel: the active band, both gate
// sets and the path of the current (or last) contact.
type Sketch struct {
	geometry gesture.Geometry
	renderer *Renderer
	scale    float64

	mu     sync.Mutex
	path   []image.Point
	state  gesture.State
	ended  bool
	dirty  bool
	cancel context.CancelFunc
}

// NewSketch creates a sketch width pixels wide, keeping the panel's aspect ratio
func NewSketch(geometry gesture.Geometry, width int) *Sketch {
	scale := float64(width) / float64(geometry.Width)
	height := int(float64(geometry.Height) * scale)
	if height < 1 {
		height = 1
	}
	return &Sketch{
		geometry: geometry,
		renderer: NewRenderer(width, height),
		scale:    scale,
		dirty:    true,
	}
}

// Observe records an engine signal. It matches gesture.Engine.OnSignal.
func (s *Sketch) Observe(sig gesture.Signal, state gesture.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state
	s.dirty = true

	switch sig.Kind {
	case gesture.SignalReset:
		s.ended = true
	case gesture.SignalCoordinate:
		if s.ended {
			s.path = s.path[:0]
			s.ended = false
		}
		if len(s.path) < maxPathPoints {
			s.path = append(s.path, image.Point{X: sig.X, Y: sig.Y})
		}
	}
}

// Path returns a copy of the recorded path in panel units
func (s *Sketch) Path() []image.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]image.Point(nil), s.path...)
}

// Render draws the current picture and returns the renderer holding it
func (s *Sketch) Render() *Renderer {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.renderer
	g := s.geometry
	r.Clear()

	bandTop := s.y(g.BandMin)
	r.FillRect(0, bandTop, r.Width(), r.Height()-bandTop, Dim)

	for _, gates := range []gesture.Gates{g.Forward, g.Reverse} {
		shade := Gray
		if gates.Direction == gesture.Reverse {
			shade = Light
		}
		for _, x := range []int{gates.Outer, gates.Mid, gates.Inner, gates.Edge} {
			px := s.x(x)
			r.DrawLine(px, bandTop, px, r.Height()-1, shade)
		}
	}

	for i, p := range s.path {
		if i == 0 {
			r.SetPixel(s.x(p.X), s.y(p.Y), White)
			continue
		}
		prev := s.path[i-1]
		r.DrawLine(s.x(prev.X), s.y(prev.Y), s.x(p.X), s.y(p.Y), White)
	}

	lh := r.LineHeight()
	r.DrawText(2, lh, progressLabel("fwd", s.state.Forward))
	r.DrawText(2, 2*lh, progressLabel("rev", s.state.Reverse))
	if s.state.Fired {
		r.DrawText(2, 3*lh, "FIRED")
	}

	s.dirty = false
	return r
}

// WritePNG renders and writes the picture to path, replacing it atomically
func (s *Sketch) WritePNG(path string) error {
	var buf bytes.Buffer
	if err := s.Render().EncodePNG(&buf); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".sweep-*.png")
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Start rewrites the PNG at path every interval while something changed
func (s *Sketch) Start(ctx context.Context, path string, interval time.Duration) {
	ctx, s.cancel = context.WithCancel(ctx)
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !s.isDirty() {
					continue
				}
				if err := s.WritePNG(path); err != nil {
					log.WithError(err).Warn("Failed to write gesture snapshot")
				}
			}
		}
	}()
}

// Stop stops the update loop
func (s *Sketch) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Sketch) isDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

func (s *Sketch) x(v int) int { return int(float64(v) * s.scale) }
func (s *Sketch) y(v int) int { return int(float64(v) * s.scale) }

func progressLabel(name string, p gesture.Progress) string {
	return fmt.Sprintf("%s %s%s", name, mark(p[0]), mark(p[1]))
}

func mark(b bool) string {
	if b {
		return "#"
	}
	return "."
}
