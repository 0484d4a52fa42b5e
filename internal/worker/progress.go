package worker

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// Snapshot is a point-in-time view of a Progress.
type Snapshot struct {
	Completed int
	Total     int
	Failed    int
	Pixels    int64
	Elapsed   time.Duration
}

// Fraction returns the completed share of the total, capped at 1.
func (s Snapshot) Fraction() float64 {
	if s.Total <= 0 {
		return 0
	}
	return min(float64(s.Completed)/float64(s.Total), 1)
}

// PixelRate returns processed pixels per second.
func (s Snapshot) PixelRate() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Pixels) / s.Elapsed.Seconds()
}

// Remaining estimates the time left from the unit rate so far.
// It is 0 until the first unit completes and once all are done.
func (s Snapshot) Remaining() time.Duration {
	if s.Completed <= 0 || s.Completed >= s.Total {
		return 0
	}
	per := s.Elapsed / time.Duration(s.Completed)
	return per * time.Duration(s.Total-s.Completed)
}

// Progress counts finished units (images or bands) and the pixels they
// covered, and renders a one-line status to stderr.
type Progress struct {
	start   time.Time
	out     io.Writer
	unit    string
	snap    Snapshot
	mu      sync.Mutex
	enabled bool
}

// NewProgress creates a tracker for total units named unit.
func NewProgress(total int, unit string, enabled bool) *Progress {
	if unit == "" {
		unit = "items"
	}
	return &Progress{
		start:   time.Now(),
		out:     os.Stderr,
		unit:    unit,
		snap:    Snapshot{Total: total},
		enabled: enabled,
	}
}

// Update records unit counts. It matches ProgressFunc.
func (p *Progress) Update(completed, total, failed int) {
	p.mu.Lock()
	p.snap.Completed = completed
	p.snap.Total = total
	p.snap.Failed = failed
	p.mu.Unlock()

	if p.enabled {
		p.Print()
	}
}

// AddPixels adds n processed pixels. Safe to call from workers.
func (p *Progress) AddPixels(n int) {
	p.mu.Lock()
	p.snap.Pixels += int64(n)
	p.mu.Unlock()
}

// Callback returns Update as a ProgressFunc for Pool.Config.
func (p *Progress) Callback() ProgressFunc {
	return p.Update
}

// Snapshot returns the current counters.
func (p *Progress) Snapshot() Snapshot {
	p.mu.Lock()
	s := p.snap
	p.mu.Unlock()
	s.Elapsed = time.Since(p.start)
	return s
}

// Print redraws the status line, for example
// "images  12/40  30% | 3.2 Mpx/s | eta 8s".
func (p *Progress) Print() {
	s := p.Snapshot()

	var b strings.Builder
	fmt.Fprintf(&b, "\r%s %3d/%-3d %3.0f%%", p.unit, s.Completed, s.Total, s.Fraction()*100)
	if s.Failed > 0 {
		fmt.Fprintf(&b, " | %d failed", s.Failed)
	}
	fmt.Fprintf(&b, " | %s/s", humanize.SIWithDigits(s.PixelRate(), 1, "px"))
	if eta := s.Remaining(); eta > 0 {
		fmt.Fprintf(&b, " | eta %s", roundDuration(eta))
	}
	b.WriteString("\033[K")

	fmt.Fprint(p.out, b.String())
}

// Done draws the final line and ends it.
func (p *Progress) Done() {
	if p.enabled {
		p.Print()
		fmt.Fprintln(p.out)
	}
}

// Summary describes the finished run, for example
// "38/40 images ok, 2 failed, 12 Mpx in 3.2s (3.8 Mpx/s)".
func (p *Progress) Summary() string {
	s := p.Snapshot()
	return fmt.Sprintf("%d/%d %s ok, %d failed, %s in %s (%s/s)",
		s.Completed-s.Failed, s.Total, p.unit, s.Failed,
		humanize.SIWithDigits(float64(s.Pixels), 1, "px"),
		roundDuration(s.Elapsed),
		humanize.SIWithDigits(s.PixelRate(), 1, "px"))
}

func roundDuration(d time.Duration) time.Duration {
	if d < time.Second {
		return d.Round(time.Millisecond)
	}
	return d.Round(100 * time.Millisecond)
}
