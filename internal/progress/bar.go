// Package progress renders a single-line progress bar for batch lookups.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const (
	barWidth       = 40
	redrawInterval = 500 * time.Millisecond
)

// Bar is safe for concurrent use.
type Bar struct {
	mu        sync.Mutex
	w         io.Writer
	label     string
	total     int
	current   int
	startTime time.Time
	lastDraw  time.Time
	done      bool
}

// New creates a Bar for total items that draws to w.
func New(w io.Writer, label string, total int) *Bar {
	now := time.Now()
	return &Bar{
		w:         w,
		label:     label,
		total:     total,
		startTime: now,
		lastDraw:  now,
	}
}

// Increment advances the bar by one item, redrawing at most every 500ms
// and always on the last item.
func (b *Bar) Increment() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current < b.total {
		b.current++
	}
	now := time.Now()
	if now.Sub(b.lastDraw) > redrawInterval || b.current >= b.total {
		b.draw()
		b.lastDraw = now
	}
}

// Finish draws the final state and ends the line. Further calls are no-ops.
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.done {
		return
	}
	b.draw()
	fmt.Fprintln(b.w)
	b.done = true
}

func (b *Bar) draw() {
	if b.done || b.total <= 0 {
		return
	}

	filled := barWidth * b.current / b.total
	elapsed := time.Since(b.startTime)

	var eta time.Duration
	if b.current > 0 {
		eta = elapsed / time.Duration(b.current) * time.Duration(b.total-b.current)
	}

	fmt.Fprintf(b.w, "\r%s [%s%s] %d/%d (%.0f%%) %s, ETA %s   ",
		b.label,
		strings.Repeat("█", filled),
		strings.Repeat("░", barWidth-filled),
		b.current,
		b.total,
		float64(b.current)/float64(b.total)*100,
		formatDuration(elapsed),
		formatDuration(eta),
	)
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
