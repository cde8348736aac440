package term

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/boxpull/boxpull"
)

const (
	barWidth        = 40
	refreshInterval = 100 * time.Millisecond
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var (
	dim     = color.New(color.Faint).SprintFunc()
	barFill = color.New(color.FgGreen).SprintFunc()
)

// taskLine is the live state of one download task's indicator.
type taskLine struct {
	task      int
	taskTotal int
	done      int64
	total     int64 // -1 when unknown
	started   time.Time
}

// Renderer multiplexes progress indicators for concurrent download tasks
// onto a single terminal surface, one line per active task.
//
// Observe is safe for concurrent calls; painting happens on a single
// goroutine so concurrent updates never interleave on the terminal.
// Completed tasks are removed from display.
type Renderer struct {
	out io.Writer

	mu     sync.Mutex
	active []*taskLine // insertion order, stable task numbering
	drawn  int         // lines painted by the previous frame
	frame  int
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewRenderer creates a renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{
		out:    out,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Observe feeds a progress event into the display. It implements
// boxpull.ProgressFunc.
func (r *Renderer) Observe(ev boxpull.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line := r.find(ev.Task)
	if ev.Done {
		if line != nil {
			r.remove(ev.Task)
		}
		return
	}

	if line == nil {
		line = &taskLine{
			task:      ev.Task,
			taskTotal: ev.TaskTotal,
			total:     ev.BytesTotal,
			started:   time.Now(),
		}
		r.active = append(r.active, line)
	}
	line.done = ev.BytesDone
}

// Start begins repainting on a ticker until Stop is called.
func (r *Renderer) Start() {
	go func() {
		defer close(r.doneCh)
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-r.stopCh:
				r.mu.Lock()
				r.clearLocked()
				r.mu.Unlock()
				return
			case <-ticker.C:
				r.mu.Lock()
				r.paintLocked()
				r.mu.Unlock()
			}
		}
	}()
}

// Stop clears the display and stops the repaint goroutine.
func (r *Renderer) Stop() {
	select {
	case <-r.stopCh:
	default:
		close(r.stopCh)
	}
	<-r.doneCh
}

func (r *Renderer) find(task int) *taskLine {
	for _, line := range r.active {
		if line.task == task {
			return line
		}
	}
	return nil
}

func (r *Renderer) remove(task int) {
	for i, line := range r.active {
		if line.task == task {
			r.active = append(r.active[:i], r.active[i+1:]...)
			return
		}
	}
}

// paintLocked redraws the active task lines in place.
func (r *Renderer) paintLocked() {
	var b strings.Builder
	for i := 0; i < r.drawn; i++ {
		b.WriteString("\x1b[1A\x1b[2K")
	}
	for _, line := range r.active {
		b.WriteString(r.renderLine(line))
		b.WriteByte('\n')
	}
	r.frame++
	r.drawn = len(r.active)
	fmt.Fprint(r.out, b.String())
}

// clearLocked erases whatever the last frame drew.
func (r *Renderer) clearLocked() {
	var b strings.Builder
	for i := 0; i < r.drawn; i++ {
		b.WriteString("\x1b[1A\x1b[2K")
	}
	r.drawn = 0
	fmt.Fprint(r.out, b.String())
}

func (r *Renderer) renderLine(line *taskLine) string {
	prefix := dim(fmt.Sprintf("[%d/%d]", line.task, line.taskTotal))
	elapsed := dim(fmt.Sprintf("%3ds", int(time.Since(line.started).Seconds())))

	if line.total < 0 {
		// Length unknown, degrade to a spinner with a byte count.
		spin := spinnerFrames[r.frame%len(spinnerFrames)]
		return fmt.Sprintf("%s %s %s %s", prefix, elapsed, spin, FormatBytes(line.done))
	}

	return fmt.Sprintf("%s %s %s %s/%s",
		prefix,
		elapsed,
		renderBar(line.done, line.total),
		FormatBytes(line.done),
		FormatBytes(line.total),
	)
}

func renderBar(done, total int64) string {
	filled := 0
	if total > 0 {
		filled = int(float64(done) / float64(total) * barWidth)
	}
	if filled > barWidth {
		filled = barWidth
	}
	return barFill(strings.Repeat("█", filled)) + strings.Repeat("░", barWidth-filled)
}
