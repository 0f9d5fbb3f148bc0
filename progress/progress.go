// Package progress draws a one-line segment progress bar for a lecture download.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/dustin/go-humanize"
	"github.com/etldl/etldl/color"
	"github.com/etldl/etldl/segment"
	"github.com/etldl/etldl/style"
	"github.com/etldl/etldl/util"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

const (
	defaultWidth = 80
	barWidth     = 30
	titleWidth   = 24
)

// Bar tracks the segments of one lecture. Methods may be called from any goroutine.
type Bar struct {
	mu sync.Mutex

	out   io.Writer
	title string
	total int

	done   int
	failed int
	bytes  int64

	model    progress.Model
	width    int
	lastSize int
}

// New returns a bar for total segments of title, drawn on out.
func New(out io.Writer, title string, total int) *Bar {
	width := defaultWidth
	if w, _, err := util.TerminalSize(); err == nil && w > 0 {
		width = w
	}

	return &Bar{
		out:   out,
		title: title,
		total: total,
		width: width,
		model: progress.New(
			progress.WithGradient("#cba6f7", "#89dceb"),
			progress.WithWidth(barWidth),
			progress.WithoutPercentage(),
		),
	}
}

// Add counts a finished segment and redraws the bar.
func (b *Bar) Add(result segment.Result) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if result.OK() {
		b.done++
		b.bytes += result.Bytes
	} else {
		b.failed++
	}
	b.draw()
}

// Percent is the share of segments that reached a terminal state.
func (b *Bar) Percent() float64 {
	if b.total <= 0 {
		return 1
	}
	return float64(b.done+b.failed) / float64(b.total)
}

// View renders the current line without drawing it.
func (b *Bar) View() string {
	title := truncate.StringWithTail(b.title, uint(titleWidth), "…")
	if pad := titleWidth - ansi.PrintableRuneWidth(title); pad > 0 {
		title += strings.Repeat(" ", pad)
	}

	counts := fmt.Sprintf("%d/%d", b.done+b.failed, b.total)
	if b.failed > 0 {
		counts += style.Fg(color.Red)(fmt.Sprintf(" (%d failed)", b.failed))
	}

	line := fmt.Sprintf("%s %s %s %s",
		title,
		b.model.ViewAs(b.Percent()),
		counts,
		style.Faint(humanize.IBytes(uint64(b.bytes))),
	)
	return truncate.String(line, uint(b.width))
}

func (b *Bar) draw() {
	line := b.View()
	size := ansi.PrintableRuneWidth(line)

	padding := ""
	if b.lastSize > size {
		padding = strings.Repeat(" ", b.lastSize-size)
	}
	b.lastSize = size

	fmt.Fprintf(b.out, "\r%s%s", line, padding)
}

// Clear erases the bar so a summary line can replace it.
func (b *Bar) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.lastSize == 0 {
		return
	}
	fmt.Fprintf(b.out, "\r%s\r", strings.Repeat(" ", b.lastSize))
	b.lastSize = 0
}
