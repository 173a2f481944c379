package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/ytget/ytd/internal/model"
)

const (
	defaultTermWidth = 80
	barWidth         = 24
)

// progressPrinter renders download progress: a redrawn line on a terminal,
// one line per status change otherwise
type progressPrinter struct {
	mu       sync.Mutex
	out      io.Writer
	tty      bool
	width    int
	lastText string
	drawn    bool
}

// newProgressPrinter redraws in place only when w is a terminal
func newProgressPrinter(w io.Writer) *progressPrinter {
	p := &progressPrinter{out: w, width: defaultTermWidth}
	f, ok := w.(*os.File)
	if !ok {
		return p
	}
	fd := int(f.Fd())
	p.tty = term.IsTerminal(fd)
	if p.tty {
		if cols, _, err := term.GetSize(fd); err == nil && cols > 0 {
			p.width = cols
		}
	}
	return p
}

// Update is the download progress callback
func (p *progressPrinter) Update(pr model.Progress) {
	p.mu.Lock()
	defer p.mu.Unlock()

	text := pr.StatusText
	if text == "" {
		text = p.lastText
	}
	if !p.tty {
		if text != p.lastText && text != "" {
			fmt.Fprintln(p.out, text)
		}
		p.lastText = text
		return
	}
	p.lastText = text
	line := formatProgressLine(pr, text, p.width)
	fmt.Fprintf(p.out, "\r%-*s", p.width-1, line)
	p.drawn = true
}

// Done ends the progress line
func (p *progressPrinter) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.drawn {
		fmt.Fprintln(p.out)
	}
	p.drawn = false
	p.lastText = ""
}

// formatProgressLine renders "[#####     ]  42%  12 MB / 30 MB  text  file" cut to width
func formatProgressLine(pr model.Progress, text string, width int) string {
	f := pr.Fraction()
	filled := int(f * barWidth)
	bar := "[" + strings.Repeat("#", filled) + strings.Repeat(" ", barWidth-filled) + "]"

	sizes := humanize.Bytes(uint64(max(pr.Written, 0)))
	if pr.Total > 0 {
		sizes += " / " + humanize.Bytes(uint64(pr.Total))
	}
	line := fmt.Sprintf("%s %3d%%  %s  %s", bar, int(f*100), sizes, text)
	if name := pr.FileName(); name != "" {
		line += "  " + name
	}
	return truncate(line, width-1)
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
