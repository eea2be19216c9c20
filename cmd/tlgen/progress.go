package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/mattn/go-isatty"
)

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// progressBar redraws a single status line as gates are encoded.
type progressBar struct {
	w     io.Writer
	label string
	bar   progress.Model
	last  int
}

func newProgressBar(w io.Writer, label string) *progressBar {
	return &progressBar{
		w:     w,
		label: label,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		last:  -1,
	}
}

// update matches tlcd.Options.Progress. Redraws only when the percentage
// changes.
func (p *progressBar) update(done, total int) {
	if total <= 0 {
		return
	}
	pct := done * 100 / total
	if pct == p.last {
		return
	}
	p.last = pct
	fmt.Fprintf(p.w, "\r%s %s", p.label, p.bar.ViewAs(float64(done)/float64(total)))
}

func (p *progressBar) finish() {
	if p.last >= 0 {
		fmt.Fprintln(p.w)
	}
}
