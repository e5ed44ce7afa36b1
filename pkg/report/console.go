package report

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/mrhapile/distzip/pkg/archiver"
)

// Console renders archiver events as operator-facing status lines.
type Console struct {
	out   io.Writer
	quiet bool

	ok   *color.Color
	warn *color.Color
	fail *color.Color
	dim  *color.Color
}

// NewConsole writes to w. Colors are used only when w is a terminal. Quiet
// drops the per-file lines but keeps every outcome line.
func NewConsole(w io.Writer, quiet bool) *Console {
	c := &Console{
		out:   w,
		quiet: quiet,
		ok:    color.New(color.FgGreen, color.Bold),
		warn:  color.New(color.FgYellow),
		fail:  color.New(color.FgRed, color.Bold),
		dim:   color.New(color.Faint),
	}
	colored := false
	if f, ok := w.(*os.File); ok {
		colored = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	for _, col := range []*color.Color{c.ok, c.warn, c.fail, c.dim} {
		if colored {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
	return c
}

// Observe implements archiver.Observer.
func (c *Console) Observe(e archiver.Event) {
	switch e.Kind {
	case archiver.EventRemovedPrevious:
		c.warn.Fprintf(c.out, "Removed old %s\n", e.ArchivePath)
	case archiver.EventMissingSource:
		c.fail.Fprintf(c.out, "Error: '%s' directory not found!\n", e.SourceDir)
	case archiver.EventStarted:
		fmt.Fprintf(c.out, "Zipping contents of '%s' to '%s'...\n", e.SourceDir, e.ArchivePath)
	case archiver.EventFileAdded:
		if !c.quiet {
			c.dim.Fprintf(c.out, "  Adding: %s\n", e.Entry)
		}
	case archiver.EventCompleted:
		c.ok.Fprintf(c.out, "Success! Created %s with %d %s, flat structure.\n", e.ArchivePath, e.Count, plural(e.Count, "file", "files"))
		fmt.Fprintln(c.out, "This zip file is ready for Capacitor Updater.")
	}
}

// Failure renders a fatal error.
func (c *Console) Failure(err error) {
	c.fail.Fprintf(c.out, "Error: %v\n", err)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
