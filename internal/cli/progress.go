package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
)

type parseProgressReporter struct {
	enabled bool
	label   string
	start   time.Time
	spinner int
	lastLen int
}

func newParseProgressReporter(label string, show bool) *parseProgressReporter {
	fd := os.Stderr.Fd()
	enabled := show && (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
	return &parseProgressReporter{
		enabled: enabled,
		label:   label,
		start:   time.Now(),
	}
}

func (r *parseProgressReporter) Update(file string, count int) {
	if !r.enabled {
		return
	}
	frames := [4]string{"-", "\\", "|", "/"}
	frame := frames[r.spinner%len(frames)]
	r.spinner++
	file = strings.TrimSpace(file)
	if len(file) > 88 {
		file = "..." + file[len(file)-85:]
	}
	r.printStatus(fmt.Sprintf("%s %s %d reading %s", frame, r.label, count, file))
}

func (r *parseProgressReporter) Done(count int) {
	if !r.enabled {
		return
	}
	elapsed := time.Since(r.start).Round(time.Millisecond)
	r.printStatus(fmt.Sprintf("%s complete (%d files in %s)", r.label, count, elapsed))
	fmt.Fprintln(os.Stderr)
}

func (r *parseProgressReporter) printStatus(status string) {
	if r.lastLen > len(status) {
		status = status + strings.Repeat(" ", r.lastLen-len(status))
	}
	r.lastLen = len(status)
	fmt.Fprintf(os.Stderr, "\r%s", status)
}
