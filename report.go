package main

import (
	"fmt"
	"io"
	"os"
)

// Reporter carries the diagnostic output configuration: where the
// messages go and which ANSI codes decorate them. It is built once at
// startup and handed to whatever needs to report.
type Reporter struct {
	Red, Green, Yellow, Cyan, Gray, Reset string
	Out                                   io.Writer
}

func NewReporter(color bool) *Reporter {
	r := &Reporter{Out: os.Stderr}
	if color {
		r.Red = "\033[91m"
		r.Green = "\033[92m"
		r.Yellow = "\033[93m"
		r.Cyan = "\033[96m"
		r.Gray = "\033[90m"
		r.Reset = "\033[0m"
	}
	return r
}

func (r *Reporter) printColored(tag string, tagColor string, format string, v ...interface{}) {
	text := fmt.Sprintf(format, v...)
	fmt.Fprintf(r.Out, "\n%s[%s%s%s]%s %s\n", r.Cyan, tagColor, tag, r.Cyan, r.Reset, text)
}

func (r *Reporter) Warnf(format string, v ...interface{}) {
	r.printColored("WARNING", r.Yellow, format, v...)
}

func (r *Reporter) Errorf(format string, v ...interface{}) {
	r.printColored("ERROR", r.Red, format, v...)
}

func (r *Reporter) Fatalf(format string, v ...interface{}) {
	r.printColored("ERROR", r.Red, format, v...)
	os.Exit(1)
}

func (r *Reporter) Banner() {
	fmt.Printf("%sTapM8%s :: ZX-Spectrum TAP inspection and extraction\n\n", r.Green, r.Reset)
}

// rep is the process reporter. main swaps it for an uncolored one
// before anything else runs when -no-color is given.
var rep = NewReporter(true)
