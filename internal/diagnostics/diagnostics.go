// Package diagnostics prints human-facing CLI output: leveled messages and
// structured reports for coded errors.
package diagnostics

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/axonresolve/internal/errors"
)

// Level represents the level of diagnostic output
type Level int

const (
	Silent Level = iota
	ErrorLevel
	WarnLevel
	InfoLevel
	VerboseLevel
)

// Printer provides structured, user-friendly output
type Printer struct {
	level  Level
	output io.Writer
	errOut io.Writer

	red, yellow, blue, green, gray, cyan *color.Color
}

// NewPrinter writes to stdout and stderr
func NewPrinter(level Level) *Printer {
	return NewPrinterTo(level, os.Stdout, os.Stderr, shouldUseColors())
}

// NewPrinterTo writes to the given writers
func NewPrinterTo(level Level, output, errOut io.Writer, useColors bool) *Printer {
	p := &Printer{
		level:  level,
		output: output,
		errOut: errOut,
		red:    color.New(color.FgRed, color.Bold),
		yellow: color.New(color.FgYellow, color.Bold),
		blue:   color.New(color.FgBlue),
		green:  color.New(color.FgGreen),
		gray:   color.New(color.FgHiBlack),
		cyan:   color.New(color.FgCyan),
	}

	for _, c := range []*color.Color{p.red, p.yellow, p.blue, p.green, p.gray, p.cyan} {
		if useColors {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Output is where regular (non-error) output goes
func (p *Printer) Output() io.Writer {
	return p.output
}

func (p *Printer) Error(format string, args ...interface{}) {
	if p.level >= ErrorLevel {
		p.write(p.errOut, "ERROR", p.red, format, args...)
	}
}

func (p *Printer) Warn(format string, args ...interface{}) {
	if p.level >= WarnLevel {
		p.write(p.errOut, "WARN", p.yellow, format, args...)
	}
}

func (p *Printer) Info(format string, args ...interface{}) {
	if p.level >= InfoLevel {
		p.write(p.output, "INFO", p.blue, format, args...)
	}
}

// Success outputs success messages with emphasis
func (p *Printer) Success(format string, args ...interface{}) {
	if p.level >= InfoLevel {
		p.write(p.output, "OK", p.green, format, args...)
	}
}

func (p *Printer) Verbose(format string, args ...interface{}) {
	if p.level >= VerboseLevel {
		p.write(p.output, "VERBOSE", p.gray, format, args...)
	}
}

// Header outputs the tool banner line
func (p *Printer) Header(message string) {
	if p.level >= InfoLevel {
		p.cyan.Fprintf(p.output, "AxonResolve: %s\n", message)
	}
}

// Summary outputs a title and its statistics in key order
func (p *Printer) Summary(title string, stats map[string]interface{}) {
	if p.level < InfoLevel {
		return
	}

	fmt.Fprintf(p.output, "\n%s\n", title)
	keys := make([]string, 0, len(stats))
	for key := range stats {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(p.output, "   %s: %v\n", key, stats[key])
	}
}

// ReportError prints err with the code, context and suggestions of every
// coded error it carries. Aggregates are expanded one entry per error.
func (p *Printer) ReportError(err error) {
	if err == nil || p.level < ErrorLevel {
		return
	}

	var multi *errors.MultipleErrors
	if stderrors.As(err, &multi) && multi.Count() > 1 {
		p.red.Fprintf(p.errOut, "%d errors:\n", multi.Count())
		for i, coded := range multi.Errors {
			fmt.Fprintf(p.errOut, "\n%d) ", i+1)
			p.reportCoded(coded)
		}
		return
	}

	var coded errors.CodedError
	if stderrors.As(err, &coded) {
		p.reportCoded(coded)
		return
	}

	p.red.Fprint(p.errOut, "error: ")
	fmt.Fprintln(p.errOut, err.Error())
}

func (p *Printer) reportCoded(err errors.CodedError) {
	p.red.Fprintf(p.errOut, "[%s] ", err.ErrorCode())
	fmt.Fprintln(p.errOut, err.Error())

	if p.level >= VerboseLevel {
		if ctx := err.Context(); len(ctx) > 0 {
			keys := make([]string, 0, len(ctx))
			for key := range ctx {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				p.gray.Fprintf(p.errOut, "  %s: %v\n", key, ctx[key])
			}
		}
		if cause := err.Unwrap(); cause != nil {
			p.gray.Fprintf(p.errOut, "  cause: %s\n", cause)
		}
	}

	for _, suggestion := range err.Suggestions() {
		p.yellow.Fprint(p.errOut, "  hint: ")
		fmt.Fprintln(p.errOut, suggestion)
	}
}

func (p *Printer) write(w io.Writer, level string, c *color.Color, format string, args ...interface{}) {
	var line strings.Builder
	line.WriteString(c.Sprintf("[%s]", level))
	line.WriteByte(' ')
	line.WriteString(fmt.Sprintf(format, args...))
	line.WriteByte('\n')
	fmt.Fprint(w, line.String())
}

// shouldUseColors determines if colors should be used
func shouldUseColors() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	return !color.NoColor
}
