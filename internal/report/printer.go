// Package report renders the human-readable text produced by the inspector
// and repairer: banners, section headings, status marks and aligned columns.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"
)

// Status marks.
const (
	MarkOK   = "✓"
	MarkFail = "✗"
	MarkWarn = "⚠"
)

// Printer writes report text to an io.Writer.
type Printer struct {
	w     io.Writer
	color bool
}

// NewPrinter creates a Printer. When useColor is false no escape codes are emitted.
func NewPrinter(w io.Writer, useColor bool) *Printer {
	return &Printer{w: w, color: useColor}
}


// Printf writes formatted text.
func (p *Printer) Printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, format, args...)
}

// Println writes its operands followed by a newline.
func (p *Printer) Println(args ...interface{}) {
	fmt.Fprintln(p.w, args...)
}

// Header prints a title framed by '=' rules sized to the title.
func (p *Printer) Header(format string, args ...interface{}) {
	title := fmt.Sprintf(format, args...)
	width := runewidth.StringWidth(title) + 4
	fmt.Fprintln(p.w, strings.Repeat("=", width))
	fmt.Fprintf(p.w, "  %s\n", p.paint(color.Bold, title))
	fmt.Fprintln(p.w, strings.Repeat("=", width))
}

// Section prints a section heading.
func (p *Printer) Section(title string) {
	fmt.Fprintf(p.w, "[%s]\n", p.paint(color.Cyan, title))
	fmt.Fprintln(p.w, strings.Repeat("-", runewidth.StringWidth(title)+2))
}

// OK returns text prefixed with a success mark.
func (p *Printer) OK(text string) string {
	return p.paint(color.Green, MarkOK) + " " + text
}

// Fail returns text prefixed with a failure mark.
func (p *Printer) Fail(text string) string {
	return p.paint(color.Red, MarkFail) + " " + text
}

// Warn returns text prefixed with a warning mark.
func (p *Printer) Warn(text string) string {
	return p.paint(color.Yellow, MarkWarn) + "  " + text
}

// Check returns OK(text) when ok is true and Fail(text) otherwise.
func (p *Printer) Check(ok bool, text string) string {
	if ok {
		return p.OK(text)
	}
	return p.Fail(text)
}

func (p *Printer) paint(c color.Color, s string) string {
	if !p.color {
		return s
	}
	return c.Sprint(s)
}

// Columns prints rows as left-aligned columns separated by at least padding
// spaces, each line prefixed by indent. Cell widths are measured in terminal
// cells, ignoring color escape codes, so wide runes and marks line up.
func (p *Printer) Columns(indent string, rows [][]string, padding int) {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if w := visibleWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	for _, row := range rows {
		var sb strings.Builder
		sb.WriteString(indent)
		for i, cell := range row {
			if i == len(row)-1 {
				sb.WriteString(cell)
				break
			}
			sb.WriteString(cell)
			sb.WriteString(strings.Repeat(" ", widths[i]+padding-visibleWidth(cell)))
		}
		fmt.Fprintln(p.w, strings.TrimRight(sb.String(), " "))
	}
}

// visibleWidth returns the terminal width of s without color escape codes.
func visibleWidth(s string) int {
	return runewidth.StringWidth(color.ClearCode(s))
}
