// Package gcode writes milling programs in a Fanuc-compatible dialect.
package gcode

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/philipparndt/parambatch/internal/toolpath"
)

// Config controls the program header and footer
type Config struct {
	ProgramNumber int
	Comment       string
	Imperial      bool
	SafeZ         float64
}

// Writer emits G-code to an underlying stream. Errors are sticky and
// reported by Flush.
type Writer struct {
	w    *bufio.Writer
	cfg  Config
	err  error
	tool int
	rate float64
}

func NewWriter(w io.Writer, cfg *Config) *Writer {
	c := Config{}
	if cfg != nil {
		c = *cfg
	}
	return &Writer{w: bufio.NewWriter(w), cfg: c}
}

func (g *Writer) printf(format string, args ...interface{}) {
	if g.err != nil {
		return
	}
	_, g.err = fmt.Fprintf(g.w, format, args...)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// Preamble writes the program start, units and work offset
func (g *Writer) Preamble() {
	g.printf("%%\n")
	if g.cfg.ProgramNumber > 0 {
		g.printf("O%04d", g.cfg.ProgramNumber)
		if g.cfg.Comment != "" {
			g.printf(" (%s)", sanitizeComment(g.cfg.Comment))
		}
		g.printf("\n")
	} else if g.cfg.Comment != "" {
		g.printf("(%s)\n", sanitizeComment(g.cfg.Comment))
	}
	if g.cfg.Imperial {
		g.printf("G20\n")
	} else {
		g.printf("G21\n")
	}
	g.printf("G90 G17 G40 G49 G80\n")
	g.printf("G54\n")
}

// Comment writes a single comment line
func (g *Writer) Comment(text string) {
	g.printf("(%s)\n", sanitizeComment(text))
}

// ToolChange selects a tool and starts the spindle
func (g *Writer) ToolChange(number int, rpm float64) {
	if number != g.tool {
		g.printf("M5\n")
		g.printf("G91 G28 Z0\nG90\n")
		g.printf("T%d M6\n", number)
		g.printf("G43 H%d\n", number)
		g.tool = number
	}
	g.printf("S%.0f M3\n", rpm)
	g.rate = 0
}

func (g *Writer) Rapid(p toolpath.Point) {
	g.printf("G0 X%s Y%s Z%s\n", num(p.X), num(p.Y), num(p.Z))
}

func (g *Writer) Feed(p toolpath.Point, rate float64) {
	if rate != g.rate {
		g.printf("G1 X%s Y%s Z%s F%.0f\n", num(p.X), num(p.Y), num(p.Z), rate)
		g.rate = rate
		return
	}
	g.printf("G1 X%s Y%s Z%s\n", num(p.X), num(p.Y), num(p.Z))
}

// Path writes every move of a toolpath
func (g *Writer) Path(path *toolpath.Toolpath) {
	for _, m := range path.Moves {
		switch m.Kind {
		case toolpath.Rapid:
			g.Rapid(m.To)
		default:
			g.Feed(m.To, m.Rate)
		}
	}
}

// Postamble retracts, stops the spindle and ends the program
func (g *Writer) Postamble() {
	g.printf("G0 Z%s\n", num(g.cfg.SafeZ))
	g.printf("M5\n")
	g.printf("G91 G28 Z0\nG90\n")
	g.printf("M30\n")
	g.printf("%%\n")
}

func (g *Writer) Flush() error {
	if g.err != nil {
		return g.err
	}
	return g.w.Flush()
}

// sanitizeComment strips characters that would close a comment early
func sanitizeComment(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '(':
			out = append(out, '[')
		case ')':
			out = append(out, ']')
		case '\n', '\r':
			out = append(out, ' ')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
