package grep

import (
	"bytes"
	"strconv"
)

// ANSI SGR sequences used to highlight matches.
const (
	colorMatch = "\x1b[01;31m"
	colorReset = "\x1b[m"
)

// printer formats selected lines for one input.
type printer struct {
	w           *bytes.Buffer
	name        string // empty when names are not shown
	lineNumbers bool
	color       bool
}

func (p *printer) prefix(lineno int) {
	if p.name != "" {
		p.w.WriteString(p.name)
		p.w.WriteByte(':')
	}
	if p.lineNumbers {
		p.w.WriteString(strconv.Itoa(lineno))
		p.w.WriteByte(':')
	}
}

// line prints a whole line, highlighting spans when color is on.
func (p *printer) line(lineno int, line []byte, spans [][]int) {
	p.prefix(lineno)
	if !p.color || len(spans) == 0 {
		p.w.Write(line)
		p.w.WriteByte('\n')
		return
	}
	last := 0
	for _, sp := range spans {
		if sp[0] == sp[1] {
			continue
		}
		p.w.Write(line[last:sp[0]])
		p.highlight(line[sp[0]:sp[1]])
		last = sp[1]
	}
	p.w.Write(line[last:])
	p.w.WriteByte('\n')
}

// matches prints every non-empty span on its own line.
func (p *printer) matches(lineno int, line []byte, spans [][]int) {
	for _, sp := range spans {
		if sp[0] == sp[1] {
			continue
		}
		p.prefix(lineno)
		if p.color {
			p.highlight(line[sp[0]:sp[1]])
		} else {
			p.w.Write(line[sp[0]:sp[1]])
		}
		p.w.WriteByte('\n')
	}
}

// count prints the number of selected lines.
func (p *printer) count(n int64) {
	if p.name != "" {
		p.w.WriteString(p.name)
		p.w.WriteByte(':')
	}
	p.w.WriteString(strconv.FormatInt(n, 10))
	p.w.WriteByte('\n')
}

func (p *printer) highlight(text []byte) {
	p.w.WriteString(colorMatch)
	p.w.Write(text)
	p.w.WriteString(colorReset)
}
