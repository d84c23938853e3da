// Package fvdirective tokenizes C print and scan format strings into
// conversion directives.
//
// It is not a formatter. It exists so that vector tables can be checked
// against their own format strings before any C is emitted: how many
// arguments a print format consumes (and in what role), and which
// directives of a scan format store a value.
//
// Errors are *fverr.Error values of class INVALID_FORMAT carrying the byte
// offset of the offending directive.
package fvdirective

import (
	"strings"

	"github.com/lattice-substrate/fmtvec/fverr"
)

const (
	printFlags   = "-+ #0'I"
	printVerbs   = "diouxXeEfFgGaAcsCSpnm%"
	printLengths = "hlLqjzZt"
	scanVerbs    = "diouxXeEfFgGaAcspn"
	scanLengths  = "hlLqjzt"

	// maxNumber bounds widths, precisions and positions.
	maxNumber = 1 << 20
)

// ArgRef is a width or precision taken from the argument list (`*` or `*m$`).
type ArgRef struct {
	Star     bool
	Position int // m in *m$, 0 for sequential
}

// Directive is one conversion directive, including literal `%%`.
type Directive struct {
	Offset     int    // byte offset of the introducing '%'
	Verb       byte   // conversion character; '[' for scansets
	Flags      string // print only
	Length     string // length modifier, "" if absent
	Position   int    // n in %n$, 0 for sequential (print only)
	Width      int    // literal width, -1 if absent
	WidthArg   ArgRef // print only
	Precision  int    // literal precision, -1 if absent or taken from an argument
	PrecArg    ArgRef // print only
	Suppressed bool   // scan assignment suppression '*'
	Set        string // scanset body between '[' and ']', including a leading '^'
}

// Literal reports whether d is the `%%` escape.
func (d Directive) Literal() bool {
	return d.Verb == '%'
}

type scanner struct {
	s   string
	pos int
}

func (p *scanner) eof() bool {
	return p.pos >= len(p.s)
}

func (p *scanner) peek() byte {
	return p.s[p.pos]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// number reads a run of decimal digits. The caller guarantees at least one.
func (p *scanner) number(start int) (int, error) {
	n := 0
	for !p.eof() && isDigit(p.peek()) {
		n = n*10 + int(p.peek()-'0')
		if n > maxNumber {
			return 0, fverr.New(fverr.InvalidFormat, start, "number too large")
		}
		p.pos++
	}
	return n, nil
}

// positional consumes "n$" if present. Otherwise the position is restored.
func (p *scanner) positional(start int) (int, bool, error) {
	save := p.pos
	if p.eof() || !isDigit(p.peek()) || p.peek() == '0' {
		return 0, false, nil
	}
	n, err := p.number(start)
	if err != nil {
		return 0, false, err
	}
	if p.eof() || p.peek() != '$' {
		p.pos = save
		return 0, false, nil
	}
	p.pos++
	return n, true, nil
}

func (p *scanner) length(single string) string {
	if p.pos+1 < len(p.s) {
		two := p.s[p.pos : p.pos+2]
		if two == "hh" || two == "ll" {
			p.pos += 2
			return two
		}
	}
	if !p.eof() && strings.IndexByte(single, p.peek()) >= 0 {
		p.pos++
		return p.s[p.pos-1 : p.pos]
	}
	return ""
}

func (p *scanner) argRef(start int) (ArgRef, error) {
	p.pos++ // '*'
	n, ok, err := p.positional(start)
	if err != nil {
		return ArgRef{}, err
	}
	if ok {
		return ArgRef{Star: true, Position: n}, nil
	}
	return ArgRef{Star: true}, nil
}

// ParsePrint tokenizes a print-family format string.
func ParsePrint(format string) ([]Directive, error) {
	p := &scanner{s: format}
	var out []Directive
	for {
		i := strings.IndexByte(p.s[p.pos:], '%')
		if i < 0 {
			return out, nil
		}
		p.pos += i
		d, err := p.printDirective()
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
}

func (p *scanner) printDirective() (Directive, error) {
	start := p.pos
	d := Directive{Offset: start, Width: -1, Precision: -1}
	p.pos++ // '%'

	n, ok, err := p.positional(start)
	if err != nil {
		return Directive{}, err
	}
	if ok {
		d.Position = n
	}

	flagStart := p.pos
	for !p.eof() && strings.IndexByte(printFlags, p.peek()) >= 0 {
		p.pos++
	}
	d.Flags = p.s[flagStart:p.pos]

	switch {
	case !p.eof() && p.peek() == '*':
		if d.WidthArg, err = p.argRef(start); err != nil {
			return Directive{}, err
		}
	case !p.eof() && isDigit(p.peek()):
		if d.Width, err = p.number(start); err != nil {
			return Directive{}, err
		}
	}

	if !p.eof() && p.peek() == '.' {
		p.pos++
		switch {
		case !p.eof() && p.peek() == '*':
			if d.PrecArg, err = p.argRef(start); err != nil {
				return Directive{}, err
			}
		case !p.eof() && isDigit(p.peek()):
			if d.Precision, err = p.number(start); err != nil {
				return Directive{}, err
			}
		default:
			d.Precision = 0
		}
	}

	d.Length = p.length(printLengths)

	if p.eof() {
		return Directive{}, fverr.New(fverr.InvalidFormat, start, "unterminated directive")
	}
	verb := p.peek()
	if strings.IndexByte(printVerbs, verb) < 0 {
		return Directive{}, fverr.Newf(fverr.InvalidFormat, start, "unknown conversion %q", verb)
	}
	p.pos++
	d.Verb = verb
	return d, nil
}

// ParseScan tokenizes a scan-family format string.
func ParseScan(format string) ([]Directive, error) {
	p := &scanner{s: format}
	var out []Directive
	for {
		i := strings.IndexByte(p.s[p.pos:], '%')
		if i < 0 {
			return out, nil
		}
		p.pos += i
		d, err := p.scanDirective()
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
}

func (p *scanner) scanDirective() (Directive, error) {
	start := p.pos
	d := Directive{Offset: start, Width: -1, Precision: -1}
	p.pos++ // '%'

	if !p.eof() && p.peek() == '%' {
		p.pos++
		d.Verb = '%'
		return d, nil
	}
	if !p.eof() && p.peek() == '*' {
		d.Suppressed = true
		p.pos++
	}
	if !p.eof() && isDigit(p.peek()) {
		w, err := p.number(start)
		if err != nil {
			return Directive{}, err
		}
		if w == 0 {
			return Directive{}, fverr.New(fverr.InvalidFormat, start, "zero field width")
		}
		d.Width = w
	}
	d.Length = p.length(scanLengths)

	if p.eof() {
		return Directive{}, fverr.New(fverr.InvalidFormat, start, "unterminated directive")
	}
	verb := p.peek()
	p.pos++
	if verb == '[' {
		set, err := p.scanset(start)
		if err != nil {
			return Directive{}, err
		}
		d.Verb = '['
		d.Set = set
		return d, nil
	}
	if strings.IndexByte(scanVerbs, verb) < 0 {
		return Directive{}, fverr.Newf(fverr.InvalidFormat, start, "unknown conversion %q", verb)
	}
	d.Verb = verb
	return d, nil
}

// scanset reads up to and including the closing ']'. A ']' directly after
// '[' or '[^' is a member of the set.
func (p *scanner) scanset(start int) (string, error) {
	body := p.pos
	if !p.eof() && p.peek() == '^' {
		p.pos++
	}
	if !p.eof() && p.peek() == ']' {
		p.pos++
	}
	end := strings.IndexByte(p.s[p.pos:], ']')
	if end < 0 {
		return "", fverr.New(fverr.InvalidFormat, start, "unterminated scanset")
	}
	p.pos += end
	set := p.s[body:p.pos]
	p.pos++ // ']'
	return set, nil
}
