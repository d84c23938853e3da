package fvtable

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/lattice-substrate/fmtvec/fvdirective"
	"github.com/lattice-substrate/fmtvec/fverr"
)

// Numbered returns a copy of s with zero case indices filled in as the
// previous index plus one. Each family must end up strictly increasing.
func (s Suite) Numbered() (Suite, error) {
	out := Suite{
		Print: append([]PrintVector(nil), s.Print...),
		Scan:  append([]ScanVector(nil), s.Scan...),
	}
	prev := 0
	for i := range out.Print {
		c, err := nextCase(out.Print[i].Case, prev)
		if err != nil {
			return Suite{}, err
		}
		out.Print[i].Case = c
		prev = c
	}
	prev = 0
	for i := range out.Scan {
		c, err := nextCase(out.Scan[i].Case, prev)
		if err != nil {
			return Suite{}, err
		}
		out.Scan[i].Case = c
		prev = c
	}
	return out, nil
}

func nextCase(c, prev int) (int, error) {
	if c == 0 {
		return prev + 1, nil
	}
	if c <= prev {
		return 0, fverr.Vector(c, "case index %d does not follow %d", c, prev)
	}
	return c, nil
}

// CheckCases reports the first vector of family f whose case index is
// missing or does not follow the one before it. Generated programs report
// failures by case index, so the indices of one family must be positive and
// strictly increasing.
func (s Suite) CheckCases(f Family) error {
	var cases []int
	if f == Scan {
		for _, v := range s.Scan {
			cases = append(cases, v.Case)
		}
	} else {
		for _, v := range s.Print {
			cases = append(cases, v.Case)
		}
	}
	prev := 0
	for i, c := range cases {
		if c <= 0 {
			return fverr.Newf(fverr.MalformedVector, -1, "%s vector %d has no case index", f, i+1)
		}
		if _, err := nextCase(c, prev); err != nil {
			return err
		}
		prev = c
	}
	return nil
}

// ValidatePrint checks a print vector against its own format string.
func ValidatePrint(v PrintVector) error {
	dirs, err := fvdirective.ParsePrint(v.Format)
	if err != nil {
		return fverr.VectorCause(v.Case, "format", err)
	}
	uses, err := fvdirective.PrintArgUses(dirs)
	if err != nil {
		return fverr.VectorCause(v.Case, "format", err)
	}
	if len(uses) != len(v.Args) {
		return fverr.Vector(v.Case, "format consumes %d arguments, vector supplies %d", len(uses), len(v.Args))
	}
	for i, a := range v.Args {
		u := uses[i]
		switch {
		case a.Sink && !u.Store():
			return fverr.Vector(v.Case, "argument %d is a %%n sink but the format uses it as %s", i+1, u.Kind)
		case !a.Sink && u.Store():
			return fverr.Vector(v.Case, "argument %d feeds a %%n directive but is not a sink", i+1)
		case a.Sink && u.Length != "":
			return fverr.Vector(v.Case, "argument %d: only int sinks are supported, not %%%sn", i+1, u.Length)
		case a.Sink && (a.Expr != "" || a.Cast != ""):
			return fverr.Vector(v.Case, "argument %d: a sink carries no expression", i+1)
		case !a.Sink && strings.TrimSpace(a.Expr) == "":
			return fverr.Vector(v.Case, "argument %d is empty", i+1)
		}
	}
	if sinks := v.Sinks(); len(v.Counts) > sinks {
		return fverr.Vector(v.Case, "%d expected counts for %d sinks", len(v.Counts), sinks)
	}
	for i, c := range v.Counts {
		if c < 0 || c > math.MaxInt32 {
			return fverr.Vector(v.Case, "expected count %d is out of range: %d", i+1, c)
		}
	}
	if len(v.Output) >= OutputBufferSize {
		return fverr.Vector(v.Case, "expected output is %d bytes, buffer holds %d", len(v.Output), OutputBufferSize-1)
	}
	return nil
}

// ValidateScan checks a scan vector against its own format string: every
// storing directive must store a supported Kind, and every declared write
// must line up with the storing directive in the same position and have
// that Kind. The input must fit an arena row so no store can overrun one.
func ValidateScan(v ScanVector) error {
	for i, w := range v.Writes {
		if !w.Kind.Valid() {
			return fverr.Vector(v.Case, "write %d has unknown kind %q", i+1, w.TagName())
		}
	}
	dirs, err := fvdirective.ParseScan(v.Format)
	if err != nil {
		return fverr.VectorCause(v.Case, "format", err)
	}
	targets := fvdirective.ScanTargets(dirs)
	for _, d := range targets {
		if _, ok := StoredKind(d); !ok {
			return fverr.Vector(v.Case, "directive at byte %d stores no supported kind", d.Offset)
		}
	}
	if len(v.Input) >= ArenaRowChars {
		return fverr.Vector(v.Case, "input is %d bytes, arena rows hold %d", len(v.Input), ArenaRowChars-1)
	}
	if len(v.Writes) > len(targets) {
		return fverr.Vector(v.Case, "vector declares %d writes, format stores at most %d", len(v.Writes), len(targets))
	}
	for i, w := range v.Writes {
		d := targets[i]
		want, _ := StoredKind(d)
		if w.Kind != want {
			return fverr.Vector(v.Case, "write %d is %s but directive at byte %d stores %s", i+1, w.Kind, d.Offset, want)
		}
		if err := checkWriteValue(w); err != nil {
			return fverr.Vector(v.Case, "write %d: %s", i+1, err.Message)
		}
	}
	if !v.Return.EOF && (v.Return.Count < 0 || v.Return.Count > len(targets)) {
		return fverr.Vector(v.Case, "return %d is impossible for %d storing directives", v.Return.Count, len(targets))
	}
	return nil
}

// StoredKind maps a storing scan directive to the Kind it writes.
func StoredKind(d fvdirective.Directive) (Kind, bool) {
	switch d.Verb {
	case 'd', 'i', 'o', 'u', 'x', 'X':
		if d.Length == "" {
			return Integer, true
		}
	case 'e', 'f', 'g', 'a', 'E', 'F', 'G', 'A':
		switch d.Length {
		case "":
			return Float, true
		case "l":
			return Double, true
		case "L":
			return LongDouble, true
		}
	case 's', '[':
		switch d.Length {
		case "":
			return String, true
		case "l":
			return WideString, true
		}
	case 'c':
		if d.Length == "" {
			return ByteArray, true
		}
	case 'n':
		if d.Length == "" {
			return WriteCount, true
		}
	}
	return 0, false
}

func checkWriteValue(w Write) *fverr.Error {
	switch w.Kind {
	case String:
		if strings.IndexByte(w.Text, 0) >= 0 {
			return fverr.New(fverr.MalformedVector, -1, "string expectation contains NUL")
		}
		if len(w.Text) >= ArenaRowChars {
			return fverr.Newf(fverr.MalformedVector, -1, "string expectation exceeds %d bytes", ArenaRowChars-1)
		}
	case WideString:
		if strings.IndexByte(w.Text, 0) >= 0 || !utf8.ValidString(w.Text) {
			return fverr.New(fverr.MalformedVector, -1, "wide string expectation must be valid UTF-8 without NUL")
		}
		if utf8.RuneCountInString(w.Text) >= ArenaRowChars {
			return fverr.Newf(fverr.MalformedVector, -1, "wide string expectation exceeds %d code points", ArenaRowChars-1)
		}
	case ByteArray:
		if w.Len != len(w.Text) || w.Len == 0 {
			return fverr.Newf(fverr.MalformedVector, -1, "byte array length %d does not match %d expected bytes", w.Len, len(w.Text))
		}
		if w.Len >= ArenaRowChars {
			return fverr.Newf(fverr.MalformedVector, -1, "byte array expectation exceeds %d bytes", ArenaRowChars-1)
		}
	case Integer, WriteCount:
		if w.Int < math.MinInt32 || w.Int > math.MaxInt32 {
			return fverr.Newf(fverr.MalformedVector, -1, "%d does not fit a C int", w.Int)
		}
		if w.Kind == WriteCount && w.Int < 0 {
			return fverr.New(fverr.MalformedVector, -1, "negative write count")
		}
	case Float, Double, LongDouble:
		if math.IsNaN(w.Float) || math.IsInf(w.Float, 0) {
			return fverr.New(fverr.MalformedVector, -1, "non-finite expectation cannot be compared with a tolerance")
		}
		if w.Kind == Float && math.Abs(w.Float) > math.MaxFloat32 {
			return fverr.Newf(fverr.MalformedVector, -1, "%g does not fit a C float", w.Float)
		}
	}
	return nil
}

// Validate checks every vector of one family.
func (s Suite) Validate(f Family) error {
	if f == Scan {
		for _, v := range s.Scan {
			if err := ValidateScan(v); err != nil {
				return err
			}
		}
		return nil
	}
	for _, v := range s.Print {
		if err := ValidatePrint(v); err != nil {
			return err
		}
	}
	return nil
}
