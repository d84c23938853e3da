// Package fvtable holds the declarative test vectors for the print and scan
// families, their validation against their own format strings, and loading
// of additional vector files.
//
// Vectors are plain data. Nothing here knows how to emit C; that is the
// generator's job.
package fvtable

import "strconv"

// Limits shared with the generator. Validation rejects vectors whose
// expectations could not fit the emitted program's storage.
const (
	// OutputBufferSize is the size of the print family's output buffer.
	OutputBufferSize = 512
	// ArenaRowChars is the element count of each string-like arena row.
	ArenaRowChars = 128
)

// Expressions for the deterministic NaN and infinity producers that every
// generated program defines in its prologue.
const (
	Infinity    = "make_infinity()"
	NegInfinity = "-make_infinity()"
	NaN         = "make_nan()"
)

// Family selects print or scan vectors.
type Family int

const (
	Print Family = iota + 1
	Scan
)

func (f Family) String() string {
	switch f {
	case Print:
		return "print"
	case Scan:
		return "scan"
	default:
		return "family(" + strconv.Itoa(int(f)) + ")"
	}
}

// Arg is one variadic argument of a print vector.
type Arg struct {
	Expr string // ready-to-emit C expression
	Cast string // optional C type, rendered as "(Cast) Expr"
	Sink bool   // a %n write target; bound by the generator
}

// Lit returns a literal argument.
func Lit(expr string) Arg {
	return Arg{Expr: expr}
}

// Cast returns an argument with an explicit C cast.
func Cast(typ, expr string) Arg {
	return Arg{Expr: expr, Cast: typ}
}

// Sink returns a %n write target.
func Sink() Arg {
	return Arg{Sink: true}
}

// Render returns the C text of a non-sink argument.
func (a Arg) Render() string {
	if a.Cast == "" {
		return a.Expr
	}
	return "(" + a.Cast + ") " + a.Expr
}

// PrintVector is one sprintf/vsprintf test case.
type PrintVector struct {
	Case   int    `yaml:"case"`
	Format string `yaml:"format"`
	Args   []Arg  `yaml:"args"`
	Output string `yaml:"output"`
	// Counts holds the expected values of the %n sinks, in sink order.
	// Trailing sinks may be omitted; omitted sinks are not checked.
	Counts []int `yaml:"counts"`
}

// Sinks returns the number of %n sink arguments.
func (v PrintVector) Sinks() int {
	n := 0
	for _, a := range v.Args {
		if a.Sink {
			n++
		}
	}
	return n
}

// Return is the expected result of a scan call: a field count or EOF.
type Return struct {
	Count int
	EOF   bool
}

// Returns expects n assigned fields.
func Returns(n int) Return {
	return Return{Count: n}
}

// ReturnsEOF expects the EOF sentinel.
func ReturnsEOF() Return {
	return Return{EOF: true}
}

func (r Return) String() string {
	if r.EOF {
		return "EOF"
	}
	return strconv.Itoa(r.Count)
}

// Write is one expected store performed by a scan call.
type Write struct {
	Kind  Kind
	Text  string  // String, ByteArray, WideString
	Int   int64   // Integer, WriteCount
	Float float64 // Float, Double, LongDouble
	Len   int     // ByteArray compare length

	tag string // unresolved kind tag from a vector file
}

// Str expects a NUL-terminated string.
func Str(s string) Write { return Write{Kind: String, Text: s} }

// Int expects an int.
func Int(n int64) Write { return Write{Kind: Integer, Int: n} }

// Flt expects a float within tolerance.
func Flt(f float64) Write { return Write{Kind: Float, Float: f} }

// Dbl expects a double within tolerance.
func Dbl(f float64) Write { return Write{Kind: Double, Float: f} }

// LDbl expects a long double within tolerance.
func LDbl(f float64) Write { return Write{Kind: LongDouble, Float: f} }

// Bytes expects exactly len(s) bytes, which need not be NUL-terminated.
func Bytes(s string) Write { return Write{Kind: ByteArray, Text: s, Len: len(s)} }

// WStr expects a wide string with the code points of s.
func WStr(s string) Write { return Write{Kind: WideString, Text: s} }

// Count expects a %n store.
func Count(n int64) Write { return Write{Kind: WriteCount, Int: n} }

// TagName returns the kind tag, including an unresolved one from a file.
func (w Write) TagName() string {
	if w.tag != "" {
		return w.tag
	}
	return w.Kind.String()
}

// ScanVector is one sscanf/vsscanf test case.
type ScanVector struct {
	Case   int     `yaml:"case"`
	Input  string  `yaml:"input"`
	Format string  `yaml:"format"`
	Return Return  `yaml:"return"`
	Writes []Write `yaml:"writes"`
}

// Suite is the full vector table of both families.
type Suite struct {
	Print []PrintVector `yaml:"print"`
	Scan  []ScanVector  `yaml:"scan"`
}

// Len returns the number of vectors of a family.
func (s Suite) Len(f Family) int {
	if f == Scan {
		return len(s.Scan)
	}
	return len(s.Print)
}
