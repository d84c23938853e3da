package fvgen

import (
	"strconv"
	"strings"

	"github.com/lattice-substrate/fmtvec/fvtable"
)

// arena is the C storage backing one Kind.
type arena struct {
	name string
	elem string
	row  bool // each slot is an array of fvtable.ArenaRowChars elements
}

var arenas = [...]arena{
	fvtable.String:     {name: "str_arena", elem: "char", row: true},
	fvtable.Integer:    {name: "int_arena", elem: "int"},
	fvtable.Float:      {name: "flt_arena", elem: "float"},
	fvtable.Double:     {name: "dbl_arena", elem: "double"},
	fvtable.LongDouble: {name: "ldbl_arena", elem: "long double"},
	fvtable.ByteArray:  {name: "bytes_arena", elem: "char", row: true},
	fvtable.WideString: {name: "wstr_arena", elem: "wchar_t", row: true},
	fvtable.WriteCount: {name: "count_arena", elem: "int"},
}

// slotCounter hands out arena slots, one independent counter per Kind.
// Every vector is marshaled with a fresh counter.
type slotCounter [fvtable.WriteCount + 1]int

func (c *slotCounter) next(k fvtable.Kind) slot {
	s := slot{kind: k, index: c[k]}
	c[k]++
	return s
}

// widen raises c to the per-kind maximum of c and o.
func (c *slotCounter) widen(o slotCounter) {
	for k := range c {
		if o[k] > c[k] {
			c[k] = o[k]
		}
	}
}

// slot is one receiving location in the arena.
type slot struct {
	kind  fvtable.Kind
	index int
}

// lvalue is the C expression naming the slot.
func (s slot) lvalue() string {
	return arenas[s.kind].name + "[" + strconv.Itoa(s.index) + "]"
}

// pointer is the C expression passed to the routine under test. Rows decay
// to a pointer to their first element.
func (s slot) pointer() string {
	if arenas[s.kind].row {
		return s.lvalue()
	}
	return "&" + s.lvalue()
}

// call is one vector's marshaled argument list.
type call struct {
	args  []string // rendered variadic arguments, sentinel excluded
	slots []slot   // receiving slots in sink or write order
	used  slotCounter
}

// marshalPrint binds literal arguments verbatim and each %n sink to the
// next WriteCount slot.
func marshalPrint(v fvtable.PrintVector) call {
	var (
		c   call
		ctr slotCounter
	)
	for _, a := range v.Args {
		if a.Sink {
			s := ctr.next(fvtable.WriteCount)
			c.slots = append(c.slots, s)
			c.args = append(c.args, s.pointer())
			continue
		}
		c.args = append(c.args, a.Render())
	}
	c.used = ctr
	return c
}

// marshalScan binds each declared write to the next slot of its Kind.
// Storing directives past the declared writes get no storage of their own;
// the first of them receives the overrun guard.
func marshalScan(v fvtable.ScanVector) call {
	var (
		c   call
		ctr slotCounter
	)
	for _, w := range v.Writes {
		s := ctr.next(w.Kind)
		c.slots = append(c.slots, s)
		c.args = append(c.args, s.pointer())
	}
	c.used = ctr
	return c
}

// render writes "entry(lead..., args..., (void *) overrun_guard)".
func (c call) render(entry string, lead ...string) string {
	var b strings.Builder
	b.WriteString(entry)
	b.WriteByte('(')
	i := 0
	for _, s := range lead {
		writeCom(&b, i)
		b.WriteString(s)
		i++
	}
	for _, s := range c.args {
		writeCom(&b, i)
		b.WriteString(s)
		i++
	}
	writeCom(&b, i)
	b.WriteString(guardArg)
	b.WriteByte(')')
	return b.String()
}

const guardArg = "(void *) overrun_guard"

func writeCom(b *strings.Builder, i int) {
	if i != 0 {
		b.WriteString(", ")
	}
}
