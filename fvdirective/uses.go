package fvdirective

import (
	"github.com/lattice-substrate/fmtvec/fverr"
)

// UseKind is the role an argument plays for a print directive.
type UseKind int

const (
	UseWidth UseKind = iota + 1
	UsePrecision
	UseValue
)

func (k UseKind) String() string {
	switch k {
	case UseWidth:
		return "width"
	case UsePrecision:
		return "precision"
	case UseValue:
		return "value"
	default:
		return "unknown"
	}
}

// Use is the consumption of one variadic argument.
type Use struct {
	Kind   UseKind
	Verb   byte   // for UseValue
	Length string // for UseValue
	Offset int    // directive offset, for diagnostics
}

// Store reports whether the argument is a write target rather than an input.
func (u Use) Store() bool {
	return u.Kind == UseValue && u.Verb == 'n'
}

func (u Use) same(o Use) bool {
	if u.Kind != o.Kind {
		return false
	}
	return u.Kind != UseValue || (u.Verb == o.Verb && u.Length == o.Length)
}

// consumesValue reports whether the directive reads a value argument.
// `%%` and glibc's `%m` do not.
func consumesValue(d Directive) bool {
	return d.Verb != '%' && d.Verb != 'm'
}

// PrintArgUses returns the argument consumption schedule of a parsed print
// format: element i describes the (i+1)-th variadic argument after the
// format. Sequential and positional (`%n$`, `*m$`) forms are supported but
// may not be mixed; in positional form every position up to the highest
// must be referenced, and one position may not serve two different roles.
func PrintArgUses(dirs []Directive) ([]Use, error) {
	sequential, positional := -1, -1
	mark := func(d Directive, pos bool) error {
		if pos {
			positional = d.Offset
		} else {
			sequential = d.Offset
		}
		if sequential >= 0 && positional >= 0 {
			return fverr.New(fverr.InvalidFormat, d.Offset, "format mixes positional and sequential arguments")
		}
		return nil
	}

	for _, d := range dirs {
		if d.WidthArg.Star {
			if err := mark(d, d.WidthArg.Position > 0); err != nil {
				return nil, err
			}
		}
		if d.PrecArg.Star {
			if err := mark(d, d.PrecArg.Position > 0); err != nil {
				return nil, err
			}
		}
		if consumesValue(d) {
			if err := mark(d, d.Position > 0); err != nil {
				return nil, err
			}
		}
	}

	if positional < 0 {
		return sequentialUses(dirs), nil
	}
	return positionalUses(dirs)
}

func sequentialUses(dirs []Directive) []Use {
	var uses []Use
	for _, d := range dirs {
		if d.WidthArg.Star {
			uses = append(uses, Use{Kind: UseWidth, Offset: d.Offset})
		}
		if d.PrecArg.Star {
			uses = append(uses, Use{Kind: UsePrecision, Offset: d.Offset})
		}
		if consumesValue(d) {
			uses = append(uses, Use{Kind: UseValue, Verb: d.Verb, Length: d.Length, Offset: d.Offset})
		}
	}
	return uses
}

func positionalUses(dirs []Directive) ([]Use, error) {
	byPos := make(map[int]Use)
	highest := 0
	assign := func(pos int, u Use) error {
		if prev, ok := byPos[pos]; ok && !prev.same(u) {
			return fverr.Newf(fverr.InvalidFormat, u.Offset,
				"argument %d used as %s and as %s", pos, prev.Kind, u.Kind)
		}
		byPos[pos] = u
		if pos > highest {
			highest = pos
		}
		return nil
	}

	for _, d := range dirs {
		if d.WidthArg.Star {
			if err := assign(d.WidthArg.Position, Use{Kind: UseWidth, Offset: d.Offset}); err != nil {
				return nil, err
			}
		}
		if d.PrecArg.Star {
			if err := assign(d.PrecArg.Position, Use{Kind: UsePrecision, Offset: d.Offset}); err != nil {
				return nil, err
			}
		}
		if consumesValue(d) {
			u := Use{Kind: UseValue, Verb: d.Verb, Length: d.Length, Offset: d.Offset}
			if err := assign(d.Position, u); err != nil {
				return nil, err
			}
		}
	}

	uses := make([]Use, highest)
	for pos := 1; pos <= highest; pos++ {
		u, ok := byPos[pos]
		if !ok {
			return nil, fverr.Newf(fverr.InvalidFormat, -1, "argument %d is never referenced", pos)
		}
		uses[pos-1] = u
	}
	return uses, nil
}

// ScanTargets returns the directives of a parsed scan format that store
// through an argument, in argument order: everything except `%%` and
// assignment-suppressed conversions.
func ScanTargets(dirs []Directive) []Directive {
	var out []Directive
	for _, d := range dirs {
		if d.Literal() || d.Suppressed {
			continue
		}
		out = append(out, d)
	}
	return out
}
