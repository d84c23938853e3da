package fvtable

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/lattice-substrate/fmtvec/fverr"
)

// Vector files are YAML documents with optional "print" and "scan"
// sequences:
//
//	print:
//	  - format: "%-10i%nj"
//	    args: ["10", {sink: true}]
//	    output: "10        j"
//	    counts: [10]
//	scan:
//	  - input: "100e"
//	    format: "%e"
//	    return: EOF
//	  - input: "yy x"
//	    format: "%3c"
//	    return: 1
//	    writes: [{kind: byte_array, value: "yy "}]
//
// A write with an unknown kind tag decodes successfully and is rejected at
// generation time, so the diagnostic can name its case index.

// LoadFile reads and numbers a vector file.
//
//nolint:gosec // vector file path is explicit operator input.
func LoadFile(path string) (Suite, error) {
	f, err := os.Open(path)
	if err != nil {
		return Suite{}, fverr.Wrap(fverr.CLIUsage, -1, "open vector file", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return Decode(f)
}

// Decode reads one YAML vector document from r and numbers it.
func Decode(r io.Reader) (Suite, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Suite
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return Suite{}, fverr.New(fverr.MalformedVector, -1, "vector file is empty")
		}
		return Suite{}, fverr.Wrap(fverr.MalformedVector, -1, "decode vector file", err)
	}
	return s.Numbered()
}

type argDoc struct {
	Expr string `yaml:"expr"`
	Cast string `yaml:"cast"`
	Sink bool   `yaml:"sink"`
}

// UnmarshalYAML accepts a scalar expression or an {expr, cast, sink} mapping.
func (a *Arg) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*a = Arg{Expr: node.Value}
		return nil
	case yaml.MappingNode:
		var d argDoc
		if err := node.Decode(&d); err != nil {
			return err
		}
		*a = Arg(d)
		return nil
	default:
		return fmt.Errorf("line %d: argument must be a scalar or a mapping", node.Line)
	}
}

// UnmarshalYAML accepts a non-negative integer or the scalar EOF.
func (r *Return) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: return must be a scalar", node.Line)
	}
	if node.Value == "EOF" {
		*r = ReturnsEOF()
		return nil
	}
	n, err := strconv.Atoi(node.Value)
	if err != nil || n < 0 {
		return fmt.Errorf("line %d: return must be a non-negative integer or EOF, got %q", node.Line, node.Value)
	}
	*r = Returns(n)
	return nil
}

type writeDoc struct {
	Kind   string    `yaml:"kind"`
	Value  yaml.Node `yaml:"value"`
	Length *int      `yaml:"length"`
}

// UnmarshalYAML accepts {kind, value[, length]}.
func (w *Write) UnmarshalYAML(node *yaml.Node) error {
	var d writeDoc
	if err := node.Decode(&d); err != nil {
		return err
	}
	kind, ok := KindFromTag(d.Kind)
	if !ok {
		*w = Write{tag: d.Kind}
		return nil
	}
	if d.Value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: %s write needs a scalar value", node.Line, kind)
	}
	raw := d.Value.Value
	out := Write{Kind: kind}
	switch kind {
	case String, WideString:
		out.Text = raw
	case ByteArray:
		out.Text = raw
		out.Len = len(raw)
		if d.Length != nil {
			out.Len = *d.Length
		}
	case Integer, WriteCount:
		n, err := strconv.ParseInt(raw, 0, 64)
		if err != nil {
			return fmt.Errorf("line %d: %s write: %w", d.Value.Line, kind, err)
		}
		out.Int = n
	case Float, Double, LongDouble:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("line %d: %s write: %w", d.Value.Line, kind, err)
		}
		out.Float = f
	}
	*w = out
	return nil
}
