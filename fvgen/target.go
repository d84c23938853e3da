package fvgen

import (
	"strings"

	"github.com/lattice-substrate/fmtvec/fverr"
	"github.com/lattice-substrate/fmtvec/fvtable"
)

// Target is the C entry point under test. The selector is resolved once by
// ParseTarget and never re-read during generation.
type Target int

const (
	TargetSprintf Target = iota + 1
	TargetVsprintf
	TargetSscanf
	TargetVsscanf
)

var targetNames = [...]string{
	TargetSprintf:  "sprintf",
	TargetVsprintf: "vsprintf",
	TargetSscanf:   "sscanf",
	TargetVsscanf:  "vsscanf",
}

// Targets returns every target in selector order.
func Targets() []Target {
	return []Target{TargetSprintf, TargetVsprintf, TargetSscanf, TargetVsscanf}
}

// ParseTarget resolves a selector name. Unknown names are CONFIG_TARGET
// errors.
func ParseTarget(name string) (Target, error) {
	for _, t := range Targets() {
		if targetNames[t] == name {
			return t, nil
		}
	}
	return 0, fverr.Newf(fverr.ConfigTarget, -1,
		"unknown function %q (want one of %s)", name, strings.Join(targetNames[1:], ", "))
}

func (t Target) valid() bool {
	return t >= TargetSprintf && t <= TargetVsscanf
}

func (t Target) String() string {
	if !t.valid() {
		return "target(?)"
	}
	return targetNames[t]
}

// Family reports which vector family t exercises.
func (t Target) Family() fvtable.Family {
	if t == TargetSscanf || t == TargetVsscanf {
		return fvtable.Scan
	}
	return fvtable.Print
}

// Variadic reports whether t takes a va_list and therefore needs a shim.
func (t Target) Variadic() bool {
	return t == TargetVsprintf || t == TargetVsscanf
}

// Entry is the C identifier each vector block calls.
func (t Target) Entry() string {
	switch t {
	case TargetVsprintf:
		return "call_vsprintf"
	case TargetVsscanf:
		return "call_vsscanf"
	default:
		return t.String()
	}
}
