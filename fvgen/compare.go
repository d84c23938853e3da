package fvgen

import (
	"fmt"
	"strconv"

	"github.com/lattice-substrate/fmtvec/fverr"
	"github.com/lattice-substrate/fmtvec/fvtable"
)

// check is one synthesized assertion: a C condition that is true on
// failure, and the label reported with the case index.
type check struct {
	cond string
	what string
}

// printChecks asserts the exact output bytes including the terminator, the
// return value, and each declared %n count. Undeclared sinks are not
// checked.
func printChecks(v fvtable.PrintVector, c call) []check {
	checks := []check{
		{
			cond: fmt.Sprintf("memcmp(buf, %s, %d) != 0", cString(v.Output), len(v.Output)+1),
			what: "output",
		},
		{
			cond: fmt.Sprintf("result != %d", len(v.Output)),
			what: "return value",
		},
	}
	for i, want := range v.Counts {
		checks = append(checks, check{
			cond: fmt.Sprintf("%s != %d", c.slots[i].lvalue(), want),
			what: "count " + strconv.Itoa(i+1),
		})
	}
	return checks
}

// scanChecks asserts the return value first, then each declared write
// against the slot its directive was bound to.
func scanChecks(v fvtable.ScanVector, c call) ([]check, error) {
	ret := "EOF"
	if !v.Return.EOF {
		ret = strconv.Itoa(v.Return.Count)
	}
	checks := []check{{cond: "result != " + ret, what: "return value"}}
	for i, w := range v.Writes {
		if i >= len(c.slots) {
			return nil, fverr.Vector(v.Case, "write %d has no storing directive", i+1)
		}
		cond, err := writeCond(c.slots[i], w)
		if err != nil {
			return nil, fverr.Vector(v.Case, "write %d: %s", i+1, err)
		}
		checks = append(checks, check{cond: cond, what: "write " + strconv.Itoa(i+1)})
	}
	return checks, nil
}

func writeCond(s slot, w fvtable.Write) (string, error) {
	if s.kind != w.Kind {
		return "", fmt.Errorf("%s expectation bound to %s storage", w.TagName(), s.kind)
	}
	lv := s.lvalue()
	switch w.Kind {
	case fvtable.String:
		return fmt.Sprintf("strcmp(%s, %s) != 0", lv, cString(w.Text)), nil
	case fvtable.Integer, fvtable.WriteCount:
		return fmt.Sprintf("%s != %d", lv, w.Int), nil
	case fvtable.ByteArray:
		return fmt.Sprintf("memcmp(%s, %s, %d) != 0", lv, cString(w.Text), w.Len), nil
	case fvtable.WideString:
		return fmt.Sprintf("wcscmp(%s, %s) != 0", lv, cWideString(w.Text)), nil
	case fvtable.Float:
		return fmt.Sprintf("!flt_eq(%s, %s)", lv, cFloat(w.Float, "f")), nil
	case fvtable.Double:
		return fmt.Sprintf("!dbl_eq(%s, %s)", lv, cFloat(w.Float, "")), nil
	case fvtable.LongDouble:
		return fmt.Sprintf("!ldbl_eq(%s, %s)", lv, cFloat(w.Float, "L")), nil
	default:
		return "", fmt.Errorf("unknown kind %q", w.TagName())
	}
}

func cString(s string) string {
	return string(appendCString(nil, s))
}

func cWideString(s string) string {
	return string(appendCWideString(nil, s))
}
