// Package fvgen synthesizes standalone C programs that check a C runtime's
// sprintf, vsprintf, sscanf or vsscanf against a vector table.
//
// Generation is a pure function of the suite and the target: the same
// inputs always produce byte-identical source. Vectors are validated before
// anything is emitted, and the first malformed vector aborts generation
// with an error naming its case index. Case indices must be positive and
// strictly increasing within the family; case 0 belongs to the wide
// character probe.
package fvgen

import (
	"bytes"
	"fmt"

	"github.com/lattice-substrate/fmtvec/fverr"
	"github.com/lattice-substrate/fmtvec/fvtable"
)

// widePattern is the UTF-8 text the wide-character probe round-trips.
const widePattern = "\xd0\x9a\xd0\x9e\xd0\xa8\xd0\x9a\xd0\x90"

// Generate assembles the verification program for one target from the
// vectors of the target's family.
func Generate(suite fvtable.Suite, t Target) ([]byte, error) {
	if !t.valid() {
		return nil, fverr.Newf(fverr.ConfigTarget, -1, "invalid target %d", int(t))
	}
	if err := suite.CheckCases(t.Family()); err != nil {
		return nil, err
	}
	var (
		body bytes.Buffer
		used slotCounter
	)
	switch t.Family() {
	case fvtable.Print:
		for _, v := range suite.Print {
			c, err := printBlock(&body, v, t)
			if err != nil {
				return nil, err
			}
			used.widen(c.used)
		}
	case fvtable.Scan:
		for _, v := range suite.Scan {
			c, err := scanBlock(&body, v, t)
			if err != nil {
				return nil, err
			}
			used.widen(c.used)
		}
	}

	var out bytes.Buffer
	writePrologue(&out, t, used)
	out.WriteString("int main(void)\n{\n\tint result;\n\n\tprobe_wide();\n")
	out.Write(body.Bytes())
	out.WriteString("\n\treturn fail;\n}\n")
	return out.Bytes(), nil
}

func printBlock(b *bytes.Buffer, v fvtable.PrintVector, t Target) (call, error) {
	if err := fvtable.ValidatePrint(v); err != nil {
		return call{}, err
	}
	c := marshalPrint(v)
	writeBlock(b, v.Case, c.render(t.Entry(), "buf", cString(v.Format)), printChecks(v, c))
	return c, nil
}

func scanBlock(b *bytes.Buffer, v fvtable.ScanVector, t Target) (call, error) {
	if err := fvtable.ValidateScan(v); err != nil {
		return call{}, err
	}
	c := marshalScan(v)
	checks, err := scanChecks(v, c)
	if err != nil {
		return call{}, err
	}
	writeBlock(b, v.Case, c.render(t.Entry(), cString(v.Input), cString(v.Format)), checks)
	return c, nil
}

func writeBlock(b *bytes.Buffer, caseIndex int, callExpr string, checks []check) {
	fmt.Fprintf(b, "\n\t/* case %d */\n", caseIndex)
	b.WriteString("\treset_arena();\n")
	fmt.Fprintf(b, "\tresult = %s;\n", callExpr)
	for _, ck := range checks {
		fmt.Fprintf(b, "\tif (%s)\n\t\treport(%d, %s);\n", ck.cond, caseIndex, cString(ck.what))
	}
}

func writePrologue(b *bytes.Buffer, t Target, used slotCounter) {
	fmt.Fprintf(b, "/* Generated by fmtvec for %s. Do not edit. */\n\n", t)
	b.WriteString(`#include <locale.h>
#include <stdint.h>
#include <stdio.h>
#include <stdlib.h>
#include <string.h>
#include <wchar.h>
`)
	if t.Variadic() {
		b.WriteString("#include <stdarg.h>\n")
	}
	b.WriteString(`
/*
 * Passed after the last real argument of every call. A runtime that reads
 * more arguments than the format names finds this buffer instead of stack
 * garbage on common calling conventions, and a scan directive without a
 * declared write stores into it. It holds a full wide row and is aligned
 * for every stored type. This is best effort only.
 */
`)
	fmt.Fprintf(b, "static long double overrun_guard[%d * sizeof (wchar_t) / sizeof (long double) + 1];\n", fvtable.ArenaRowChars)
	if t.Family() == fvtable.Print {
		fmt.Fprintf(b, "static char buf[%d];\n", fvtable.OutputBufferSize)
	}
	writeArena(b, t, used)
	b.WriteString(`
static int fail;

static void report(int test, const char *what)
{
	fprintf(stderr, "failed test %d: %s\n", test, what);
	fail = 1;
}

double make_infinity(void)
{
	uint64_t bits = UINT64_C(0x7FF0000000000000);
	double d;

	memcpy(&d, &bits, sizeof d);
	return d;
}

double make_nan(void)
{
	uint64_t bits = UINT64_C(0x7FF8000000000000);
	double d;

	memcpy(&d, &bits, sizeof d);
	return d;
}
`)
	switch t {
	case TargetVsprintf:
		b.WriteString(`
static int call_vsprintf(char *out, const char *format, ...)
{
	va_list ap;
	int n;

	va_start(ap, format);
	n = vsprintf(out, format, ap);
	va_end(ap);
	return n;
}
`)
	case TargetVsscanf:
		b.WriteString(`
static int call_vsscanf(const char *input, const char *format, ...)
{
	va_list ap;
	int n;

	va_start(ap, format);
	n = vsscanf(input, format, ap);
	va_end(ap);
	return n;
}
`)
	}
	if t.Family() == fvtable.Scan {
		b.WriteString(`
static int flt_eq(float a, float b)
{
	float d = a - b;

	return (d < 0 ? -d : d) < 0.00001f;
}

static int dbl_eq(double a, double b)
{
	double d = a - b;

	return (d < 0 ? -d : d) < 0.00001;
}

static int ldbl_eq(long double a, long double b)
{
	long double d = a - b;

	return (d < 0 ? -d : d) < 0.00001L;
}
`)
	}
	writeProbe(b, t)
	b.WriteByte('\n')
}

// writeArena declares storage for the kinds in use, each sized to the
// largest number of slots one vector needs, and reset_arena, which poisons
// all of it before every vector.
func writeArena(b *bytes.Buffer, t Target, used slotCounter) {
	var reset bytes.Buffer
	if t.Family() == fvtable.Print {
		reset.WriteString("\tmemset(buf, 0x5a, sizeof buf);\n")
		reset.WriteString("\tbuf[sizeof buf - 1] = '\\0';\n")
	}
	rows := false
	for _, k := range fvtable.Kinds() {
		n := used[k]
		if n == 0 {
			continue
		}
		a := arenas[k]
		if a.row {
			fmt.Fprintf(b, "static %s %s[%d][%d];\n", a.elem, a.name, n, fvtable.ArenaRowChars)
		} else {
			fmt.Fprintf(b, "static %s %s[%d];\n", a.elem, a.name, n)
		}
		fmt.Fprintf(&reset, "\tmemset(%s, 0x5a, sizeof %s);\n", a.name, a.name)
		if a.row {
			fmt.Fprintf(&reset, "\tfor (i = 0; i < %d; i++)\n\t\t%s[i][%d] = 0;\n", n, a.name, fvtable.ArenaRowChars-1)
		}
		rows = rows || a.row
	}
	b.WriteString("\nstatic void reset_arena(void)\n{\n")
	if rows {
		b.WriteString("\tint i;\n\n")
	}
	b.Write(reset.Bytes())
	b.WriteString("}\n")
}

// writeProbe emits probe_wide, which checks that the target converts wide
// characters under a UTF-8 locale. It reports case 0 when it cannot, and
// always restores the C locale for the vectors.
func writeProbe(b *bytes.Buffer, t Target) {
	fmt.Fprintf(b, "\nstatic const char wide_pattern[] = %s;\n", cString(widePattern))
	b.WriteString(`
static void probe_wide(void)
{
	wchar_t want[16];
`)
	if t.Family() == fvtable.Print {
		b.WriteString("\tchar got[64];\n")
	} else {
		b.WriteString("\twchar_t got[16];\n")
	}
	b.WriteString(`	int n;

	if (setlocale(LC_ALL, "en_US.UTF-8") == NULL && setlocale(LC_ALL, "C.UTF-8") == NULL) {
		report(0, "no UTF-8 locale for the wide character probe");
		return;
	}
	if (mbstowcs(want, wide_pattern, 16) != 5) {
		report(0, "mbstowcs");
		setlocale(LC_ALL, "C");
		return;
	}
`)
	if t.Family() == fvtable.Print {
		fmt.Fprintf(b, "\tn = %s(got, \"%%ls\", want, %s);\n", t.Entry(), guardArg)
		b.WriteString(`	if (n != (int) strlen(wide_pattern) || strcmp(got, wide_pattern) != 0)
		report(0, "wide output");
`)
	} else {
		fmt.Fprintf(b, "\tn = %s(wide_pattern, \"%%ls\", got, %s);\n", t.Entry(), guardArg)
		b.WriteString(`	if (n != 1 || wcscmp(got, want) != 0)
		report(0, "wide input");
`)
	}
	b.WriteString("\tsetlocale(LC_ALL, \"C\");\n}\n")
}
