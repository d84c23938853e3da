package fvgen_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-substrate/fmtvec/fverr"
	"github.com/lattice-substrate/fmtvec/fvgen"
	"github.com/lattice-substrate/fmtvec/fvtable"
)

func generate(t *testing.T, suite fvtable.Suite, target fvgen.Target) string {
	t.Helper()
	out, err := fvgen.Generate(suite, target)
	require.NoError(t, err)
	return string(out)
}

// block returns the emitted statements of one case.
func block(t *testing.T, program string, caseIndex int) string {
	t.Helper()
	marker := "/* case " + strconv.Itoa(caseIndex) + " */\n"
	start := strings.Index(program, marker)
	require.GreaterOrEqual(t, start, 0, "case %d not emitted", caseIndex)
	rest := program[start+len(marker):]
	if end := strings.Index(rest, "/* case "); end >= 0 {
		return rest[:end]
	}
	return rest[:strings.Index(rest, "return fail;")]
}

func TestParseTarget(t *testing.T) {
	for _, name := range []string{"sprintf", "vsprintf", "sscanf", "vsscanf"} {
		tg, err := fvgen.ParseTarget(name)
		require.NoError(t, err)
		assert.Equal(t, name, tg.String())
	}
	_, err := fvgen.ParseTarget("printf")
	var fe *fverr.Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, fverr.ConfigTarget, fe.Class)
	assert.Equal(t, 2, fe.Class.ExitCode())
}

func TestTargetFamilies(t *testing.T) {
	assert.Equal(t, fvtable.Print, fvgen.TargetSprintf.Family())
	assert.Equal(t, fvtable.Print, fvgen.TargetVsprintf.Family())
	assert.Equal(t, fvtable.Scan, fvgen.TargetSscanf.Family())
	assert.Equal(t, fvtable.Scan, fvgen.TargetVsscanf.Family())
	assert.Equal(t, "call_vsscanf", fvgen.TargetVsscanf.Entry())
	assert.Equal(t, "sscanf", fvgen.TargetSscanf.Entry())
	assert.False(t, fvgen.TargetSprintf.Variadic())
}

func TestGenerateDeterministic(t *testing.T) {
	for _, tg := range fvgen.Targets() {
		a, err := fvgen.Generate(fvtable.Builtin(), tg)
		require.NoError(t, err)
		b, err := fvgen.Generate(fvtable.Builtin(), tg)
		require.NoError(t, err)
		assert.Equal(t, a, b, tg.String())
	}
}

func TestGenerateInvalidTarget(t *testing.T) {
	out, err := fvgen.Generate(fvtable.Builtin(), fvgen.Target(0))
	require.Error(t, err)
	assert.Nil(t, out)
}

func TestPrintIntegerCase(t *testing.T) {
	prog := generate(t, fvtable.Builtin(), fvgen.TargetSprintf)
	b := block(t, prog, 1)
	assert.Contains(t, b, "\treset_arena();\n")
	assert.Contains(t, b, `result = sprintf(buf, "%i", 1, (void *) overrun_guard);`)
	assert.Contains(t, b, "if (memcmp(buf, \"1\", 2) != 0)\n\t\treport(1, \"output\");")
	assert.Contains(t, b, "if (result != 1)\n\t\treport(1, \"return value\");")
}

func TestPrintSentinelOnlyCall(t *testing.T) {
	suite := fvtable.Suite{Print: []fvtable.PrintVector{{Case: 1, Format: "%%i%%.*s", Output: "%i%.*s"}}}
	prog := generate(t, suite, fvgen.TargetSprintf)
	assert.Contains(t, prog, `result = sprintf(buf, "%%i%%.*s", (void *) overrun_guard);`)
	assert.NotContains(t, prog, ", ,")
}

func TestPrintSinksAndUndeclaredCounts(t *testing.T) {
	suite := fvtable.Suite{Print: []fvtable.PrintVector{{
		Case:   3,
		Format: "%-10i%nj%n",
		Args:   []fvtable.Arg{fvtable.Lit("10"), fvtable.Sink(), fvtable.Sink()},
		Output: "10        j",
		Counts: []int{10},
	}}}
	prog := generate(t, suite, fvgen.TargetSprintf)
	b := block(t, prog, 3)
	assert.Contains(t, b, `sprintf(buf, "%-10i%nj%n", 10, &count_arena[0], &count_arena[1], (void *) overrun_guard)`)
	assert.Contains(t, b, "if (count_arena[0] != 10)\n\t\treport(3, \"count 1\");")
	assert.NotContains(t, b, "count_arena[1] !=")
	assert.Contains(t, prog, "static int count_arena[2];")
}

func TestBuiltinPercentNBlock(t *testing.T) {
	suite := fvtable.Builtin()
	var v fvtable.PrintVector
	for _, pv := range suite.Print {
		if pv.Format == "%-10i%nj" {
			v = pv
		}
	}
	require.NotZero(t, v.Case)
	b := block(t, generate(t, suite, fvgen.TargetSprintf), v.Case)
	assert.Contains(t, b, "memcmp(buf, \"10        j\", 12) != 0")
	assert.Contains(t, b, "result != 11")
	assert.Contains(t, b, "count_arena[0] != 10")
}

func TestVariadicShim(t *testing.T) {
	plain := generate(t, fvtable.Builtin(), fvgen.TargetSprintf)
	assert.NotContains(t, plain, "call_vsprintf")
	assert.NotContains(t, plain, "<stdarg.h>")

	v := generate(t, fvtable.Builtin(), fvgen.TargetVsprintf)
	assert.Contains(t, v, "#include <stdarg.h>")
	assert.Contains(t, v, "static int call_vsprintf(char *out, const char *format, ...)")
	assert.Contains(t, v, "n = vsprintf(out, format, ap);")
	assert.Contains(t, block(t, v, 1), `result = call_vsprintf(buf, "%i", 1, (void *) overrun_guard);`)

	s := generate(t, fvtable.Builtin(), fvgen.TargetVsscanf)
	assert.Contains(t, s, "n = vsscanf(input, format, ap);")
	assert.Contains(t, block(t, s, 1), `result = call_vsscanf("abc ", "%s", str_arena[0], (void *) overrun_guard);`)
}

func TestScanEOFHasNoWriteAssertions(t *testing.T) {
	suite := fvtable.Builtin()
	var c int
	for _, v := range suite.Scan {
		if v.Input == "100e" {
			c = v.Case
		}
	}
	require.NotZero(t, c)
	b := block(t, generate(t, suite, fvgen.TargetSscanf), c)
	assert.Contains(t, b, `result = sscanf("100e", "%e", (void *) overrun_guard);`)
	assert.Contains(t, b, "if (result != EOF)")
	assert.Equal(t, 1, strings.Count(b, "if ("))
}

func TestScanZeroIsNotEOF(t *testing.T) {
	suite := fvtable.Suite{Scan: []fvtable.ScanVector{{Case: 1, Input: "this", Format: "%[nmop]"}}}
	b := block(t, generate(t, suite, fvgen.TargetSscanf), 1)
	assert.Contains(t, b, "if (result != 0)")
	assert.NotContains(t, b, "EOF")
}

func TestScanUndeclaredStoresGetOnlyTheGuard(t *testing.T) {
	suite := fvtable.Suite{Scan: []fvtable.ScanVector{
		{Case: 1, Input: "this", Format: "%[nmop]"},
		{Case: 2, Input: " string", Format: "%10s%n", Return: fvtable.Returns(1),
			Writes: []fvtable.Write{fvtable.Str("string")}},
	}}
	prog := generate(t, suite, fvgen.TargetSscanf)
	assert.Contains(t, block(t, prog, 1), `result = sscanf("this", "%[nmop]", (void *) overrun_guard);`)
	assert.Contains(t, block(t, prog, 2), `result = sscanf(" string", "%10s%n", str_arena[0], (void *) overrun_guard);`)
	assert.Contains(t, prog, "static char str_arena[1][128];")
	assert.NotContains(t, prog, "count_arena")
	assert.Contains(t, prog, "static long double overrun_guard[128 * sizeof (wchar_t) / sizeof (long double) + 1];")
}

func TestScanByteArrayFixedLength(t *testing.T) {
	suite := fvtable.Suite{Scan: []fvtable.ScanVector{{
		Case:   1,
		Input:  "a b",
		Format: "%3c",
		Return: fvtable.Returns(1),
		Writes: []fvtable.Write{fvtable.Bytes("a\x00b")},
	}}}
	b := block(t, generate(t, suite, fvgen.TargetSscanf), 1)
	assert.Contains(t, b, `memcmp(bytes_arena[0], "a\000b", 3) != 0`)
}

func TestScanComparators(t *testing.T) {
	prog := generate(t, fvtable.Builtin(), fvgen.TargetSscanf)
	assert.Contains(t, prog, "return (d < 0 ? -d : d) < 0.00001f;")
	assert.Contains(t, prog, "return (d < 0 ? -d : d) < 0.00001;")
	assert.Contains(t, prog, "return (d < 0 ? -d : d) < 0.00001L;")
	assert.Contains(t, prog, "!flt_eq(flt_arena[0], -6.0f)")
	assert.Contains(t, prog, "!dbl_eq(dbl_arena[0], 0.0066)")
	assert.Contains(t, prog, "!ldbl_eq(ldbl_arena[0], 123.4L)")
	assert.Contains(t, prog, `strcmp(str_arena[0], "abc") != 0`)
	assert.Contains(t, prog, `wcscmp(wstr_arena[0], L"123") != 0`)
	assert.Contains(t, prog, "int_arena[1] != 3")
}

func TestScanCountersAreFreshPerVector(t *testing.T) {
	suite := fvtable.Suite{Scan: []fvtable.ScanVector{
		{Input: "  ", Format: "%c%n%c", Return: fvtable.Returns(2),
			Writes: []fvtable.Write{fvtable.Bytes(" "), fvtable.Count(1), fvtable.Bytes(" ")}},
		{Input: "i", Format: "%n%ni", Return: fvtable.Returns(0),
			Writes: []fvtable.Write{fvtable.Count(0), fvtable.Count(0)}},
	}}
	suite, err := suite.Numbered()
	require.NoError(t, err)
	prog := generate(t, suite, fvgen.TargetSscanf)
	assert.Contains(t, block(t, prog, 1), `sscanf("  ", "%c%n%c", bytes_arena[0], &count_arena[0], bytes_arena[1], (void *) overrun_guard)`)
	assert.Contains(t, block(t, prog, 2), `sscanf("i", "%n%ni", &count_arena[0], &count_arena[1], (void *) overrun_guard)`)
	assert.Contains(t, prog, "static char bytes_arena[2][128];")
	assert.Contains(t, prog, "static int count_arena[2];")
	assert.NotContains(t, prog, "str_arena")
}

func TestArenaOnlyDeclaresUsedKinds(t *testing.T) {
	prog := generate(t, fvtable.Builtin(), fvgen.TargetSprintf)
	assert.Contains(t, prog, "static char buf[512];")
	assert.Contains(t, prog, "static int count_arena[2];")
	for _, name := range []string{"str_arena", "int_arena", "flt_arena", "wstr_arena"} {
		assert.NotContains(t, prog, name)
	}
	assert.Contains(t, prog, "\tmemset(count_arena, 0x5a, sizeof count_arena);\n")

	scan := generate(t, fvtable.Builtin(), fvgen.TargetSscanf)
	assert.Contains(t, scan, "static char str_arena[2][128];")
	assert.Contains(t, scan, "static wchar_t wstr_arena[1][128];")
	assert.Contains(t, scan, "\t\tstr_arena[i][127] = 0;\n")
}

func TestUnknownKindAbortsNamingCase(t *testing.T) {
	suite := fvtable.Suite{Scan: []fvtable.ScanVector{
		{Case: 1, Input: "1", Format: "%d", Return: fvtable.Returns(1), Writes: []fvtable.Write{fvtable.Int(1)}},
		{Case: 7, Input: "1", Format: "%d", Return: fvtable.Returns(1), Writes: []fvtable.Write{{Kind: fvtable.Kind(99)}}},
	}}
	out, err := fvgen.Generate(suite, fvgen.TargetSscanf)
	assert.Nil(t, out)
	var fe *fverr.Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, fverr.MalformedVector, fe.Class)
	assert.Equal(t, 7, fe.Case)
	assert.Contains(t, err.Error(), "in case 7")
}

func TestCaseIndicesMustIncrease(t *testing.T) {
	vec := func(c int) fvtable.PrintVector {
		return fvtable.PrintVector{Case: c, Format: "%i", Args: []fvtable.Arg{fvtable.Lit("1")}, Output: "1"}
	}
	for _, tc := range []struct {
		name  string
		cases []int
		want  int
	}{
		{"duplicate", []int{5, 5}, 5},
		{"decreasing", []int{5, 3}, 3},
		{"unnumbered", []int{5, 0}, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var suite fvtable.Suite
			for _, c := range tc.cases {
				suite.Print = append(suite.Print, vec(c))
			}
			out, err := fvgen.Generate(suite, fvgen.TargetSprintf)
			assert.Nil(t, out)
			var fe *fverr.Error
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, fverr.MalformedVector, fe.Class)
			assert.Equal(t, tc.want, fe.Case)
		})
	}
}

func TestArgumentCountMismatchAborts(t *testing.T) {
	suite := fvtable.Suite{Print: []fvtable.PrintVector{{Case: 2, Format: "%i%i", Args: []fvtable.Arg{fvtable.Lit("1")}, Output: "11"}}}
	_, err := fvgen.Generate(suite, fvgen.TargetSprintf)
	var fe *fverr.Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 2, fe.Case)
}

func TestOtherFamilyIsIgnored(t *testing.T) {
	suite := fvtable.Suite{
		Print: []fvtable.PrintVector{{Case: 1, Format: "%i", Args: []fvtable.Arg{fvtable.Lit("1")}, Output: "1"}},
		Scan:  []fvtable.ScanVector{{Case: 1, Format: "%d", Writes: []fvtable.Write{{Kind: fvtable.Kind(99)}}}},
	}
	prog := generate(t, suite, fvgen.TargetSprintf)
	assert.NotContains(t, prog, "sscanf")
}

func TestCasesInTableOrder(t *testing.T) {
	suite := fvtable.Builtin()
	prog := generate(t, suite, fvgen.TargetSprintf)
	last := -1
	for _, v := range suite.Print {
		at := strings.Index(prog, "/* case "+strconv.Itoa(v.Case)+" */\n")
		require.Greater(t, at, last, "case %d out of order", v.Case)
		last = at
	}
}

func TestWideProbe(t *testing.T) {
	p := generate(t, fvtable.Builtin(), fvgen.TargetSprintf)
	assert.Contains(t, p, `static const char wide_pattern[] = "\320\232\320\236\320\250\320\232\320\220";`)
	assert.Contains(t, p, `setlocale(LC_ALL, "C.UTF-8")`)
	assert.Contains(t, p, `n = sprintf(got, "%ls", want, (void *) overrun_guard);`)
	assert.Contains(t, p, `report(0, "wide output");`)
	assert.Contains(t, p, "\tprobe_wide();\n")

	s := generate(t, fvtable.Builtin(), fvgen.TargetSscanf)
	assert.Contains(t, s, `n = sscanf(wide_pattern, "%ls", got, (void *) overrun_guard);`)
	assert.Contains(t, s, `report(0, "wide input");`)
}

func TestProgramShape(t *testing.T) {
	p := generate(t, fvtable.Builtin(), fvgen.TargetSprintf)
	assert.True(t, strings.HasPrefix(p, "/* Generated by fmtvec for sprintf. Do not edit. */\n"))
	assert.True(t, strings.HasSuffix(p, "\n\treturn fail;\n}\n"))
	assert.Contains(t, p, "UINT64_C(0x7FF0000000000000)")
	assert.Contains(t, p, "UINT64_C(0x7FF8000000000000)")
	assert.NotContains(t, p, "strtod")
	assert.Contains(t, p, `fprintf(stderr, "failed test %d: %s\n", test, what);`)
}
