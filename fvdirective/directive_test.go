package fvdirective_test

import (
	"errors"
	"testing"

	"github.com/lattice-substrate/fmtvec/fvdirective"
	"github.com/lattice-substrate/fmtvec/fverr"
)

func mustPrint(t *testing.T, format string) []fvdirective.Directive {
	t.Helper()
	dirs, err := fvdirective.ParsePrint(format)
	if err != nil {
		t.Fatalf("parse %q: %v", format, err)
	}
	return dirs
}

func mustScan(t *testing.T, format string) []fvdirective.Directive {
	t.Helper()
	dirs, err := fvdirective.ParseScan(format)
	if err != nil {
		t.Fatalf("parse %q: %v", format, err)
	}
	return dirs
}

func mustFormatErr(t *testing.T, err error) *fverr.Error {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	var fe *fverr.Error
	if !errors.As(err, &fe) {
		t.Fatalf("expected *fverr.Error, got %T: %v", err, err)
	}
	if fe.Class != fverr.InvalidFormat {
		t.Fatalf("class = %s, want INVALID_FORMAT", fe.Class)
	}
	return fe
}

func TestParsePrintFields(t *testing.T) {
	dirs := mustPrint(t, "x%-#3.2lo y")
	if len(dirs) != 1 {
		t.Fatalf("got %d directives", len(dirs))
	}
	d := dirs[0]
	if d.Offset != 1 || d.Flags != "-#" || d.Width != 3 || d.Precision != 2 || d.Length != "l" || d.Verb != 'o' {
		t.Fatalf("unexpected directive %+v", d)
	}
}

func TestParsePrintZeroFlagNotPosition(t *testing.T) {
	d := mustPrint(t, "%024.12g")[0]
	if d.Flags != "0" || d.Width != 24 || d.Precision != 12 || d.Position != 0 {
		t.Fatalf("unexpected directive %+v", d)
	}
}

func TestParsePrintPositionalStars(t *testing.T) {
	d := mustPrint(t, "%3$-*2$.*1$a")[0]
	if d.Position != 3 || d.WidthArg.Position != 2 || d.PrecArg.Position != 1 || d.Flags != "-" {
		t.Fatalf("unexpected directive %+v", d)
	}
}

func TestParsePrintEmptyPrecision(t *testing.T) {
	d := mustPrint(t, "%#.Lf")[0]
	if d.Precision != 0 || d.Length != "L" {
		t.Fatalf("unexpected directive %+v", d)
	}
}

func TestParsePrintErrors(t *testing.T) {
	cases := []struct {
		format string
		offset int
	}{
		{"abc%", 3},
		{"%y", 0},
		{"ok %5.3", 3},
		{"%99999999d", 0},
	}
	for _, tc := range cases {
		_, err := fvdirective.ParsePrint(tc.format)
		fe := mustFormatErr(t, err)
		if fe.Offset != tc.offset {
			t.Errorf("%q: offset = %d, want %d", tc.format, fe.Offset, tc.offset)
		}
	}
}

func TestPrintArgUsesCounts(t *testing.T) {
	cases := []struct {
		format string
		want   int
	}{
		{"%i", 1},
		{"%%i%%.*s", 0},
		{"%*.*hho", 3},
		{"%+*.*i%*x", 5},
		{"%+i%#X%0*d", 4},
		{"%6c.*F", 1},
		{"%%%i%%%i%%", 2},
		{"%3$*2$.*1$i", 3},
		{"%2$s %2$s %2$.*1$s", 2},
		{"%1$*2$ls", 2},
		{"12%n%s%n3", 3},
		{"%m and %i", 1},
	}
	for _, tc := range cases {
		uses, err := fvdirective.PrintArgUses(mustPrint(t, tc.format))
		if err != nil {
			t.Fatalf("%q: %v", tc.format, err)
		}
		if len(uses) != tc.want {
			t.Errorf("%q: %d uses, want %d", tc.format, len(uses), tc.want)
		}
	}
}

func TestPrintArgUsesRoles(t *testing.T) {
	uses, err := fvdirective.PrintArgUses(mustPrint(t, "%2$#*1$.*3$x"))
	if err != nil {
		t.Fatal(err)
	}
	want := []fvdirective.UseKind{fvdirective.UseWidth, fvdirective.UseValue, fvdirective.UsePrecision}
	for i, u := range uses {
		if u.Kind != want[i] {
			t.Fatalf("use %d = %s, want %s", i+1, u.Kind, want[i])
		}
	}
	if uses[1].Verb != 'x' {
		t.Fatalf("value verb = %q", uses[1].Verb)
	}
}

func TestPrintArgUsesStore(t *testing.T) {
	uses, err := fvdirective.PrintArgUses(mustPrint(t, "%-10i%nj"))
	if err != nil {
		t.Fatal(err)
	}
	if len(uses) != 2 || uses[0].Store() || !uses[1].Store() {
		t.Fatalf("unexpected uses %+v", uses)
	}
}

func TestPrintArgUsesErrors(t *testing.T) {
	for _, format := range []string{
		"%1$i %i",       // mixed
		"%*1$d",         // mixed within one directive
		"%3$i %1$i",     // gap at 2
		"%1$i %1$*1$s",  // conflicting roles
		"%1$s %1$d",     // conflicting verbs
	} {
		_, err := fvdirective.PrintArgUses(mustPrint(t, format))
		mustFormatErr(t, err)
	}
}

func TestParseScanSuppressionAndWidth(t *testing.T) {
	dirs := mustScan(t, "%*2i%o")
	if len(dirs) != 2 || !dirs[0].Suppressed || dirs[0].Width != 2 || dirs[1].Verb != 'o' {
		t.Fatalf("unexpected directives %+v", dirs)
	}
	targets := fvdirective.ScanTargets(dirs)
	if len(targets) != 1 || targets[0].Verb != 'o' {
		t.Fatalf("unexpected targets %+v", targets)
	}
}

func TestParseScanSets(t *testing.T) {
	cases := []struct {
		format string
		set    string
		after  int
	}{
		{"%[] a]", "] a", 0},
		{"%[][]", "][", 0},
		{"%3[^ ]%s", "^ ", 1},
		{"%[^a]", "^a", 0},
		{"%[^]x]y", "^]x", 0},
		{"%[x-z]%nab", "x-z", 1},
	}
	for _, tc := range cases {
		dirs := mustScan(t, tc.format)
		if dirs[0].Verb != '[' || dirs[0].Set != tc.set {
			t.Errorf("%q: set = %q, want %q", tc.format, dirs[0].Set, tc.set)
		}
		if len(dirs)-1 != tc.after {
			t.Errorf("%q: %d trailing directives, want %d", tc.format, len(dirs)-1, tc.after)
		}
	}
}

func TestParseScanLiteralPercent(t *testing.T) {
	dirs := mustScan(t, "%%%n")
	if len(dirs) != 2 || !dirs[0].Literal() || dirs[1].Verb != 'n' {
		t.Fatalf("unexpected directives %+v", dirs)
	}
	if got := fvdirective.ScanTargets(dirs); len(got) != 1 {
		t.Fatalf("targets = %d, want 1", len(got))
	}
}

func TestParseScanLengths(t *testing.T) {
	for format, length := range map[string]string{
		"%Lf":  "L",
		"%lg":  "l",
		"%3ls": "l",
		"%hhd": "hh",
		"%lld": "ll",
		"%1Le": "L",
	} {
		d := mustScan(t, format)[0]
		if d.Length != length {
			t.Errorf("%q: length = %q, want %q", format, d.Length, length)
		}
	}
}

func TestParseScanErrors(t *testing.T) {
	for _, format := range []string{"%[abc", "%0d", "%y", "%", "%5"} {
		_, err := fvdirective.ParseScan(format)
		mustFormatErr(t, err)
	}
}
