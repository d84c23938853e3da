package fvtable

// Helpers keep the tables one row per vector.
func pv(format string, out string, args ...Arg) PrintVector {
	return PrintVector{Format: format, Args: args, Output: out}
}

func pnv(format string, out string, counts []int, args ...Arg) PrintVector {
	return PrintVector{Format: format, Args: args, Output: out, Counts: counts}
}

func sv(input, format string, ret Return, writes ...Write) ScanVector {
	return ScanVector{Input: input, Format: format, Return: ret, Writes: writes}
}

var (
	one    = Lit("1")
	sink   = Sink()
	ldInf  = Cast("long double", Infinity)
	ldNInf = Cast("long double", NegInfinity)
	ldNaN  = Cast("long double", NaN)
)

var printBasic = []PrintVector{
	pv("%i", "1", one),
	pv("%d", "1", one),
	pv("%u", "1", one),
	pv("%o", "1", one),
	pv("%x", "1", one),
	pv("%X", "1", one),
	pv("%#o", "01", one),
	pv("%#2o", "01", one),
	pv("%.3o", "001", one),
	pv("%*.*hho", "    0100", Lit("8"), Lit("4"), Cast("unsigned char", "64")),
	pv("%-*.*hi", "0555    ", Lit("8"), Lit("4"), Cast("short", "555")),
	pv("%#hx", "0xffff", Cast("short", "0xffff")),
	pv("%10hhx", "        ff", Cast("unsigned char", "0xff")),
	pv("%#x", "0x1", one),
	pv("%#.2o", "05", Lit("5")),
	pv("%-#3.2o", "011", Lit("9")),
	pv("%+ 3d", " -6", Lit("-6")),
	pv("%+*.*i%*x", " +01f", Lit("4"), Lit("2"), Lit("1"), Lit("0"), Lit("15")),
	pv("%#X", "0X1", one),
	pv("%+i%#X%0*d", "+60X1103", Lit("6"), Lit("17"), Lit("2"), Lit("3")),
	pv("%%i%%.*s", "%i%.*s"),
	pv("%.*s", "01234", Lit("5"), Lit(`"01234567"`)),
	pv("%10.*s", "     01234", Lit("5"), Lit(`"012345678"`)),
	pv("%2i", " 1", one),
	pv("|%10c|", "|         a|", Lit(`'a'`)),
	pv("%8.1e", " 1.0e-99", Lit("1e-99")),
	pv("%8.0g", "   1e-99", Lit("1e-99")),
	pv("%8.1g", "   1e-99", Lit("1e-99")),
	pv("%1i", "20", Lit("20")),
	pv("%2.3u", "014", Lit("14")),
	pv("%*.*g", "   1e-99", Lit("8"), Lit("1"), Lit("1e-99")),
	pv("%3$*2$.*1$i", " 005", Lit("3"), Lit("4"), Lit("5")),
	pv("%3$*1$.*2$s", "        St", Lit("10"), Lit("2"), Lit(`"String"`)),
	pv("%+i", "+6", Lit("6")),
	// %a output is 4-bit aligned.
	pv("%.5a", "0x1.8b0a4p+3", Lit("12.345")),
	pv("%10.1a", "  0x1.4p+1", Lit("2.5")),
	pv("%.*a", "0x1.8b0a4p+3", Lit("5"), Lit("12.345")),
	pv("%*.*a", "  0x1.4p+1", Lit("10"), Lit("1"), Lit("2.5")),
	pv("%3$-*2$.*1$a", "0x1.400000000000p+2", Lit("12"), Lit("2"), Lit("5.0")),
	pv("%2$0*1$a", "0x001.4p+3", Lit("10"), Lit("10.0")),
	pv("% i", " 6", Lit("6")),
	pv("%#lx", "0xfffffffff", Lit("0xfffffffffl")),
	pv("%1$ +i", "+99", Lit("99")),
	pv("%2$s %2$s %2$.*1$s", "string string stri", Lit("4"), Lit(`"string"`)),
	pv("pi: %.5f", "pi: 3.14159", Lit("3.14159")),
	pv("%-3i", "6  ", Lit("6")),
	pv("%2$-*1$i", "6  ", Lit("3"), Lit("6")),
	pv("%%i%i", "%i5", Lit("5")),
	pv("%%%-5.4s", "%stri ", Lit(`"string"`)),
	pv("%#o", "0100", Lit("64")),
	pv("%-2i", "100", Lit("100")),
	pv("%2$#*1$.*3$x", "0x0000000a", Lit("10"), Lit("10"), Lit("8")),
	pv("%2$#*1$.*3$x", "  0x00000a", Lit("10"), Lit("10"), Lit("6")),
	pv("%2$#*1$.*3$x", "   0x00000a", Lit("11"), Lit("10"), Lit("6")),
	pv("%2$#*1$.*3$x", "  0x00000b", Lit("10"), Lit("11"), Lit("6")),
	pv("%2$-#*1$.*3$x", "0x00000b  ", Lit("10"), Lit("11"), Lit("6")),
	pv("%1.7x", "000000f", Lit("15")),
	pv("%10.7x", "   000000f", Lit("15")),
	pv("%-10.7x", "000000f   ", Lit("15")),
	pv("%10s", "       abc", Lit(`"abc"`)),
	pv("%-10s", "abc       ", Lit(`"abc"`)),
	pv("%llo", "1777777777777777777777", Lit("0xffffffffffffffffull")),
	pv("%-10.4s", "  ab      ", Lit(`"  abc"`)),
	pv("%10.4s", "          ", Lit(`"  \0abc"`)),
	pv("%.7X", "0FFFFFF", Lit("0xffffff")),
	pv("%1s", " ", Lit(`"\0"`)),
	pv("%1$.*2$e", "3.14000e+00", Lit("3.14"), Lit("5")),
	pv("%0*.*E", "0000009.99E+99", Lit("14"), Lit("2"), Lit("9.99E+99")),
	pv("%*.*E", "      9.99E+99", Lit("14"), Lit("2"), Lit("9.99E+99")),
	pv("%0*.*F", "00000000999.78", Lit("14"), Lit("2"), Lit("9.9978e+02")),
	pv("%6c.*F", "     \xfe.*F", Lit(`'\xfe'`)),
	pv("%lli", "1", Lit("1ll")),
	pv("%10.6llx", "    0fffff", Lit("0xfffffull")),
	pv("%10.6lli", "   1048575", Lit("0xfffffll")),
	pv("%.0e", "1e+00", Lit("1.0")),
	pv("%.0f", "1", Lit("1.0")),
	pv("%024.12g", "00000000000123450.006789", Lit("123450.006789")),
	pv("%0#13E", "01.000000E+02", Lit("100.0")),
	pv("%0#13.0E", "00000001.E+02", Lit("100.0")),
	pv("%013.0E", "000000001E+02", Lit("100.0")),
	pv("%%%i%%%i%%", "%6%7%", Lit("6"), Lit("7")),
	pv(" %5s", "  1234", Lit(`"1234"`)),
	pv("%.10Lg", "3240000000", Lit("3.24e9l")),
	pv("%#.0Lf", "0.", Lit("0.0l")),
	pv("%2$#.*1$Le", "0.e+00", Lit("0"), Lit("0.0l")),
	// A conforming runtime may also print "infinity".
	pv("%Lf", "inf", ldInf),
	pv("%f", "inf", Lit(Infinity)),
	pv("%6e", "  -inf", Lit(NegInfinity)),
	pv("%-6e", "-inf  ", Lit(NegInfinity)),
	pv("%+a", "+inf", Lit(Infinity)),
	// ...or "INFINITY".
	pv("%#F", "INF", Lit(Infinity)),
	pv("%+LG", "+INF", ldInf),
	pv("%+LG", "-INF", ldNInf),
	// ...or append a parenthesized character sequence to nan.
	pv("%Lg", "nan", ldNaN),
	pv("%f", "nan", Lit(NaN)),
	pv("%6e", "   nan", Lit(NaN)),
	pv("%.1Lg", "nan", ldNaN),
	pv("%-6e", "nan   ", Lit(NaN)),
	pv("%F", "NAN", Lit(NaN)),
	pv("%LG", "NAN", ldNaN),
	pv("%ls", "123456", Lit(`L"123456"`)),
	pv("%lc", "u", Lit(`L'u'`)),
	pv("%1$*2$ls", " 123", Lit(`L"123"`), Lit("4")),
	pv("%.3ls", "str", Lit(`L"string"`)),
	pv("%3lc", "  n", Lit(`L'n'`)),
	pv("%-4ls", "    ", Lit(`L"  "`)),
}

var printPercentN = []PrintVector{
	pnv("%n %n", " ", []int{0, 1}, sink, sink),
	pnv("%s%n", "abc", []int{3}, Lit(`"abc"`), sink),
	pnv("%ls %n", "xy ", []int{3}, Lit(`L"xy"`), sink),
	pnv("12345%n", "12345", []int{5}, sink),
	pnv("%-10i%nj", "10        j", []int{10}, Lit("10"), sink),
	// Assumes infinity prints as "inf".
	pnv("%+f-%nx", "+inf-x", []int{5}, Lit(Infinity), sink),
	pnv("%s%n%s", "ab", []int{1}, Lit(`"a"`), sink, Lit(`"b"`)),
	pnv("%.2s%n%n", "st", []int{2, 2}, Lit(`"str"`), sink, sink),
	pnv("12%n%s%n3", "123", []int{2, 2}, sink, Lit(`""`), sink),
}

var scanBasic = []ScanVector{
	sv("abc ", "%s", Returns(1), Str("abc")),
	sv("  abc", "%1[ ]", Returns(1), Str(" ")),
	sv("  abc", "%[] a]", Returns(1), Str("  a")),
	sv("\n123", "%2d%1d", Returns(2), Int(12), Int(3)),
	sv("%ab\n  ", "%%%s", Returns(1), Str("ab")),
	sv("[][][]", "%[][]", Returns(1), Str("[][][]")),
	sv("abcde", "%3[^ ]%s", Returns(2), Str("abc"), Str("de")),
	sv("123.4", "%i.%i", Returns(2), Int(123), Int(4)),
	sv("123.4", "%Lf", Returns(1), LDbl(123.4)),
	sv("6.6e-3", "%1Le", Returns(1), LDbl(6.0)),
	sv("6.6e-3", "%7Le", Returns(1), LDbl(6.6e-3)),
	sv("6.6e-3", "%lg", Returns(1), Dbl(6.6e-3)),
	sv("yy x", "%3c", Returns(1), Bytes("yy ")),
	sv("-0x1.6p+2", "%Lf", Returns(1), LDbl(-5.5)),
	sv("100ent", "%e", Returns(0)),
	sv("100e", "%e", ReturnsEOF()),
	sv("10010", "%*2i%o", Returns(1), Int(8)),
	sv(" \na", "%[^a]", Returns(1), Str(" \n")),
	sv("-6", "%f", Returns(1), Flt(-6)),
	sv(" ans", "%1s", Returns(1), Str("a")),
	sv("abcdefgh", "%[a-f]%[g-h]", Returns(2), Str("abcdef"), Str("gh")),
	sv("123.4", "%3ls", Returns(1), WStr("123")),
	sv("str", "%ls", Returns(1), WStr("str")),
	sv("this", "%[nmop]", Returns(0)),
	sv("%", "%%%n", Returns(0), Count(1)),
	sv(" string", "%10s%n", Returns(1), Str("string"), Count(7)),
	sv("  ", "%c%n%c", Returns(2), Bytes(" "), Count(1), Bytes(" ")),
	sv("i", "%n%ni", Returns(0), Count(0), Count(0)),
	sv("i", "%ni%n", Returns(0), Count(0), Count(1)),
	sv("abc 1", "%ls%n%d", Returns(2), WStr("abc"), Count(3), Int(1)),
	sv("1234", "%2c%n", Returns(1), Bytes("12"), Count(2)),
	sv("xyzab", "%[x-z]%nab", Returns(1), Str("xyz"), Count(3)),
	sv("456789", "%[4-7]%n%i", Returns(2), Str("4567"), Count(4), Int(89)),
	sv("456789", "%4i%n%i", Returns(2), Int(4567), Count(4), Int(89)),
}

// Builtin returns the built-in suite: the basic print table followed by
// the %n print table, and the scan table, numbered from 1 per family.
// Each call returns fresh slices.
func Builtin() Suite {
	suite := Suite{
		Print: append(append([]PrintVector(nil), printBasic...), printPercentN...),
		Scan:  append([]ScanVector(nil), scanBasic...),
	}
	numbered, err := suite.Numbered()
	if err != nil {
		panic("fvtable: builtin suite: " + err.Error())
	}
	return numbered
}
