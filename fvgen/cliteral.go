package fvgen

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

const octalDigits = "01234567"

// appendCString appends s as a C string literal. Printable ASCII is kept,
// everything else becomes a three-digit octal escape so that no following
// character can extend it. '?' is escaped to defeat trigraphs.
func appendCString(buf []byte, s string) []byte {
	buf = append(buf, '"')
	for i := 0; i < len(s); i++ {
		buf = appendCByte(buf, s[i])
	}
	return append(buf, '"')
}

func appendCByte(buf []byte, b byte) []byte {
	switch {
	case b == '"' || b == '\\' || b == '?':
		return append(buf, '\\', b)
	case b == '\n':
		return append(buf, '\\', 'n')
	case b == '\t':
		return append(buf, '\\', 't')
	case b >= 0x20 && b < 0x7f:
		return append(buf, b)
	default:
		return append(buf, '\\', octalDigits[b>>6], octalDigits[(b>>3)&7], octalDigits[b&7])
	}
}

// appendCWideString appends s as an L"..." literal, one wide character per
// code point. Invalid UTF-8 bytes are emitted as their byte value.
func appendCWideString(buf []byte, s string) []byte {
	buf = append(buf, 'L', '"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			r = rune(s[i])
		}
		i += size
		switch {
		case r < 0x80:
			buf = appendCByte(buf, byte(r))
		case r < 0x100:
			buf = append(buf, '\\', octalDigits[r>>6], octalDigits[(r>>3)&7], octalDigits[r&7])
		case r < 0x10000:
			buf = append(buf, '\\', 'u')
			buf = appendHex(buf, uint32(r), 4)
		default:
			buf = append(buf, '\\', 'U')
			buf = appendHex(buf, uint32(r), 8)
		}
	}
	return append(buf, '"')
}

func appendHex(buf []byte, v uint32, digits int) []byte {
	s := strconv.FormatUint(uint64(v), 16)
	for i := len(s); i < digits; i++ {
		buf = append(buf, '0')
	}
	return append(buf, strings.ToUpper(s)...)
}

// cFloat renders a finite float as a C floating constant with the given
// suffix ("f", "" or "L"). The shortest round-trip form is used.
func cFloat(f float64, suffix string) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s + suffix
}
