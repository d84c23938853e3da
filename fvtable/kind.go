package fvtable

import "fmt"

// Kind is the type of a value a scan directive (or a print `%n`) stores.
// The enumeration is closed.
type Kind int

const (
	String Kind = iota + 1
	Integer
	Float
	Double
	LongDouble
	ByteArray
	WideString
	WriteCount
)

var kindTags = [...]string{
	String:     "string",
	Integer:    "integer",
	Float:      "float",
	Double:     "double",
	LongDouble: "long_double",
	ByteArray:  "byte_array",
	WideString: "wide_string",
	WriteCount: "write_count",
}

// Kinds returns every Kind in declaration order.
func Kinds() []Kind {
	return []Kind{String, Integer, Float, Double, LongDouble, ByteArray, WideString, WriteCount}
}

// Valid reports whether k is a member of the enumeration.
func (k Kind) Valid() bool {
	return k >= String && k <= WriteCount
}

// String returns the stable tag used in vector files and manifests.
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindTags[k]
}

// KindFromTag resolves a stable tag.
func KindFromTag(tag string) (Kind, bool) {
	for _, k := range Kinds() {
		if kindTags[k] == tag {
			return k, true
		}
	}
	return 0, false
}

// Floating reports whether k is compared with a tolerance.
func (k Kind) Floating() bool {
	return k == Float || k == Double || k == LongDouble
}
