// coltype classifies the values stored in a record. Tables, the compiler and the
// repl share these so an integer parsed from statement text compares equal to an
// integer passed by a caller.
package coltype

import (
	"math"
	"strconv"
)

const (
	Unknown = iota
	Int
	Str
	Null
)

type CT = int

// Of returns the type of an already normalized value.
func Of(v any) CT {
	switch v.(type) {
	case nil:
		return Null
	case int64:
		return Int
	case string:
		return Str
	}
	return Unknown
}

// Normalize converts v to the representation stored in records. Every integer
// kind becomes int64, a float64 or float32 holding a whole number becomes int64
// (decoded JSON numbers arrive as float64), strings and nil are kept. ok is false
// for any other value.
func Normalize(v any) (normalized any, ok bool) {
	switch n := v.(type) {
	case nil:
		return nil, true
	case string:
		return n, true
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return fromUint(uint64(n))
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return fromUint(n)
	case float32:
		return fromFloat(float64(n))
	case float64:
		return fromFloat(n)
	}
	return nil, false
}

func fromUint(u uint64) (any, bool) {
	if u > math.MaxInt64 {
		return nil, false
	}
	return int64(u), true
}

func fromFloat(f float64) (any, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, false
	}
	return int64(f), true
}

// Name is the display name of a type.
func Name(ct CT) string {
	switch ct {
	case Int:
		return "INTEGER"
	case Str:
		return "TEXT"
	case Null:
		return "NULL"
	}
	return "UNKNOWN"
}

// Format renders a normalized value for display. ok is false for nil so callers
// can substitute their own placeholder.
func Format(v any) (s string, ok bool) {
	switch n := v.(type) {
	case int64:
		return strconv.FormatInt(n, 10), true
	case string:
		return n, true
	}
	return "", false
}
