package interp

import (
	"fmt"
	"math"
	"strconv"
)

// Value is a runtime value: float64, bool, nil, string or Function.
type Value interface{}

// numberEpsilon absorbs floating point drift in number equality.
const numberEpsilon = 1e-9

// TypeName returns the user-facing name of a value's type
func TypeName(val Value) string {
	switch val.(type) {
	case nil:
		return "Nil"
	case bool:
		return "Bool"
	case float64:
		return "Number"
	case string:
		return "String"
	case Function:
		return "Function"
	default:
		return "Unknown"
	}
}

// IsTruthy reports whether a value counts as true in a condition. Only nil
// and false are falsy.
func IsTruthy(val Value) bool {
	switch v := val.(type) {
	case nil:
		return false
	case bool:
		return v
	default:
		return true
	}
}

// Equal compares two values. Values of different types are never equal.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case float64:
		y, ok := b.(float64)
		return ok && (x == y || math.Abs(x-y) < numberEpsilon)
	case string:
		y, ok := b.(string)
		return ok && x == y
	case Function:
		y, ok := b.(Function)
		return ok && x == y
	default:
		return false
	}
}

// Stringify renders a value the way print writes it
func Stringify(val Value) string {
	switch v := val.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		// Magnitudes of 1e15 and up, or below 1e-5, print in exponent form.
		if m := math.Abs(v); m != 0 && (m >= 1e15 || m < 1e-5) {
			return strconv.FormatFloat(v, 'E', -1, 64)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return `"` + v + `"`
	case Function:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
