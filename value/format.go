package value

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Display returns the textual projection of v: "nil", "true"/"false",
// decimal numbers, the decoded content of text, or a diagnostic dump of a
// class's fields. Text that is not valid UTF-8 fails with
// text.ErrInvalidUTF8.
//
// The class dump is for diagnostics only and is not meant to round-trip.
func (v Value) Display() (string, error) {
	switch v.kind {
	case KindNil:
		return "nil", nil
	case KindBool:
		if v.bits != 0 {
			return "true", nil
		}
		return "false", nil
	case KindInt:
		return strconv.FormatInt(int64(v.bits), 10), nil
	case KindFloat:
		return formatFloat(math.Float64frombits(v.bits)), nil
	case KindObject:
		if s, ok := v.obj.Text(); ok {
			return s.Text()
		}
		if c, ok := v.obj.Class(); ok {
			return c.Dump(), nil
		}
	}
	return "", fmt.Errorf("value: unknown kind %d", v.kind)
}

// String returns the textual projection of v.
// Panics if v is text holding invalid UTF-8.
func (v Value) String() string {
	s, err := v.Display()
	if err != nil {
		panic("Value.String: " + err.Error())
	}
	return s
}

// GoString returns a variant-revealing dump such as Integer(3) or
// Object(Str("hi")).
func (v Value) GoString() string {
	switch v.kind {
	case KindNil:
		return "Nil"
	case KindBool:
		return fmt.Sprintf("Boolean(%t)", v.bits != 0)
	case KindInt:
		return fmt.Sprintf("Integer(%d)", int64(v.bits))
	case KindFloat:
		return fmt.Sprintf("Float(%s)", formatFloat(math.Float64frombits(v.bits)))
	case KindObject:
		if s, ok := v.obj.Text(); ok {
			return fmt.Sprintf("Object(Str(%q))", s.Bytes())
		}
		if c, ok := v.obj.Class(); ok {
			return "Object(" + c.Dump() + ")"
		}
	}
	return "Value(?)"
}

// formatFloat prints the shortest decimal that round-trips, without an
// exponent.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Dump returns a diagnostic rendering of the class's fields, sorted by key
// for stable output, e.g. Class{"x": 1, "y": 2}.
func (c *Class) Dump() string {
	type entry struct{ k, v string }
	entries := make([]entry, 0, c.n)
	c.Range(func(k, v Value) bool {
		entries = append(entries, entry{dumpValue(k), dumpValue(v)})
		return true
	})
	slices.SortFunc(entries, func(a, b entry) int {
		return strings.Compare(a.k, b.k)
	})

	var sb strings.Builder
	sb.WriteString("Class{")
	for i, e := range entries {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.k)
		sb.WriteString(": ")
		sb.WriteString(e.v)
	}
	sb.WriteString("}")
	return sb.String()
}

// dumpValue never fails: text is quoted, with invalid bytes escaped.
func dumpValue(v Value) string {
	if s, ok := v.AsText(); ok {
		return strconv.Quote(string(s.Bytes()))
	}
	if c, ok := v.AsClass(); ok {
		return c.Dump()
	}
	s, _ := v.Display()
	return s
}
