package value

import (
	"math"

	"github.com/chazu/lumen/gc"
	"github.com/chazu/lumen/text"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "Nil"
	case KindBool:
		return "Boolean"
	case KindInt:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindObject:
		return "Object"
	default:
		return "Kind(?)"
	}
}

// Value is a runtime value: nil, a boolean, a 64-bit integer, a 64-bit
// float, or an object reference.
//
// Scalars live in bits; objects in obj. Values are immutable and cheap to
// copy: copying never duplicates a shared allocation.
type Value struct {
	kind Kind
	bits uint64
	obj  Object
}

// Nil is the nil value. It is also the zero Value.
var Nil = Value{}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

// Bool creates a Boolean value.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.bits = 1
	}
	return v
}

// Int creates an Integer value.
func Int(n int64) Value {
	return Value{kind: KindInt, bits: uint64(n)}
}

// Float creates a Float value.
func Float(f float64) Value {
	return Value{kind: KindFloat, bits: math.Float64bits(f)}
}

// FromObject wraps an object reference.
func FromObject(o Object) Value {
	return Value{kind: KindObject, obj: o}
}

// Text creates a text object value from an encoded Str.
func Text(s text.Str) Value {
	return FromObject(TextObject(s))
}

// String creates a text object value from s using the default collector.
func String(s string) Value {
	return Text(text.FromString(s))
}

// Bytes creates a text object value from a copy of b using the default
// collector.
func Bytes(b []byte) Value {
	return Text(text.New(b))
}

// ClassRef creates a class object value.
func ClassRef(c *Class) Value {
	return FromObject(ClassObject(c))
}

// ---------------------------------------------------------------------------
// Type checking and access
// ---------------------------------------------------------------------------

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNil returns true if v is nil.
func (v Value) IsNil() bool { return v.kind == KindNil }

// IsObject returns true if v holds an object reference.
func (v Value) IsObject() bool { return v.kind == KindObject }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.bits != 0, true
}

// AsInt returns the integer held by v.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return int64(v.bits), true
}

// AsFloat returns the float held by v.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return math.Float64frombits(v.bits), true
}

// AsObject returns the object reference held by v.
func (v Value) AsObject() (Object, bool) {
	if v.kind != KindObject {
		return Object{}, false
	}
	return v.obj, true
}

// AsText returns the Str held by v if it is a text object.
func (v Value) AsText() (text.Str, bool) {
	if v.kind != KindObject {
		return text.Str{}, false
	}
	return v.obj.Text()
}

// AsClass returns the class held by v if it is a class object.
func (v Value) AsClass() (*Class, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj.Class()
}

// ---------------------------------------------------------------------------
// Equality
// ---------------------------------------------------------------------------

// Equal reports whether a and b are structurally equal. Values of different
// variants are never equal. Floats compare by IEEE rules, so a NaN is not
// equal to itself.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNil:
		return true
	case KindBool, KindInt:
		return a.bits == b.bits
	case KindFloat:
		return math.Float64frombits(a.bits) == math.Float64frombits(b.bits)
	case KindObject:
		return a.obj.Equal(b.obj)
	default:
		return false
	}
}

// Equal is the method form of Equal.
func (v Value) Equal(o Value) bool { return Equal(v, o) }

// ---------------------------------------------------------------------------
// Collector integration
// ---------------------------------------------------------------------------

// Trace calls visit for each shared allocation v references directly.
func (v Value) Trace(visit func(gc.Traceable)) {
	if v.kind == KindObject {
		v.obj.Trace(visit)
	}
}
