package value

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/chazu/lumen/text"
)

// ---------------------------------------------------------------------------
// Construction and access
// ---------------------------------------------------------------------------

func TestScalarRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, -1, math.MaxInt64, math.MinInt64} {
		got, ok := Int(n).AsInt()
		if !ok || got != n {
			t.Errorf("Int(%d).AsInt() = %d, %v", n, got, ok)
		}
	}
	for _, f := range []float64{0, -1.5, math.MaxFloat64, math.Inf(-1)} {
		got, ok := Float(f).AsFloat()
		if !ok || got != f {
			t.Errorf("Float(%v).AsFloat() = %v, %v", f, got, ok)
		}
	}
	if b, ok := Bool(true).AsBool(); !ok || !b {
		t.Error("Bool(true).AsBool() failed")
	}
	if _, ok := Nil.AsInt(); ok {
		t.Error("Nil.AsInt() should fail")
	}
	if !(Value{}).IsNil() {
		t.Error("zero Value should be Nil")
	}
}

func TestKinds(t *testing.T) {
	tests := []struct {
		v    Value
		want Kind
	}{
		{Nil, KindNil},
		{Bool(false), KindBool},
		{Int(7), KindInt},
		{Float(7), KindFloat},
		{String("x"), KindObject},
		{ClassRef(NewClass()), KindObject},
	}
	for _, tt := range tests {
		if tt.v.Kind() != tt.want {
			t.Errorf("%#v.Kind() = %v, want %v", tt.v, tt.v.Kind(), tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Equality
// ---------------------------------------------------------------------------

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nil/nil", Nil, Nil, true},
		{"nil/false", Nil, Bool(false), false},
		{"bool", Bool(true), Bool(true), true},
		{"bool differs", Bool(true), Bool(false), false},
		{"int", Int(42), Int(42), true},
		{"int/float", Int(1), Float(1), false},
		{"float", Float(2.5), Float(2.5), true},
		{"signed zero", Float(0), Float(math.Copysign(0, -1)), true},
		{"nan", Float(math.NaN()), Float(math.NaN()), false},
		{"text", String("abc"), String("abc"), true},
		{"text differs", String("abc"), String("abd"), false},
		{"text/int", String("1"), Int(1), false},
	}
	for _, tt := range tests {
		if got := Equal(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: Equal(%#v, %#v) = %v, want %v", tt.name, tt.a, tt.b, got, tt.want)
		}
	}
}

// Text values in different tiers are distinct even with identical bytes.
func TestEqualCrossTierText(t *testing.T) {
	short := Bytes([]byte("0123456789"))
	forced := Text(text.FromString("0123456789" + strings.Repeat("-", 50)).Truncate(10))

	if short.String() != forced.String() {
		t.Fatalf("projections differ: %q vs %q", short.String(), forced.String())
	}
	if Equal(short, forced) {
		t.Error("cross-tier text values must not be equal")
	}
	if short.MustHash() != forced.MustHash() {
		t.Error("cross-tier text values should still hash alike")
	}
}

// ---------------------------------------------------------------------------
// Hashing
// ---------------------------------------------------------------------------

func TestHashUnhashable(t *testing.T) {
	if _, err := Nil.Hash(); !errors.Is(err, ErrUnhashableNil) {
		t.Errorf("Nil.Hash() error = %v, want ErrUnhashableNil", err)
	}
	if _, err := Float(math.NaN()).Hash(); !errors.Is(err, ErrUnhashableNaN) {
		t.Errorf("NaN.Hash() error = %v, want ErrUnhashableNaN", err)
	}
}

func TestMustHashPanics(t *testing.T) {
	for _, v := range []Value{Nil, Float(math.NaN())} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%#v.MustHash() should panic", v)
				}
			}()
			v.MustHash()
		}()
	}
}

func TestEqualImpliesEqualHash(t *testing.T) {
	c1 := NewClass()
	c2 := NewClass()
	for _, c := range []*Class{c1, c2} {
		mustSet(t, c, String("x"), Int(1))
		mustSet(t, c, Int(2), Float(3.5))
	}

	pairs := [][2]Value{
		{Bool(true), Bool(true)},
		{Int(-9), Int(-9)},
		{Float(0), Float(math.Copysign(0, -1))},
		{Float(math.Inf(1)), Float(math.Inf(1))},
		{String(""), String("")},
		{String(strings.Repeat("m", 30)), String(strings.Repeat("m", 30))},
		{String(strings.Repeat("l", 99)), String(strings.Repeat("l", 99))},
		{ClassRef(c1), ClassRef(c2)},
	}
	for _, p := range pairs {
		if !Equal(p[0], p[1]) {
			t.Errorf("%#v and %#v should be equal", p[0], p[1])
			continue
		}
		if p[0].MustHash() != p[1].MustHash() {
			t.Errorf("equal values %#v hash differently", p[0])
		}
	}
}

func TestHashDistinguishesKinds(t *testing.T) {
	if Int(1).MustHash() == Bool(true).MustHash() {
		t.Error("Int(1) and Bool(true) should not share a hash")
	}
}

// ---------------------------------------------------------------------------
// Textual projection
// ---------------------------------------------------------------------------

func TestDisplay(t *testing.T) {
	c := NewClass()
	mustSet(t, c, String("y"), Int(2))
	mustSet(t, c, String("x"), String("one"))

	tests := []struct {
		v    Value
		want string
	}{
		{Nil, "nil"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Int(-42), "-42"},
		{Float(1), "1"},
		{Float(1.5), "1.5"},
		{Float(1e21), "1000000000000000000000"},
		{Float(math.Inf(1)), "inf"},
		{Float(math.Inf(-1)), "-inf"},
		{Float(math.NaN()), "NaN"},
		{String("héllo"), "héllo"},
		{ClassRef(c), `Class{"x": "one", "y": 2}`},
	}
	for _, tt := range tests {
		got, err := tt.v.Display()
		if err != nil {
			t.Errorf("%#v.Display() error: %v", tt.v, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%#v.Display() = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestDisplayInvalidUTF8(t *testing.T) {
	v := Bytes([]byte{0xff})
	if _, err := v.Display(); !errors.Is(err, text.ErrInvalidUTF8) {
		t.Errorf("Display() error = %v, want ErrInvalidUTF8", err)
	}
	defer func() {
		if recover() == nil {
			t.Error("String() should panic on invalid UTF-8")
		}
	}()
	_ = v.String()
}

func TestGoString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Nil, "Nil"},
		{Bool(true), "Boolean(true)"},
		{Int(3), "Integer(3)"},
		{Float(0.25), "Float(0.25)"},
		{String("hi"), `Object(Str("hi"))`},
	}
	for _, tt := range tests {
		if got := tt.v.GoString(); got != tt.want {
			t.Errorf("GoString() = %q, want %q", got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Concatenation
// ---------------------------------------------------------------------------

func TestConcat(t *testing.T) {
	got, err := Concat(String("foo"), String("bar"))
	if err != nil {
		t.Fatalf("Concat error: %v", err)
	}
	if !Equal(got, String("foobar")) {
		t.Errorf("Concat = %#v, want foobar", got)
	}

	long, err := Concat(String(strings.Repeat("a", 40)), String(strings.Repeat("b", 40)))
	if err != nil {
		t.Fatalf("Concat error: %v", err)
	}
	s, _ := long.AsText()
	if s.Tier() != text.Long {
		t.Errorf("80-byte concat tier = %v, want long", s.Tier())
	}
}

func TestConcatErrors(t *testing.T) {
	if _, err := Concat(Int(1), String("x")); !errors.Is(err, ErrNotText) {
		t.Errorf("Concat(int, text) error = %v, want ErrNotText", err)
	}
	bad := Bytes(bytes.Repeat([]byte{0xfe}, 3))
	if _, err := Concat(String("x"), bad); !errors.Is(err, text.ErrInvalidUTF8) {
		t.Errorf("Concat(text, invalid) error = %v, want ErrInvalidUTF8", err)
	}
}

func mustSet(t *testing.T, c *Class, k, v Value) {
	t.Helper()
	if err := c.Set(k, v); err != nil {
		t.Fatalf("Set(%#v) error: %v", k, err)
	}
}
