package value

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/fxamacker/cbor/v2"

	"github.com/chazu/lumen/gc"
	"github.com/chazu/lumen/text"
)

// ---------------------------------------------------------------------------
// Snapshot codec: CBOR encoding of Values
// ---------------------------------------------------------------------------

// ErrCorrupt is returned when decoding a snapshot that does not describe a
// valid Value.
var ErrCorrupt = errors.New("value: corrupt snapshot")

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("value: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Wire tags. Objects are split by their object kind.
const (
	wireNil uint8 = iota
	wireBool
	wireInt
	wireFloat
	wireText
	wireClass
)

type wireValue struct {
	Tag    uint8       `cbor:"0,keyasint"`
	Bool   bool        `cbor:"1,keyasint,omitempty"`
	Int    int64       `cbor:"2,keyasint,omitempty"`
	Float  uint64      `cbor:"3,keyasint,omitempty"` // IEEE bits
	Text   []byte      `cbor:"4,keyasint,omitempty"`
	Fields []wireField `cbor:"5,keyasint,omitempty"`
}

type wireField struct {
	Key wireValue `cbor:"0,keyasint"`
	Val wireValue `cbor:"1,keyasint"`
}

// Marshal serializes v to deterministic CBOR bytes. Class fields are
// ordered by their encoded keys.
func Marshal(v Value) ([]byte, error) {
	w, err := toWire(v)
	if err != nil {
		return nil, err
	}
	return cborEncMode.Marshal(w)
}

// Unmarshal decodes a snapshot using the default collector.
func Unmarshal(data []byte) (Value, error) {
	return UnmarshalIn(nil, data)
}

// UnmarshalIn decodes a snapshot, tracking new shared allocations with c.
// Text is re-encoded through tier selection, so a truncated string that
// kept a larger tier comes back in the tier its length selects.
func UnmarshalIn(c gc.Collector, data []byte) (Value, error) {
	var w wireValue
	if err := cbor.Unmarshal(data, &w); err != nil {
		return Nil, fmt.Errorf("value: unmarshal: %w", err)
	}
	return fromWire(c, &w)
}

func toWire(v Value) (wireValue, error) {
	switch v.kind {
	case KindNil:
		return wireValue{Tag: wireNil}, nil
	case KindBool:
		return wireValue{Tag: wireBool, Bool: v.bits != 0}, nil
	case KindInt:
		return wireValue{Tag: wireInt, Int: int64(v.bits)}, nil
	case KindFloat:
		return wireValue{Tag: wireFloat, Float: v.bits}, nil
	case KindObject:
		if s, ok := v.obj.Text(); ok {
			return wireValue{Tag: wireText, Text: s.Bytes()}, nil
		}
		if c, ok := v.obj.Class(); ok {
			return classToWire(c)
		}
	}
	return wireValue{}, fmt.Errorf("value: cannot marshal kind %d", v.kind)
}

func classToWire(c *Class) (wireValue, error) {
	type encoded struct {
		key []byte
		f   wireField
	}
	fields := make([]encoded, 0, c.Len())
	var err error
	c.Range(func(k, v Value) bool {
		var f wireField
		if f.Key, err = toWire(k); err != nil {
			return false
		}
		if f.Val, err = toWire(v); err != nil {
			return false
		}
		var kb []byte
		if kb, err = cborEncMode.Marshal(f.Key); err != nil {
			return false
		}
		fields = append(fields, encoded{key: kb, f: f})
		return true
	})
	if err != nil {
		return wireValue{}, err
	}
	slices.SortFunc(fields, func(a, b encoded) int {
		return bytes.Compare(a.key, b.key)
	})

	w := wireValue{Tag: wireClass, Fields: make([]wireField, len(fields))}
	for i, e := range fields {
		w.Fields[i] = e.f
	}
	return w, nil
}

func fromWire(c gc.Collector, w *wireValue) (Value, error) {
	switch w.Tag {
	case wireNil:
		return Nil, nil
	case wireBool:
		return Bool(w.Bool), nil
	case wireInt:
		return Int(w.Int), nil
	case wireFloat:
		return Float(math.Float64frombits(w.Float)), nil
	case wireText:
		return Text(text.NewIn(c, w.Text)), nil
	case wireClass:
		cls := NewClassIn(c)
		for i := range w.Fields {
			k, err := fromWire(c, &w.Fields[i].Key)
			if err != nil {
				return Nil, err
			}
			v, err := fromWire(c, &w.Fields[i].Val)
			if err != nil {
				return Nil, err
			}
			if err := cls.Set(k, v); err != nil {
				return Nil, fmt.Errorf("%w: field key: %w", ErrCorrupt, err)
			}
		}
		return ClassRef(cls), nil
	default:
		return Nil, fmt.Errorf("%w: unknown tag %d", ErrCorrupt, w.Tag)
	}
}
