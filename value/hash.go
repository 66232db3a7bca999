package value

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/zeebo/xxh3"
)

var (
	// ErrUnhashableNil is returned when hashing Nil.
	ErrUnhashableNil = errors.New("value: nil is not hashable")

	// ErrUnhashableNaN is returned when hashing a NaN float.
	ErrUnhashableNaN = errors.New("value: NaN is not hashable")
)

// Hash returns a hash consistent with Equal. Nil and NaN floats must never
// reach a hashed container, so hashing them fails.
func (v Value) Hash() (uint64, error) {
	switch v.kind {
	case KindNil:
		return 0, ErrUnhashableNil
	case KindBool, KindInt:
		return hashScalar(v.kind, v.bits), nil
	case KindFloat:
		f := math.Float64frombits(v.bits)
		if math.IsNaN(f) {
			return 0, ErrUnhashableNaN
		}
		if f == 0 {
			f = 0 // -0.0 == +0.0
		}
		return hashScalar(v.kind, math.Float64bits(f)), nil
	case KindObject:
		return v.obj.Hash(), nil
	default:
		return 0, fmt.Errorf("value: unknown kind %d", v.kind)
	}
}

// MustHash is like Hash but panics on an unhashable value.
func (v Value) MustHash() uint64 {
	h, err := v.Hash()
	if err != nil {
		panic("Value.MustHash: " + err.Error())
	}
	return h
}

// Hash returns the object's hash. Text hashes its decoded bytes; classes
// aggregate their key hashes.
func (o Object) Hash() uint64 {
	switch o.kind {
	case ObjectText:
		return mix(uint64(KindObject)<<8|uint64(ObjectText), o.str.Hash())
	case ObjectClass:
		return mix(uint64(KindObject)<<8|uint64(ObjectClass), o.class.Hash())
	default:
		return 0
	}
}

func hashScalar(k Kind, bits uint64) uint64 {
	var buf [9]byte
	buf[0] = byte(k)
	binary.LittleEndian.PutUint64(buf[1:], bits)
	return xxh3.Hash(buf[:])
}

// mix folds a tag into a hash (splitmix64 finalizer).
func mix(tag, h uint64) uint64 {
	z := h ^ (tag * 0x9E3779B97F4A7C15)
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}
