package value

import (
	"errors"
	"iter"

	"github.com/chazu/lumen/gc"
)

// ---------------------------------------------------------------------------
// Class: Value-keyed field storage
// ---------------------------------------------------------------------------

// ErrFrozen is returned when changing the fields of a frozen class.
var ErrFrozen = errors.New("value: class is frozen")

// Class holds an object's fields as an unordered mapping from Value to
// Value. Keys are unique; setting an existing key replaces its value.
//
// Fields are bucketed by key hash and resolved by full equality, so keys
// whose hashes collide are still told apart.
//
// A class used as a key of another class is frozen: its hash depends on its
// keys, so Set and Delete on it fail with ErrFrozen from then on.
//
// A Class is a shared allocation: it is tracked by a collector and traces
// every shared allocation its keys and values reference.
type Class struct {
	buckets map[uint64][]field
	n       int
	frozen  bool
}

type field struct {
	key Value
	val Value
}

// NewClass creates an empty class tracked by the default collector.
func NewClass() *Class {
	return NewClassIn(nil)
}

// NewClassIn creates an empty class tracked by c. A nil c means
// gc.Default().
func NewClassIn(c gc.Collector) *Class {
	cls := &Class{buckets: make(map[uint64][]field)}
	gc.Or(c).Track(cls)
	return cls
}

// Len returns the number of fields.
func (c *Class) Len() int { return c.n }

// Freeze makes the field set of c immutable.
func (c *Class) Freeze() { c.frozen = true }

// Frozen reports whether c has been frozen.
func (c *Class) Frozen() bool { return c.frozen }

// Set stores val under key. It fails if key is not hashable (nil or NaN) or
// if c is frozen. A class key is frozen once stored.
func (c *Class) Set(key, val Value) error {
	if c.frozen {
		return ErrFrozen
	}
	h, err := key.Hash()
	if err != nil {
		return err
	}
	bucket := c.buckets[h]
	for i := range bucket {
		if Equal(bucket[i].key, key) {
			bucket[i].val = val
			return nil
		}
	}
	if kc, ok := key.AsClass(); ok {
		kc.Freeze()
	}
	c.buckets[h] = append(bucket, field{key: key, val: val})
	c.n++
	return nil
}

// Get returns the value stored under key. Unhashable keys are never
// present.
func (c *Class) Get(key Value) (Value, bool) {
	h, err := key.Hash()
	if err != nil {
		return Nil, false
	}
	for _, f := range c.buckets[h] {
		if Equal(f.key, key) {
			return f.val, true
		}
	}
	return Nil, false
}

// Delete removes key and reports whether it was present. It fails with
// ErrFrozen if c is frozen.
func (c *Class) Delete(key Value) (bool, error) {
	if c.frozen {
		return false, ErrFrozen
	}
	h, err := key.Hash()
	if err != nil {
		return false, nil
	}
	bucket := c.buckets[h]
	for i, f := range bucket {
		if !Equal(f.key, key) {
			continue
		}
		bucket = append(bucket[:i], bucket[i+1:]...)
		if len(bucket) == 0 {
			delete(c.buckets, h)
		} else {
			c.buckets[h] = bucket
		}
		c.n--
		return true, nil
	}
	return false, nil
}

// Range calls fn for each field in unspecified order until fn returns
// false.
func (c *Class) Range(fn func(key, val Value) bool) {
	for _, bucket := range c.buckets {
		for _, f := range bucket {
			if !fn(f.key, f.val) {
				return
			}
		}
	}
}

// All returns an iterator over the fields in unspecified order.
func (c *Class) All() iter.Seq2[Value, Value] {
	return c.Range
}

// Keys returns the field keys in unspecified order.
func (c *Class) Keys() []Value {
	keys := make([]Value, 0, c.n)
	c.Range(func(k, _ Value) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Equal reports whether c and o hold equal values under equal keys.
// Self-referential classes are not supported.
func (c *Class) Equal(o *Class) bool {
	if c == o {
		return true
	}
	if c == nil || o == nil || c.n != o.n {
		return false
	}
	equal := true
	c.Range(func(k, v Value) bool {
		ov, ok := o.Get(k)
		equal = ok && Equal(v, ov)
		return equal
	})
	return equal
}

// Hash combines the hashes of the keys only, independent of order. Classes
// with the same keys but different values may hash alike; callers must
// confirm with Equal.
func (c *Class) Hash() uint64 {
	var sum uint64
	for h, bucket := range c.buckets {
		sum += uint64(len(bucket)) * mix(0, h)
	}
	return sum
}

// Trace implements gc.Traceable.
func (c *Class) Trace(visit func(gc.Traceable)) {
	c.Range(func(k, v Value) bool {
		k.Trace(visit)
		v.Trace(visit)
		return true
	})
}

// Finalize implements gc.Traceable. It drops the fields and leaves an empty
// class.
func (c *Class) Finalize() {
	clear(c.buckets)
	c.n = 0
}
