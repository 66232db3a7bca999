// Package text implements the runtime's length-tiered string encoding.
//
// A Str is stored in one of three tiers chosen once, at construction, from
// its byte length:
//   - Inline: up to 14 bytes held inside the Str itself
//   - Medium: up to 48 bytes in a fixed-size shared block
//   - Long:   a growable buffer in a shared block
//
// Copying a Str copies the tag and the block handle, never the block.
package text

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/zeebo/xxh3"

	"github.com/chazu/lumen/gc"
)

// Tier capacities in bytes.
const (
	InlineMax = 14
	MediumMax = 48
)

// ErrInvalidUTF8 is returned when text bytes are not well-formed UTF-8.
var ErrInvalidUTF8 = errors.New("text: invalid UTF-8")

// Tier identifies a storage shape.
type Tier uint8

const (
	Inline Tier = iota
	Medium
	Long
)

func (t Tier) String() string {
	switch t {
	case Inline:
		return "inline"
	case Medium:
		return "medium"
	case Long:
		return "long"
	default:
		return fmt.Sprintf("Tier(%d)", uint8(t))
	}
}

// TierFor returns the tier a byte sequence of length n is encoded in.
func TierFor(n int) Tier {
	switch {
	case n <= InlineMax:
		return Inline
	case n <= MediumMax:
		return Medium
	default:
		return Long
	}
}

// Str is an immutable tiered byte string. The zero Str is the empty inline
// string.
type Str struct {
	tier Tier
	n    uint8 // length tag for Inline
	buf  [InlineMax]byte
	mid  *mediumBlock
	long *longBlock
}

// ---------------------------------------------------------------------------
// Shared blocks
// ---------------------------------------------------------------------------

type mediumBlock struct {
	n   uint8
	buf [MediumMax]byte
}

// Trace implements gc.Traceable. Text blocks own no references.
func (b *mediumBlock) Trace(func(gc.Traceable)) {}

// Finalize implements gc.Traceable.
func (b *mediumBlock) Finalize() {
	b.n = 0
	b.buf = [MediumMax]byte{}
}

type longBlock struct {
	data []byte
}

// Trace implements gc.Traceable.
func (b *longBlock) Trace(func(gc.Traceable)) {}

// Finalize implements gc.Traceable.
func (b *longBlock) Finalize() {
	b.data = nil
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

// New encodes a copy of b using the default collector.
func New(b []byte) Str {
	return NewIn(nil, b)
}

// FromString encodes s using the default collector.
func FromString(s string) Str {
	return NewIn(nil, []byte(s))
}

// NewIn encodes a copy of b, registering any shared block with c. A nil c
// means gc.Default().
func NewIn(c gc.Collector, b []byte) Str {
	if TierFor(len(b)) == Long {
		return adopt(c, bytes.Clone(b))
	}
	return encode(c, b)
}

// Adopt encodes b, taking ownership of it when it lands in the Long tier.
// The caller must not modify b afterwards.
func Adopt(c gc.Collector, b []byte) Str {
	if TierFor(len(b)) == Long {
		return adopt(c, b)
	}
	return encode(c, b)
}

func encode(c gc.Collector, b []byte) Str {
	switch TierFor(len(b)) {
	case Inline:
		s := Str{tier: Inline, n: uint8(len(b))}
		copy(s.buf[:], b)
		return s
	case Medium:
		blk := &mediumBlock{n: uint8(len(b))}
		copy(blk.buf[:], b)
		gc.Or(c).Track(blk)
		return Str{tier: Medium, mid: blk}
	default:
		return adopt(c, bytes.Clone(b))
	}
}

func adopt(c gc.Collector, b []byte) Str {
	blk := &longBlock{data: b}
	gc.Or(c).Track(blk)
	return Str{tier: Long, long: blk}
}

// ---------------------------------------------------------------------------
// Access
// ---------------------------------------------------------------------------

// Tier returns the storage tier chosen at construction.
func (s Str) Tier() Tier { return s.tier }

// Len returns the length in bytes.
func (s Str) Len() int {
	switch s.tier {
	case Medium:
		return int(s.mid.n)
	case Long:
		return len(s.long.data)
	default:
		return int(s.n)
	}
}

// Bytes returns the content. For shared tiers the slice aliases the block
// and must not be modified.
func (s Str) Bytes() []byte {
	switch s.tier {
	case Medium:
		return s.mid.buf[:s.mid.n]
	case Long:
		return s.long.data
	default:
		return s.buf[:s.n]
	}
}

// Text returns the content as a Go string. It fails with ErrInvalidUTF8
// rather than repairing malformed bytes.
func (s Str) Text() (string, error) {
	b := s.Bytes()
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

// Valid reports whether the content is well-formed UTF-8.
func (s Str) Valid() bool {
	return utf8.Valid(s.Bytes())
}

// Equal reports whether s and o have the same tier and the same bytes.
// Strings in different tiers are never equal, even with identical content.
func (s Str) Equal(o Str) bool {
	if s.tier != o.tier {
		return false
	}
	if s.tier == Long && s.long == o.long {
		return true
	}
	return bytes.Equal(s.Bytes(), o.Bytes())
}

// Hash hashes the decoded bytes. It does not depend on the tier.
func (s Str) Hash() uint64 {
	return xxh3.Hash(s.Bytes())
}

// Shared returns the shared block backing s, or nil for Inline strings.
func (s Str) Shared() gc.Traceable {
	switch s.tier {
	case Medium:
		return s.mid
	case Long:
		return s.long
	default:
		return nil
	}
}

// Truncate returns the first n bytes of s in the same tier as s, tracking
// any new block with the default collector. Panics if n is out of range.
func (s Str) Truncate(n int) Str {
	return s.TruncateIn(nil, n)
}

// TruncateIn is Truncate with an explicit collector. A Long result shares
// the receiver's buffer.
func (s Str) TruncateIn(c gc.Collector, n int) Str {
	if n < 0 || n > s.Len() {
		panic("Str.Truncate: length out of range")
	}
	switch s.tier {
	case Medium:
		blk := &mediumBlock{n: uint8(n)}
		copy(blk.buf[:], s.mid.buf[:n])
		gc.Or(c).Track(blk)
		return Str{tier: Medium, mid: blk}
	case Long:
		blk := &longBlock{data: s.long.data[:n:n]}
		gc.Or(c).Track(blk)
		return Str{tier: Long, long: blk}
	default:
		t := s
		t.n = uint8(n)
		clear(t.buf[n:])
		return t
	}
}

// Concat decodes a and b as text, concatenates them and encodes the result,
// choosing its tier afresh.
func Concat(a, b Str) (Str, error) {
	return ConcatIn(nil, a, b)
}

// ConcatIn is Concat with an explicit collector.
func ConcatIn(c gc.Collector, a, b Str) (Str, error) {
	as, err := a.Text()
	if err != nil {
		return Str{}, fmt.Errorf("concat left operand: %w", err)
	}
	bs, err := b.Text()
	if err != nil {
		return Str{}, fmt.Errorf("concat right operand: %w", err)
	}
	joined := make([]byte, 0, len(as)+len(bs))
	joined = append(joined, as...)
	joined = append(joined, bs...)
	return Adopt(c, joined), nil
}

// String returns the content with invalid bytes shown as Go escapes.
func (s Str) String() string {
	if t, err := s.Text(); err == nil {
		return t
	}
	return fmt.Sprintf("%q", s.Bytes())
}

// GoString returns a tier-revealing dump.
func (s Str) GoString() string {
	return fmt.Sprintf("Str(%s, %q)", s.tier, s.Bytes())
}
