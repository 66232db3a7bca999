package value

import (
	"errors"

	"github.com/chazu/lumen/gc"
	"github.com/chazu/lumen/text"
)

// ErrNotText is returned when a text operation receives a non-text value.
var ErrNotText = errors.New("value: not a text object")

// Concat joins two text values into a new one, re-running tier selection.
// It fails if either operand is not text or holds invalid UTF-8.
func Concat(a, b Value) (Value, error) {
	return ConcatIn(nil, a, b)
}

// ConcatIn is Concat with an explicit collector.
func ConcatIn(c gc.Collector, a, b Value) (Value, error) {
	as, ok := a.AsText()
	if !ok {
		return Nil, ErrNotText
	}
	bs, ok := b.AsText()
	if !ok {
		return Nil, ErrNotText
	}
	s, err := text.ConcatIn(c, as, bs)
	if err != nil {
		return Nil, err
	}
	return Text(s), nil
}
