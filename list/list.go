// Package list implements a generic doubly linked list closed into a ring
// by two permanent sentinel nodes.
//
// Nodes live in an arena of fixed-size pages and link to each other by
// index. A slot is taken from the arena exactly once per push and returned
// to a free list exactly once per pop, Clear or Release. Pages never move,
// so a pointer obtained from FirstMut, LastMut or Iterator.Ptr stays valid
// until its element is popped.
//
// A List is not safe for concurrent use.
package list

import (
	"fmt"
	"iter"
	"strings"
)

const (
	pageBits = 6
	pageSize = 1 << pageBits
	pageMask = pageSize - 1
)

// Sentinel slots. They are allocated first and never carry an element.
const (
	head int32 = 0
	tail int32 = 1
	none int32 = -1
)

type node[T any] struct {
	prev, next int32
	value      T
}

// List is a doubly linked list of T. The zero List is an empty list ready
// to use.
type List[T any] struct {
	pages [][]node[T]
	free  int32 // head of the free-slot chain, or none
	used  int32 // slots handed out from pages so far
	len   int

	allocs int
	frees  int
}

// Stats reports slot accounting for a list.
type Stats struct {
	Allocs int // slots allocated, sentinels included
	Frees  int // slots released, sentinels included
	Pages  int // arena pages currently held
}

// New creates an empty list.
func New[T any]() *List[T] {
	l := &List[T]{}
	l.lazyInit()
	return l
}

// FromSlice creates a list holding xs in order.
func FromSlice[T any](xs ...T) *List[T] {
	l := New[T]()
	for _, x := range xs {
		l.PushBack(x)
	}
	return l
}

// Collect creates a list from the values yielded by seq.
func Collect[T any](seq iter.Seq[T]) *List[T] {
	l := New[T]()
	l.Extend(seq)
	return l
}

// lazyInit allocates the sentinels and links them into an empty ring.
func (l *List[T]) lazyInit() {
	if l.pages != nil {
		return
	}
	l.free = none
	l.used = 0
	h := l.alloc()
	t := l.alloc()
	l.at(h).next = t
	l.at(t).prev = h
}

// ---------------------------------------------------------------------------
// Arena
// ---------------------------------------------------------------------------

func (l *List[T]) at(i int32) *node[T] {
	return &l.pages[i>>pageBits][i&pageMask]
}

func (l *List[T]) alloc() int32 {
	l.allocs++
	if l.free != none {
		i := l.free
		l.free = l.at(i).next
		return i
	}
	if int(l.used) == len(l.pages)*pageSize {
		l.pages = append(l.pages, make([]node[T], pageSize))
	}
	i := l.used
	l.used++
	return i
}

func (l *List[T]) release(i int32) {
	n := l.at(i)
	var zero T
	n.value = zero
	n.prev = none
	n.next = l.free
	l.free = i
	l.frees++
}

// ---------------------------------------------------------------------------
// Push and pop
// ---------------------------------------------------------------------------

// PushFront inserts v at the front of the list.
func (l *List[T]) PushFront(v T) {
	l.lazyInit()
	i := l.alloc()
	n := l.at(i)
	next := l.at(head).next

	n.value = v
	n.prev = head
	n.next = next
	l.at(head).next = i
	l.at(next).prev = i

	l.len++
}

// PushBack inserts v at the back of the list.
func (l *List[T]) PushBack(v T) {
	l.lazyInit()
	i := l.alloc()
	n := l.at(i)
	prev := l.at(tail).prev

	n.value = v
	n.prev = prev
	n.next = tail
	l.at(prev).next = i
	l.at(tail).prev = i

	l.len++
}

// PopFront removes and returns the first element. It returns false if the
// list is empty.
func (l *List[T]) PopFront() (T, bool) {
	if l.len == 0 {
		var zero T
		return zero, false
	}
	front := l.at(head).next
	newFront := l.at(front).next
	l.at(head).next = newFront
	l.at(newFront).prev = head

	v := l.at(front).value
	l.release(front)
	l.len--
	return v, true
}

// PopBack removes and returns the last element. It returns false if the
// list is empty.
func (l *List[T]) PopBack() (T, bool) {
	if l.len == 0 {
		var zero T
		return zero, false
	}
	back := l.at(tail).prev
	newBack := l.at(back).prev
	l.at(tail).prev = newBack
	l.at(newBack).next = tail

	v := l.at(back).value
	l.release(back)
	l.len--
	return v, true
}

// Extend appends every value yielded by seq.
func (l *List[T]) Extend(seq iter.Seq[T]) {
	for v := range seq {
		l.PushBack(v)
	}
}

// ---------------------------------------------------------------------------
// Peek
// ---------------------------------------------------------------------------

// First returns the first element without removing it.
func (l *List[T]) First() (T, bool) {
	if l.len == 0 {
		var zero T
		return zero, false
	}
	return l.at(l.at(head).next).value, true
}

// Last returns the last element without removing it.
func (l *List[T]) Last() (T, bool) {
	if l.len == 0 {
		var zero T
		return zero, false
	}
	return l.at(l.at(tail).prev).value, true
}

// FirstMut returns a pointer to the first element for in-place mutation,
// or nil if the list is empty.
func (l *List[T]) FirstMut() *T {
	if l.len == 0 {
		return nil
	}
	return &l.at(l.at(head).next).value
}

// LastMut returns a pointer to the last element for in-place mutation, or
// nil if the list is empty.
func (l *List[T]) LastMut() *T {
	if l.len == 0 {
		return nil
	}
	return &l.at(l.at(tail).prev).value
}

// Len returns the number of elements.
func (l *List[T]) Len() int { return l.len }

// IsEmpty reports whether the list has no elements.
func (l *List[T]) IsEmpty() bool { return l.len == 0 }

// ---------------------------------------------------------------------------
// Teardown
// ---------------------------------------------------------------------------

// Clear removes every element, keeping the sentinels.
func (l *List[T]) Clear() {
	for l.len > 0 {
		l.PopFront()
	}
}

// Release frees every remaining node and both sentinels, and drops the
// arena. The list may be reused afterwards; it starts over empty.
func (l *List[T]) Release() {
	if l.pages == nil {
		return
	}
	for i := l.at(head).next; i != tail; {
		next := l.at(i).next
		l.release(i)
		i = next
	}
	l.release(head)
	l.release(tail)
	l.pages = nil
	l.free = none
	l.used = 0
	l.len = 0
}

// Stats returns the list's slot accounting.
func (l *List[T]) Stats() Stats {
	return Stats{Allocs: l.allocs, Frees: l.frees, Pages: len(l.pages)}
}

// ---------------------------------------------------------------------------
// Copying and comparison
// ---------------------------------------------------------------------------

// Clone returns a new list holding a copy of each element.
func (l *List[T]) Clone() *List[T] {
	return l.CloneFunc(func(v T) T { return v })
}

// CloneFunc returns a new list holding clone(v) for each element v.
func (l *List[T]) CloneFunc(clone func(T) T) *List[T] {
	out := New[T]()
	for v := range l.All() {
		out.PushBack(clone(v))
	}
	return out
}

// Slice returns the elements in forward order.
func (l *List[T]) Slice() []T {
	out := make([]T, 0, l.len)
	for v := range l.All() {
		out = append(out, v)
	}
	return out
}

// Equal compares a and b element by element over the shorter of the two.
// Lengths are not compared, so a list equals any list it is a prefix of.
func Equal[T any](a, b *List[T], eq func(x, y T) bool) bool {
	ai, bi := a.Iter(), b.Iter()
	for ai.Next() && bi.Next() {
		if !eq(ai.Value(), bi.Value()) {
			return false
		}
	}
	return true
}

// EqualComparable is Equal using ==.
func EqualComparable[T comparable](a, b *List[T]) bool {
	return Equal(a, b, func(x, y T) bool { return x == y })
}

// ---------------------------------------------------------------------------
// Formatting
// ---------------------------------------------------------------------------

// String formats the elements in forward order, e.g. [1, 2, 3].
func (l *List[T]) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	first := true
	for v := range l.All() {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		fmt.Fprint(&sb, v)
	}
	sb.WriteByte(']')
	return sb.String()
}

// GoString dumps the list's bookkeeping.
func (l *List[T]) GoString() string {
	return fmt.Sprintf("List{head: %d, tail: %d, len: %d}", head, tail, l.len)
}
