package list

import "iter"

// Iterator walks a list from both ends. The front and back cursors never
// cross, and sentinels are never yielded. Mutating the list's structure
// during iteration invalidates the iterator.
type Iterator[T any] struct {
	l         *List[T]
	front     int32
	back      int32
	cur       int32
	remaining int
	reversed  bool
}

// Iter returns an iterator positioned before the first element.
func (l *List[T]) Iter() *Iterator[T] {
	l.lazyInit()
	return &Iterator[T]{
		l:         l,
		front:     head,
		back:      tail,
		cur:       none,
		remaining: l.len,
	}
}

// IterBack returns an iterator whose Next walks from the last element.
func (l *List[T]) IterBack() *Iterator[T] {
	return l.Iter().Rev()
}

// Rev swaps the direction of Next and NextBack and returns the iterator.
func (it *Iterator[T]) Rev() *Iterator[T] {
	it.reversed = !it.reversed
	return it
}

// Next advances to the next element. It returns false once every element
// has been visited from either end.
func (it *Iterator[T]) Next() bool {
	if it.reversed {
		return it.stepBack()
	}
	return it.stepFront()
}

// NextBack advances from the opposite end.
func (it *Iterator[T]) NextBack() bool {
	if it.reversed {
		return it.stepFront()
	}
	return it.stepBack()
}

func (it *Iterator[T]) stepFront() bool {
	if it.remaining == 0 {
		it.cur = none
		return false
	}
	it.front = it.l.at(it.front).next
	it.cur = it.front
	it.remaining--
	return true
}

func (it *Iterator[T]) stepBack() bool {
	if it.remaining == 0 {
		it.cur = none
		return false
	}
	it.back = it.l.at(it.back).prev
	it.cur = it.back
	it.remaining--
	return true
}

// Value returns the current element. Panics if there is none.
func (it *Iterator[T]) Value() T {
	return *it.Ptr()
}

// Ptr returns a pointer to the current element for in-place mutation.
// Panics if there is none.
func (it *Iterator[T]) Ptr() *T {
	if it.cur == none {
		panic("Iterator.Ptr: no current element")
	}
	return &it.l.at(it.cur).value
}

// Skip advances past up to n elements without visiting them and returns
// the iterator.
func (it *Iterator[T]) Skip(n int) *Iterator[T] {
	for n > 0 && it.Next() {
		n--
	}
	return it
}

// Nth skips n elements and returns a pointer to the one after them, or nil
// if the iterator runs out first.
func (it *Iterator[T]) Nth(n int) *T {
	if !it.Skip(n).Next() {
		return nil
	}
	return it.Ptr()
}

// Remaining returns the number of elements not yet visited.
func (it *Iterator[T]) Remaining() int { return it.remaining }

// ---------------------------------------------------------------------------
// Range-over-func adapters
// ---------------------------------------------------------------------------

// All yields the elements front to back.
func (l *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if l.pages == nil {
			return
		}
		for i := l.at(head).next; i != tail; i = l.at(i).next {
			if !yield(l.at(i).value) {
				return
			}
		}
	}
}

// Backward yields the elements back to front.
func (l *List[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		if l.pages == nil {
			return
		}
		for i := l.at(tail).prev; i != head; i = l.at(i).prev {
			if !yield(l.at(i).value) {
				return
			}
		}
	}
}

// Enumerate yields each element with its forward position.
func (l *List[T]) Enumerate() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		n := 0
		for v := range l.All() {
			if !yield(n, v) {
				return
			}
			n++
		}
	}
}
