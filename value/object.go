package value

import (
	"github.com/chazu/lumen/gc"
	"github.com/chazu/lumen/text"
)

// ObjectKind identifies the variant held by an Object.
type ObjectKind uint8

const (
	ObjectText ObjectKind = iota
	ObjectClass
)

// Object is a reference to a heap object: a text string or a class
// instance. Copying an Object copies the reference only.
type Object struct {
	kind  ObjectKind
	str   text.Str
	class *Class
}

// TextObject wraps a Str.
func TextObject(s text.Str) Object {
	return Object{kind: ObjectText, str: s}
}

// ClassObject wraps a class reference. Panics if c is nil.
func ClassObject(c *Class) Object {
	if c == nil {
		panic("ClassObject: nil class")
	}
	return Object{kind: ObjectClass, class: c}
}

// Kind returns the variant of o.
func (o Object) Kind() ObjectKind { return o.kind }

// Text returns the Str held by o.
func (o Object) Text() (text.Str, bool) {
	if o.kind != ObjectText {
		return text.Str{}, false
	}
	return o.str, true
}

// Class returns the class held by o.
func (o Object) Class() (*Class, bool) {
	if o.kind != ObjectClass {
		return nil, false
	}
	return o.class, true
}

// Equal compares text by tier and content, and classes structurally.
func (o Object) Equal(other Object) bool {
	if o.kind != other.kind {
		return false
	}
	switch o.kind {
	case ObjectText:
		return o.str.Equal(other.str)
	case ObjectClass:
		return o.class.Equal(other.class)
	default:
		return false
	}
}

// Trace visits the shared allocation behind o, if any.
func (o Object) Trace(visit func(gc.Traceable)) {
	switch o.kind {
	case ObjectText:
		if blk := o.str.Shared(); blk != nil {
			visit(blk)
		}
	case ObjectClass:
		visit(o.class)
	}
}
