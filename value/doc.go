// Package value implements the runtime's value model.
//
// This package contains:
//   - the Value tagged union (nil, boolean, integer, float, object)
//   - Object references to text and class instances
//   - Class field storage keyed by Value
//   - hashing, textual projection and a CBOR snapshot codec
package value
