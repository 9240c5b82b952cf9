// Package ir provides the intermediate representation of configuration
// documents before and after tag resolution.
//
// # Nodes
//
// A parsed document is a tree of *Node. A Node is a tagged union keyed by
// its Type:
//
//   - NullType, BoolType, NumberType, StringType, TimeType: scalars, with the
//     value in String, Bool, Int64/Uint64/Float64 or Time and the source
//     text in Text
//   - ArrayType: ordered list in Values
//   - ObjectType: Keys[i] is the canonical key of Values[i]; keys are unique
//
// A node may carry a Tag (the name without its leading '!'). A tag always
// annotates exactly one scalar, array or object node; that node without the
// tag is the tag's content.
//
// Nodes produced by the parser are never modified afterwards. Resolution
// builds a separate value tree, so the original tree can be consulted again
// (for example by references) while resolution is in progress.
//
// # Paths
//
// KPath is a list of keys and array indices. Node.GetKPath walks it and
// reports ErrPathNotFound with the failing prefix:
//
//	n, err := doc.GetKPath(ir.KPath{"base", "url"})
//
// # Resolved values
//
// Resolution produces plain Go values: nil, string, int64, uint64, float64,
// bool, time.Time, []any, and *Map for objects. Map preserves key order and
// marshals to JSON and YAML in that order.
package ir
