// Package types models Soul types exactly as written in source.
//
// The front end records syntactic types only: a SoulType is a modifier, a
// base TypeKind, generic arguments and a list of wrappers in parse order.
// Wrappers apply outermost-last, so `int[]&` is a mutable reference to an
// array of int and prints back as `int[]&`. Nothing here checks
// assignability; that belongs to semantic analysis.
package types
