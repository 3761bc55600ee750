// Package flat provides an exact, in-memory vector index.
//
// The index is built once from a complete batch and answers k-nearest
// neighbour queries by scoring every stored vector. Distances come from
// github.com/viant/vec/search. Equal scores keep insertion order.
package flat
