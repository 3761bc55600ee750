// Package normalisers provides implementations of the Normaliser interface.
// A normaliser validates one raw dataset row and renders it as the canonical
// text Document that is later chunked and embedded.
package normalisers
