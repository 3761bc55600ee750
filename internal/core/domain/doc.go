// Package domain defines the core business entities for carsearch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawRow: One untyped row as read from the dataset
//   - Record: A validated car entry with a fixed schema
//   - Document: The canonical text rendering of a Record
//   - Chunk: A bounded segment of a Document, the unit that gets embedded
//   - RetrievalResult: One ranked answer to a query
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
