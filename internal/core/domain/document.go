package domain

// Document is the canonical text rendering of a Record.
// It is created by the record normaliser and never mutated.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Source is the provenance tag of the originating Record.
	Source string

	// Content is the full canonical text before chunking.
	Content string

	// Row is the dataset row of the originating Record.
	Row int
}

// Chunk represents a searchable unit within a document.
// Documents are split into chunks; each chunk is embedded and indexed.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Source is inherited from the parent Document.
	Source string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Start is the byte offset of Content within the parent Document's Content.
	Start int

	// Embedding is the vector representation, set when the index is built.
	Embedding []float32
}
