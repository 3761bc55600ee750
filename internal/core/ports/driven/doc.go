// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - RecordSource: Reads raw rows from the dataset (CSV)
//   - Normaliser: Validates a raw row and renders it as a Document
//   - PostProcessor: Splits documents into chunks
//   - EmbeddingService: Generates vector embeddings
//   - VectorIndex: Stores embedded chunks and answers kNN queries
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
