// Package file provides the TOML-backed configuration store.
//
// Settings live in config.toml inside the carsearch config directory
// (~/.carsearch by default). Nested tables are exposed to callers as
// dot-notation keys such as "index.chunk_size".
package file
