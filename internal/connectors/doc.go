// Package connectors holds the record sources the index can be built from.
// Each source lives in its own subpackage and implements
// driven.RecordSource.
package connectors
