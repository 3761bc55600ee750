// Package messages defines Bubbletea message types for the chat TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/carsearch/internal/core/domain"
)

// RetrieveRequested is a command to answer a question.
type RetrieveRequested struct {
	Query string
	K     int
}

// RetrieveCompleted carries retrieval results back to the model.
type RetrieveCompleted struct {
	Query   string
	Results []domain.RetrievalResult
	Err     error
}

// ErrorOccurred reports an error to display in the status bar.
type ErrorOccurred struct {
	Err error
}

// Quit requests application exit.
type Quit struct{}
