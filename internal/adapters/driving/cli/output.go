package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/custodia-labs/carsearch/internal/core/domain"
)

// writeResults prints results in the chat transcript layout.
func writeResults(w io.Writer, results []domain.RetrievalResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "\nNo matching cars found.")
		return
	}

	fmt.Fprintln(w, "\nRetrieved Cars:")
	for i, r := range results {
		fmt.Fprintf(w, "\nResult %d:\n%s\n", i+1, r.Content)
		fmt.Fprintf(w, "Source: %s\n\n", r.Source)
	}
}

// writeResultsJSON prints results as an indented JSON array.
func writeResultsJSON(w io.Writer, results []domain.RetrievalResult) error {
	if results == nil {
		results = []domain.RetrievalResult{}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
