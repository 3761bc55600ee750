package domain

// DefaultK is the number of results returned when the caller does not choose.
const DefaultK = 3

// RetrievalResult is a single ranked answer to a query.
type RetrievalResult struct {
	// Content is the matched chunk text.
	Content string `json:"content"`

	// Source is the provenance tag of the matched record.
	Source string `json:"source"`

	// Score is the similarity reported by the vector index (higher is better).
	Score float64 `json:"score"`
}

// IndexState is the lifecycle state of the retrieval pipeline.
type IndexState int

const (
	// StateUnbuilt means no index exists yet; only formatting and chunking are valid.
	StateUnbuilt IndexState = iota

	// StateReady means the index is built and queries are accepted.
	StateReady
)

// String returns the state name.
func (s IndexState) String() string {
	switch s {
	case StateUnbuilt:
		return "unbuilt"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// BuildStats summarises an index build.
type BuildStats struct {
	Records    int
	Skipped    int
	Documents  int
	Chunks     int
	Dimensions int
}
