package flat

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/viant/vec/search"

	"github.com/custodia-labs/carsearch/internal/core/domain"
	"github.com/custodia-labs/carsearch/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// entry is one stored vector with its precomputed magnitude.
type entry struct {
	driven.IndexEntry
	magnitude float32
}

// Index is an exact nearest-neighbour index guarded by a read/write lock.
type Index struct {
	metric domain.Metric

	mu      sync.RWMutex
	entries []entry
	dim     int
	built   bool
}

// New creates an empty index using metric. An unknown metric is rejected.
func New(metric domain.Metric) (*Index, error) {
	if metric == "" {
		metric = domain.MetricCosine
	}
	if !metric.IsValid() {
		return nil, fmt.Errorf("flat: metric %q: %w", metric, domain.ErrUnsupportedType)
	}
	return &Index{metric: metric}, nil
}

// Metric returns the configured similarity metric.
func (i *Index) Metric() domain.Metric {
	return i.metric
}

// Build stores every entry. It validates the whole batch first, so a failure
// leaves the index unchanged. A second Build fails with domain.ErrAlreadyBuilt.
func (i *Index) Build(ctx context.Context, entries []driven.IndexEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dim := 0
	if len(entries) > 0 {
		dim = len(entries[0].Vector)
	}
	seen := make(map[string]struct{}, len(entries))
	stored := make([]entry, len(entries))
	for n, e := range entries {
		if e.ID == "" {
			return fmt.Errorf("flat: entry %d: empty id: %w", n, domain.ErrInvalidInput)
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("flat: entry %d: duplicate id %s: %w", n, e.ID, domain.ErrInvalidInput)
		}
		seen[e.ID] = struct{}{}
		if len(e.Vector) == 0 {
			return fmt.Errorf("flat: entry %s: empty vector: %w", e.ID, domain.ErrEmbedding)
		}
		if len(e.Vector) != dim {
			return fmt.Errorf("flat: entry %s: dimension %d, want %d: %w", e.ID, len(e.Vector), dim, domain.ErrEmbedding)
		}
		vec := append([]float32(nil), e.Vector...)
		stored[n] = entry{
			IndexEntry: driven.IndexEntry{ID: e.ID, Vector: vec, Content: e.Content, Source: e.Source},
			magnitude:  search.Float32s(vec).Magnitude(),
		}
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.built {
		return domain.ErrAlreadyBuilt
	}
	i.entries = stored
	i.dim = dim
	i.built = true
	return nil
}

// Search returns up to k entries ordered by descending score.
func (i *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k < 1 {
		return nil, fmt.Errorf("flat: k=%d: %w", k, domain.ErrInvalidK)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	if len(i.entries) == 0 {
		return nil, domain.ErrEmptyIndex
	}
	if len(query) != i.dim {
		return nil, fmt.Errorf("flat: query dimension %d, index dimension %d: %w", len(query), i.dim, domain.ErrEmbedding)
	}

	type scored struct {
		idx   int
		score float64
	}
	q := search.Float32s(query)
	qm := q.Magnitude()

	scores := make([]scored, len(i.entries))
	for n := range i.entries {
		scores[n] = scored{idx: n, score: i.score(q, qm, &i.entries[n])}
	}
	sort.SliceStable(scores, func(a, b int) bool { return scores[a].score > scores[b].score })

	k = min(k, len(scores))
	hits := make([]driven.VectorHit, k)
	for n := 0; n < k; n++ {
		e := i.entries[scores[n].idx]
		hits[n] = driven.VectorHit{
			ID:      e.ID,
			Content: e.Content,
			Source:  e.Source,
			Score:   scores[n].score,
		}
	}
	return hits, nil
}

// score returns a similarity where higher is better.
// Cosine yields 1 - cosine distance; zero vectors score 0.
// L2 yields the negated Euclidean distance.
func (i *Index) score(q search.Float32s, qm float32, e *entry) float64 {
	switch i.metric {
	case domain.MetricL2:
		return -float64(q.EuclideanDistance(e.Vector))
	default:
		if qm == 0 || e.magnitude == 0 {
			return 0
		}
		s := 1 - float64(q.CosineDistance(e.Vector))
		if math.IsNaN(s) {
			return 0
		}
		return s
	}
}

// Len returns the number of stored entries.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.entries)
}

// Dimensions returns the vector size of the stored entries (0 when empty).
func (i *Index) Dimensions() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.dim
}

// Close drops the stored vectors.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.entries = nil
	i.dim = 0
	return nil
}
