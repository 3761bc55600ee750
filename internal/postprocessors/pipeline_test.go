package postprocessors

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/custodia-labs/carsearch/internal/core/domain"
	"github.com/custodia-labs/carsearch/internal/postprocessors/chunker"
)

// mockProcessor is a test processor that returns predefined chunks.
type mockProcessor struct {
	name   string
	chunks []domain.Chunk
	err    error
}

func (m *mockProcessor) Name() string {
	return m.name
}

func (m *mockProcessor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.chunks != nil {
		return m.chunks, nil
	}
	return chunks, nil
}

func teslaDoc() *domain.Document {
	return &domain.Document{
		ID:      "doc-tesla",
		Source:  "Tesla_Model S",
		Content: "Car Company: Tesla\nModel: Model S\n",
	}
}

func TestNewPipeline(t *testing.T) {
	p := NewPipeline()
	if p == nil {
		t.Fatal("expected non-nil pipeline")
	}
	if p.Len() != 0 {
		t.Errorf("expected 0 processors, got %d", p.Len())
	}

	p.Add(&mockProcessor{name: "test"})
	if p.Len() != 1 {
		t.Errorf("expected 1 processor, got %d", p.Len())
	}
}

func TestPipeline_Process_NilDocument(t *testing.T) {
	_, err := NewPipeline().Process(context.Background(), nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPipeline_Process_EmptyPipeline(t *testing.T) {
	chunks, err := NewPipeline().Process(context.Background(), teslaDoc())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunks != nil {
		t.Errorf("expected nil chunks from empty pipeline, got %v", chunks)
	}
}

func TestPipeline_Process_StampsProvenance(t *testing.T) {
	p := NewPipeline(
		&mockProcessor{name: "first", chunks: []domain.Chunk{{ID: "c1", Content: "first"}}},
		&mockProcessor{name: "second", chunks: []domain.Chunk{
			{ID: "c1", Content: "modified", Position: 7},
			{ID: "c2", Content: "added", Source: "wrong"},
		}},
	)

	chunks, err := p.Process(context.Background(), teslaDoc())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if chunk.Source != "Tesla_Model S" {
			t.Errorf("chunk %d: expected source Tesla_Model S, got %q", i, chunk.Source)
		}
		if chunk.DocumentID != "doc-tesla" {
			t.Errorf("chunk %d: expected document id, got %q", i, chunk.DocumentID)
		}
		if chunk.Position != i {
			t.Errorf("chunk %d: expected position %d, got %d", i, i, chunk.Position)
		}
	}
}

func TestPipeline_Process_ProcessorError(t *testing.T) {
	expectedErr := errors.New("processor failed")
	p := NewPipeline(&mockProcessor{name: "failing", err: expectedErr})

	_, err := p.Process(context.Background(), teslaDoc())
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected wrapped error, got: %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "failing") {
		t.Errorf("expected processor name in error, got: %v", err)
	}
}

func TestPipeline_ProcessAll(t *testing.T) {
	p := NewPipeline(chunker.New(chunker.WithChunkSize(40), chunker.WithOverlap(0)))
	docs := []domain.Document{
		{ID: "a", Source: "Tesla_Model S", Content: strings.Repeat("Top Speed: 250 km/h\n", 3)},
		{ID: "b", Source: "BMW_M3", Content: "Car Company: BMW\n"},
	}

	chunks, err := p.ProcessAll(context.Background(), docs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if chunks[0].Source != "Tesla_Model S" || chunks[1].Source != "Tesla_Model S" {
		t.Errorf("expected first chunks from Tesla, got %q and %q", chunks[0].Source, chunks[1].Source)
	}
	if chunks[2].Source != "BMW_M3" || chunks[2].Position != 0 {
		t.Errorf("unexpected last chunk %+v", chunks[2])
	}
}

func TestPipeline_ProcessAll_Error(t *testing.T) {
	p := NewPipeline(&mockProcessor{name: "failing", err: errors.New("boom")})

	chunks, err := p.ProcessAll(context.Background(), []domain.Document{*teslaDoc()})
	if err == nil {
		t.Fatal("expected error")
	}
	if chunks != nil {
		t.Errorf("expected no chunks on failure, got %d", len(chunks))
	}
}
