package chunker

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/custodia-labs/carsearch/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		if p.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, p.chunkSize)
		}
		if p.overlap != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, p.overlap)
		}
	})

	t.Run("custom chunk size", func(t *testing.T) {
		p := New(WithChunkSize(500))
		if p.chunkSize != 500 {
			t.Errorf("expected chunkSize 500, got %d", p.chunkSize)
		}
	})

	t.Run("custom overlap", func(t *testing.T) {
		p := New(WithOverlap(100))
		if p.overlap != 100 {
			t.Errorf("expected overlap 100, got %d", p.overlap)
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		p := New(WithChunkSize(100), WithOverlap(150))
		if p.overlap >= p.chunkSize {
			t.Error("overlap should be reduced when it exceeds chunk size")
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		p := New(WithChunkSize(0), WithOverlap(-1))
		if p.chunkSize != DefaultChunkSize {
			t.Errorf("expected default chunkSize, got %d", p.chunkSize)
		}
		if p.overlap != DefaultChunkOverlap {
			t.Errorf("expected default overlap, got %d", p.overlap)
		}
	})
}

func TestProcessor_Name(t *testing.T) {
	p := New()
	if p.Name() != "chunker" {
		t.Errorf("expected name 'chunker', got '%s'", p.Name())
	}
}

func TestProcessor_Process_EmptyContent(t *testing.T) {
	p := New()
	doc := &domain.Document{
		ID:      "test-doc",
		Content: "",
	}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty content, got %d", len(chunks))
	}
}

func TestProcessor_Process_SmallContent(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(20))
	doc := &domain.Document{
		ID:      "test-doc",
		Content: "This is a small piece of content.",
	}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Errorf("expected 1 chunk for small content, got %d", len(chunks))
	}

	if chunks[0].DocumentID != doc.ID {
		t.Errorf("expected DocumentID '%s', got '%s'", doc.ID, chunks[0].DocumentID)
	}
	if chunks[0].Content != doc.Content {
		t.Errorf("expected content to match document content")
	}
	if chunks[0].Position != 0 {
		t.Errorf("expected position 0, got %d", chunks[0].Position)
	}
}

func TestProcessor_Process_LargeContent(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(20))

	// Create content that spans multiple chunks
	content := strings.Repeat("x", 250) // Should create 3-4 chunks with overlap
	doc := &domain.Document{
		ID:      "test-doc",
		Content: content,
	}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chunks) < 2 {
		t.Errorf("expected multiple chunks, got %d", len(chunks))
	}

	// Verify chunk IDs are unique
	seenIDs := make(map[string]bool)
	for _, chunk := range chunks {
		if seenIDs[chunk.ID] {
			t.Errorf("duplicate chunk ID: %s", chunk.ID)
		}
		seenIDs[chunk.ID] = true
	}

	// Verify positions are sequential
	for i, chunk := range chunks {
		if chunk.Position != i {
			t.Errorf("expected position %d, got %d", i, chunk.Position)
		}
	}

	// Verify all chunks have DocumentID set
	for _, chunk := range chunks {
		if chunk.DocumentID != doc.ID {
			t.Errorf("expected DocumentID '%s', got '%s'", doc.ID, chunk.DocumentID)
		}
	}

	// Verify first chunk is full size
	if len(chunks[0].Content) != 100 {
		t.Errorf("expected first chunk size 100, got %d", len(chunks[0].Content))
	}
}

func TestProcessor_Process_ExactChunkSize(t *testing.T) {
	p := New(WithChunkSize(50), WithOverlap(0))

	content := strings.Repeat("a", 100) // Exactly 2 chunks
	doc := &domain.Document{
		ID:      "test-doc",
		Content: content,
	}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chunks) != 2 {
		t.Errorf("expected 2 chunks, got %d", len(chunks))
	}
}

func TestProcessor_Process_OverlapContent(t *testing.T) {
	p := New(WithChunkSize(10), WithOverlap(3))

	content := "0123456789ABCDEFGHIJ" // 20 chars
	doc := &domain.Document{
		ID:      "test-doc",
		Content: content,
	}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// With size 10 and overlap 3 and no separators, step is 7
	want := []string{"0123456789", "789ABCDEFG", "EFGHIJ"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(chunks))
	}
	for i, w := range want {
		if chunks[i].Content != w {
			t.Errorf("chunk %d: expected %q, got %q", i, w, chunks[i].Content)
		}
	}
	if chunks[1].Start != 7 {
		t.Errorf("expected second chunk to start at 7, got %d", chunks[1].Start)
	}
}

func TestProcessor_Process_IgnoresInputChunks(t *testing.T) {
	p := New(WithChunkSize(100))

	existingChunks := []domain.Chunk{
		{ID: "existing", Content: "should be ignored"},
	}

	doc := &domain.Document{
		ID:      "test-doc",
		Content: "New content to chunk",
	}

	chunks, err := p.Process(context.Background(), doc, existingChunks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should create new chunks, not return existing ones
	for _, chunk := range chunks {
		if chunk.ID == "existing" {
			t.Error("existing chunks should be ignored")
		}
	}
}

func TestProcessor_Process_PreservesSource(t *testing.T) {
	p := New(WithChunkSize(20), WithOverlap(5))
	doc := &domain.Document{
		ID:      "doc-1",
		Source:  "Tesla_Model S",
		Content: strings.Repeat("Torque: 1050 Nm\n", 6),
	}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for _, chunk := range chunks {
		if chunk.Source != "Tesla_Model S" {
			t.Errorf("expected source to be inherited, got %q", chunk.Source)
		}
	}
}

func TestProcessor_Process_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Process(ctx, &domain.Document{ID: "d", Content: "x"}, nil)
	if err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestSplit_ShortTextIsSingleSegment(t *testing.T) {
	p := New(WithChunkSize(50), WithOverlap(10))

	for _, text := range []string{"a", "Car Company: Tesla\nModel: Model S\n", strings.Repeat("z", 50)} {
		segs := p.Split(text)
		if len(segs) != 1 {
			t.Fatalf("expected 1 segment for %q, got %d", text, len(segs))
		}
		if segs[0].Text != text || segs[0].Start != 0 {
			t.Errorf("expected segment equal to input, got %+v", segs[0])
		}
	}
}

func TestSplit_Empty(t *testing.T) {
	if segs := New().Split(""); segs != nil {
		t.Errorf("expected nil, got %v", segs)
	}
}

func TestSplit_RoundTrip(t *testing.T) {
	texts := map[string]string{
		"record":     strings.Repeat("Car Company: Tesla\nModel: Model S\nHorsepower: 670 HP\n", 40),
		"paragraphs": strings.Repeat("first paragraph line one\nline two\n\nsecond paragraph ", 30),
		"words":      strings.Repeat("lorem ipsum dolor sit amet ", 80),
		"unbroken":   strings.Repeat("abcdefghij", 55),
		"unicode":    strings.Repeat("Geschwindigkeit über 300 km/h — schnell ", 25),
		"mixed":      "x\n\n\n\n" + strings.Repeat("y", 130) + "\n" + strings.Repeat("w ", 70),
	}
	configs := []struct{ size, overlap int }{
		{100, 20}, {64, 0}, {37, 12}, {1000, 200}, {10, 9},
	}

	for name, text := range texts {
		for _, cfg := range configs {
			p := New(WithChunkSize(cfg.size), WithOverlap(cfg.overlap))
			segs := p.Split(text)

			if got := reconstruct(segs); got != text {
				t.Errorf("%s size=%d overlap=%d: round trip mismatch", name, cfg.size, cfg.overlap)
			}
			for i, seg := range segs {
				if n := utf8.RuneCountInString(seg.Text); n > p.ChunkSize() {
					t.Errorf("%s: segment %d has %d runes, max %d", name, i, n, p.ChunkSize())
				}
				if text[seg.Start:seg.Start+len(seg.Text)] != seg.Text {
					t.Errorf("%s: segment %d does not match its offset", name, i)
				}
				if i == 0 {
					continue
				}
				prev := segs[i-1]
				shared := prev.Start + len(prev.Text) - seg.Start
				if shared < 0 {
					t.Errorf("%s: gap between segments %d and %d", name, i-1, i)
					continue
				}
				if n := utf8.RuneCountInString(seg.Text[:shared]); n > p.Overlap() {
					t.Errorf("%s: segments %d and %d share %d runes, max %d", name, i-1, i, n, p.Overlap())
				}
				if seg.Start <= prev.Start {
					t.Errorf("%s: segment %d does not advance", name, i)
				}
			}
		}
	}
}

func TestSplit_PrefersParagraphBreaks(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(0))
	text := strings.Repeat("a", 60) + "\n\n" + strings.Repeat("b", 60)

	segs := p.Split(text)

	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if segs[0].Text != strings.Repeat("a", 60)+"\n\n" {
		t.Errorf("unexpected first segment %q", segs[0].Text)
	}
	if segs[1].Text != strings.Repeat("b", 60) {
		t.Errorf("unexpected second segment %q", segs[1].Text)
	}
}

func TestSplit_PrefersLineBreaks(t *testing.T) {
	p := New(WithChunkSize(40), WithOverlap(0))
	text := "Car Company: Tesla\nModel: Model S\nEngine Type: Electric\nTorque: 1050 Nm\n"

	for _, seg := range p.Split(text) {
		if !strings.HasSuffix(seg.Text, "\n") {
			t.Errorf("expected segment to end at a line break, got %q", seg.Text)
		}
	}
}

func TestSplit_DoesNotBreakWords(t *testing.T) {
	p := New(WithChunkSize(23), WithOverlap(6))
	text := strings.Repeat("word ", 40)

	for _, seg := range p.Split(text) {
		for _, f := range strings.Fields(seg.Text) {
			if f != "word" {
				t.Errorf("word broken in segment %q", seg.Text)
			}
		}
	}
}

func TestSplit_Deterministic(t *testing.T) {
	p := New(WithChunkSize(50), WithOverlap(10))
	text := strings.Repeat("Seating Capacity: 5\nFuel Type: Petrol\n", 20)

	first := p.Split(text)
	for i := 0; i < 5; i++ {
		again := p.Split(text)
		if len(again) != len(first) {
			t.Fatalf("segment count changed: %d vs %d", len(again), len(first))
		}
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("segment %d changed between runs", j)
			}
		}
	}
}

func TestWithSeparators(t *testing.T) {
	p := New(WithChunkSize(10), WithOverlap(0), WithSeparators("|"))
	segs := p.Split("aaaa|bbbb|cccc|dddd")

	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if segs[0].Text != "aaaa|bbbb|" {
		t.Errorf("unexpected first segment %q", segs[0].Text)
	}
}

// reconstruct joins the non-overlapping prefix of each segment.
func reconstruct(segs []Segment) string {
	var b strings.Builder
	for i, seg := range segs {
		if i+1 < len(segs) {
			b.WriteString(seg.Text[:segs[i+1].Start-seg.Start])
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}
