// Package chunker provides a recursive, boundary-aware text chunking processor.
package chunker

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/carsearch/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// DefaultSeparators are tried in order: paragraph, line, word, then raw
// character cuts (the empty separator).
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// Segment is a contiguous slice of the input text.
type Segment struct {
	// Text is the segment content.
	Text string

	// Start is the byte offset of Text in the input.
	Start int
}

// Processor splits document content into bounded, overlapping chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithSeparators replaces the boundary fallback list.
// The empty separator is always appended so that splitting terminates.
func WithSeparators(separators ...string) Option {
	return func(p *Processor) {
		if len(separators) == 0 {
			return
		}
		seps := make([]string, 0, len(separators)+1)
		for _, s := range separators {
			if s != "" {
				seps = append(seps, s)
			}
		}
		p.separators = append(seps, "")
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured maximum chunk length.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
// Every chunk inherits the document's Source.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc.Content == "" {
		// Empty content produces no chunks
		return nil, nil
	}

	segments := p.Split(doc.Content)
	chunks := make([]domain.Chunk, 0, len(segments))
	for i, seg := range segments {
		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Source:     doc.Source,
			Content:    seg.Text,
			Position:   i,
			Start:      seg.Start,
		})
	}

	return chunks, nil
}

// Split cuts text into segments of at most chunkSize characters.
// Consecutive segments share at most overlap characters. Text no longer
// than chunkSize comes back as a single segment.
func (p *Processor) Split(text string) []Segment {
	if text == "" {
		return nil
	}
	if utf8.RuneCountInString(text) <= p.chunkSize {
		return []Segment{{Text: text, Start: 0}}
	}

	pieces := p.splitRecursive(text, 0, p.separators)
	return p.merge(text, pieces)
}

// piece is an atomic unit produced by recursive splitting.
type piece struct {
	start int
	end   int
	runes int
}

// splitRecursive breaks text into pieces no longer than chunkSize, using the
// first separator that occurs and falling back to finer ones for oversized
// parts. Separators stay attached to the end of the part they close, so the
// pieces always concatenate back to text.
func (p *Processor) splitRecursive(text string, offset int, separators []string) []piece {
	sep, rest := pickSeparator(text, separators)

	var parts []string
	if sep == "" {
		parts = splitRunes(text)
	} else {
		parts = strings.SplitAfter(text, sep)
	}

	var pieces []piece
	pos := offset
	for _, part := range parts {
		if part == "" {
			continue
		}
		n := utf8.RuneCountInString(part)
		if n <= p.chunkSize || sep == "" {
			pieces = append(pieces, piece{start: pos, end: pos + len(part), runes: n})
		} else {
			pieces = append(pieces, p.splitRecursive(part, pos, rest)...)
		}
		pos += len(part)
	}
	return pieces
}

// merge packs consecutive pieces into windows of at most chunkSize runes,
// carrying up to overlap runes of trailing pieces into the next window.
func (p *Processor) merge(text string, pieces []piece) []Segment {
	var segments []Segment
	var window []piece
	total := 0

	emit := func() {
		first, last := window[0], window[len(window)-1]
		segments = append(segments, Segment{Text: text[first.start:last.end], Start: first.start})
	}

	for _, pc := range pieces {
		if len(window) > 0 && total+pc.runes > p.chunkSize {
			emit()
			for len(window) > 0 && (total > p.overlap || total+pc.runes > p.chunkSize) {
				total -= window[0].runes
				window = window[1:]
			}
		}
		window = append(window, pc)
		total += pc.runes
	}

	if len(window) > 0 {
		emit()
	}
	return segments
}

// pickSeparator returns the first separator present in text and the finer
// separators that follow it.
func pickSeparator(text string, separators []string) (string, []string) {
	for i, sep := range separators {
		if sep == "" || strings.Contains(text, sep) {
			return sep, separators[i+1:]
		}
	}
	return "", nil
}

// splitRunes returns every rune of text as its own string.
func splitRunes(text string) []string {
	parts := make([]string, 0, len(text))
	for len(text) > 0 {
		_, size := utf8.DecodeRuneInString(text)
		parts = append(parts, text[:size])
		text = text[size:]
	}
	return parts
}
