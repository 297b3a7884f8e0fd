// Package route places completion results into editing and display surfaces.
package route

import (
	"fmt"
	"sync"

	ghostwriter "github.com/greyskein/ghostwriter"
)

// DisplaySurface is a shared scratch destination for completions that are
// shown rather than spliced into source text.
type DisplaySurface interface {
	// SetText clears the surface, repopulates it with text, and marks it
	// read-only. Later writes win over earlier ones.
	SetText(text string)
	// Reveal makes the surface visible.
	Reveal()
	// Visible reports whether the surface is currently shown.
	Visible() bool
}

// SourceSurface is an editable document that accepts in-place replacement.
type SourceSurface interface {
	// Document returns the current document content.
	Document() string
	// ReplaceSpan deletes span from the document and inserts text at the
	// span's start offset. The span's end offset is stale afterwards.
	ReplaceSpan(span ghostwriter.Span, text string) error
}

// Scratch is an in-memory DisplaySurface.
type Scratch struct {
	mu       sync.Mutex
	text     string
	readOnly bool
	visible  bool
}

// NewScratch creates an empty, hidden scratch surface.
func NewScratch() *Scratch {
	return &Scratch{}
}

// SetText replaces the surface content and marks it read-only.
func (s *Scratch) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.readOnly = true
}

// Text returns the current surface content.
func (s *Scratch) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// ReadOnly reports whether the surface has been marked read-only.
func (s *Scratch) ReadOnly() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readOnly
}

// Reveal marks the surface visible.
func (s *Scratch) Reveal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = true
}

// Visible reports whether the surface is shown.
func (s *Scratch) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// Buffer is an in-memory SourceSurface.
type Buffer struct {
	mu  sync.Mutex
	doc string
}

// NewBuffer creates a buffer holding doc.
func NewBuffer(doc string) *Buffer {
	return &Buffer{doc: doc}
}

// Document returns the current buffer content.
func (b *Buffer) Document() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.doc
}

// ReplaceSpan splices text into the buffer in place of span. The rest of the
// document is unchanged.
func (b *Buffer) ReplaceSpan(span ghostwriter.Span, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if span.Start < 0 || span.End < span.Start || span.End > len(b.doc) {
		return fmt.Errorf("span [%d,%d) out of bounds for document of length %d", span.Start, span.End, len(b.doc))
	}
	b.doc = b.doc[:span.Start] + text + b.doc[span.End:]
	return nil
}
