// Package chunk splits documents into bounded, overlapping pieces of text.
package chunk

import (
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/masmgr/worklog-go/internal/document"
	"github.com/masmgr/worklog-go/internal/errdefs"
)

const (
	DefaultChunkSize    = 4000
	DefaultChunkOverlap = 200
)

// DefaultSeparators are tried in order; "" cuts between runes.
var DefaultSeparators = []string{
	"\n\n",
	"\n",
	" ",
	".",
	",",
	"\u200b", // zero-width space
	"\uff0c", // fullwidth comma
	"\u3001", // ideographic comma
	"\uff0e", // fullwidth full stop
	"\u3002", // ideographic full stop
	"",
}

// Metadata is the source document's metadata plus the chunk position.
type Metadata struct {
	document.Metadata
	ChunkIndex int
}

// Chunk is a bounded piece of a document.
type Chunk struct {
	Text string
	// Overlap is the number of leading runes repeated from the previous chunk.
	Overlap  int
	Metadata Metadata
}

// Splitter splits text recursively on a prioritized list of separators.
type Splitter struct {
	size       int
	overlap    int
	separators []string
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithChunkSize sets the maximum chunk length in runes.
func WithChunkSize(n int) Option {
	return func(s *Splitter) { s.size = n }
}

// WithChunkOverlap sets the maximum number of runes shared by adjacent chunks.
func WithChunkOverlap(n int) Option {
	return func(s *Splitter) { s.overlap = n }
}

// WithSeparators replaces the separator list. A trailing "" is added when missing.
func WithSeparators(seps ...string) Option {
	return func(s *Splitter) {
		s.separators = append([]string(nil), seps...)
		if len(s.separators) == 0 || s.separators[len(s.separators)-1] != "" {
			s.separators = append(s.separators, "")
		}
	}
}

// NewSplitter creates a splitter. It fails when size <= 0, overlap < 0 or overlap >= size.
func NewSplitter(opts ...Option) (*Splitter, error) {
	s := &Splitter{
		size:       DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: DefaultSeparators,
	}
	for _, opt := range opts {
		opt(s)
	}

	switch {
	case s.size <= 0:
		return nil, errdefs.Newf(errdefs.KindConfiguration, "chunk splitter", "chunk size must be positive, got %d", s.size)
	case s.overlap < 0:
		return nil, errdefs.Newf(errdefs.KindConfiguration, "chunk splitter", "chunk overlap must not be negative, got %d", s.overlap)
	case s.overlap >= s.size:
		return nil, errdefs.Newf(errdefs.KindConfiguration, "chunk splitter",
			"chunk overlap (%d) must be smaller than chunk size (%d)", s.overlap, s.size)
	}
	return s, nil
}

// Split chunks every document, preserving document order.
func (s *Splitter) Split(docs iter.Seq[document.Document]) []Chunk {
	var chunks []Chunk
	for doc := range docs {
		for i, p := range s.split(doc.Content) {
			chunks = append(chunks, Chunk{
				Text:     p.text,
				Overlap:  p.overlap,
				Metadata: Metadata{Metadata: doc.Metadata, ChunkIndex: i},
			})
		}
	}
	return chunks
}

// SplitText returns the chunk texts of a single string.
func (s *Splitter) SplitText(text string) []string {
	pieces := s.split(text)
	out := make([]string, len(pieces))
	for i, p := range pieces {
		out[i] = p.text
	}
	return out
}

// Fresh returns the text of c without the runes repeated from the previous chunk.
func (c Chunk) Fresh() string {
	return dropRunes(c.Text, c.Overlap)
}

// Reassemble rebuilds the text a sequence of chunks was split from.
func Reassemble(chunks []Chunk) string {
	var sb strings.Builder
	for _, c := range chunks {
		sb.WriteString(c.Fresh())
	}
	return sb.String()
}

type piece struct {
	text    string
	overlap int
}

func (s *Splitter) split(text string) []piece {
	if text == "" {
		return nil
	}
	return s.merge(s.atomize(text, s.separators))
}

// atomize cuts text into atoms no longer than the chunk size whose concatenation is text.
// Separators stay attached to the atom they end.
func (s *Splitter) atomize(text string, separators []string) []string {
	if runeLen(text) <= s.size {
		return []string{text}
	}

	sep, rest := "", []string(nil)
	for i, candidate := range separators {
		if candidate == "" || strings.Contains(text, candidate) {
			sep, rest = candidate, separators[i+1:]
			break
		}
	}
	if sep == "" {
		return cutRunes(text, s.size)
	}

	var atoms []string
	for _, part := range strings.SplitAfter(text, sep) {
		if part == "" {
			continue
		}
		if runeLen(part) <= s.size {
			atoms = append(atoms, part)
			continue
		}
		atoms = append(atoms, s.atomize(part, rest)...)
	}
	return atoms
}

// merge packs atoms greedily into chunks, carrying trailing atoms of up to
// overlap runes into the next chunk.
func (s *Splitter) merge(atoms []string) []piece {
	var (
		pieces   []piece
		current  []string
		lengths  []int
		total    int
		retained int
	)

	emit := func() {
		pieces = append(pieces, piece{text: strings.Join(current, ""), overlap: retained})
	}

	for _, atom := range atoms {
		n := runeLen(atom)
		if total+n > s.size && len(current) > 0 {
			emit()
			for len(current) > 0 && (total > s.overlap || total+n > s.size) {
				total -= lengths[0]
				current, lengths = current[1:], lengths[1:]
			}
			retained = total
		}
		current = append(current, atom)
		lengths = append(lengths, n)
		total += n
	}
	if len(current) > 0 {
		emit()
	}
	return pieces
}

func cutRunes(text string, size int) []string {
	var out []string
	for text != "" {
		end, count := 0, 0
		for end < len(text) && count < size {
			_, w := utf8.DecodeRuneInString(text[end:])
			end += w
			count++
		}
		out = append(out, text[:end])
		text = text[end:]
	}
	return out
}

func dropRunes(text string, n int) string {
	for i := range text {
		if n == 0 {
			return text[i:]
		}
		n--
	}
	return ""
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }
