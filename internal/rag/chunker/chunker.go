// Package chunker splits documents into token-bounded, overlapping chunks
// suitable for embedding and retrieval.
package chunker

// Chunk is the atomic unit of retrievable content. Chunks are immutable once
// produced; metadata carries at minimum "source" and "filename".
type Chunk struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

// Splitter produces fixed-size token chunks with overlap.
type Splitter struct {
	chunkSize int
	overlap   int
}

// NewSplitter creates a splitter. chunkSize is the window width and overlap
// the number of tokens shared between consecutive chunks, both in token
// units. Invalid values are clamped rather than rejected: a non-positive
// chunkSize falls back to 1000, a negative overlap to 0, and an overlap at or
// above chunkSize to chunkSize/4.
func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}
}

// ChunkSize returns the configured window width in tokens.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// Overlap returns the configured overlap in tokens.
func (s *Splitter) Overlap() int { return s.overlap }

// Split tokenizes text once and slides a window of chunkSize tokens across
// it, advancing chunkSize-overlap tokens per step. The final chunk may be
// shorter. Empty text yields zero chunks. Each chunk gets its own copy of
// meta. Re-running on the same input yields an identical sequence.
func (s *Splitter) Split(text string, meta map[string]string) []Chunk {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	step := s.chunkSize - s.overlap

	var chunks []Chunk
	for i := 0; i < len(tokens); i += step {
		end := i + s.chunkSize
		if end > len(tokens) {
			end = len(tokens)
		}

		chunks = append(chunks, Chunk{
			Content:  Decode(tokens[i:end]),
			Metadata: copyMeta(meta),
		})

		if end == len(tokens) {
			break
		}
	}

	return chunks
}

func copyMeta(meta map[string]string) map[string]string {
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
