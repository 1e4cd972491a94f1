package atlas

import "strings"

// DefaultChunkSize is the window size, in runes, used when splitting
// documents into chunks.
const DefaultChunkSize = 1000

// SplitIntoChunks splits text into non-overlapping windows of size runes.
// Each window is trimmed of surrounding whitespace and dropped if blank.
// The window always advances by size, so trimming never re-aligns
// subsequent windows. A trailing partial window is kept when non-blank.
func SplitIntoChunks(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}

	var chunks []string
	runes := []rune(text)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		window := strings.TrimSpace(string(runes[start:end]))
		if window != "" {
			chunks = append(chunks, window)
		}
	}
	return chunks
}

// ChunkDocuments splits each document into chunks of size runes, tagging
// every chunk with its source path. Document order and window order are
// preserved.
func ChunkDocuments(docs []Document, size int) []Chunk {
	var chunks []Chunk
	for _, doc := range docs {
		for _, window := range SplitIntoChunks(doc.Text, size) {
			chunks = append(chunks, Chunk{Path: doc.Path, Text: window})
		}
	}
	return chunks
}
