package atlas

// Document is a single atlas markdown document identified by its
// repository-relative path. Documents are fetched fresh for every request
// and never outlive it.
type Document struct {
	Path string // relative path within the atlas repository
	Text string // raw document text
}

// Chunk is a fixed-size window of a document, the unit of retrieval.
type Chunk struct {
	Path string // source document path
	Text string // trimmed window text
}

// ScoredChunk pairs a chunk with its keyword-overlap score.
type ScoredChunk struct {
	Chunk
	Score int
}
