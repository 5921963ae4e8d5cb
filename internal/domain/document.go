package domain

// MediaType categorizes stored content.
type MediaType string

// Known media types.
const (
	MediaText  MediaType = "text"
	MediaImage MediaType = "image"
)

// Document is a unit of prior content used as retrieval grounding.
// Embedding may be empty; retrieval embeds on demand and writes the vector
// back to the store.
type Document struct {
	ID        string
	Text      string
	MediaType MediaType
	Embedding []float32
}

// HasEmbedding reports whether the document carries a precomputed vector.
func (d *Document) HasEmbedding() bool { return len(d.Embedding) > 0 }

// Summary returns a short snippet of the document text for context assembly.
func (d *Document) Summary(maxLen int) string {
	if maxLen <= 0 || len(d.Text) <= maxLen {
		return d.Text
	}
	cut := d.Text[:maxLen]
	// Trim a partial trailing word.
	for i := len(cut) - 1; i > 0; i-- {
		if cut[i] == ' ' {
			return cut[:i]
		}
	}
	return cut
}
