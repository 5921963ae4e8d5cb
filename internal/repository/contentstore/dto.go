package contentstore

import (
	"encoding/json"
	"fmt"

	"github.com/atelier-cloud/brandgen/internal/domain"
)

// contentDTO is the stored representation of a document.
type contentDTO struct {
	Text      string    `json:"text"`
	MediaType string    `json:"media_type"`
	Embedding []float32 `json:"embedding,omitempty"`
}

func encodeDocument(doc *domain.Document) ([]byte, error) {
	dto := contentDTO{
		Text:      doc.Text,
		MediaType: string(doc.MediaType),
		Embedding: doc.Embedding,
	}
	data, err := json.Marshal(dto)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return data, nil
}

func decodeDocument(id string, data []byte) (domain.Document, error) {
	var dto contentDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return domain.Document{}, fmt.Errorf("unmarshal document %s: %w", id, err)
	}
	mediaType := domain.MediaType(dto.MediaType)
	if mediaType == "" {
		mediaType = domain.MediaText
	}
	return domain.Document{
		ID:        id,
		Text:      dto.Text,
		MediaType: mediaType,
		Embedding: dto.Embedding,
	}, nil
}
