package contentstore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/atelier-cloud/brandgen/internal/db"
	"github.com/atelier-cloud/brandgen/internal/domain"
)

const contentKeyPrefix = "brandgen:content:"

// hashStore is the consumer interface for per-project content hashes (ISP).
type hashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGet(ctx context.Context, key, field string) ([]byte, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Store keeps prior content documents per project, one hash per project with
// one field per document. Embeddings live inside the document payload and
// are written back when retrieval computes them on demand.
type Store struct {
	store  hashStore
	logger *zap.Logger
}

// New creates a content store.
func New(store hashStore, logger *zap.Logger) *Store {
	return &Store{store: store, logger: logger}
}

// ListByProject returns all prior content for a project, ordered by document
// id for deterministic downstream ranking. A project with no content yields
// an empty slice, not an error.
func (s *Store) ListByProject(ctx context.Context, projectID string) ([]domain.Document, error) {
	fields, err := s.store.HGetAll(ctx, contentKey(projectID))
	if err != nil {
		return nil, fmt.Errorf("list content for project %s: %w", projectID, err)
	}

	docs := make([]domain.Document, 0, len(fields))
	for id, raw := range fields {
		doc, err := decodeDocument(id, []byte(raw))
		if err != nil {
			// A single corrupt record must not sink the whole corpus.
			s.logger.Warn("Skipping undecodable content record",
				zap.String("project_id", projectID),
				zap.String("content_id", id),
				zap.Error(err),
			)
			continue
		}
		docs = append(docs, doc)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// SaveDocument upserts one document into the project's content set.
func (s *Store) SaveDocument(ctx context.Context, projectID string, doc *domain.Document) error {
	data, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	if err := s.store.HSet(ctx, contentKey(projectID), map[string]string{doc.ID: string(data)}); err != nil {
		return fmt.Errorf("save document %s: %w", doc.ID, err)
	}
	return nil
}

// SaveEmbedding persists an on-demand computed embedding back onto the
// stored document. A missing document is not an error: the field may have
// been deleted between retrieval and write-back.
func (s *Store) SaveEmbedding(ctx context.Context, projectID, docID string, embedding []float32) error {
	raw, err := s.store.HGet(ctx, contentKey(projectID), docID)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil
		}
		return fmt.Errorf("load document %s for embedding write-back: %w", docID, err)
	}

	doc, err := decodeDocument(docID, raw)
	if err != nil {
		return err
	}
	doc.Embedding = embedding
	return s.SaveDocument(ctx, projectID, &doc)
}

func contentKey(projectID string) string {
	return contentKeyPrefix + projectID
}
