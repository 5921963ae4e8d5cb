package contentstore

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/atelier-cloud/brandgen/internal/db"
	"github.com/atelier-cloud/brandgen/internal/domain"
)

// mockHashStore is an in-memory hash store.
type mockHashStore struct {
	data map[string]map[string]string
}

func newMockHashStore() *mockHashStore {
	return &mockHashStore{data: map[string]map[string]string{}}
}

func (m *mockHashStore) HSet(_ context.Context, key string, fields map[string]string) error {
	if m.data[key] == nil {
		m.data[key] = map[string]string{}
	}
	for k, v := range fields {
		m.data[key][k] = v
	}
	return nil
}

func (m *mockHashStore) HGet(_ context.Context, key, field string) ([]byte, error) {
	v, ok := m.data[key][field]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return []byte(v), nil
}

func (m *mockHashStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	out := map[string]string{}
	for k, v := range m.data[key] {
		out[k] = v
	}
	return out, nil
}

func TestSaveAndList(t *testing.T) {
	ms := newMockHashStore()
	s := New(ms, zap.NewNop())
	ctx := context.Background()

	docs := []domain.Document{
		{ID: "c2", Text: "second post", MediaType: domain.MediaText},
		{ID: "c1", Text: "first post", MediaType: domain.MediaText, Embedding: []float32{0.1, 0.2}},
	}
	for i := range docs {
		if err := s.SaveDocument(ctx, "p1", &docs[i]); err != nil {
			t.Fatalf("SaveDocument: %v", err)
		}
	}

	got, err := s.ListByProject(ctx, "p1")
	if err != nil {
		t.Fatalf("ListByProject: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(got))
	}
	// Ordered by id for deterministic ranking.
	if got[0].ID != "c1" || got[1].ID != "c2" {
		t.Errorf("unexpected order: %s, %s", got[0].ID, got[1].ID)
	}
	if !got[0].HasEmbedding() {
		t.Error("expected c1 embedding to round-trip")
	}
}

func TestListByProject_Empty(t *testing.T) {
	s := New(newMockHashStore(), zap.NewNop())

	got, err := s.ListByProject(context.Background(), "new-project")
	if err != nil {
		t.Fatalf("empty project must not error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no documents, got %d", len(got))
	}
}

func TestListByProject_SkipsCorruptRecords(t *testing.T) {
	ms := newMockHashStore()
	_ = ms.HSet(context.Background(), contentKey("p1"), map[string]string{
		"bad":  "{not json",
		"good": `{"text":"ok","media_type":"text"}`,
	})
	s := New(ms, zap.NewNop())

	got, err := s.ListByProject(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "good" {
		t.Fatalf("expected only the good record, got %v", got)
	}
}

func TestSaveEmbedding(t *testing.T) {
	ms := newMockHashStore()
	s := New(ms, zap.NewNop())
	ctx := context.Background()

	doc := domain.Document{ID: "c1", Text: "post", MediaType: domain.MediaText}
	if err := s.SaveDocument(ctx, "p1", &doc); err != nil {
		t.Fatalf("SaveDocument: %v", err)
	}

	if err := s.SaveEmbedding(ctx, "p1", "c1", []float32{0.5, 0.6}); err != nil {
		t.Fatalf("SaveEmbedding: %v", err)
	}

	got, _ := s.ListByProject(ctx, "p1")
	if len(got) != 1 || len(got[0].Embedding) != 2 {
		t.Fatalf("expected persisted embedding, got %v", got)
	}
	if got[0].Text != "post" {
		t.Error("embedding write-back must preserve the document text")
	}
}

func TestSaveEmbedding_MissingDocument(t *testing.T) {
	s := New(newMockHashStore(), zap.NewNop())

	if err := s.SaveEmbedding(context.Background(), "p1", "ghost", []float32{0.1}); err != nil {
		t.Fatalf("missing document must not error: %v", err)
	}
}
