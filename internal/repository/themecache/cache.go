package themecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/atelier-cloud/brandgen/internal/db"
	"github.com/atelier-cloud/brandgen/internal/domain"
)

const themeKeyPrefix = "brandgen:theme_analysis:"

// analysisDTO is the persisted form of a theme analysis.
type analysisDTO struct {
	ThemeID     string    `json:"theme_id"`
	Fingerprint string    `json:"fingerprint"`
	Embedding   []float32 `json:"embedding"`
	References  []string  `json:"references"`
	ComputedAt  int64     `json:"computed_at"` // unix millis
}

// kvStore is the consumer interface for the theme analysis cache (ISP).
type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Cache persists derived theme analyses keyed by theme id.
type Cache struct {
	store  kvStore
	logger *zap.Logger
}

// New creates a theme analysis cache.
func New(store kvStore, logger *zap.Logger) *Cache {
	return &Cache{store: store, logger: logger}
}

// Get returns the cached analysis for a theme, or nil when none exists.
// Storage failures degrade to a miss: recomputing an analysis is cheaper
// than failing a generation request.
func (c *Cache) Get(ctx context.Context, themeID string) *domain.ThemeAnalysis {
	data, err := c.store.Get(ctx, themeKey(themeID))
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to load theme analysis", zap.String("theme_id", themeID), zap.Error(err))
		}
		return nil
	}

	var dto analysisDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		c.logger.Warn("Failed to parse cached theme analysis", zap.String("theme_id", themeID), zap.Error(err))
		return nil
	}
	return &domain.ThemeAnalysis{
		ThemeID:     dto.ThemeID,
		Fingerprint: dto.Fingerprint,
		Embedding:   dto.Embedding,
		References:  dto.References,
		ComputedAt:  dto.ComputedAt,
	}
}

// Put stores a freshly computed analysis.
func (c *Cache) Put(ctx context.Context, analysis *domain.ThemeAnalysis) error {
	if analysis.ComputedAt == 0 {
		analysis.ComputedAt = time.Now().UnixMilli()
	}
	data, err := json.Marshal(analysisDTO{
		ThemeID:     analysis.ThemeID,
		Fingerprint: analysis.Fingerprint,
		Embedding:   analysis.Embedding,
		References:  analysis.References,
		ComputedAt:  analysis.ComputedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal theme analysis: %w", err)
	}
	if err := c.store.Set(ctx, themeKey(analysis.ThemeID), data); err != nil {
		return fmt.Errorf("store theme analysis %s: %w", analysis.ThemeID, err)
	}
	return nil
}

func themeKey(themeID string) string {
	return themeKeyPrefix + themeID
}
