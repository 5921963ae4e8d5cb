package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Theme describes the brand identity a piece of content must align with.
type Theme struct {
	ID           string
	Name         string
	Tags         []string
	Inspirations []string
	Description  string
}

// Project carries the business context a theme belongs to.
type Project struct {
	ID           string
	Name         string
	Goals        []string
	CustomerType string
}

// AnchorText builds the retrieval similarity anchor from theme name and tags.
func (t *Theme) AnchorText() string {
	parts := make([]string, 0, 1+len(t.Tags))
	if t.Name != "" {
		parts = append(parts, t.Name)
	}
	parts = append(parts, t.Tags...)
	return strings.Join(parts, " ")
}

// Fingerprint returns a stable hash of the theme metadata. The retrieval
// orchestrator compares fingerprints to decide whether a cached theme
// analysis is still valid.
func (t *Theme) Fingerprint() string {
	h := sha256.New()
	for _, s := range append([]string{t.ID, t.Name, t.Description}, append(t.Tags, t.Inspirations...)...) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ThemeAnalysis is the derived analysis of a theme: the anchor embedding and
// brand reference texts, tied to the metadata fingerprint they were computed
// from. It is an explicit cache value, never a mutation of the theme itself.
type ThemeAnalysis struct {
	ThemeID     string
	Fingerprint string
	Embedding   []float32
	References  []string
	ComputedAt  int64
}

// BrandReferences assembles the reference strings brand consistency is
// measured against: theme name+tags, each inspiration, the description, each
// project goal, and the target customer type. Empty fields are skipped, so an
// empty theme yields zero references.
func BrandReferences(theme *Theme, project *Project) []string {
	var refs []string
	if anchor := theme.AnchorText(); anchor != "" {
		refs = append(refs, anchor)
	}
	for _, insp := range theme.Inspirations {
		if insp != "" {
			refs = append(refs, insp)
		}
	}
	if theme.Description != "" {
		refs = append(refs, theme.Description)
	}
	if project != nil {
		for _, goal := range project.Goals {
			if goal != "" {
				refs = append(refs, goal)
			}
		}
		if project.CustomerType != "" {
			refs = append(refs, project.CustomerType)
		}
	}
	return refs
}
