package domain

import "errors"

var (
	// ErrInvalidPrompt signals an empty or non-text prompt.
	ErrInvalidPrompt = errors.New("invalid prompt")
	// ErrThemeNotFound signals a missing theme analysis entry.
	ErrThemeNotFound = errors.New("theme not found")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGenerationProviderError signals a generative provider failure.
	ErrGenerationProviderError = errors.New("generation provider error")
	// ErrAllVariantsFailed signals that every requested variant was lost to generation or scoring failures.
	ErrAllVariantsFailed = errors.New("all variants failed")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
)
