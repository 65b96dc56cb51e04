package domain

import "errors"

var (
	// ErrDataNotFound signals a missing or unreadable course dataset.
	ErrDataNotFound = errors.New("data not found")
	// ErrNotLoaded signals that Fit was called before any dataset was loaded.
	ErrNotLoaded = errors.New("dataset not loaded")
	// ErrNotFitted signals that Predict or Embed was called before Fit.
	ErrNotFitted = errors.New("recommender not fitted")
	// ErrCourseNotFound signals a course index outside the loaded corpus.
	ErrCourseNotFound = errors.New("course not found")
	// ErrArtifactNotFound signals a missing fitted-model snapshot.
	ErrArtifactNotFound = errors.New("artifact not found")
	// ErrInvalidSnapshot signals a snapshot that cannot be decoded.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
