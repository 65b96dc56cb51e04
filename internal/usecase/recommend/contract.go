package recommend

import (
	"context"

	"github.com/studyhub-ai/courserank/internal/domain/course"
)

// Recommender is the capability contract every concrete recommender
// implements: load a corpus, fit over it, predict for a query.
type Recommender interface {
	Load(ctx context.Context) error
	Fit(ctx context.Context) error
	Predict(ctx context.Context, query string, topK int) ([]Recommendation, error)
}

// DatasetSource loads the course corpus.
type DatasetSource interface {
	Load(ctx context.Context) ([]course.Course, error)
}

// ArtifactStore is the sink fitted-model snapshots are handed to. The engine
// treats the snapshot bytes as opaque; the store owns placement and naming.
type ArtifactStore interface {
	Save(ctx context.Context, name string, data []byte) error
	Load(ctx context.Context, name string) ([]byte, error)
}

// Embedder vectorizes text via an external embedding provider. Used by the
// embedding recommender variant only.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
