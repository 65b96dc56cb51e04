package recommend

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/studyhub-ai/courserank/internal/domain/course"
	"github.com/studyhub-ai/courserank/internal/usecase/vectorize"
)

// mockSource implements DatasetSource for tests.
type mockSource struct {
	courses []course.Course
	err     error
	calls   int
}

func (m *mockSource) Load(_ context.Context) ([]course.Course, error) {
	m.calls++
	return m.courses, m.err
}

// mockArtifactStore implements ArtifactStore in memory.
type mockArtifactStore struct {
	data    map[string][]byte
	saveErr error
	loadErr error
}

func newMockArtifactStore() *mockArtifactStore {
	return &mockArtifactStore{data: make(map[string][]byte)}
}

func (m *mockArtifactStore) Save(_ context.Context, name string, data []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[name] = data
	return nil
}

func (m *mockArtifactStore) Load(_ context.Context, name string) ([]byte, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.data[name], nil
}

// mockEmbedder implements Embedder with canned vectors per text.
type mockEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func threeCourses() []course.Course {
	return []course.Course{
		course.New("Intro to Python", "MIT", "https://example.org/1", "programming",
			"learn python from scratch", "python basics variables loops functions"),
		course.New("Advanced Python", "MIT", "https://example.org/2", "programming",
			"deep dive into python", "python generators metaclasses concurrency"),
		course.New("Biology 101", "Harvard", "https://example.org/3", "science",
			"cells and organisms", "cell structure dna evolution"),
	}
}

func fittedService(t *testing.T, courses []course.Course) *Service {
	t.Helper()
	svc := New(
		&mockSource{courses: courses},
		vectorize.New(vectorize.NewTokenizer(false)),
		zap.NewNop(),
	)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := svc.Fit(context.Background()); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	return svc
}
