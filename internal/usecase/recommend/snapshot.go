package recommend

import (
	"encoding/json"
	"fmt"

	"github.com/studyhub-ai/courserank/internal/domain"
	"github.com/studyhub-ai/courserank/internal/domain/course"
	"github.com/studyhub-ai/courserank/internal/usecase/vectorize"
)

const snapshotVersion = 1

// snapshot is the persisted form of a fitted engine. The format is opaque to
// callers; it only needs to round-trip fit output losslessly.
type snapshot struct {
	Version   int              `json:"version"`
	StopWords bool             `json:"stop_words"`
	Terms     []string         `json:"terms"`
	IDF       []float64        `json:"idf"`
	Cols      int              `json:"cols"`
	Rows      []snapshotRow    `json:"rows"`
	Courses   []snapshotCourse `json:"courses"`
}

type snapshotRow struct {
	Indices []int     `json:"i"`
	Values  []float64 `json:"v"`
}

type snapshotCourse struct {
	Name        string `json:"name"`
	University  string `json:"university"`
	Link        string `json:"link"`
	Category    string `json:"category"`
	About       string `json:"about"`
	Description string `json:"description"`
}

// Snapshot serializes the fitted vector space, document matrix, and course
// table. Fails with ErrNotFitted before Fit.
func (s *Service) Snapshot() ([]byte, error) {
	if !s.fitted {
		return nil, domain.ErrNotFitted
	}

	snap := snapshot{
		Version:   snapshotVersion,
		StopWords: s.vec.Tokenizer().StripsStopWords(),
		Terms:     s.space.Terms(),
		IDF:       s.space.IDF(),
		Cols:      s.matrix.Cols(),
		Rows:      make([]snapshotRow, s.matrix.Rows()),
		Courses:   make([]snapshotCourse, len(s.courses)),
	}
	for i := 0; i < s.matrix.Rows(); i++ {
		row := s.matrix.Row(i)
		snap.Rows[i] = snapshotRow{Indices: row.Indices(), Values: row.Values()}
	}
	for i, c := range s.courses {
		snap.Courses[i] = snapshotCourse{
			Name:        c.Name(),
			University:  c.University(),
			Link:        c.Link(),
			Category:    c.Category(),
			About:       c.About(),
			Description: c.Description(),
		}
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// RestoreSnapshot replaces the engine state with a previously serialized
// snapshot, including the tokenizer configuration it was fitted with.
func (s *Service) RestoreSnapshot(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w: %w", domain.ErrInvalidSnapshot, err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("snapshot version %d: %w", snap.Version, domain.ErrInvalidSnapshot)
	}
	if len(snap.Terms) != len(snap.IDF) {
		return fmt.Errorf("terms/idf length mismatch: %w", domain.ErrInvalidSnapshot)
	}

	rows := make([]vectorize.SparseVector, len(snap.Rows))
	for i, r := range snap.Rows {
		rows[i] = vectorize.NewSparse(r.Indices, r.Values)
	}
	courses := make([]course.Course, len(snap.Courses))
	for i, c := range snap.Courses {
		courses[i] = course.New(c.Name, c.University, c.Link, c.Category, c.About, c.Description)
	}

	s.vec = vectorize.New(vectorize.NewTokenizer(snap.StopWords))
	s.space = vectorize.ReconstructSpace(snap.Terms, snap.IDF)
	s.matrix = vectorize.ReconstructMatrix(rows, snap.Cols)
	s.courses = courses
	s.loaded = true
	s.fitted = true
	return nil
}
