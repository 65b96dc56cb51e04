package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/studyhub-ai/courserank/internal/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestCSVSource_Load(t *testing.T) {
	path := writeFile(t, "courses.csv",
		"Name,University,Link,Category,About,Course Description\n"+
			"Intro to Python,MIT,https://example.org/1,Programming,Learn Python,A First Course\n"+
			"Biology 101,Harvard,https://example.org/2,Science,Cells And Life,Basic Biology\n")

	src := NewCSVSource(path, zap.NewNop())
	courses, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("loaded %d courses, want 2", len(courses))
	}
	if courses[0].Name() != "intro to python" {
		t.Errorf("name = %q, want lower-cased", courses[0].Name())
	}
	if courses[0].University() != "MIT" {
		t.Errorf("university = %q, want MIT", courses[0].University())
	}
	if courses[1].CombinedText() != "biology 101 cells and life basic biology" {
		t.Errorf("combined text = %q", courses[1].CombinedText())
	}
}

func TestCSVSource_MissingFile(t *testing.T) {
	src := NewCSVSource(filepath.Join(t.TempDir(), "nope.csv"), zap.NewNop())
	_, err := src.Load(context.Background())
	if !errors.Is(err, domain.ErrDataNotFound) {
		t.Errorf("error = %v, want ErrDataNotFound", err)
	}
}

func TestCSVSource_RaggedAndMissingColumns(t *testing.T) {
	// No About column, and the second data row is short: both become "".
	path := writeFile(t, "courses.csv",
		"Name,University,Course Description\n"+
			"Course A,U1,Desc A\n"+
			"Course B\n")

	src := NewCSVSource(path, zap.NewNop())
	courses, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("loaded %d courses, want 2", len(courses))
	}
	if courses[0].About() != "" {
		t.Errorf("absent column should yield empty about, got %q", courses[0].About())
	}
	if courses[1].Description() != "" || courses[1].University() != "" {
		t.Errorf("short row should yield empty cells, got %q / %q",
			courses[1].Description(), courses[1].University())
	}
}

func TestCSVSource_HeaderOnly(t *testing.T) {
	path := writeFile(t, "courses.csv", "Name,About,Course Description\n")
	src := NewCSVSource(path, zap.NewNop())
	courses, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(courses) != 0 {
		t.Errorf("loaded %d courses from header-only table, want 0", len(courses))
	}
}

func TestCSVSource_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := NewCSVSource("whatever.csv", zap.NewNop())
	if _, err := src.Load(ctx); err == nil {
		t.Error("expected error on canceled context")
	}
}

func TestLoadCases(t *testing.T) {
	path := writeFile(t, "cases.yaml",
		"- query: python basics\n"+
			"  relevant: [0, 1]\n"+
			"- query: organic chemistry\n"+
			"  relevant: []\n")

	cases, err := LoadCases(path)
	if err != nil {
		t.Fatalf("LoadCases: %v", err)
	}
	if len(cases) != 2 {
		t.Fatalf("loaded %d cases, want 2", len(cases))
	}
	if cases[0].Query() != "python basics" {
		t.Errorf("query = %q", cases[0].Query())
	}
	if got := cases[0].RelevantSet(); len(got) != 2 {
		t.Errorf("relevant set size = %d, want 2", len(got))
	}
	if len(cases[1].Relevant()) != 0 {
		t.Errorf("second case should have no relevant indices")
	}
}

func TestLoadCases_MissingFile(t *testing.T) {
	_, err := LoadCases(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, domain.ErrDataNotFound) {
		t.Errorf("error = %v, want ErrDataNotFound", err)
	}
}
