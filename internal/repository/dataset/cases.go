package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/studyhub-ai/courserank/internal/domain"
	"github.com/studyhub-ai/courserank/internal/domain/eval"
)

// caseDTO is the on-disk shape of one evaluation case.
type caseDTO struct {
	Query    string `yaml:"query"`
	Relevant []int  `yaml:"relevant"`
}

// LoadCases reads the labeled evaluation query set from a YAML file.
// A missing file yields an error wrapping domain.ErrDataNotFound.
func LoadCases(path string) ([]eval.Case, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open evaluation cases %s: %w", path, domain.ErrDataNotFound)
		}
		return nil, fmt.Errorf("open evaluation cases %s: %w", path, err)
	}

	var dtos []caseDTO
	if err := yaml.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("parse evaluation cases %s: %w", path, err)
	}

	cases := make([]eval.Case, 0, len(dtos))
	for _, d := range dtos {
		cases = append(cases, eval.NewCase(d.Query, d.Relevant))
	}
	return cases, nil
}
