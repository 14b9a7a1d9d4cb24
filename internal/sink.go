package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ResultSink writes findings as independently addressable JSON records, one
// file per Finding, named by a fresh UUID.
type ResultSink struct {
	outputDir string
}

// NewResultSink prepares a sink writing into dir. An empty dir selects a
// fresh temp directory.
func NewResultSink(dir string) (*ResultSink, error) {
	if dir == "" {
		tmp, err := os.MkdirTemp("", "trufflehunt-results-*")
		if err != nil {
			return nil, fmt.Errorf("create results dir: %w", err)
		}
		dir = tmp
	} else if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create results dir: %w", err)
	}
	return &ResultSink{outputDir: dir}, nil
}

func (s *ResultSink) OutputDir() string {
	return s.outputDir
}

// Persist writes each Finding to its own record. Failures are isolated per
// record: the remaining findings are still written, the paths of the
// successful writes are returned, and the per-record errors come back joined.
func (s *ResultSink) Persist(findings []Finding) ([]string, error) {
	var (
		paths []string
		errs  []error
	)

	for _, f := range findings {
		path := filepath.Join(s.outputDir, uuid.NewString())

		data, err := json.Marshal(f)
		if err != nil {
			errs = append(errs, fmt.Errorf("marshal finding for %s: %w", f.Path, err))
			continue
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			errs = append(errs, fmt.Errorf("write finding record: %w", err))
			continue
		}

		paths = append(paths, path)
	}

	return paths, errors.Join(errs...)
}
