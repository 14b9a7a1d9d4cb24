package internal

import (
	"context"
	"fmt"
	"regexp"
)

// ScanOptions configures one scan invocation.
type ScanOptions struct {
	SinceCommit string
	MaxDepth    int
	Entropy     bool
	Patterns    bool
	// Rules replaces the built-in pattern rule set when non-nil. Only
	// consulted when Patterns is enabled.
	Rules      map[string]*regexp.Regexp
	ForceClone bool
	Persist    bool
	// OutputDir receives one JSON record per Finding when Persist is set.
	// Empty selects a temp directory.
	OutputDir string
	// Observe, if non-nil, is called for each Finding as it is produced.
	Observe func(Finding)
}

func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		MaxDepth: DefaultMaxDepth,
		Entropy:  true,
		Persist:  true,
	}
}

// ScanService runs full history scans end to end: acquire, walk, detect,
// persist, clean up.
type ScanService struct{}

func NewScanService() *ScanService {
	return &ScanService{}
}

// Scan traverses every branch of the repository at address and reports
// candidate secrets. Persistence failures are not fatal: the report is
// returned alongside the joined per-record errors.
func (s *ScanService) Scan(ctx context.Context, address string, opts ScanOptions) (*Report, error) {
	project, err := AcquireProject(ctx, address, opts.ForceClone)
	if err != nil {
		return nil, err
	}
	defer project.Cleanup()

	var detectors []Detector
	if opts.Entropy {
		detectors = append(detectors, NewEntropyDetector())
	}
	if opts.Patterns {
		detectors = append(detectors, NewPatternDetector(opts.Rules))
	}

	walker := NewWalker(project.Repo, NewPipeline(detectors...), opts.Observe)
	findings, err := walker.Walk(ctx, WalkOptions{
		MaxDepth:    opts.MaxDepth,
		SinceCommit: opts.SinceCommit,
	})
	if err != nil {
		return nil, fmt.Errorf("walk history: %w", err)
	}

	report := &Report{
		ProjectPath: project.Path,
		CloneURI:    address,
		Findings:    findings,
	}

	if !opts.Persist {
		return report, nil
	}

	sink, err := NewResultSink(opts.OutputDir)
	if err != nil {
		return report, err
	}
	paths, persistErr := sink.Persist(findings)
	report.FoundIssues = paths

	return report, persistErr
}
