package v1

import (
	"context"

	"github.com/4thel00z/trufflehunt/internal"
)

// Scan walks the full history of the repository at address and returns the
// candidate secrets it finds. address may be a remote URL or a local path.
func Scan(ctx context.Context, address string, opts ...Option) (*Report, error) {
	cfg := scanConfig{
		maxDepth: internal.DefaultMaxDepth,
		entropy:  true,
		persist:  true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	scanOpts := internal.ScanOptions{
		SinceCommit: cfg.sinceCommit,
		MaxDepth:    cfg.maxDepth,
		Entropy:     cfg.entropy,
		Patterns:    cfg.patterns,
		ForceClone:  cfg.forceClone,
		Persist:     cfg.persist,
		OutputDir:   cfg.outputDir,
		Observe:     cfg.observe,
	}

	if cfg.rulesFile != "" {
		rules, err := internal.LoadRules(cfg.rulesFile)
		if err != nil {
			return nil, err
		}
		scanOpts.Rules = rules
	}

	return internal.NewScanService().Scan(ctx, address, scanOpts)
}
