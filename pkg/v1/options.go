package v1

// Option configures a scan.
type Option func(*scanConfig)

type scanConfig struct {
	sinceCommit string
	maxDepth    int
	entropy     bool
	patterns    bool
	rulesFile   string
	forceClone  bool
	persist     bool
	outputDir   string
	observe     func(Finding)
}

// WithSinceCommit skips detection for the given commit and everything older.
func WithSinceCommit(hash string) Option {
	return func(c *scanConfig) {
		c.sinceCommit = hash
	}
}

// WithMaxDepth bounds how far back each branch is walked.
func WithMaxDepth(depth int) Option {
	return func(c *scanConfig) {
		c.maxDepth = depth
	}
}

// WithPatternChecks enables the regex rule detector.
func WithPatternChecks() Option {
	return func(c *scanConfig) {
		c.patterns = true
	}
}

// WithoutEntropy disables the entropy detector.
func WithoutEntropy() Option {
	return func(c *scanConfig) {
		c.entropy = false
	}
}

// WithRulesFile replaces the built-in rules with the named file and enables
// pattern checks.
func WithRulesFile(path string) Option {
	return func(c *scanConfig) {
		c.rulesFile = path
		c.patterns = true
	}
}

// WithForceClone clones the repository even when it already exists on disk.
func WithForceClone() Option {
	return func(c *scanConfig) {
		c.forceClone = true
	}
}

// WithoutPersistence skips writing per-finding records.
func WithoutPersistence() Option {
	return func(c *scanConfig) {
		c.persist = false
	}
}

// WithOutputDir sets where per-finding records are written.
func WithOutputDir(dir string) Option {
	return func(c *scanConfig) {
		c.outputDir = dir
	}
}

// WithObserver streams findings as they are produced.
func WithObserver(fn func(Finding)) Option {
	return func(c *scanConfig) {
		c.observe = fn
	}
}
