package internal

// Detector finds candidate secrets in one file-level diff. Implementations
// must be pure: no I/O, no retained state between calls.
type Detector interface {
	Detect(unit DiffUnit) []Finding
}

// Pipeline runs an ordered set of enabled detectors over diff units and
// stamps every Finding with its commit provenance.
type Pipeline struct {
	detectors []Detector
}

func NewPipeline(detectors ...Detector) *Pipeline {
	return &Pipeline{detectors: detectors}
}

func (p *Pipeline) Run(unit DiffUnit, commit CommitInfo) []Finding {
	if unit.Binary {
		return nil
	}

	var findings []Finding
	for _, d := range p.detectors {
		findings = append(findings, d.Detect(unit)...)
	}

	for i := range findings {
		findings[i].Date = commit.DateString()
		findings[i].Branch = commit.Branch
		findings[i].Commit = commit.Message
		findings[i].CommitHash = commit.Hash
	}

	return findings
}
