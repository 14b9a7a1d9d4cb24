package internal

import (
	"errors"
	"time"
)

var ErrIssuesFound = errors.New("potential secrets found")

// Finding is one reported candidate secret, in the wire shape consumers
// expect: `commit` carries the commit message, `commitHash` the identifier.
type Finding struct {
	Date         string   `json:"date"`
	Branch       string   `json:"branch"`
	Commit       string   `json:"commit"`
	CommitHash   string   `json:"commitHash"`
	Path         string   `json:"path"`
	Reason       string   `json:"reason"`
	Diff         string   `json:"diff"`
	StringsFound []string `json:"stringsFound"`
	PrintDiff    string   `json:"printDiff"`
}

// Report summarizes one scan invocation.
type Report struct {
	FoundIssues []string `json:"foundIssues"`
	ProjectPath string   `json:"project_path"`
	CloneURI    string   `json:"clone_uri"`

	Findings []Finding `json:"-"`
}

func (r *Report) HasFindings() bool {
	return len(r.Findings) > 0
}

// CommitInfo is the provenance stamped onto every Finding a commit produces.
type CommitInfo struct {
	Hash    string
	Message string
	Branch  string
	When    time.Time
}

const dateLayout = "2006-01-02 15:04:05"

func (c CommitInfo) DateString() string {
	return c.When.Format(dateLayout)
}
