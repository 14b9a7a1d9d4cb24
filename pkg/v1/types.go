package v1

import "github.com/4thel00z/trufflehunt/internal"

// Finding is one reported candidate secret.
type Finding = internal.Finding

// Report summarizes one scan.
type Report = internal.Report
