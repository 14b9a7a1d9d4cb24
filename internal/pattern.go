package internal

import (
	"regexp"
	"sort"
	"strings"
)

// PatternDetector matches diff text against a named rule set. Each rule with
// at least one match produces exactly one Finding carrying every match.
type PatternDetector struct {
	rules map[string]*regexp.Regexp
}

// NewPatternDetector builds a detector over the given rules. A nil rule set
// selects the built-in defaults.
func NewPatternDetector(rules map[string]*regexp.Regexp) *PatternDetector {
	if rules == nil {
		rules = DefaultRules()
	}
	return &PatternDetector{rules: rules}
}

func (d *PatternDetector) Detect(unit DiffUnit) []Finding {
	names := make([]string, 0, len(d.rules))
	for name := range d.rules {
		names = append(names, name)
	}
	sort.Strings(names)

	var findings []Finding
	for _, name := range names {
		matches := d.rules[name].FindAllString(unit.Patch, -1)
		if len(matches) == 0 {
			continue
		}

		printable := unit.Patch
		for _, match := range matches {
			printable = strings.ReplaceAll(printable, match, markSecret(match))
		}

		findings = append(findings, Finding{
			Reason:       name,
			Path:         unit.Path(),
			Diff:         unit.Patch,
			StringsFound: matches,
			PrintDiff:    printable,
		})
	}

	return findings
}
