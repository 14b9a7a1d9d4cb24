package internal

import (
	"math"
	"strings"
)

const (
	base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/="
	hexChars    = "1234567890abcdefABCDEF"

	base64EntropyCutoff = 4.5
	hexEntropyCutoff    = 3.0

	// Runs must be strictly longer than this to be scored.
	minRunLength = 20
)

const ReasonHighEntropy = "High Entropy"

// shannonEntropy computes -sum(p*log2(p)) for the characters of alphabet
// that occur in data. Empty input scores 0.
func shannonEntropy(data, alphabet string) float64 {
	if data == "" {
		return 0
	}

	var entropy float64
	length := float64(len(data))
	for _, ch := range alphabet {
		p := float64(strings.Count(data, string(ch))) / length
		if p > 0 {
			entropy -= p * math.Log2(p)
		}
	}
	return entropy
}

// stringsOfSet extracts the maximal contiguous runs of charset characters in
// word that are strictly longer than threshold.
func stringsOfSet(word, charset string, threshold int) []string {
	var (
		runs    []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > threshold {
			runs = append(runs, current.String())
		}
		current.Reset()
	}

	for _, ch := range word {
		if strings.ContainsRune(charset, ch) {
			current.WriteRune(ch)
		} else {
			flush()
		}
	}
	flush()

	return runs
}

// EntropyDetector flags high-entropy character runs in diff text. A single
// diff yields at most one Finding, carrying every flagged run from both the
// base64-like and hexadecimal alphabets.
type EntropyDetector struct{}

func NewEntropyDetector() *EntropyDetector {
	return &EntropyDetector{}
}

func (d *EntropyDetector) Detect(unit DiffUnit) []Finding {
	printable := unit.Patch
	var found []string

	for _, line := range strings.Split(unit.Patch, "\n") {
		for _, word := range strings.Fields(line) {
			for _, run := range stringsOfSet(word, base64Chars, minRunLength) {
				if shannonEntropy(run, base64Chars) > base64EntropyCutoff {
					found = append(found, run)
					printable = strings.ReplaceAll(printable, run, markSecret(run))
				}
			}
			for _, run := range stringsOfSet(word, hexChars, minRunLength) {
				if shannonEntropy(run, hexChars) > hexEntropyCutoff {
					found = append(found, run)
					printable = strings.ReplaceAll(printable, run, markSecret(run))
				}
			}
		}
	}

	if len(found) == 0 {
		return nil
	}

	return []Finding{{
		Reason:       ReasonHighEntropy,
		Path:         unit.Path(),
		Diff:         unit.Patch,
		StringsFound: found,
		PrintDiff:    printable,
	}}
}
