package internal

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShannonEntropyEmpty(t *testing.T) {
	assert.Zero(t, shannonEntropy("", base64Chars))
	assert.Zero(t, shannonEntropy("", hexChars))
}

func TestShannonEntropyKnownStrings(t *testing.T) {
	assert.Greater(t, shannonEntropy(randomBase64, base64Chars), base64EntropyCutoff)
	assert.Greater(t, shannonEntropy(randomHex, hexChars), hexEntropyCutoff)
}

func TestShannonEntropyBounds(t *testing.T) {
	inputs := []string{"a", "abcabc", "deadbeef", randomBase64, randomHex, "================"}
	for _, in := range inputs {
		for _, alphabet := range []string{base64Chars, hexChars} {
			e := shannonEntropy(in, alphabet)
			assert.GreaterOrEqual(t, e, 0.0, "input %q", in)
			// A perfectly uniform input can land a few ulps above log2(n)
			// when the probability terms are summed in floating point.
			assert.LessOrEqual(t, e, math.Log2(float64(len(alphabet)))+1e-9, "input %q", in)
		}
	}
}

func TestShannonEntropyRepeatedChar(t *testing.T) {
	// A single repeated symbol is perfectly predictable.
	assert.Zero(t, shannonEntropy(strings.Repeat("a", 100), base64Chars))
}

func TestStringsOfSet(t *testing.T) {
	long := strings.Repeat("a", 25)
	word := "x!" + long + "!" + strings.Repeat("b", 5) + "!" + strings.Repeat("c", 21)

	runs := stringsOfSet(word, base64Chars, minRunLength)
	require.Len(t, runs, 2)
	assert.Equal(t, long, runs[0])
	assert.Equal(t, strings.Repeat("c", 21), runs[1])

	for _, run := range runs {
		assert.Greater(t, len(run), minRunLength)
	}

	// Concatenating the runs in order reconstructs a subsequence of the input.
	rest := word
	for _, run := range runs {
		i := strings.Index(rest, run)
		require.GreaterOrEqual(t, i, 0)
		rest = rest[i+len(run):]
	}
}

func TestStringsOfSetTrailingRun(t *testing.T) {
	word := "prefix!" + strings.Repeat("f", 30)
	runs := stringsOfSet(word, hexChars, minRunLength)
	require.Len(t, runs, 1)
	assert.Equal(t, strings.Repeat("f", 30), runs[0])
}

func TestStringsOfSetNothingQualifies(t *testing.T) {
	assert.Empty(t, stringsOfSet("short tokens only", base64Chars, minRunLength))
}

func TestEntropyDetectorFlagsSecret(t *testing.T) {
	unit := DiffUnit{
		PathNew: "config/secrets.env",
		Patch:   "+api_token: " + randomBase64 + "\n",
	}

	findings := NewEntropyDetector().Detect(unit)
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, ReasonHighEntropy, f.Reason)
	assert.Equal(t, "config/secrets.env", f.Path)
	assert.Equal(t, unit.Patch, f.Diff)
	assert.Contains(t, f.StringsFound, randomBase64)
	assert.Contains(t, f.PrintDiff, randomBase64)
}

func TestEntropyDetectorMergesBothAlphabets(t *testing.T) {
	unit := DiffUnit{
		PathNew: "creds.txt",
		Patch:   "+b64 " + randomBase64 + "\n+hex " + randomHex + "\n",
	}

	findings := NewEntropyDetector().Detect(unit)
	require.Len(t, findings, 1, "both alphabets must merge into one finding")
	assert.Contains(t, findings[0].StringsFound, randomBase64)
	assert.Contains(t, findings[0].StringsFound, randomHex)
}

func TestEntropyDetectorCleanInput(t *testing.T) {
	unit := DiffUnit{
		PathNew: "README.md",
		Patch:   "+just some ordinary prose, nothing to see here\n",
	}
	assert.Empty(t, NewEntropyDetector().Detect(unit))
}
