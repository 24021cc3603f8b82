package summary

import (
	"regexp"
	"strings"
)

// LineKind tags the outcome of parsing one summary line.
type LineKind int

const (
	LineSkipped LineKind = iota
	LineRow
)

// LineResult is the parse outcome of a single line: either a Row or a
// skipped line with the reason it was dropped.
type LineResult struct {
	Kind   LineKind
	Row    Row
	Reason string
}

var columnGap = regexp.MustCompile(`\s{2,}`)

// ParseLine splits a summary line on runs of two or more whitespace characters.
// Only lines with exactly three columns (label, average, cumulative) produce a
// row; the label is left as the raw metric name.
func ParseLine(line string) LineResult {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return LineResult{Kind: LineSkipped, Reason: "blank line"}
	}

	parts := columnGap.Split(trimmed, -1)
	if len(parts) != 3 {
		return LineResult{Kind: LineSkipped, Reason: "expected 3 columns"}
	}

	return LineResult{
		Kind: LineRow,
		Row: Row{
			Label:      parts[0],
			Average:    parts[1],
			Cumulative: parts[2],
		},
	}
}

var pValuePattern = regexp.MustCompile(`p:\s+([0-9.]+)`)

const pValueMarker = "posterior tail-area probability p:"

// findPValue returns the raw decimal following the tail-area probability
// marker, if any line carries one.
func findPValue(lines []string) (string, bool) {
	for _, line := range lines {
		if !strings.Contains(strings.ToLower(line), pValueMarker) {
			continue
		}

		if m := pValuePattern.FindStringSubmatch(line); m != nil {
			return m[1], true
		}
	}

	return "", false
}
