package mcq

import (
	"regexp"
	"strings"
)

var (
	spacedPairRe   = regexp.MustCompile(`(\d+)\s+([A-D])`)
	adjacentPairRe = regexp.MustCompile(`(\d+)\s*([A-D])`)
	lineDigitsRe   = regexp.MustCompile(`\d+`)
	lineOptionRe   = regexp.MustCompile(`[A-D]`)
)

// strategy is one tier of the parsing cascade. It receives the uppercased
// input and returns its matches; an empty result means the tier failed and
// the next one should be tried.
type strategy func(text string) *AnswerMap

// The tiers run in order and the first one that finds anything wins,
// even if a later tier would have found more. This skip-on-success
// behavior is part of the parser's contract.
var strategies = []strategy{
	parseSpacedPairs,
	parseAdjacentPairs,
	parseLinePairs,
}

// Parse converts free-form answer text into an AnswerMap. Option letters
// are case-insensitive on input and uppercase in the result. Unparseable
// input yields an empty map, never an error.
func Parse(text string) *AnswerMap {
	if strings.TrimSpace(text) == "" {
		return NewAnswerMap()
	}
	upper := strings.ToUpper(text)
	for _, parse := range strategies {
		if m := parse(upper); m.Len() > 0 {
			return m
		}
	}
	return NewAnswerMap()
}

// parseSpacedPairs matches "digits, whitespace, option letter" pairs in
// scan order. A repeated question id keeps the last option seen.
func parseSpacedPairs(text string) *AnswerMap {
	return parsePairs(text, spacedPairRe)
}

// parseAdjacentPairs matches pairs with or without separating whitespace,
// so "1A2B" parses. It necessarily also matches everything tier 1 does.
func parseAdjacentPairs(text string) *AnswerMap {
	return parsePairs(text, adjacentPairRe)
}

func parsePairs(text string, re *regexp.Regexp) *AnswerMap {
	m := NewAnswerMap()
	for _, match := range re.FindAllStringSubmatch(text, -1) {
		m.Set(match[1], match[2])
	}
	return m
}

// parseLinePairs handles one-answer-per-line layouts. For each non-blank
// line the first digit run is the question id and the first A-D letter is
// the option; they need not be adjacent. Lines missing either part are
// skipped. Only runs when the text actually has lines.
func parseLinePairs(text string) *AnswerMap {
	m := NewAnswerMap()
	if !strings.Contains(text, "\n") {
		return m
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		id := lineDigitsRe.FindString(line)
		opt := lineOptionRe.FindString(line)
		if id == "" || opt == "" {
			continue
		}
		m.Set(id, opt)
	}
	return m
}
