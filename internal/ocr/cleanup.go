package ocr

import (
	"regexp"
	"strings"
)

var (
	pageNumberRe  = regexp.MustCompile(`(?i)^\s*(page\s+\d+|-\s*\d+\s*-|\d+\s*/\s*\d+)\s*$`)
	questionTagRe = regexp.MustCompile(`(?i)\bq(?:uestion)?\s*\.?\s*(\d+)`)
	pairMarkerRe  = regexp.MustCompile(`(\d+)\s*[).:\-]+\s*([A-Da-d])\b`)
	hyphenBreakRe = regexp.MustCompile(`(\pL)-\n(\pL)`)
	multiBlankRe  = regexp.MustCompile(`\n{3,}`)
	trailingWSRe  = regexp.MustCompile(`[ \t]+\n`)
)

// Cleanup applies document-type-specific heuristics to raw OCR text
// before it reaches the answer parser or the question workflows. It is
// best effort; unrecognized text passes through mostly untouched.
func Cleanup(text string, doc DocType) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = stripControlChars(text)
	text = trailingWSRe.ReplaceAllString(text, "\n")
	text = multiBlankRe.ReplaceAllString(text, "\n\n")

	switch doc {
	case DocQuestionPaper:
		text = dropPageNumberLines(text)
		text = hyphenBreakRe.ReplaceAllString(text, "$1$2")
	case DocModelAnswer, DocStudentAnswer:
		text = dropPageNumberLines(text)
		// "Q1)" or "Question 3:" becomes a bare number so the pair
		// tiers of the parser can see it.
		text = questionTagRe.ReplaceAllString(text, "$1")
		// "1) A", "2. b", "3: C" become "1 A" pair form.
		text = pairMarkerRe.ReplaceAllString(text, "$1 $2")
	}

	return strings.TrimSpace(text)
}

func stripControlChars(text string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, text)
}

func dropPageNumberLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if pageNumberRe.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
