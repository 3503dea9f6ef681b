// Package keyword scores free-text answers by keyword coverage. It backs
// the non-MCQ path of the evaluate-answer endpoint: the caller supplies
// the key points a good answer must mention and the student's text, and
// gets back the same standardized result shape the MCQ adapter produces.
package keyword

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/gradeassist/gradeassist/internal/model"
)

// normalize lowercases, drops punctuation and collapses whitespace so
// that "photo-synthesis," matches "photosynthesis".
func normalize(s string) string {
	out := make([]rune, 0, len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsPunct(r):
			// skip
		default:
			if space && len(out) > 0 {
				out = append(out, ' ')
			}
			space = false
			out = append(out, unicode.ToLower(r))
		}
	}
	return string(out)
}

// Match splits keywords into those present in the answer and those
// absent. Matching is substring containment over normalized text; empty
// keywords are ignored.
func Match(keywords []string, answer string) (covered, missing []string) {
	norm := normalize(answer)
	for _, k := range keywords {
		if strings.TrimSpace(k) == "" {
			continue
		}
		if strings.Contains(norm, normalize(k)) {
			covered = append(covered, k)
		} else {
			missing = append(missing, k)
		}
	}
	return covered, missing
}

// label uses the adapter's threshold set; keyword scoring feeds the same
// application result shape.
func label(pct int) string {
	switch {
	case pct >= 85:
		return model.PerformanceExcellent
	case pct >= 70:
		return model.PerformanceGood
	case pct >= 50:
		return model.PerformanceAverage
	default:
		return model.PerformancePoor
	}
}

// Evaluate scores an answer by the fraction of keywords it covers.
// Marks are that fraction of totalMarks (rounded half up); totalMarks <= 0
// means the raw hit count. No keywords yields zero marks, never an error.
func Evaluate(keywords []string, answer string, totalMarks int) model.EvaluationResult {
	covered, missing := Match(keywords, answer)
	total := len(covered) + len(missing)

	pct := 0
	if total > 0 {
		pct = int(math.Round(float64(len(covered)) / float64(total) * 100))
	}

	marks := len(covered)
	if totalMarks > 0 {
		marks = 0
		if total > 0 {
			marks = int(math.Round(float64(len(covered)) / float64(total) * float64(totalMarks)))
		}
	}

	out := model.EvaluationResult{
		MarksAwarded:     marks,
		PerformanceLabel: label(pct),
		KeyPointsCovered: covered,
		KeyPointsMissing: missing,
		EvaluationReason: fmt.Sprintf("Your answer covered %d of %d key points.", len(covered), total),
	}

	switch {
	case total > 0 && len(missing) == 0:
		out.FeedbackSummary = []string{"Your answer covers all the key points. Great job!"}
	case len(covered) > 0:
		out.FeedbackSummary = append(out.FeedbackSummary,
			fmt.Sprintf("Your answer covered %d of %d key points.", len(covered), total))
		out.FeedbackSummary = append(out.FeedbackSummary, "Consider addressing: "+strings.Join(missing, ", "))
	default:
		out.FeedbackSummary = []string{"Your answer did not mention any of the expected key points."}
	}

	return out
}
