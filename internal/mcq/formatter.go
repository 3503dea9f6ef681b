package mcq

import (
	"fmt"
	"math"
	"strings"
)

const reportWidth = 40

// Percentage returns the score as a whole percent of the total, rounded
// half up. A zero total yields 0.
func Percentage(res ScoreResult) int {
	if res.Total == 0 {
		return 0
	}
	return int(math.Round(float64(res.Score) / float64(res.Total) * 100))
}

// reportLabel classifies a percentage for the text report. The adapter
// uses its own, slightly different thresholds; see performanceLabel.
func reportLabel(pct int) string {
	switch {
	case pct >= 90:
		return "Excellent"
	case pct >= 70:
		return "Good"
	case pct >= 50:
		return "Average"
	default:
		return "Poor"
	}
}

// FormatResults renders a score as a fixed-layout plain-text report for
// terminal or log display. Questions appear in the model key's parse
// order, not numeric order.
func FormatResults(res ScoreResult) string {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", reportWidth))
	sb.WriteByte('\n')
	sb.WriteString("          MCQ Evaluation Report\n")
	sb.WriteString(strings.Repeat("=", reportWidth))
	sb.WriteByte('\n')

	for _, id := range res.Results.QuestionIDs() {
		qr, _ := res.Results.Get(id)
		mark := "✗"
		if qr.IsCorrect {
			mark = "✓"
		}
		student := "No answer"
		if qr.StudentOption != nil {
			student = *qr.StudentOption
		}
		fmt.Fprintf(&sb, "Question %s: %s | Model: %s | Student: %s\n",
			id, mark, qr.CorrectOption, student)
	}

	sb.WriteString(strings.Repeat("-", reportWidth))
	sb.WriteByte('\n')

	pct := Percentage(res)
	fmt.Fprintf(&sb, "Final Score: %d/%d (%d%%)\n", res.Score, res.Total, pct)
	fmt.Fprintf(&sb, "Performance: %s\n", reportLabel(pct))

	return sb.String()
}
