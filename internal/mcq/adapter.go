package mcq

import (
	"fmt"
	"math"

	"github.com/gradeassist/gradeassist/internal/model"
)

// performanceLabel classifies a percentage for EvaluationResult. The
// thresholds intentionally differ from the text report's (85 vs 90 for
// Excellent); the two call sites inherited different threshold sets and
// both are kept as documented.
func performanceLabel(pct int) string {
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

// ToEvaluationResult maps a ScoreResult into the application's
// standardized result shape. When totalMarks is positive, marks are the
// score scaled against it, rounded half up; otherwise marks are the raw
// correct count. A zero question total always yields zero marks.
func ToEvaluationResult(res ScoreResult, totalMarks int) model.EvaluationResult {
	out := model.EvaluationResult{
		MarksAwarded:     res.Score,
		PerformanceLabel: performanceLabel(Percentage(res)),
		EvaluationReason: fmt.Sprintf("You scored %d out of %d questions correctly.", res.Score, res.Total),
	}
	if totalMarks > 0 {
		if res.Total == 0 {
			out.MarksAwarded = 0
		} else {
			out.MarksAwarded = int(math.Round(float64(res.Score) / float64(res.Total) * float64(totalMarks)))
		}
	}

	var incorrect []string
	for _, id := range res.Results.QuestionIDs() {
		qr, _ := res.Results.Get(id)
		label := "Question " + id
		if qr.IsCorrect {
			out.KeyPointsCovered = append(out.KeyPointsCovered, label)
		} else {
			out.KeyPointsMissing = append(out.KeyPointsMissing, label)
			incorrect = append(incorrect, id)
		}
	}

	switch {
	case res.Total > 0 && res.Score == res.Total:
		out.FeedbackSummary = []string{"All answers are correct. Great job!"}
	case res.Score > 0:
		out.FeedbackSummary = append(out.FeedbackSummary,
			fmt.Sprintf("You answered %d out of %d questions correctly.", res.Score, res.Total))
		if len(incorrect) > 0 {
			out.FeedbackSummary = append(out.FeedbackSummary, "Review the following questions:")
			for _, id := range incorrect {
				qr, _ := res.Results.Get(id)
				out.FeedbackSummary = append(out.FeedbackSummary,
					fmt.Sprintf("Question %s: Correct answer is %s", id, qr.CorrectOption))
			}
		}
	default:
		out.FeedbackSummary = []string{"None of the answers are correct. Please review the material and try again."}
	}

	return out
}
