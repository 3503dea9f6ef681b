package mcq

import (
	"strings"
	"testing"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		name  string
		score int
		total int
		want  int
	}{
		{"zero total", 0, 0, 0},
		{"full", 4, 4, 100},
		{"quarter", 1, 4, 25},
		{"rounds half up", 1, 8, 13},   // 12.5
		{"rounds down", 1, 3, 33},      // 33.33
		{"rounds up", 2, 3, 67},        // 66.67
		{"five of six", 5, 6, 83},      // 83.33
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentage(ScoreResult{Score: tt.score, Total: tt.total, Results: newResultSet()})
			if got != tt.want {
				t.Errorf("Percentage(%d/%d) = %d, want %d", tt.score, tt.total, got, tt.want)
			}
		})
	}
}

func TestReportLabel(t *testing.T) {
	tests := []struct {
		pct  int
		want string
	}{
		{100, "Excellent"},
		{90, "Excellent"},
		{89, "Good"}, // 85-89 is Good here, unlike the adapter
		{85, "Good"},
		{70, "Good"},
		{69, "Average"},
		{50, "Average"},
		{49, "Poor"},
		{0, "Poor"},
	}

	for _, tt := range tests {
		if got := reportLabel(tt.pct); got != tt.want {
			t.Errorf("reportLabel(%d) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

func TestFormatResults(t *testing.T) {
	res := Evaluate("1 A 2 B 3 C 4 D", "1 A 2 C")
	out := FormatResults(res)

	wantLines := []string{
		"Question 1: ✓ | Model: A | Student: A",
		"Question 2: ✗ | Model: B | Student: C",
		"Question 3: ✗ | Model: C | Student: No answer",
		"Question 4: ✗ | Model: D | Student: No answer",
		"Final Score: 1/4 (25%)",
		"Performance: Poor",
	}
	for _, line := range wantLines {
		if !strings.Contains(out, line+"\n") {
			t.Errorf("report missing line %q:\n%s", line, out)
		}
	}

	// Question lines appear in parse order.
	if strings.Index(out, "Question 1:") > strings.Index(out, "Question 2:") {
		t.Error("questions out of order")
	}
}

func TestFormatResultsParseOrder(t *testing.T) {
	res := Evaluate("2 B 1 A", "2 B 1 A")
	out := FormatResults(res)
	if strings.Index(out, "Question 2:") > strings.Index(out, "Question 1:") {
		t.Errorf("report must keep the key's parse order:\n%s", out)
	}
	if !strings.Contains(out, "Final Score: 2/2 (100%)") {
		t.Errorf("unexpected score line:\n%s", out)
	}
	if !strings.Contains(out, "Performance: Excellent") {
		t.Errorf("expected Excellent label:\n%s", out)
	}
}

func TestFormatResultsEmpty(t *testing.T) {
	out := FormatResults(Evaluate("", ""))
	if !strings.Contains(out, "Final Score: 0/0 (0%)") {
		t.Errorf("empty result should render 0/0 (0%%):\n%s", out)
	}
	if !strings.Contains(out, "Performance: Poor") {
		t.Errorf("empty result should be Poor:\n%s", out)
	}
}
