package mcq

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestEvaluateAllCorrect(t *testing.T) {
	res := Evaluate("1A 2B 3C 4D", "1 a 2 b 3 c 4 d")
	if res.Score != 4 || res.Total != 4 {
		t.Fatalf("expected 4/4, got %d/%d", res.Score, res.Total)
	}
	for _, id := range res.Results.QuestionIDs() {
		qr, _ := res.Results.Get(id)
		if !qr.IsCorrect {
			t.Errorf("question %s should be correct", id)
		}
		if qr.StudentOption == nil || *qr.StudentOption != qr.CorrectOption {
			t.Errorf("question %s student option mismatch", id)
		}
	}
}

func TestEvaluatePartial(t *testing.T) {
	res := Evaluate("1A 2B 3C 4D", "1A 2C")
	if res.Score != 1 || res.Total != 4 {
		t.Fatalf("expected 1/4, got %d/%d", res.Score, res.Total)
	}

	q2, _ := res.Results.Get("2")
	if q2.IsCorrect {
		t.Error("question 2 should be incorrect")
	}
	if q2.StudentOption == nil || *q2.StudentOption != "C" {
		t.Error("question 2 should record the student's C")
	}

	q3, _ := res.Results.Get("3")
	if q3.StudentOption != nil {
		t.Error("question 3 is unanswered, student option must be nil")
	}
	if q3.IsCorrect {
		t.Error("unanswered question must be incorrect")
	}
}

func TestEvaluateIdenticalTexts(t *testing.T) {
	for _, text := range []string{"1 A", "1A 2B 3C", "Q 1 -> B\nQ 2 -> D"} {
		res := Evaluate(text, text)
		if res.Total == 0 {
			t.Fatalf("fixture %q should parse", text)
		}
		if res.Score != res.Total {
			t.Errorf("Evaluate(%q, same) = %d/%d, want full score", text, res.Score, res.Total)
		}
	}
}

func TestEvaluateCaseInsensitive(t *testing.T) {
	res := Evaluate("1A", "1a")
	if res.Score != 1 || res.Total != 1 {
		t.Errorf("expected 1/1, got %d/%d", res.Score, res.Total)
	}
}

func TestEvaluateEmptyStudent(t *testing.T) {
	res := Evaluate("1 A 2 B 3 C", "")
	if res.Score != 0 || res.Total != 3 {
		t.Fatalf("expected 0/3, got %d/%d", res.Score, res.Total)
	}
	for _, id := range res.Results.QuestionIDs() {
		qr, _ := res.Results.Get(id)
		if qr.StudentOption != nil {
			t.Errorf("question %s should have nil student option", id)
		}
	}
}

func TestEvaluateEmptyModel(t *testing.T) {
	for _, res := range []ScoreResult{
		Evaluate("", ""),
		Evaluate("", "1 A 2 B"),
		Evaluate("no answers here", "1 A"),
	} {
		if res.Score != 0 || res.Total != 0 || res.Results.Len() != 0 {
			t.Errorf("degenerate result should be 0/0 with no entries, got %d/%d (%d entries)",
				res.Score, res.Total, res.Results.Len())
		}
	}
}

func TestEvaluateStudentOnlyQuestionsIgnored(t *testing.T) {
	res := Evaluate("1 A", "1 A 2 B 3 C")
	if res.Total != 1 {
		t.Errorf("total must come from the model key, got %d", res.Total)
	}
	if _, ok := res.Results.Get("2"); ok {
		t.Error("student-only questions must not appear in results")
	}
}

func TestEvaluateScoreMatchesPerQuestion(t *testing.T) {
	res := Evaluate("1 A 2 B 3 C 4 D 5 A", "1 A 2 C 4 D 5 B")
	count := 0
	for _, id := range res.Results.QuestionIDs() {
		if qr, _ := res.Results.Get(id); qr.IsCorrect {
			count++
		}
	}
	if res.Score != count {
		t.Errorf("score %d does not match %d correct entries", res.Score, count)
	}
	if res.Score < 0 || res.Score > res.Total {
		t.Errorf("score %d outside [0,%d]", res.Score, res.Total)
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	a := Evaluate("1 A 2 B 3 C", "2 B 3 D")
	b := Evaluate("1 A 2 B 3 C", "2 B 3 D")
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	if string(ja) != string(jb) {
		t.Errorf("repeated evaluation differs:\n%s\n%s", ja, jb)
	}
}

func TestEvaluateSingle(t *testing.T) {
	tests := []struct {
		name     string
		model    string
		student  string
		score    int
		answered bool
	}{
		{"exact match", "B", "B", 1, true},
		{"case fold", "b", " B ", 1, true},
		{"mismatch", "A", "C", 0, true},
		{"unanswered", "A", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := EvaluateSingle(tt.model, tt.student)
			if res.Total != 1 {
				t.Fatalf("total = %d, want 1", res.Total)
			}
			if res.Score != tt.score {
				t.Errorf("score = %d, want %d", res.Score, tt.score)
			}
			qr, ok := res.Results.Get("1")
			if !ok {
				t.Fatal("missing question 1")
			}
			if (qr.StudentOption != nil) != tt.answered {
				t.Errorf("answered = %v, want %v", qr.StudentOption != nil, tt.answered)
			}
		})
	}
}

func TestResultSetJSONOrder(t *testing.T) {
	res := Evaluate("3 C 1 A 2 B", "3 C")
	data, err := json.Marshal(res.Results)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	i3 := strings.Index(s, `"3"`)
	i1 := strings.Index(s, `"1"`)
	i2 := strings.Index(s, `"2"`)
	if i3 < 0 || i1 < 0 || i2 < 0 || !(i3 < i1 && i1 < i2) {
		t.Errorf("JSON keys not in parse order: %s", s)
	}

	// And it must still be a decodable object.
	var decoded map[string]QuestionResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(decoded["3"].CorrectOption, "C") {
		t.Errorf("decoded[3] = %+v", decoded["3"])
	}
}
