package mcq

import (
	"bytes"
	"encoding/json"
	"strings"
)

// QuestionResult is the outcome for a single model-key question.
// StudentOption is nil when the student left the question unanswered.
type QuestionResult struct {
	CorrectOption string  `json:"correctOption"`
	StudentOption *string `json:"studentOption"`
	IsCorrect     bool    `json:"isCorrect"`
}

// ResultSet maps question ids to their results, preserving the model
// AnswerMap's iteration order.
type ResultSet struct {
	order []string
	byID  map[string]QuestionResult
}

func newResultSet() *ResultSet {
	return &ResultSet{byID: make(map[string]QuestionResult)}
}

func (rs *ResultSet) add(id string, qr QuestionResult) {
	if _, ok := rs.byID[id]; !ok {
		rs.order = append(rs.order, id)
	}
	rs.byID[id] = qr
}

// Get returns the result for a question id.
func (rs *ResultSet) Get(id string) (QuestionResult, bool) {
	qr, ok := rs.byID[id]
	return qr, ok
}

// Len returns the number of questions.
func (rs *ResultSet) Len() int {
	return len(rs.order)
}

// QuestionIDs returns the question ids in the model key's parse order.
func (rs *ResultSet) QuestionIDs() []string {
	ids := make([]string, len(rs.order))
	copy(ids, rs.order)
	return ids
}

// MarshalJSON renders the set as a JSON object keyed by question id,
// keeping the parse order of the keys.
func (rs *ResultSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range rs.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(rs.byID[id])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ScoreResult aggregates per-question comparisons. Total is always the
// size of the model AnswerMap; questions only the student answered are
// ignored entirely.
type ScoreResult struct {
	Score   int        `json:"score"`
	Total   int        `json:"total"`
	Results *ResultSet `json:"results"`
}

// Evaluate parses both texts and compares the student's options against
// the model key. It never fails: empty or unparseable input degrades to
// a zero score over however many model questions were found.
func Evaluate(modelText, studentText string) ScoreResult {
	modelMap := Parse(modelText)
	studentMap := Parse(studentText)

	res := ScoreResult{Total: modelMap.Len(), Results: newResultSet()}
	for _, id := range modelMap.QuestionIDs() {
		correct, _ := modelMap.Get(id)
		qr := QuestionResult{CorrectOption: correct}
		if opt, ok := studentMap.Get(id); ok {
			qr.StudentOption = &opt
			qr.IsCorrect = opt == correct
		}
		if qr.IsCorrect {
			res.Score++
		}
		res.Results.add(id, qr)
	}
	return res
}

// EvaluateSingle compares one free-standing option pair, the degenerate
// single-question case used when a model answer is just one letter.
// Comparison is an exact match after trimming and uppercasing; an empty
// student answer counts as unanswered.
func EvaluateSingle(modelOption, studentOption string) ScoreResult {
	model := strings.ToUpper(strings.TrimSpace(modelOption))
	student := strings.ToUpper(strings.TrimSpace(studentOption))

	res := ScoreResult{Total: 1, Results: newResultSet()}
	qr := QuestionResult{CorrectOption: model}
	if student != "" {
		qr.StudentOption = &student
		qr.IsCorrect = student == model
	}
	if qr.IsCorrect {
		res.Score = 1
	}
	res.Results.add("1", qr)
	return res
}
