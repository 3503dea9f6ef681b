package mcq

import (
	"strconv"
	"strings"
)

// AnswerMap maps question-id strings to a single selected option letter
// (A-D, uppercase). Keys keep the insertion order of the parse that
// produced them, and keep their raw digit form: "01" and "1" are
// different questions.
type AnswerMap struct {
	order []string
	opts  map[string]string
}

// NewAnswerMap returns an empty AnswerMap.
func NewAnswerMap() *AnswerMap {
	return &AnswerMap{opts: make(map[string]string)}
}

// Set records an option for a question. A repeated id overwrites the
// option but keeps the id's original position.
func (m *AnswerMap) Set(id, option string) {
	if _, ok := m.opts[id]; !ok {
		m.order = append(m.order, id)
	}
	m.opts[id] = option
}

// Get returns the option for a question id.
func (m *AnswerMap) Get(id string) (string, bool) {
	opt, ok := m.opts[id]
	return opt, ok
}

// Len returns the number of questions.
func (m *AnswerMap) Len() int {
	return len(m.order)
}

// QuestionIDs returns the question ids in insertion order.
func (m *AnswerMap) QuestionIDs() []string {
	ids := make([]string, len(m.order))
	copy(ids, m.order)
	return ids
}

// String renders the map as tier-1 "id option" pairs, e.g. "1 A 2 B".
func (m *AnswerMap) String() string {
	var sb strings.Builder
	for i, id := range m.order {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(id)
		sb.WriteByte(' ')
		sb.WriteString(m.opts[id])
	}
	return sb.String()
}

// NormalizeQuestionIDs returns a copy of m with leading zeros stripped
// from numeric ids ("01" becomes "1"). When stripping makes two ids
// collide, the later one wins. This is an explicit pre-processing step;
// Parse never applies it.
func NormalizeQuestionIDs(m *AnswerMap) *AnswerMap {
	out := NewAnswerMap()
	for _, id := range m.order {
		norm := id
		if n, err := strconv.Atoi(id); err == nil {
			norm = strconv.Itoa(n)
		}
		out.Set(norm, m.opts[id])
	}
	return out
}
