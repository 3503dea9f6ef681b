package model

// EvaluationExport is the top-level JSON structure for history export.
type EvaluationExport struct {
	ExportedAt  string             `json:"exported_at"`
	Count       int                `json:"count"`
	Evaluations []EvaluationRecord `json:"evaluations"`
}
