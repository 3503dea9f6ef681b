package store

import (
	"fmt"
	"time"

	"github.com/gradeassist/gradeassist/internal/model"
)

// ExportAllEvaluations builds an export document from the full history,
// newest first.
func (s *Store) ExportAllEvaluations() (model.EvaluationExport, error) {
	recs, err := s.ListEvaluations(0)
	if err != nil {
		return model.EvaluationExport{}, fmt.Errorf("list evaluations: %w", err)
	}
	return model.EvaluationExport{
		ExportedAt:  time.Now().UTC().Format(time.RFC3339),
		Count:       len(recs),
		Evaluations: recs,
	}, nil
}
