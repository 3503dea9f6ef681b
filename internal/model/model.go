package model

import (
	"context"
	"time"
)

// UserRole represents a user's access level.
type UserRole string

const (
	// UserRoleTeacher is a teacher user role.
	UserRoleTeacher UserRole = "teacher"
	// UserRoleAdmin is an admin user role.
	UserRoleAdmin UserRole = "admin"
)

// User represents a system user.
type User struct {
	ID           int64
	Username     string
	DisplayName  string
	PasswordHash string
	Role         UserRole
	Active       bool
	CreatedAt    time.Time
}

// AuthSession represents an authentication token session.
type AuthSession struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

type userCtxKey struct{}

// ContextWithUser stores a user in the request context.
func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext retrieves the authenticated user from context, or nil.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userCtxKey{}).(*User)
	return u
}

// Performance labels, coarsest to finest.
const (
	PerformancePoor      = "Poor"
	PerformanceAverage   = "Average"
	PerformanceGood      = "Good"
	PerformanceExcellent = "Excellent"
)

// EvaluationResult is the standardized result shape shared with the rest
// of the application (the browser UI and history views). It is built once
// per evaluation and never mutated.
type EvaluationResult struct {
	MarksAwarded     int      `json:"marksAwarded"`
	PerformanceLabel string   `json:"performanceLabel"`
	FeedbackSummary  []string `json:"feedbackSummary"`
	KeyPointsCovered []string `json:"keyPointsCovered"`
	KeyPointsMissing []string `json:"keyPointsMissing"`
	EvaluationReason string   `json:"evaluationReason"`
}

// EvaluationKind distinguishes how an evaluation was scored.
type EvaluationKind string

const (
	// KindMCQ is a multi-question answer-key comparison.
	KindMCQ EvaluationKind = "mcq"
	// KindSingle is a one-letter exact-match comparison.
	KindSingle EvaluationKind = "single"
	// KindKeyword is a keyword-overlap free-text comparison.
	KindKeyword EvaluationKind = "keyword"
)

// EvaluationRecord is a persisted evaluation, inputs and outcome together.
type EvaluationRecord struct {
	ID          int64            `json:"id"`
	Kind        EvaluationKind   `json:"kind"`
	ModelText   string           `json:"model_text"`
	StudentText string           `json:"student_text"`
	Score       int              `json:"score"`
	Total       int              `json:"total"`
	TotalMarks  int              `json:"total_marks"`
	Result      EvaluationResult `json:"result"`
	CreatedAt   time.Time        `json:"created_at"`
}
