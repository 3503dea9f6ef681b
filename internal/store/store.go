package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gradeassist/gradeassist/internal/model"

	_ "modernc.org/sqlite"
)

// Store wraps the sqlite database holding evaluation history, users and
// auth sessions.
type Store struct {
	db *sql.DB
}

// New opens (and if needed creates) the database at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS evaluations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		model_text TEXT NOT NULL,
		student_text TEXT NOT NULL,
		score INTEGER NOT NULL DEFAULT 0,
		total INTEGER NOT NULL DEFAULT 0,
		total_marks INTEGER NOT NULL DEFAULT 0,
		result_json TEXT NOT NULL DEFAULT '{}',
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'teacher',
		active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS auth_sessions (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		expires_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS grader_metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return s.SetMetadata("schema_version", "1")
}

// InsertEvaluation persists an evaluation and returns its id.
func (s *Store) InsertEvaluation(rec model.EvaluationRecord) (int64, error) {
	resultJSON, err := json.Marshal(rec.Result)
	if err != nil {
		return 0, fmt.Errorf("marshal result: %w", err)
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := s.db.Exec(
		`INSERT INTO evaluations (kind, model_text, student_text, score, total, total_marks, result_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Kind, rec.ModelText, rec.StudentText, rec.Score, rec.Total, rec.TotalMarks, string(resultJSON), createdAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const evaluationColumns = `id, kind, model_text, student_text, score, total, total_marks, result_json, created_at`

func scanEvaluation(row interface{ Scan(...any) error }) (model.EvaluationRecord, error) {
	var rec model.EvaluationRecord
	var resultJSON string
	err := row.Scan(&rec.ID, &rec.Kind, &rec.ModelText, &rec.StudentText,
		&rec.Score, &rec.Total, &rec.TotalMarks, &resultJSON, &rec.CreatedAt)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal([]byte(resultJSON), &rec.Result); err != nil {
		return rec, fmt.Errorf("unmarshal result for evaluation %d: %w", rec.ID, err)
	}
	return rec, nil
}

// GetEvaluation returns one evaluation by id.
func (s *Store) GetEvaluation(id int64) (model.EvaluationRecord, error) {
	row := s.db.QueryRow(`SELECT `+evaluationColumns+` FROM evaluations WHERE id = ?`, id)
	return scanEvaluation(row)
}

// ListEvaluations returns evaluations newest first, at most limit of
// them (limit <= 0 means all).
func (s *Store) ListEvaluations(limit int) ([]model.EvaluationRecord, error) {
	q := `SELECT ` + evaluationColumns + ` FROM evaluations ORDER BY id DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []model.EvaluationRecord
	for rows.Next() {
		rec, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// EvaluationCount returns the number of stored evaluations.
func (s *Store) EvaluationCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM evaluations`).Scan(&count)
	return count, err
}
