package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gradeassist/gradeassist/internal/genanswer"
	appI18n "github.com/gradeassist/gradeassist/internal/i18n"
	"github.com/gradeassist/gradeassist/internal/keyword"
	"github.com/gradeassist/gradeassist/internal/mcq"
	"github.com/gradeassist/gradeassist/internal/model"
	"github.com/gradeassist/gradeassist/internal/ocr"
	"github.com/gradeassist/gradeassist/internal/store"
)

// requiredFieldsMessage is the exact client-error body for a malformed
// evaluate-mcq request. External callers match on this string.
const requiredFieldsMessage = "model_answers and student_answers are required"

// OCRExtractor is the extraction boundary; *ocr.Client satisfies it.
type OCRExtractor interface {
	Extract(ctx context.Context, image []byte, lang string, doc ocr.DocType) (string, error)
}

// AnswerGenerator is the model-answer boundary; *genanswer.Service
// satisfies it.
type AnswerGenerator interface {
	Answer(ctx context.Context, question, systemPrompt string) (string, genanswer.Source)
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store *store.Store
	gen   AnswerGenerator
	ocr   OCRExtractor
}

// New creates a new Handler. gen and ocrClient may be nil when the
// corresponding provider is not configured; their endpoints then report
// service unavailability.
func New(s *store.Store, gen AnswerGenerator, ocrClient OCRExtractor) *Handler {
	return &Handler{store: s, gen: gen, ocr: ocrClient}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	r.Post("/api/evaluate-mcq", h.handleEvaluateMCQ)
	r.Post("/api/evaluate-answer", h.handleEvaluateAnswer)
	r.Post("/api/generate-answer", h.handleGenerateAnswer)
	r.Post("/api/ocr/extract", h.handleOCRExtract)
	r.Post("/api/login", h.handleLogin)
	r.Post("/api/logout", h.handleLogout)

	r.Group(func(pr chi.Router) {
		pr.Use(h.requireAuth)
		pr.Get("/api/history", h.handleHistoryList)
		pr.Get("/api/history/{id}", h.handleHistoryGet)
	})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type evaluateMCQRequest struct {
	ModelAnswers   *string `json:"model_answers"`
	StudentAnswers *string `json:"student_answers"`
	TotalMarks     int     `json:"total_marks"`
}

type evaluateMCQResponse struct {
	ID         int64                  `json:"id,omitempty"`
	Score      int                    `json:"score"`
	Total      int                    `json:"total"`
	Percentage int                    `json:"percentage"`
	Results    *mcq.ResultSet         `json:"results"`
	Evaluation model.EvaluationResult `json:"evaluation"`
}

func (h *Handler) handleEvaluateMCQ(w http.ResponseWriter, r *http.Request) {
	var req evaluateMCQRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, appI18n.T(r.Context(), "ErrInvalidJSON"))
		return
	}
	if req.ModelAnswers == nil || req.StudentAnswers == nil {
		respondError(w, http.StatusBadRequest, requiredFieldsMessage)
		return
	}

	res := mcq.Evaluate(*req.ModelAnswers, *req.StudentAnswers)
	eval := mcq.ToEvaluationResult(res, req.TotalMarks)

	id, err := h.store.InsertEvaluation(model.EvaluationRecord{
		Kind:        model.KindMCQ,
		ModelText:   *req.ModelAnswers,
		StudentText: *req.StudentAnswers,
		Score:       res.Score,
		Total:       res.Total,
		TotalMarks:  req.TotalMarks,
		Result:      eval,
	})
	if err != nil {
		// History is best effort; the evaluation itself succeeded.
		slog.Error("persist evaluation", "error", err)
	}

	respondJSON(w, http.StatusOK, evaluateMCQResponse{
		ID:         id,
		Score:      res.Score,
		Total:      res.Total,
		Percentage: mcq.Percentage(res),
		Results:    res.Results,
		Evaluation: eval,
	})
}

type evaluateAnswerRequest struct {
	ModelAnswer      string   `json:"model_answer"`
	StudentAnswer    string   `json:"student_answer"`
	QuestionKeywords []string `json:"question_keywords"`
	AnswerText       string   `json:"answer_text"`
	TotalMarks       int      `json:"total_marks"`
}

// isSingleOption reports whether s is exactly one option letter A-D.
func isSingleOption(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 1 {
		return false
	}
	c := s[0] &^ 0x20 // fold to upper
	return c >= 'A' && c <= 'D'
}

func (h *Handler) handleEvaluateAnswer(w http.ResponseWriter, r *http.Request) {
	var req evaluateAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, appI18n.T(r.Context(), "ErrInvalidJSON"))
		return
	}

	var (
		eval model.EvaluationResult
		rec  model.EvaluationRecord
	)
	switch {
	case isSingleOption(req.ModelAnswer):
		res := mcq.EvaluateSingle(req.ModelAnswer, req.StudentAnswer)
		eval = mcq.ToEvaluationResult(res, req.TotalMarks)
		rec = model.EvaluationRecord{
			Kind:        model.KindSingle,
			ModelText:   req.ModelAnswer,
			StudentText: req.StudentAnswer,
			Score:       res.Score,
			Total:       res.Total,
		}
	case len(req.QuestionKeywords) > 0:
		answer := req.AnswerText
		if answer == "" {
			answer = req.StudentAnswer
		}
		eval = keyword.Evaluate(req.QuestionKeywords, answer, req.TotalMarks)
		rec = model.EvaluationRecord{
			Kind:        model.KindKeyword,
			ModelText:   strings.Join(req.QuestionKeywords, ", "),
			StudentText: answer,
			Score:       len(eval.KeyPointsCovered),
			Total:       len(eval.KeyPointsCovered) + len(eval.KeyPointsMissing),
		}
	default:
		respondError(w, http.StatusBadRequest, "model_answer or question_keywords is required")
		return
	}

	rec.TotalMarks = req.TotalMarks
	rec.Result = eval
	if _, err := h.store.InsertEvaluation(rec); err != nil {
		slog.Error("persist evaluation", "error", err)
	}

	respondJSON(w, http.StatusOK, eval)
}

type generateAnswerRequest struct {
	Question     string `json:"question"`
	SystemPrompt string `json:"system_prompt"`
}

func (h *Handler) handleGenerateAnswer(w http.ResponseWriter, r *http.Request) {
	if h.gen == nil {
		respondError(w, http.StatusServiceUnavailable, "answer generation is not configured")
		return
	}

	var req generateAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, appI18n.T(r.Context(), "ErrInvalidJSON"))
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		respondError(w, http.StatusBadRequest, appI18n.T(r.Context(), "ErrQuestionRequired"))
		return
	}

	answer, source := h.gen.Answer(r.Context(), req.Question, req.SystemPrompt)
	respondJSON(w, http.StatusOK, map[string]string{
		"answer": answer,
		"source": string(source),
	})
}

type ocrExtractRequest struct {
	ImageBase64 string `json:"image_base64"`
	Language    string `json:"language"`
	DocType     string `json:"doc_type"`
}

func (h *Handler) handleOCRExtract(w http.ResponseWriter, r *http.Request) {
	if h.ocr == nil {
		respondError(w, http.StatusServiceUnavailable, "OCR is not configured")
		return
	}

	var req ocrExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, appI18n.T(r.Context(), "ErrInvalidJSON"))
		return
	}
	if req.ImageBase64 == "" {
		respondError(w, http.StatusBadRequest, appI18n.T(r.Context(), "ErrImageRequired"))
		return
	}
	if !ocr.ValidDocType(req.DocType) {
		respondError(w, http.StatusBadRequest, appI18n.T(r.Context(), "ErrInvalidDocType"))
		return
	}
	if _, err := ocr.NormalizeLang(req.Language); err != nil {
		respondError(w, http.StatusBadRequest, appI18n.T(r.Context(), "ErrInvalidLanguage"))
		return
	}

	image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		respondError(w, http.StatusBadRequest, appI18n.T(r.Context(), "ErrImageRequired"))
		return
	}

	text, err := h.ocr.Extract(r.Context(), image, req.Language, ocr.DocType(req.DocType))
	if err != nil {
		slog.Error("OCR extraction failed", "error", err)
		respondError(w, http.StatusBadGateway, "OCR extraction failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (h *Handler) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	if u := model.UserFromContext(r.Context()); u != nil {
		slog.Debug("history requested", "username", u.Username, "limit", limit)
	}

	recs, err := h.store.ListEvaluations(limit)
	if err != nil {
		slog.Error("list evaluations", "error", err)
		respondError(w, http.StatusInternalServerError, appI18n.T(r.Context(), "ErrInternal"))
		return
	}
	if recs == nil {
		recs = []model.EvaluationRecord{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"count":       len(recs),
		"evaluations": recs,
	})
}

func (h *Handler) handleHistoryGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid evaluation id")
		return
	}

	rec, err := h.store.GetEvaluation(id)
	if err != nil {
		respondError(w, http.StatusNotFound, appI18n.T(r.Context(), "ErrNotFound"))
		return
	}
	respondJSON(w, http.StatusOK, rec)
}
