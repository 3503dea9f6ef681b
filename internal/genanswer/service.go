package genanswer

import (
	"context"
	"log/slog"
	"time"
)

// Source records where a generated answer came from.
type Source string

const (
	SourceCache    Source = "cache"
	SourceLLM      Source = "llm"
	SourceTemplate Source = "template"
	SourceApology  Source = "fallback"
)

// Generator produces an answer for a question. *Client satisfies this;
// tests substitute stubs.
type Generator interface {
	GenerateAnswer(ctx context.Context, question, systemPrompt string) (string, error)
}

// Service wraps a Generator with caching, bounded retries and local
// fallbacks. The degradation order is cache, LLM (with retries),
// template table, apology string; Answer therefore always returns
// something usable.
type Service struct {
	llm        Generator
	cache      *Cache
	retries    int
	retryDelay time.Duration
}

// NewService creates a Service. retries is the number of attempts
// against the LLM (minimum 1); cache may not be nil.
func NewService(llm Generator, cache *Cache, retries int, retryDelay time.Duration) *Service {
	if retries < 1 {
		retries = 1
	}
	return &Service{llm: llm, cache: cache, retries: retries, retryDelay: retryDelay}
}

// Answer returns a model answer for the question and where it came from.
func (s *Service) Answer(ctx context.Context, question, systemPrompt string) (string, Source) {
	if a, ok := s.cache.Get(question); ok {
		return a, SourceCache
	}

	var lastErr error
	for attempt := 1; attempt <= s.retries; attempt++ {
		a, err := s.llm.GenerateAnswer(ctx, question, systemPrompt)
		if err == nil {
			s.cache.Put(question, a)
			return a, SourceLLM
		}
		lastErr = err
		slog.Warn("answer generation failed", "attempt", attempt, "error", err)

		if ctx.Err() != nil {
			break
		}
		if attempt < s.retries && s.retryDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(s.retryDelay):
			}
		}
	}
	slog.Error("answer generation exhausted retries", "error", lastErr)

	if a, ok := templateAnswer(question); ok {
		return a, SourceTemplate
	}
	return apologyAnswer, SourceApology
}
