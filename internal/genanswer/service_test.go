package genanswer

import (
	"context"
	"errors"
	"testing"
	"time"
)

// stubGenerator fails a configurable number of times before succeeding.
type stubGenerator struct {
	calls    int
	failures int
	answer   string
}

func (s *stubGenerator) GenerateAnswer(_ context.Context, question, _ string) (string, error) {
	s.calls++
	if s.calls <= s.failures {
		return "", errors.New("backend unavailable")
	}
	return s.answer, nil
}

func TestServiceAnswerFromLLM(t *testing.T) {
	gen := &stubGenerator{answer: "42"}
	svc := NewService(gen, NewCache(time.Hour, newFakeClock().now), 3, 0)

	got, src := svc.Answer(context.Background(), "What is the answer?", "")
	if got != "42" || src != SourceLLM {
		t.Fatalf("Answer = %q, %s; want 42 from llm", got, src)
	}
	if gen.calls != 1 {
		t.Errorf("calls = %d, want 1", gen.calls)
	}
}

func TestServiceAnswerCached(t *testing.T) {
	gen := &stubGenerator{answer: "cached value"}
	svc := NewService(gen, NewCache(time.Hour, newFakeClock().now), 3, 0)

	svc.Answer(context.Background(), "Q", "")
	got, src := svc.Answer(context.Background(), "Q", "")
	if src != SourceCache || got != "cached value" {
		t.Fatalf("second call = %q, %s; want cache hit", got, src)
	}
	if gen.calls != 1 {
		t.Errorf("LLM called %d times, want 1", gen.calls)
	}
}

func TestServiceRetries(t *testing.T) {
	gen := &stubGenerator{failures: 2, answer: "eventually"}
	svc := NewService(gen, NewCache(time.Hour, newFakeClock().now), 3, 0)

	got, src := svc.Answer(context.Background(), "Q", "")
	if got != "eventually" || src != SourceLLM {
		t.Fatalf("Answer = %q, %s", got, src)
	}
	if gen.calls != 3 {
		t.Errorf("calls = %d, want 3", gen.calls)
	}
}

func TestServiceTemplateFallback(t *testing.T) {
	gen := &stubGenerator{failures: 100}
	svc := NewService(gen, NewCache(time.Hour, newFakeClock().now), 2, 0)

	got, src := svc.Answer(context.Background(), "What is photosynthesis?", "")
	if src != SourceTemplate {
		t.Fatalf("source = %s, want template", src)
	}
	if got == "" || got == apologyAnswer {
		t.Errorf("expected canned answer, got %q", got)
	}
	if gen.calls != 2 {
		t.Errorf("calls = %d, want 2 (retry budget)", gen.calls)
	}
}

func TestServiceApologyFallback(t *testing.T) {
	gen := &stubGenerator{failures: 100}
	svc := NewService(gen, NewCache(time.Hour, newFakeClock().now), 2, 0)

	got, src := svc.Answer(context.Background(), "Explain quantum chromodynamics", "")
	if src != SourceApology || got != apologyAnswer {
		t.Fatalf("Answer = %q, %s; want apology", got, src)
	}
}

func TestServiceFailureNotCached(t *testing.T) {
	gen := &stubGenerator{failures: 1, answer: "ok now"}
	svc := NewService(gen, NewCache(time.Hour, newFakeClock().now), 1, 0)

	_, src := svc.Answer(context.Background(), "Explain entropy", "")
	if src != SourceApology {
		t.Fatalf("first call source = %s, want apology", src)
	}

	// The failure must not poison the cache; the next call reaches the
	// now-healthy LLM.
	got, src := svc.Answer(context.Background(), "Explain entropy", "")
	if got != "ok now" || src != SourceLLM {
		t.Errorf("second call = %q, %s; want llm recovery", got, src)
	}
}

func TestServiceContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &stubGenerator{failures: 100}
	svc := NewService(gen, NewCache(time.Hour, newFakeClock().now), 5, time.Millisecond)

	_, src := svc.Answer(ctx, "Q", "")
	if src != SourceApology {
		t.Fatalf("source = %s, want apology on cancelled context", src)
	}
	if gen.calls != 1 {
		t.Errorf("calls = %d, want 1 (no retries after cancel)", gen.calls)
	}
}
