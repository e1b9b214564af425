package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSummarize_RequiresTranscript(t *testing.T) {
	svc := NewService("key", "http://unused", "")
	if _, err := svc.Summarize(context.Background(), "", ""); !errors.Is(err, ErrTranscriptRequired) {
		t.Fatalf("expected ErrTranscriptRequired, got %v", err)
	}
}

func TestSummarize_RequiresAPIKey(t *testing.T) {
	svc := NewService("", "http://unused", "")
	if _, err := svc.Summarize(context.Background(), "hello", ""); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSummarize_PassthroughAndUsage(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices":[{"message":{"role":"assistant","content":"A short call about pizza."}}],
			"usage":{"prompt_tokens":40,"completion_tokens":12,"total_tokens":52}
		}`))
	}))
	defer srv.Close()

	svc := NewService("key", srv.URL, "")
	res, err := svc.Summarize(context.Background(), "Hello\nWorld", "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if res.Summary != "A short call about pizza." {
		t.Fatalf("unexpected summary: %q", res.Summary)
	}
	if res.Usage.TotalTokens != 52 {
		t.Fatalf("expected usage passthrough, got %+v", res.Usage)
	}

	if got.Model != defaultModel {
		t.Fatalf("expected default model, got %q", got.Model)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" {
		t.Fatalf("expected system+user messages, got %+v", got.Messages)
	}
	if got.Messages[0].Content != defaultInstructions {
		t.Fatalf("expected default instructions")
	}
	if got.Temperature != 0.3 || got.MaxTokens != 500 {
		t.Fatalf("unexpected sampling params: %+v", got)
	}
}

func TestSummarize_CustomInstructions(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}],"usage":{}}`))
	}))
	defer srv.Close()

	svc := NewService("key", srv.URL, "gpt-4o")
	if _, err := svc.Summarize(context.Background(), "hi", "Summarize in French."); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Model != "gpt-4o" {
		t.Fatalf("expected model override, got %q", got.Model)
	}
	if got.Messages[0].Content != "Summarize in French." {
		t.Fatalf("custom instructions must replace the default prompt")
	}
}

func TestSummarize_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	svc := NewService("key", srv.URL, "")
	if _, err := svc.Summarize(context.Background(), "hi", ""); err == nil {
		t.Fatalf("expected upstream error to surface")
	}
}
