// Package summarize is a stateless passthrough to the OpenAI chat completions
// API for transcript summarization. No logic beyond prompt templating.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"

	defaultInstructions = "You are a helpful assistant that summarizes call transcripts. " +
		"Provide a clear, concise summary highlighting key points, action items, and important details."
)

var (
	ErrTranscriptRequired = errors.New("summarize: transcript is required")
	ErrNotConfigured      = errors.New("summarize: missing api key")
)

type Service struct {
	http   *resty.Client
	apiKey string
	model  string
}

func NewService(apiKey, baseURL, model string) *Service {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(60 * time.Second)

	return &Service{http: c, apiKey: apiKey, model: model}
}

// Usage reports token consumption for the completion, passed through to the
// client for cost visibility.
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

type Result struct {
	Summary string
	Usage   Usage
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Summarize sends the transcript to the LLM with either the caller's custom
// instructions or the default summarization prompt.
func (s *Service) Summarize(ctx context.Context, transcript, instructions string) (Result, error) {
	if transcript == "" {
		return Result{}, ErrTranscriptRequired
	}
	if s.apiKey == "" {
		return Result{}, ErrNotConfigured
	}
	if instructions == "" {
		instructions = defaultInstructions
	}

	req := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: instructions},
			{Role: "user", Content: "Please summarize the following transcript:\n\n" + transcript},
		},
		Temperature: 0.3,
		MaxTokens:   500,
	}

	var out chatResponse
	resp, err := s.http.R().
		SetContext(ctx).
		SetAuthToken(s.apiKey).
		SetBody(&req).
		SetResult(&out).
		SetError(&out).
		Post("/chat/completions")
	if err != nil {
		return Result{}, fmt.Errorf("summarize: completion request: %w", err)
	}
	if resp.IsError() {
		if out.Error != nil && out.Error.Message != "" {
			return Result{}, fmt.Errorf("summarize: completion failed: %s", out.Error.Message)
		}
		return Result{}, fmt.Errorf("summarize: completion failed: %s", resp.Status())
	}
	if len(out.Choices) == 0 {
		return Result{}, errors.New("summarize: completion returned no choices")
	}

	return Result{
		Summary: out.Choices[0].Message.Content,
		Usage: Usage{
			PromptTokens:     out.Usage.PromptTokens,
			CompletionTokens: out.Usage.CompletionTokens,
			TotalTokens:      out.Usage.TotalTokens,
		},
	}, nil
}
