// Package vapi is the adapter for the Vapi voice-call provider: the outbound
// REST client that places calls and the inbound webhook that feeds call
// events into the record store.
package vapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"omi-voice-gateway/internal/assistant"
	"omi-voice-gateway/internal/calls"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://api.vapi.ai"

var ErrNotConfigured = errors.New("vapi: missing api key or phone number id")

// Client places outbound calls via the Vapi REST API.
//
// Payload shaping only; no retries. If the deployment has a pre-provisioned
// assistant id, the call references it and passes per-call context through
// assistantOverrides.variableValues. Otherwise an inline assistant is built
// from the current assistant settings.
type Client struct {
	http     *resty.Client
	apiKey   string
	settings *assistant.Registry

	destName   string
	destNumber string
}

func NewClient(apiKey, baseURL string, settings *assistant.Registry, destName, destNumber string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)

	return &Client{
		http:       c,
		apiKey:     apiKey,
		settings:   settings,
		destName:   destName,
		destNumber: destNumber,
	}
}

type createCallResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// CreateCall implements calls.Provider.
func (c *Client) CreateCall(ctx context.Context, req calls.CreateCallRequest) (calls.CreatedCall, error) {
	s := c.settings.Get()
	if c.apiKey == "" || s.PhoneNumberID == "" {
		return calls.CreatedCall{}, ErrNotConfigured
	}

	payload := map[string]any{
		"phoneNumberId": s.PhoneNumberID,
		"customer":      map[string]any{"number": c.destNumber},
	}

	firstMessage := s.FirstMessage
	if req.UserName != "" {
		firstMessage = fmt.Sprintf("Hello, this is an automated assistant calling on behalf of %s.", req.UserName)
	}

	if s.AssistantID != "" {
		ctxMap := req.Context
		if ctxMap == nil {
			ctxMap = map[string]string{}
		}
		contextJSON, _ := json.Marshal(ctxMap)
		payload["assistantId"] = s.AssistantID
		payload["assistantOverrides"] = map[string]any{
			"variableValues": map[string]any{
				"userName":      req.UserName,
				"userPhoneE164": req.UserNumber,
				"businessName":  c.destName,
				"businessPhone": c.destNumber,
				"contextJson":   string(contextJSON),
				"omiText":       req.Message,
			},
			"firstMessage": firstMessage,
		}
	} else {
		payload["assistant"] = map[string]any{
			"name":         "Voice Gateway Caller",
			"firstMessage": firstMessage,
			"model": map[string]any{
				"provider": "openai",
				"model":    "gpt-4o",
				"messages": []map[string]any{
					{"role": "system", "content": s.SystemPrompt + "\n\nContext from user: " + req.Message},
				},
			},
			"voice": map[string]any{
				"provider": s.VoiceProvider,
				"voiceId":  s.VoiceID,
			},
			"transcriber": map[string]any{
				"provider": s.TranscriberProvider,
				"model":    s.TranscriberModel,
				"language": s.TranscriberLanguage,
			},
		}
	}

	var out createCallResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetBody(payload).
		SetResult(&out).
		SetError(&out).
		Post("/call/phone")
	if err != nil {
		return calls.CreatedCall{}, fmt.Errorf("vapi: create call: %w", err)
	}
	if resp.IsError() {
		msg := out.Message
		if msg == "" {
			msg = resp.Status()
		}
		return calls.CreatedCall{}, fmt.Errorf("vapi: create call failed: %s", msg)
	}
	if out.ID == "" {
		return calls.CreatedCall{}, errors.New("vapi: create call response missing id")
	}
	return calls.CreatedCall{ID: out.ID}, nil
}
