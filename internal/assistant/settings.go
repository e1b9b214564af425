// Package assistant holds the mutable, in-process voice assistant settings.
// Like the call store, this state is volatile and lost on restart.
package assistant

import "sync"

// Settings is what the Vapi client needs to build a call payload: either a
// pre-provisioned assistant id, or the pieces of an inline assistant.
type Settings struct {
	PhoneNumberID string `json:"phoneNumber"`
	AssistantID   string `json:"assistantId"`

	SystemPrompt string `json:"systemPrompt"`
	FirstMessage string `json:"firstMessage"`

	VoiceProvider string `json:"voiceProvider"`
	VoiceID       string `json:"voiceId"`

	TranscriberProvider string `json:"transcriberProvider"`
	TranscriberModel    string `json:"transcriberModel"`
	TranscriberLanguage string `json:"transcriberLanguage"`
}

const defaultSystemPrompt = "You are a helpful AI voice assistant calling a business on behalf of a user. " +
	"Be friendly, efficient and conversational. State the user's request clearly, answer the business's " +
	"questions from the context you were given, and confirm the outcome before ending the call."

// Defaults returns the baseline settings, optionally seeded with configured
// phone number and assistant ids.
func Defaults(phoneNumberID, assistantID string) Settings {
	return Settings{
		PhoneNumberID:       phoneNumberID,
		AssistantID:         assistantID,
		SystemPrompt:        defaultSystemPrompt,
		FirstMessage:        "Hello, this is an automated assistant calling on behalf of a customer.",
		VoiceProvider:       "11labs",
		VoiceID:             "rachel",
		TranscriberProvider: "deepgram",
		TranscriberModel:    "nova-2",
		TranscriberLanguage: "en-US",
	}
}

// Registry guards the settings for concurrent read/update from handlers and
// the Vapi client.
type Registry struct {
	mu sync.RWMutex
	s  Settings
}

func NewRegistry(s Settings) *Registry { return &Registry{s: s} }

func (r *Registry) Get() Settings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s
}

// Update applies a partial update; empty fields in p leave the current value
// in place, except AssistantID which may be cleared explicitly.
func (r *Registry) Update(p Update) Settings {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.PhoneNumberID != nil {
		r.s.PhoneNumberID = *p.PhoneNumberID
	}
	if p.AssistantID != nil {
		r.s.AssistantID = *p.AssistantID
	}
	if p.SystemPrompt != nil && *p.SystemPrompt != "" {
		r.s.SystemPrompt = *p.SystemPrompt
	}
	if p.FirstMessage != nil && *p.FirstMessage != "" {
		r.s.FirstMessage = *p.FirstMessage
	}
	return r.s
}

// Update mirrors Settings with optional fields for partial updates.
type Update struct {
	PhoneNumberID *string `json:"phoneNumber"`
	AssistantID   *string `json:"assistantId"`
	SystemPrompt  *string `json:"systemPrompt"`
	FirstMessage  *string `json:"firstMessage"`
}
