package vapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"omi-voice-gateway/internal/calls"
	"omi-voice-gateway/pkg/logger"

	"github.com/gin-gonic/gin"
)

// WebhookHandler ingests asynchronous call events from Vapi and applies the
// minimal patch each event implies to the call record store.
//
// The payload shape varies by event kind and has changed across provider
// versions, so every field is extracted by probing an ordered list of
// candidate paths, first non-empty wins. Events that cannot be classified or
// associated with a call id are acknowledged and dropped.
//
// This endpoint must never return a non-2xx for a parseable payload: a
// dropped webhook is preferable to triggering the provider's retry loop.

type WebhookHandler struct {
	Store calls.Store
}

// Handle processes one provider event. Any internal fault is logged and the
// event is still acknowledged with 200 {"ok":true}.
func (h WebhookHandler) Handle(c *gin.Context) {
	log := logger.FromGin(c)

	defer func() {
		if r := recover(); r != nil {
			log.Error("vapi webhook panic absorbed", "panic", r)
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}()

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		log.Warn("vapi webhook body read failed", "err", err)
		return
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Warn("vapi webhook malformed json", "err", err)
		return
	}

	h.process(payload, log)
}

func (h WebhookHandler) process(payload map[string]any, log *slog.Logger) {
	kind := eventType(payload)
	callID := extractCallID(payload)
	if callID == "" {
		log.Warn("vapi webhook without call id", "type", kind)
		return
	}

	var p calls.Patch
	switch kind {
	case "status", "session.updated":
		p = statusPatch(payload)
	case "transcript", "transcript.part":
		p = h.transcriptPatch(callID, payload)
	case "end-of-call-report":
		p = endOfCallPatch(payload)
	default:
		// Unknown kinds are acknowledged without a patch so new provider
		// event types never break ingestion.
		log.Info("vapi webhook ignored", "type", kind, "call_id", callID)
		return
	}

	if p == (calls.Patch{}) {
		return
	}
	h.Store.Patch(callID, p)
	log.Info("vapi webhook applied", "type", kind, "call_id", callID)
}

// statusPatch carries the provider status string verbatim (the status set is
// open) and opportunistically picks up a recording URL.
func statusPatch(payload map[string]any) calls.Patch {
	var p calls.Patch
	if s := firstString(payload,
		[]string{"message", "status"},
		[]string{"status"},
		[]string{"message", "call", "status"},
	); s != "" {
		p.Status = &s
	}
	if u := recordingURL(payload); u != "" {
		p.RecordingURL = &u
	}
	return p
}

// transcriptPatch appends the new chunk to the previously accumulated
// transcript. The merged text is pre-computed here; the store does a plain
// field replacement.
func (h WebhookHandler) transcriptPatch(callID string, payload map[string]any) calls.Patch {
	chunk := chunkText(firstValue(payload,
		[]string{"message", "transcript"},
		[]string{"transcript"},
	))
	if chunk == "" {
		return calls.Patch{}
	}

	combined := chunk
	if prev, ok := h.Store.Get(callID); ok && prev.Transcript != "" {
		combined = prev.Transcript + "\n" + chunk
	}
	return calls.Patch{Transcript: &combined}
}

// endOfCallPatch marks the record terminal. The summary falls back to the
// notes field, then to a fixed placeholder; the accumulated transcript is
// replaced only when the report carries a final one.
func endOfCallPatch(payload map[string]any) calls.Patch {
	status := calls.StatusEnded

	summary := firstString(payload,
		[]string{"message", "summary"},
		[]string{"message", "analysis", "summary"},
		[]string{"summary"},
		[]string{"message", "notes"},
		[]string{"notes"},
	)
	if summary == "" {
		summary = "No summary."
	}

	p := calls.Patch{Status: &status, Summary: &summary}

	if final := chunkText(firstValue(payload,
		[]string{"message", "transcript"},
		[]string{"message", "artifact", "transcript"},
		[]string{"transcript"},
	)); final != "" {
		p.Transcript = &final
	}
	if u := recordingURL(payload); u != "" {
		p.RecordingURL = &u
	}
	return p
}

// eventType reads the event discriminator. The nested message wrapper wins
// over the top-level field when both are present.
func eventType(payload map[string]any) string {
	return firstString(payload,
		[]string{"message", "type"},
		[]string{"type"},
	)
}

// extractCallID probes the known call id locations in order.
func extractCallID(payload map[string]any) string {
	return firstString(payload,
		[]string{"message", "call", "id"},
		[]string{"call", "id"},
		[]string{"message", "session", "id"},
	)
}

func recordingURL(payload map[string]any) string {
	return firstString(payload,
		[]string{"message", "recordingUrl"},
		[]string{"message", "artifact", "recordingUrl"},
		[]string{"recordingUrl"},
		[]string{"message", "call", "recordingUrl"},
	)
}

// chunkText flattens a transcript value: either a plain string, or an ordered
// list of message objects each contributing its text field, newline-joined.
func chunkText(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if s, ok := m["text"].(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, "\n")
	default:
		return ""
	}
}

// firstValue walks each candidate path through nested maps and returns the
// first value present.
func firstValue(payload map[string]any, paths ...[]string) any {
	for _, path := range paths {
		var cur any = payload
		ok := true
		for _, key := range path {
			m, isMap := cur.(map[string]any)
			if !isMap {
				ok = false
				break
			}
			cur = m[key]
			if cur == nil {
				ok = false
				break
			}
		}
		if ok {
			return cur
		}
	}
	return nil
}

// firstString is firstValue restricted to non-empty strings.
func firstString(payload map[string]any, paths ...[]string) string {
	for _, path := range paths {
		if s, ok := firstValue(payload, path).(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
