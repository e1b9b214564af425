package calls

import "time"

// CallRecord is the gateway's view of one outbound phone call as observed
// through provider webhooks.
//
// CallID is assigned by the provider at creation time and is immutable.
// Status is an open set: the provider may send intermediate statuses we have
// never seen, and they are stored verbatim. Only StatusEnded carries meaning
// here (it terminates bounded waits).

type CallRecord struct {
	CallID string `json:"callId"`

	Status string `json:"status"`

	// Transcript grows append-only for the life of the record, newline-joined
	// in arrival order. The end-of-call report may replace it wholesale with
	// the provider's final transcript.
	Transcript string `json:"transcript"`

	// Summary stays nil until the end-of-call report arrives.
	Summary *string `json:"summary"`

	RecordingURL string `json:"recordingUrl,omitempty"`

	LastUpdate time.Time `json:"lastUpdate"`

	// Lookup is write-once destination metadata captured at creation.
	Lookup *Lookup `json:"lookup,omitempty"`
}

// Lookup holds the destination captured when the call was placed.
type Lookup struct {
	Name   string `json:"name,omitempty"`
	Number string `json:"number,omitempty"`
}

const (
	StatusQueued     = "queued"
	StatusInProgress = "in-progress"
	StatusEnded      = "ended"
)

// Ended reports whether the record has reached the terminal status.
// Late patches may still land on an ended record; they are applied as usual.
func (r CallRecord) Ended() bool { return r.Status == StatusEnded }
