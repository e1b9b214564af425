package calls

import (
	"sync"
	"time"
)

// Store abstracts the call record store so handlers never touch the raw map.
//
// Concurrency contract: Upsert, Patch and Get are atomic with respect to each
// other for a given call id. A Patch applies as one indivisible merge; two
// concurrent patches never interleave field by field.

type Store interface {
	Upsert(rec CallRecord)
	Patch(callID string, p Patch)
	Get(callID string) (CallRecord, bool)
}

// Patch is a shallow merge-patch: nil fields are left untouched, set fields
// replace the prior value entirely. Transcript is pre-computed by the caller
// (previous transcript + new chunk) before patching; the store does no
// appending of its own.
type Patch struct {
	Status       *string
	Transcript   *string
	Summary      *string
	RecordingURL *string
}

// MemoryStore is the in-memory Store used by the gateway. State is volatile:
// a restart loses all call history, and completed records are never evicted.
type MemoryStore struct {
	mu   sync.Mutex
	recs map[string]CallRecord

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: map[string]CallRecord{}, Now: time.Now}
}

// Upsert inserts or fully replaces the record for rec.CallID. Provider call
// ids are unique, so a silent overwrite only happens on a duplicate create.
func (s *MemoryStore) Upsert(rec CallRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[rec.CallID] = rec
}

// Patch merges p into the record for callID and refreshes LastUpdate.
//
// Unknown ids are lazily materialized rather than dropped: a webhook can beat
// the call-creation response back to us, and silently losing that event would
// lose data. The cost is a stray minimal record for ids we never created.
func (s *MemoryStore) Patch(callID string, p Patch) {
	if callID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.recs[callID]
	if !ok {
		rec = CallRecord{CallID: callID}
	}
	if p.Status != nil {
		rec.Status = *p.Status
	}
	if p.Transcript != nil {
		rec.Transcript = *p.Transcript
	}
	if p.Summary != nil {
		rec.Summary = p.Summary
	}
	if p.RecordingURL != nil {
		rec.RecordingURL = *p.RecordingURL
	}
	rec.LastUpdate = s.Now()
	s.recs[callID] = rec
}

// Get returns a snapshot of the record, or ok=false if the id was never
// created nor lazily materialized.
func (s *MemoryStore) Get(callID string) (CallRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[callID]
	return rec, ok
}
