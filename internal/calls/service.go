package calls

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrMessageRequired = errors.New("calls: message is required")
	ErrNotFound        = errors.New("calls: not found")
)

// Provider places outbound calls at the external voice provider.
// Implementations live in provider adapter packages (internal/vapi).
type Provider interface {
	CreateCall(ctx context.Context, req CreateCallRequest) (CreatedCall, error)
}

// CreateCallRequest is the provider-agnostic call request.
type CreateCallRequest struct {
	// Message is the free-text task the assistant should carry out.
	Message string

	// UserName and UserNumber identify the person the call is placed on
	// behalf of; both optional.
	UserName   string
	UserNumber string

	// Context is free-form key-value data passed through to the assistant.
	Context map[string]string
}

// CreatedCall is the provider's confirmation of a placed call.
type CreatedCall struct {
	ID string
}

const (
	// waitPollInterval is how often a bounded wait re-reads the store.
	waitPollInterval = 800 * time.Millisecond
	// maxWaitTimeout caps a bounded wait regardless of what the client asks.
	maxWaitTimeout = 60 * time.Second
)

// Service owns the call lifecycle: placing calls, seeding records and serving
// reads, including the bounded wait-for-completion.
type Service struct {
	store    Store
	provider Provider

	// Destination is fixed per deployment, not user supplied.
	destName   string
	destNumber string
}

func NewService(store Store, provider Provider, destName, destNumber string) *Service {
	return &Service{store: store, provider: provider, destName: destName, destNumber: destNumber}
}

// StartCall validates the request, places the call at the provider and seeds
// a queued record. The record is written only after the provider confirms, so
// we never invent call ids.
func (s *Service) StartCall(ctx context.Context, req CreateCallRequest) (string, error) {
	if strings.TrimSpace(req.Message) == "" {
		return "", ErrMessageRequired
	}
	if s.provider == nil {
		return "", errors.New("calls: provider not configured")
	}

	created, err := s.provider.CreateCall(ctx, req)
	if err != nil {
		return "", fmt.Errorf("calls: create call: %w", err)
	}

	s.store.Upsert(CallRecord{
		CallID:     created.ID,
		Status:     StatusQueued,
		LastUpdate: time.Now(),
		Lookup:     &Lookup{Name: s.destName, Number: s.destNumber},
	})
	return created.ID, nil
}

// GetCall is the point read.
func (s *Service) GetCall(callID string) (CallRecord, error) {
	rec, ok := s.store.Get(callID)
	if !ok {
		return CallRecord{}, ErrNotFound
	}
	return rec, nil
}

// GetSummary projects just the summary field; nil until the end-of-call
// report has arrived.
func (s *Service) GetSummary(callID string) (*string, error) {
	rec, ok := s.store.Get(callID)
	if !ok {
		return nil, ErrNotFound
	}
	return rec.Summary, nil
}

// WaitResult reports how a bounded wait concluded.
type WaitResult struct {
	Record CallRecord
	// Waited is false when the call degenerated to a point read.
	Waited bool
	// TimedOut is true when the wait hit its deadline before the record
	// reached the ended status.
	TimedOut bool
}

// WaitForEnded re-reads the record every poll interval until it reaches the
// ended status, the record disappears, the clamped timeout elapses, or ctx is
// canceled (client disconnect). The store is never locked while sleeping, so
// concurrent webhook patches proceed freely during the wait.
//
// timeout <= 0 degenerates to a point read; anything above the clamp is cut
// to 60 seconds.
func (s *Service) WaitForEnded(ctx context.Context, callID string, timeout time.Duration) (WaitResult, error) {
	if timeout > maxWaitTimeout {
		timeout = maxWaitTimeout
	}

	rec, ok := s.store.Get(callID)
	if !ok {
		return WaitResult{}, ErrNotFound
	}
	if timeout <= 0 || rec.Ended() {
		return WaitResult{Record: rec}, nil
	}

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(waitPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return WaitResult{Record: rec, Waited: true}, nil
		case <-ticker.C:
		}

		cur, ok := s.store.Get(callID)
		if !ok {
			// Record vanished mid-wait; report the last snapshot we had.
			return WaitResult{Record: rec, Waited: true}, nil
		}
		rec = cur
		if rec.Ended() {
			return WaitResult{Record: rec, Waited: true}, nil
		}
		if !time.Now().Before(deadline) {
			return WaitResult{Record: rec, Waited: true, TimedOut: true}, nil
		}
	}
}
