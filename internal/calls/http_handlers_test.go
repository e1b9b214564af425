package calls

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := Handlers{Service: svc}
	r.POST("/api/call", h.CreateCall)
	r.GET("/api/call/:callId", h.GetCall)
	r.GET("/api/call/:callId/summary", h.GetSummary)
	return r
}

func TestCreateCall_MissingMessageRejectedBeforeSideEffects(t *testing.T) {
	store := NewMemoryStore()
	provider := &fakeProvider{id: "c1"}
	r := newTestRouter(NewService(store, provider, "Acme", "+15550001111"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/call", strings.NewReader(`{"user":{"name":"Pat"}}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if provider.calls != 0 {
		t.Fatalf("provider must not be contacted")
	}
	if _, ok := store.Get("c1"); ok {
		t.Fatalf("store must not be mutated")
	}
}

func TestCreateCall_ReturnsStatusURLAndLocation(t *testing.T) {
	store := NewMemoryStore()
	r := newTestRouter(NewService(store, &fakeProvider{id: "call-9"}, "Acme", "+15550001111"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/call",
		strings.NewReader(`{"message":"book a table","user":{"name":"Pat","phoneNumber":"+15559998888"}}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/api/call/call-9" {
		t.Fatalf("expected Location header, got %q", loc)
	}

	var body struct {
		CallID    string `json:"callId"`
		StatusURL string `json:"statusUrl"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if body.CallID != "call-9" || body.StatusURL != "/api/call/call-9" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestCreateCall_ProviderFailureIsBadGateway(t *testing.T) {
	store := NewMemoryStore()
	r := newTestRouter(NewService(store, &fakeProvider{err: context.DeadlineExceeded}, "Acme", "+15550001111"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/call", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}

func TestGetCall_NotFound(t *testing.T) {
	r := newTestRouter(NewService(NewMemoryStore(), &fakeProvider{}, "", ""))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/call/nope", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"error":"Not found"`) {
		t.Fatalf("expected Not found body, got %s", w.Body.String())
	}
}

func TestGetCall_Snapshot(t *testing.T) {
	store := NewMemoryStore()
	store.Upsert(CallRecord{CallID: "c1", Status: StatusInProgress, Transcript: "Hello"})
	r := newTestRouter(NewService(store, &fakeProvider{}, "", ""))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/call/c1", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Call     CallRecord `json:"call"`
		Waited   bool       `json:"waited"`
		TimedOut bool       `json:"timedOut"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if body.Call.Status != StatusInProgress || body.Waited || body.TimedOut {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestGetCall_WaitQueryTimesOut(t *testing.T) {
	store := NewMemoryStore()
	store.Upsert(CallRecord{CallID: "c1", Status: StatusInProgress})
	r := newTestRouter(NewService(store, &fakeProvider{}, "", ""))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/call/c1?wait=ended&timeout=1", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Waited   bool `json:"waited"`
		TimedOut bool `json:"timedOut"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !body.Waited || !body.TimedOut {
		t.Fatalf("expected a timed-out wait, got %+v", body)
	}
}

func TestGetSummary_NullUntilEndReport(t *testing.T) {
	store := NewMemoryStore()
	store.Upsert(CallRecord{CallID: "c1", Status: StatusInProgress})
	r := newTestRouter(NewService(store, &fakeProvider{}, "", ""))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/call/c1/summary", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != `{"summary":null}` {
		t.Fatalf("expected null summary, got %s", w.Body.String())
	}

	store.Patch("c1", Patch{Summary: strptr("Short call.")})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/call/c1/summary", nil))
	if !strings.Contains(w.Body.String(), "Short call.") {
		t.Fatalf("expected summary, got %s", w.Body.String())
	}
}
