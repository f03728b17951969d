package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"meridian-hq/minos/pkg/audit"
	"meridian-hq/minos/pkg/config"
	"meridian-hq/minos/pkg/govern"
	"meridian-hq/minos/pkg/judge"
	"meridian-hq/minos/pkg/law/store"
	"meridian-hq/minos/pkg/provider"
	"meridian-hq/minos/pkg/revise"
	"meridian-hq/minos/pkg/sentinel"
	"meridian-hq/minos/pkg/trace"
)

type serverFixture struct {
	server  *Server
	storage *audit.MemoryStorage
}

func newTestServer(t *testing.T) *serverFixture {
	t.Helper()

	st, err := store.New(context.Background(), store.NewDefaultSource(), nil)
	if err != nil {
		t.Fatalf("store.New() failed: %v", err)
	}

	capability := provider.NewSimulated()
	sn := sentinel.New(nil)
	engine, err := govern.New(st, sn, judge.New(capability, nil), revise.New(capability, nil), govern.DefaultConfig(), nil, nil)
	if err != nil {
		t.Fatalf("govern.New() failed: %v", err)
	}

	storage := audit.NewMemoryStorage()
	recorder := audit.NewRecorder(storage, &audit.RecorderConfig{Buffer: 10, WriteTimeout: time.Second})
	t.Cleanup(func() { recorder.Close() })

	srv, err := New(Options{
		Config:   config.NewDefault().Server,
		Engine:   engine,
		Store:    st,
		Sentinel: sn,
		Recorder: recorder,
		Registry: prometheus.NewRegistry(),
		Version:  "test",
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return &serverFixture{server: srv, storage: storage}
}

func (f *serverFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.server.routes().ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ready" || body["version"] != "test" {
		t.Errorf("body = %v", body)
	}
	if body["law_version"] != store.DefaultVersion {
		t.Errorf("law_version = %q, want %q", body["law_version"], store.DefaultVersion)
	}
}

func TestServer_Laws(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodGet, "/laws", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var laws []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &laws); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(laws) != len(store.DefaultLaws()) {
		t.Errorf("len = %d, want %d", len(laws), len(store.DefaultLaws()))
	}
}

func TestServer_Sentinel(t *testing.T) {
	f := newTestServer(t)

	t.Run("blocked", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/govern/sentinel", `{"content": "delete the patient database"}`)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["status"] != "blocked" || body["law_id"] != "SEC.1" || body["evidence_span"] == "" {
			t.Errorf("body = %v", body)
		}
	})

	t.Run("allowed", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/govern/sentinel", `{"content": "summarize the trial"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("empty content", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/govern/sentinel", `{"content": ""}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("bad json", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/govern/sentinel", `{broken`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestServer_ComplianceCycle(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodPost, "/govern/compliance-cycle", `{
		"input_prompt": "Draft a dosage note",
		"input_draft": "We have a hunch the dosage should be doubled.",
		"context_tags": ["GxP"]
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result trace.ComplianceTrace
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode trace: %v", err)
	}
	if result.Status != trace.StatusRevised {
		t.Errorf("status = %s, want REVISED", result.Status)
	}
	if result.RoundsUsed != 2 || len(result.Critiques) != 2 {
		t.Errorf("rounds=%d critiques=%d, want 2/2", result.RoundsUsed, len(result.Critiques))
	}
	if result.Delta == "" {
		t.Error("delta is empty")
	}
}

func TestServer_ComplianceCycleRecordsTrace(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodPost, "/govern/compliance-cycle", `{"input_prompt": "clean prompt"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	// The recorder is asynchronous; poll briefly for the archive write.
	deadline := time.Now().Add(2 * time.Second)
	for f.storage.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if f.storage.Len() != 1 {
		t.Errorf("archive Len() = %d, want 1", f.storage.Len())
	}
}

func TestServer_ComplianceCycleErrors(t *testing.T) {
	f := newTestServer(t)

	t.Run("missing prompt", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/govern/compliance-cycle", `{"input_draft": "draft only"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("bad json", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/govern/compliance-cycle", `not json`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestServer_Metrics(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "missing prompt", err: govern.ErrMissingPrompt, want: http.StatusBadRequest},
		{name: "timeout", err: &provider.TimeoutError{Operation: "evaluate"}, want: http.StatusGatewayTimeout},
		{name: "provider failure", err: &provider.Error{Provider: "x", Operation: "evaluate"}, want: http.StatusBadGateway},
		{name: "invalid critique", err: &judge.InvalidCritiqueError{Reason: "bad"}, want: http.StatusBadGateway},
		{name: "anything else", err: context.Canceled, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusForError(tt.err); got != tt.want {
				t.Errorf("statusForError() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestServer_NewRequiresCollaborators(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("New() expected error for missing collaborators")
	}
}
