package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"codeberg.org/snonux/indictrans/internal/language"
	"codeberg.org/snonux/indictrans/internal/processor"
	"codeberg.org/snonux/indictrans/internal/testutil"
	"codeberg.org/snonux/indictrans/internal/translation"
)

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func newTestServer(t *testing.T) (*Server, *testutil.StubCompleter) {
	t.Helper()

	stub := testutil.NewStubCompleter()
	proc := processor.New(stub, processor.Options{
		Detect: func(string) string { return "en" },
	})
	return NewServer(proc, zerolog.Nop(), Options{}), stub
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Response is not JSON: %v\n%s", err, rec.Body.String())
	}
	return rec, env
}

func TestNewServer_Defaults(t *testing.T) {
	s, _ := newTestServer(t)

	if s.opts.Host != "127.0.0.1" || s.opts.Port != 8080 {
		t.Errorf("address = %s:%d, want 127.0.0.1:8080", s.opts.Host, s.opts.Port)
	}
	if s.opts.WriteTimeout <= s.opts.ReadTimeout {
		t.Errorf("write timeout %v should exceed read timeout %v", s.opts.WriteTimeout, s.opts.ReadTimeout)
	}
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t)

	rec, env := do(t, s, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK || env.Status != "success" {
		t.Fatalf("GET /api/health = %d %s", rec.Code, env.Status)
	}
}

func TestHandleLanguages(t *testing.T) {
	s, _ := newTestServer(t)

	rec, env := do(t, s, http.MethodGet, "/api/languages", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var data struct {
		Items []languageItem `json:"items"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(data.Items) != len(language.All()) {
		t.Fatalf("got %d languages, want %d", len(data.Items), len(language.All()))
	}

	selected := 0
	for _, item := range data.Items {
		if item.Selected {
			selected++
		}
	}
	if selected != 3 {
		t.Errorf("%d languages selected by default, want 3", selected)
	}
}

func TestHandleModels(t *testing.T) {
	s, _ := newTestServer(t)

	_, env := do(t, s, http.MethodGet, "/api/models", "")

	var data struct {
		Provider string   `json:"provider"`
		Default  string   `json:"default"`
		Items    []string `json:"items"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Provider != "openai" || data.Default != "gpt-4" || len(data.Items) != 2 {
		t.Errorf("models = %+v", data)
	}
}

func TestHandleTranslate(t *testing.T) {
	s, stub := newTestServer(t)
	stub.Translations[language.Hindi] = "  नमस्ते  "
	stub.Errors[language.Tamil] = errors.New("request timed out")

	rec, env := do(t, s, http.MethodPost, "/api/translate",
		`{"text":"Hello, how are you?","model":"gpt-3.5-turbo","languages":["Hindi","ta"]}`)
	if rec.Code != http.StatusOK || env.Status != "success" {
		t.Fatalf("POST /api/translate = %d %s: %s", rec.Code, env.Status, env.Message)
	}

	var item entryItem
	if err := json.Unmarshal(env.Data, &item); err != nil {
		t.Fatalf("decode data: %v", err)
	}

	if item.Model != "gpt-3.5-turbo" || item.Failed != 1 {
		t.Errorf("model=%s failed=%d", item.Model, item.Failed)
	}
	if item.Translations["Hindi"] != "नमस्ते" {
		t.Errorf("Hindi = %q", item.Translations["Hindi"])
	}
	if item.Translations["Tamil"] != "[Error translating to Tamil: request timed out]" {
		t.Errorf("Tamil = %q", item.Translations["Tamil"])
	}
	if len(item.Outcomes) != 2 || item.Outcomes[1].Error != "request timed out" {
		t.Errorf("outcomes = %+v", item.Outcomes)
	}
}

func TestHandleTranslate_DefaultLanguages(t *testing.T) {
	s, stub := newTestServer(t)

	rec, _ := do(t, s, http.MethodPost, "/api/translate", `{"text":"Good morning"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if stub.CallCount() != 3 {
		t.Errorf("CallCount() = %d, want 3", stub.CallCount())
	}
}

func TestHandleTranslate_Validation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"empty body", ``, "body"},
		{"malformed", `{"text":`, "body"},
		{"trailing content", `{"text":"a"} {}`, "body"},
		{"missing text", `{"model":"gpt-4"}`, "body"},
		{"empty text", `{"text":""}`, "text"},
		{"whitespace text", `{"text":"   "}`, "text"},
		{"wrong type", `{"text":42}`, "text"},
		{"unknown field", `{"text":"hi","tone":"formal"}`, "body"},
		{"empty languages", `{"text":"hi","languages":[]}`, "languages"},
		{"unknown language", `{"text":"hi","languages":["Klingon"]}`, "languages"},
		{"unknown model", `{"text":"hi","model":"gpt-2"}`, "model"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, stub := newTestServer(t)

			rec, env := do(t, s, http.MethodPost, "/api/translate", tt.body)
			if rec.Code != http.StatusBadRequest || env.Status != "fail" {
				t.Fatalf("status = %d %s, want 400 fail", rec.Code, env.Status)
			}

			var data struct {
				ValidationErrors map[string]string `json:"validation_errors"`
			}
			if err := json.Unmarshal(env.Data, &data); err != nil {
				t.Fatalf("decode data: %v", err)
			}
			if _, ok := data.ValidationErrors[tt.field]; !ok {
				t.Errorf("validation_errors = %v, want key %q", data.ValidationErrors, tt.field)
			}
			if stub.CallCount() != 0 {
				t.Errorf("invalid request issued %d calls", stub.CallCount())
			}
		})
	}
}

func TestHistoryEndpoints(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	for _, text := range []string{"one", "two", "three", "four", "five", "six"} {
		req := httptest.NewRequest(http.MethodPost, "/api/translate", strings.NewReader(`{"text":"`+text+`","languages":["Urdu"]}`))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("translate %q: status %d", text, rec.Code)
		}
	}

	_, env := do(t, s, http.MethodGet, "/api/history", "")
	var data struct {
		Items []entryItem `json:"items"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(data.Items) != 5 {
		t.Fatalf("history has %d items, want 5", len(data.Items))
	}
	if data.Items[0].Text != "six" || data.Items[0].Label != "Request 1 • Model: gpt-4" {
		t.Errorf("newest item = %q %q", data.Items[0].Text, data.Items[0].Label)
	}

	rec, env := do(t, s, http.MethodDelete, "/api/history", "")
	if rec.Code != http.StatusOK || env.Status != "success" {
		t.Fatalf("DELETE /api/history = %d %s", rec.Code, env.Status)
	}

	_, env = do(t, s, http.MethodGet, "/api/history", "")
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(data.Items) != 0 {
		t.Errorf("history has %d items after clear", len(data.Items))
	}
}

func TestNotFoundIsJSend(t *testing.T) {
	s, _ := newTestServer(t)

	rec, env := do(t, s, http.MethodGet, "/api/nope", "")
	if rec.Code != http.StatusNotFound || env.Status != "fail" {
		t.Errorf("GET /api/nope = %d %s, want 404 fail", rec.Code, env.Status)
	}
}

func TestExportHistory(t *testing.T) {
	s, stub := newTestServer(t)

	rec, env := do(t, s, http.MethodGet, "/api/history/export.csv", "")
	if rec.Code != http.StatusNotFound || env.Status != "fail" {
		t.Fatalf("export of empty history = %d %s, want 404 fail", rec.Code, env.Status)
	}

	stub.Errors[language.Tamil] = errors.New("quota exceeded")
	if rec, _ := do(t, s, http.MethodPost, "/api/translate", `{"text":"Good night"}`); rec.Code != http.StatusOK {
		t.Fatalf("translate status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/history/export.csv", nil)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}

	// Header plus Hindi and Telugu; Tamil failed
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d CSV lines, want 3:\n%s", len(lines), rec.Body.String())
	}
	if !strings.HasPrefix(lines[1], "Good night,Good night in Hindi,Hindi,") {
		t.Errorf("first row = %q", lines[1])
	}
}

func TestNewServer_WriteTimeoutCoversFanOut(t *testing.T) {
	tests := []struct {
		concurrency int
		timeout     time.Duration
		want        time.Duration
	}{
		{4, 60 * time.Second, 3*time.Minute + 30*time.Second},
		{1, 60 * time.Second, 12*time.Minute + 30*time.Second},
		{12, 10 * time.Second, 2 * time.Minute},
		{4, 0, 2 * time.Minute},
	}

	for _, tt := range tests {
		proc := processor.New(testutil.NewStubCompleter(), processor.Options{
			Concurrency: tt.concurrency,
			Timeout:     tt.timeout,
			Detect:      func(string) string { return "en" },
		})
		s := NewServer(proc, zerolog.Nop(), Options{})
		if s.opts.WriteTimeout != tt.want {
			t.Errorf("concurrency %d, timeout %v: WriteTimeout = %v, want %v",
				tt.concurrency, tt.timeout, s.opts.WriteTimeout, tt.want)
		}
	}
}

func TestHandleTranslate_RespondsBeforeWriteTimeout(t *testing.T) {
	// Requests never finish on their own and have no timeout of their own
	blocking := translation.CompleterFunc(func(ctx context.Context, _ translation.ChatRequest) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	proc := processor.New(blocking, processor.Options{
		Detect: func(string) string { return "en" },
	})
	s := NewServer(proc, zerolog.Nop(), Options{WriteTimeout: 300 * time.Millisecond})

	start := time.Now()
	rec, env := do(t, s, http.MethodPost, "/api/translate", `{"text":"Hello","languages":["hi","ta"]}`)
	if elapsed := time.Since(start); elapsed >= 300*time.Millisecond {
		t.Errorf("response took %v, longer than the write timeout", elapsed)
	}
	if rec.Code != http.StatusOK || env.Status != "success" {
		t.Fatalf("POST /api/translate = %d %s", rec.Code, env.Status)
	}

	var item entryItem
	if err := json.Unmarshal(env.Data, &item); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if item.Failed != 2 {
		t.Errorf("Failed = %d, want 2 contained failures", item.Failed)
	}
}
