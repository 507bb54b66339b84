package translation

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"codeberg.org/snonux/indictrans/internal/language"
	"codeberg.org/snonux/indictrans/internal/prompt"
)

// recordingCompleter answers by target instruction and records every request
type recordingCompleter struct {
	mu       sync.Mutex
	requests []ChatRequest
	replies  map[string]string
	errs     map[string]error
}

func (r *recordingCompleter) Complete(_ context.Context, req ChatRequest) (string, error) {
	r.mu.Lock()
	r.requests = append(r.requests, req)
	r.mu.Unlock()

	user := req.Messages[len(req.Messages)-1].Content
	for instruction, err := range r.errs {
		if strings.Contains(user, "into "+instruction+".") {
			return "", err
		}
	}
	for instruction, reply := range r.replies {
		if strings.Contains(user, "into "+instruction+".") {
			return reply, nil
		}
	}
	return "ok", nil
}

func TestTranslateOne_Request(t *testing.T) {
	rec := &recordingCompleter{}
	d := NewDispatcher(rec)

	d.TranslateOne(context.Background(), "gpt-4", "  Hello  ", language.Urdu)

	if len(rec.requests) != 1 {
		t.Fatalf("Expected 1 request, got %d", len(rec.requests))
	}
	req := rec.requests[0]

	if req.Model != "gpt-4" {
		t.Errorf("Model = %q, want gpt-4", req.Model)
	}
	if req.Temperature != 0.2 {
		t.Errorf("Temperature = %v, want 0.2", req.Temperature)
	}

	want := []Message{
		{Role: RoleSystem, Content: "You are a helpful assistant."},
		{Role: RoleUser, Content: prompt.Build("Urdu using the Perso-Arabic script", "Hello")},
	}
	if !reflect.DeepEqual(req.Messages, want) {
		t.Errorf("Messages = %#v, want %#v", req.Messages, want)
	}
}

func TestTranslateOne_Trims(t *testing.T) {
	d := NewDispatcher(CompleterFunc(func(context.Context, ChatRequest) (string, error) {
		return "  hola  ", nil
	}))

	got := d.TranslateOne(context.Background(), "gpt-4", "hello", language.Hindi)
	if got.Err != nil {
		t.Fatalf("Unexpected error: %v", got.Err)
	}
	if got.Text != "hola" {
		t.Errorf("Text = %q, want %q", got.Text, "hola")
	}
}

func TestTranslateOne_EmptyReply(t *testing.T) {
	d := NewDispatcher(CompleterFunc(func(context.Context, ChatRequest) (string, error) {
		return "", nil
	}))

	got := d.TranslateOne(context.Background(), "gpt-4", "hello", language.Hindi)
	if !got.OK() {
		t.Errorf("Empty reply should be a success, got error %v", got.Err)
	}
	if got.Text != "" || got.Render() != "" {
		t.Errorf("Expected empty text, got %q", got.Text)
	}
}

func TestTranslateOne_ContainsError(t *testing.T) {
	d := NewDispatcher(CompleterFunc(func(context.Context, ChatRequest) (string, error) {
		return "", errors.New("rate limited")
	}))

	got := d.TranslateOne(context.Background(), "gpt-4", "hello", language.Bengali)
	if got.OK() {
		t.Fatal("Expected a contained failure")
	}
	if got.Render() != "[Error translating to Bengali: rate limited]" {
		t.Errorf("Render() = %q", got.Render())
	}
}

func TestTranslateOne_RequestTimeout(t *testing.T) {
	d := NewDispatcher(CompleterFunc(func(ctx context.Context, _ ChatRequest) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}), WithRequestTimeout(20*time.Millisecond))

	got := d.TranslateOne(context.Background(), "gpt-4", "hello", language.Tamil)
	if !errors.Is(got.Err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", got.Err)
	}
}

func TestTranslateMany_TotalCoverage(t *testing.T) {
	tests := []struct {
		name  string
		langs []language.Language
	}{
		{"single", []language.Language{language.Hindi}},
		{"default selection", language.DefaultSelection},
		{"all", language.All()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingCompleter{}
			d := NewDispatcher(rec, WithConcurrency(3))

			result := d.TranslateMany(context.Background(), "gpt-4", "hello", tt.langs)

			if !reflect.DeepEqual(result.Languages(), tt.langs) {
				t.Errorf("Languages() = %v, want %v", result.Languages(), tt.langs)
			}
			if len(rec.requests) != len(tt.langs) {
				t.Errorf("Expected %d requests, got %d", len(tt.langs), len(rec.requests))
			}
			if len(result.Rendered()) != len(tt.langs) {
				t.Errorf("Rendered() has %d keys, want %d", len(result.Rendered()), len(tt.langs))
			}
		})
	}
}

func TestTranslateMany_FailureContainment(t *testing.T) {
	rec := &recordingCompleter{
		replies: map[string]string{"Hindi": "नमस्ते", "Telugu": "నమస్తే"},
		errs: map[string]error{
			"Urdu using the Perso-Arabic script": errors.New("service unavailable"),
		},
	}
	d := NewDispatcher(rec)

	langs := []language.Language{language.Hindi, language.Urdu, language.Telugu}
	result := d.TranslateMany(context.Background(), "gpt-4", "hello", langs)

	if result.Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", result.Failed())
	}

	rendered := result.Rendered()
	if rendered["Hindi"] != "नमस्ते" || rendered["Telugu"] != "నమస్తే" {
		t.Errorf("Successful languages affected by failure: %v", rendered)
	}
	if !strings.Contains(rendered["Urdu"], "Urdu") || !strings.HasPrefix(rendered["Urdu"], "[Error translating to") {
		t.Errorf("Urdu should render as an error annotation, got %q", rendered["Urdu"])
	}
}

func TestTranslateMany_EmptyLanguages(t *testing.T) {
	calls := 0
	d := NewDispatcher(CompleterFunc(func(context.Context, ChatRequest) (string, error) {
		calls++
		return "x", nil
	}))

	result := d.TranslateMany(context.Background(), "gpt-4", "hello", nil)
	if result.Len() != 0 {
		t.Errorf("Expected empty result, got %d outcomes", result.Len())
	}
	if calls != 0 {
		t.Errorf("Expected no calls, got %d", calls)
	}
}

func TestTranslateMany_EndToEnd(t *testing.T) {
	timeout := errors.New("request timed out after 30s")
	rec := &recordingCompleter{
		replies: map[string]string{"Hindi": "नमस्ते"},
		errs:    map[string]error{"Tamil": timeout},
	}
	d := NewDispatcher(rec)

	result := d.TranslateMany(context.Background(), "gpt-4", "Hello, how are you?",
		[]language.Language{language.Hindi, language.Tamil})

	want := map[string]string{
		"Hindi": "नमस्ते",
		"Tamil": "[Error translating to Tamil: request timed out after 30s]",
	}
	if !reflect.DeepEqual(result.Rendered(), want) {
		t.Errorf("Rendered() = %v, want %v", result.Rendered(), want)
	}

	tamil, _ := result.Get(language.Tamil)
	if !errors.Is(tamil.Err, timeout) {
		t.Errorf("Tamil error = %v, want the completer's error", tamil.Err)
	}
}

func TestTranslateMany_Sequential(t *testing.T) {
	var order []string
	d := NewDispatcher(CompleterFunc(func(_ context.Context, req ChatRequest) (string, error) {
		user := req.Messages[1].Content
		for _, l := range language.All() {
			if strings.Contains(user, "into "+l.Instruction()+".") {
				order = append(order, l.String())
			}
		}
		return "x", nil
	}), WithConcurrency(1))

	d.TranslateMany(context.Background(), "gpt-4", "hello", language.All())

	if !reflect.DeepEqual(order, language.Names()) {
		t.Errorf("Sequential call order = %v, want %v", order, language.Names())
	}
}

func TestTranslateMany_ConcurrencyLimit(t *testing.T) {
	var inFlight, maxInFlight int32
	d := NewDispatcher(CompleterFunc(func(context.Context, ChatRequest) (string, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			seen := atomic.LoadInt32(&maxInFlight)
			if n <= seen || atomic.CompareAndSwapInt32(&maxInFlight, seen, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return "x", nil
	}), WithConcurrency(2))

	result := d.TranslateMany(context.Background(), "gpt-4", "hello", language.All())

	if result.Len() != 12 {
		t.Errorf("Expected 12 outcomes, got %d", result.Len())
	}
	if got := atomic.LoadInt32(&maxInFlight); got > 2 {
		t.Errorf("Max in-flight requests = %d, want <= 2", got)
	}
}

func TestWithConcurrency_IgnoresNonPositive(t *testing.T) {
	d := NewDispatcher(CompleterFunc(nil), WithConcurrency(0))
	if d.concurrency != DefaultConcurrency {
		t.Errorf("concurrency = %d, want %d", d.concurrency, DefaultConcurrency)
	}
}

func TestTranslateMany_PanicContained(t *testing.T) {
	completer := CompleterFunc(func(_ context.Context, req ChatRequest) (string, error) {
		if strings.Contains(req.Messages[1].Content, "into Tamil.") {
			var replies map[string]string
			replies["Tamil"] = "boom" // nil map write
		}
		return "ok", nil
	})

	langs := []language.Language{language.Hindi, language.Tamil, language.Telugu}
	for _, concurrency := range []int{1, 4} {
		d := NewDispatcher(completer, WithConcurrency(concurrency))
		result := d.TranslateMany(context.Background(), "gpt-4", "hello", langs)

		if result.Len() != 3 || result.Failed() != 1 {
			t.Fatalf("concurrency %d: Len() = %d, Failed() = %d; want 3 and 1", concurrency, result.Len(), result.Failed())
		}
		tamil, _ := result.Get(language.Tamil)
		if tamil.Err == nil || !strings.HasPrefix(tamil.Err.Error(), "panic: ") {
			t.Errorf("concurrency %d: Tamil error = %v, want panic error", concurrency, tamil.Err)
		}
		if hindi, _ := result.Get(language.Hindi); hindi.Text != "ok" {
			t.Errorf("concurrency %d: Hindi = %+v", concurrency, hindi)
		}
	}
}

func TestMaxDuration(t *testing.T) {
	tests := []struct {
		name        string
		concurrency int
		timeout     time.Duration
		languages   int
		want        time.Duration
	}{
		{"defaults, all languages", DefaultConcurrency, time.Minute, 12, 3 * time.Minute},
		{"partial last round", 5, time.Minute, 12, 3 * time.Minute},
		{"sequential", 1, 10 * time.Second, 3, 30 * time.Second},
		{"no timeout", 4, 0, 12, 0},
		{"no languages", 4, time.Minute, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDispatcher(&recordingCompleter{}, WithConcurrency(tt.concurrency), WithRequestTimeout(tt.timeout))
			if got := d.MaxDuration(tt.languages); got != tt.want {
				t.Errorf("MaxDuration(%d) = %v, want %v", tt.languages, got, tt.want)
			}
		})
	}
}
