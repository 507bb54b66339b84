package models

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"strings"
	"testing"
)

func TestNewLister(t *testing.T) {
	lister := NewLister("test-api-key", "")

	if lister == nil {
		t.Fatal("NewLister returned nil")
	}

	if lister.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", lister.apiKey)
	}

	if lister.client == nil {
		t.Error("OpenAI client not initialized")
	}
}

func TestListAvailableModels_NoAPIKey(t *testing.T) {
	lister := NewLister("", "")

	err := lister.ListAvailableModels(context.Background(), &bytes.Buffer{})
	if err == nil {
		t.Error("Expected error for missing API key")
	}

	expectedError := "OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .indictrans.yaml"
	if err.Error() != expectedError {
		t.Errorf("Expected error '%s', got: %v", expectedError, err)
	}
}

func newModelsServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[
			{"id":"gpt-4","object":"model"},
			{"id":"tts-1","object":"model"},
			{"id":"gpt-3.5-turbo","object":"model"},
			{"id":"dall-e-3","object":"model"},
			{"id":"gpt-4o-mini-tts","object":"model"},
			{"id":"gpt-4o","object":"model"},
			{"id":"text-embedding-3-small","object":"model"}
		]}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestChatModels(t *testing.T) {
	server := newModelsServer(t)
	lister := NewLister("test-key", server.URL+"/v1/")

	got, err := lister.ChatModels(context.Background())
	if err != nil {
		t.Fatalf("ChatModels failed: %v", err)
	}

	want := []string{"gpt-3.5-turbo", "gpt-4", "gpt-4o"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ChatModels() = %v, want %v", got, want)
	}
}

func TestListAvailableModels_MarksSupported(t *testing.T) {
	server := newModelsServer(t)
	lister := NewLister("test-key", server.URL+"/v1")

	var out bytes.Buffer
	if err := lister.ListAvailableModels(context.Background(), &out); err != nil {
		t.Fatalf("ListAvailableModels failed: %v", err)
	}

	for _, line := range []string{"* gpt-4\n", "* gpt-3.5-turbo\n", "  gpt-4o\n"} {
		if !strings.Contains(out.String(), line) {
			t.Errorf("Expected output to contain %q, got:\n%s", line, out.String())
		}
	}
	if strings.Contains(out.String(), "dall-e-3") {
		t.Error("Image models should not be listed")
	}
}

func TestIsChatModel(t *testing.T) {
	tests := map[string]bool{
		"gpt-4":                  true,
		"gpt-3.5-turbo":          true,
		"chatgpt-4o-latest":      true,
		"gpt-4o-mini-tts":        false,
		"gpt-4o-audio-preview":   false,
		"gpt-image-1":            false,
		"dall-e-3":               false,
		"text-embedding-3-small": false,
	}

	for id, want := range tests {
		if got := isChatModel(id); got != want {
			t.Errorf("isChatModel(%q) = %v, want %v", id, got, want)
		}
	}
}

func TestListAvailableModels_Integration(t *testing.T) {
	// Skip if no API key
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	lister := NewLister(apiKey, "")

	// This test just verifies the method runs without error
	var out bytes.Buffer
	err := lister.ListAvailableModels(context.Background(), &out)
	if err != nil {
		t.Errorf("ListAvailableModels failed: %v", err)
	}
}
