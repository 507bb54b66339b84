package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/indictrans/internal/translation"
)

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister. baseURL may point at an OpenAI
// compatible API; empty uses the default endpoint.
func NewLister(apiKey, baseURL string) *Lister {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
	}
}

// ChatModels returns the sorted IDs of chat capable models
func (l *Lister) ChatModels(ctx context.Context) ([]string, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .indictrans.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var chatModels []string
	for _, model := range models.Models {
		if isChatModel(model.ID) {
			chatModels = append(chatModels, model.ID)
		}
	}
	sort.Strings(chatModels)
	return chatModels, nil
}

// ListAvailableModels prints the chat models, marking the supported ones
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	chatModels, err := l.ChatModels(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Available OpenAI chat models (* = supported for translation):")
	if len(chatModels) == 0 {
		fmt.Fprintln(w, "  No chat models found")
		return nil
	}

	for _, model := range chatModels {
		marker := " "
		if translation.IsKnownModel(translation.ProviderOpenAI, model) {
			marker = "*"
		}
		fmt.Fprintf(w, "  %s %s\n", marker, model)
	}

	fmt.Fprintf(w, "\nSupported: %s\n", strings.Join(translation.Models(translation.ProviderOpenAI), ", "))
	return nil
}

// isChatModel filters out audio, image, embedding and moderation models
func isChatModel(id string) bool {
	if !strings.Contains(id, "gpt") && !strings.Contains(id, "chat") {
		return false
	}
	for _, skip := range []string{"tts", "audio", "realtime", "transcribe", "image", "search"} {
		if strings.Contains(id, skip) {
			return false
		}
	}
	return true
}
