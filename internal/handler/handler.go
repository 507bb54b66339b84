// Package handler provides the Lambda handler for indictrans. One invocation
// translates one text into the requested languages.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"codeberg.org/snonux/indictrans/internal/language"
	"codeberg.org/snonux/indictrans/internal/processor"
)

// Request is the input of one invocation.
type Request struct {
	Text      string   `json:"text"`
	Model     string   `json:"model,omitempty"`
	Languages []string `json:"languages,omitempty"`
}

// Response is the output of one invocation. Per-language failures are
// rendered into Translations; Error is only set for invalid requests.
type Response struct {
	ID           string            `json:"id,omitempty"`
	Model        string            `json:"model,omitempty"`
	Translations map[string]string `json:"translations,omitempty"`
	Failed       int               `json:"failed"`
	Error        string            `json:"error,omitempty"`
}

// Handler translates Lambda requests with a processor that lives as long as
// the execution environment.
type Handler struct {
	proc *processor.Processor
}

// New creates a handler over proc.
func New(proc *processor.Processor) *Handler {
	return &Handler{proc: proc}
}

// Invoke is the Lambda entry point. It answers warm-up events without
// touching the translation endpoint.
func (h *Handler) Invoke(ctx context.Context, event json.RawMessage) (interface{}, error) {
	// Warmup detection (must be first)
	if warmup, ok := IsWarmupEvent(event); ok {
		return HandleWarmup(ctx, warmup)
	}

	var req Request
	if err := json.Unmarshal(event, &req); err != nil {
		return nil, fmt.Errorf("invalid event: %w", err)
	}

	return h.Handle(ctx, req)
}

// Handle processes a translation request.
func (h *Handler) Handle(ctx context.Context, req Request) (*Response, error) {
	langs, err := resolveLanguages(req.Languages, h.proc.DefaultLanguages())
	if err != nil {
		return &Response{Error: err.Error()}, nil
	}

	entry, err := h.proc.Translate(ctx, processor.Request{
		Text:      req.Text,
		Model:     req.Model,
		Languages: langs,
	})
	if err != nil {
		if isRequestError(err) {
			return &Response{Error: err.Error()}, nil
		}
		return nil, err
	}

	return &Response{
		ID:           entry.ID,
		Model:        entry.Model,
		Translations: entry.Result.Rendered(),
		Failed:       entry.Result.Failed(),
	}, nil
}

// resolveLanguages parses requested names, falling back to defaults when
// none are given.
func resolveLanguages(names []string, defaults []language.Language) ([]language.Language, error) {
	if len(names) == 0 {
		return defaults, nil
	}
	return language.ParseList(names)
}

func isRequestError(err error) bool {
	return errors.Is(err, processor.ErrEmptyText) ||
		errors.Is(err, processor.ErrNoLanguages) ||
		errors.Is(err, processor.ErrUnknownModel)
}
