package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"codeberg.org/snonux/indictrans/internal/language"
	"codeberg.org/snonux/indictrans/internal/translation"
)

// StubCompleter mocks a translation endpoint. Replies are keyed by target
// language, recognised from the instruction in the user prompt.
type StubCompleter struct {
	Translations map[language.Language]string
	Errors       map[language.Language]error

	mu    sync.Mutex
	calls []translation.ChatRequest
}

// NewStubCompleter creates a stub replying "<text> in <Language>" by default
func NewStubCompleter() *StubCompleter {
	return &StubCompleter{
		Translations: make(map[language.Language]string),
		Errors:       make(map[language.Language]error),
	}
}

// Complete mocks a chat completion
func (s *StubCompleter) Complete(ctx context.Context, req translation.ChatRequest) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	lang, text, ok := targetOf(req)
	if !ok {
		return "", fmt.Errorf("stub: no target language in request")
	}

	if err, ok := s.Errors[lang]; ok {
		return "", err
	}
	if reply, ok := s.Translations[lang]; ok {
		return reply, nil
	}

	// Default mock translation
	return fmt.Sprintf("%s in %s", text, lang), nil
}

// Calls returns a copy of the recorded requests
func (s *StubCompleter) Calls() []translation.ChatRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]translation.ChatRequest(nil), s.calls...)
}

// CallCount returns the number of recorded requests
func (s *StubCompleter) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// targetOf finds the language whose instruction appears in the last user
// message and returns the English text at the end of the prompt
func targetOf(req translation.ChatRequest) (language.Language, string, bool) {
	var user string
	for _, m := range req.Messages {
		if m.Role == translation.RoleUser {
			user = m.Content
		}
	}

	for _, lang := range language.All() {
		if strings.Contains(user, "into "+lang.Instruction()+".") {
			_, text, _ := strings.Cut(user, "English text:\n")
			return lang, text, true
		}
	}
	return 0, "", false
}
