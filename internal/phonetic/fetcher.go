package phonetic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"codeberg.org/snonux/indictrans/internal/anki"
	"codeberg.org/snonux/indictrans/internal/language"
	"codeberg.org/snonux/indictrans/internal/translation"
)

// ErrEmptyResponse is returned when the model replies with blank text
var ErrEmptyResponse = errors.New("empty pronunciation response")

// Fetcher handles fetching romanized pronunciations
type Fetcher struct {
	completer translation.Completer
	model     string
	timeout   time.Duration
	logger    zerolog.Logger
}

// NewFetcher creates a new pronunciation fetcher using model
func NewFetcher(completer translation.Completer, model string, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		completer: completer,
		model:     model,
		timeout:   30 * time.Second,
		logger:    logger,
	}
}

// Romanize returns a Latin-script pronunciation of text written in lang
func (f *Fetcher) Romanize(ctx context.Context, lang language.Language, text string) (string, error) {
	if f.completer == nil {
		return "", fmt.Errorf("no translation endpoint configured")
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req := translation.ChatRequest{
		Model: f.model,
		Messages: []translation.Message{
			{
				Role:    translation.RoleSystem,
				Content: "You are an expert in Indian languages helping learners read unfamiliar scripts. Reply with the romanized pronunciation only.",
			},
			{
				Role: translation.RoleUser,
				Content: fmt.Sprintf(`Transliterate the following %s text into the Latin alphabet as it is pronounced.
Use simple English spelling conventions, mark long vowels with a macron and do not translate.

%s text:
%s`, lang, lang, text),
			},
		},
		Temperature: 0.3,
	}

	resp, err := f.completer.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("pronunciation for %s: %w", lang, err)
	}

	pronunciation := strings.TrimSpace(resp)
	if pronunciation == "" {
		return "", ErrEmptyResponse
	}
	return pronunciation, nil
}

// AnnotateCards adds the pronunciation of each translation to the card notes.
// Cards whose pronunciation cannot be fetched are kept unchanged; the number
// of such cards is returned.
func (f *Fetcher) AnnotateCards(ctx context.Context, cards []anki.Card) ([]anki.Card, int) {
	out := make([]anki.Card, len(cards))
	copy(out, cards)

	failed := 0
	for i, card := range out {
		if ctx.Err() != nil {
			failed += len(out) - i
			break
		}

		pronunciation, err := f.Romanize(ctx, card.Language, card.Translation)
		if err != nil {
			f.logger.Warn().Err(err).Str("language", card.Language.String()).Msg("pronunciation failed")
			failed++
			continue
		}

		note := "Pronunciation: " + pronunciation
		if card.Notes != "" {
			note = card.Notes + "<br>" + note
		}
		out[i].Notes = note
	}

	return out, failed
}
